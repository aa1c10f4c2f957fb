package search

import (
	"regexp"
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// separators is the fixed character class option text is split on.
const separators = " \t\n\r\f\v,.;:!?()[]{}\"'`/\\|<>+=*&^%$#@~-_"

// pluralSuffix is the naive plural fold. Matching is leftmost, so for a
// word ending in "oes" the whole "oes" goes rather than the trailing "s".
var pluralSuffix = regexp.MustCompile(`(ns|oes|eis|is|ies|es|s)$`)

// Stopwords are dropped from search tokens. Entries are stored folded
// (lowercase, no diacritics) because they are compared after folding.
var Stopwords = map[string]struct{}{
	// Portuguese articles, prepositions and contractions
	"a": {}, "o": {}, "as": {}, "os": {},
	"um": {}, "uma": {}, "uns": {}, "umas": {},
	"de": {}, "da": {}, "do": {}, "das": {}, "dos": {},
	"em": {}, "na": {}, "no": {}, "nas": {}, "nos": {},
	"num": {}, "numa": {}, "dum": {}, "duma": {},
	"ao": {}, "aos": {}, "pelo": {}, "pela": {}, "pelos": {}, "pelas": {},
	"com": {}, "por": {}, "para": {}, "pra": {}, "e": {}, "ou": {},
	// English
	"the": {}, "an": {}, "and": {}, "or": {}, "of": {}, "in": {},
	"on": {}, "at": {}, "to": {}, "for": {}, "with": {}, "by": {},
}

var chainPool = sync.Pool{
	New: func() any {
		return transform.Chain(
			norm.NFD,
			runes.Remove(runes.In(unicode.Mn)),
			norm.NFC,
		)
	},
}

// RemoveAccents strips combining diacritics from s. Characters without a
// decomposition, such as "ø", are left untouched.
func RemoveAccents(s string) string {
	if isASCII(s) {
		return s
	}
	t := chainPool.Get().(transform.Transformer)
	defer func() {
		t.Reset()
		chainPool.Put(t)
	}()
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// GenerateSearchToken folds text into the canonical form used for
// substring matching: lowercase, unaccented, stopwords removed, plural
// suffixes stripped, words joined by one space.
//
// The plural fold is a heuristic and will mangle some singular words
// ("lapis" becomes "lap"). Both sides of every comparison go through the
// same function so matching stays consistent. The fold is repeated until
// no suffix applies, which keeps the function idempotent.
func GenerateSearchToken(text string) string {
	if text == "" {
		return ""
	}
	folded := RemoveAccents(strings.ToLower(text))
	words := strings.FieldsFunc(folded, isSeparator)

	kept := words[:0]
	for _, w := range words {
		if w = stem(w); w != "" {
			kept = append(kept, w)
		}
	}
	return strings.Join(kept, " ")
}

// Tokens returns the individual words of GenerateSearchToken(text).
func Tokens(text string) []string {
	return strings.Fields(GenerateSearchToken(text))
}

func stem(w string) string {
	for {
		w = stripNonWord(w)
		if _, stop := Stopwords[w]; stop || w == "" {
			return ""
		}
		next := pluralSuffix.ReplaceAllString(w, "")
		if next == w {
			return w
		}
		w = next
	}
}

func stripNonWord(w string) string {
	clean := true
	for _, r := range w {
		if !isWordRune(r) {
			clean = false
			break
		}
	}
	if clean {
		return w
	}
	return strings.Map(func(r rune) rune {
		if isWordRune(r) {
			return r
		}
		return -1
	}, w)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isSeparator(r rune) bool {
	return unicode.IsSpace(r) || strings.ContainsRune(separators, r)
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}
