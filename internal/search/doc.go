// Package search folds option text into comparable search tokens and
// filters candidates against a folded query.
//
// GenerateSearchToken is the single normalization used on both sides of a
// comparison. It lowercases, strips diacritics, splits on a fixed set of
// punctuation and whitespace, drops Portuguese and English function words
// and applies a naive plural fold:
//
//	search.GenerateSearchToken("Ações da Bolsa")  // "ac bolsa"
//	search.GenerateSearchToken("  ")              // ""
//
// Filter keeps candidates by substring containment (the default) or ranks
// them with github.com/sahilm/fuzzy.
package search
