package option

import (
	"encoding/json"
	"fmt"

	"github.com/muurk/fieldkit/internal/search"
)

// Option is a selectable entry supplied by the host.
type Option struct {
	Value      string `json:"value" yaml:"value"`
	Text       string `json:"text" yaml:"text"`
	DetailText string `json:"detailText,omitempty" yaml:"detailText,omitempty"`
}

// Record is a raw option as it arrives from a host or a server, before
// its fields have been picked out by Keys.
type Record map[string]any

// Keys names the Record fields that hold the value, text and detail text.
type Keys struct {
	Value  string
	Text   string
	Detail string
}

// DefaultKeys is used for any Keys field left empty.
var DefaultKeys = Keys{Value: "value", Text: "text", Detail: "detailText"}

func (k Keys) withDefaults() Keys {
	if k.Value == "" {
		k.Value = DefaultKeys.Value
	}
	if k.Text == "" {
		k.Text = DefaultKeys.Text
	}
	if k.Detail == "" {
		k.Detail = DefaultKeys.Detail
	}
	return k
}

// NormalizedOption is an Option with its search tokens precomputed.
type NormalizedOption struct {
	Value                 string
	Text                  string
	DetailText            string
	TextSearchToken       string
	DetailTextSearchToken string
}

// Option returns the plain option.
func (n NormalizedOption) Option() Option {
	return Option{Value: n.Value, Text: n.Text, DetailText: n.DetailText}
}

// Normalized builds the normalized projection of o.
func (o Option) Normalized() NormalizedOption {
	return NormalizedOption{
		Value:                 Single(o.Value).String(),
		Text:                  o.Text,
		DetailText:            o.DetailText,
		TextSearchToken:       search.GenerateSearchToken(o.Text),
		DetailTextSearchToken: search.GenerateSearchToken(o.DetailText),
	}
}

// NormalizeRecords re-keys and tokenizes records. A nil slice yields nil so
// callers can tell "no list" from "empty list". Nil or empty records are
// skipped.
func NormalizeRecords(records []Record, keys Keys) []NormalizedOption {
	if records == nil {
		return nil
	}
	keys = keys.withDefaults()
	out := make([]NormalizedOption, 0, len(records))
	for _, r := range records {
		if len(r) == 0 {
			continue
		}
		o := Option{
			Value:      Normalize(r[keys.Value], false).String(),
			Text:       stringify(r[keys.Text]),
			DetailText: stringify(r[keys.Detail]),
		}
		out = append(out, o.Normalized())
	}
	return out
}

// NormalizeOptions tokenizes typed options. A nil slice yields nil.
func NormalizeOptions(opts []Option) []NormalizedOption {
	if opts == nil {
		return nil
	}
	out := make([]NormalizedOption, len(opts))
	for i, o := range opts {
		out[i] = o.Normalized()
	}
	return out
}

// Find returns the first option whose value is v.
func Find(opts []NormalizedOption, v string) (NormalizedOption, bool) {
	for _, o := range opts {
		if o.Value == v {
			return o, true
		}
	}
	return NormalizedOption{}, false
}

// FindByText returns the first option whose display text equals text
// exactly.
func FindByText(opts []NormalizedOption, text string) (NormalizedOption, bool) {
	for _, o := range opts {
		if o.Text == text {
			return o, true
		}
	}
	return NormalizedOption{}, false
}

// FindByToken returns the first option whose text folds to the same
// search token as text. It ignores case, accents and plural endings.
func FindByToken(opts []NormalizedOption, text string) (NormalizedOption, bool) {
	token := search.GenerateSearchToken(text)
	if token == "" {
		return NormalizedOption{}, false
	}
	for _, o := range opts {
		if o.TextSearchToken == token {
			return o, true
		}
	}
	return NormalizedOption{}, false
}

// DecodeRecords parses a JSON array of objects into records.
func DecodeRecords(data []byte) ([]Record, error) {
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to decode option records: %w", err)
	}
	return records, nil
}
