package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateSearchToken(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "blank", in: "   ", want: ""},
		{name: "single word", in: "Apple", want: "apple"},
		{name: "plural s", in: "Bananas", want: "banana"},
		{name: "accents and stopword", in: "Café com Leite", want: "cafe leite"},
		{name: "oes suffix", in: "Limões", want: "lim"},
		{name: "eis suffix wins over is", in: "Papéis", want: "pap"},
		{name: "english stopwords", in: "The Lord of the Rings", want: "lord ring"},
		{name: "punctuation collapses", in: "  Hello,   World!  ", want: "hello world"},
		{name: "dash and slash split", in: "São-Paulo/SP", want: "sao paulo sp"},
		{name: "only stopwords", in: "das", want: ""},
		{name: "stacked suffixes fold fully", in: "Cases", want: "ca"},
		{name: "digits kept", in: "123 abc", want: "123 abc"},
		{name: "non word runes dropped", in: "c™at", want: "cat"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GenerateSearchToken(tt.in))
		})
	}
}

func TestGenerateSearchTokenIdempotent(t *testing.T) {
	inputs := []string{
		"", "Apple", "Ações da Bolsa", "Papéis e Canetas", "Cases",
		"İstanbul", "straße", "naïve café", "o¡", "Rio de Janeiro - RJ",
		"Detalhes: 10 unidades;", "ns", "isis",
	}
	for _, in := range inputs {
		once := GenerateSearchToken(in)
		assert.Equal(t, once, GenerateSearchToken(once), "input %q", in)
	}
}

func TestPluralFoldRepeatsUntilStable(t *testing.T) {
	tests := []struct {
		in         string
		singlePass string
		want       string
	}{
		{in: "glass", singlePass: "glas", want: "gla"},
		{in: "glasses", singlePass: "glass", want: "gla"},
		{in: "cases", singlePass: "cas", want: "ca"},
		{in: "apple", singlePass: "apple", want: "apple"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.singlePass, pluralSuffix.ReplaceAllString(tt.in, ""))
			assert.Equal(t, tt.want, GenerateSearchToken(tt.in))
			assert.Equal(t, tt.want, GenerateSearchToken(tt.singlePass))
		})
	}
}

func TestRemoveAccents(t *testing.T) {
	assert.Equal(t, "Acao", RemoveAccents("Ação"))
	assert.Equal(t, "plain", RemoveAccents("plain"))
	assert.Equal(t, "ø", RemoveAccents("ø"))
}

func TestTokens(t *testing.T) {
	assert.Equal(t, []string{"lord", "ring"}, Tokens("The Lord of the Rings"))
	assert.Empty(t, Tokens(""))
}
