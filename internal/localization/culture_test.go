package localization

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	c, err := Parse("fr-CA")
	require.NoError(t, err)
	assert.Equal(t, French, c)

	c, err = Parse("en")
	require.NoError(t, err)
	assert.Equal(t, English, c)

	_, err = Parse("not a tag!")
	require.Error(t, err)
}

func TestFromAcceptLanguage(t *testing.T) {
	tests := []struct {
		header string
		want   Culture
	}{
		{"", English},
		{"fr-FR,fr;q=0.9,en;q=0.8", French},
		{"en-US,en;q=0.9", English},
		{"de-DE", English},
		{";;;", English},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			assert.Equal(t, tt.want, FromAcceptLanguage(tt.header, English))
		})
	}

	assert.Equal(t, French, FromAcceptLanguage("de-DE", French))
}

func TestNormalizeDecimal(t *testing.T) {
	assert.Equal(t, "10,50", English.NormalizeDecimal("10,50"))
	assert.Equal(t, "10.50", French.NormalizeDecimal("10,50"))
	assert.Equal(t, "10.50", French.NormalizeDecimal("10.50"))
	assert.Equal(t, "1,000,50", French.NormalizeDecimal("1,000,50"))
	assert.Equal(t, "1.000,50", French.NormalizeDecimal("1.000,50"))
	assert.Equal(t, "10", Invariant.NormalizeDecimal("10"))
}

func TestCatalogLocalize(t *testing.T) {
	cat := NewCatalog()

	assert.Equal(t, "Please enter a name", cat.Localize(English, "ErrorMissingName"))
	assert.Equal(t, "Veuillez saisir un nom", cat.Localize(French, "ErrorMissingName"))
	assert.Equal(t, "Please enter a name", cat.Localize(Invariant, "ErrorMissingName"))
	assert.Equal(t, "SomethingElse", cat.Localize(French, "SomethingElse"))
}
