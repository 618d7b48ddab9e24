package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTranslate_English(t *testing.T) {
	assert.Equal(t, "No rides found", Translate("rides.empty", "en"))
}

func TestTranslate_Afrikaans(t *testing.T) {
	assert.Equal(t, "Geen ritte gevind nie", Translate("rides.empty", "af"))
}

func TestTranslate_FallsBackToEnglish_UnknownLang(t *testing.T) {
	assert.Equal(t, "No rides found", Translate("rides.empty", "zu"))
}

func TestTranslate_EmptyLang_UsesEnglish(t *testing.T) {
	assert.Equal(t, "Try again", Translate("rides.retry", ""))
}

func TestTranslate_UnknownKey_ReturnsKey(t *testing.T) {
	assert.Equal(t, "no.such.key", Translate("no.such.key", "en"))
}

func TestTranslate_WithArgs(t *testing.T) {
	assert.Equal(t, "Showing 2 of 5 posts", T("rides.count", 2, 5))
	assert.Equal(t, "Could not load rides: boom", T("rides.error.generic", "boom"))
}

func TestTranslations_EveryKeyHasEnglish(t *testing.T) {
	for key, langs := range translations {
		_, ok := langs[DefaultLang]
		assert.True(t, ok, "key %s has no English text", key)
	}
}

func TestLangFromAcceptLanguage(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"", "en"},
		{"af-ZA,af;q=0.9,en;q=0.8", "af"},
		{"en-ZA,en;q=0.9", "en"},
		{"zu-ZA, af;q=0.5", "af"},
		{"fr-FR", "en"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, LangFromAcceptLanguage(tt.header), tt.header)
	}
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		amount float64
		code   string
		want   string
	}{
		{120, "ZAR", "R120.00"},
		{85.5, "ZAR", "R85.50"},
		{15.5, "USD", "$15.50"},
		{40, "LSL", "40.00 L"},
		{150, "XYZ", "150.00 XYZ"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatAmount(tt.amount, tt.code))
	}
}
