package handlers

import (
	"unicode"

	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/entity"
)

// DetectLanguage returns Hindi when Devanagari letters outnumber Latin ones.
func DetectLanguage(text string) entity.Language {
	var devanagari, latin int
	for _, r := range text {
		switch {
		case unicode.Is(unicode.Devanagari, r):
			devanagari++
		case unicode.Is(unicode.Latin, r):
			latin++
		}
	}

	if devanagari > 0 && devanagari >= latin {
		return entity.LanguageHindi
	}
	return entity.LanguageEnglish
}
