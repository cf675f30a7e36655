package entity

import (
	"strings"

	"golang.org/x/text/language"
)

// Language is a static reference value describing a learnable language.
type Language struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	Flag       string `json:"flag"`
	NativeName string `json:"nativeName"`
}

// DefaultTutorLanguage is used when a learner has not picked a language yet.
var DefaultTutorLanguage = Language{Code: "es", Name: "Spanish", Flag: "🇪🇸", NativeName: "Español"}

// NativeLanguage is the interface language of the app.
var NativeLanguage = Language{Code: "en", Name: "English", Flag: "🇺🇸", NativeName: "English"}

var languages = []Language{
	{Code: "es", Name: "Spanish", Flag: "🇪🇸", NativeName: "Español"},
	{Code: "fr", Name: "French", Flag: "🇫🇷", NativeName: "Français"},
	{Code: "de", Name: "German", Flag: "🇩🇪", NativeName: "Deutsch"},
	{Code: "it", Name: "Italian", Flag: "🇮🇹", NativeName: "Italiano"},
	{Code: "pt", Name: "Portuguese", Flag: "🇧🇷", NativeName: "Português"},
	{Code: "ja", Name: "Japanese", Flag: "🇯🇵", NativeName: "日本語"},
	{Code: "ko", Name: "Korean", Flag: "🇰🇷", NativeName: "한국어"},
	{Code: "zh", Name: "Chinese", Flag: "🇨🇳", NativeName: "中文"},
	{Code: "ru", Name: "Russian", Flag: "🇷🇺", NativeName: "Русский"},
	{Code: "ar", Name: "Arabic", Flag: "🇸🇦", NativeName: "العربية"},
}

// Languages returns the catalog of supported target languages.
func Languages() []Language {
	out := make([]Language, len(languages))
	copy(out, languages)
	return out
}

// NormalizeLanguageCode reduces a BCP 47 tag such as "es-MX" or "zh_Hant" to
// its base language code. It returns an empty string for unparsable input.
func NormalizeLanguageCode(code string) string {
	code = strings.TrimSpace(strings.ReplaceAll(code, "_", "-"))
	if code == "" {
		return ""
	}
	tag, err := language.Parse(code)
	if err != nil {
		return ""
	}
	base, _ := tag.Base()
	return base.String()
}

// LookupLanguage resolves a code against the catalog.
func LookupLanguage(code string) (Language, bool) {
	normalized := NormalizeLanguageCode(code)
	for _, lang := range languages {
		if lang.Code == normalized {
			return lang, true
		}
	}
	return Language{}, false
}

// ParseLanguage is like LookupLanguage but reports ErrUnsupportedLanguage.
func ParseLanguage(code string) (Language, error) {
	lang, ok := LookupLanguage(code)
	if !ok {
		return Language{}, ErrUnsupportedLanguage
	}
	return lang, nil
}
