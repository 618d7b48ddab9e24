// Package i18n provides the user facing strings of the site.
// Language resolution order: requested language → "en".
// Translations are compiled into the binary.
package i18n

import (
	"fmt"
	"strings"
)

// Fallback language used when a key or language is not found.
const DefaultLang = "en"

// Translate returns a localized string for key in lang.
// Extra args are passed to fmt.Sprintf if the translation contains format verbs.
// Falls back to English if lang is unsupported or key is missing.
func Translate(key, lang string, args ...interface{}) string {
	if lang == "" {
		lang = DefaultLang
	}

	langMap, ok := translations[key]
	if !ok {
		// Key entirely unknown: return the key itself so nothing is silently swallowed.
		return key
	}

	tmpl, ok := langMap[lang]
	if !ok {
		tmpl, ok = langMap[DefaultLang]
		if !ok {
			return key
		}
	}

	if len(args) == 0 {
		return tmpl
	}
	return fmt.Sprintf(tmpl, args...)
}

// T translates key in the default language
func T(key string, args ...interface{}) string {
	return Translate(key, DefaultLang, args...)
}

// LangFromAcceptLanguage picks the first supported language from an Accept-Language header
func LangFromAcceptLanguage(header string) string {
	for _, part := range strings.Split(header, ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		base := strings.ToLower(strings.SplitN(tag, "-", 2)[0])
		if _, ok := supported[base]; ok {
			return base
		}
	}
	return DefaultLang
}
