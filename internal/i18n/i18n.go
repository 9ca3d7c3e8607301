// Package i18n selects message printers for CLI output and API responses.
package i18n

import (
	"net/http"
	"os"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultLang is the fallback language
var DefaultLang = language.English

var supported = []language.Tag{
	language.English,
	language.German,
}

var matcher = language.NewMatcher(supported)

// MatchLanguage returns the best supported language for an Accept-Language value.
func MatchLanguage(accept string) language.Tag {
	tags, _, _ := language.ParseAcceptLanguage(accept)
	tag, _, _ := matcher.Match(tags...)
	return tag
}

// NewCLIPrinter returns a printer for the locale named by LC_ALL or LANG.
func NewCLIPrinter() *message.Printer {
	lang := os.Getenv("LC_ALL")
	if lang == "" {
		lang = os.Getenv("LANG")
	}
	if lang == "" {
		return message.NewPrinter(DefaultLang)
	}

	// "en_US.UTF-8" -> "en_US"
	if i := strings.Index(lang, "."); i != -1 {
		lang = lang[:i]
	}

	tag, err := language.Parse(lang)
	if err != nil {
		return message.NewPrinter(MatchLanguage(lang))
	}
	tag, _, _ = matcher.Match(tag)
	return message.NewPrinter(tag)
}

// RequestPrinter returns a printer for the request's Accept-Language header.
func RequestPrinter(r *http.Request) *message.Printer {
	return message.NewPrinter(MatchLanguage(r.Header.Get("Accept-Language")))
}
