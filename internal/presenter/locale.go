package presenter

import (
	"os"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Locale holds resolved formatting conventions for dates and numbers.
type Locale struct {
	tag     language.Tag
	printer *message.Printer
}

// DetectLocale resolves the user's locale from environment variables.
// Falls back to en-US if nothing is set or parseable.
func DetectLocale() Locale {
	raw := os.Getenv("LC_ALL")
	if raw == "" {
		raw = os.Getenv("LC_TIME")
	}
	if raw == "" {
		raw = os.Getenv("LANG")
	}
	return NewLocale(raw)
}

// NewLocale creates a Locale from a POSIX locale string (e.g. "de_DE.UTF-8")
// or BCP 47 tag (e.g. "de-DE"). Returns en-US for empty or unparseable input.
func NewLocale(raw string) Locale {
	// Strip encoding suffix: "en_US.UTF-8" → "en_US"
	if idx := strings.IndexByte(raw, '.'); idx != -1 {
		raw = raw[:idx]
	}
	// POSIX uses underscore, BCP 47 uses dash
	raw = strings.ReplaceAll(raw, "_", "-")

	tag, _ := language.Parse(raw)
	if tag == language.Und {
		tag = language.AmericanEnglish
	}

	return Locale{
		tag:     tag,
		printer: message.NewPrinter(tag),
	}
}

// FormatDate formats a time.Time as a locale-appropriate date string.
func (l Locale) FormatDate(t time.Time) string {
	return t.Format(l.dateLayout())
}

// FormatNumber formats a float64 with locale-appropriate grouping and
// decimal separators.
func (l Locale) FormatNumber(v float64) string {
	if v == float64(int64(v)) {
		return l.printer.Sprint(number.Decimal(int64(v)))
	}
	return l.printer.Sprint(number.Decimal(v, number.MaxFractionDigits(2)))
}

// Tag returns the resolved language tag.
func (l Locale) Tag() language.Tag {
	return l.tag
}

// dateLayout returns a Go time layout for the locale's preferred date
// format, by region first, then by language.
func (l Locale) dateLayout() string {
	region, _ := l.tag.Region()
	if layout, ok := dateLayouts[region.String()]; ok {
		return layout
	}

	base, _ := l.tag.Base()
	if layout, ok := dateLayoutsByLang[base.String()]; ok {
		return layout
	}
	return layoutMDY
}

// Date layout constants using Go's reference time.
const (
	layoutMDY    = "Jan 2, 2006" // US: Jan 15, 2026
	layoutDMY    = "2 Jan 2006"  // UK/EU: 15 Jan 2026
	layoutYMD    = "2006-01-02"  // ISO: 2026-01-15
	layoutDMYDot = "2. Jan 2006" // DE/AT: 15. Jan 2026
)

// dateLayouts maps ISO 3166-1 region codes to Go date layouts.
var dateLayouts = map[string]string{
	"US": layoutMDY,
	"PH": layoutMDY,

	"GB": layoutDMY,
	"AU": layoutDMY,
	"NZ": layoutDMY,
	"IE": layoutDMY,
	"IN": layoutDMY,
	"FR": layoutDMY,
	"ES": layoutDMY,
	"IT": layoutDMY,
	"PT": layoutDMY,
	"BR": layoutDMY,
	"NL": layoutDMY,
	"MX": layoutDMY,
	"PL": layoutDMY,
	"TR": layoutDMY,
	"DK": layoutDMY,
	"NO": layoutDMY,
	"SE": layoutDMY,
	"FI": layoutDMY,

	"DE": layoutDMYDot,
	"AT": layoutDMYDot,
	"CH": layoutDMYDot,

	"JP": layoutYMD,
	"CN": layoutYMD,
	"KR": layoutYMD,
	"TW": layoutYMD,
	"HU": layoutYMD,
	"CA": layoutYMD,
}

// dateLayoutsByLang provides fallbacks when region is unknown.
var dateLayoutsByLang = map[string]string{
	"en": layoutMDY,
	"de": layoutDMYDot,
	"fr": layoutDMY,
	"es": layoutDMY,
	"it": layoutDMY,
	"pt": layoutDMY,
	"nl": layoutDMY,
	"da": layoutDMY,
	"nb": layoutDMY,
	"sv": layoutDMY,
	"fi": layoutDMY,
	"pl": layoutDMY,
	"tr": layoutDMY,
	"ja": layoutYMD,
	"zh": layoutYMD,
	"ko": layoutYMD,
}
