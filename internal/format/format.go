// Package format renders values for Turkish-speaking shop owners and customers.
package format

import (
	"regexp"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	turkishLower  = cases.Lower(language.Turkish)
	turkishFolder = strings.NewReplacer(
		"ç", "c", "ğ", "g", "ı", "i", "ö", "o", "ş", "s", "ü", "u",
	)
	nonSlugChars = regexp.MustCompile(`[^a-z0-9\s-]`)
	whitespace   = regexp.MustCompile(`\s+`)
	dashRuns     = regexp.MustCompile(`-+`)
	nonDigits    = regexp.MustCompile(`\D`)

	istanbul = loadLocation("Europe/Istanbul")
)

func loadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.FixedZone("TRT", 3*60*60)
	}
	return loc
}

// Location is the time zone shops operate in.
func Location() *time.Location {
	return istanbul
}

// Currency renders an amount as Turkish lira with two decimals, e.g. ₺1.234,50.
func Currency(amount decimal.Decimal) string {
	value, _ := amount.Round(2).Float64()
	sign := ""
	if value < 0 {
		sign = "-"
		value = -value
	}
	return sign + "₺" + message.NewPrinter(language.Turkish).Sprintf("%.2f", value)
}

// Slug turns a shop name into a URL segment, folding Turkish letters to ASCII.
func Slug(text string) string {
	slug := turkishFolder.Replace(turkishLower.String(text))
	slug = nonSlugChars.ReplaceAllString(slug, "")
	slug = whitespace.ReplaceAllString(strings.TrimSpace(slug), "-")
	slug = dashRuns.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// NameKey folds a name for case-insensitive comparison under Turkish casing
// rules, so "İsot" and "isot" share a key while "Isırgan" and "isırgan" do not.
func NameKey(name string) string {
	return turkishLower.String(strings.TrimSpace(name))
}

// Phone groups a ten digit Turkish mobile number as (5xx) xxx xx xx. Other
// inputs are returned unchanged.
func Phone(phone string) string {
	digits := nonDigits.ReplaceAllString(phone, "")
	if len(digits) != 10 {
		return phone
	}
	return "(" + digits[0:3] + ") " + digits[3:6] + " " + digits[6:8] + " " + digits[8:]
}

// WhatsAppURL returns a wa.me link for a Turkish phone number.
func WhatsAppURL(phone string) string {
	return "https://wa.me/90" + nonDigits.ReplaceAllString(phone, "")
}

// DateTime renders a timestamp as dd.MM.yyyy HH:mm in shop local time.
func DateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(istanbul).Format("02.01.2006 15:04")
}

// DayMonth renders a dd.MM label used in charts.
func DayMonth(t time.Time) string {
	return t.In(istanbul).Format("02.01")
}
