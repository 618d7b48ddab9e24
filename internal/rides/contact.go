package rides

import (
	"strings"
	"unicode"

	"github.com/liftmate/liftmate/pkg/security"
)

// DefaultCountryCode is the calling code used for WhatsApp links
const DefaultCountryCode = "27"

// ContactLink returns a WhatsApp deep link when the poster uses WhatsApp,
// otherwise a tel: link.
func ContactLink(r *RidePost, countryCode string) string {
	if r.IsWhatsApp {
		return "https://wa.me/" + WhatsAppNumber(r.PhoneNumber, countryCode)
	}
	return "tel:" + strings.Map(func(c rune) rune {
		if unicode.IsSpace(c) {
			return -1
		}
		return c
	}, r.PhoneNumber)
}

// WhatsAppNumber converts a phone number into the digits-only international form.
// A leading trunk 0 is replaced by the country code; numbers already carrying it are kept.
func WhatsAppNumber(phone, countryCode string) string {
	if countryCode == "" {
		countryCode = DefaultCountryCode
	}
	digits := security.DigitsOnly(phone)
	switch {
	case strings.HasPrefix(digits, "00"):
		return strings.TrimPrefix(digits, "00")
	case strings.HasPrefix(digits, countryCode):
		return digits
	case strings.HasPrefix(digits, "0"):
		return countryCode + digits[1:]
	default:
		return countryCode + digits
	}
}
