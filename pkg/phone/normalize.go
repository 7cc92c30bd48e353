package phone

import "strings"

// UKCountryCode is the dialling code prepended to UK numbers.
const UKCountryCode = "44"

// NormalizeUKMobile converts a user-entered UK mobile number into a
// digits-only string prefixed with the 44 country code exactly once.
//
// The trunk 0 directly after the country code is dropped ("+44 (0)7..."),
// a leading 0 is replaced with 44, and anything already carrying 44 is
// left alone. Zeros further into the number are never touched. The result
// is best-effort: length is not validated.
func NormalizeUKMobile(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))

	// A leading + is dropped along with every other non-digit.
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}

	digits := b.String()

	switch {
	case strings.HasPrefix(digits, UKCountryCode+"0"):
		return UKCountryCode + digits[len(UKCountryCode)+1:]
	case strings.HasPrefix(digits, UKCountryCode):
		return digits
	case strings.HasPrefix(digits, "0"):
		return UKCountryCode + digits[1:]
	default:
		return digits
	}
}
