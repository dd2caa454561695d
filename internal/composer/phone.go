package composer

import (
	"fmt"
	"strings"
)

const maxPhoneDigits = 11

// NormalizePhone strips everything but digits and prefixes Brazil's country
// code when the number looks like a local one (10 or 11 digits, DDD plus
// subscriber). Other digit counts pass through untouched; an empty result
// means no phone parameter at all.
func NormalizePhone(raw string) string {
	digits := stripNonDigits(raw)
	if digits == "" {
		return ""
	}
	if len(digits) >= 10 && len(digits) <= 11 {
		return "55" + digits
	}
	return digits
}

// FormatInput applies the progressive (DD) NNNNN-NNNN grouping used while
// the phone field is being typed. Input is capped at 11 digits; the second
// return value tells the caller to dismiss the input focus once the number
// is complete.
func FormatInput(raw string) (string, bool) {
	digits := stripNonDigits(raw)
	if len(digits) > maxPhoneDigits {
		digits = digits[:maxPhoneDigits]
	}

	formatted := digits
	if len(digits) > 7 {
		formatted = fmt.Sprintf("(%s) %s-%s", digits[:2], digits[2:7], digits[7:])
	} else if len(digits) > 2 {
		formatted = fmt.Sprintf("(%s) %s", digits[:2], digits[2:])
	}

	return formatted, len(digits) == maxPhoneDigits
}

func stripNonDigits(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
