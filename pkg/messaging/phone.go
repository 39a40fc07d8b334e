package messaging

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultCountryCode is applied to numbers written with a leading zero.
const DefaultCountryCode = "+234"

// ErrInvalidPhone indicates a number that cannot be normalised to an
// international format.
var ErrInvalidPhone = errors.New("messaging: phone number is not in international format")

// NormalizePhone rewrites a locally formatted phone number into an
// international one. A single leading "0" is replaced with the country
// calling code; numbers already starting with "+" pass through unchanged.
// Anything else is rejected. This is a delivery heuristic, not full E.164
// validation.
func NormalizePhone(raw, countryCode string) (string, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '(', ')':
			return -1
		}
		return r
	}, strings.TrimSpace(raw))

	if cleaned == "" {
		return "", fmt.Errorf("%w: empty number", ErrInvalidPhone)
	}

	if countryCode == "" {
		countryCode = DefaultCountryCode
	}

	if strings.HasPrefix(cleaned, "0") && !strings.HasPrefix(cleaned, "00") {
		cleaned = countryCode + cleaned[1:]
	}

	if !strings.HasPrefix(cleaned, "+") {
		return "", fmt.Errorf("%w: %q", ErrInvalidPhone, raw)
	}

	return cleaned, nil
}
