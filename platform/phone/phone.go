// Package phone provides phone number utilities.
// This is part of the platform layer and contains no business logic.
package phone

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// IsValid reports whether number parses as a valid phone number for the ISO
// region. An empty region requires the number to carry its own +country prefix.
func IsValid(number, region string) bool {
	parsed, err := phonenumbers.Parse(strings.TrimSpace(number), strings.ToUpper(region))
	if err != nil {
		return false
	}
	return phonenumbers.IsValidNumber(parsed)
}
