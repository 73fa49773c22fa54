package fieldservice

import (
	"regexp"
	"strings"
)

// Portuguese plates across the four series, compared without dashes.
var plateFormat = regexp.MustCompile(`^(?:[A-Z]{2}\d{2}[A-Z]{2}|\d{2}[A-Z]{2}\d{2}|[A-Z]{2}\d{4}|\d{4}[A-Z]{2})$`)

// PlateKey is the form plates are matched by: upper case, no dashes.
func PlateKey(plate string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(plate), "-", ""))
}

func ValidPlate(plate string) bool {
	return plateFormat.MatchString(PlateKey(plate))
}

// FormatPlate writes a valid plate as three dash-separated pairs.
func FormatPlate(plate string) string {
	key := PlateKey(plate)
	if !plateFormat.MatchString(key) {
		return strings.ToUpper(strings.TrimSpace(plate))
	}
	return key[0:2] + "-" + key[2:4] + "-" + key[4:6]
}
