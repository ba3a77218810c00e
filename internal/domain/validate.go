package domain

import "regexp"

var (
	codePattern    = regexp.MustCompile(`^[0-9]{4,10}$`)
	countryPattern = regexp.MustCompile(`^[A-Za-z]{2,3}$`)
)

// ValidCode reports whether s is a well-formed commodity code (4-10 digits).
func ValidCode(s string) bool {
	return codePattern.MatchString(s)
}

// ValidCountry reports whether s is a 2-3 letter country or group code.
func ValidCountry(s string) bool {
	return countryPattern.MatchString(s)
}
