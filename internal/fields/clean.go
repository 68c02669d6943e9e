package fields

import (
	"regexp"
	"strings"
)

var (
	numericValue  = regexp.MustCompile(`\d+(?:\.\d+)?`)
	nonNameChars  = regexp.MustCompile(`[^\p{L}\p{N}_\s&.,'-]`)
	numericFields = map[string]bool{
		"gross_weight":       true,
		"measurement":        true,
		"number_of_packages": true,
	}
)

// Clean normalises a raw value for the named field. Numeric fields are reduced to
// their first number, *_name fields lose punctuation a name cannot carry.
func Clean(field, value string) string {
	value = strings.TrimSpace(value)
	if numericFields[field] {
		if n := numericValue.FindString(value); n != "" {
			return n
		}
		return value
	}
	if strings.HasSuffix(field, "_name") {
		value = nonNameChars.ReplaceAllString(value, " ")
		value = strings.Join(strings.Fields(value), " ")
	}
	return value
}
