package declaration

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// extractDeliveryAddress prefers an "address" label over the delivery, ship to
// and consignee labels. The postcode and state come from the preferred span when
// it has them and otherwise from the delivery span.
func extractDeliveryAddress(text string, e *Extracted) {
	delivery := captureSpan(text, deliveryLabel)
	address := captureSpan(text, addressLabel)
	e.DeliveryAddress = firstNonEmpty(address, delivery)
	for _, span := range []string{address, delivery} {
		if span == "" {
			continue
		}
		if m := postcode.FindStringSubmatch(span); m != nil && e.DeliveryPostcode == "" {
			e.DeliveryPostcode = m[1]
		}
		if m := stateCode.FindStringSubmatch(span); m != nil && e.DeliveryState == "" {
			e.DeliveryState = strings.ToUpper(m[1])
		}
	}
}

// captureSpan returns the rest of the line after the first match of label, plus
// any following lines up to a blank line or a line starting with an upper-case
// letter.
func captureSpan(text string, label *regexp.Regexp) string {
	loc := label.FindStringSubmatchIndex(text)
	if loc == nil {
		return ""
	}
	parts := []string{strings.TrimSpace(text[loc[2]:loc[3]])}

	following := strings.Split(text[loc[3]:], "\n")
	for _, line := range following[1:] {
		line = strings.TrimSpace(line)
		if line == "" {
			break
		}
		if first, _ := utf8.DecodeRuneInString(line); unicode.IsUpper(first) {
			break
		}
		parts = append(parts, line)
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

// extractOrigin reads the country after a "country of origin", "origin" or
// "made in" label. The name runs over letters and spaces up to a line end or a
// gap of two or more spaces.
func extractOrigin(text string) string {
	for _, label := range originLabels {
		for _, loc := range label.FindAllStringIndex(text, -1) {
			if country, ok := scanCountry(text[loc[1]:]); ok {
				return country
			}
		}
	}
	return ""
}

func scanCountry(s string) (string, bool) {
	var b strings.Builder
	for i, r := range s {
		if b.Len() > 0 && countryEnds(s[i:]) {
			break
		}
		if !isASCIILetter(r) && !unicode.IsSpace(r) {
			return "", false
		}
		b.WriteRune(r)
	}
	country := strings.TrimSpace(b.String())
	return country, country != ""
}

func countryEnds(rest string) bool {
	if rest[0] == '\n' || rest[0] == '\r' {
		return true
	}
	first, n := utf8.DecodeRuneInString(rest)
	second, _ := utf8.DecodeRuneInString(rest[n:])
	return n < len(rest) && unicode.IsSpace(first) && unicode.IsSpace(second)
}

func isASCIILetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
