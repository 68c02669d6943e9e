// Package sections tags document lines with logical sections and assembles a
// token-budgeted excerpt for the downstream extraction stage.
package sections

import (
	"strings"

	"github.com/hyperjump/tradeprep/internal/models"
)

type sectionKeywords struct {
	section  models.DocumentSection
	keywords []string
}

// keywordSets are checked in order; the first set with a hit switches the section.
var keywordSets = []sectionKeywords{
	{models.SectionShipperInfo, []string{"shipper", "exporter"}},
	{models.SectionConsigneeInfo, []string{"consignee", "notify party"}},
	{models.SectionTransportInfo, []string{"port of", "vessel", "voyage"}},
	{models.SectionCargoInfo, []string{"description of goods", "weight", "measurement", "pkgs"}},
}

// Classify assigns every line of text to a section. Assignment is sticky: a line
// without a keyword stays in the most recently switched-to section, starting
// from unknown. Every section is present in the result.
func Classify(text string) map[models.DocumentSection][]string {
	out := make(map[models.DocumentSection][]string, len(models.AllSections()))
	for _, s := range models.AllSections() {
		out[s] = []string{}
	}
	current := models.SectionUnknown
	for _, line := range strings.Split(text, "\n") {
		if s, ok := sectionOf(strings.ToLower(line)); ok {
			current = s
		}
		out[current] = append(out[current], line)
	}
	return out
}

func sectionOf(lower string) (models.DocumentSection, bool) {
	for _, ks := range keywordSets {
		for _, kw := range ks.keywords {
			if strings.Contains(lower, kw) {
				return ks.section, true
			}
		}
	}
	return "", false
}
