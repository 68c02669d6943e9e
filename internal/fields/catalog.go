// Package fields detects declaration fields in denoised shipping document text.
package fields

import (
	"regexp"

	"github.com/hyperjump/tradeprep/internal/models"
)

// Definition describes how one field is recognised. Pattern order is significant:
// the first pattern that matches wins.
type Definition struct {
	Name     string
	Patterns []*regexp.Regexp
	Aliases  []string
	Section  models.DocumentSection
	Priority int
}

func compile(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		out[i] = regexp.MustCompile(`(?im)` + p)
	}
	return out
}

var catalog = []Definition{
	{
		Name: "bl_number",
		Patterns: compile(
			`b/l\s*no[:\s]+([A-Z0-9]+)`,
			`bill of lading\s*(?:no|number)[:\s]+([A-Z0-9]+)`,
			`doc\s*no[:\s]+([A-Z0-9]+)`,
			`\b([A-Z]{2,4}[0-9]{6,}[A-Z0-9]*)\b`,
		),
		Aliases:  []string{"b/l no", "bill of lading", "doc no", "document number"},
		Section:  models.SectionHeader,
		Priority: 1,
	},
	{
		Name: "consignee_name",
		Patterns: compile(
			`consignee[:\s]+([A-Z\s&.,'-]+?)(?:\n|ADDRESS)`,
			`notify party[:\s]+([A-Z\s&.,'-]+?)(?:\n|ADDRESS)`,
		),
		Aliases:  []string{"consignee", "notify party", "receiver"},
		Section:  models.SectionConsigneeInfo,
		Priority: 1,
	},
	{
		Name: "consignee_address",
		Patterns: compile(
			`address\s*[:\s]+([^TEL\n]+)`,
			`(?:consignee.*?address[:\s]+)([^TEL\n]+)`,
		),
		Aliases:  []string{"address", "delivery address"},
		Section:  models.SectionConsigneeInfo,
		Priority: 2,
	},
	{
		Name: "shipper_name",
		Patterns: compile(
			`shipper[:\s\n]+([A-Z\s&.,'-]+?)(?:\n|TEL)`,
		),
		Aliases:  []string{"shipper", "exporter"},
		Section:  models.SectionShipperInfo,
		Priority: 1,
	},
	{
		Name: "port_of_loading",
		Patterns: compile(
			`port of (?:loading|shipment)[:\s]+([A-Z\s,]+)`,
			`place of receipt[:\s]+([A-Z\s,]+)`,
		),
		Aliases:  []string{"port of loading", "place of receipt"},
		Section:  models.SectionTransportInfo,
		Priority: 1,
	},
	{
		Name: "port_of_discharge",
		Patterns: compile(
			`port of (?:discharge|destination)[:\s]+([A-Z\s,]+)`,
			`place of delivery[:\s]+([A-Z\s,]+)`,
		),
		Aliases:  []string{"port of discharge", "place of delivery"},
		Section:  models.SectionTransportInfo,
		Priority: 1,
	},
	{
		Name: "gross_weight",
		Patterns: compile(
			`(\d+(?:\.\d+)?)\s*kgs?`,
			`gross weight[:\s]+(\d+(?:\.\d+)?)`,
		),
		Aliases:  []string{"gross weight", "weight", "kgs"},
		Section:  models.SectionCargoInfo,
		Priority: 2,
	},
	{
		Name: "measurement",
		Patterns: compile(
			`(\d+(?:\.\d+)?)\s*cbm`,
			`measurement[:\s]+(\d+(?:\.\d+)?)`,
		),
		Aliases:  []string{"measurement", "cbm", "volume"},
		Section:  models.SectionCargoInfo,
		Priority: 2,
	},
	{
		Name: "number_of_packages",
		Patterns: compile(
			`(\d+)\s*pkgs?`,
			`no\.\s*of\s*pkgs[:\s]+(\d+)`,
		),
		Aliases:  []string{"pkgs", "packages", "no. of pkgs"},
		Section:  models.SectionCargoInfo,
		Priority: 2,
	},
}

// Catalog returns the detectable field names in detection order.
func Catalog() []string {
	names := make([]string, len(catalog))
	for i, d := range catalog {
		names[i] = d.Name
	}
	return names
}

// Definitions returns a copy of the field catalog.
func Definitions() []Definition {
	out := make([]Definition, len(catalog))
	copy(out, catalog)
	return out
}
