// Package models defines the data structures shared by the preprocessing stages:
// document sections, detected fields and pipeline results.
package models

import "strings"

// DocumentSection is a logical zone of a trade document.
type DocumentSection string

const (
	SectionHeader        DocumentSection = "header"
	SectionShipperInfo   DocumentSection = "shipper_info"
	SectionConsigneeInfo DocumentSection = "consignee_info"
	SectionTransportInfo DocumentSection = "transport_info"
	SectionCargoInfo     DocumentSection = "cargo_info"
	SectionFooter        DocumentSection = "footer"
	SectionUnknown       DocumentSection = "unknown"
)

// AllSections returns every section in declaration order.
func AllSections() []DocumentSection {
	return []DocumentSection{
		SectionHeader,
		SectionShipperInfo,
		SectionConsigneeInfo,
		SectionTransportInfo,
		SectionCargoInfo,
		SectionFooter,
		SectionUnknown,
	}
}

// String returns the lower-case section value.
func (s DocumentSection) String() string {
	return string(s)
}

// Banner returns the chunk header line for the section, e.g. "=== CARGO_INFO ===".
func (s DocumentSection) Banner() string {
	return "=== " + strings.ToUpper(string(s)) + " ==="
}

// Valid reports whether s is one of the known sections.
func (s DocumentSection) Valid() bool {
	for _, known := range AllSections() {
		if s == known {
			return true
		}
	}
	return false
}

// ProcessedField is a candidate value found by the field detector.
type ProcessedField struct {
	FieldName    string          `json:"field_name"`
	RawValue     string          `json:"raw_value"`
	CleanedValue string          `json:"cleaned_value"`
	Confidence   float64         `json:"confidence"`
	ContextLine  string          `json:"context_line"`
	Section      DocumentSection `json:"section"`
}
