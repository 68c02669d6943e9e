package models

import "encoding/json"

// PreprocessingResult is the output of one pipeline run. It is read-only once built.
type PreprocessingResult struct {
	StructuredData map[string]ProcessedField
	// FieldOrder lists the keys of StructuredData in catalog order.
	FieldOrder          []string
	RelevantText        string
	OriginalLength      int
	ProcessedLength     int
	ReductionPercentage float64
	RequiresLLM         bool
	Sections            map[DocumentSection][]string
}

// Fields returns the detected fields in catalog order.
func (r *PreprocessingResult) Fields() []ProcessedField {
	out := make([]ProcessedField, 0, len(r.FieldOrder))
	for _, name := range r.FieldOrder {
		if f, ok := r.StructuredData[name]; ok {
			out = append(out, f)
		}
	}
	return out
}

type resultJSON struct {
	StructuredData      map[string]ProcessedField `json:"structured_data"`
	FieldOrder          []string                  `json:"field_order"`
	RelevantText        string                    `json:"relevant_text"`
	OriginalLength      int                       `json:"original_length"`
	ProcessedLength     int                       `json:"processed_length"`
	ReductionPercentage float64                   `json:"reduction_percentage"`
	RequiresLLM         bool                      `json:"requires_llm"`
	Sections            map[string][]string       `json:"sections"`
}

// MarshalJSON renders the result with section keys as their string values.
// Sections without lines are left out.
func (r PreprocessingResult) MarshalJSON() ([]byte, error) {
	out := resultJSON{
		StructuredData:      r.StructuredData,
		FieldOrder:          r.FieldOrder,
		RelevantText:        r.RelevantText,
		OriginalLength:      r.OriginalLength,
		ProcessedLength:     r.ProcessedLength,
		ReductionPercentage: r.ReductionPercentage,
		RequiresLLM:         r.RequiresLLM,
		Sections:            make(map[string][]string),
	}
	if out.StructuredData == nil {
		out.StructuredData = map[string]ProcessedField{}
	}
	if out.FieldOrder == nil {
		out.FieldOrder = []string{}
	}
	for section, lines := range r.Sections {
		if len(lines) > 0 {
			out.Sections[section.String()] = lines
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads a result written by MarshalJSON. Lines under unknown
// section keys are filed under SectionUnknown.
func (r *PreprocessingResult) UnmarshalJSON(data []byte) error {
	var in resultJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*r = PreprocessingResult{
		StructuredData:      in.StructuredData,
		FieldOrder:          in.FieldOrder,
		RelevantText:        in.RelevantText,
		OriginalLength:      in.OriginalLength,
		ProcessedLength:     in.ProcessedLength,
		ReductionPercentage: in.ReductionPercentage,
		RequiresLLM:         in.RequiresLLM,
		Sections:            make(map[DocumentSection][]string, len(in.Sections)),
	}
	for key, lines := range in.Sections {
		section := DocumentSection(key)
		if !section.Valid() {
			section = SectionUnknown
		}
		r.Sections[section] = append(r.Sections[section], lines...)
	}
	return nil
}
