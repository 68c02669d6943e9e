package fields

import (
	"strings"
	"unicode/utf8"

	"github.com/hyperjump/tradeprep/internal/models"
)

const (
	// PatternConfidence is assigned to fields found by a catalog regex.
	PatternConfidence = 0.9
	// FuzzyConfidence is assigned to fields found by alias similarity.
	FuzzyConfidence = 0.7

	// remainingLineLimit caps the lines forwarded after the detected-fields block.
	remainingLineLimit = 10
	// remainingMinLength is the trimmed length a line must exceed to be forwarded.
	remainingMinLength = 10

	detectedHeader  = "=== DETECTED FIELDS ==="
	remainingHeader = "=== REMAINING TEXT FOR LLM ==="
)

// Detection is the outcome of one Detect call.
type Detection struct {
	// Text is the annotated text, or the input unchanged when nothing was found.
	Text   string
	Fields map[string]models.ProcessedField
	// Order lists the detected field names in catalog order.
	Order []string
}

// Detector finds catalog fields in text. It keeps no per-call state and is safe
// for concurrent use.
type Detector struct {
	defs []Definition
}

// NewDetector returns a detector over the built-in field catalog.
func NewDetector() *Detector {
	return &Detector{defs: catalog}
}

// Detect runs every field definition against text and rebuilds it as a
// detected-fields block followed by the lines still worth sending on.
func (d *Detector) Detect(text string) Detection {
	lines := strings.Split(text, "\n")
	det := Detection{Fields: make(map[string]models.ProcessedField)}
	for _, def := range d.defs {
		f, ok := detectField(text, lines, def)
		if !ok {
			continue
		}
		det.Fields[def.Name] = f
		det.Order = append(det.Order, def.Name)
	}
	det.Text = annotate(text, lines, det)
	return det
}

func detectField(text string, lines []string, def Definition) (models.ProcessedField, bool) {
	for _, re := range def.Patterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		raw := strings.TrimSpace(m[1])
		return models.ProcessedField{
			FieldName:    def.Name,
			RawValue:     raw,
			CleanedValue: Clean(def.Name, raw),
			Confidence:   PatternConfidence,
			ContextLine:  contextLine(lines, raw),
			Section:      def.Section,
		}, true
	}

	for _, line := range lines {
		lower := strings.ToLower(line)
		for _, alias := range def.Aliases {
			if !similar(alias, lower) {
				continue
			}
			value := valueFromLine(line, alias)
			if value == "" {
				continue
			}
			return models.ProcessedField{
				FieldName:    def.Name,
				RawValue:     value,
				CleanedValue: Clean(def.Name, value),
				Confidence:   FuzzyConfidence,
				ContextLine:  line,
				Section:      def.Section,
			}, true
		}
	}
	return models.ProcessedField{}, false
}

// valueFromLine takes the text after the first colon, or failing that the first
// token after the alias.
func valueFromLine(line, alias string) string {
	if i := strings.Index(line, ":"); i >= 0 {
		return strings.TrimSpace(line[i+1:])
	}
	lower := strings.ToLower(line)
	src := line
	if len(lower) != len(line) {
		src = lower
	}
	needle := strings.ToLower(alias)
	pos := strings.Index(lower, needle)
	if pos < 0 {
		return ""
	}
	rest := strings.TrimSpace(src[pos+len(needle):])
	if rest == "" {
		return ""
	}
	if strings.Contains(rest, " ") {
		return strings.Fields(rest)[0]
	}
	return rest
}

func contextLine(lines []string, value string) string {
	v := strings.ToLower(value)
	for _, l := range lines {
		if strings.Contains(strings.ToLower(l), v) {
			return strings.TrimSpace(l)
		}
	}
	return ""
}

func annotate(text string, lines []string, det Detection) string {
	if len(det.Order) == 0 {
		return text
	}
	parts := []string{detectedHeader}
	raws := make([]string, 0, len(det.Order))
	for _, name := range det.Order {
		f := det.Fields[name]
		parts = append(parts, strings.ToUpper(name)+": "+f.CleanedValue)
		raws = append(raws, strings.ToLower(f.RawValue))
	}
	parts = append(parts, "\n"+remainingHeader)

	n := 0
	for _, l := range lines {
		if n == remainingLineLimit {
			break
		}
		if containsAny(strings.ToLower(l), raws) {
			continue
		}
		if utf8.RuneCountInString(strings.TrimSpace(l)) <= remainingMinLength {
			continue
		}
		parts = append(parts, l)
		n++
	}
	return strings.Join(parts, "\n")
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
