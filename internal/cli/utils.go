// Package cli renders preprocessing and declaration output for the command line.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/hyperjump/tradeprep/internal/models"
	"github.com/hyperjump/tradeprep/pkg/utils"
)

// OutputFormat is the format for command output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// ParseOutputFormat accepts "text" or "json" case-insensitively.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(strings.ToLower(strings.TrimSpace(s))) {
	case "", OutputText:
		return OutputText, nil
	case OutputJSON:
		return OutputJSON, nil
	}
	return "", fmt.Errorf("unknown output format %q (want text or json)", s)
}

// relevantTextPreview bounds how much of the relevant text the text format prints.
const relevantTextPreview = 600

// PreprocessOutput is what the preprocess command reports for one document.
type PreprocessOutput struct {
	Source       string                      `json:"source"`
	Result       *models.PreprocessingResult `json:"result"`
	LLMPrompt    string                      `json:"llm_prompt"`
	TokenSavings int                         `json:"token_savings"`
}

// WritePreprocessResult writes out to w in the given format.
func WritePreprocessResult(w io.Writer, out *PreprocessOutput, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, out)
	}
	r := out.Result
	if out.Source != "" {
		fmt.Fprintf(w, "Source: %s\n", out.Source)
	}
	fmt.Fprintf(w, "Length: %d -> %d characters (%.1f%% reduction, ~%d tokens saved)\n",
		r.OriginalLength, r.ProcessedLength, r.ReductionPercentage, out.TokenSavings)
	fmt.Fprintf(w, "Requires LLM: %t\n", r.RequiresLLM)
	fmt.Fprintf(w, "\nDetected fields (%d):\n", len(r.StructuredData))
	for _, f := range r.Fields() {
		fmt.Fprintf(w, "  %-20s %-40s %.1f  [%s]\n", f.FieldName, f.CleanedValue, f.Confidence, f.Section)
	}
	if r.RelevantText != "" {
		fmt.Fprintf(w, "\nRelevant text:\n%s\n", utils.Truncate(r.RelevantText, relevantTextPreview))
	}
	if out.LLMPrompt != "" {
		fmt.Fprintf(w, "\nLLM prompt:\n%s\n", out.LLMPrompt)
	}
	return nil
}

// WriteDeclaration writes pruned declaration hints to w. The text format prints
// one dotted path per leaf, sorted.
func WriteDeclaration(w io.Writer, hints map[string]any, format OutputFormat) error {
	if format == OutputJSON {
		if hints == nil {
			hints = map[string]any{}
		}
		return writeJSON(w, hints)
	}
	var lines []string
	flatten("", hints, &lines)
	sort.Strings(lines)
	for _, l := range lines {
		fmt.Fprintln(w, l)
	}
	return nil
}

func flatten(prefix string, v any, out *[]string) {
	switch t := v.(type) {
	case map[string]any:
		for k, child := range t {
			key := k
			if prefix != "" {
				key = prefix + "." + k
			}
			flatten(key, child, out)
		}
	case []any:
		for i, child := range t {
			flatten(fmt.Sprintf("%s[%d]", prefix, i), child, out)
		}
	default:
		*out = append(*out, fmt.Sprintf("%s: %v", prefix, t))
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
