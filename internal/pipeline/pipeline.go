// Package pipeline runs the preprocessing stages over raw document text and decides
// whether an extraction pass by a language model is still needed.
package pipeline

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/hyperjump/tradeprep/internal/config"
	"github.com/hyperjump/tradeprep/internal/fields"
	"github.com/hyperjump/tradeprep/internal/models"
	"github.com/hyperjump/tradeprep/internal/noise"
	"github.com/hyperjump/tradeprep/internal/sections"
)

// ErrInputTooLarge is returned by ProcessChecked when raw text exceeds MaxInputBytes.
var ErrInputTooLarge = errors.New("input too large")

const (
	// coverageThreshold is the share of the catalog that must be detected to skip the model.
	coverageThreshold = 0.8
	// confidenceThreshold is the confidence every detected field must reach to skip the model.
	confidenceThreshold = 0.8
)

// Pipeline chains the noise filter, field detector and chunker. It holds no
// per-run state and may be shared between goroutines.
type Pipeline struct {
	cfg      config.PreprocessConfig
	detector *fields.Detector
	chunker  *sections.Chunker
	logger   *zap.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger. A nil logger is replaced by a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) {
		p.logger = l
	}
}

// New validates cfg and builds a pipeline.
func New(cfg config.PreprocessConfig, opts ...Option) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	p := &Pipeline{
		cfg:      cfg,
		detector: fields.NewDetector(),
		chunker:  sections.NewChunker(cfg.MaxLLMTokens),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = zap.NewNop()
	}
	return p, nil
}

// Config returns the configuration the pipeline was built with.
func (p *Pipeline) Config() config.PreprocessConfig {
	return p.cfg
}

// CheckSize returns an error wrapping ErrInputTooLarge when raw is longer than
// limit bytes. A limit of 0 or less disables the check.
func CheckSize(raw string, limit int) error {
	if limit > 0 && len(raw) > limit {
		return fmt.Errorf("%w: %d bytes exceeds limit of %d", ErrInputTooLarge, len(raw), limit)
	}
	return nil
}

// ProcessChecked is Process with the MaxInputBytes guard applied.
func (p *Pipeline) ProcessChecked(raw string) (*models.PreprocessingResult, error) {
	if err := CheckSize(raw, p.cfg.MaxInputBytes); err != nil {
		return nil, err
	}
	return p.Process(raw), nil
}

// Process runs the enabled stages in order. Disabled stages pass text through.
func (p *Pipeline) Process(raw string) *models.PreprocessingResult {
	originalLength := utf8.RuneCountInString(raw)
	if originalLength == 0 {
		return &models.PreprocessingResult{
			StructuredData: map[string]models.ProcessedField{},
			Sections:       map[models.DocumentSection][]string{},
			RequiresLLM:    true,
		}
	}

	text := raw
	if p.cfg.NoiseRemoval() {
		text = noise.Filter(text, p.cfg)
		p.logger.Debug("applied noise removal",
			zap.Int("before", originalLength),
			zap.Int("after", utf8.RuneCountInString(text)))
	}

	found := map[string]models.ProcessedField{}
	var order []string
	if p.cfg.FieldDetection() {
		det := p.detector.Detect(text)
		text, found, order = det.Text, det.Fields, det.Order
		p.logger.Debug("detected fields", zap.Int("count", len(found)), zap.Strings("fields", order))
	}

	secs := map[models.DocumentSection][]string{}
	if p.cfg.SmartChunking() {
		text = p.chunker.Chunk(text)
		secs = sections.Classify(text)
		p.logger.Debug("applied smart chunking",
			zap.Int("max_tokens", p.cfg.MaxLLMTokens),
			zap.Float64("tokens", sections.EstimateTokens(text)))
	}

	processedLength := utf8.RuneCountInString(text)
	result := &models.PreprocessingResult{
		StructuredData:      found,
		FieldOrder:          order,
		RelevantText:        text,
		OriginalLength:      originalLength,
		ProcessedLength:     processedLength,
		ReductionPercentage: reduction(originalLength, processedLength),
		RequiresLLM:         requiresLLM(found),
		Sections:            secs,
	}
	p.logger.Info("preprocessed document",
		zap.Int("original_length", result.OriginalLength),
		zap.Int("processed_length", result.ProcessedLength),
		zap.Float64("reduction_percentage", result.ReductionPercentage),
		zap.Int("fields", len(found)),
		zap.Bool("requires_llm", result.RequiresLLM))
	return result
}

// reduction is the share of the original removed, clamped to [0, 100]. The
// detected-fields header can make a very short input grow.
func reduction(original, processed int) float64 {
	if original == 0 {
		return 0
	}
	pct := float64(original-processed) / float64(original) * 100
	switch {
	case pct < 0:
		return 0
	case pct > 100:
		return 100
	}
	return pct
}

func requiresLLM(found map[string]models.ProcessedField) bool {
	if float64(len(found)) < coverageThreshold*float64(len(fields.Catalog())) {
		return true
	}
	for _, f := range found {
		if f.Confidence < confidenceThreshold {
			return true
		}
	}
	return false
}

// MissingFields returns the catalog fields absent from result, in catalog order.
func MissingFields(result *models.PreprocessingResult) []string {
	var missing []string
	for _, name := range fields.Catalog() {
		if _, ok := result.StructuredData[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

// LLMPrompt builds the follow-up extraction prompt naming only the missing fields.
// It returns "" when the result needs no model pass.
func (p *Pipeline) LLMPrompt(result *models.PreprocessingResult) string {
	if result == nil || !result.RequiresLLM {
		return ""
	}
	parts := []string{
		"Extract the following missing B650 form fields from this shipping document:",
		"Missing fields: " + strings.Join(MissingFields(result), ", "),
		"Detected fields (for context):",
	}
	for _, f := range result.Fields() {
		parts = append(parts, "- "+f.FieldName+": "+f.CleanedValue)
	}
	parts = append(parts,
		"\nDocument text:",
		result.RelevantText,
		"\nReturn only the missing fields as JSON. If not found, use null.",
	)
	return strings.Join(parts, "\n")
}

// TokenSavings estimates the tokens saved by sending prompt instead of raw.
func TokenSavings(raw, prompt string) int {
	return int(sections.EstimateTokens(raw) - sections.EstimateTokens(prompt))
}
