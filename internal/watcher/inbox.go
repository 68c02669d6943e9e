package watcher

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/tradeprep/internal/declaration"
	"github.com/hyperjump/tradeprep/internal/extract"
	"github.com/hyperjump/tradeprep/internal/fileid"
	"github.com/hyperjump/tradeprep/internal/models"
	"github.com/hyperjump/tradeprep/internal/pipeline"
)

// Report is the JSON document the inbox writes next to (or on behalf of) each input.
type Report struct {
	DocumentID  string                      `json:"document_id"`
	Source      string                      `json:"source"`
	ProcessedAt time.Time                   `json:"processed_at"`
	Result      *models.PreprocessingResult `json:"result"`
	LLMPrompt   string                      `json:"llm_prompt"`
	Declaration map[string]any              `json:"declaration"`
}

// Inbox turns settled documents into reports. It is the onReady/onRemove pair
// handed to a Watcher.
type Inbox struct {
	extractor   *extract.Extractor
	pipeline    *pipeline.Pipeline
	declaration *declaration.Preprocessor
	outputDir   string
	logger      *zap.Logger
	now         func() time.Time
}

// NewInbox builds an inbox that writes reports into outputDir. An empty outputDir
// writes each report beside its input.
func NewInbox(p *pipeline.Pipeline, outputDir string, logger *zap.Logger) *Inbox {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Inbox{
		extractor:   extract.NewExtractor(),
		pipeline:    p,
		declaration: declaration.NewPreprocessor(logger),
		outputDir:   outputDir,
		logger:      logger,
		now:         time.Now,
	}
}

// ReportPath returns where the report for the document at path is written. A
// shared output directory gets a path-qualified name.
func (in *Inbox) ReportPath(path string) string {
	if in.outputDir == "" {
		return filepath.Join(filepath.Dir(path), fileid.ReportName(path))
	}
	return filepath.Join(in.outputDir, fileid.SharedReportName(path))
}

// Process extracts, preprocesses and reports on the document at path. A document
// whose content matches the existing report is skipped.
func (in *Inbox) Process(path string) (*Report, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	id := fileid.DocumentID(content)
	out := in.ReportPath(path)
	if existing, err := readReport(out); err == nil && existing.DocumentID == id {
		in.logger.Debug("inbox document unchanged", zap.String("path", path), zap.String("document_id", id))
		return existing, nil
	}

	text, err := in.extractor.ExtractBytes(content, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", path, err)
	}
	result, err := in.pipeline.ProcessChecked(text)
	if err != nil {
		return nil, err
	}
	report := &Report{
		DocumentID:  id,
		Source:      path,
		ProcessedAt: in.now().UTC(),
		Result:      result,
		LLMPrompt:   in.pipeline.LLMPrompt(result),
		Declaration: in.declaration.Hints(text),
	}
	if err := declaration.ValidateHints(report.Declaration); err != nil {
		in.logger.Warn("declaration hints failed schema validation", zap.String("path", path), zap.Error(err))
	}
	if err := writeReport(out, report); err != nil {
		return nil, err
	}
	in.logger.Info("inbox document processed",
		zap.String("path", path),
		zap.String("report", out),
		zap.Int("fields", len(result.StructuredData)),
		zap.Bool("requires_llm", result.RequiresLLM),
		zap.Float64("reduction_percentage", result.ReductionPercentage))
	return report, nil
}

// HandleReady is the Watcher callback; failures are logged, not retried.
func (in *Inbox) HandleReady(path string) {
	if _, err := in.Process(path); err != nil {
		in.logger.Error("inbox document failed", zap.String("path", path), zap.Error(err))
	}
}

// HandleRemove deletes the report of a document that left the inbox.
func (in *Inbox) HandleRemove(path string) {
	out := in.ReportPath(path)
	if err := os.Remove(out); err != nil && !errors.Is(err, os.ErrNotExist) {
		in.logger.Warn("inbox failed to remove report", zap.String("report", out), zap.Error(err))
		return
	}
	in.logger.Debug("inbox report removed", zap.String("report", out))
}

func readReport(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// writeReport writes via a temp file and rename so readers never see a partial report.
func writeReport(path string, r *Report) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
