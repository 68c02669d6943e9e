package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hyperjump/tradeprep/internal/config"
	"github.com/hyperjump/tradeprep/internal/declaration"
	"github.com/hyperjump/tradeprep/internal/fields"
	"github.com/hyperjump/tradeprep/internal/models"
	"github.com/hyperjump/tradeprep/internal/pipeline"
)

// bodySlack is added to the body cap for the JSON envelope and override keys.
const bodySlack = 64 << 10

// preprocessRequest carries the raw text and optional per-request overrides.
type preprocessRequest struct {
	Text                 string `json:"text"`
	EnableNoiseRemoval   *bool  `json:"enable_noise_removal,omitempty"`
	EnableFieldDetection *bool  `json:"enable_field_detection,omitempty"`
	EnableSmartChunking  *bool  `json:"enable_smart_chunking,omitempty"`
	MaxLLMTokens         *int   `json:"max_llm_tokens,omitempty"`
}

type preprocessResponse struct {
	RequestID           string                           `json:"request_id"`
	StructuredData      map[string]models.ProcessedField `json:"structured_data"`
	LLMPrompt           string                           `json:"llm_prompt"`
	ReductionPercentage float64                          `json:"reduction_percentage"`
	RequiresLLM         bool                             `json:"requires_llm"`
	TokenSavings        int                              `json:"token_savings"`
}

type declarationRequest struct {
	Text string `json:"text"`
}

type declarationResponse struct {
	RequestID   string         `json:"request_id"`
	Declaration map[string]any `json:"declaration"`
}

type fieldInfo struct {
	Name     string                 `json:"name"`
	Section  models.DocumentSection `json:"section"`
	Priority int                    `json:"priority"`
	Aliases  []string               `json:"aliases"`
}

type configResponse struct {
	Preprocess config.PreprocessConfig `json:"preprocess"`
	Fields     []fieldInfo             `json:"fields"`
}

func (req *preprocessRequest) hasOverrides() bool {
	return req.EnableNoiseRemoval != nil || req.EnableFieldDetection != nil ||
		req.EnableSmartChunking != nil || req.MaxLLMTokens != nil
}

// overrides applies the request's optional settings on top of the server's base config.
func (req *preprocessRequest) overrides(base config.PreprocessConfig) config.PreprocessConfig {
	cfg := base
	if req.EnableNoiseRemoval != nil {
		cfg.EnableNoiseRemoval = config.Bool(*req.EnableNoiseRemoval)
	}
	if req.EnableFieldDetection != nil {
		cfg.EnableFieldDetection = config.Bool(*req.EnableFieldDetection)
	}
	if req.EnableSmartChunking != nil {
		cfg.EnableSmartChunking = config.Bool(*req.EnableSmartChunking)
	}
	if req.MaxLLMTokens != nil {
		cfg.MaxLLMTokens = *req.MaxLLMTokens
	}
	return cfg
}

// limitBody caps the request body before decoding. JSON escaping can double the
// size of the text, so the cap is twice MaxInputBytes plus bodySlack.
func (s *Server) limitBody(w http.ResponseWriter, r *http.Request) {
	if limit := s.pipeline.Config().MaxInputBytes; limit > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, 2*int64(limit)+bodySlack)
	}
}

// decodeBody decodes a capped JSON body and writes the error response on failure.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	s.limitBody(w, r)
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil {
		return true
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		s.respondError(w, http.StatusRequestEntityTooLarge, pipeline.ErrInputTooLarge.Error())
		return false
	}
	s.respondError(w, http.StatusBadRequest, "invalid request body")
	return false
}

func (s *Server) handlePreprocess(w http.ResponseWriter, r *http.Request) {
	var req preprocessRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	requestID := uuid.NewString()
	p := s.pipeline
	if req.hasOverrides() {
		var err error
		p, err = pipeline.New(req.overrides(s.pipeline.Config()), pipeline.WithLogger(s.logger))
		if err != nil {
			s.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	s.logger.Debug("preprocess request",
		zap.String("request_id", requestID),
		zap.Int("bytes", len(req.Text)))
	result, err := p.ProcessChecked(req.Text)
	if err != nil {
		if errors.Is(err, pipeline.ErrInputTooLarge) {
			s.respondError(w, http.StatusRequestEntityTooLarge, err.Error())
			return
		}
		s.logger.Error("preprocess failed", zap.String("request_id", requestID), zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	prompt := p.LLMPrompt(result)
	s.respondJSON(w, http.StatusOK, preprocessResponse{
		RequestID:           requestID,
		StructuredData:      result.StructuredData,
		LLMPrompt:           prompt,
		ReductionPercentage: result.ReductionPercentage,
		RequiresLLM:         result.RequiresLLM,
		TokenSavings:        pipeline.TokenSavings(req.Text, prompt),
	})
}

func (s *Server) handleDeclaration(w http.ResponseWriter, r *http.Request) {
	var req declarationRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	if err := pipeline.CheckSize(req.Text, s.pipeline.Config().MaxInputBytes); err != nil {
		s.respondError(w, http.StatusRequestEntityTooLarge, err.Error())
		return
	}
	requestID := uuid.NewString()
	s.logger.Debug("declaration request",
		zap.String("request_id", requestID),
		zap.Int("bytes", len(req.Text)))
	hints := s.declaration.Hints(req.Text)
	if hints == nil {
		hints = map[string]any{}
	}
	if err := declaration.ValidateHints(hints); err != nil {
		s.logger.Warn("declaration hints failed schema validation",
			zap.String("request_id", requestID), zap.Error(err))
	}
	s.respondJSON(w, http.StatusOK, declarationResponse{
		RequestID:   requestID,
		Declaration: hints,
	})
}

// handleConfig reports the base pipeline configuration and the field catalog.
func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	defs := fields.Definitions()
	out := configResponse{
		Preprocess: s.pipeline.Config(),
		Fields:     make([]fieldInfo, 0, len(defs)),
	}
	for _, d := range defs {
		out.Fields = append(out.Fields, fieldInfo{
			Name:     d.Name,
			Section:  d.Section,
			Priority: d.Priority,
			Aliases:  d.Aliases,
		})
	}
	s.respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "healthy", "service": ServiceName})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
