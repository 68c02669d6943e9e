package sections

import (
	"strings"

	"github.com/hyperjump/tradeprep/internal/models"
)

// tokensPerWord approximates model tokens from whitespace-separated words.
const tokensPerWord = 1.3

// priority is the order in which sections compete for the token budget.
// Header, footer and unknown lines are never forwarded.
var priority = []models.DocumentSection{
	models.SectionConsigneeInfo,
	models.SectionTransportInfo,
	models.SectionCargoInfo,
	models.SectionShipperInfo,
}

// EstimateTokens returns the approximate token cost of text.
func EstimateTokens(text string) float64 {
	return float64(len(strings.Fields(text))) * tokensPerWord
}

// Chunker selects whole sections, highest priority first, within a token budget.
type Chunker struct {
	maxTokens int
}

// NewChunker creates a chunker with the given token budget.
func NewChunker(maxTokens int) *Chunker {
	return &Chunker{maxTokens: maxTokens}
}

// Chunk classifies text and joins the sections that fit the budget, each under its
// banner. Selection stops at the first section that would overrun the budget, even
// if a smaller lower-priority section could still fit.
func (c *Chunker) Chunk(text string) string {
	secs := Classify(text)
	budget := float64(c.maxTokens)
	var parts []string
	used := 0.0
	for _, s := range priority {
		if used >= budget {
			break
		}
		body := strings.Join(secs[s], "\n")
		if strings.TrimSpace(body) == "" {
			continue
		}
		cost := EstimateTokens(body)
		if used+cost > budget {
			break
		}
		parts = append(parts, s.Banner(), body)
		used += cost
	}
	return strings.Join(parts, "\n")
}
