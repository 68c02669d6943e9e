// Package noise removes OCR artifacts and boilerplate lines from extracted text.
package noise

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/hyperjump/tradeprep/internal/config"
)

// stutterRun is the run length at which a repeated character is treated as an OCR stutter.
const stutterRun = 4

// Filter drops noise lines and lines outside the configured length bounds, and
// cleans the survivors. Line order is preserved and Filter(Filter(t)) == Filter(t).
func Filter(text string, cfg config.PreprocessConfig) string {
	lines := SplitLines(text)
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if IsNoise(line) {
			continue
		}
		if !withinBounds(strings.TrimSpace(line), cfg) {
			continue
		}
		cleaned := CleanLine(line)
		if cleaned == "" || IsNoise(cleaned) || !withinBounds(cleaned, cfg) {
			continue
		}
		kept = append(kept, cleaned)
	}
	return strings.Join(kept, "\n")
}

// SplitLines splits text on newlines, tolerating CRLF endings.
func SplitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

func withinBounds(s string, cfg config.PreprocessConfig) bool {
	n := utf8.RuneCountInString(s)
	return n >= cfg.MinLineLength && n <= cfg.MaxLineLength
}

// CleanLine replaces characters outside the safe set with spaces, shortens
// stutter runs to two characters and collapses whitespace.
func CleanLine(line string) string {
	var b strings.Builder
	b.Grow(len(line))
	for _, r := range line {
		if safeRune(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(collapseRuns(b.String())), " ")
}

func safeRune(r rune) bool {
	if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
		return true
	}
	switch r {
	case '_', '.', ',', '/', '-', ':':
		return true
	}
	return false
}

// collapseRuns shortens any run of stutterRun or more identical characters to two.
func collapseRuns(s string) string {
	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(runes); {
		j := i
		for j < len(runes) && runes[j] == runes[i] {
			j++
		}
		n := j - i
		if n >= stutterRun {
			n = 2
		}
		for k := 0; k < n; k++ {
			b.WriteRune(runes[i])
		}
		i = j
	}
	return b.String()
}
