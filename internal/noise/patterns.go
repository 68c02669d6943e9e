package noise

import "regexp"

// linePatterns match whole lines that carry no document content. Each pattern is
// applied to a single line, case-insensitively.
var linePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^\s*$`),
	regexp.MustCompile(`(?i)^\s*[-=_*]+\s*$`),
	regexp.MustCompile(`(?i)^\s*page\s+\d+\s*of\s*\d+\s*$`),
	regexp.MustCompile(`(?i)^\s*\d+\s*$`),
	regexp.MustCompile(`(?i)^\s*[|\\/_]+\s*$`),
	regexp.MustCompile(`(?i)^[\s\[(]*OCR\s+(?:Text|Page)\b`),
	regexp.MustCompile(`(?i)^\s*===.*?===\s*$`),
	regexp.MustCompile(`(?i)^\s*processing\s+page\s+\d+\s+of\s+\d+`),
	regexp.MustCompile(`(?i)^\s*performing\s+(?:comprehensive\s+)?OCR\b`),
	regexp.MustCompile(`(?i)^\s*starting\s+(?:complete\s+)?document\s+extraction\b`),
}

// IsNoise reports whether line matches any of the noise patterns.
func IsNoise(line string) bool {
	for _, re := range linePatterns {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}
