// Package extract turns trade document files into the single text blob the
// preprocessing pipeline consumes.
package extract

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Banners written ahead of each kind of extracted content.
const (
	DocumentBanner = "=== DOCUMENT TEXT CONTENT ==="
	TablesBanner   = "=== EXTRACTED TABLES ==="
)

// ErrUnsupportedFormat is returned for scanned images, which need OCR upstream.
var ErrUnsupportedFormat = errors.New("unsupported document format")

// Extractor extracts plain text from document files.
type Extractor struct{}

// NewExtractor returns a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract reads the file at path and returns its text content.
func (e *Extractor) Extract(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}
	ext := strings.ToLower(filepath.Ext(path))
	return e.ExtractBytes(content, ext)
}

// ExtractBytes extracts text from content based on the given extension.
// ext should include the leading dot (e.g. ".pdf"). OCR output (.ocr) and
// unknown extensions are read as plain text.
func (e *Extractor) ExtractBytes(content []byte, ext string) (string, error) {
	switch strings.ToLower(ext) {
	case ".pdf":
		return extractPDF(content)
	case ".docx":
		return extractDOCX(content)
	case ".xlsx":
		return extractExcel(content)
	case ".png", ".jpg", ".jpeg", ".tif", ".tiff":
		return "", fmt.Errorf("%w: %s images must be OCRed first", ErrUnsupportedFormat, ext)
	default:
		return extractPlain(content)
	}
}

var supportedExtensions = map[string]bool{
	".pdf":  true,
	".docx": true,
	".xlsx": true,
	".txt":  true,
	".ocr":  true,
	".md":   true,
}

// Supported reports whether files with ext are worth extracting.
func Supported(ext string) bool {
	return supportedExtensions[strings.ToLower(ext)]
}
