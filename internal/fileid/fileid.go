// Package fileid derives deterministic document IDs for files dropped into an inbox.
package fileid

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
)

const prefix = "doc:"

// ReportSuffix marks files written by the inbox so they are never reprocessed.
const ReportSuffix = ".prep.json"

// idBytes is how much of the digest is kept; 16 bytes keeps report names readable.
const idBytes = 16

// DocumentID returns a stable ID for a document's bytes. Identical content always
// yields the same ID regardless of where the file lives.
func DocumentID(content []byte) string {
	hash := sha256.Sum256(content)
	return prefix + hex.EncodeToString(hash[:idBytes])
}

// pathHashBytes is how much of the path digest SharedReportName keeps.
const pathHashBytes = 4

// ReportName returns the report file name for the document at path: the base
// name, extension included, followed by ReportSuffix. Keeping the extension
// stops invoice.txt and invoice.ocr from sharing a report.
func ReportName(path string) string {
	return filepath.Base(filepath.Clean(path)) + ReportSuffix
}

// SharedReportName is ReportName for a directory that collects reports from
// several input directories. A short hash of the absolute source path sits
// before the suffix so same-named files in different directories stay apart.
func SharedReportName(path string) string {
	clean := filepath.Clean(path)
	if abs, err := filepath.Abs(clean); err == nil {
		clean = abs
	}
	hash := sha256.Sum256([]byte(clean))
	return filepath.Base(clean) + "." + hex.EncodeToString(hash[:pathHashBytes]) + ReportSuffix
}
