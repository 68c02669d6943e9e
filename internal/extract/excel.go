package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// tableCellSeparator joins cells of one spreadsheet row.
const tableCellSeparator = " | "

// extractExcel renders each non-empty sheet as pipe-separated rows under the
// tables banner.
func extractExcel(content []byte) (string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("open Excel: %w", err)
	}
	defer f.Close()

	var b strings.Builder
	b.WriteString(TablesBanner)
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return "", fmt.Errorf("get rows for sheet %q: %w", sheet, err)
		}
		if len(rows) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n=== %s ===", sheet)
		for _, row := range rows {
			line := strings.TrimRight(strings.TrimSpace(strings.Join(row, tableCellSeparator)), " |")
			if strings.Trim(line, " |") == "" {
				continue
			}
			b.WriteByte('\n')
			b.WriteString(line)
		}
	}
	return b.String(), nil
}
