package service

import (
	"bytes"
	"encoding/csv"
)

// renderCSV produces a UTF-8 CSV prefixed with a BOM so spreadsheet tools
// detect the encoding. Both export surfaces go through here.
func renderCSV(header []string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("\ufeff")
	w := csv.NewWriter(&buf)

	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
