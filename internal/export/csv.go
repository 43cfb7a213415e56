package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// CSV renders a header and rows as RFC 4180 text with the BOM prefix.
func CSV(header []string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(BOM)
	if err := writeTable(&buf, header, rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeTable(buf *bytes.Buffer, header []string, rows [][]string) error {
	w := csv.NewWriter(buf)
	if header != nil {
		if err := w.Write(header); err != nil {
			return fmt.Errorf("write csv header: %w", err)
		}
	}
	for _, r := range rows {
		if err := w.Write(r); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}
