// Package transfer parses bulk import files and encodes or decodes complete backups.
// It performs no I/O against the record store; callers persist what it returns.
package transfer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrUnsupportedFile is returned for uploads that are neither CSV nor XLSX.
var ErrUnsupportedFile = errors.New("transfer: unsupported file type")

// Row is one line of an import file with its 1-based line number.
type Row struct {
	Line  int
	Cells []string
}

// First returns the first cell, or "".
func (r Row) First() string {
	if len(r.Cells) == 0 {
		return ""
	}
	return r.Cells[0]
}

// Blank reports whether every cell is empty.
func (r Row) Blank() bool {
	for _, c := range r.Cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// Read dispatches on the file extension.
func Read(filename string, data []byte) ([]Row, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv", ".txt", "":
		return ReadCSV(data)
	case ".xlsx":
		return ReadXLSX(data)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFile, filepath.Ext(filename))
}

// ReadCSV parses RFC 4180 text into rows, so quoted fields may hold commas,
// doubled quotes and line breaks. Rows may have any number of cells, stray
// quotes are kept literally and cells are trimmed. A row's Line is the line it
// starts on. Blank rows are dropped.
func ReadCSV(data []byte) ([]Row, error) {
	text := strings.TrimPrefix(string(data), "\uFEFF")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	cr := csv.NewReader(strings.NewReader(text))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	var rows []Row
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		line, _ := cr.FieldPos(0)
		r := Row{Line: line, Cells: make([]string, len(record))}
		for i, c := range record {
			r.Cells[i] = strings.TrimSpace(c)
		}
		if r.Blank() {
			continue
		}
		rows = append(rows, r)
	}
}

// ReadXLSX reads the first sheet of a workbook.
func ReadXLSX(data []byte) ([]Row, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		sheet = "Sheet1"
	}
	grid, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}

	rows := make([]Row, 0, len(grid))
	for i, cells := range grid {
		r := Row{Line: i + 1, Cells: make([]string, len(cells))}
		for j, c := range cells {
			r.Cells[j] = strings.TrimSpace(c)
		}
		if r.Blank() {
			continue
		}
		rows = append(rows, r)
	}
	return rows, nil
}
