package sheet

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// SheetName is the table every record is appended to.
const SheetName = "CustomerData"

// Header is the fixed first row of SheetName.
var Header = []string{"Date", "Name", "WhatsApp Number", "Address", "Total Volume (ft^3)"}

// ErrFormat means the target bytes are not a workbook.
var ErrFormat = errors.New("target is not a valid workbook")

// Document wraps an in-memory workbook.
type Document struct {
	file *excelize.File
}

// Sheet is a named table inside a Document.
type Sheet struct {
	doc  *Document
	name string
}

func (s *Sheet) Name() string { return s.name }

// CreateEmpty returns a workbook holding only the header row under SheetName.
func CreateEmpty() (*Document, error) {
	f := excelize.NewFile()
	if first := f.GetSheetName(0); first != "" && first != SheetName {
		if err := f.SetSheetName(first, SheetName); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("rename default sheet: %w", err)
		}
	}
	doc := &Document{file: f}
	if err := doc.setRow(SheetName, 1, Header); err != nil {
		_ = f.Close()
		return nil, err
	}
	return doc, nil
}

// Decode parses workbook bytes. Anything that is not a workbook fails with ErrFormat.
func Decode(data []byte) (*Document, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrFormat)
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	return &Document{file: f}, nil
}

// Encode serialises the whole workbook for a full replacement of the target.
func Encode(doc *Document) ([]byte, error) {
	if doc == nil || doc.file == nil {
		return nil, errors.New("encode: nil document")
	}
	buf, err := doc.file.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("encode workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// GetOrCreateSheet returns the named sheet, registering an empty one when absent.
// It never writes the header; AppendRow does that for an empty sheet.
func GetOrCreateSheet(doc *Document, name string) (*Sheet, error) {
	if doc == nil || doc.file == nil {
		return nil, errors.New("get sheet: nil document")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("get sheet: empty name")
	}
	idx, err := doc.file.GetSheetIndex(name)
	if err != nil {
		return nil, fmt.Errorf("lookup sheet %q: %w", name, err)
	}
	if idx == -1 {
		if _, err := doc.file.NewSheet(name); err != nil {
			return nil, fmt.Errorf("create sheet %q: %w", name, err)
		}
	}
	return &Sheet{doc: doc, name: name}, nil
}

// AppendRow writes row after the last existing row. An empty sheet gets the
// header first. Existing rows are never rewritten.
func AppendRow(s *Sheet, row []string) error {
	if s == nil || s.doc == nil {
		return errors.New("append row: nil sheet")
	}
	rows, err := s.doc.file.GetRows(s.name)
	if err != nil {
		return fmt.Errorf("read rows of %q: %w", s.name, err)
	}
	next := len(rows) + 1
	if len(rows) == 0 {
		if err := s.doc.setRow(s.name, 1, Header); err != nil {
			return err
		}
		next = 2
	}
	return s.doc.setRow(s.name, next, row)
}

// Rows returns every row of the sheet as text, header included.
func Rows(s *Sheet) ([][]string, error) {
	if s == nil || s.doc == nil {
		return nil, errors.New("rows: nil sheet")
	}
	rows, err := s.doc.file.GetRows(s.name)
	if err != nil {
		return nil, fmt.Errorf("read rows of %q: %w", s.name, err)
	}
	return rows, nil
}

// SheetNames lists the sheets in workbook order.
func SheetNames(doc *Document) []string {
	if doc == nil || doc.file == nil {
		return nil
	}
	return doc.file.GetSheetList()
}

func (d *Document) Close() error {
	if d == nil || d.file == nil {
		return nil
	}
	return d.file.Close()
}

func (d *Document) setRow(sheetName string, rowNum int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return fmt.Errorf("cell name for row %d: %w", rowNum, err)
	}
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}
	if err := d.file.SetSheetRow(sheetName, cell, &cells); err != nil {
		return fmt.Errorf("write row %d of %q: %w", rowNum, sheetName, err)
	}
	return nil
}
