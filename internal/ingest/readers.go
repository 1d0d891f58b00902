package ingest

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Format of a dataset document
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatXLSX Format = "xlsx"
)

// FormatFromPath picks the format from a file or URL path extension
func FormatFromPath(p string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(p))
	if ext == "" {
		ext = strings.ToLower(path.Ext(p))
	}
	switch ext {
	case ".csv":
		return FormatCSV, nil
	case ".json":
		return FormatJSON, nil
	case ".xlsx":
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("unsupported dataset extension %q", ext)
}

// formatFromContentType maps a response media type, if it is specific enough
func formatFromContentType(contentType string) (Format, bool) {
	mediaType := strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	switch mediaType {
	case "text/csv", "application/csv":
		return FormatCSV, true
	case "application/json", "text/json":
		return FormatJSON, true
	case "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":
		return FormatXLSX, true
	}
	return "", false
}

// Read parses r in the given format
func Read(r io.Reader, format Format) (*Table, error) {
	switch format {
	case FormatCSV:
		return ReadCSV(r)
	case FormatJSON:
		return ReadJSON(r)
	case FormatXLSX:
		return ReadXLSX(r)
	}
	return nil, fmt.Errorf("unsupported dataset format %q", format)
}

// ReadCSV parses a comma-separated table with a header row
func ReadCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	grid, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	return fromGrid(grid)
}

// ReadXLSX parses the first sheet of a workbook
func ReadXLSX(r io.Reader) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrFormat)
	}

	grid, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	return fromGrid(grid)
}

// ReadJSON parses an array of row objects. Key order of the first object
// becomes the column order.
func ReadJSON(r io.Reader) (*Table, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	if err := expectDelim(dec, '['); err != nil {
		return nil, err
	}

	var (
		columns []string
		seen    = map[string]bool{}
		rows    []row
	)
	for dec.More() {
		if err := expectDelim(dec, '{'); err != nil {
			return nil, err
		}
		r := row{}
		for dec.More() {
			tok, err := dec.Token()
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrFormat, err)
			}
			key, ok := tok.(string)
			if !ok {
				return nil, fmt.Errorf("%w: expected object key", ErrFormat)
			}
			var raw any
			if err := dec.Decode(&raw); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrFormat, err)
			}
			c, err := jsonCell(raw)
			if err != nil {
				return nil, fmt.Errorf("%w: field %q: %v", ErrFormat, key, err)
			}
			r[key] = c
			if !seen[key] {
				seen[key] = true
				columns = append(columns, key)
			}
		}
		if err := expectDelim(dec, '}'); err != nil {
			return nil, err
		}
		rows = append(rows, r)
	}
	if err := expectDelim(dec, ']'); err != nil {
		return nil, err
	}
	return build(columns, rows, 1)
}

func jsonCell(raw any) (cell, error) {
	switch v := raw.(type) {
	case nil:
		return cell{null: true}, nil
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return cell{}, err
		}
		return cell{number: f, numeric: true, text: v.String()}, nil
	case string:
		return textCell(v), nil
	}
	return cell{}, fmt.Errorf("unsupported value %v", raw)
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFormat, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("%w: expected %q", ErrFormat, want)
	}
	return nil
}
