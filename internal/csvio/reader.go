package csvio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrMissingColumn is returned when a required column is absent from the header.
var ErrMissingColumn = errors.New("missing required column")

// utf8BOM is stripped from the first header cell.
const utf8BOM = "\ufeff"

// Record is a single CSV row keyed by column name.
type Record struct {
	// Line is the 1-based line on which the row starts (the header is line 1).
	Line int
	// Fields maps column name to value. Missing trailing cells are "".
	Fields map[string]string
}

// Get returns the value of a column, or "" if the column is absent.
func (r Record) Get(column string) string {
	return r.Fields[column]
}

// Reader reads header-keyed records.
type Reader struct {
	csv    *csv.Reader
	header []string
}

// NewReader reads the header row from r. An input with no header is
// reported as io.EOF.
func NewReader(r io.Reader) (*Reader, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // rows may be shorter or longer than the header

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}

		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	header = append([]string(nil), header...)
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}

	return &Reader{csv: cr, header: header}, nil
}

// Require checks that every named column is present in the header.
func (r *Reader) Require(columns ...string) error {
	var missing []string

	for _, c := range columns {
		if !r.has(c) {
			missing = append(missing, c)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}

	return nil
}

func (r *Reader) has(column string) bool {
	for _, h := range r.header {
		if h == column {
			return true
		}
	}

	return false
}

// Next returns the next record, or io.EOF after the last one. A malformed
// row is returned as a *csv.ParseError; reading may continue after it.
func (r *Reader) Next() (Record, error) {
	row, err := r.csv.Read()
	if err != nil {
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			return Record{Line: perr.StartLine}, err
		}

		return Record{}, err
	}

	line := 0
	if len(row) > 0 {
		line, _ = r.csv.FieldPos(0)
	}

	fields := make(map[string]string, len(r.header))
	for i, h := range r.header {
		if i < len(row) {
			fields[h] = row[i]
		} else {
			fields[h] = ""
		}
	}

	return Record{Line: line, Fields: fields}, nil
}

// ReadAll reads every remaining record. It stops at the first error.
func (r *Reader) ReadAll() ([]Record, error) {
	var records []Record

	for {
		rec, err := r.Next()
		if errors.Is(err, io.EOF) {
			return records, nil
		}

		if err != nil {
			return records, err
		}

		records = append(records, rec)
	}
}
