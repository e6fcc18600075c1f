package gtfs

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

const utf8BOM = "\ufeff"

// Row maps a column name to its text. Empty cells are never present.
type Row map[string]string

// Reader streams the rows of one GTFS file in file order.
type Reader struct {
	csv    *csv.Reader
	header []string
	line   int
}

// NewReader reads the header line of r. A file with no header yields a
// reader that returns io.EOF straight away.
func NewReader(r io.Reader) (*Reader, error) {
	c := csv.NewReader(r)
	c.FieldsPerRecord = -1
	c.LazyQuotes = true
	c.ReuseRecord = true

	reader := &Reader{csv: c}

	header, err := c.Read()
	if errors.Is(err, io.EOF) {
		return reader, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	reader.line = 1

	reader.header = make([]string, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, utf8BOM)
		}
		reader.header[i] = strings.TrimSpace(name)
	}
	return reader, nil
}

func (r *Reader) Header() []string {
	return r.header
}

// Line returns the number of records read so far, header included.
func (r *Reader) Line() int {
	return r.line
}

// Next returns the next non-blank row or io.EOF.
func (r *Reader) Next() (Row, error) {
	if r.header == nil {
		return nil, io.EOF
	}

	for {
		record, err := r.csv.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, io.EOF
			}
			return nil, fmt.Errorf("line %d: %w", r.line+1, err)
		}
		r.line++

		row := make(Row, len(record))
		for i, value := range record {
			if i >= len(r.header) || r.header[i] == "" {
				continue
			}
			value = strings.TrimSpace(value)
			if value == "" {
				continue
			}
			row[r.header[i]] = value
		}
		if len(row) == 0 {
			continue
		}
		return row, nil
	}
}
