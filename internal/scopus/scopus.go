// Package scopus parses Scopus CSV exports into plain transfer records.
package scopus

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrMalformedCSV indicates the export could not be parsed.
var ErrMalformedCSV = errors.New("malformed Scopus CSV")

// noAuthorPlaceholders are the literals Scopus emits when a record has no
// author; such rows yield an empty author list, not a parse error.
// Exports have carried both spellings.
var noAuthorPlaceholders = []string{
	"no author name available",
	"no author available",
}

// Record is one row of a Scopus export.
type Record struct {
	DOI     string
	ISSN    string
	Issue   string
	Journal string
	Pages   string // combined "start-end" range
	Title   string
	Volume  string
	Year    string
	Authors []string // full names, semicolon-delimited in the export
}

// Column headers of a Scopus CSV export.
const (
	colAuthors   = "Authors"
	colTitle     = "Title"
	colYear      = "Year"
	colJournal   = "Source title"
	colVolume    = "Volume"
	colIssue     = "Issue"
	colPageStart = "Page start"
	colPageEnd   = "Page end"
	colDOI       = "DOI"
	colISSN      = "ISSN"
)

// Parse reads a Scopus CSV export row by row. A UTF-8 byte-order mark at
// the start of the stream is stripped before parsing.
func Parse(r io.Reader) ([]Record, error) {
	br := bufio.NewReader(r)
	stripBOM(br)

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: reading header: %v", ErrMalformedCSV, err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}

	var records []Record
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ErrMalformedCSV, len(records)+2, err)
		}

		field := func(name string) string {
			i, ok := cols[name]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		records = append(records, Record{
			DOI:     field(colDOI),
			ISSN:    field(colISSN),
			Issue:   field(colIssue),
			Journal: field(colJournal),
			Pages:   pageRange(field(colPageStart), field(colPageEnd)),
			Title:   field(colTitle),
			Volume:  field(colVolume),
			Year:    field(colYear),
			Authors: splitAuthors(field(colAuthors)),
		})
	}

	return records, nil
}

// stripBOM discards a leading UTF-8 byte-order mark, if present.
func stripBOM(br *bufio.Reader) {
	bom, err := br.Peek(3)
	if err == nil && bom[0] == 0xEF && bom[1] == 0xBB && bom[2] == 0xBF {
		br.Discard(3)
	}
}

// pageRange combines the start and end page columns into a single
// "start-end" range.
func pageRange(start, end string) string {
	switch {
	case start == "":
		return end
	case end == "":
		return start
	}
	return start + "-" + end
}

// splitAuthors splits the semicolon-delimited author field. The
// no-author placeholder yields an empty list.
func splitAuthors(field string) []string {
	field = strings.TrimSpace(field)
	if field == "" {
		return nil
	}
	trimmed := strings.Trim(field, "[]")
	for _, placeholder := range noAuthorPlaceholders {
		if strings.EqualFold(trimmed, placeholder) {
			return nil
		}
	}

	var authors []string
	for _, name := range strings.Split(field, ";") {
		name = strings.TrimSpace(name)
		if name != "" {
			authors = append(authors, name)
		}
	}
	return authors
}
