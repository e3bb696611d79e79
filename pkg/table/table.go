// Package table reads plans from CSV spreadsheets.
//
// The first row is a header naming the columns: type, location, width,
// depth, height, adjacent, direction, alignment, offset and colour. Header
// names are case-insensitive, "color" is accepted for "colour" and "name"
// for "location". Columns may appear in any order and unknown columns are
// ignored. A row without a type is a room.
//
//	type,location,width,depth,height,adjacent,direction,alignment,offset
//	room,hall,400,400,250,start,,,
//	room,kitchen,300,400,250,hall,right,back,
//	door,front-door,90,210,0,hall,front,,50
//	constant,wall_thickness,12,,,,,,
package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chazu/roomplan/pkg/graph"
)

var (
	ErrNoHeader        = errors.New("table: missing header row")
	ErrMissingColumn   = errors.New("table: missing required column")
	ErrDuplicateColumn = errors.New("table: duplicate column")
)

// Column names after alias folding.
const (
	colType      = "type"
	colLocation  = "location"
	colWidth     = "width"
	colDepth     = "depth"
	colHeight    = "height"
	colAdjacent  = "adjacent"
	colDirection = "direction"
	colAlignment = "alignment"
	colOffset    = "offset"
	colColour    = "colour"
)

var aliases = map[string]string{
	"color": colColour,
	"name":  colLocation,
}

var known = map[string]bool{
	colType: true, colLocation: true, colWidth: true, colDepth: true, colHeight: true,
	colAdjacent: true, colDirection: true, colAlignment: true, colOffset: true, colColour: true,
}

// LineError reports a problem with one data row.
type LineError struct {
	Line int // 1-based line in the input
	Name string
	Err  error
}

func (e *LineError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("line %d (%s): %v", e.Line, e.Name, e.Err)
}

func (e *LineError) Unwrap() error { return e.Err }

// ReadFile reads a plan from the CSV file at path.
func ReadFile(path string) (*graph.Plan, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open table: %w", err)
	}
	defer f.Close()

	p, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Read parses a CSV table into a plan. The first malformed row aborts the
// read.
func Read(r io.Reader) (*graph.Plan, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols, err := parseHeader(header)
	if err != nil {
		return nil, err
	}

	p := graph.New()
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		line, _ := cr.FieldPos(0)
		if blank(rec) {
			continue
		}

		row := cols.row(rec)
		spec, err := row.spec(line, strings.Join(rec, ","))
		if err != nil {
			return nil, &LineError{Line: line, Name: row.Location, Err: err}
		}
		e, err := graph.NewEntity(spec)
		if err != nil {
			return nil, &LineError{Line: line, Name: row.Location, Err: err}
		}
		if err := p.Add(e); err != nil {
			return nil, &LineError{Line: line, Name: row.Location, Err: err}
		}
	}
	return p, nil
}

// columns maps folded column names to record indices.
type columns map[string]int

func parseHeader(header []string) (columns, error) {
	cols := make(columns)
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(h))
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		if a, ok := aliases[name]; ok {
			name = a
		}
		if !known[name] {
			continue
		}
		if _, dup := cols[name]; dup {
			return nil, fmt.Errorf("%w %q", ErrDuplicateColumn, name)
		}
		cols[name] = i
	}
	if _, ok := cols[colLocation]; !ok {
		return nil, fmt.Errorf("%w %q", ErrMissingColumn, colLocation)
	}
	return cols, nil
}

func (c columns) get(rec []string, name string) string {
	i, ok := c[name]
	if !ok || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

func (c columns) row(rec []string) row {
	return row{
		Type:      strings.ToLower(c.get(rec, colType)),
		Location:  c.get(rec, colLocation),
		Width:     c.get(rec, colWidth),
		Depth:     c.get(rec, colDepth),
		Height:    c.get(rec, colHeight),
		Adjacent:  c.get(rec, colAdjacent),
		Direction: strings.ToLower(c.get(rec, colDirection)),
		Alignment: c.get(rec, colAlignment),
		Offset:    c.get(rec, colOffset),
		Colour:    c.get(rec, colColour),
	}
}

func blank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
