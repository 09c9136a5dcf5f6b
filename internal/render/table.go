package render

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// HeaderStyle says which part of a table renders as its header.
type HeaderStyle string

const (
	HeaderRow    HeaderStyle = "row"
	HeaderColumn HeaderStyle = "column"
	HeaderBoth   HeaderStyle = "both"
	HeaderNone   HeaderStyle = "none"
)

// TableRow is one row of cells; each cell is its own block content tree.
type TableRow struct {
	Cells []BlockContents `json:"cells"`
}

// CellExtent is span metadata for one cell.
type CellExtent struct {
	Row     int
	Column  int
	Colspan uint `json:"colspan,omitempty"`
	Rowspan uint `json:"rowspan,omitempty"`
}

// Table is a block table. It needs a custom codable path because cell span
// metadata is keyed on the wire by a synthetic "{row}_{col}" string rather
// than following the struct's natural field layout.
type Table struct {
	Header       HeaderStyle
	Alignments   []string
	Rows         []TableRow
	ExtendedData []CellExtent
}

func (Table) blockType() string { return BlockTypeTable }

func (t Table) PlainText() string {
	var parts []string
	for _, row := range t.Rows {
		for _, cell := range row.Cells {
			if text := cell.PlainText(); text != "" {
				parts = append(parts, text)
			}
		}
	}
	return strings.Join(parts, "\n")
}

// tableJSON is the wire layout minus the dynamic extendedData keys.
type tableJSON struct {
	Header       HeaderStyle                `json:"header"`
	Alignments   []string                   `json:"alignments,omitempty"`
	Rows         [][]BlockContents          `json:"rows"`
	ExtendedData map[string]json.RawMessage `json:"extendedData,omitempty"`
}

type cellExtentJSON struct {
	Colspan uint `json:"colspan,omitempty"`
	Rowspan uint `json:"rowspan,omitempty"`
}

func (t Table) marshalWithExtendedData() (json.RawMessage, error) {
	rows := make([][]BlockContents, len(t.Rows))
	for i, row := range t.Rows {
		rows[i] = row.Cells
	}

	var extended map[string]json.RawMessage
	if len(t.ExtendedData) > 0 {
		extended = make(map[string]json.RawMessage, len(t.ExtendedData))
		for _, extent := range t.ExtendedData {
			key := fmt.Sprintf("%d_%d", extent.Row, extent.Column)
			encoded, err := json.Marshal(cellExtentJSON{Colspan: extent.Colspan, Rowspan: extent.Rowspan})
			if err != nil {
				return nil, fmt.Errorf("encoding table cell %s: %w", key, err)
			}
			extended[key] = encoded
		}
	}

	fields, err := json.Marshal(tableJSON{
		Header:       t.Header,
		Alignments:   t.Alignments,
		Rows:         rows,
		ExtendedData: extended,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding table: %w", err)
	}
	return withTypeTag(BlockTypeTable, fields)
}

func unmarshalTable(b []byte) (Table, error) {
	var raw tableJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return Table{}, err
	}

	t := Table{Header: raw.Header, Alignments: raw.Alignments}
	if t.Header == "" {
		t.Header = HeaderNone
	}
	t.Rows = make([]TableRow, len(raw.Rows))
	for i, cells := range raw.Rows {
		t.Rows[i] = TableRow{Cells: cells}
	}

	for key, encoded := range raw.ExtendedData {
		row, col, err := parseCellKey(key)
		if err != nil {
			return Table{}, err
		}
		var spans cellExtentJSON
		if err := json.Unmarshal(encoded, &spans); err != nil {
			return Table{}, fmt.Errorf("table cell %s: %w", key, err)
		}
		t.ExtendedData = append(t.ExtendedData, CellExtent{
			Row:     row,
			Column:  col,
			Colspan: spans.Colspan,
			Rowspan: spans.Rowspan,
		})
	}
	return t, nil
}

// parseCellKey splits a synthetic "{row}_{col}" key back into coordinates.
func parseCellKey(key string) (row, col int, err error) {
	left, right, ok := strings.Cut(key, "_")
	if !ok {
		return 0, 0, fmt.Errorf("table extendedData key %q is not of the form row_col", key)
	}
	row, err = strconv.Atoi(left)
	if err != nil {
		return 0, 0, fmt.Errorf("table extendedData key %q: bad row: %w", key, err)
	}
	col, err = strconv.Atoi(right)
	if err != nil {
		return 0, 0, fmt.Errorf("table extendedData key %q: bad column: %w", key, err)
	}
	return row, col, nil
}
