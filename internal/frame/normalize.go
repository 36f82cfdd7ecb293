package frame

import (
	"errors"
	"fmt"
)

var (
	// ErrEmpty is returned for tables without rows or columns.
	ErrEmpty = errors.New("frame: empty table")
	// ErrUnknownShape is returned when no level of the column index holds a price field.
	ErrUnknownShape = errors.New("frame: unrecognised column layout")
	// ErrNoPriceField is returned when neither Close nor Adj Close exists for the symbol.
	ErrNoPriceField = errors.New("frame: no close price field")
)

// Layout describes how a table's columns are organised.
type Layout int

const (
	LayoutUnknown Layout = iota
	LayoutFlat
	LayoutFieldMajor  // (field, symbol)
	LayoutSymbolMajor // (symbol, field)
)

func (l Layout) String() string {
	switch l {
	case LayoutFlat:
		return "flat"
	case LayoutFieldMajor:
		return "field-major"
	case LayoutSymbolMajor:
		return "symbol-major"
	default:
		return "unknown"
	}
}

// Layout inspects the column index and reports which level holds field names.
func (t *Table) Layout() Layout {
	if t == nil || len(t.Columns) == 0 {
		return LayoutUnknown
	}
	nested := false
	outerField, innerField := false, false
	for _, c := range t.Columns {
		if c.Inner != "" {
			nested = true
		}
		if knownFields[c.Outer] {
			outerField = true
		}
		if knownFields[c.Inner] {
			innerField = true
		}
	}
	switch {
	case !nested && outerField:
		return LayoutFlat
	case nested && outerField:
		return LayoutFieldMajor
	case nested && innerField:
		return LayoutSymbolMajor
	default:
		return LayoutUnknown
	}
}

// Normalize maps any supported layout to a flat table holding symbol's
// fields. When Close is missing, Adj Close is used in its place. An empty
// symbol on a nested table selects the only symbol present.
func Normalize(t *Table, symbol string) (*Table, error) {
	if t.Empty() {
		return nil, ErrEmpty
	}

	layout := t.Layout()
	if layout == LayoutUnknown {
		return nil, ErrUnknownShape
	}
	if symbol == "" && layout != LayoutFlat {
		syms := t.Symbols()
		if len(syms) != 1 {
			return nil, fmt.Errorf("%w: %d symbols and none selected", ErrUnknownShape, len(syms))
		}
		symbol = syms[0]
	}

	flat := &Table{Index: t.Index}
	for i, c := range t.Columns {
		var field string
		switch layout {
		case LayoutFlat:
			field = c.Outer
		case LayoutFieldMajor:
			if c.Inner != symbol {
				continue
			}
			field = c.Outer
		case LayoutSymbolMajor:
			if c.Outer != symbol {
				continue
			}
			field = c.Inner
		}
		if !knownFields[field] {
			continue
		}
		flat.Columns = append(flat.Columns, Column{Outer: field})
		flat.Data = append(flat.Data, t.Data[i])
	}

	if flat.Col(FieldClose, "") != nil {
		return flat, nil
	}
	for i, c := range flat.Columns {
		if c.Outer == FieldAdjClose {
			flat.Columns[i] = Column{Outer: FieldClose}
			return flat, nil
		}
	}
	return nil, fmt.Errorf("%w for %q in %s table", ErrNoPriceField, symbol, layout)
}
