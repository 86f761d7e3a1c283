package table

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"

	"github.com/go-gota/gota/series"
)

// Row is a positional view of one table row.
type Row struct {
	t *Table
	i int
}

// Value returns the cell for column and whether the column exists. NaN cells
// are nil.
func (r Row) Value(column string) (any, bool) {
	e, ok := r.elem(column)
	if !ok {
		return nil, false
	}
	if e.IsNA() {
		return nil, true
	}
	return e.Val(), true
}

// String returns the cell as a string, or "" when it is missing, NaN or not
// a string column.
func (r Row) String(column string) string {
	e, ok := r.elem(column)
	if !ok || e.IsNA() || e.Type() != series.String {
		return ""
	}
	return e.String()
}

// Float returns the cell as a float64 when it holds a number.
func (r Row) Float(column string) (float64, bool) {
	v, _ := r.Value(column)
	return toFloat(v)
}

// Int returns the cell as an int when it holds a whole number.
func (r Row) Int(column string) (int, bool) {
	f, ok := r.Float(column)
	if !ok || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}

func (r Row) elem(column string) (series.Element, bool) {
	j := slices.Index(r.t.Columns(), column)
	if j < 0 || r.i < 0 || r.i >= r.t.Len() {
		return nil, false
	}
	return r.t.df.Elem(r.i, j), true
}

// normalize maps decoded JSON and sized numeric types onto int, float64,
// string, bool or nil.
func normalize(v any) any {
	switch x := v.(type) {
	case nil, string, bool, int, float64:
		return x
	case int8:
		return int(x)
	case int16:
		return int(x)
	case int32:
		return int(x)
	case int64:
		return int(x)
	case uint:
		return int(x)
	case uint16:
		return int(x)
	case uint32:
		return int(x)
	case float32:
		return float64(x)
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return int(i)
		}
		if f, err := x.Float64(); err == nil {
			return f
		}
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

// columnType picks the gota type that holds every non-nil value: Int when all
// are whole ints, Float when any is a float, Bool when all are bools and
// String otherwise.
func columnType(vals []any) series.Type {
	var ints, floats, bools, others int
	for _, v := range vals {
		switch v.(type) {
		case nil:
		case int:
			ints++
		case float64:
			floats++
		case bool:
			bools++
		default:
			others++
		}
	}
	switch {
	case others > 0 || ints+floats+bools == 0:
		return series.String
	case bools > 0 && ints+floats > 0:
		return series.String
	case bools > 0:
		return series.Bool
	case floats > 0:
		return series.Float
	default:
		return series.Int
	}
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case int:
		return float64(x), true
	case float64:
		if math.IsNaN(x) {
			return 0, false
		}
		return x, true
	default:
		return 0, false
	}
}

// cellString renders a cell for grids and row keys. NaN cells are "NaN".
func cellString(e series.Element) string {
	if e.IsNA() {
		return "NaN"
	}
	return fmt.Sprint(e.Val())
}
