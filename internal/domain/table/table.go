// Package table is a small tabular view over gota dataframes. It carries the
// projection, equality filter, concatenation and scalar extraction used by the
// OpenClimate lookups, and renders itself as records JSON or a TSV grid.
package table

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Table is an immutable dataframe. Every query returns a new Table.
type Table struct {
	df dataframe.DataFrame
}

// New returns an empty table with the given columns.
func New(columns ...string) *Table {
	return FromRecords(columns, nil)
}

// FromRecords builds a table from records keyed by column name. Keys outside
// columns are ignored and missing keys become NaN. Each column takes the type
// of its values: int, float, bool or string.
func FromRecords(columns []string, records []map[string]any) *Table {
	cols := dedupe(columns)
	if len(cols) == 0 {
		return &Table{}
	}
	ss := make([]series.Series, 0, len(cols))
	for _, c := range cols {
		vals := make([]any, len(records))
		for i, rec := range records {
			vals[i] = normalize(rec[c])
		}
		ss = append(ss, series.New(vals, columnType(vals), c))
	}
	return &Table{df: dataframe.New(ss...)}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t.noColumns() {
		return 0
	}
	return t.df.Nrow()
}

// Empty reports whether the table has no rows.
func (t *Table) Empty() bool { return t.Len() == 0 }

// Columns returns the column names in order.
func (t *Table) Columns() []string {
	if t.noColumns() {
		return nil
	}
	return t.df.Names()
}

// HasColumn reports whether the table has the named column.
func (t *Table) HasColumn(name string) bool {
	return slices.Contains(t.Columns(), name)
}

// Rows returns every row in order.
func (t *Table) Rows() []Row {
	out := make([]Row, t.Len())
	for i := range out {
		out[i] = Row{t: t, i: i}
	}
	return out
}

// Row returns the i-th row.
func (t *Table) Row(i int) Row { return Row{t: t, i: i} }

// Select projects the table onto columns, in that order.
func (t *Table) Select(columns ...string) (*Table, error) {
	if err := t.require(columns...); err != nil {
		return nil, err
	}
	return t.wrap(t.df.Select(columns), "select")
}

// Where keeps the rows whose column equals value. Numeric columns compare by
// value, so 2030 matches 2030.0.
func (t *Table) Where(column string, value any) (*Table, error) {
	if err := t.require(column); err != nil {
		return nil, err
	}
	if t.Empty() {
		return t, nil
	}
	return t.wrap(t.df.Filter(dataframe.F{
		Colname:    column,
		Comparator: series.Eq,
		Comparando: normalize(value),
	}), "where "+column)
}

// Concat appends the rows of others below t. Columns are the union of all
// inputs in first-seen order; cells a table lacks are NaN.
func (t *Table) Concat(others ...*Table) *Table {
	all := append([]*Table{t}, others...)

	var cols []string
	types := map[string]series.Type{}
	for _, o := range all {
		for _, c := range o.Columns() {
			if _, ok := types[c]; !ok {
				cols = append(cols, c)
				types[c] = o.df.Col(c).Type()
			}
		}
	}

	var out *dataframe.DataFrame
	for _, o := range all {
		if o.Empty() {
			continue
		}
		df := o.widen(cols, types)
		if out == nil {
			out = &df
			continue
		}
		joined := out.RBind(df)
		out = &joined
	}
	if out == nil {
		return New(cols...)
	}
	return &Table{df: *out}
}

// DropDuplicates keeps the first of every group of equal rows.
func (t *Table) DropDuplicates() *Table {
	seen := make(map[string]struct{}, t.Len())
	keep := make([]int, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		k := t.rowKey(i)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		keep = append(keep, i)
	}
	if len(keep) == t.Len() {
		return t
	}
	return &Table{df: t.df.Subset(keep)}
}

// Item returns the single value of column. The table must have exactly one row.
func (t *Table) Item(column string) (any, error) {
	if err := t.require(column); err != nil {
		return nil, err
	}
	if n := t.Len(); n != 1 {
		return nil, fmt.Errorf("%w: %s has %d rows", ErrNotScalar, column, n)
	}
	v, _ := t.Row(0).Value(column)
	return v, nil
}

// Float returns the single value of column as a float64.
func (t *Table) Float(column string) (float64, error) {
	v, err := t.Item(column)
	if err != nil {
		return 0, err
	}
	f, ok := toFloat(v)
	if !ok {
		return 0, fmt.Errorf("%w: %s is %v", ErrNotNumeric, column, v)
	}
	return f, nil
}

// Floats returns the numeric values of column, skipping NaN cells.
func (t *Table) Floats(column string) ([]float64, error) {
	if err := t.require(column); err != nil {
		return nil, err
	}
	col := t.df.Col(column)
	if typ := col.Type(); typ == series.String || typ == series.Bool {
		if countNaN(col) == col.Len() {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %s is %s", ErrNotNumeric, column, col.Type())
	}
	out := make([]float64, 0, col.Len())
	for i := 0; i < col.Len(); i++ {
		if e := col.Elem(i); !e.IsNA() {
			out = append(out, e.Float())
		}
	}
	return out, nil
}

// Records returns one map per row. NaN cells are nil.
func (t *Table) Records() []map[string]any {
	if t.noColumns() {
		return []map[string]any{}
	}
	return t.df.Maps()
}

// MarshalJSON renders the table as {"columns": [...], "records": [...]}.
func (t *Table) MarshalJSON() ([]byte, error) {
	cols := t.Columns()
	if cols == nil {
		cols = []string{}
	}
	return json.Marshal(struct {
		Columns []string         `json:"columns"`
		Records []map[string]any `json:"records"`
	}{cols, t.Records()})
}

// String renders a tab-separated grid led by the row position.
func (t *Table) String() string {
	var b strings.Builder
	cols := t.Columns()
	for _, c := range cols {
		b.WriteByte('\t')
		b.WriteString(c)
	}
	b.WriteByte('\n')
	for i := 0; i < t.Len(); i++ {
		fmt.Fprintf(&b, "%d", i)
		for j := range cols {
			b.WriteByte('\t')
			b.WriteString(cellString(t.df.Elem(i, j)))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func (t *Table) noColumns() bool {
	return t == nil || t.df.Ncol() == 0
}

func (t *Table) require(columns ...string) error {
	have := t.Columns()
	for _, c := range columns {
		if !slices.Contains(have, c) {
			return fmt.Errorf("%w: %s", ErrColumnNotFound, c)
		}
	}
	return nil
}

func (t *Table) wrap(df dataframe.DataFrame, op string) (*Table, error) {
	if df.Err != nil {
		return nil, fmt.Errorf("table %s: %w", op, df.Err)
	}
	return &Table{df: df}, nil
}

// widen returns the dataframe laid out on cols, adding NaN columns it lacks.
func (t *Table) widen(cols []string, types map[string]series.Type) dataframe.DataFrame {
	n := t.Len()
	ss := make([]series.Series, 0, len(cols))
	for _, c := range cols {
		if t.HasColumn(c) {
			ss = append(ss, t.df.Col(c))
			continue
		}
		ss = append(ss, series.New(make([]any, n), types[c], c))
	}
	return dataframe.New(ss...)
}

func (t *Table) rowKey(i int) string {
	var b strings.Builder
	for j := 0; j < t.df.Ncol(); j++ {
		e := t.df.Elem(i, j)
		if e.IsNA() {
			b.WriteString("\x00nan")
		} else {
			b.WriteString(cellString(e))
		}
		b.WriteByte('\x1f')
	}
	return b.String()
}

func dedupe(columns []string) []string {
	out := make([]string, 0, len(columns))
	for _, c := range columns {
		if !slices.Contains(out, c) {
			out = append(out, c)
		}
	}
	return out
}

func countNaN(s series.Series) int {
	n := 0
	for _, na := range s.IsNaN() {
		if na {
			n++
		}
	}
	return n
}
