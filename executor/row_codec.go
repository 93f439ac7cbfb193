package executor

import (
	"bytes"
	"encoding/gob"

	"github.com/rrdb/rrdb/ast"
)

func init() {
	gob.Register(ast.IntegerValue(0))
	gob.Register(ast.FloatValue(0))
	gob.Register(ast.BooleanValue(false))
	gob.Register(ast.StringValue(""))
	gob.Register(ast.ArrayValue{})
	gob.Register(ast.NullValue{})
}

// storedRow is the on-disk shape of one heap payload: the owning table plus
// parallel column-name/value slices, so a full scan can reconstruct an
// ast.Row without consulting the catalog for column order.
type storedRow struct {
	Table   string
	Columns []string
	Values  []ast.Value
}

func encodeRow(table string, fields []ast.Field) ([]byte, error) {
	sr := storedRow{Table: table, Columns: make([]string, len(fields)), Values: make([]ast.Value, len(fields))}
	for i, f := range fields {
		sr.Columns[i] = f.Column
		sr.Values[i] = f.Data
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(sr); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeRow(data []byte) (*ast.Row, error) {
	var sr storedRow
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&sr); err != nil {
		return nil, err
	}
	row := &ast.Row{Fields: make([]ast.Field, len(sr.Columns))}
	for i, c := range sr.Columns {
		row.Fields[i] = ast.Field{Table: sr.Table, Column: c, Data: sr.Values[i]}
	}
	return row, nil
}
