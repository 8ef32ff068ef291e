package adapters

import (
	"github.com/de-tools/port-atlas/pkg/models/api"
	"github.com/de-tools/port-atlas/pkg/models/domain"
)

func MapTableSchema(s domain.TableSchema) api.TableSchema {
	columns := make([]api.Column, len(s.Columns))
	for i, c := range s.Columns {
		columns[i] = api.Column{Name: c.Name, Type: c.Type, Numeric: c.Numeric}
	}
	return api.TableSchema{Table: s.Table, Columns: columns}
}

func MapDataset(d domain.Dataset) api.Dataset {
	rows := d.Rows
	if rows == nil {
		rows = [][]any{}
	}
	columns := d.Columns
	if columns == nil {
		columns = []string{}
	}
	return api.Dataset{Columns: columns, Rows: rows}
}

func MapPivotRequest(table string, req api.PivotRequest) domain.PivotSpec {
	return domain.PivotSpec{
		Table:   table,
		Rows:    req.Rows,
		Columns: req.Columns,
		Value:   req.Value,
	}
}

func MapGrid(g domain.Grid) api.Grid {
	columnFields := g.ColumnFields
	if columnFields == nil {
		columnFields = []string{}
	}
	return api.Grid{
		RowFields:    g.RowFields,
		ColumnFields: columnFields,
		ValueField:   g.ValueField,
		RowKeys:      g.RowKeys,
		ColumnKeys:   g.ColumnKeys,
		Cells:        g.Cells,
	}
}

func MapRecordForm(f domain.RecordForm) api.RecordForm {
	fields := make([]api.FormField, len(f.Fields))
	for i, field := range f.Fields {
		fields[i] = api.FormField{
			Name:    field.Name,
			Type:    field.Type,
			Numeric: field.Numeric,
			Options: field.Options,
		}
	}
	return api.RecordForm{Table: f.Table, Fields: fields}
}
