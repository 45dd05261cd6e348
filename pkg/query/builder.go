package query

import (
	"fmt"
	"reflect"
	"strings"
)

type condition struct {
	column string
	op     string
	arg    any
}

// SortField is a single ORDER BY term keyed by projected field name.
type SortField struct {
	Field      string
	Descending bool
}

// Builder accumulates conditions and ordering and renders numbered placeholders.
type Builder struct {
	projection *ProjectionMap
	conditions []condition
	order      []SortField
}

// NewBuilder creates a Builder ordered by the given sort fields.
func NewBuilder(projection *ProjectionMap, order ...SortField) *Builder {
	return &Builder{
		projection: projection,
		order:      order,
	}
}

// WhereEquals adds field = value. Nil values, including typed nil pointers, are ignored.
func (b *Builder) WhereEquals(field string, value any) *Builder {
	return b.where(field, "=", value)
}

// Build returns the full ordered SELECT.
func (b *Builder) Build() (string, []any) {
	where, args := b.buildWhere()
	sql := fmt.Sprintf(
		"SELECT %s FROM %s%s%s",
		b.projection.Columns(), b.projection.From(), where, b.buildOrderBy(),
	)
	return sql, args
}

// BuildCount returns SELECT COUNT(*) over the current conditions.
func (b *Builder) BuildCount() (string, []any) {
	where, args := b.buildWhere()
	return fmt.Sprintf("SELECT COUNT(*) FROM %s%s", b.projection.From(), where), args
}

// BuildPage returns the ordered SELECT limited to one 1-based page.
func (b *Builder) BuildPage(page, pageSize int) (string, []any) {
	sql, args := b.Build()
	return fmt.Sprintf("%s LIMIT %d OFFSET %d", sql, pageSize, (page-1)*pageSize), args
}

// BuildSingle returns a SELECT for the row whose field equals id.
func (b *Builder) BuildSingle(field string, id any) (string, []any) {
	sql := fmt.Sprintf(
		"SELECT %s FROM %s WHERE %s = $1",
		b.projection.Columns(), b.projection.From(), b.projection.Column(field),
	)
	return sql, []any{id}
}

func (b *Builder) where(field, op string, value any) *Builder {
	if isNil(value) {
		return b
	}
	b.conditions = append(b.conditions, condition{
		column: b.projection.Column(field),
		op:     op,
		arg:    deref(value),
	})
	return b
}

func (b *Builder) buildWhere() (string, []any) {
	if len(b.conditions) == 0 {
		return "", nil
	}

	clauses := make([]string, len(b.conditions))
	args := make([]any, len(b.conditions))

	for i, c := range b.conditions {
		clauses[i] = fmt.Sprintf("%s %s $%d", c.column, c.op, i+1)
		args[i] = c.arg
	}

	return " WHERE " + strings.Join(clauses, " AND "), args
}

func (b *Builder) buildOrderBy() string {
	if len(b.order) == 0 {
		return ""
	}

	parts := make([]string, len(b.order))
	for i, f := range b.order {
		dir := "ASC"
		if f.Descending {
			dir = "DESC"
		}
		parts[i] = b.projection.Column(f.Field) + " " + dir
	}

	return " ORDER BY " + strings.Join(parts, ", ")
}

func isNil(value any) bool {
	if value == nil {
		return true
	}

	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface:
		return v.IsNil()
	}
	return false
}

func deref(value any) any {
	v := reflect.ValueOf(value)
	if v.Kind() == reflect.Pointer {
		return v.Elem().Interface()
	}
	return value
}
