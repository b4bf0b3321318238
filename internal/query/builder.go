// Package query builds the filtered, paginated SQL shared by every list
// endpoint. Each data query is paired with a count query over the same
// predicates so totals always match the filtered set.
package query

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// NormalizePage clamps page and limit to sane bounds.
func NormalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return page, limit
}

// Builder accumulates optional predicates for one base entity. Values are
// always bound as parameters; predicate text never contains user input.
type Builder struct {
	columns string
	from    string
	joins   []string
	conds   []string
	args    []interface{}
	orderBy string
}

// New starts a builder selecting columns from the given table (with alias).
func New(columns, from string) *Builder {
	return &Builder{columns: columns, from: from, orderBy: "created_at DESC"}
}

// Join appends a join clause used by the data query only. Count queries stay
// on the base table; filters must reference base-table columns.
func (b *Builder) Join(clause string) *Builder {
	b.joins = append(b.joins, clause)
	return b
}

// Equal adds an equality predicate unless the value is absent. Nil pointers,
// nil interfaces and empty strings all count as absent and constrain nothing.
func (b *Builder) Equal(column string, value interface{}) *Builder {
	v, ok := presentValue(value)
	if !ok {
		return b
	}
	b.conds = append(b.conds, column+" = ?")
	b.args = append(b.args, v)
	return b
}

// Where adds a raw predicate with bound arguments.
func (b *Builder) Where(cond string, args ...interface{}) *Builder {
	b.conds = append(b.conds, cond)
	b.args = append(b.args, args...)
	return b
}

// Between adds an inclusive range predicate when both endpoints are supplied.
func (b *Builder) Between(column string, from, to *time.Time) *Builder {
	if from == nil || to == nil {
		return b
	}
	b.conds = append(b.conds, column+" BETWEEN ? AND ?")
	b.args = append(b.args, *from, *to)
	return b
}

// OverlapsWindow adds the three-way date-overlap predicate: an existing
// [startCol, endCol] window overlaps [from, to] when either stored endpoint
// falls inside the window or the stored window swallows it entirely.
func (b *Builder) OverlapsWindow(startCol, endCol string, from, to time.Time) *Builder {
	b.conds = append(b.conds, fmt.Sprintf(
		"((%[1]s BETWEEN ? AND ?) OR (%[2]s BETWEEN ? AND ?) OR (%[1]s <= ? AND %[2]s >= ?))",
		startCol, endCol,
	))
	b.args = append(b.args, from, to, from, to, from, to)
	return b
}

// Search adds a case-insensitive substring match OR-combined across the given
// text columns. An empty term constrains nothing.
func (b *Builder) Search(term string, columns ...string) *Builder {
	if term == "" || len(columns) == 0 {
		return b
	}
	parts := make([]string, len(columns))
	for i, col := range columns {
		parts[i] = "LOWER(" + col + ") LIKE ?"
		b.args = append(b.args, "%"+strings.ToLower(term)+"%")
	}
	b.conds = append(b.conds, "("+strings.Join(parts, " OR ")+")")
	return b
}

// OrderBy overrides the default newest-first ordering.
func (b *Builder) OrderBy(clause string) *Builder {
	b.orderBy = clause
	return b
}

// Build renders the data query and its paired count query with Postgres
// placeholders. The count query shares every predicate but carries no joins,
// ordering or paging.
func (b *Builder) Build(page, limit int) (dataSQL, countSQL string, args []interface{}) {
	page, limit = NormalizePage(page, limit)
	offset := (page - 1) * limit

	where := ""
	if len(b.conds) > 0 {
		where = " WHERE " + strings.Join(b.conds, " AND ")
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(b.columns)
	sb.WriteString(" FROM ")
	sb.WriteString(b.from)
	for _, join := range b.joins {
		sb.WriteString(" ")
		sb.WriteString(join)
	}
	sb.WriteString(where)
	sb.WriteString(" ORDER BY ")
	sb.WriteString(b.orderBy)
	fmt.Fprintf(&sb, " LIMIT %d OFFSET %d", limit, offset)

	dataSQL = sqlx.Rebind(sqlx.DOLLAR, sb.String())
	countSQL = sqlx.Rebind(sqlx.DOLLAR, "SELECT COUNT(*) FROM "+b.from+where)
	return dataSQL, countSQL, b.args
}

// BuildAll renders the data query without paging, for report extracts that
// need every matching row.
func (b *Builder) BuildAll() (dataSQL string, args []interface{}) {
	where := ""
	if len(b.conds) > 0 {
		where = " WHERE " + strings.Join(b.conds, " AND ")
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(b.columns)
	sb.WriteString(" FROM ")
	sb.WriteString(b.from)
	for _, join := range b.joins {
		sb.WriteString(" ")
		sb.WriteString(join)
	}
	sb.WriteString(where)
	sb.WriteString(" ORDER BY ")
	sb.WriteString(b.orderBy)

	return sqlx.Rebind(sqlx.DOLLAR, sb.String()), b.args
}

func presentValue(value interface{}) (interface{}, bool) {
	if value == nil {
		return nil, false
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}
	v := rv.Interface()
	if s, ok := v.(string); ok && s == "" {
		return nil, false
	}
	if rv.Kind() == reflect.String && rv.String() == "" {
		return nil, false
	}
	return v, true
}
