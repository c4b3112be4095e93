package postgresql

import (
	"fmt"
	"strconv"
	"strings"
)

// clause is a SQL fragment with `?` placeholders and the arguments bound to them.
type clause struct {
	sql  string
	args []any
}

// numberPlaceholders rewrites `?` into PostgreSQL `$n` placeholders starting after n.
func numberPlaceholders(sql string, n int) (string, int) {
	var b strings.Builder
	b.Grow(len(sql) + 8)

	for _, r := range sql {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}

	return b.String(), n
}

// joinClauses numbers every clause in order and joins them with sep.
func joinClauses(clauses []clause, sep string, n int, args []any) (string, int, []any) {
	parts := make([]string, 0, len(clauses))
	for _, c := range clauses {
		var sql string
		sql, n = numberPlaceholders(c.sql, n)
		parts = append(parts, sql)
		args = append(args, c.args...)
	}
	return strings.Join(parts, sep), n, args
}

// selectBuilder implements SelectBuilder interface
type selectBuilder struct {
	columns   []string
	table     string
	where     []clause
	orderBy   []string
	limit     *int
	offset    *int
	forUpdate bool
}

// NewSelectBuilder creates a new select builder
func NewSelectBuilder() SelectBuilder {
	return &selectBuilder{}
}

func (sb *selectBuilder) Select(columns ...string) SelectBuilder {
	sb.columns = append(sb.columns, columns...)
	return sb
}

func (sb *selectBuilder) From(table string) SelectBuilder {
	sb.table = table
	return sb
}

func (sb *selectBuilder) Where(condition string, args ...any) SelectBuilder {
	sb.where = append(sb.where, clause{sql: condition, args: args})
	return sb
}

func (sb *selectBuilder) OrderBy(column string, desc ...bool) SelectBuilder {
	order := "ASC"
	if len(desc) > 0 && desc[0] {
		order = "DESC"
	}
	sb.orderBy = append(sb.orderBy, fmt.Sprintf("%s %s", column, order))
	return sb
}

func (sb *selectBuilder) Limit(limit int) SelectBuilder {
	sb.limit = &limit
	return sb
}

func (sb *selectBuilder) Offset(offset int) SelectBuilder {
	sb.offset = &offset
	return sb
}

func (sb *selectBuilder) ForUpdate() SelectBuilder {
	sb.forUpdate = true
	return sb
}

func (sb *selectBuilder) Build() (string, []any) {
	var (
		query strings.Builder
		args  []any
		n     int
	)

	query.WriteString("SELECT ")
	if len(sb.columns) == 0 {
		query.WriteString("*")
	} else {
		query.WriteString(strings.Join(sb.columns, ", "))
	}

	query.WriteString(" FROM ")
	query.WriteString(sb.table)

	if len(sb.where) > 0 {
		var where string
		where, n, args = joinClauses(sb.where, " AND ", n, args)
		query.WriteString(" WHERE ")
		query.WriteString(where)
	}

	if len(sb.orderBy) > 0 {
		query.WriteString(" ORDER BY ")
		query.WriteString(strings.Join(sb.orderBy, ", "))
	}

	if sb.limit != nil {
		n++
		query.WriteString(fmt.Sprintf(" LIMIT $%d", n))
		args = append(args, *sb.limit)
	}

	if sb.offset != nil {
		n++
		query.WriteString(fmt.Sprintf(" OFFSET $%d", n))
		args = append(args, *sb.offset)
	}

	if sb.forUpdate {
		query.WriteString(" FOR UPDATE")
	}

	return query.String(), args
}

// insertBuilder implements InsertBuilder interface
type insertBuilder struct {
	table      string
	columns    []string
	rows       [][]any
	onConflict string
	returning  []string
}

// NewInsertBuilder creates a new insert builder
func NewInsertBuilder() InsertBuilder {
	return &insertBuilder{}
}

func (ib *insertBuilder) Into(table string) InsertBuilder {
	ib.table = table
	return ib
}

func (ib *insertBuilder) Columns(columns ...string) InsertBuilder {
	ib.columns = columns
	return ib
}

// Values appends one row. Call it repeatedly for a multi-row insert.
func (ib *insertBuilder) Values(values ...any) InsertBuilder {
	ib.rows = append(ib.rows, values)
	return ib
}

func (ib *insertBuilder) OnConflictDoNothing(columns ...string) InsertBuilder {
	if len(columns) == 0 {
		ib.onConflict = "ON CONFLICT DO NOTHING"
		return ib
	}
	ib.onConflict = fmt.Sprintf("ON CONFLICT (%s) DO NOTHING", strings.Join(columns, ", "))
	return ib
}

func (ib *insertBuilder) Returning(columns ...string) InsertBuilder {
	ib.returning = columns
	return ib
}

func (ib *insertBuilder) Build() (string, []any) {
	var (
		query strings.Builder
		args  []any
		n     int
	)

	query.WriteString("INSERT INTO ")
	query.WriteString(ib.table)

	if len(ib.columns) > 0 {
		query.WriteString(" (")
		query.WriteString(strings.Join(ib.columns, ", "))
		query.WriteString(")")
	}

	query.WriteString(" VALUES ")

	tuples := make([]string, len(ib.rows))
	for i, row := range ib.rows {
		placeholders := make([]string, len(row))
		for j := range row {
			n++
			placeholders[j] = fmt.Sprintf("$%d", n)
		}
		args = append(args, row...)
		tuples[i] = "(" + strings.Join(placeholders, ", ") + ")"
	}
	query.WriteString(strings.Join(tuples, ", "))

	if ib.onConflict != "" {
		query.WriteString(" ")
		query.WriteString(ib.onConflict)
	}

	if len(ib.returning) > 0 {
		query.WriteString(" RETURNING ")
		query.WriteString(strings.Join(ib.returning, ", "))
	}

	return query.String(), args
}

// updateBuilder implements UpdateBuilder interface
type updateBuilder struct {
	table     string
	sets      []clause
	where     []clause
	returning []string
}

// NewUpdateBuilder creates a new update builder
func NewUpdateBuilder() UpdateBuilder {
	return &updateBuilder{}
}

func (ub *updateBuilder) Table(table string) UpdateBuilder {
	ub.table = table
	return ub
}

func (ub *updateBuilder) Set(column string, value any) UpdateBuilder {
	ub.sets = append(ub.sets, clause{sql: column + " = ?", args: []any{value}})
	return ub
}

// SetExpr adds a raw assignment such as `active_volume = active_volume - ?`.
func (ub *updateBuilder) SetExpr(expression string, args ...any) UpdateBuilder {
	ub.sets = append(ub.sets, clause{sql: expression, args: args})
	return ub
}

func (ub *updateBuilder) Where(condition string, args ...any) UpdateBuilder {
	ub.where = append(ub.where, clause{sql: condition, args: args})
	return ub
}

func (ub *updateBuilder) Returning(columns ...string) UpdateBuilder {
	ub.returning = columns
	return ub
}

func (ub *updateBuilder) Build() (string, []any) {
	var (
		query strings.Builder
		args  []any
		n     int
		sql   string
	)

	query.WriteString("UPDATE ")
	query.WriteString(ub.table)

	sql, n, args = joinClauses(ub.sets, ", ", n, args)
	query.WriteString(" SET ")
	query.WriteString(sql)

	if len(ub.where) > 0 {
		sql, _, args = joinClauses(ub.where, " AND ", n, args)
		query.WriteString(" WHERE ")
		query.WriteString(sql)
	}

	if len(ub.returning) > 0 {
		query.WriteString(" RETURNING ")
		query.WriteString(strings.Join(ub.returning, ", "))
	}

	return query.String(), args
}
