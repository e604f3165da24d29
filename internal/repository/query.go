package repository

import (
	"fmt"
	"strconv"
	"strings"
)

// Query composes a SELECT statement from a fixed base and optional clauses.
// Predicates use '?' placeholders which Build renumbers to $1..$n, so filter
// values only ever travel as arguments.
type Query struct {
	base    string
	where   []predicate
	groupBy []string
	having  []predicate
	orderBy []string
}

type predicate struct {
	expr string
	args []any
}

// NewQuery starts a query from a base statement without placeholders
func NewQuery(base string) *Query {
	return &Query{base: strings.TrimSpace(base)}
}

// Where adds a predicate joined with AND
func (q *Query) Where(expr string, args ...any) *Query {
	q.where = append(q.where, predicate{expr: expr, args: args})
	return q
}

// GroupBy appends grouping expressions
func (q *Query) GroupBy(exprs ...string) *Query {
	q.groupBy = append(q.groupBy, exprs...)
	return q
}

// Having adds a post-aggregation predicate joined with AND
func (q *Query) Having(expr string, args ...any) *Query {
	q.having = append(q.having, predicate{expr: expr, args: args})
	return q
}

// OrderBy appends ordering expressions
func (q *Query) OrderBy(exprs ...string) *Query {
	q.orderBy = append(q.orderBy, exprs...)
	return q
}

// Build renders the statement and its positional arguments. It panics when a
// predicate's placeholder count does not match its arguments.
func (q *Query) Build() (string, []any) {
	var sb strings.Builder
	var args []any

	sb.WriteString(q.base)

	writePredicates := func(keyword string, preds []predicate) {
		if len(preds) == 0 {
			return
		}
		sb.WriteString(" " + keyword + " ")
		for i, p := range preds {
			if i > 0 {
				sb.WriteString(" AND ")
			}
			if n := strings.Count(p.expr, "?"); n != len(p.args) {
				panic(fmt.Sprintf("query: %q has %d placeholders but %d args", p.expr, n, len(p.args)))
			}
			next := 0
			for _, r := range p.expr {
				if r != '?' {
					sb.WriteRune(r)
					continue
				}
				args = append(args, p.args[next])
				next++
				sb.WriteString("$" + strconv.Itoa(len(args)))
			}
		}
	}

	writePredicates("WHERE", q.where)
	if len(q.groupBy) > 0 {
		sb.WriteString(" GROUP BY " + strings.Join(q.groupBy, ", "))
	}
	writePredicates("HAVING", q.having)
	if len(q.orderBy) > 0 {
		sb.WriteString(" ORDER BY " + strings.Join(q.orderBy, ", "))
	}

	return sb.String(), args
}
