package repository

import (
	"strings"

	"gorm.io/gorm"
)

// Filter is a composable predicate applied to a list query. Leaf filters
// compare a whitelisted column against a value; And/Or combine children.
type Filter struct {
	op       string
	column   string
	value    interface{}
	children []Filter
}

const (
	filterOpEq   = "eq"
	filterOpLike = "like"
	filterOpAnd  = "and"
	filterOpOr   = "or"
)

// Eq matches rows where column equals value.
func Eq(column string, value interface{}) Filter {
	return Filter{op: filterOpEq, column: column, value: value}
}

// Like matches rows where column contains value, case-insensitively.
func Like(column string, value string) Filter {
	return Filter{op: filterOpLike, column: column, value: value}
}

// And requires every child filter to match.
func And(children ...Filter) Filter {
	return Filter{op: filterOpAnd, children: children}
}

// Or requires at least one child filter to match.
func Or(children ...Filter) Filter {
	return Filter{op: filterOpOr, children: children}
}

// IsZero reports whether the filter is empty and would match everything.
func (f Filter) IsZero() bool {
	return f.op == ""
}

// compile renders the filter into a SQL fragment with positional args.
// Columns must come from a repository whitelist; values are always bound.
func (f Filter) compile() (string, []interface{}) {
	switch f.op {
	case filterOpEq:
		return f.column + " = ?", []interface{}{f.value}
	case filterOpLike:
		pattern := "%" + strings.ToLower(f.value.(string)) + "%"
		return "LOWER(" + f.column + ") LIKE ?", []interface{}{pattern}
	case filterOpAnd, filterOpOr:
		joiner := " AND "
		if f.op == filterOpOr {
			joiner = " OR "
		}
		var parts []string
		var args []interface{}
		for _, child := range f.children {
			if child.IsZero() {
				continue
			}
			sql, childArgs := child.compile()
			parts = append(parts, "("+sql+")")
			args = append(args, childArgs...)
		}
		if len(parts) == 0 {
			return "", nil
		}
		return strings.Join(parts, joiner), args
	}
	return "", nil
}

// ApplyFilter adds the filter's predicate to a query. Empty filters are a
// no-op.
func ApplyFilter(query *gorm.DB, f Filter) *gorm.DB {
	if f.IsZero() {
		return query
	}
	sql, args := f.compile()
	if sql == "" {
		return query
	}
	return query.Where(sql, args...)
}
