package repository

import (
	"strings"

	"gorm.io/gorm"
)

// MaxPageSize is the maximum allowed page size for paginated queries
const MaxPageSize = 200

// DefaultPageSize is applied when the caller omits a page size
const DefaultPageSize = 20

// SortOrder represents the sort direction
type SortOrder string

const (
	SortOrderAsc  SortOrder = "asc"
	SortOrderDesc SortOrder = "desc"
)

// SortConfig holds sorting configuration for list queries
type SortConfig struct {
	Field string    // The field to sort by (API field name)
	Order SortOrder // asc or desc
}

// DefaultSortConfig returns a default sort configuration (updated_at DESC)
func DefaultSortConfig() SortConfig {
	return SortConfig{
		Field: "updatedAt",
		Order: SortOrderDesc,
	}
}

// ParseSortOrder parses a string into SortOrder, defaulting to desc
func ParseSortOrder(s string) SortOrder {
	if strings.ToLower(s) == "asc" {
		return SortOrderAsc
	}
	return SortOrderDesc
}

// BuildOrderClause builds the SQL ORDER BY clause from field mapping and sort config
// fieldMap maps API field names to database column names
// Returns the default sort if field is not in whitelist
func BuildOrderClause(config SortConfig, fieldMap map[string]string, defaultColumn string) string {
	column, ok := fieldMap[config.Field]
	if !ok {
		column = defaultColumn
	}

	order := "DESC"
	if config.Order == SortOrderAsc {
		order = "ASC"
	}

	return column + " " + order
}

// OwnershipScope describes how a list query must be restricted to the caller.
// When ViewAll is true the query is left untouched.
type OwnershipScope struct {
	UserID  uint
	ViewAll bool
}

// ApplyOwnershipFilter restricts a query to rows the user created or last
// updated, unless the scope grants unrestricted visibility.
func ApplyOwnershipFilter(query *gorm.DB, scope OwnershipScope) *gorm.DB {
	if scope.ViewAll {
		return query
	}
	return query.Where("created_by = ? OR updated_by = ?", scope.UserID, scope.UserID)
}

// ApplyOwnershipFilterFields is the variant for tables whose audit columns
// differ from the defaults. Each listed column contributes one disjunct.
func ApplyOwnershipFilterFields(query *gorm.DB, scope OwnershipScope, columns ...string) *gorm.DB {
	if scope.ViewAll || len(columns) == 0 {
		return query
	}
	clauses := make([]string, 0, len(columns))
	args := make([]interface{}, 0, len(columns))
	for _, col := range columns {
		clauses = append(clauses, col+" = ?")
		args = append(args, scope.UserID)
	}
	return query.Where(strings.Join(clauses, " OR "), args...)
}
