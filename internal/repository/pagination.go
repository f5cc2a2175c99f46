package repository

import "gorm.io/gorm"

// Page holds the metadata returned alongside a paginated result set.
type Page struct {
	Total       int64
	CurrentPage int
	PerPage     int
	TotalPages  int
}

// NormalizePage clamps page and perPage to sane values
func NormalizePage(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = DefaultPageSize
	}
	if perPage > MaxPageSize {
		perPage = MaxPageSize
	}
	return page, perPage
}

// TotalPages computes the page count for a total row count.
func TotalPages(total int64, perPage int) int {
	if perPage < 1 {
		return 0
	}
	pages := int(total) / perPage
	if int(total)%perPage != 0 {
		pages++
	}
	return pages
}

// Paginate counts the query, applies offset/limit, and scans the page into
// dest. The query must already carry its filters and ordering.
func Paginate(query *gorm.DB, page, perPage int, dest interface{}) (Page, error) {
	page, perPage = NormalizePage(page, perPage)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return Page{}, err
	}

	offset := (page - 1) * perPage
	if err := query.Offset(offset).Limit(perPage).Find(dest).Error; err != nil {
		return Page{}, err
	}

	return Page{
		Total:       total,
		CurrentPage: page,
		PerPage:     perPage,
		TotalPages:  TotalPages(total, perPage),
	}, nil
}
