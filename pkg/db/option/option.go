package option

import (
	"strconv"
	"strings"
	"time"

	"github.com/smallbiznis/kasira/pkg/db/pagination"
	"gorm.io/gorm"
)

// QueryOption mutates a gorm query before execution.
type QueryOption func(tx *gorm.DB) *gorm.DB

// QuerySortBy restricts sortable columns to an allow-list.
type QuerySortBy struct {
	Field string
	Desc  bool
	Allow map[string]bool
}

// WithSortBy orders results by an allowed column, defaulting to created_at DESC.
func WithSortBy(sort QuerySortBy) QueryOption {
	return func(tx *gorm.DB) *gorm.DB {
		field := strings.TrimSpace(sort.Field)
		if field == "" || (sort.Allow != nil && !sort.Allow[field]) {
			field = "created_at"
		}
		direction := "DESC"
		if !sort.Desc && field != "created_at" {
			direction = "ASC"
		}
		return tx.Order(field + " " + direction)
	}
}

// ApplyPagination applies keyset pagination; it fetches one extra row so the
// caller can detect a next page. The cursor fields are bound as time.Time and
// int64 so the comparison matches the column types on every dialect.
func ApplyPagination(page pagination.Pagination) QueryOption {
	return func(tx *gorm.DB) *gorm.DB {
		size := page.PageSize
		if size <= 0 {
			size = 50
		}
		if cursor, err := pagination.DecodeCursor(page.PageToken); err == nil && cursor.ID != "" {
			createdAt, terr := time.Parse(time.RFC3339Nano, cursor.CreatedAt)
			id, ierr := strconv.ParseInt(cursor.ID, 10, 64)
			if terr == nil && ierr == nil {
				tx = tx.Where("(created_at, id) < (?, ?)", createdAt, id)
			}
		}
		return tx.Limit(size + 1)
	}
}

// WithFilter appends an arbitrary where clause.
func WithFilter(query string, args ...any) QueryOption {
	return func(tx *gorm.DB) *gorm.DB {
		return tx.Where(query, args...)
	}
}
