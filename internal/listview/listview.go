// Package listview implements the paginated list pattern behind the admin
// console tables. Each collection gets its own Controller instance holding
// the pagination cursor, the 1-based page number, the active search term
// and the active status filter. Forward paging is keyset-based; backward
// paging re-scans from the start of the collection, which is accepted for
// collections of admin-console size.
package listview

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"gorm.io/gorm"
)

// Direction selects how a load moves relative to the current page.
type Direction string

const (
	Initial Direction = "initial"
	Next    Direction = "next"
	Prev    Direction = "prev"
)

// ParseDirection maps a raw query parameter to a Direction, defaulting to
// Initial for anything unrecognized.
func ParseDirection(raw string) Direction {
	switch Direction(raw) {
	case Next:
		return Next
	case Prev:
		return Prev
	}
	return Initial
}

// Sentinel bounds prefix-range queries: a term matches every value in
// [term, term+Sentinel). U+F8FF is the conventional maximal code point for
// emulating "starts with" on an ordered index.
const Sentinel = "\uf8ff"

// DefaultPageSize is used when Options.PageSize is zero.
const DefaultPageSize = 25

// Cursor remembers the last row of the previously fetched page. The row id
// breaks ties between rows sharing the same order-column value.
type Cursor struct {
	Value any
	ID    string
}

// Options fixes the per-collection behavior of a Controller.
type Options[T any] struct {
	// PageSize is the fixed page length.
	PageSize int
	// OrderColumn and OrderDesc give the default ordering when no search
	// is active, e.g. name ascending for members, date descending for
	// bills.
	OrderColumn string
	OrderDesc   bool
	// NameColumn and EmailColumn are the prefix-search targets. A term
	// containing "@" searches EmailColumn, any other term searches
	// NameColumn. Leaving NameColumn empty disables server-side search.
	NameColumn  string
	EmailColumn string
	// Key extracts a cursor from a row for the given order column.
	Key func(row T, column string) Cursor
	// Status extracts the row's status for client-side filtering; nil
	// disables filtering.
	Status func(row T) string
}

// Page is the outcome of a successful load.
type Page[T any] struct {
	Rows []T
	// Number is the 1-based page indicator; it stays 1 while a search is
	// active.
	Number       int
	SearchActive bool
	// Fetched counts rows returned by the query before the status filter
	// dropped any, so callers can tell an empty filtered page from an
	// empty collection page.
	Fetched int
}

// Controller drives the list view for one collection.
type Controller[T any] struct {
	db   *gorm.DB
	opts Options[T]

	mu     sync.Mutex
	page   int
	cursor *Cursor
	search string
	status string
	reset  bool
}

// New builds a controller over db with the given options.
func New[T any](db *gorm.DB, opts Options[T]) *Controller[T] {
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	return &Controller[T]{db: db, opts: opts, page: 1}
}

// SetSearch replaces the active search term. A change forces the next load
// back to the first page.
func (c *Controller[T]) SetSearch(term string) {
	term = strings.ToLower(strings.TrimSpace(term))
	c.mu.Lock()
	defer c.mu.Unlock()
	if term != c.search {
		c.search = term
		c.reset = true
	}
}

// SetStatus replaces the active status filter. A change forces the next
// load back to the first page.
func (c *Controller[T]) SetStatus(filter string) {
	filter = strings.TrimSpace(filter)
	c.mu.Lock()
	defer c.mu.Unlock()
	if filter != c.status {
		c.status = filter
		c.reset = true
	}
}

// Load fetches one page in the given direction and, on success, commits
// the new cursor and page number. On error the previous pagination state
// is kept untouched so a retry resumes from the last good cursor.
func (c *Controller[T]) Load(ctx context.Context, dir Direction) (Page[T], error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.reset {
		dir = Initial
		c.reset = false
	}

	searchActive := c.search != "" && c.opts.NameColumn != ""
	if searchActive {
		return c.loadSearch(ctx)
	}
	return c.loadPaged(ctx, dir)
}

func (c *Controller[T]) loadSearch(ctx context.Context) (Page[T], error) {
	column := c.opts.NameColumn
	if strings.Contains(c.search, "@") && c.opts.EmailColumn != "" {
		column = c.opts.EmailColumn
	}

	var rows []T
	err := c.base(ctx).
		Where(fmt.Sprintf("lower(%s) >= ? AND lower(%s) < ?", column, column), c.search, c.search+Sentinel).
		Order(fmt.Sprintf("%s ASC, id ASC", column)).
		Limit(c.opts.PageSize).
		Find(&rows).Error
	if err != nil {
		return Page[T]{}, err
	}

	fetched := len(rows)
	rows = c.filterStatus(rows)

	// Paging is disabled while searching; the cursor is parked until the
	// term is cleared and the view reloads from the start.
	c.page = 1
	c.cursor = nil
	return Page[T]{Rows: rows, Number: 1, SearchActive: true, Fetched: fetched}, nil
}

func (c *Controller[T]) loadPaged(ctx context.Context, dir Direction) (Page[T], error) {
	newPage := 1
	var start *Cursor

	switch {
	case dir == Next && c.cursor != nil:
		start = c.cursor
		newPage = c.page + 1
	case dir == Prev:
		// Recompute the cursor for page-2 by re-scanning from the top.
		upto := (c.page - 2) * c.opts.PageSize
		if upto > 0 {
			var prefix []T
			err := c.base(ctx).
				Order(c.orderExpr()).
				Limit(upto).
				Find(&prefix).Error
			if err != nil {
				return Page[T]{}, err
			}
			if len(prefix) > 0 {
				cur := c.opts.Key(prefix[len(prefix)-1], c.opts.OrderColumn)
				start = &cur
			}
		}
		if newPage = c.page - 1; newPage < 1 {
			newPage = 1
		}
	}

	q := c.base(ctx).Order(c.orderExpr()).Limit(c.opts.PageSize)
	if start != nil {
		q = q.Where(c.afterExpr(), start.Value, start.Value, start.ID)
	}

	var rows []T
	if err := q.Find(&rows).Error; err != nil {
		return Page[T]{}, err
	}

	fetched := len(rows)
	if fetched > 0 {
		cur := c.opts.Key(rows[fetched-1], c.opts.OrderColumn)
		c.cursor = &cur
	} else {
		c.cursor = nil
	}
	c.page = newPage

	return Page[T]{Rows: c.filterStatus(rows), Number: newPage, Fetched: fetched}, nil
}

func (c *Controller[T]) base(ctx context.Context) *gorm.DB {
	var zero T
	return c.db.WithContext(ctx).Model(&zero)
}

func (c *Controller[T]) orderExpr() string {
	dir := "ASC"
	if c.opts.OrderDesc {
		dir = "DESC"
	}
	return fmt.Sprintf("%s %s, id ASC", c.opts.OrderColumn, dir)
}

// afterExpr builds the keyset condition for rows strictly after the
// cursor under the default ordering.
func (c *Controller[T]) afterExpr() string {
	cmp := ">"
	if c.opts.OrderDesc {
		cmp = "<"
	}
	col := c.opts.OrderColumn
	return fmt.Sprintf("%s %s ? OR (%s = ? AND id > ?)", col, cmp, col)
}

func (c *Controller[T]) filterStatus(rows []T) []T {
	if c.status == "" || c.opts.Status == nil {
		return rows
	}
	kept := rows[:0]
	for _, row := range rows {
		if c.opts.Status(row) == c.status {
			kept = append(kept, row)
		}
	}
	return kept
}
