package repository

import (
	"context"
	"strconv"

	"gorm.io/gorm"
)

// PageSize is the number of items on every feed page.
const PageSize = 10

// Page is one slice of an ordered result set.
type Page[T any] struct {
	Items    []T   `json:"items"`
	Number   int   `json:"number"`
	NumPages int   `json:"num_pages"`
	Count    int64 `json:"count"`
	Size     int   `json:"size"`
}

func (p *Page[T]) HasPrevious() bool { return p.Number > 1 }
func (p *Page[T]) HasNext() bool     { return p.Number < p.NumPages }
func (p *Page[T]) PreviousNumber() int {
	return p.Number - 1
}
func (p *Page[T]) NextNumber() int {
	return p.Number + 1
}

// PageNumbers lists 1..NumPages for the paginator template.
func (p *Page[T]) PageNumbers() []int {
	out := make([]int, p.NumPages)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

// ParsePage turns the ?page= query value into a number. Anything that is not
// an integer means the first page; range clamping happens in Paginate.
func ParsePage(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 1
	}
	return n
}

// NumPages never returns less than 1: an empty list still has an (empty) first page.
func NumPages(count int64, size int) int {
	if size <= 0 {
		size = PageSize
	}
	if count <= 0 {
		return 1
	}
	return int((count + int64(size) - 1) / int64(size))
}

// ClampPage moves page into [1, numPages].
func ClampPage(page, numPages int) int {
	if page < 1 {
		return 1
	}
	if page > numPages {
		return numPages
	}
	return page
}

// Paginate counts query, clamps page into range and loads that page.
// query carries only the filters; ordering and preloads go in scopes so the
// count stays a plain SELECT count(*).
func Paginate[T any](ctx context.Context, query *gorm.DB, page, size int, scopes ...func(*gorm.DB) *gorm.DB) (*Page[T], error) {
	if size <= 0 {
		size = PageSize
	}

	var count int64
	if err := query.WithContext(ctx).Model(new(T)).Count(&count).Error; err != nil {
		return nil, err
	}

	numPages := NumPages(count, size)
	page = ClampPage(page, numPages)

	items := make([]T, 0, size)
	if count > 0 {
		offset := (page - 1) * size
		err := query.WithContext(ctx).
			Scopes(scopes...).
			Offset(offset).
			Limit(size).
			Find(&items).Error
		if err != nil {
			return nil, err
		}
	}

	return &Page[T]{
		Items:    items,
		Number:   page,
		NumPages: numPages,
		Count:    count,
		Size:     size,
	}, nil
}
