package models

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// ListParams holds the paging, search and sort options shared by all listings
type ListParams struct {
	Page      int
	Limit     int
	Search    string
	SortBy    string
	SortOrder string
}

// Offset returns the row offset of the requested page
func (p ListParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// CacheParams returns the parameters that identify this listing in the cache
func (p ListParams) CacheParams() map[string]interface{} {
	return map[string]interface{}{
		"page":      p.Page,
		"limit":     p.Limit,
		"search":    p.Search,
		"sortBy":    p.SortBy,
		"sortOrder": p.SortOrder,
	}
}

// BookFilter narrows a book listing
type BookFilter struct {
	ListParams
	CategoryID  string
	AuthorID    string
	PublisherID string
	MinPrice    *float64
	MaxPrice    *float64
	InStock     *bool
}

// CacheParams returns the parameters that identify this listing in the cache
func (f BookFilter) CacheParams() map[string]interface{} {
	params := f.ListParams.CacheParams()
	params["categoryId"] = f.CategoryID
	params["authorId"] = f.AuthorID
	params["publisherId"] = f.PublisherID
	params["minPrice"] = f.MinPrice
	params["maxPrice"] = f.MaxPrice
	params["inStock"] = f.InStock
	return params
}

// OrderFilter narrows an order listing
type OrderFilter struct {
	ListParams
	UserID string
	Status OrderStatus
}

// CacheParams returns the parameters that identify this listing in the cache
func (f OrderFilter) CacheParams() map[string]interface{} {
	params := f.ListParams.CacheParams()
	params["userId"] = f.UserID
	params["status"] = string(f.Status)
	return params
}

// ParseListParams reads page, limit, search, sortBy and sortOrder from a query string
func ParseListParams(q url.Values) (ListParams, error) {
	params := ListParams{
		Page:      DefaultPage,
		Limit:     DefaultLimit,
		Search:    strings.TrimSpace(q.Get("search")),
		SortBy:    strings.TrimSpace(q.Get("sortBy")),
		SortOrder: strings.ToLower(strings.TrimSpace(q.Get("sortOrder"))),
	}

	if v := q.Get("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil || page < 1 {
			return params, fmt.Errorf("%w: page must be a positive integer", ErrInvalidInput)
		}
		params.Page = page
	}

	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 1 {
			return params, fmt.Errorf("%w: limit must be a positive integer", ErrInvalidInput)
		}
		if limit > MaxLimit {
			limit = MaxLimit
		}
		params.Limit = limit
	}

	switch params.SortOrder {
	case "", "asc", "desc":
	default:
		return params, fmt.Errorf("%w: sortOrder must be asc or desc", ErrInvalidInput)
	}

	return params, nil
}

// ParseBookFilter reads a book listing filter from a query string
func ParseBookFilter(q url.Values) (BookFilter, error) {
	base, err := ParseListParams(q)
	if err != nil {
		return BookFilter{}, err
	}

	filter := BookFilter{
		ListParams:  base,
		CategoryID:  strings.TrimSpace(q.Get("categoryId")),
		AuthorID:    strings.TrimSpace(q.Get("authorId")),
		PublisherID: strings.TrimSpace(q.Get("publisherId")),
	}

	if filter.MinPrice, err = parseFloatParam(q, "minPrice"); err != nil {
		return BookFilter{}, err
	}
	if filter.MaxPrice, err = parseFloatParam(q, "maxPrice"); err != nil {
		return BookFilter{}, err
	}

	if v := q.Get("inStock"); v != "" {
		inStock, err := strconv.ParseBool(v)
		if err != nil {
			return BookFilter{}, fmt.Errorf("%w: inStock must be a boolean", ErrInvalidInput)
		}
		filter.InStock = &inStock
	}

	return filter, nil
}

func parseFloatParam(q url.Values, name string) (*float64, error) {
	v := q.Get(name)
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 {
		return nil, fmt.Errorf("%w: %s must be a non-negative number", ErrInvalidInput, name)
	}
	return &f, nil
}
