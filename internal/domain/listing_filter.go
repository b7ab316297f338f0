package domain

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
)

// SortKey listing order
type SortKey string

const (
	SortNewest    SortKey = "newest"
	SortPriceAsc  SortKey = "price_asc"
	SortPriceDesc SortKey = "price_desc"
)

// Pagination defaults
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
	// MaxPage keeps (page-1)*page_size well inside int
	MaxPage = 10000
)

var sortAliases = map[string]SortKey{
	"newest":      SortNewest,
	"-created_at": SortNewest,
	"created_at":  SortNewest,
	"price_asc":   SortPriceAsc,
	"price":       SortPriceAsc,
	"price_low":   SortPriceAsc,
	"price_desc":  SortPriceDesc,
	"-price":      SortPriceDesc,
	"price_high":  SortPriceDesc,
}

// ParseSort maps a sort parameter to a key; unknown values fall back to newest
func ParseSort(s string) SortKey {
	if k, ok := sortAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return k
	}
	return SortNewest
}

// ListingFilter conjunctive search criteria. Nil pointers and empty strings mean "any".
type ListingFilter struct {
	Query        string
	City         string
	Locality     string
	PriceMin     *float64
	PriceMax     *float64
	AreaMin      *int
	AreaMax      *int
	Bedrooms     *int
	Bathrooms    *int
	PropertyType *PropertyType
	ListingType  *ListingType
	Status       *ListingStatus
	Sort         SortKey
	Page         int
	PageSize     int

	// Set by the service from the caller's capabilities, never from query parameters.
	PublicOnly  bool
	Unpublished bool
	OwnerID     string
}

// Offset row offset for the current page
func (f *ListingFilter) Offset() int {
	return (f.Page - 1) * f.PageSize
}

// ParseListingQuery builds a filter from URL query parameters.
// Every malformed value is reported on its own field.
func ParseListingQuery(q url.Values) (*ListingFilter, *ValidationErrors) {
	f := &ListingFilter{
		Query:    strings.TrimSpace(q.Get("q")),
		City:     strings.TrimSpace(q.Get("city")),
		Locality: strings.TrimSpace(q.Get("locality")),
		Sort:     ParseSort(q.Get("sort")),
		Page:     1,
		PageSize: DefaultPageSize,
	}
	errs := &ValidationErrors{}

	f.PriceMin = parseMoneyParam(q, "price_min", errs)
	f.PriceMax = parseMoneyParam(q, "price_max", errs)
	if f.PriceMin != nil && f.PriceMax != nil && *f.PriceMin > *f.PriceMax {
		errs.add("price_min", "must not exceed price_max")
	}

	f.AreaMin = parseCountParam(q, "area_min", errs)
	f.AreaMax = parseCountParam(q, "area_max", errs)
	if f.AreaMin != nil && f.AreaMax != nil && *f.AreaMin > *f.AreaMax {
		errs.add("area_min", "must not exceed area_max")
	}

	f.Bedrooms = parseCountParam(q, "bedrooms", errs)
	f.Bathrooms = parseCountParam(q, "bathrooms", errs)

	if v := q.Get("property_type"); v != "" {
		if t, ok := ParsePropertyType(v); ok {
			f.PropertyType = &t
		} else {
			errs.add("property_type", "must be one of HOUSE, FLAT, LAND, COMMERCIAL")
		}
	}
	if v := q.Get("listing_type"); v != "" {
		if t, ok := ParseListingType(v); ok {
			f.ListingType = &t
		} else {
			errs.add("listing_type", "must be one of SALE, RENT")
		}
	}
	if v := q.Get("status"); v != "" {
		if s, ok := ParseListingStatus(v); ok {
			f.Status = &s
		} else {
			errs.add("status", "must be one of AVAILABLE, PENDING, SOLD")
		}
	}

	if p := parseCountParam(q, "page", errs); p != nil {
		switch {
		case *p < 1:
			errs.add("page", "must be at least 1")
		case *p > MaxPage:
			errs.add("page", fmt.Sprintf("must be at most %d", MaxPage))
		default:
			f.Page = *p
		}
	}
	if ps := parseCountParam(q, "page_size", errs); ps != nil {
		switch {
		case *ps < 1:
			errs.add("page_size", "must be at least 1")
		case *ps > MaxPageSize:
			f.PageSize = MaxPageSize
		default:
			f.PageSize = *ps
		}
	}

	if errs.Empty() {
		return f, nil
	}
	return f, errs
}

// ValidationErrors field -> message
type ValidationErrors struct {
	Fields map[string]string
}

// Empty reports no failures
func (v *ValidationErrors) Empty() bool {
	return v == nil || len(v.Fields) == 0
}

func (v *ValidationErrors) add(field, msg string) {
	if v.Fields == nil {
		v.Fields = map[string]string{}
	}
	if _, exists := v.Fields[field]; !exists {
		v.Fields[field] = msg
	}
}

func parseMoneyParam(q url.Values, key string, errs *ValidationErrors) *float64 {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		errs.add(key, "must be a number")
		return nil
	}
	if v < 0 {
		errs.add(key, "must be greater than or equal to 0")
		return nil
	}
	return &v
}

func parseCountParam(q url.Values, key string, errs *ValidationErrors) *int {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		errs.add(key, "must be an integer")
		return nil
	}
	if v < 0 {
		errs.add(key, "must be greater than or equal to 0")
		return nil
	}
	return &v
}

// ListingPage one page of search results
type ListingPage struct {
	Items      []*ListingResponse `json:"items"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	PageSize   int                `json:"page_size"`
	TotalPages int                `json:"total_pages"`
}

// NewListingPage wraps results for filter f
func NewListingPage(listings []*Listing, total int64, f *ListingFilter) *ListingPage {
	pages := 0
	if f.PageSize > 0 {
		pages = int((total + int64(f.PageSize) - 1) / int64(f.PageSize))
	}
	return &ListingPage{
		Items:      ToResponses(listings),
		Total:      total,
		Page:       f.Page,
		PageSize:   f.PageSize,
		TotalPages: pages,
	}
}
