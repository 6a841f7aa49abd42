package service

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100

	// MaxPage keeps (page-1)*limit within an int for any accepted limit.
	MaxPage = math.MaxInt / MaxLimit
)

// ListParams is the normalised form of a note listing request.
type ListParams struct {
	Page   int
	Limit  int
	Search string
}

// NewListParams normalises raw query values. Missing, non-numeric, or
// non-positive values fall back to the defaults; page is capped at MaxPage and
// limit at MaxLimit. A whitespace-only search term means no filter.
func NewListParams(page, limit, search string) ListParams {
	return ListParams{
		Page:   parsePositive(page, DefaultPage, MaxPage),
		Limit:  parsePositive(limit, DefaultLimit, MaxLimit),
		Search: strings.TrimSpace(search),
	}
}

// Offset is the number of matching notes skipped before this page.
func (p ListParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Pagination describes where a page sits within the filtered result set.
type Pagination struct {
	Page  int
	Limit int
	Total int
	Pages int
}

func newPagination(p ListParams, total int) Pagination {
	return Pagination{
		Page:  p.Page,
		Limit: p.Limit,
		Total: total,
		Pages: (total + p.Limit - 1) / p.Limit,
	}
}

// parsePositive parses raw as a positive int no larger than upper. Numbers too
// large for an int are treated as upper.
func parsePositive(raw string, fallback, upper int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if errors.Is(err, strconv.ErrRange) && n > 0 {
		return upper
	}
	if err != nil || n < 1 {
		return fallback
	}
	return min(n, upper)
}
