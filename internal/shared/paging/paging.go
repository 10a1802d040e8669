package paging

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Params is a 1-based page request.
type Params struct {
	Page  int
	Limit int
}

// Meta describes the page returned to the client.
type Meta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// FromQuery parses raw query values; invalid or missing values fall back to defaults.
func FromQuery(rawPage, rawLimit string) Params {
	p := Params{Page: DefaultPage, Limit: DefaultLimit}
	if v, err := strconv.Atoi(strings.TrimSpace(rawPage)); err == nil {
		p.Page = v
	}
	if v, err := strconv.Atoi(strings.TrimSpace(rawLimit)); err == nil {
		p.Limit = v
	}
	return p.Normalize()
}

// Normalize coerces page and limit to at least 1 and caps the limit.
func (p Params) Normalize() Params {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = 1
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

// Offset returns the number of rows to skip.
func (p Params) Offset() int {
	p = p.Normalize()
	return (p.Page - 1) * p.Limit
}

// NewMeta computes page metadata for total matching rows.
func NewMeta(p Params, total int) Meta {
	p = p.Normalize()
	if total < 0 {
		total = 0
	}
	return Meta{
		Page:       p.Page,
		Limit:      p.Limit,
		Total:      total,
		TotalPages: (total + p.Limit - 1) / p.Limit,
	}
}

// Window returns the [start, end) slice bounds for an in-memory list of n items.
func (p Params) Window(n int) (int, int) {
	start := p.Offset()
	if start > n {
		start = n
	}
	end := start + p.Normalize().Limit
	if end > n {
		end = n
	}
	return start, end
}

// ParseDate parses an RFC 3339 timestamp or a YYYY-MM-DD date. A bare date used
// as an upper bound moves to the start of the following day so the bound is exclusive.
func ParseDate(raw string, upper bool) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		t = t.UTC()
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q", raw)
	}
	if upper {
		t = t.AddDate(0, 0, 1)
	}
	return &t, nil
}
