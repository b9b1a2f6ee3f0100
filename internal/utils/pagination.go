package utils

import (
	"fmt"
	"strings"
)

// DefaultPerPage applies when a caller passes a non-positive page size.
const DefaultPerPage = 20

// PaginationInfo is the page window over an in-memory record list.
type PaginationInfo struct {
	Total      int
	PerPage    int
	Current    int
	Offset     int
	TotalPages int
}

// NewPagination clamps current into [1, TotalPages]. An empty list still
// has one (empty) page.
func NewPagination(total, perPage, current int) *PaginationInfo {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	pages := max(1, (total+perPage-1)/perPage)
	current = min(max(current, 1), pages)
	return &PaginationInfo{
		Total:      total,
		PerPage:    perPage,
		Current:    current,
		Offset:     (current - 1) * perPage,
		TotalPages: pages,
	}
}

// Page returns the slice of items on p's current page.
func Page[T any](items []T, p *PaginationInfo) []T {
	if p.Offset >= len(items) {
		return nil
	}
	return items[p.Offset:min(len(items), p.Offset+p.PerPage)]
}

// FormatSummary is "Showing 41-45 of 45 records (page 3 of 3)".
func (p *PaginationInfo) FormatSummary() string {
	if p.Total == 0 {
		return "No records"
	}
	first, last := p.Offset+1, min(p.Total, p.Offset+p.PerPage)
	noun := "records"
	if p.Total == 1 {
		noun = "record"
	}
	s := fmt.Sprintf("Showing %d-%d of %d %s", first, last, p.Total, noun)
	if p.TotalPages > 1 {
		s += fmt.Sprintf(" (page %d of %d)", p.Current, p.TotalPages)
	}
	return s
}

// FormatNavigation suggests the --page flags for neighbouring pages.
func (p *PaginationInfo) FormatNavigation() string {
	var hints []string
	if p.Current > 1 {
		hints = append(hints, fmt.Sprintf("--page %d for newer", p.Current-1))
	}
	if p.Current < p.TotalPages {
		hints = append(hints, fmt.Sprintf("--page %d for older", p.Current+1))
	}
	return strings.Join(hints, ", ")
}
