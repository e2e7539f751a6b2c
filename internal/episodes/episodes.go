// Package episodes pages and filters a series' episode list for display.
package episodes

import (
	"fmt"
	"strings"
)

// DefaultPageSize is the number of episodes shown per page
const DefaultPageSize = 50

// Ref is one entry of a series' episode list as it arrives from the catalog.
// ID may still be a full upstream URL.
type Ref struct {
	ID     string
	Number string
	Label  string
}

// Partition splits eps into contiguous pages of pageSize in their original order.
// Only the last page may be shorter. A list that fits one page comes back as a
// single page holding the whole input, which is how callers decide to hide the
// page selector. A non-positive pageSize means DefaultPageSize.
func Partition(eps []Ref, pageSize int) [][]Ref {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if len(eps) <= pageSize {
		return [][]Ref{eps}
	}

	pages := make([][]Ref, 0, PageCount(len(eps), pageSize))
	for start := 0; start < len(eps); start += pageSize {
		end := min(start+pageSize, len(eps))
		pages = append(pages, eps[start:end:end])
	}
	return pages
}

// PageCount returns how many pages Partition produces for total episodes
func PageCount(total, pageSize int) int {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if total <= pageSize {
		return 1
	}
	return (total + pageSize - 1) / pageSize
}

// NeedsPager reports whether a page selector should be shown
func NeedsPager(total, pageSize int) bool {
	return PageCount(total, pageSize) > 1
}

// PageLabels returns "Episodes 1 - 50", "Episodes 51 - 100", ... for the page selector
func PageLabels(total, pageSize int) []string {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	n := PageCount(total, pageSize)
	labels := make([]string, 0, n)
	for i := 0; i < n; i++ {
		start := i * pageSize
		end := min(start+pageSize, total)
		labels = append(labels, fmt.Sprintf("Episodes %d - %d", start+1, end))
	}
	return labels
}

// Filter returns the episodes whose label contains text (case-insensitive) or whose
// number contains text, in their original order. An empty text is not a filter:
// callers show the paged view instead, and Filter returns nil.
func Filter(eps []Ref, text string) []Ref {
	if text == "" {
		return nil
	}
	needle := strings.ToLower(text)

	matches := make([]Ref, 0)
	for _, ep := range eps {
		if strings.Contains(strings.ToLower(ep.Label), needle) || strings.Contains(strings.ToLower(ep.Number), needle) {
			matches = append(matches, ep)
		}
	}
	return matches
}
