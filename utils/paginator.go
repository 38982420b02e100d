package utils

import "strconv"

// PageSize is the fixed number of posts per feed page.
const PageSize = 10

// Page is one bounded window over an ordered record sequence.
type Page[T any] struct {
	Items    []T
	Number   int
	NumPages int
	Total    int
}

// HasPrevious reports whether a page precedes this one.
func (p Page[T]) HasPrevious() bool { return p.Number > 1 }

// HasNext reports whether a page follows this one.
func (p Page[T]) HasNext() bool { return p.Number < p.NumPages }

// PreviousPageNumber returns the number of the preceding page.
func (p Page[T]) PreviousPageNumber() int { return p.Number - 1 }

// NextPageNumber returns the number of the following page.
func (p Page[T]) NextPageNumber() int { return p.Number + 1 }

// Paginate slices items into the requested 1-based page of PageSize records.
// A missing or non-numeric page parameter selects page 1. A numeric page out
// of range (below 1 or past the end) selects the last page rather than
// failing. An empty sequence still yields a single empty page.
func Paginate[T any](items []T, pageParam string) Page[T] {
	numPages := (len(items) + PageSize - 1) / PageSize
	if numPages == 0 {
		numPages = 1
	}

	number := 1
	if pageParam != "" {
		n, err := strconv.Atoi(pageParam)
		switch {
		case err != nil:
			number = 1
		case n < 1 || n > numPages:
			number = numPages
		default:
			number = n
		}
	}

	start := (number - 1) * PageSize
	end := start + PageSize
	if start > len(items) {
		start = len(items)
	}
	if end > len(items) {
		end = len(items)
	}

	return Page[T]{
		Items:    items[start:end],
		Number:   number,
		NumPages: numPages,
		Total:    len(items),
	}
}
