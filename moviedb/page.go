package moviedb

import (
	"encoding/json"
	"fmt"
	"iter"
	"slices"
)

// Page is one page of search results along with the pagination metadata TMDB returns for it.
// A decoded page is never modified, so it can be shared and iterated concurrently.
type Page[T any] struct {
	page         int
	results      []T
	totalResults int
	totalPages   int
}

// NewPage builds a page from already decoded results.
func NewPage[T any](page int, results []T, totalResults, totalPages int) *Page[T] {
	return &Page[T]{
		page:         page,
		results:      slices.Clone(results),
		totalResults: totalResults,
		totalPages:   totalPages,
	}
}

// Number is the 1-based number of this page.
func (p *Page[T]) Number() int { return p.page }

func (p *Page[T]) TotalResults() int { return p.totalResults }

func (p *Page[T]) TotalPages() int { return p.totalPages }

// HasNext reports whether TMDB has more pages after this one.
func (p *Page[T]) HasNext() bool { return p.page < p.totalPages }

// Len is the number of results on this page only.
func (p *Page[T]) Len() int { return len(p.results) }

// At returns the result at the zero-based index i.
func (p *Page[T]) At(i int) (T, error) {
	if i < 0 || i >= len(p.results) {
		return *new(T), fmt.Errorf("%w: %d not in [0, %d)", ErrOutOfRange, i, len(p.results))
	}

	return p.results[i], nil
}

// Results returns a copy of the results on this page.
func (p *Page[T]) Results() []T {
	return slices.Clone(p.results)
}

// All yields index and result pairs in API order. Every call starts from the first result.
func (p *Page[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i, r := range p.results {
			if !yield(i, r) {
				return
			}
		}
	}
}

// Values yields results in API order. Every call starts from the first result.
func (p *Page[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, r := range p.results {
			if !yield(r) {
				return
			}
		}
	}
}

func (p *Page[T]) String() string {
	return fmt.Sprintf("Page(page=%d results=%d total_results=%d total_pages=%d)",
		p.page, len(p.results), p.totalResults, p.totalPages)
}

func (p *Page[T]) UnmarshalJSON(b []byte) error {
	fields, err := newObjectFields("page", b)
	if err != nil {
		return err
	}

	var raw []json.RawMessage
	err = fields.decode(
		required("page", &p.page),
		required("results", &raw),
		required("total_results", &p.totalResults),
		required("total_pages", &p.totalPages),
	)
	if err != nil {
		return err
	}

	p.results = make([]T, 0, len(raw))
	for i, r := range raw {
		if string(r) == "null" {
			return &FieldError{Object: "page", Field: fmt.Sprintf("results[%d]", i), Err: errUnexpectedNull}
		}

		var t T
		if err := json.Unmarshal(r, &t); err != nil {
			return err
		}

		p.results = append(p.results, t)
	}

	return nil
}

func (p *Page[T]) MarshalJSON() ([]byte, error) {
	results := p.results
	if results == nil {
		results = []T{}
	}

	return json.Marshal(struct {
		Page         int `json:"page"`
		Results      []T `json:"results"`
		TotalResults int `json:"total_results"`
		TotalPages   int `json:"total_pages"`
	}{p.page, results, p.totalResults, p.totalPages})
}
