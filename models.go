package main

import (
	"time"
)

// Search is one page of results fetched from TMDB.
type Search struct {
	ID           int64     `db:"id"`
	Kind         string    `db:"kind"`
	Query        string    `db:"query"`
	Params       string    `db:"params"`
	Page         int       `db:"page"`
	TotalResults int       `db:"total_results"`
	TotalPages   int       `db:"total_pages"`
	CreatedAt    time.Time `db:"created_at"`
}

func (s *Search) ToMap() map[string]any {
	return map[string]any{
		"id":            s.ID,
		"kind":          s.Kind,
		"query":         s.Query,
		"params":        s.Params,
		"page":          s.Page,
		"total_results": s.TotalResults,
		"total_pages":   s.TotalPages,
		"created_at":    s.CreatedAt,
	}
}

// SearchHit is a single result of a recorded search.
type SearchHit struct {
	SearchID int64  `db:"search_id"`
	Position int    `db:"position"`
	TMDBID   int64  `db:"tmdb_id"`
	Title    string `db:"title"`
}

func (SearchHit) GetColumns() []string {
	return []string{
		"search_id", "position", "tmdb_id", "title",
	}
}

func (h *SearchHit) ToColumns(cols []string) []interface{} {
	values := make([]interface{}, len(cols))
	for i, col := range cols {
		switch col {
		case "search_id":
			values[i] = h.SearchID
		case "position":
			values[i] = h.Position
		case "tmdb_id":
			values[i] = h.TMDBID
		case "title":
			values[i] = h.Title
		}
	}

	return values
}
