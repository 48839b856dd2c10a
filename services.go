package main

import (
	"context"
	"log/slog"
	"net/url"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/duke605/tmdb-search/moviedb"
	"github.com/duke605/tmdb-search/utils"
)

const (
	SearchKindTV    = "tv"
	SearchKindMovie = "movie"
)

type SearchService struct {
	movieDBClient moviedb.Client
	searchesRepo  *SearchesRepo
	snowflakes    *snowflake.Node
}

func NewSearchService(mdbc moviedb.Client, sr *SearchesRepo, sf *snowflake.Node) *SearchService {
	return &SearchService{
		movieDBClient: mdbc,
		searchesRepo:  sr,
		snowflakes:    sf,
	}
}

// SearchTVShows returns a pager over TV results starting at the page in opts and fetching at most
// maxPages pages. Every fetched page is recorded in the search history.
func (srv *SearchService) SearchTVShows(ctx context.Context, query string, opts moviedb.TVShowSearchOptions, maxPages int) utils.Pager[*moviedb.TVShowResult] {
	return newResultPager(opts.Page, maxPages, func(page *int) (*moviedb.Page[*moviedb.TVShowResult], error) {
		opts.Page = page
		p, err := srv.movieDBClient.SearchTVShow(query, &opts, moviedb.RequestOptionWithContext(ctx))
		if err != nil {
			return nil, err
		}

		return p, recordPage(ctx, srv, SearchKindTV, opts.Params(query), p, func(r *moviedb.TVShowResult) (int64, string) {
			return r.ID, r.Name
		})
	})
}

// SearchMovies is the movie counterpart of SearchTVShows.
func (srv *SearchService) SearchMovies(ctx context.Context, query string, opts moviedb.MovieSearchOptions, maxPages int) utils.Pager[*moviedb.MovieResult] {
	return newResultPager(opts.Page, maxPages, func(page *int) (*moviedb.Page[*moviedb.MovieResult], error) {
		opts.Page = page
		p, err := srv.movieDBClient.SearchMovies(query, &opts, moviedb.RequestOptionWithContext(ctx))
		if err != nil {
			return nil, err
		}

		return p, recordPage(ctx, srv, SearchKindMovie, opts.Params(query), p, func(r *moviedb.MovieResult) (int64, string) {
			return r.ID, r.Title
		})
	})
}

// newResultPager walks TMDB pages until maxPages have been fetched or the last page is reached.
// The first request only carries a page parameter when startPage is set.
func newResultPager[T any](startPage *int, maxPages int, fetch func(page *int) (*moviedb.Page[T], error)) utils.Pager[T] {
	first := 1
	if startPage != nil {
		first = *startPage
	}
	totalPages := -1

	return utils.NewPager(func(fetched int, buf []T) ([]T, error) {
		if fetched >= maxPages || (totalPages >= 0 && first+fetched > totalPages) {
			return nil, nil
		}

		page := startPage
		if fetched > 0 {
			page = utils.PP(first + fetched)
		}

		p, err := fetch(page)
		if err != nil {
			return nil, err
		}
		totalPages = p.TotalPages()

		buf = buf[:0]
		for r := range p.Values() {
			buf = append(buf, r)
		}

		return buf, nil
	})
}

func recordPage[T any](ctx context.Context, srv *SearchService, kind string, params url.Values, p *moviedb.Page[T], hit func(T) (int64, string)) error {
	search := &Search{
		ID:           srv.snowflakes.Generate().Int64(),
		Kind:         kind,
		Query:        params.Get("query"),
		Params:       params.Encode(),
		Page:         p.Number(),
		TotalResults: p.TotalResults(),
		TotalPages:   p.TotalPages(),
		CreatedAt:    time.Now().UTC(),
	}
	hits := utils.Map(p.Results(), func(r T, i int) *SearchHit {
		id, title := hit(r)
		return &SearchHit{
			SearchID: search.ID,
			Position: i,
			TMDBID:   id,
			Title:    title,
		}
	})

	slog.InfoContext(ctx, "Recording search",
		"search_id", search.ID,
		"kind", kind,
		"query", search.Query,
		"page", search.Page,
		"hits", len(hits),
	)

	return srv.searchesRepo.Insert(ctx, search, hits)
}

// History returns up to limit recorded searches, newest first.
func (srv *SearchService) History(ctx context.Context, limit int) ([]*Search, error) {
	pager := srv.searchesRepo.List(ctx, uint64(min(max(limit, 1), 100)))

	return utils.Collect(pager, limit)
}
