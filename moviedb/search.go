package moviedb

import (
	"net/http"
	"net/url"
	"slices"
	"strconv"
)

// TVShowSearchOptions holds the optional filters of a TV search. A nil field is left out of
// the request so that TMDB applies its own default.
type TVShowSearchOptions struct {
	// Language narrows results to a locale such as "en-US".
	Language *string
	// Page selects a 1-based result page.
	Page *int
	// IncludeAdult includes adult content. TMDB excludes it by default.
	IncludeAdult *bool
	// FirstAirDateYear restricts results to shows first aired in the given year.
	FirstAirDateYear *int
}

// MovieSearchOptions holds the optional filters of a movie search. A nil field is left out of
// the request so that TMDB applies its own default.
type MovieSearchOptions struct {
	Language     *string
	Page         *int
	IncludeAdult *bool
	// Region is an ISO 3166-1 code used to bias release date matching.
	Region *string
	// Year matches any release date in the given year.
	Year *int
	// PrimaryReleaseYear matches the primary release date year.
	PrimaryReleaseYear *int
}

// Params builds the query parameters of a TV search. Only supplied options are included.
func (o *TVShowSearchOptions) Params(query string) url.Values {
	p := url.Values{"query": {query}}
	if o == nil {
		return p
	}

	setString(p, "language", o.Language)
	setInt(p, "page", o.Page)
	setBool(p, "include_adult", o.IncludeAdult)
	setInt(p, "first_air_date_year", o.FirstAirDateYear)

	return p
}

// Params builds the query parameters of a movie search. Only supplied options are included.
func (o *MovieSearchOptions) Params(query string) url.Values {
	p := url.Values{"query": {query}}
	if o == nil {
		return p
	}

	setString(p, "language", o.Language)
	setInt(p, "page", o.Page)
	setBool(p, "include_adult", o.IncludeAdult)
	setString(p, "region", o.Region)
	setInt(p, "year", o.Year)
	setInt(p, "primary_release_year", o.PrimaryReleaseYear)

	return p
}

func setString(p url.Values, key string, v *string) {
	if v != nil {
		p.Set(key, *v)
	}
}

func setInt(p url.Values, key string, v *int) {
	if v != nil {
		p.Set(key, strconv.Itoa(*v))
	}
}

func setBool(p url.Values, key string, v *bool) {
	if v != nil {
		p.Set(key, strconv.FormatBool(*v))
	}
}

type SearchService interface {
	// SearchTVShow searches TV shows by name.
	SearchTVShow(query string, opts *TVShowSearchOptions, reqOpts ...RequestOption) (*Page[*TVShowResult], error)

	// SearchMovie sends movie filters to the TV search endpoint and decodes TV results. Clients
	// written against the original routing depend on this; use SearchMovies for movie results.
	SearchMovie(query string, opts *MovieSearchOptions, reqOpts ...RequestOption) (*Page[*TVShowResult], error)

	// SearchMovies searches movies by title through the movie search endpoint.
	SearchMovies(query string, opts *MovieSearchOptions, reqOpts ...RequestOption) (*Page[*MovieResult], error)
}

type searchService struct {
	service
}

func NewSearchService(c Client) SearchService {
	return &searchService{service{path: "search", client: c}}
}

func (ss *searchService) SearchTVShow(query string, opts *TVShowSearchOptions, reqOpts ...RequestOption) (*Page[*TVShowResult], error) {
	return search[*TVShowResult](ss, "tv", opts.Params(query), reqOpts)
}

func (ss *searchService) SearchMovie(query string, opts *MovieSearchOptions, reqOpts ...RequestOption) (*Page[*TVShowResult], error) {
	return search[*TVShowResult](ss, "tv", opts.Params(query), reqOpts)
}

func (ss *searchService) SearchMovies(query string, opts *MovieSearchOptions, reqOpts ...RequestOption) (*Page[*MovieResult], error) {
	return search[*MovieResult](ss, "movie", opts.Params(query), reqOpts)
}

func search[T any](ss *searchService, path string, params url.Values, reqOpts []RequestOption) (*Page[T], error) {
	reqOpts = append(slices.Clip(reqOpts), RequestOptionWithQuery(params))

	resp, err := ss.do(http.MethodGet, path, reqOpts...)
	if err != nil {
		return nil, err
	}

	page := new(Page[T])
	if err := decodeBody(resp, "page", page); err != nil {
		return nil, err
	}

	return page, nil
}
