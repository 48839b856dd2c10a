package moviedb

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/duke605/tmdb-search/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tvPageBody = `{
	"page": 1,
	"results": [
		{
			"poster_path": "/u3bZgnGQ9T01sWNhyveQz0wH0Hl.jpg",
			"popularity": 29.780826,
			"id": 1399,
			"backdrop_path": null,
			"vote_average": 7.91,
			"overview": "Seven noble families fight for control of the mythical land of Westeros.",
			"first_air_date": "2011-04-17",
			"origin_country": ["US"],
			"genre_ids": [10765, 10759, 18],
			"original_language": "en",
			"vote_count": 1172,
			"name": "Game of Thrones",
			"original_name": "Game of Thrones"
		},
		{
			"poster_path": null,
			"popularity": 1.5,
			"id": 95,
			"backdrop_path": "/b.jpg",
			"vote_average": 6,
			"overview": "",
			"first_air_date": "1999-01-01",
			"origin_country": [],
			"genre_ids": [],
			"original_language": "fr",
			"vote_count": 3,
			"name": "Second",
			"original_name": "Deuxieme"
		}
	],
	"total_results": 2,
	"total_pages": 1
}`

const moviePageBody = `{
	"page": 2,
	"results": [
		{
			"poster_path": "/p.jpg",
			"adult": false,
			"overview": "A thief who steals corporate secrets.",
			"release_date": "2010-07-15",
			"genre_ids": [28, 878],
			"id": 27205,
			"original_title": "Inception",
			"original_language": "en",
			"title": "Inception",
			"backdrop_path": null,
			"popularity": 83.5,
			"vote_count": 35000,
			"video": false,
			"vote_average": 8.4
		}
	],
	"total_results": 21,
	"total_pages": 3
}`

type recordedRequest struct {
	path  string
	query url.Values
}

func newTestServer(t *testing.T, status int, body string) (*httptest.Server, *[]recordedRequest) {
	t.Helper()

	var mu sync.Mutex
	reqs := []recordedRequest{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		reqs = append(reqs, recordedRequest{path: r.URL.Path, query: r.URL.Query()})
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	return server, &reqs
}

func newTestClient(t *testing.T, server *httptest.Server) Client {
	t.Helper()

	c, err := NewClient("secret", ClientOptionWithBaseURL(server.URL), ClientOptionWithHTTPClient(server.Client()))
	require.NoError(t, err)

	return c
}

func TestTVShowSearchOptionsParamsOnlyIncludeSuppliedFilters(t *testing.T) {
	cases := []struct {
		name string
		opts *TVShowSearchOptions
		exp  url.Values
	}{
		{
			name: "nil options",
			opts: nil,
			exp:  url.Values{"query": {"lost"}},
		},
		{
			name: "empty options",
			opts: &TVShowSearchOptions{},
			exp:  url.Values{"query": {"lost"}},
		},
		{
			name: "zero values are still supplied",
			opts: &TVShowSearchOptions{Page: utils.PP(0), IncludeAdult: utils.PP(false), Language: utils.PP("")},
			exp:  url.Values{"query": {"lost"}, "page": {"0"}, "include_adult": {"false"}, "language": {""}},
		},
		{
			name: "all options",
			opts: &TVShowSearchOptions{
				Language:         utils.PP("en-US"),
				Page:             utils.PP(3),
				IncludeAdult:     utils.PP(true),
				FirstAirDateYear: utils.PP(2004),
			},
			exp: url.Values{
				"query":               {"lost"},
				"language":            {"en-US"},
				"page":                {"3"},
				"include_adult":       {"true"},
				"first_air_date_year": {"2004"},
			},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.exp, c.opts.Params("lost"))
		})
	}
}

func TestMovieSearchOptionsParamsOnlyIncludeSuppliedFilters(t *testing.T) {
	// Arranging
	opts := &MovieSearchOptions{
		Region:             utils.PP("GB"),
		PrimaryReleaseYear: utils.PP(1999),
	}

	// Acting
	params := opts.Params("the matrix")

	// Asserting
	assert.Equal(t, url.Values{
		"query":                {"the matrix"},
		"region":               {"GB"},
		"primary_release_year": {"1999"},
	}, params)
}

func TestSearchTVShowSendsQueryAndAPIKey(t *testing.T) {
	// Arranging
	server, reqs := newTestServer(t, http.StatusOK, tvPageBody)
	c := newTestClient(t, server)

	// Acting
	page, err := c.SearchTVShow("game of thrones", &TVShowSearchOptions{FirstAirDateYear: utils.PP(2011)},
		RequestOptionWithContext(context.Background()),
	)

	// Asserting
	require.NoError(t, err)
	require.Len(t, *reqs, 1)
	assert.Equal(t, "/search/tv", (*reqs)[0].path)
	assert.Equal(t, url.Values{
		"query":               {"game of thrones"},
		"first_air_date_year": {"2011"},
		"api_key":             {"secret"},
	}, (*reqs)[0].query)
	assert.Equal(t, 2, page.Len())
	assert.Equal(t, 1, page.Number())
	assert.Equal(t, 2, page.TotalResults())
	assert.Equal(t, 1, page.TotalPages())
	assert.False(t, page.HasNext())

	first, err := page.At(0)
	require.NoError(t, err)
	assert.Equal(t, int64(1399), first.ID)
	assert.Equal(t, "Game of Thrones", first.Name)
}

func TestSearchDoesNotOverwriteSuppliedAPIKey(t *testing.T) {
	// Arranging
	server, reqs := newTestServer(t, http.StatusOK, tvPageBody)
	c := newTestClient(t, server)

	// Acting
	_, err := c.SearchTVShow("lost", nil, RequestOptionWithQueryParams("api_key", "other"))

	// Asserting
	require.NoError(t, err)
	assert.Equal(t, []string{"other"}, (*reqs)[0].query["api_key"])
}

func TestClientWithoutAPIKeyDoesNotInjectOne(t *testing.T) {
	// Arranging
	server, reqs := newTestServer(t, http.StatusOK, tvPageBody)
	c, err := NewClient("", ClientOptionWithBaseURL(server.URL))
	require.NoError(t, err)

	// Acting
	_, err = c.SearchTVShow("lost", nil)

	// Asserting
	require.NoError(t, err)
	assert.False(t, (*reqs)[0].query.Has("api_key"))
}

func TestGlobalRequestOptionsApplyToEveryRequest(t *testing.T) {
	// Arranging
	server, reqs := newTestServer(t, http.StatusOK, tvPageBody)
	c, err := NewClient("secret",
		ClientOptionWithBaseURL(server.URL),
		ClientOptionGlobalRequestOption(RequestOptionWithQueryParams("language", "de-DE")),
	)
	require.NoError(t, err)

	// Acting
	_, err = c.SearchTVShow("dark", nil)

	// Asserting
	require.NoError(t, err)
	assert.Equal(t, "de-DE", (*reqs)[0].query.Get("language"))
}

func TestSearchMovieIsRoutedToTVSearch(t *testing.T) {
	// Arranging
	server, reqs := newTestServer(t, http.StatusOK, tvPageBody)
	c := newTestClient(t, server)

	// Acting
	page, err := c.SearchMovie("matrix", &MovieSearchOptions{Year: utils.PP(1999), Region: utils.PP("US")})

	// Asserting
	require.NoError(t, err)
	assert.Equal(t, "/search/tv", (*reqs)[0].path)
	assert.Equal(t, url.Values{
		"query":   {"matrix"},
		"year":    {"1999"},
		"region":  {"US"},
		"api_key": {"secret"},
	}, (*reqs)[0].query)
	assert.Equal(t, 2, page.Len())
}

func TestSearchMoviesUsesMovieSearch(t *testing.T) {
	// Arranging
	server, reqs := newTestServer(t, http.StatusOK, moviePageBody)
	c := newTestClient(t, server)

	// Acting
	page, err := c.SearchMovies("inception", &MovieSearchOptions{Page: utils.PP(2)})

	// Asserting
	require.NoError(t, err)
	assert.Equal(t, "/search/movie", (*reqs)[0].path)
	assert.Equal(t, "2", (*reqs)[0].query.Get("page"))
	assert.Equal(t, 2, page.Number())
	assert.True(t, page.HasNext())

	movie, err := page.At(0)
	require.NoError(t, err)
	assert.Equal(t, int64(27205), movie.ID)
	assert.Equal(t, "Inception", movie.Title)
	assert.Nil(t, movie.BackdropPath)
	assert.Equal(t, `MovieResult(id=27205 title="Inception" original_title="Inception")`, movie.String())
}

func TestSearchReturnsRequestErrorOnFailure(t *testing.T) {
	// Arranging
	server, _ := newTestServer(t, http.StatusUnauthorized,
		`{"status_message": "Invalid API key", "status_code": 7, "success": false, "extra": 1}`)
	c := newTestClient(t, server)

	// Acting
	page, err := c.SearchTVShow("lost", nil)

	// Asserting
	assert.Nil(t, page)
	reqErr := &RequestError{}
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, "Invalid API key", reqErr.StatusMessage)
	assert.Equal(t, 7, reqErr.StatusCode)
	require.NotNil(t, reqErr.Success)
	assert.False(t, *reqErr.Success)
	assert.Equal(t, http.StatusUnauthorized, reqErr.HTTPStatus)
	assert.Equal(t, "moviedb: Invalid API key (status_code=7)", err.Error())
}

func TestRequestErrorWithoutSuccessFlag(t *testing.T) {
	// Arranging
	server, _ := newTestServer(t, http.StatusNotFound,
		`{"status_message": "The resource you requested could not be found.", "status_code": 34}`)
	c := newTestClient(t, server)

	// Acting
	_, err := c.SearchMovies("nothing", nil)

	// Asserting
	reqErr := &RequestError{}
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, 34, reqErr.StatusCode)
	assert.Nil(t, reqErr.Success)
}

func TestUndecodableErrorBodyIsMalformed(t *testing.T) {
	// Arranging
	server, _ := newTestServer(t, http.StatusBadGateway, `<html>bad gateway</html>`)
	c := newTestClient(t, server)

	// Acting
	_, err := c.SearchTVShow("lost", nil)

	// Asserting
	assert.ErrorIs(t, err, ErrMalformedResponse)
	assert.NotErrorIs(t, err, ErrMissingField)
}

func TestOversizedErrorBodyIsTruncated(t *testing.T) {
	// Arranging
	body := `{"status_message": "` + strings.Repeat("x", maxErrorBodySize) + `", "status_code": 7}`
	server, _ := newTestServer(t, http.StatusInternalServerError, body)
	c := newTestClient(t, server)

	// Acting
	_, err := c.SearchTVShow("lost", nil)

	// Asserting
	assert.ErrorIs(t, err, ErrMalformedResponse)
	reqErr := &RequestError{}
	assert.False(t, errors.As(err, &reqErr))
}

func TestSearchFailsWhenPageFieldMissing(t *testing.T) {
	// Arranging
	server, _ := newTestServer(t, http.StatusOK, `{"page": 1, "results": [], "total_results": 0}`)
	c := newTestClient(t, server)

	// Acting
	page, err := c.SearchTVShow("lost", nil)

	// Asserting
	assert.Nil(t, page)
	assert.ErrorIs(t, err, ErrMissingField)
	assert.ErrorIs(t, err, ErrMalformedResponse)

	fieldErr := &FieldError{}
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "total_pages", fieldErr.Field)
}

func TestSearchFailsOnInvalidJSON(t *testing.T) {
	// Arranging
	server, _ := newTestServer(t, http.StatusOK, `{"page": 1,`)
	c := newTestClient(t, server)

	// Acting
	_, err := c.SearchTVShow("lost", nil)

	// Asserting
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestTransportErrorsPassThrough(t *testing.T) {
	// Arranging
	server, _ := newTestServer(t, http.StatusOK, tvPageBody)
	c := newTestClient(t, server)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Acting
	_, err := c.SearchTVShow("lost", nil, RequestOptionWithContext(ctx))

	// Asserting
	assert.True(t, errors.Is(err, context.Canceled))
	assert.NotErrorIs(t, err, ErrMalformedResponse)
}

func TestNewClientRejectsInvalidBaseURL(t *testing.T) {
	_, err := NewClient("secret", ClientOptionWithBaseURL("://nope"))
	assert.Error(t, err)
}
