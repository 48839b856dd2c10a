// Package moviedb is a client for the search endpoints of the TMDB v3 API.
package moviedb

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// DefaultBaseURL is the root of the TMDB v3 API.
const DefaultBaseURL = "https://api.themoviedb.org/3"

type service struct {
	path   string
	client Client
}

func (srv *service) do(method, path string, opts ...RequestOption) (*http.Response, error) {
	path, err := url.JoinPath(srv.path, path)
	if err != nil {
		return nil, err
	}

	return srv.client.Do(method, path, opts...)
}

// Client issues requests against the TMDB API. It is safe for concurrent use as long as the
// underlying *http.Client is.
type Client interface {
	// Do sends a request to path relative to the base URL. Non-2xx responses are returned
	// as a *RequestError with the body already consumed and closed.
	Do(method, path string, opts ...RequestOption) (*http.Response, error)

	SearchService
}

type client struct {
	apiKey            string
	httpClient        *http.Client
	baseURL           *url.URL
	logger            *slog.Logger
	globalRequestOpts []RequestOption

	SearchService
}

type ClientOption = func(*client) error
type RequestOption = func(*http.Request) *http.Request

func ClientOptionWithBaseURL(baseURL string) ClientOption {
	return func(cl *client) error {
		u, err := url.Parse(baseURL)
		if err != nil {
			return err
		}

		cl.baseURL = u
		return nil
	}
}

func ClientOptionWithHTTPClient(c *http.Client) ClientOption {
	return func(cl *client) error {
		if c != nil {
			cl.httpClient = c
		}

		return nil
	}
}

func ClientOptionWithLogger(l *slog.Logger) ClientOption {
	return func(cl *client) error {
		if l != nil {
			cl.logger = l
		}

		return nil
	}
}

func ClientOptionGlobalRequestOption(opt RequestOption) ClientOption {
	return func(cl *client) error {
		cl.globalRequestOpts = append(cl.globalRequestOpts, opt)
		return nil
	}
}

func RequestOptionWithContext(ctx context.Context) RequestOption {
	return func(r *http.Request) *http.Request {
		return r.WithContext(ctx)
	}
}

func RequestOptionWithBody(body io.Reader) RequestOption {
	return func(r *http.Request) *http.Request {
		if rc, ok := body.(io.ReadCloser); ok {
			r.Body = rc
		} else {
			r.Body = io.NopCloser(body)
		}

		return r
	}
}

func RequestOptionWithQueryParams(kvpairs ...string) RequestOption {
	if len(kvpairs)%2 != 0 {
		panic(errors.New("moviedb: kvpairs must have a length that is a multiple of 2"))
	}

	return func(r *http.Request) *http.Request {
		q := r.URL.Query()
		for i := 0; i < len(kvpairs); i += 2 {
			key := kvpairs[i]
			value := kvpairs[i+1]

			q.Set(key, value)
		}

		r.URL.RawQuery = q.Encode()
		return r
	}
}

// RequestOptionWithQuery sets every key in values on the request query, replacing existing
// values for those keys.
func RequestOptionWithQuery(values url.Values) RequestOption {
	return func(r *http.Request) *http.Request {
		q := r.URL.Query()
		for key, vals := range values {
			q[key] = append([]string(nil), vals...)
		}

		r.URL.RawQuery = q.Encode()
		return r
	}
}

// NewClient creates a client that authenticates with apiKey. An empty key disables api_key
// injection, which is useful when authenticating with a bearer token through the HTTP client.
func NewClient(apiKey string, opts ...ClientOption) (Client, error) {
	u, err := url.Parse(DefaultBaseURL)
	if err != nil {
		return nil, err
	}

	c := &client{
		apiKey:     apiKey,
		baseURL:    u,
		httpClient: http.DefaultClient,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	c.SearchService = NewSearchService(c)

	return c, nil
}

func (client *client) Do(method, path string, opts ...RequestOption) (*http.Response, error) {
	u := client.baseURL.JoinPath(path)
	req, err := http.NewRequest(method, u.String(), nil)
	if err != nil {
		return nil, err
	}

	for _, opt := range client.globalRequestOpts {
		req = opt(req)
	}
	for _, opt := range opts {
		req = opt(req)
	}
	req = client.injectAPIKey(req)

	start := time.Now()
	resp, err := client.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	client.logger.DebugContext(req.Context(), "Sent moviedb request",
		"method", method,
		"path", u.Path,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		return nil, newRequestError(resp)
	}

	return resp, err
}

func (client *client) injectAPIKey(r *http.Request) *http.Request {
	if client.apiKey == "" {
		return r
	}

	q := r.URL.Query()
	if q.Has("api_key") {
		return r
	}

	q.Set("api_key", client.apiKey)
	r.URL.RawQuery = q.Encode()
	return r
}

// decodeBody decodes the response body into dst and closes it. Anything the JSON decoder
// rejects is reported as a malformed object.
func decodeBody(resp *http.Response, object string, dst any) error {
	defer resp.Body.Close()

	err := json.NewDecoder(resp.Body).Decode(dst)
	if err == nil {
		return nil
	}

	var fieldErr *FieldError
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &fieldErr):
		return err
	case errors.As(err, &syntaxErr), errors.As(err, &typeErr),
		errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return &FieldError{Object: object, Err: err}
	}

	return err
}
