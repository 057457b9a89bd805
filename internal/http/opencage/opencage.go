package opencage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/bwise1/viff_planner/internal/model"
	"github.com/bwise1/viff_planner/util"
	"github.com/google/go-querystring/query"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

const (
	defaultOpenCageBaseURL = "https://api.opencagedata.com"
	geocodeEndpoint        = "/geocode/v1/json"
	defaultConcurrency     = 4
)

// Client handles communication with the OpenCage geocoding API.
type Client struct {
	BaseURL     *url.URL
	APIKey      string
	HTTPClient  *http.Client
	Concurrency int
}

// NewClient creates a new OpenCage API client with default timeout.
func NewClient(apiKey string) *Client {
	baseURL, _ := url.Parse(defaultOpenCageBaseURL)
	if apiKey == "" {
		log.Println("Warning: OpenCage API Key is empty.")
	}
	return &Client{
		BaseURL:     baseURL,
		APIKey:      apiKey,
		Concurrency: defaultConcurrency,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				IdleConnTimeout:     30 * time.Second,
				TLSHandshakeTimeout: 5 * time.Second,
			},
		},
	}
}

// WithBaseURL points the client at another host, e.g. a test server.
// An empty string keeps the default.
func (c *Client) WithBaseURL(raw string) (*Client, error) {
	if raw == "" {
		return c, nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, errors.Wrap(err, "parse base URL")
	}
	c.BaseURL = u
	return c, nil
}

// --- Geocoding Request/Response Structures ---

// GeocodeQuery represents parameters for forward geocoding requests.
type GeocodeQuery struct {
	Q             string `url:"q"`
	Limit         *int   `url:"limit,omitempty"`
	NoAnnotations int    `url:"no_annotations,omitempty"` // 1 drops timezone/currency blocks
	Language      string `url:"language,omitempty"`
}

// GeocodeResponse is the body returned by /geocode/v1/json.
type GeocodeResponse struct {
	Results []Result `json:"results"`
	Status  struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"status"`
	TotalResults int `json:"total_results"`
}

type Result struct {
	Geometry struct {
		Lat float64 `json:"lat"`
		Lng float64 `json:"lng"`
	} `json:"geometry"`
	Components struct {
		Type     string `json:"_type"`
		Category string `json:"_category"`
	} `json:"components"`
	Formatted  string `json:"formatted"`
	Confidence int    `json:"confidence"`
}

// buildURL constructs the API URL with query parameters.
func (c *Client) buildURL(endpoint string, queryParams interface{}) (string, error) {
	rel, err := url.Parse(endpoint)
	if err != nil {
		return "", errors.Wrap(err, "parse endpoint")
	}
	u := c.BaseURL.ResolveReference(rel)

	q := u.Query()
	q.Set("key", c.APIKey)

	if queryParams != nil {
		v, err := query.Values(queryParams)
		if err != nil {
			return "", errors.Wrap(err, "encode query parameters")
		}
		for k, vals := range v {
			for _, val := range vals {
				q.Add(k, val)
			}
		}
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Geocode performs a forward lookup of free text.
func (c *Client) Geocode(ctx context.Context, text string, params *GeocodeQuery) (*GeocodeResponse, error) {
	if params == nil {
		params = &GeocodeQuery{}
	}
	params.Q = text

	reqURL, err := c.buildURL(geocodeEndpoint, params)
	if err != nil {
		return nil, errors.Wrap(err, "build geocode URL")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "create geocode request")
	}

	var result GeocodeResponse
	if err := c.do(req, &result); err != nil {
		return nil, errors.Wrap(err, "execute geocode request")
	}
	return &result, nil
}

// lookup returns the first result for text, or ok=false for anything else.
func (c *Client) lookup(ctx context.Context, text string) (Result, bool) {
	resp, err := c.Geocode(ctx, text, &GeocodeQuery{Limit: util.IntPtr(1), NoAnnotations: 1})
	if err != nil {
		log.Printf("[Geocode]: lookup %q failed: %v", text, err)
		return Result{}, false
	}
	if len(resp.Results) == 0 {
		return Result{}, false
	}
	return resp.Results[0], true
}

// ResolveOne resolves a free-text search. The marker is named after the
// query. Not found is a normal outcome, not an error.
func (c *Client) ResolveOne(ctx context.Context, text string) (model.Marker, bool) {
	res, ok := c.lookup(ctx, text)
	if !ok {
		return model.Marker{}, false
	}
	return toMarker(text, res), true
}

// ResolveMany resolves every venue by address concurrently. Results keep
// the input order; venues that fail to resolve are dropped. The batch is
// not cancelled with ctx and always runs to completion.
func (c *Client) ResolveMany(ctx context.Context, venues []model.Venue) []model.Marker {
	ctx = context.WithoutCancel(ctx)
	resolved := make([]*model.Marker, len(venues))

	var g errgroup.Group
	if c.Concurrency > 0 {
		g.SetLimit(c.Concurrency)
	}
	for i, venue := range venues {
		g.Go(func() error {
			res, ok := c.lookup(ctx, venue.Address)
			if !ok {
				log.Printf("[Geocode]: dropping venue %q", venue.Name)
				return nil
			}
			m := toMarker(venue.Name, res)
			if !m.HasCoordinates() {
				return nil
			}
			resolved[i] = &m
			return nil
		})
	}
	_ = g.Wait()

	markers := make([]model.Marker, 0, len(venues))
	for _, m := range resolved {
		if m != nil {
			markers = append(markers, *m)
		}
	}
	return markers
}

func toMarker(name string, res Result) model.Marker {
	return model.NewMarker(name, res.Geometry.Lat, res.Geometry.Lng, res.Components.Type, res.Components.Category)
}

// do executes HTTP requests and decodes JSON responses.
func (c *Client) do(req *http.Request, v interface{}) error {
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "execute HTTP request")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	if v != nil {
		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			return errors.Wrap(err, "decode response")
		}
	}
	return nil
}
