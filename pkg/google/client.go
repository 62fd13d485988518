package google

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "https://maps.googleapis.com/maps/api/place"
	photoBaseURL   = "https://maps.googleapis.com/maps/api/place/photo"
	photoMaxWidth  = 400
)

// DetailFields is the field selection used for lead enrichment.
var DetailFields = []string{
	"name",
	"formatted_address",
	"formatted_phone_number",
	"geometry/location",
	"photos",
}

// Client performs Google Places web service operations.
type Client interface {
	TextSearch(ctx context.Context, req TextSearchRequest) (*TextSearchResponse, error)
	Details(ctx context.Context, placeID string, fields []string) (*DetailsResponse, error)
}

// TextSearchRequest is a Places Text Search query. When PageToken is set the
// query is ignored by the API and the next page of the original query is returned.
type TextSearchRequest struct {
	Query     string
	PageToken string
}

// TextSearchResponse is the response from Places Text Search.
type TextSearchResponse struct {
	Results       []SearchResult `json:"results"`
	NextPageToken string         `json:"next_page_token,omitempty"`
	Status        string         `json:"status"`
	ErrorMessage  string         `json:"error_message,omitempty"`
}

// SearchResult is a single Text Search hit.
type SearchResult struct {
	PlaceID          string `json:"place_id"`
	Name             string `json:"name,omitempty"`
	FormattedAddress string `json:"formatted_address,omitempty"`
}

// DetailsResponse is the response from Place Details.
type DetailsResponse struct {
	Result       PlaceDetails `json:"result"`
	Status       string       `json:"status"`
	ErrorMessage string       `json:"error_message,omitempty"`
}

// PlaceDetails holds the detail fields requested for a place. Every field is
// optional in the API payload.
type PlaceDetails struct {
	Name                 string    `json:"name,omitempty"`
	FormattedAddress     string    `json:"formatted_address,omitempty"`
	FormattedPhoneNumber string    `json:"formatted_phone_number,omitempty"`
	Geometry             *Geometry `json:"geometry,omitempty"`
	Photos               []Photo   `json:"photos,omitempty"`
}

// IsEmpty reports whether the payload carries no usable data.
func (d PlaceDetails) IsEmpty() bool {
	return d.Name == "" && d.FormattedAddress == "" && d.FormattedPhoneNumber == "" &&
		d.Geometry == nil && len(d.Photos) == 0
}

// Geometry wraps the place location.
type Geometry struct {
	Location *Location `json:"location,omitempty"`
}

// Location is a lat/lng pair. Either coordinate may be missing or null.
type Location struct {
	Lat *float64 `json:"lat,omitempty"`
	Lng *float64 `json:"lng,omitempty"`
}

// Photo is a photo descriptor attached to a place.
type Photo struct {
	PhotoReference string `json:"photo_reference,omitempty"`
	Width          int    `json:"width,omitempty"`
	Height         int    `json:"height,omitempty"`
}

// PhotoURL builds the Place Photo retrieval URL for a photo reference.
func PhotoURL(apiKey, reference string) string {
	return fmt.Sprintf("%s?maxwidth=%d&photoreference=%s&key=%s",
		photoBaseURL, photoMaxWidth, url.QueryEscape(reference), url.QueryEscape(apiKey))
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRateLimit caps outbound requests per second. Zero or negative disables it.
func WithRateLimit(rps float64) Option {
	return func(c *httpClient) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a Google Places API client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) TextSearch(ctx context.Context, req TextSearchRequest) (*TextSearchResponse, error) {
	params := url.Values{}
	if req.PageToken != "" {
		params.Set("pagetoken", req.PageToken)
	} else {
		if req.Query == "" {
			return nil, eris.New("google: text search: empty query")
		}
		params.Set("query", req.Query)
	}

	var result TextSearchResponse
	if err := c.get(ctx, "/textsearch/json", params, &result); err != nil {
		return nil, eris.Wrap(err, "google: text search")
	}
	if err := checkStatus(result.Status, result.ErrorMessage); err != nil {
		return nil, eris.Wrap(err, "google: text search")
	}
	return &result, nil
}

func (c *httpClient) Details(ctx context.Context, placeID string, fields []string) (*DetailsResponse, error) {
	if placeID == "" {
		return nil, eris.New("google: details: empty place id")
	}

	params := url.Values{}
	params.Set("place_id", placeID)
	if len(fields) > 0 {
		params.Set("fields", strings.Join(fields, ","))
	}

	var result DetailsResponse
	if err := c.get(ctx, "/details/json", params, &result); err != nil {
		return nil, eris.Wrapf(err, "google: details %s", placeID)
	}
	if err := checkStatus(result.Status, result.ErrorMessage); err != nil {
		return nil, eris.Wrapf(err, "google: details %s", placeID)
	}
	return &result, nil
}

func (c *httpClient) get(ctx context.Context, path string, params url.Values, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return eris.Wrap(err, "rate limit wait")
		}
	}

	params.Set("key", c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return eris.Wrap(err, "create request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrap(err, "send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "read response")
	}

	if resp.StatusCode != http.StatusOK {
		return &APIError{HTTPStatus: resp.StatusCode, Message: string(body)}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return eris.Wrap(err, "unmarshal response")
	}
	return nil
}
