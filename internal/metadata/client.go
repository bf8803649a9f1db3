package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrNotFound is returned when upstream has no details for the requested title.
var ErrNotFound = errors.New("metadata: not found")

// Details holds optional descriptive fields for a movie.
type Details struct {
	Director    *string
	Country     *string
	Description *string
	Actors      []string
}

// Client looks up movie details by title.
type Client interface {
	Lookup(ctx context.Context, title string) (*Details, error)
}

// HTTPClient implements Client against a JSON lookup endpoint.
type HTTPClient struct {
	baseURL *url.URL
	apiKey  string
	client  *http.Client
	logger  *log.Logger
}

// NewHTTPClient constructs an HTTP-backed metadata client.
func NewHTTPClient(baseURL, apiKey string, timeout time.Duration, logger *log.Logger) (*HTTPClient, error) {
	if logger == nil {
		logger = log.Default()
	}
	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse metadata url: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("parse metadata url: %q is not absolute", baseURL)
	}
	return &HTTPClient{
		baseURL: parsed,
		apiKey:  apiKey,
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout:   timeout,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout:   timeout,
				ResponseHeaderTimeout: timeout,
			},
		},
		logger: logger,
	}, nil
}

// Lookup fetches details for title.
func (c *HTTPClient) Lookup(ctx context.Context, title string) (*Details, error) {
	rel := &url.URL{Path: c.baseURL.Path + "/movies"}
	q := rel.Query()
	q.Set("title", title)
	rel.RawQuery = q.Encode()
	endpoint := c.baseURL.ResolveReference(rel)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, err
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var payload apiResponse
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			return nil, fmt.Errorf("decode metadata response: %w", err)
		}
		return payload.toDetails(), nil
	case http.StatusNotFound:
		return nil, ErrNotFound
	default:
		c.logger.Printf("metadata: unexpected status %d for title %q", resp.StatusCode, title)
		return nil, fmt.Errorf("metadata: upstream returned %d", resp.StatusCode)
	}
}

type apiResponse struct {
	Title       string   `json:"title"`
	Director    *string  `json:"director"`
	Country     *string  `json:"country"`
	Description *string  `json:"description"`
	Actors      []string `json:"actors"`
}

func (p apiResponse) toDetails() *Details {
	actors := make([]string, 0, len(p.Actors))
	for _, a := range p.Actors {
		if a = strings.TrimSpace(a); a != "" {
			actors = append(actors, a)
		}
	}
	return &Details{
		Director:    blankToNil(p.Director),
		Country:     blankToNil(p.Country),
		Description: blankToNil(p.Description),
		Actors:      actors,
	}
}

func blankToNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
