// Package geo resolves coordinates to place names and back through a
// Nominatim-compatible service, and abstracts how the current position is
// obtained.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	defaultUserAgent = "eventsphere-go"
	defaultTimeout   = 10 * time.Second

	// Nearby labels a place whose address has no locality.
	Nearby = "Nearby"
)

// Coordinates is a WGS84 position.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Place is the subset of a reverse lookup the client uses.
type Place struct {
	DisplayName string
	City        string
	Town        string
	Village     string
	County      string
}

// ShortName is the most specific locality available.
func (p Place) ShortName() string {
	for _, s := range []string{p.City, p.Town, p.Village, p.County} {
		if s != "" {
			return s
		}
	}
	return Nearby
}

// Geocoder talks to a Nominatim-compatible HTTP API. Lookups are
// unauthenticated.
type Geocoder struct {
	base      *url.URL
	http      *http.Client
	userAgent string
}

// GeocoderOption configures a Geocoder.
type GeocoderOption func(*Geocoder)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) GeocoderOption {
	return func(g *Geocoder) {
		if hc != nil {
			g.http = hc
		}
	}
}

// WithUserAgent sets the User-Agent; public Nominatim instances require one.
func WithUserAgent(ua string) GeocoderOption {
	return func(g *Geocoder) {
		if ua != "" {
			g.userAgent = ua
		}
	}
}

// NewGeocoder creates a geocoder rooted at baseURL.
func NewGeocoder(baseURL string, opts ...GeocoderOption) (*Geocoder, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("geo: invalid geocoder url %q", baseURL)
	}
	g := &Geocoder{
		base:      u,
		http:      &http.Client{Timeout: defaultTimeout},
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

type reverseResponse struct {
	DisplayName string `json:"display_name"`
	Error       string `json:"error"`
	Address     *struct {
		City    string `json:"city"`
		Town    string `json:"town"`
		Village string `json:"village"`
		County  string `json:"county"`
	} `json:"address"`
}

// Reverse resolves coordinates to a place.
func (g *Geocoder) Reverse(ctx context.Context, c Coordinates) (Place, error) {
	q := url.Values{}
	q.Set("format", "json")
	q.Set("lat", strconv.FormatFloat(c.Lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(c.Lng, 'f', -1, 64))

	var res reverseResponse
	if err := g.get(ctx, "/reverse", q, &res); err != nil {
		return Place{}, err
	}
	if res.Error != "" || res.Address == nil {
		return Place{}, fmt.Errorf("%w: reverse: no address", ErrNoMatch)
	}
	return Place{
		DisplayName: res.DisplayName,
		City:        res.Address.City,
		Town:        res.Address.Town,
		Village:     res.Address.Village,
		County:      res.Address.County,
	}, nil
}

type searchHit struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Search resolves a free-text address to the coordinates of the best match.
func (g *Geocoder) Search(ctx context.Context, query string) (Coordinates, string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Coordinates{}, "", ErrNoMatch
	}
	q := url.Values{}
	q.Set("format", "json")
	q.Set("q", query)
	q.Set("limit", "1")

	var hits []searchHit
	if err := g.get(ctx, "/search", q, &hits); err != nil {
		return Coordinates{}, "", err
	}
	if len(hits) == 0 {
		return Coordinates{}, "", ErrNoMatch
	}
	lat, err1 := strconv.ParseFloat(hits[0].Lat, 64)
	lng, err2 := strconv.ParseFloat(hits[0].Lon, 64)
	if err1 != nil || err2 != nil {
		return Coordinates{}, "", fmt.Errorf("%w: bad coordinates %q,%q", ErrLookup, hits[0].Lat, hits[0].Lon)
	}
	return Coordinates{Lat: lat, Lng: lng}, hits[0].DisplayName, nil
}

func (g *Geocoder) get(ctx context.Context, path string, q url.Values, out any) error {
	u := *g.base
	u.Path = g.base.Path + path
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLookup, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", g.userAgent)

	resp, err := g.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLookup, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s %s", ErrLookup, path, resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s: %w", ErrLookup, path, err)
	}
	return nil
}
