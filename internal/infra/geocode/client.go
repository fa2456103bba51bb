package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"shiftstay/internal/app/policies"
)

const defaultLimit = 5

// Client resolves location autocomplete through an external geocoding service.
type Client struct {
	HTTP     *http.Client
	Endpoint string
	Logger   *slog.Logger
}

type suggestResponse struct {
	Suggestions []struct {
		Label string  `json:"label"`
		City  string  `json:"city"`
		State string  `json:"state"`
		Lat   float64 `json:"lat"`
		Lon   float64 `json:"lon"`
	} `json:"suggestions"`
}

// Suggest queries the geocoder. A failing or slow geocoder degrades to no
// suggestions so search stays usable.
func (c *Client) Suggest(ctx context.Context, query string, limit int) ([]policies.PlaceSuggestion, error) {
	if c == nil || c.HTTP == nil {
		return nil, errors.New("geocode: http client not configured")
	}
	if c.Endpoint == "" {
		return nil, errors.New("geocode: endpoint not configured")
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = defaultLimit
	}

	u, err := url.Parse(c.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("geocode: parse endpoint: %w", err)
	}
	q := u.Query()
	q.Set("q", query)
	q.Set("limit", strconv.Itoa(limit))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("geocode: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		c.warn("geocode request failed", "error", err)
		return nil, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.warn("geocode service error", "status", resp.StatusCode, "body", string(body))
		return nil, nil
	}

	var decoded suggestResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		c.warn("geocode decode failed", "error", err)
		return nil, nil
	}

	out := make([]policies.PlaceSuggestion, 0, len(decoded.Suggestions))
	for _, s := range decoded.Suggestions {
		if strings.TrimSpace(s.Label) == "" {
			continue
		}
		out = append(out, policies.PlaceSuggestion{
			Label: s.Label,
			City:  s.City,
			State: s.State,
			Lat:   s.Lat,
			Lon:   s.Lon,
		})
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (c *Client) warn(msg string, args ...any) {
	if c.Logger != nil {
		c.Logger.Warn(msg, args...)
	}
}

var _ policies.Geocoder = (*Client)(nil)
