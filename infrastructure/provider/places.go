package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/campuslist/campuslist/domain/place"
	"github.com/campuslist/campuslist/internal/config"
)

const (
	searchFieldMask = "places.id,places.displayName,places.formattedAddress,places.rating,places.types"
	detailFieldMask = "*"
)

// PlacesClient talks to the Google Places API (New, v1).
type PlacesClient struct {
	cfg        config.PlacesConfig
	httpClient *http.Client
	retry      retryPolicy
}

// PlacesOption is a functional option for PlacesClient.
type PlacesOption func(*PlacesClient)

// WithPlacesHTTPClient overrides the HTTP client.
func WithPlacesHTTPClient(client *http.Client) PlacesOption {
	return func(c *PlacesClient) { c.httpClient = client }
}

// NewPlacesClient creates a PlacesClient.
func NewPlacesClient(cfg config.PlacesConfig, opts ...PlacesOption) *PlacesClient {
	c := &PlacesClient{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		retry: retryPolicy{
			maxAttempts:  3,
			initialDelay: 500 * time.Millisecond,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Candidate is one text-search hit.
type Candidate struct {
	ID          string
	DisplayName string
	Address     string
	Types       []string
}

type searchTextRequest struct {
	TextQuery      string `json:"textQuery"`
	MaxResultCount int    `json:"maxResultCount"`
}

type searchTextResponse struct {
	Places []struct {
		ID          string `json:"id"`
		DisplayName struct {
			Text string `json:"text"`
		} `json:"displayName"`
		FormattedAddress string   `json:"formattedAddress"`
		Types            []string `json:"types"`
	} `json:"places"`
}

// SearchText runs a Places text search and returns up to the configured
// number of candidates.
func (c *PlacesClient) SearchText(ctx context.Context, query string) ([]Candidate, error) {
	if !c.cfg.IsConfigured() {
		return nil, fmt.Errorf("%w: places api key missing", ErrNotConfigured)
	}

	reqBody := searchTextRequest{
		TextQuery:      query,
		MaxResultCount: c.cfg.MaxCandidates(),
	}

	var parsed searchTextResponse
	err := withRetry(ctx, c.retry, func() error {
		body, err := c.post(ctx, "places:searchText", searchFieldMask, reqBody)
		if err != nil {
			return err
		}
		parsed = searchTextResponse{}
		if err := json.Unmarshal(body, &parsed); err != nil {
			return NewProviderError("search_text", 0, "unmarshal response", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	candidates := make([]Candidate, 0, len(parsed.Places))
	for _, p := range parsed.Places {
		candidates = append(candidates, Candidate{
			ID:          p.ID,
			DisplayName: p.DisplayName.Text,
			Address:     p.FormattedAddress,
			Types:       p.Types,
		})
	}
	return candidates, nil
}

// Details fetches all fields for a place and returns them in the
// normalized payload shape.
func (c *PlacesClient) Details(ctx context.Context, placeID string) (place.Details, error) {
	if !c.cfg.IsConfigured() {
		return place.Details{}, fmt.Errorf("%w: places api key missing", ErrNotConfigured)
	}

	var raw map[string]any
	err := withRetry(ctx, c.retry, func() error {
		body, err := c.get(ctx, "places/"+placeID, detailFieldMask)
		if err != nil {
			return err
		}
		raw = nil
		if err := json.Unmarshal(body, &raw); err != nil {
			return NewProviderError("place_details", 0, "unmarshal response", err)
		}
		return nil
	})
	if err != nil {
		return place.Details{}, err
	}

	return place.FromRaw(normalizeDetails(raw)), nil
}

type photoMediaResponse struct {
	Name     string `json:"name"`
	PhotoURI string `json:"photoUri"`
}

// PhotoURI resolves a photo resource name to a downloadable URI without
// following the redirect.
func (c *PlacesClient) PhotoURI(ctx context.Context, photoName string) (string, error) {
	if !c.cfg.IsConfigured() {
		return "", fmt.Errorf("%w: places api key missing", ErrNotConfigured)
	}

	path := fmt.Sprintf("%s/media?maxWidthPx=%d&skipHttpRedirect=true", photoName, c.cfg.PhotoMaxWidth())

	var parsed photoMediaResponse
	err := withRetry(ctx, c.retry, func() error {
		body, err := c.get(ctx, path, "")
		if err != nil {
			return err
		}
		parsed = photoMediaResponse{}
		if err := json.Unmarshal(body, &parsed); err != nil {
			return NewProviderError("photo_media", 0, "unmarshal response", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	if parsed.PhotoURI == "" {
		return "", NewProviderError("photo_media", 0, "no photo uri in response", nil)
	}
	return parsed.PhotoURI, nil
}

func (c *PlacesClient) post(ctx context.Context, path, fieldMask string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, NewProviderError("search_text", 0, "marshal request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL()+"/"+path, bytes.NewReader(body))
	if err != nil {
		return nil, NewProviderError("search_text", 0, "create request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.setHeaders(req, fieldMask)

	return c.do(req, "search_text")
}

func (c *PlacesClient) get(ctx context.Context, path, fieldMask string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL()+"/"+path, nil)
	if err != nil {
		return nil, NewProviderError("place_details", 0, "create request", err)
	}
	c.setHeaders(req, fieldMask)

	return c.do(req, "place_details")
}

func (c *PlacesClient) setHeaders(req *http.Request, fieldMask string) {
	req.Header.Set("X-Goog-Api-Key", c.cfg.APIKey())
	if fieldMask != "" {
		req.Header.Set("X-Goog-FieldMask", fieldMask)
	}
}

func (c *PlacesClient) do(req *http.Request, operation string) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, NewProviderError(operation, 0, "request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewProviderError(operation, resp.StatusCode, "read response", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, NewProviderError(operation, resp.StatusCode, string(body), nil)
	}
	return body, nil
}

// normalizeDetails flattens the provider detail response into the stable
// payload shape persisted with each university.
func normalizeDetails(raw map[string]any) map[string]any {
	out := map[string]any{}

	if text := nestedString(raw, "displayName", "text"); text != "" {
		out["title"] = text
	}
	setString(out, "address", raw, "formattedAddress")
	setString(out, "short_address", raw, "shortFormattedAddress")
	setString(out, "website", raw, "websiteUri")
	setString(out, "maps_link", raw, "googleMapsUri")
	setString(out, "business_status", raw, "businessStatus")
	setString(out, "type", raw, "primaryType")

	if phone, ok := raw["nationalPhoneNumber"].(string); ok && phone != "" {
		out["phone"] = phone
	} else if phone, ok := raw["internationalPhoneNumber"].(string); ok && phone != "" {
		out["phone"] = phone
	}

	if loc, ok := raw["location"].(map[string]any); ok {
		gps := map[string]any{}
		if lat, ok := loc["latitude"]; ok {
			gps["latitude"] = lat
		}
		if lon, ok := loc["longitude"]; ok {
			gps["longitude"] = lon
		}
		if len(gps) == 2 {
			out["gps_coordinates"] = gps
		}
	}

	if rating, ok := raw["rating"]; ok {
		out["rating"] = rating
	}
	if count, ok := raw["userRatingCount"]; ok {
		out["rating_count"] = count
	}

	if opening, ok := raw["currentOpeningHours"].(map[string]any); ok {
		if open, ok := opening["openNow"].(bool); ok {
			if open {
				out["open_state"] = "Open"
			} else {
				out["open_state"] = "Closed"
			}
		}
	}
	if hours := weekdayHours(raw); len(hours) > 0 {
		out["hours"] = hours
	}

	if photos := normalizePhotos(raw); len(photos) > 0 {
		out["photos"] = photos
	}

	area, locality, region := addressComponents(raw)
	if area != "" {
		out["administrative_area"] = area
	}
	if locality != "" {
		out["locality"] = locality
	}
	if region != "" {
		out["region_code"] = region
	}

	return out
}

func weekdayHours(raw map[string]any) map[string]any {
	opening, ok := raw["regularOpeningHours"].(map[string]any)
	if !ok {
		if opening, ok = raw["currentOpeningHours"].(map[string]any); !ok {
			return nil
		}
	}
	descriptions, ok := opening["weekdayDescriptions"].([]any)
	if !ok {
		return nil
	}

	hours := map[string]any{}
	for _, d := range descriptions {
		line, ok := d.(string)
		if !ok {
			continue
		}
		day, times, found := strings.Cut(line, ": ")
		if !found {
			continue
		}
		hours[strings.ToLower(day)] = times
	}
	return hours
}

func normalizePhotos(raw map[string]any) []any {
	items, ok := raw["photos"].([]any)
	if !ok {
		return nil
	}

	photos := make([]any, 0, len(items))
	for _, item := range items {
		p, ok := item.(map[string]any)
		if !ok {
			continue
		}
		name, _ := p["name"].(string)
		if name == "" {
			continue
		}
		photo := map[string]any{"name": name}
		if w, ok := p["widthPx"]; ok {
			photo["width_px"] = w
		}
		if h, ok := p["heightPx"]; ok {
			photo["height_px"] = h
		}
		if attrs, ok := p["authorAttributions"].([]any); ok && len(attrs) > 0 {
			if attr, ok := attrs[0].(map[string]any); ok {
				if name := nestedString(attr, "displayName"); name != "" {
					photo["attribution"] = name
				}
			}
		}
		photos = append(photos, photo)
	}
	return photos
}

func addressComponents(raw map[string]any) (area, locality, region string) {
	components, ok := raw["addressComponents"].([]any)
	if !ok {
		return "", "", ""
	}

	for _, item := range components {
		c, ok := item.(map[string]any)
		if !ok {
			continue
		}
		types, _ := c["types"].([]any)
		for _, t := range types {
			switch t {
			case "administrative_area_level_1":
				area, _ = c["longText"].(string)
			case "locality":
				locality, _ = c["longText"].(string)
			case "country":
				region, _ = c["shortText"].(string)
			}
		}
	}
	return area, locality, region
}

func setString(out map[string]any, key string, raw map[string]any, source string) {
	if v, ok := raw[source].(string); ok && v != "" {
		out[key] = v
	}
}

func nestedString(m map[string]any, keys ...string) string {
	current := m
	for i, key := range keys {
		if i == len(keys)-1 {
			s, _ := current[key].(string)
			return s
		}
		next, ok := current[key].(map[string]any)
		if !ok {
			return ""
		}
		current = next
	}
	return ""
}
