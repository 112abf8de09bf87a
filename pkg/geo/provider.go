package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"
)

// HTTPProvider queries a locator endpoint that answers gpsd-style JSON:
//
//	{"lat": 9.871944, "lon": 76.274166, "accuracy": 12.5, "time": "..."}
//
// A fix no older than Options.MaxAge is served from cache without touching
// the network.
type HTTPProvider struct {
	url    string
	client *http.Client

	mu      sync.Mutex
	last    PositionSample
	hasLast bool
}

// NewHTTPProvider builds a provider for the given locator URL.
func NewHTTPProvider(url string) *HTTPProvider {
	return &HTTPProvider{
		url:    url,
		client: &http.Client{},
	}
}

type locatorResponse struct {
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	Accuracy float64 `json:"accuracy"`
	Time     string  `json:"time"`
}

// Position implements Provider.
func (p *HTTPProvider) Position(ctx context.Context, opts Options) (PositionSample, error) {
	p.mu.Lock()
	if p.hasLast && opts.MaxAge > 0 && time.Since(p.last.CapturedAt) <= opts.MaxAge {
		sample := p.last
		p.mu.Unlock()
		return sample, nil
	}
	p.mu.Unlock()

	url := p.url
	if opts.HighAccuracy {
		url += "?accuracy=high"
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return PositionSample{}, &ProviderError{Code: CodePositionUnavailable, Message: err.Error()}
	}

	resp, err := p.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return PositionSample{}, &ProviderError{Code: CodeTimeout, Message: "locator did not answer in time"}
		}
		return PositionSample{}, &ProviderError{Code: CodePositionUnavailable, Message: err.Error()}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return PositionSample{}, &ProviderError{
			Code:    CodePermissionDenied,
			Message: fmt.Sprintf("locator refused the request (%d)", resp.StatusCode),
		}
	case resp.StatusCode != http.StatusOK:
		return PositionSample{}, &ProviderError{
			Code:    CodePositionUnavailable,
			Message: fmt.Sprintf("locator answered %d", resp.StatusCode),
		}
	}

	var body locatorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return PositionSample{}, &ProviderError{Code: CodePositionUnavailable, Message: "locator answer unreadable"}
	}

	sample := PositionSample{
		Latitude:       body.Lat,
		Longitude:      body.Lon,
		AccuracyMeters: body.Accuracy,
		CapturedAt:     time.Now(),
	}
	if t, err := time.Parse(time.RFC3339, body.Time); err == nil {
		sample.CapturedAt = t
	}

	p.mu.Lock()
	p.last = sample
	p.hasLast = true
	p.mu.Unlock()
	return sample, nil
}

// StaticProvider answers with a configuration-pinned position. Useful for
// fixed observation posts without a locator service.
type StaticProvider struct {
	Latitude  float64
	Longitude float64
}

// Position implements Provider. The accuracy reflects that the fix is a
// configured guess, not a measurement.
func (p StaticProvider) Position(ctx context.Context, opts Options) (PositionSample, error) {
	sample := PositionSample{
		Latitude:       p.Latitude,
		Longitude:      p.Longitude,
		AccuracyMeters: 25000,
		CapturedAt:     time.Now(),
	}
	if !sample.InRange() {
		return PositionSample{}, &ProviderError{
			Code:    CodePositionUnavailable,
			Message: "configured static position is out of range",
		}
	}
	return sample, nil
}
