package geo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type stubProvider struct {
	sample PositionSample
	err    error
	delay  time.Duration
}

func (s stubProvider) Position(ctx context.Context, opts Options) (PositionSample, error) {
	if s.delay > 0 {
		select {
		case <-ctx.Done():
			return PositionSample{}, ctx.Err()
		case <-time.After(s.delay):
		}
	}
	if s.err != nil {
		return PositionSample{}, s.err
	}
	return s.sample, nil
}

func TestCaptureSuccess(t *testing.T) {
	want := PositionSample{Latitude: 9.871944, Longitude: 76.274166, AccuracyMeters: 8}
	c := NewCapturer(stubProvider{sample: want}, DefaultOptions(), nil)

	got, err := c.Capture(context.Background())
	if err != nil {
		t.Fatalf("capture: %v", err)
	}
	if got.Latitude != want.Latitude || got.Longitude != want.Longitude {
		t.Fatalf("unexpected sample: %+v", got)
	}
	if got.CapturedAt.IsZero() {
		t.Fatalf("expected capture timestamp to be filled")
	}
}

func TestCaptureUnsupportedWithoutProvider(t *testing.T) {
	c := NewCapturer(nil, DefaultOptions(), nil)

	start := time.Now()
	_, err := c.Capture(context.Background())
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("unsupported capture waited %v, expected immediate failure", elapsed)
	}

	ce := Categorize(err)
	if ce.Category != CategoryUnsupported {
		t.Fatalf("expected unsupported, got %q", ce.Category)
	}
}

func TestCaptureTimeout(t *testing.T) {
	opts := DefaultOptions()
	opts.Timeout = 20 * time.Millisecond
	c := NewCapturer(stubProvider{delay: time.Second}, opts, nil)

	_, err := c.Capture(context.Background())
	if ce := Categorize(err); ce.Category != CategoryTimeout {
		t.Fatalf("expected timeout, got %q (%v)", ce.Category, err)
	}
}

func TestCategorizeProviderCodes(t *testing.T) {
	cases := []struct {
		code int
		want Category
	}{
		{CodePermissionDenied, CategoryPermission},
		{CodePositionUnavailable, CategoryUnavailable},
		{CodeTimeout, CategoryTimeout},
		{99, CategoryUnknown},
	}
	for _, tc := range cases {
		err := &ProviderError{Code: tc.code, Message: "raw provider text"}
		ce := Categorize(err)
		if ce.Category != tc.want {
			t.Fatalf("code %d: expected %q, got %q", tc.code, tc.want, ce.Category)
		}
		if tc.want == CategoryUnknown && ce.Message != "raw provider text" {
			t.Fatalf("unknown category must pass the raw message through, got %q", ce.Message)
		}
	}
}

func TestCategorizeUnknownPassthrough(t *testing.T) {
	ce := Categorize(errors.New("weird provider state"))
	if ce.Category != CategoryUnknown || ce.Message != "weird provider state" {
		t.Fatalf("unexpected categorization: %+v", ce)
	}
}

func TestCaptureRejectsOutOfRangeSample(t *testing.T) {
	c := NewCapturer(stubProvider{sample: PositionSample{Latitude: 123}}, DefaultOptions(), nil)
	_, err := c.Capture(context.Background())
	if ce := Categorize(err); ce.Category != CategoryUnavailable {
		t.Fatalf("expected unavailable for nonsense coordinates, got %q", ce.Category)
	}
}

func TestFormatCoordinate(t *testing.T) {
	if got := FormatCoordinate(9.8719444444); got != "9.871944" {
		t.Fatalf("expected 6-decimal formatting, got %q", got)
	}
}

func TestHTTPProviderSuccessAndCache(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte(`{"lat": 9.871944, "lon": 76.274166, "accuracy": 12.5}`))
	}))
	defer srv.Close()

	p := NewHTTPProvider(srv.URL)
	opts := DefaultOptions()

	first, err := p.Position(context.Background(), opts)
	if err != nil {
		t.Fatalf("position: %v", err)
	}
	if first.Latitude != 9.871944 || first.AccuracyMeters != 12.5 {
		t.Fatalf("unexpected sample: %+v", first)
	}

	// A fix younger than MaxAge is served from cache.
	if _, err := p.Position(context.Background(), opts); err != nil {
		t.Fatalf("cached position: %v", err)
	}
	if hits != 1 {
		t.Fatalf("expected one locator hit, got %d", hits)
	}
}

func TestHTTPProviderPermissionDenied(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := NewHTTPProvider(srv.URL).Position(context.Background(), DefaultOptions())
	var pe *ProviderError
	if !errors.As(err, &pe) || pe.Code != CodePermissionDenied {
		t.Fatalf("expected permission-denied provider code, got %v", err)
	}
}

func TestHTTPProviderUnavailableOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewHTTPProvider(srv.URL).Position(context.Background(), DefaultOptions())
	var pe *ProviderError
	if !errors.As(err, &pe) || pe.Code != CodePositionUnavailable {
		t.Fatalf("expected position-unavailable provider code, got %v", err)
	}
}

func TestWatchDeliversFirstSample(t *testing.T) {
	want := PositionSample{Latitude: 9.931233, Longitude: 76.267304, AccuracyMeters: 12}
	c := NewCapturer(stubProvider{sample: want}, DefaultOptions(), nil)

	got := make(chan PositionSample, 1)
	cancel, err := c.Watch(context.Background(), func(s PositionSample) {
		select {
		case got <- s:
		default:
		}
	})
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	defer cancel()

	select {
	case s := <-got:
		if s.Latitude != want.Latitude || s.Longitude != want.Longitude {
			t.Fatalf("unexpected sample: %+v", s)
		}
	case <-time.After(time.Second):
		t.Fatal("no sample delivered")
	}
}

func TestWatchSkipsFailedCaptures(t *testing.T) {
	failing := stubProvider{err: &ProviderError{Code: CodePositionUnavailable, Message: "no fix"}}
	c := NewCapturer(failing, DefaultOptions(), nil)

	got := make(chan PositionSample, 1)
	cancel, err := c.Watch(context.Background(), func(s PositionSample) { got <- s })
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	defer cancel()

	select {
	case s := <-got:
		t.Fatalf("failed capture delivered a sample: %+v", s)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestWatchRequiresProvider(t *testing.T) {
	c := NewCapturer(nil, DefaultOptions(), nil)

	if _, err := c.Watch(context.Background(), func(PositionSample) {}); err == nil {
		t.Fatal("expected an error without a provider")
	} else if ce := Categorize(err); ce.Category != CategoryUnsupported {
		t.Fatalf("expected unsupported, got %q", ce.Category)
	}
}

// blockingProvider holds a position fix open until its context ends.
type blockingProvider struct {
	returned chan struct{}
}

func (p blockingProvider) Position(ctx context.Context, _ Options) (PositionSample, error) {
	<-ctx.Done()
	close(p.returned)
	return PositionSample{}, ctx.Err()
}

func TestWatchCancelReleasesAcquisition(t *testing.T) {
	p := blockingProvider{returned: make(chan struct{})}
	c := NewCapturer(p, DefaultOptions(), nil)

	cancel, err := c.Watch(context.Background(), func(PositionSample) {
		t.Error("sample delivered from a cancelled acquisition")
	})
	if err != nil {
		t.Fatalf("watch: %v", err)
	}

	cancel()

	select {
	case <-p.returned:
	case <-time.After(time.Second):
		t.Fatal("cancel did not release the in-flight acquisition")
	}
}
