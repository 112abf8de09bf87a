// Package geo acquires the device position for report coordinates. Providers
// are pluggable because terminals have no universal location capability; the
// capturer maps every provider failure into a small set of user-facing
// categories.
package geo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// PositionSample is one acquired fix. Immutable once captured.
type PositionSample struct {
	Latitude       float64   `json:"latitude"`
	Longitude      float64   `json:"longitude"`
	AccuracyMeters float64   `json:"accuracy_meters"`
	CapturedAt     time.Time `json:"captured_at"`
}

// InRange reports whether the coordinates are geographically plausible.
func (s PositionSample) InRange() bool {
	return s.Latitude >= -90 && s.Latitude <= 90 &&
		s.Longitude >= -180 && s.Longitude <= 180 &&
		s.AccuracyMeters >= 0
}

// Caption renders a human-readable accuracy/timestamp line for the UI.
func (s PositionSample) Caption() string {
	return fmt.Sprintf("±%.0fm fix at %s", s.AccuracyMeters, s.CapturedAt.Local().Format("15:04:05"))
}

// FormatCoordinate renders a coordinate the way the form fields carry it.
func FormatCoordinate(v float64) string {
	return fmt.Sprintf("%.6f", v)
}

// Category buckets capture failures for presentation.
type Category string

const (
	CategoryPermission  Category = "permission"
	CategoryUnavailable Category = "unavailable"
	CategoryTimeout     Category = "timeout"
	CategoryUnsupported Category = "unsupported"
	CategoryUnknown     Category = "unknown"
)

// Provider error codes, numbered like the classic geolocation APIs.
const (
	CodePermissionDenied    = 1
	CodePositionUnavailable = 2
	CodeTimeout             = 3
)

// ProviderError is a coded failure from a position provider.
type ProviderError struct {
	Code    int
	Message string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("geo: provider error %d: %s", e.Code, e.Message)
}

// CaptureError is a categorized capture failure.
type CaptureError struct {
	Category Category
	Message  string
}

func (e *CaptureError) Error() string {
	return fmt.Sprintf("geo: %s: %s", e.Category, e.Message)
}

// Categorize folds an arbitrary capture failure into a CaptureError. Provider
// codes win, in their numbering order; a capturer-level deadline maps to the
// timeout category; anything else is unknown with the message passed through
// verbatim.
func Categorize(err error) *CaptureError {
	var capErr *CaptureError
	if errors.As(err, &capErr) {
		return capErr
	}
	var provErr *ProviderError
	if errors.As(err, &provErr) {
		switch provErr.Code {
		case CodePermissionDenied:
			return &CaptureError{Category: CategoryPermission, Message: provErr.Message}
		case CodePositionUnavailable:
			return &CaptureError{Category: CategoryUnavailable, Message: provErr.Message}
		case CodeTimeout:
			return &CaptureError{Category: CategoryTimeout, Message: provErr.Message}
		}
		return &CaptureError{Category: CategoryUnknown, Message: provErr.Message}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &CaptureError{Category: CategoryTimeout, Message: "position fix timed out"}
	}
	return &CaptureError{Category: CategoryUnknown, Message: err.Error()}
}

// UserMessage maps a capture failure to the line shown to the reporter.
func UserMessage(err error) string {
	ce := Categorize(err)
	switch ce.Category {
	case CategoryPermission:
		return "Location permission denied. Check your locator configuration."
	case CategoryUnavailable:
		return "Your position is unavailable right now. Try again in a moment."
	case CategoryTimeout:
		return "Timed out waiting for a position fix."
	case CategoryUnsupported:
		return "Location capture is not supported on this host."
	default:
		return ce.Message
	}
}

// Options tune a capture attempt.
type Options struct {
	// Timeout bounds the whole acquisition.
	Timeout time.Duration

	// MaxAge is how stale a cached fix may be and still satisfy a capture.
	MaxAge time.Duration

	// HighAccuracy asks the provider for its best fix.
	HighAccuracy bool
}

// DefaultOptions are the fixed parameters the report form captures with.
func DefaultOptions() Options {
	return Options{
		Timeout:      10 * time.Second,
		MaxAge:       5 * time.Minute,
		HighAccuracy: true,
	}
}

// Provider produces position fixes.
type Provider interface {
	Position(ctx context.Context, opts Options) (PositionSample, error)
}

// Capturer performs single-shot and continuous acquisition against one
// provider.
type Capturer struct {
	provider Provider
	opts     Options
	log      *zap.Logger
}

// NewCapturer builds a Capturer. provider may be nil when the host has no
// location capability; captures then fail immediately with the unsupported
// category instead of waiting out the timeout.
func NewCapturer(provider Provider, opts Options, log *zap.Logger) *Capturer {
	if opts.Timeout <= 0 {
		opts = DefaultOptions()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Capturer{provider: provider, opts: opts, log: log}
}

// Supported reports whether a provider is configured.
func (c *Capturer) Supported() bool { return c.provider != nil }

// Capture acquires one PositionSample or a categorized failure.
func (c *Capturer) Capture(ctx context.Context) (PositionSample, error) {
	if c.provider == nil {
		return PositionSample{}, &CaptureError{
			Category: CategoryUnsupported,
			Message:  "no location provider configured",
		}
	}

	ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	sample, err := c.provider.Position(ctx, c.opts)
	if err != nil {
		ce := Categorize(err)
		c.log.Warn("geo: capture failed",
			zap.String("category", string(ce.Category)), zap.String("message", ce.Message))
		return PositionSample{}, ce
	}
	if !sample.InRange() {
		return PositionSample{}, &CaptureError{
			Category: CategoryUnavailable,
			Message:  "provider returned an out-of-range position",
		}
	}
	if sample.CapturedAt.IsZero() {
		sample.CapturedAt = time.Now()
	}
	return sample, nil
}

// Watch delivers best-effort continuous fixes to onSample until the returned
// cancel func is called or ctx ends. Capture failures on this path are logged
// and skipped, never surfaced.
func (c *Capturer) Watch(ctx context.Context, onSample func(PositionSample)) (func(), error) {
	if c.provider == nil {
		return nil, &CaptureError{
			Category: CategoryUnsupported,
			Message:  "no location provider configured",
		}
	}
	ctx, cancel := context.WithCancel(ctx)

	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for {
			sample, err := c.Capture(ctx)
			if err == nil {
				onSample(sample)
			}
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()

	return cancel, nil
}
