package report

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Submitter is the boundary with the out-of-scope server: one blocking form
// post carrying the validated field values and the optional photo.
type Submitter interface {
	Submit(ctx context.Context, values Fields, photoPath string) error
}

// HTTPSubmitter posts reports to {base}/submit-report as multipart/form-data.
type HTTPSubmitter struct {
	base   string
	client *http.Client
	log    *zap.Logger
}

// NewHTTPSubmitter builds a submitter for the given server base URL.
func NewHTTPSubmitter(base string, log *zap.Logger) *HTTPSubmitter {
	if log == nil {
		log = zap.NewNop()
	}
	return &HTTPSubmitter{
		base:   strings.TrimRight(base, "/"),
		client: &http.Client{},
		log:    log,
	}
}

// Submit implements Submitter. No retries: a failure is surfaced to the user,
// who resubmits by their own action.
func (s *HTTPSubmitter) Submit(ctx context.Context, values Fields, photoPath string) error {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	for _, name := range FieldOrder {
		if name == FieldPhoto {
			continue
		}
		if v, ok := values[name]; ok && v != "" {
			if err := w.WriteField(name, v); err != nil {
				return fmt.Errorf("report: encode field %s: %w", name, err)
			}
		}
	}

	if photoPath != "" {
		if err := attachPhoto(w, photoPath); err != nil {
			return err
		}
	}

	if err := w.Close(); err != nil {
		return fmt.Errorf("report: finalize form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.base+"/submit-report", &body)
	if err != nil {
		return fmt.Errorf("report: build request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("report: submit: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 399 {
		s.log.Warn("report: server rejected submission", zap.Int("status", resp.StatusCode))
		return fmt.Errorf("report: server answered %d", resp.StatusCode)
	}
	s.log.Info("report: submitted", zap.String("title", values[FieldTitle]))
	return nil
}

// attachPhoto streams the photo into the multipart body under a randomized
// filename, keeping the original extension the way the server stores uploads.
func attachPhoto(w *multipart.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("report: open photo: %w", err)
	}
	defer f.Close()

	name := uuid.New().String() + strings.ToLower(filepath.Ext(path))
	part, err := w.CreateFormFile(FieldPhoto, name)
	if err != nil {
		return fmt.Errorf("report: create photo part: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return fmt.Errorf("report: copy photo: %w", err)
	}
	return nil
}
