package report

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestSubmitPostsMultipartFields(t *testing.T) {
	var gotValues map[string]string
	var gotPhotoName string
	var gotPhotoBytes []byte

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/submit-report" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
			return
		}
		gotValues = map[string]string{}
		for k, v := range r.MultipartForm.Value {
			if len(v) > 0 {
				gotValues[k] = v[0]
			}
		}
		if files := r.MultipartForm.File[FieldPhoto]; len(files) == 1 {
			gotPhotoName = files[0].Filename
			f, err := files[0].Open()
			if err == nil {
				buf := make([]byte, files[0].Size)
				f.Read(buf)
				f.Close()
				gotPhotoBytes = buf
			}
		}
	}))
	defer srv.Close()

	photo := filepath.Join(t.TempDir(), "evidence.jpg")
	if err := os.WriteFile(photo, []byte("jpeg-ish bytes"), 0o644); err != nil {
		t.Fatalf("write photo: %v", err)
	}

	values := Fields{
		FieldTitle:        "Dumping at the estuary",
		FieldDescription:  "Construction debris dumped across the seedling bed.",
		FieldIncidentType: "dumping",
		FieldSeverity:     "high",
		FieldIncidentDate: "2025-08-28",
		FieldLatitude:     "9.871944",
		FieldLongitude:    "76.274166",
	}

	s := NewHTTPSubmitter(srv.URL, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Submit(ctx, values, photo); err != nil {
		t.Fatalf("submit: %v", err)
	}

	for name, want := range values {
		if gotValues[name] != want {
			t.Fatalf("field %q: got %q want %q", name, gotValues[name], want)
		}
	}
	if gotPhotoName == "" || !strings.HasSuffix(gotPhotoName, ".jpg") {
		t.Fatalf("expected randomized .jpg filename, got %q", gotPhotoName)
	}
	if strings.HasPrefix(gotPhotoName, "evidence") {
		t.Fatalf("photo filename must not leak the local name, got %q", gotPhotoName)
	}
	if string(gotPhotoBytes) != "jpeg-ish bytes" {
		t.Fatalf("photo bytes did not round-trip")
	}
}

func TestSubmitWithoutPhotoOmitsPart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
			return
		}
		if len(r.MultipartForm.File) != 0 {
			t.Errorf("expected no file parts")
		}
	}))
	defer srv.Close()

	s := NewHTTPSubmitter(srv.URL, nil)
	err := s.Submit(context.Background(), Fields{FieldTitle: "t"}, "")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
}

func TestSubmitSurfacesServerRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	s := NewHTTPSubmitter(srv.URL, nil)
	if err := s.Submit(context.Background(), Fields{FieldTitle: "t"}, ""); err == nil {
		t.Fatalf("expected error on 500")
	}
}

func TestClientReportsDecodesAndFilters(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/reports" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`[
			{"id":1,"title":"Cutting","incident_type":"illegal_cutting","severity":"high","status":"pending","created_at":"2025-08-20T10:00:00Z","reporter":"asha"},
			{"id":2,"title":"Dump","incident_type":"dumping","severity":"low","status":"resolved","created_at":"2025-08-21T10:00:00Z","reporter":"ravi"}
		]`))
	}))
	defer srv.Close()

	reports, err := NewClient(srv.URL).Reports(context.Background())
	if err != nil {
		t.Fatalf("reports: %v", err)
	}
	if len(reports) != 2 || reports[0].Reporter != "asha" {
		t.Fatalf("unexpected reports: %+v", reports)
	}

	filtered := Filter(reports, "dumping", "")
	if len(filtered) != 1 || filtered[0].ID != 2 {
		t.Fatalf("unexpected filter result: %+v", filtered)
	}
	if got := Filter(reports, "dumping", "pending"); len(got) != 0 {
		t.Fatalf("expected no match for dumping+pending, got %+v", got)
	}
}
