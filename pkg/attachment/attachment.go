// Package attachment validates and previews the photo bound to a report
// before anything leaves the machine. Only type and size are checked; the
// bytes are never transformed.
package attachment

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	// Register the decoders for the allowed photo formats.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// MaxSizeBytes is the largest accepted photo (16 MiB).
const MaxSizeBytes = 16 * 1024 * 1024

// AllowedTypes are the accepted photo MIME types.
var AllowedTypes = []string{"image/jpeg", "image/jpg", "image/png", "image/gif"}

var extensionTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
}

// Candidate describes a selected file between selection and validation
// outcome. It is never persisted anywhere.
type Candidate struct {
	Path        string
	MIMEType    string
	SizeBytes   int64
	DisplayName string
}

// SizeMiB reports the candidate size in MiB.
func (c Candidate) SizeMiB() float64 {
	return float64(c.SizeBytes) / (1024 * 1024)
}

// Caption renders the name-and-size line shown under a preview.
func (c Candidate) Caption() string {
	return fmt.Sprintf("%s (%.2f MiB)", c.DisplayName, c.SizeMiB())
}

// Inspect stats the selected file and derives its MIME type from the
// extension, the same way the server decides what it will accept.
func Inspect(path string) (Candidate, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Candidate{}, fmt.Errorf("attachment: stat: %w", err)
	}
	if info.IsDir() {
		return Candidate{}, fmt.Errorf("attachment: %s is a directory", path)
	}
	ext := strings.ToLower(filepath.Ext(path))
	return Candidate{
		Path:        path,
		MIMEType:    extensionTypes[ext],
		SizeBytes:   info.Size(),
		DisplayName: filepath.Base(path),
	}, nil
}

// Validate returns the ordered violations for a candidate; empty means valid.
// Both rules are checked independently, so an oversized file of the wrong
// type reports two violations.
func Validate(c Candidate) []string {
	var violations []string
	if !allowedType(c.MIMEType) {
		violations = append(violations,
			fmt.Sprintf("Unsupported file type %q. Use a JPEG, PNG, or GIF image.", c.DisplayName))
	}
	if c.SizeBytes > MaxSizeBytes {
		violations = append(violations,
			fmt.Sprintf("File is too large (%.2f MiB). The limit is 16 MiB.", c.SizeMiB()))
	}
	return violations
}

func allowedType(mimeType string) bool {
	for _, t := range AllowedTypes {
		if t == mimeType {
			return true
		}
	}
	return false
}

// Preview is the rendered outcome of reading a candidate.
type Preview struct {
	Candidate Candidate
	Width     int
	Height    int
}

// Render reads and decodes the file behind a candidate. It blocks, so the UI
// runs it off the update loop and applies the result by token.
func Render(c Candidate) (Preview, error) {
	f, err := os.Open(c.Path)
	if err != nil {
		return Preview{}, fmt.Errorf("attachment: open: %w", err)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return Preview{}, fmt.Errorf("attachment: decode %s: %w", c.DisplayName, err)
	}
	return Preview{Candidate: c, Width: cfg.Width, Height: cfg.Height}, nil
}
