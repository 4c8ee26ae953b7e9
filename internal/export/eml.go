// Package export saves a message's raw RFC 822 source to disk and
// summarizes its MIME structure.
package export

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/emersion/go-message/mail"
)

// Part describes one MIME part of a message source.
type Part struct {
	Filename    string
	ContentType string
	Size        int64
	Inline      bool
}

// Write stores the raw source as <dir>/<id>.eml and returns the path.
func Write(dir, id string, raw []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating export directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, sanitizeFilename(id)+".eml")
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

// Parts parses the raw source with go-message and lists its MIME parts.
// An unparseable body is reported as a single opaque text part rather
// than an error, since the bytes were still exported verbatim.
func Parts(raw []byte) []Part {
	mr, err := mail.CreateReader(bytes.NewReader(raw))
	if err != nil {
		return []Part{{ContentType: "text/plain", Size: int64(len(raw)), Inline: true}}
	}
	defer mr.Close()

	var parts []Part
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			break
		}

		switch h := part.Header.(type) {
		case *mail.InlineHeader:
			contentType, _, _ := h.ContentType()
			body, readErr := io.ReadAll(part.Body)
			if readErr != nil {
				continue
			}
			parts = append(parts, Part{
				ContentType: contentType,
				Size:        int64(len(body)),
				Inline:      true,
			})

		case *mail.AttachmentHeader:
			filename, _ := h.Filename()
			contentType, _, _ := h.ContentType()
			body, readErr := io.ReadAll(part.Body)
			if readErr != nil {
				continue
			}
			parts = append(parts, Part{
				Filename:    filename,
				ContentType: contentType,
				Size:        int64(len(body)),
			})
		}
	}

	return parts
}

// sanitizeFilename keeps the id filesystem-safe.
func sanitizeFilename(id string) string {
	var b strings.Builder
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '-', r == '_', r == '.':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "message"
	}
	return b.String()
}
