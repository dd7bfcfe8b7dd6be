// Package storage implements the upload blob store. The disk
// implementation writes files under a public uploads directory and
// returns the URI the HTTP layer serves them from.
package storage

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"pawhaven/internal/models"

	// Register decoders used for upload sniffing.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

const maxUploadBytes = 10 * 1024 * 1024

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9.-]`)

// Store saves uploaded files and yields their public URIs.
type Store interface {
	Save(file *multipart.FileHeader) (string, error)
}

// Disk is a Store backed by the local filesystem.
type Disk struct {
	Root       string // filesystem directory files are written to
	PublicBase string // URI prefix files are served from, e.g. "/uploads"
}

// NewDisk creates the upload directory if needed and returns a Disk store.
func NewDisk(root, publicBase string) (*Disk, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir %s: %w", root, err)
	}
	return &Disk{Root: root, PublicBase: strings.TrimSuffix(publicBase, "/")}, nil
}

// Save validates and persists one uploaded file, returning its public URI.
// Only image content is accepted; the file bytes are sniffed rather
// than trusting the client-supplied content type.
func (d *Disk) Save(file *multipart.FileHeader) (string, error) {
	if file.Size > maxUploadBytes {
		return "", models.NewValidationError("File too large (max 10MB)")
	}

	src, err := file.Open()
	if err != nil {
		return "", models.NewValidationError("Unable to read uploaded file")
	}
	defer func() { _ = src.Close() }()

	content, err := io.ReadAll(src)
	if err != nil {
		return "", models.NewValidationError("Unable to read uploaded file")
	}

	if _, _, err := image.DecodeConfig(bytes.NewReader(content)); err != nil {
		return "", models.NewValidationError("Invalid file type")
	}

	name := fmt.Sprintf("%d_%s", time.Now().UnixNano(), sanitizeFilename(file.Filename))
	if err := os.WriteFile(filepath.Join(d.Root, name), content, 0o644); err != nil {
		return "", models.NewInternalError(err)
	}

	return d.PublicBase + "/" + name, nil
}

func sanitizeFilename(name string) string {
	base := filepath.Base(name)
	safe := unsafeChars.ReplaceAllString(base, "_")
	if safe == "" || safe == "." {
		safe = "upload"
	}
	return safe
}
