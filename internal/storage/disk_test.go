package storage

import (
	"bytes"
	"image"
	"image/png"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pawhaven/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fileHeader builds an in-memory multipart file with the given content.
func fileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("photos", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })

	files := form.File["photos"]
	require.Len(t, files, 1)
	return files[0]
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 1, 1))))
	return buf.Bytes()
}

func TestDiskSave(t *testing.T) {
	store, err := NewDisk(t.TempDir(), "/uploads/")
	require.NoError(t, err)

	uri, err := store.Save(fileHeader(t, "biscuit.png", pngBytes(t)))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(uri, "/uploads/"), "got %q", uri)
	assert.True(t, strings.HasSuffix(uri, "_biscuit.png"), "got %q", uri)

	onDisk := filepath.Join(store.Root, strings.TrimPrefix(uri, "/uploads/"))
	data, err := os.ReadFile(onDisk)
	require.NoError(t, err)
	assert.Equal(t, pngBytes(t), data)
}

func TestDiskSave_RejectsNonImage(t *testing.T) {
	store, err := NewDisk(t.TempDir(), "/uploads")
	require.NoError(t, err)

	_, err = store.Save(fileHeader(t, "malware.png", []byte("#!/bin/sh\necho pwned")))
	require.Error(t, err)
	assert.Equal(t, 400, models.StatusOf(err))
}

func TestDiskSave_SanitizesFilename(t *testing.T) {
	store, err := NewDisk(t.TempDir(), "/uploads")
	require.NoError(t, err)

	uri, err := store.Save(fileHeader(t, "../../etc/my photo!.png", pngBytes(t)))
	require.NoError(t, err)
	assert.NotContains(t, uri, "..")
	assert.True(t, strings.HasSuffix(uri, "_my_photo_.png"), "got %q", uri)
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"biscuit.png", "biscuit.png"},
		{"../../etc/passwd", "passwd"},
		{"my photo!.png", "my_photo_.png"},
		{"", "upload"},
		{".", "upload"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeFilename(tt.in))
		})
	}
}
