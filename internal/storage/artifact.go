package storage

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/Dreadfxl/imagensd-api/internal/worker"
)

// PublicPrefix is the URL prefix under which persisted artifacts are served.
const PublicPrefix = "/uploads"

var dataURIPrefix = regexp.MustCompile(`^data:image/\w+;base64,`)

// SaveEncodedImage decodes a base64 image payload (with or without a
// data-URI prefix) and writes it into dir, creating the directory on first
// use. It returns the public relative path for database storage. filename
// is optional; a collision-resistant name is generated when empty.
func SaveEncodedImage(dir, data, filename string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(dataURIPrefix.ReplaceAllString(data, ""))
	if err != nil {
		return "", fmt.Errorf("SaveEncodedImage: decode: %w", err)
	}

	if filename == "" {
		filename = generateFilename()
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("SaveEncodedImage: mkdir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, filename), raw, 0o644); err != nil {
		return "", fmt.Errorf("SaveEncodedImage: write: %w", err)
	}

	return PublicPrefix + "/" + filename, nil
}

// SaveEncodedImages persists a batch concurrently. The returned paths keep
// the input order; any single failure fails the whole batch.
func SaveEncodedImages(dir string, data []string) ([]string, error) {
	paths := make([]string, len(data))
	errs := make([]error, len(data))

	p := worker.NewPool(len(data))
	for i, img := range data {
		i, img := i, img
		p.Submit(func() {
			paths[i], errs[i] = SaveEncodedImage(dir, img, "")
		})
	}
	p.Stop()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return paths, nil
}

func generateFilename() string {
	suffix := make([]byte, 4)
	rand.Read(suffix)
	return fmt.Sprintf("%d-%s.png", time.Now().UnixMilli(), hex.EncodeToString(suffix))
}
