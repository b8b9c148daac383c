package storage

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSaveEncodedImage(t *testing.T) {
	payload := []byte("not really a png but close enough")
	encoded := base64.StdEncoding.EncodeToString(payload)

	t.Run("round trip", func(t *testing.T) {
		dir := t.TempDir()
		path, err := SaveEncodedImage(dir, encoded, "")
		require.NoError(t, err)
		require.True(t, strings.HasPrefix(path, PublicPrefix+"/"))

		got, err := os.ReadFile(filepath.Join(dir, strings.TrimPrefix(path, PublicPrefix+"/")))
		require.NoError(t, err)
		require.Equal(t, payload, got)
	})

	t.Run("data URI prefix stripped", func(t *testing.T) {
		dir := t.TempDir()
		path, err := SaveEncodedImage(dir, "data:image/png;base64,"+encoded, "cat.png")
		require.NoError(t, err)
		require.Equal(t, PublicPrefix+"/cat.png", path)

		got, err := os.ReadFile(filepath.Join(dir, "cat.png"))
		require.NoError(t, err)
		require.Equal(t, payload, got)
	})

	t.Run("creates directory on first use", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested", "uploads")
		_, err := SaveEncodedImage(dir, encoded, "")
		require.NoError(t, err)
		_, err = os.Stat(dir)
		require.NoError(t, err)
	})

	t.Run("invalid base64", func(t *testing.T) {
		_, err := SaveEncodedImage(t.TempDir(), "%%%not-base64%%%", "")
		require.Error(t, err)
	})

	t.Run("unwritable directory", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "occupied")
		require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
		// dir path collides with an existing file, MkdirAll must fail
		_, err := SaveEncodedImage(file, encoded, "")
		require.Error(t, err)
	})
}

func TestSaveEncodedImages(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("img"))

	t.Run("batch keeps order", func(t *testing.T) {
		dir := t.TempDir()
		paths, err := SaveEncodedImages(dir, []string{payload, payload, payload})
		require.NoError(t, err)
		require.Len(t, paths, 3)
		seen := map[string]struct{}{}
		for _, p := range paths {
			require.True(t, strings.HasPrefix(p, PublicPrefix+"/"))
			seen[p] = struct{}{}
		}
		require.Len(t, seen, 3, "generated names must not collide")
	})

	t.Run("single failure fails the batch", func(t *testing.T) {
		_, err := SaveEncodedImages(t.TempDir(), []string{payload, "%%%bad%%%"})
		require.Error(t, err)
	})

	t.Run("empty batch", func(t *testing.T) {
		paths, err := SaveEncodedImages(t.TempDir(), nil)
		require.NoError(t, err)
		require.Empty(t, paths)
	})
}
