//go:build unit

package download_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/sourcepatch/internal/infrastructure/repositories/download"
)

// sha256 of "hello"
const helloSum = "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"

func TestToFile(t *testing.T) {
	t.Parallel()

	t.Run("should write the content and return its checksum", func(t *testing.T) {
		t.Parallel()

		// given
		destination := filepath.Join(t.TempDir(), "asset.deb")

		// when
		sum, err := download.ToFile(strings.NewReader("hello"), destination)

		// then
		require.NoError(t, err)
		assert.Equal(t, helloSum, sum)
		content, readErr := os.ReadFile(destination)
		require.NoError(t, readErr)
		assert.Equal(t, "hello", string(content))
	})

	t.Run("should fail when the destination cannot be created", func(t *testing.T) {
		t.Parallel()

		// given
		destination := filepath.Join(t.TempDir(), "missing", "asset.deb")

		// when
		_, err := download.ToFile(strings.NewReader("hello"), destination)

		// then
		require.Error(t, err)
	})
}

func TestFromURL(t *testing.T) {
	t.Parallel()

	t.Run("should send the headers and hash the body", func(t *testing.T) {
		t.Parallel()

		// given
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("PRIVATE-TOKEN") != "secret" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			_, _ = w.Write([]byte("hello"))
		}))
		defer server.Close()
		destination := filepath.Join(t.TempDir(), "asset.deb")

		// when
		sum, err := download.FromURL(context.Background(), server.Client(), server.URL, destination,
			map[string]string{"PRIVATE-TOKEN": "secret"})

		// then
		require.NoError(t, err)
		assert.Equal(t, helloSum, sum)
	})

	t.Run("should fail on a non-200 status", func(t *testing.T) {
		t.Parallel()

		// given
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()
		destination := filepath.Join(t.TempDir(), "asset.deb")

		// when
		_, err := download.FromURL(context.Background(), server.Client(), server.URL, destination, nil)

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "404")
	})
}
