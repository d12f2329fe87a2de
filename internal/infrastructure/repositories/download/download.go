package download

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// DefaultTimeout bounds a whole asset download.
const DefaultTimeout = 5 * time.Minute

// ToFile copies body into destination and returns the sha256 of the bytes
// written as a lowercase hex string.
func ToFile(body io.Reader, destination string) (string, error) {
	file, err := os.Create(destination)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", destination, err)
	}
	defer file.Close()

	hash := sha256.New()
	if _, err = io.Copy(io.MultiWriter(file, hash), body); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", destination, err)
	}
	if err = file.Close(); err != nil {
		return "", fmt.Errorf("failed to close %s: %w", destination, err)
	}
	return hex.EncodeToString(hash.Sum(nil)), nil
}

// FromURL fetches rawURL into destination. Headers are added to the request
// as given.
func FromURL(
	ctx context.Context,
	client *http.Client,
	rawURL, destination string,
	headers map[string]string,
) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d fetching %s", resp.StatusCode, rawURL)
	}
	return ToFile(resp.Body, destination)
}
