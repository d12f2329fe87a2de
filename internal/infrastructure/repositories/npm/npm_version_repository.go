package npm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/sourcepatch/internal/domain/repositories"
	"github.com/rios0rios0/sourcepatch/internal/patcher"
)

const registryTimeout = 10 * time.Second

// NpmVersionRepository implements repositories.VersionRepository against an
// npm registry.
type NpmVersionRepository struct {
	client *http.Client
}

// NewNpmVersionRepository creates a new registry client. The caller bounds
// each lookup through its context; the client timeout is a backstop.
func NewNpmVersionRepository() repositories.VersionRepository {
	return &NpmVersionRepository{client: &http.Client{Timeout: registryTimeout}}
}

// packument is the subset of the registry document this client reads.
type packument struct {
	Versions map[string]json.RawMessage `json:"versions"`
}

func (r *NpmVersionRepository) HighestVersion(
	ctx context.Context,
	query repositories.VersionQuery,
) (string, bool) {
	versions, err := r.fetchVersions(ctx, query.Registry, query.Package)
	if err != nil {
		logger.Warnf("[registry] Failed to fetch %s versions: %v", query.Package, err)
		return "", false
	}

	version, found := patcher.HighestMajorVersion(versions, query.Major)
	if !found {
		logger.Debugf("[registry] No %s release matches %d.x.x", query.Package, query.Major)
	}
	return version, found
}

func (r *NpmVersionRepository) fetchVersions(ctx context.Context, registry, name string) ([]string, error) {
	endpoint := strings.TrimSuffix(registry, "/") + "/" + url.PathEscape(name)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var document packument
	if decodeErr := json.NewDecoder(resp.Body).Decode(&document); decodeErr != nil {
		return nil, fmt.Errorf("failed to parse registry response: %w", decodeErr)
	}

	versions := make([]string, 0, len(document.Versions))
	for version := range document.Versions {
		versions = append(versions, version)
	}
	return versions, nil
}
