package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"golang.org/x/sync/singleflight"

	"github.com/ajxudir/nupdate/pkg/errors"
	"github.com/ajxudir/nupdate/pkg/verbose"
)

// newHTTPClientFunc is a variable that holds the HTTP client constructor.
// This allows for transport injection during testing.
var newHTTPClientFunc = cleanhttp.DefaultPooledClient

// indexResponse mirrors the flat-container index document:
// {"versions": ["1.0.0", "1.1.0-beta1", ...]}.
type indexResponse struct {
	Versions []string `json:"versions"`
}

// Client queries a NuGet v3 flat-container index for package versions.
//
// Every query acquires one permit from the injected pool before issuing the
// network request and releases it on all exit paths. Responses are served
// from a short-lived cache unless bypass is requested; concurrent cache
// misses for the same id are deduplicated through singleflight.
type Client struct {
	source string
	http   *http.Client
	pool   *Pool
	cache  *versionCache
	group  singleflight.Group
}

// NewClient creates a Client for the given index source.
//
// Parameters:
//   - source: Base URL of the flat-container index (no trailing slash required)
//   - pool: The permit pool bounding simultaneous queries
//   - ttl: Cache lifetime for index responses; zero disables caching
//
// Returns:
//   - *Client: The initialized client
func NewClient(source string, pool *Pool, ttl time.Duration) *Client {
	return &Client{
		source: strings.TrimRight(source, "/"),
		http:   newHTTPClientFunc(),
		pool:   pool,
		cache:  newVersionCache(ttl),
	}
}

// GetAllVersions returns all known versions of a package id, stable and
// prerelease together, in the order the index reports them.
//
// It performs the following operations:
//   - Serves from the response cache when fresh and bypass is not requested
//   - Deduplicates concurrent fetches of the same id via singleflight
//   - Acquires one pool permit around the network request, released on all
//     exit paths including errors and cancellation
//   - Treats an HTTP 404 (unknown package id) as an empty, non-error result
//   - Stores fresh responses back into the cache
//
// Parameters:
//   - ctx: Cancellation signal; aborts the permit wait and the request
//   - packageID: The package id to query
//   - bypassCache: Whether to skip the cache read for this call
//
// Returns:
//   - []string: All known versions; empty for unknown package ids
//   - error: A *errors.NetworkError on transport or server failure, the
//     context's error on cancellation; returns nil on success
func (c *Client) GetAllVersions(ctx context.Context, packageID string, bypassCache bool) ([]string, error) {
	key := strings.ToLower(strings.TrimSpace(packageID))
	if key == "" {
		return nil, errors.NewNetworkError(packageID, c.source, fmt.Errorf("empty package id"))
	}

	if !bypassCache {
		if versions, ok := c.cache.get(key); ok {
			verbose.Tracef("Cache hit for %s (%d versions)", packageID, len(versions))
			return versions, nil
		}
	}

	result, err, shared := c.group.Do(key, func() (any, error) {
		return c.fetch(ctx, packageID, key)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		verbose.Tracef("Deduplicated concurrent query for %s", packageID)
	}

	return result.([]string), nil
}

// fetch performs the actual index request for a package id.
//
// Parameters:
//   - ctx: Cancellation signal
//   - packageID: The package id as given (for error reporting)
//   - key: The lowercased cache key
//
// Returns:
//   - []string: The versions reported by the index
//   - error: A *errors.NetworkError or the context's cancellation error
func (c *Client) fetch(ctx context.Context, packageID, key string) ([]string, error) {
	url := fmt.Sprintf("%s/%s/index.json", c.source, key)

	if err := c.pool.Acquire(ctx); err != nil {
		return nil, err
	}
	defer c.pool.Release()

	verbose.Debugf("Querying index for %s", packageID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.NewNetworkError(packageID, url, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.NewNetworkError(packageID, url, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	// An unknown package id is a valid, empty outcome rather than an error.
	if resp.StatusCode == http.StatusNotFound {
		verbose.Debugf("Package %s unknown to index (404)", packageID)
		return []string{}, nil
	}

	if resp.StatusCode != http.StatusOK {
		return nil, errors.NewNetworkError(packageID, url,
			fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var index indexResponse
	if err := json.NewDecoder(resp.Body).Decode(&index); err != nil {
		return nil, errors.NewNetworkError(packageID, url, err)
	}

	versions := index.Versions
	if versions == nil {
		versions = []string{}
	}

	c.cache.put(key, versions)
	verbose.Debugf("Index reports %d versions for %s", len(versions), packageID)

	return versions, nil
}
