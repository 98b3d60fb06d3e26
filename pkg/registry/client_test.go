package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajxudir/nupdate/pkg/errors"
)

func indexServer(t *testing.T, versions map[string][]string, hook func(r *http.Request)) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hook != nil {
			hook(r)
		}
		parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
		require.Len(t, parts, 2)
		require.Equal(t, "index.json", parts[1])

		known, ok := versions[parts[0]]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string][]string{"versions": known})
	}))
	t.Cleanup(server.Close)
	return server
}

// TestGetAllVersions tests the Client.GetAllVersions method.
//
// It verifies that:
//   - The index is queried at {source}/{lowercased-id}/index.json
//   - Versions come back in index order
//   - A 404 yields an empty, non-error result
//   - A server error yields a NetworkError
//   - A cancelled context reports the context's error
func TestGetAllVersions(t *testing.T) {
	t.Run("basic query lowercases the id", func(t *testing.T) {
		var requested string
		server := indexServer(t, map[string][]string{
			"newtonsoft.json": {"12.0.3", "13.0.1", "13.0.3"},
		}, func(r *http.Request) { requested = r.URL.Path })

		client := NewClient(server.URL, NewPool(2), 0)
		versions, err := client.GetAllVersions(context.Background(), "Newtonsoft.Json", false)
		require.NoError(t, err)
		assert.Equal(t, []string{"12.0.3", "13.0.1", "13.0.3"}, versions)
		assert.Equal(t, "/newtonsoft.json/index.json", requested)
	})

	t.Run("unknown package is empty not error", func(t *testing.T) {
		server := indexServer(t, nil, nil)

		client := NewClient(server.URL, NewPool(2), 0)
		versions, err := client.GetAllVersions(context.Background(), "No.Such.Package", false)
		require.NoError(t, err)
		assert.Empty(t, versions)
		assert.NotNil(t, versions)
	})

	t.Run("server error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		t.Cleanup(server.Close)

		client := NewClient(server.URL, NewPool(2), 0)
		_, err := client.GetAllVersions(context.Background(), "Serilog", false)
		require.Error(t, err)
		netErr, ok := errors.IsNetworkError(err)
		require.True(t, ok)
		assert.Equal(t, "Serilog", netErr.Package)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		server := indexServer(t, nil, nil)
		client := NewClient(server.URL, NewPool(2), 0)
		_, err := client.GetAllVersions(ctx, "Serilog", false)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("empty package id", func(t *testing.T) {
		client := NewClient("http://unused", NewPool(1), 0)
		_, err := client.GetAllVersions(context.Background(), "  ", false)
		assert.Error(t, err)
	})
}

// TestClientCache tests the response cache behavior of GetAllVersions.
//
// It verifies that:
//   - A fresh cache entry short-circuits the network
//   - Bypass forces a refetch
//   - Entries expire after the TTL
func TestClientCache(t *testing.T) {
	var hits atomic.Int32
	server := indexServer(t, map[string][]string{
		"serilog": {"2.10.0", "2.12.0"},
	}, func(r *http.Request) { hits.Add(1) })

	base := time.Now()
	timeNowFunc = func() time.Time { return base }
	t.Cleanup(func() { timeNowFunc = time.Now })

	client := NewClient(server.URL, NewPool(2), 10*time.Minute)
	ctx := context.Background()

	_, err := client.GetAllVersions(ctx, "Serilog", false)
	require.NoError(t, err)
	_, err = client.GetAllVersions(ctx, "Serilog", false)
	require.NoError(t, err)
	assert.Equal(t, int32(1), hits.Load(), "second call should hit the cache")

	_, err = client.GetAllVersions(ctx, "Serilog", true)
	require.NoError(t, err)
	assert.Equal(t, int32(2), hits.Load(), "bypass should refetch")

	timeNowFunc = func() time.Time { return base.Add(11 * time.Minute) }
	_, err = client.GetAllVersions(ctx, "Serilog", false)
	require.NoError(t, err)
	assert.Equal(t, int32(3), hits.Load(), "expired entry should refetch")
}

// TestPoolBound tests that the permit pool bounds in-flight requests.
//
// It verifies that:
//   - With a pool of capacity 5, twenty concurrent queries never exceed
//     five simultaneous requests at the server
//   - Every query completes successfully
func TestPoolBound(t *testing.T) {
	const capacity = 5
	const queries = 20

	var inFlight, peak atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		now := inFlight.Add(1)
		defer inFlight.Add(-1)
		for {
			old := peak.Load()
			if now <= old || peak.CompareAndSwap(old, now) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		_ = json.NewEncoder(w).Encode(map[string][]string{"versions": {"1.0.0"}})
	}))
	t.Cleanup(server.Close)

	client := NewClient(server.URL, NewPool(capacity), 0)

	var wg sync.WaitGroup
	errs := make([]error, queries)
	for i := 0; i < queries; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = client.GetAllVersions(context.Background(), fmt.Sprintf("Package.%d", i), false)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "query %d", i)
	}
	assert.LessOrEqual(t, peak.Load(), int32(capacity))
	assert.Positive(t, peak.Load())
}

// TestNewPool tests the NewPool function.
//
// It verifies that:
//   - Capacity below one is raised to one
//   - Acquire blocks at capacity until Release
func TestNewPool(t *testing.T) {
	assert.Equal(t, 1, NewPool(0).Capacity())
	assert.Equal(t, 1, NewPool(-5).Capacity())
	assert.Equal(t, 7, NewPool(7).Capacity())

	pool := NewPool(1)
	require.NoError(t, pool.Acquire(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.Error(t, pool.Acquire(ctx), "second acquire should block until timeout")

	pool.Release()
	require.NoError(t, pool.Acquire(context.Background()))
	pool.Release()
}
