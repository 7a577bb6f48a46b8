package client

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testClientConfig() ClientConfig {
	return ClientConfig{
		Timeout:        2 * time.Second,
		MaxRetries:     0,
		RetryDelay:     time.Millisecond,
		Multiplier:     2,
		Threshold:      3,
		BreakerTimeout: time.Second,
	}
}

// newRegistryServer serves release metadata and asset downloads. assets
// maps filename -> body.
func newRegistryServer(t *testing.T, tag string, assets map[string]string, metadataHits *atomic.Int64) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	var server *httptest.Server

	mux.HandleFunc("/releases/tags/"+tag, func(w http.ResponseWriter, r *http.Request) {
		if metadataHits != nil {
			metadataHits.Add(1)
		}
		fmt.Fprint(w, `{"tag_name": "`+tag+`", "assets": [`)
		first := true
		for name := range assets {
			if !first {
				fmt.Fprint(w, ",")
			}
			first = false
			fmt.Fprintf(w, `{"name": %q, "browser_download_url": %q}`, name, server.URL+"/download/"+name)
		}
		fmt.Fprint(w, `]}`)
	})
	mux.HandleFunc("/download/", func(w http.ResponseWriter, r *http.Request) {
		name := filepath.Base(r.URL.Path)
		body, ok := assets[name]
		if !ok {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, body)
	})

	server = httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestReleaseClient_ResolveHitAndMiss(t *testing.T) {
	server := newRegistryServer(t, "data-latest", map[string]string{"a.csv": "x"}, nil)
	releases := NewReleaseClient(server.URL, "data-latest", testClientConfig(), zap.NewNop())

	url, ok := releases.Resolve(context.Background(), "a.csv")
	require.True(t, ok)
	assert.Equal(t, server.URL+"/download/a.csv", url)

	_, ok = releases.Resolve(context.Background(), "missing.csv")
	assert.False(t, ok)
}

func TestReleaseClient_MetadataFetchedOnce(t *testing.T) {
	var hits atomic.Int64
	server := newRegistryServer(t, "data-latest", map[string]string{"a.csv": "x", "b.csv": "y"}, &hits)
	releases := NewReleaseClient(server.URL, "data-latest", testClientConfig(), zap.NewNop())

	releases.Resolve(context.Background(), "a.csv")
	releases.Resolve(context.Background(), "b.csv")
	releases.Resolve(context.Background(), "missing.csv")

	assert.Equal(t, int64(1), hits.Load())
}

func TestReleaseClient_FailedMetadataCachedAsUnavailable(t *testing.T) {
	var hits atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	releases := NewReleaseClient(server.URL, "data-latest", testClientConfig(), zap.NewNop())

	_, ok := releases.Resolve(context.Background(), "a.csv")
	assert.False(t, ok)
	_, ok = releases.Resolve(context.Background(), "a.csv")
	assert.False(t, ok)

	assert.Equal(t, int64(1), hits.Load(), "metadata failure must not be retried per call")
}

func TestAssetFetcher_RemoteFirst(t *testing.T) {
	server := newRegistryServer(t, "data-latest", map[string]string{"a.csv": "remote-body"}, nil)
	releases := NewReleaseClient(server.URL, "data-latest", testClientConfig(), zap.NewNop())

	localDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(localDir, "a.csv"), []byte("local-body"), 0o644))

	fetcher := NewAssetFetcher(releases, localDir, zap.NewNop())
	data, source, err := fetcher.Fetch(context.Background(), "a.csv")

	require.NoError(t, err)
	assert.Equal(t, SourceRemote, source)
	assert.Equal(t, "remote-body", string(data))
}

func TestAssetFetcher_LocalFallbackOnUnresolvedAsset(t *testing.T) {
	server := newRegistryServer(t, "data-latest", map[string]string{}, nil)
	releases := NewReleaseClient(server.URL, "data-latest", testClientConfig(), zap.NewNop())

	localDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(localDir, "a.csv"), []byte("local-body"), 0o644))

	fetcher := NewAssetFetcher(releases, localDir, zap.NewNop())
	data, source, err := fetcher.Fetch(context.Background(), "a.csv")

	require.NoError(t, err)
	assert.Equal(t, SourceLocal, source)
	assert.Equal(t, "local-body", string(data))
}

func TestAssetFetcher_LocalFallbackOnDownloadFailure(t *testing.T) {
	mux := http.NewServeMux()
	var server *httptest.Server
	mux.HandleFunc("/releases/tags/data-latest", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"assets": [{"name": "a.csv", "browser_download_url": %q}]}`, server.URL+"/download/a.csv")
	})
	mux.HandleFunc("/download/a.csv", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	server = httptest.NewServer(mux)
	t.Cleanup(server.Close)

	releases := NewReleaseClient(server.URL, "data-latest", testClientConfig(), zap.NewNop())
	localDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(localDir, "a.csv"), []byte("local-body"), 0o644))

	fetcher := NewAssetFetcher(releases, localDir, zap.NewNop())
	data, source, err := fetcher.Fetch(context.Background(), "a.csv")

	require.NoError(t, err)
	assert.Equal(t, SourceLocal, source)
	assert.Equal(t, "local-body", string(data))
}

func TestAssetFetcher_BothSourcesFailing(t *testing.T) {
	mux := http.NewServeMux()
	var server *httptest.Server
	mux.HandleFunc("/releases/tags/data-latest", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"assets": [{"name": "a.csv", "browser_download_url": %q}]}`, server.URL+"/download/a.csv")
	})
	mux.HandleFunc("/download/a.csv", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	server = httptest.NewServer(mux)
	t.Cleanup(server.Close)

	releases := NewReleaseClient(server.URL, "data-latest", testClientConfig(), zap.NewNop())
	fetcher := NewAssetFetcher(releases, t.TempDir(), zap.NewNop())

	_, _, err := fetcher.Fetch(context.Background(), "a.csv")
	require.Error(t, err)

	var assetErr *AssetError
	require.ErrorAs(t, err, &assetErr)
	assert.Equal(t, "a.csv", assetErr.Filename)
	assert.Equal(t, server.URL+"/download/a.csv", assetErr.URL)
	assert.Equal(t, http.StatusNotFound, assetErr.Status)
	assert.Contains(t, err.Error(), "a.csv")
}
