package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

// Asset fetch sources, reported alongside fetched bytes.
const (
	SourceRemote = "remote"
	SourceLocal  = "local"
)

// ReleaseAsset is one published file of a data release.
type ReleaseAsset struct {
	Name        string `json:"name"`
	DownloadURL string `json:"browser_download_url"`
}

type releaseMetadata struct {
	TagName string         `json:"tag_name"`
	Assets  []ReleaseAsset `json:"assets"`
}

// ReleaseClient resolves asset filenames against a release registry.
// The release metadata is fetched once per process; a failed fetch is
// cached as unavailable and not retried until the next process start.
type ReleaseClient struct {
	*BaseClient
	registryURL string
	tag         string

	mu      sync.Mutex
	fetched bool
	meta    *releaseMetadata
}

func NewReleaseClient(registryURL, tag string, config ClientConfig, logger *zap.Logger) *ReleaseClient {
	return &ReleaseClient{
		BaseClient:  NewBaseClient("release-registry", config, logger),
		registryURL: registryURL,
		tag:         tag,
	}
}

// Resolve looks up filename among the release's published assets and
// returns its download URL. A missing release or asset yields ok=false;
// resolution failures are logged, never returned as errors.
func (c *ReleaseClient) Resolve(ctx context.Context, filename string) (string, bool) {
	meta := c.metadata(ctx)
	if meta == nil {
		return "", false
	}

	for _, asset := range meta.Assets {
		if asset.Name == filename {
			return asset.DownloadURL, true
		}
	}

	c.logger.Warn("Asset not found in release",
		zap.String("tag", c.tag),
		zap.String("filename", filename))
	return "", false
}

func (c *ReleaseClient) metadata(ctx context.Context) *releaseMetadata {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.fetched {
		return c.meta
	}
	c.fetched = true

	url := fmt.Sprintf("%s/releases/tags/%s", c.registryURL, c.tag)
	body, err := c.GetWithRetry(ctx, url)
	if err != nil {
		c.logger.Warn("Release metadata unavailable",
			zap.String("url", url),
			zap.Error(err))
		return nil
	}

	var meta releaseMetadata
	if err := json.Unmarshal(body, &meta); err != nil {
		c.logger.Warn("Release metadata unreadable",
			zap.String("url", url),
			zap.Error(err))
		return nil
	}

	c.meta = &meta
	c.logger.Info("Release metadata loaded",
		zap.String("tag", c.tag),
		zap.Int("assets", len(meta.Assets)))
	return c.meta
}

// AssetError is the terminal failure of a fetch after both the remote
// and local attempts. URL and Status describe the last remote attempt,
// when one was made.
type AssetError struct {
	Filename  string
	URL       string
	Status    int
	LocalPath string
	Err       error
}

func (e *AssetError) Error() string {
	if e.URL != "" {
		return fmt.Sprintf("asset %s unavailable: remote %s (HTTP %d), local %s: %v",
			e.Filename, e.URL, e.Status, e.LocalPath, e.Err)
	}
	return fmt.Sprintf("asset %s unavailable: not in release, local %s: %v",
		e.Filename, e.LocalPath, e.Err)
}

func (e *AssetError) Unwrap() error { return e.Err }

// AssetFetcher retrieves release assets with a local-directory fallback:
// remote resolution and download first, then the same filename under
// the local data dir.
type AssetFetcher struct {
	releases *ReleaseClient
	localDir string
	logger   *zap.Logger
}

func NewAssetFetcher(releases *ReleaseClient, localDir string, logger *zap.Logger) *AssetFetcher {
	return &AssetFetcher{
		releases: releases,
		localDir: localDir,
		logger:   logger,
	}
}

// Fetch returns the asset bytes and which source served them. Remote
// failures fall back to the local path; only the failure of both is an
// error.
func (f *AssetFetcher) Fetch(ctx context.Context, filename string) ([]byte, string, error) {
	var remoteURL string
	var remoteStatus int

	if url, ok := f.releases.Resolve(ctx, filename); ok {
		data, err := f.releases.GetWithRetry(ctx, url)
		if err == nil {
			return data, SourceRemote, nil
		}

		remoteURL = url
		var statusErr *StatusError
		if errors.As(err, &statusErr) {
			remoteStatus = statusErr.Status
		}
		f.logger.Warn("Remote asset fetch failed, trying local fallback",
			zap.String("filename", filename),
			zap.String("url", url),
			zap.Error(err))
	}

	localPath := filepath.Join(f.localDir, filename)
	data, err := os.ReadFile(localPath)
	if err == nil {
		f.logger.Debug("Asset served from local fallback",
			zap.String("filename", filename),
			zap.String("path", localPath))
		return data, SourceLocal, nil
	}

	return nil, "", &AssetError{
		Filename:  filename,
		URL:       remoteURL,
		Status:    remoteStatus,
		LocalPath: localPath,
		Err:       err,
	}
}
