// Package factory selects storage backends for content URLs and artifact
// output.
package factory

import (
	"fmt"
	"net/url"
	"strings"

	"go-a11y-inspector/internal/config"
	"go-a11y-inspector/internal/storage"
)

// StorageType represents different types of storage backends
type StorageType string

const (
	// HTTPStorage fetches content over HTTP(S)
	HTTPStorage StorageType = "http"
	// AzureStorage fetches content from Azure blob storage
	AzureStorage StorageType = "azure"
	// LocalStorage fetches content from the local file system
	LocalStorage StorageType = "local"
)

// StorageFactory creates content fetchers and artifact stores.
type StorageFactory interface {
	// FetcherFor returns the content fetcher appropriate for the given URL.
	FetcherFor(contentURL string) (storage.ContentFetcher, error)
	// ArtifactStore returns the store marked-up screenshots are written to.
	ArtifactStore() (storage.ArtifactStore, error)
}

type storageFactory struct {
	cfg   *config.Config
	http  *storage.HTTPContentFetcher
	local *storage.LocalContentFetcher
	azure *storage.AzureStorage
}

// NewStorageFactory creates a storage factory. The Azure backend is only
// available when credentials are configured.
func NewStorageFactory(cfg *config.Config) (StorageFactory, error) {
	f := &storageFactory{
		cfg:   cfg,
		http:  storage.NewHTTPContentFetcher(cfg.ContentFetchTimeout),
		local: storage.NewLocalContentFetcher(),
	}

	if cfg.AzureEnabled() {
		azure, err := storage.NewAzureStorage(cfg.AzureAccountName, cfg.AzureAccountKey, cfg.AzureArtifactContainer)
		if err != nil {
			return nil, fmt.Errorf("configuring azure storage: %w", err)
		}
		f.azure = azure
	}

	return f, nil
}

// FetcherFor resolves the backend from the URL scheme: blob-storage hosts go
// to Azure when configured, http(s) to the HTTP fetcher, and file:// or bare
// paths to the local filesystem.
func (f *storageFactory) FetcherFor(contentURL string) (storage.ContentFetcher, error) {
	switch storageTypeFor(contentURL) {
	case AzureStorage:
		if f.azure == nil {
			// Blob URLs are still plain HTTPS; fall back when no
			// credentials are configured.
			return f.http, nil
		}
		return f.azure, nil
	case HTTPStorage:
		return f.http, nil
	case LocalStorage:
		return f.local, nil
	default:
		return nil, fmt.Errorf("unsupported content URL: %s", contentURL)
	}
}

// ArtifactStore prefers Azure when configured, otherwise writes to the
// configured local directory.
func (f *storageFactory) ArtifactStore() (storage.ArtifactStore, error) {
	if f.azure != nil {
		return f.azure, nil
	}
	return storage.NewLocalArtifactStore(f.cfg.MarkedOutputDir)
}

func storageTypeFor(contentURL string) StorageType {
	parsed, err := url.Parse(contentURL)
	if err != nil || parsed.Scheme == "" || parsed.Scheme == "file" {
		return LocalStorage
	}
	if strings.HasSuffix(parsed.Host, ".blob.core.windows.net") {
		return AzureStorage
	}
	if parsed.Scheme == "http" || parsed.Scheme == "https" {
		return HTTPStorage
	}
	// Single-letter schemes are Windows drive prefixes, not real schemes.
	if len(parsed.Scheme) == 1 {
		return LocalStorage
	}
	return StorageType(parsed.Scheme)
}
