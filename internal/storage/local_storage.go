package storage

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalContentFetcher implements ContentFetcher over the local filesystem.
// URLs may be plain paths or file:// URLs.
type LocalContentFetcher struct{}

// NewLocalContentFetcher creates a filesystem content fetcher.
func NewLocalContentFetcher() *LocalContentFetcher {
	return &LocalContentFetcher{}
}

// FetchImage decodes the screenshot at the given path.
func (l *LocalContentFetcher) FetchImage(ctx context.Context, imageURL string) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(localPath(imageURL))
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// FetchText reads the layout XML file at the given path.
func (l *LocalContentFetcher) FetchText(ctx context.Context, textURL string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := os.ReadFile(localPath(textURL))
	if err != nil {
		return "", fmt.Errorf("failed to read document file: %w", err)
	}
	return string(data), nil
}

func localPath(url string) string {
	return strings.TrimPrefix(url, "file://")
}

// LocalArtifactStore writes artifacts to a directory on disk.
type LocalArtifactStore struct {
	dir string
}

// NewLocalArtifactStore creates an artifact store rooted at dir, creating
// the directory if needed.
func NewLocalArtifactStore(dir string) (*LocalArtifactStore, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create artifact directory: %w", err)
	}
	return &LocalArtifactStore{dir: dir}, nil
}

// SaveArtifact writes content to <dir>/<name> and returns the file path.
func (s *LocalArtifactStore) SaveArtifact(ctx context.Context, name string, content io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	// name comes from URL-derived input; keep only the base component so
	// artifacts cannot escape the configured directory.
	path := filepath.Join(s.dir, filepath.Base(name))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create artifact file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, content); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to write artifact: %w", err)
	}
	return path, nil
}
