package storage

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/url"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
)

// AzureStorage fetches content from and saves artifacts to Azure Blob
// Storage. It implements both ContentFetcher and ArtifactStore.
type AzureStorage struct {
	client            *azblob.Client
	accountName       string
	artifactContainer string
}

// NewAzureStorage creates an Azure-backed storage using shared key
// credentials. artifactContainer is the container marked-up screenshots are
// uploaded to.
func NewAzureStorage(accountName, accountKey, artifactContainer string) (*AzureStorage, error) {
	credential, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return nil, fmt.Errorf("invalid azure credentials: %w", err)
	}

	client, err := azblob.NewClientWithSharedKeyCredential(
		fmt.Sprintf("https://%s.blob.core.windows.net", accountName),
		credential,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create azure client: %w", err)
	}

	if artifactContainer == "" {
		artifactContainer = "a11y-artifacts"
	}

	return &AzureStorage{
		client:            client,
		accountName:       accountName,
		artifactContainer: artifactContainer,
	}, nil
}

// FetchImage downloads and decodes the screenshot blob at blobURL.
func (s *AzureStorage) FetchImage(ctx context.Context, blobURL string) (image.Image, error) {
	body, err := s.download(ctx, blobURL)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	img, _, err := image.Decode(body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// FetchText downloads the layout XML blob at blobURL.
func (s *AzureStorage) FetchText(ctx context.Context, blobURL string) (string, error) {
	body, err := s.download(ctx, blobURL)
	if err != nil {
		return "", err
	}
	defer body.Close()

	data, err := io.ReadAll(io.LimitReader(body, maxXMLBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read blob: %w", err)
	}
	return string(data), nil
}

// SaveArtifact uploads the artifact to the configured container and returns
// its blob URL.
func (s *AzureStorage) SaveArtifact(ctx context.Context, name string, content io.Reader) (string, error) {
	if _, err := s.client.UploadStream(ctx, s.artifactContainer, name, content, nil); err != nil {
		return "", fmt.Errorf("failed to upload artifact: %w", err)
	}
	return fmt.Sprintf("https://%s.blob.core.windows.net/%s/%s",
		s.accountName, s.artifactContainer, name), nil
}

func (s *AzureStorage) download(ctx context.Context, blobURL string) (io.ReadCloser, error) {
	container, blob, err := splitBlobURL(blobURL)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.DownloadStream(ctx, container, blob, nil)
	if err != nil {
		return nil, fmt.Errorf("download failed: %w", err)
	}
	return resp.Body, nil
}

// splitBlobURL extracts the container and blob names from a blob URL. Both
// the standard /container/path/to/blob form and the legacy /container?blob=
// form are accepted.
func splitBlobURL(blobURL string) (container, blob string, err error) {
	parsed, err := url.Parse(blobURL)
	if err != nil {
		return "", "", fmt.Errorf("invalid blob URL: %w", err)
	}

	path := strings.TrimPrefix(parsed.Path, "/")
	if legacy := parsed.Query().Get("blob"); legacy != "" {
		return path, legacy, nil
	}

	container, blob, found := strings.Cut(path, "/")
	if !found || container == "" || blob == "" {
		return "", "", fmt.Errorf("blob URL %q missing container or blob name", blobURL)
	}
	return container, blob, nil
}
