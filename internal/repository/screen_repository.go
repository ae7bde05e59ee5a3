package repository

import (
	"context"
	"image"
	"net/url"
	"path"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	apperrors "go-a11y-inspector/internal/errors"
	"go-a11y-inspector/internal/factory"
	"go-a11y-inspector/internal/logger"
)

// storageScreenRepository implements ScreenRepository on top of the storage
// factory, so each URL resolves to its own backend.
type storageScreenRepository struct {
	storage factory.StorageFactory
	log     *logrus.Entry
}

// NewScreenRepository creates a repository backed by the given storage
// factory.
func NewScreenRepository(storage factory.StorageFactory) ScreenRepository {
	return &storageScreenRepository{
		storage: storage,
		log:     logger.ForComponent("screen_repository"),
	}
}

// FetchScreen downloads the screenshot and layout document concurrently.
// The first failure wins; the other download is abandoned to its own
// context handling.
func (r *storageScreenRepository) FetchScreen(ctx context.Context, imageURL, xmlURL string) (*ScreenSnapshot, error) {
	if imageURL == "" || xmlURL == "" {
		return nil, apperrors.NewValidationError("image and XML URLs are required", ErrInvalidContentURL)
	}

	imageFetcher, err := r.storage.FetcherFor(imageURL)
	if err != nil {
		return nil, apperrors.NewValidationError("unsupported image URL", err)
	}
	xmlFetcher, err := r.storage.FetcherFor(xmlURL)
	if err != nil {
		return nil, apperrors.NewValidationError("unsupported XML URL", err)
	}

	var (
		wg        sync.WaitGroup
		img       image.Image
		layoutXML string
		imgErr    error
		xmlErr    error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		img, imgErr = imageFetcher.FetchImage(ctx, imageURL)
	}()
	go func() {
		defer wg.Done()
		layoutXML, xmlErr = xmlFetcher.FetchText(ctx, xmlURL)
	}()
	wg.Wait()

	if imgErr != nil {
		r.log.WithFields(logrus.Fields{"url": imageURL, "error": imgErr}).Warn("screenshot fetch failed")
		return nil, apperrors.NewNetworkError("failed to fetch screenshot", imgErr)
	}
	if xmlErr != nil {
		r.log.WithFields(logrus.Fields{"url": xmlURL, "error": xmlErr}).Warn("layout fetch failed")
		return nil, apperrors.NewNetworkError("failed to fetch layout XML", xmlErr)
	}

	return &ScreenSnapshot{
		Name:      screenName(imageURL),
		Image:     img,
		LayoutXML: layoutXML,
		ImageURL:  imageURL,
		XMLURL:    xmlURL,
	}, nil
}

// screenName derives an artifact-friendly name from the image URL: the base
// file name without extension, falling back to "screen".
func screenName(imageURL string) string {
	raw := imageURL
	if parsed, err := url.Parse(imageURL); err == nil && parsed.Path != "" {
		raw = parsed.Path
	}
	base := path.Base(raw)
	base = strings.TrimSuffix(base, path.Ext(base))
	if base == "" || base == "." || base == "/" {
		return "screen"
	}
	return base
}
