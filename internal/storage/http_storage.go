package storage

import (
	"context"
	"crypto/tls"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"time"
)

// maxXMLBytes caps layout XML downloads. Real view hierarchies are tens of
// kilobytes; anything past this is a misdirected URL.
const maxXMLBytes = 8 << 20

// HTTPContentFetcher implements ContentFetcher over HTTP(S) with a transport
// tuned for one-shot downloads of a screenshot and its layout document.
type HTTPContentFetcher struct {
	client *http.Client
}

// NewHTTPContentFetcher creates an HTTP content fetcher.
func NewHTTPContentFetcher(timeout time.Duration) *HTTPContentFetcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	transport := &http.Transport{
		// Each request fetches at most two resources, usually from the same
		// host; a small idle pool is enough.
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     30 * time.Second,

		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,

		MaxResponseHeaderBytes: 4096,

		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: true,
		},
	}

	return &HTTPContentFetcher{
		client: &http.Client{
			Transport: transport,
			Timeout:   timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("too many redirects (limit: 3)")
				}
				return nil
			},
		},
	}
}

// FetchImage downloads and decodes the screenshot at imageURL.
func (h *HTTPContentFetcher) FetchImage(ctx context.Context, imageURL string) (image.Image, error) {
	body, err := h.fetch(ctx, imageURL, "image/jpeg, image/png, image/webp, */*")
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

// FetchText downloads the layout XML document at textURL.
func (h *HTTPContentFetcher) FetchText(ctx context.Context, textURL string) (string, error) {
	body, err := h.fetch(ctx, textURL, "application/xml, text/xml, text/plain, */*")
	if err != nil {
		return "", err
	}
	defer body.Close()

	data, err := io.ReadAll(io.LimitReader(body, maxXMLBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read document body: %w", err)
	}
	return string(data), nil
}

// fetch performs a GET with retry. Transient failures (network errors and
// 5xx) are retried up to three attempts with linear backoff; 4xx responses
// fail immediately.
func (h *HTTPContentFetcher) fetch(ctx context.Context, url, accept string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	req.Header.Set("Accept", accept)
	req.Header.Set("User-Agent", "A11y-Inspector/1.0")

	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(time.Duration(attempt) * time.Second):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		resp, err := h.client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			return resp.Body, nil
		case resp.StatusCode >= 400 && resp.StatusCode < 500:
			resp.Body.Close()
			return nil, fmt.Errorf("failed to fetch content: client error: status code %d", resp.StatusCode)
		default:
			resp.Body.Close()
			lastErr = fmt.Errorf("server error: status code %d", resp.StatusCode)
		}
	}

	return nil, fmt.Errorf("failed to fetch content after 3 attempts: %w", lastErr)
}
