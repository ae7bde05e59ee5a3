// Package validation checks request inputs and report outputs against the
// rules the service promises its callers.
package validation

import (
	"net/url"
	"strings"

	apperrors "go-a11y-inspector/internal/errors"
)

// URLValidator handles content URL validation logic.
type URLValidator struct {
	allowedSchemes []string
	allowedHosts   []string
	allowLocal     bool
}

// NewURLValidator creates a URL validator accepting http(s) URLs and local
// file paths.
func NewURLValidator() *URLValidator {
	return &URLValidator{
		allowedSchemes: []string{"http", "https"},
		allowedHosts:   []string{}, // empty means all hosts allowed
		allowLocal:     true,
	}
}

// NewURLValidatorWithOptions creates a URL validator with custom options.
func NewURLValidatorWithOptions(schemes, hosts []string, allowLocal bool) *URLValidator {
	return &URLValidator{
		allowedSchemes: schemes,
		allowedHosts:   hosts,
		allowLocal:     allowLocal,
	}
}

// ValidateContentURL validates a screenshot or layout XML location. Both
// remote URLs and, when enabled, file:// URLs or bare paths are accepted.
func (v *URLValidator) ValidateContentURL(contentURL string) error {
	if strings.TrimSpace(contentURL) == "" {
		return apperrors.NewValidationError("URL cannot be empty", nil)
	}

	parsedURL, err := url.Parse(contentURL)
	if err != nil {
		return apperrors.NewValidationError("Invalid URL format", err)
	}

	if parsedURL.Scheme == "" || parsedURL.Scheme == "file" {
		if !v.allowLocal {
			return apperrors.NewValidationError("Local paths not allowed", nil)
		}
		return nil
	}

	if !v.isSchemeAllowed(parsedURL.Scheme) {
		return apperrors.NewValidationError("URL scheme not allowed", nil)
	}

	if parsedURL.Host == "" {
		return apperrors.NewValidationError("URL must have a valid host", nil)
	}

	if len(v.allowedHosts) > 0 && !v.isHostAllowed(parsedURL.Host) {
		return apperrors.NewValidationError("URL host not allowed", nil)
	}

	return nil
}

// isSchemeAllowed checks if the URL scheme is in the allowed list
func (v *URLValidator) isSchemeAllowed(scheme string) bool {
	for _, allowed := range v.allowedSchemes {
		if scheme == allowed {
			return true
		}
	}
	return false
}

// isHostAllowed checks if the URL host is in the allowed list
// Returns true if no host restrictions are set (empty allowedHosts)
func (v *URLValidator) isHostAllowed(host string) bool {
	if len(v.allowedHosts) == 0 {
		return true
	}
	for _, allowed := range v.allowedHosts {
		if host == allowed {
			return true
		}
	}
	return false
}
