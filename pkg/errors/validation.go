package errors

import (
	"net/url"
	"strings"
	"unicode"
)

// maxSourceLength bounds report source strings (paths and URLs).
const maxSourceLength = 2048

// ValidateSource checks a report source before it is opened or fetched.
//
// The rules are conservative:
//   - No empty sources
//   - No null bytes or control characters
//   - Anything with a "://" scheme separator must be an http(s) URL
//   - Maximum length of 2048 characters
//
// "-" (stdin) and plain file paths pass.
func ValidateSource(source string) error {
	if source == "" {
		return New(ErrCodeInvalidInput, "report source cannot be empty")
	}
	if len(source) > maxSourceLength {
		return New(ErrCodeInvalidInput, "report source too long (max %d characters)", maxSourceLength)
	}
	for _, r := range source {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "report source contains invalid characters")
		}
	}
	if strings.Contains(source, "://") {
		return ValidateURL(source)
	}
	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https) and a host.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return Wrap(ErrCodeInvalidInput, err, "parse URL")
	}
	if u.Host == "" {
		return New(ErrCodeInvalidInput, "URL %q has no host", rawURL)
	}
	return nil
}
