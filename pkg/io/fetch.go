package io

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/matzehuels/sunburst/pkg/buildinfo"
	"github.com/matzehuels/sunburst/pkg/cache"
	"github.com/matzehuels/sunburst/pkg/errors"
	"github.com/matzehuels/sunburst/pkg/observability"
)

// Stdin is the source name that reads the report from standard input.
const Stdin = "-"

// maxReportSize caps how much of a report is read from any source.
var maxReportSize = 32 << 20

// NewHTTPClient returns the client used for report fetches.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: 10 * time.Second}
}

// Fetcher loads raw reports. The zero value reads files and stdin, fetches
// URLs with a default client and caches nothing.
type Fetcher struct {
	// Client performs HTTP fetches. Nil means NewHTTPClient().
	Client *http.Client
	// Cache keeps fetched URL bodies for TTL. Nil disables it.
	Cache cache.Cache
	Keyer cache.Keyer
	// TTL defaults to cache.ReportTTL.
	TTL time.Duration
	// Backoff controls retries of transient HTTP failures.
	Backoff cache.Backoff
	// Stdin replaces os.Stdin for the "-" source.
	Stdin io.Reader
}

// IsURL reports whether source names an http(s) URL.
func IsURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// Fetch returns the raw report named by source: "-" for stdin, an http(s)
// URL, or a file path. With refresh set the cache is bypassed.
func (f *Fetcher) Fetch(ctx context.Context, source string, refresh bool) ([]byte, error) {
	if err := errors.ValidateSource(source); err != nil {
		return nil, err
	}
	switch {
	case source == Stdin:
		in := f.Stdin
		if in == nil {
			in = os.Stdin
		}
		return readLimited(in)
	case IsURL(source):
		return f.fetchURL(ctx, source, refresh)
	default:
		file, err := os.Open(source)
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", source)
		}
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", source, err)
		}
		defer file.Close()
		return readLimited(file)
	}
}

func (f *Fetcher) fetchURL(ctx context.Context, source string, refresh bool) ([]byte, error) {
	var key string
	if f.Cache != nil {
		keyer := f.Keyer
		if keyer == nil {
			keyer = cache.NewDefaultKeyer()
		}
		key = keyer.ReportKey(source)
		if !refresh {
			if data, hit, _ := f.Cache.Get(ctx, key); hit {
				observability.Cache().OnCacheHit(ctx, "report")
				return data, nil
			}
			observability.Cache().OnCacheMiss(ctx, "report")
		}
	}

	backoff := f.Backoff
	if backoff.Attempts == 0 {
		backoff = cache.DefaultBackoff
	}

	var data []byte
	err := backoff.Retry(ctx, func() error {
		var err error
		data, err = f.get(ctx, source)
		return err
	})
	if err != nil {
		return nil, err
	}

	if f.Cache != nil {
		ttl := f.TTL
		if ttl <= 0 {
			ttl = cache.ReportTTL
		}
		if err := f.Cache.Set(ctx, key, data, ttl); err == nil {
			observability.Cache().OnCacheSet(ctx, "report", len(data))
		}
	}
	return data, nil
}

func (f *Fetcher) get(ctx context.Context, source string) ([]byte, error) {
	u, err := url.Parse(source)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse source url")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", buildinfo.UserAgent())

	client := f.Client
	if client == nil {
		client = NewHTTPClient()
	}

	hooks := observability.HTTP()
	hooks.OnRequest(ctx, req.Method, u.Host, u.Path)
	start := time.Now()

	resp, err := client.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, u.Host, u.Path, err)
		if ctx.Err() != nil {
			return nil, errors.Wrap(errors.ErrCodeTimeout, err, "fetch %s", source)
		}
		return nil, cache.Retryable(errors.Wrap(errors.ErrCodeNetwork, err, "fetch %s", source))
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, u.Host, u.Path, resp.StatusCode, time.Since(start))

	if err := checkStatus(source, resp.StatusCode); err != nil {
		return nil, err
	}
	return readLimited(resp.Body)
}

func checkStatus(source string, code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return errors.New(errors.ErrCodeNotFound, "fetch %s: status %d", source, code)
	case code == http.StatusTooManyRequests || code >= 500:
		return cache.Retryable(errors.New(errors.ErrCodeNetwork, "fetch %s: status %d", source, code))
	default:
		return errors.New(errors.ErrCodeNetwork, "fetch %s: status %d", source, code)
	}
}

func readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, int64(maxReportSize)+1))
	if err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}
	if len(data) > maxReportSize {
		return nil, errors.New(errors.ErrCodeInvalidInput, "report exceeds %d bytes", maxReportSize)
	}
	return data, nil
}
