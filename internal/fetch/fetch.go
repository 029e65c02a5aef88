// Package fetch retrieves the raw CSV export from the configured source.
// Policy lives here, not in the core pipeline: the fetcher walks an
// ordered list of candidate URLs and returns the first non-empty body, so
// the sheet's primary export URL can fail over to the gviz fallback
// without the rest of the system noticing.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const defaultTimeout = 15 * time.Second

// Fetcher retrieves CSV text from the first reachable candidate URL.
type Fetcher struct {
	urls   []string
	client *http.Client
}

// New creates a Fetcher over the given candidate URLs, tried in order.
func New(urls []string) *Fetcher {
	return &Fetcher{
		urls:   urls,
		client: &http.Client{Timeout: defaultTimeout},
	}
}

// Fetch returns the first candidate's CSV body. A non-200 status or an
// empty body fails that candidate and the next is tried; when every
// candidate fails the joined errors are returned so the caller can fall
// back to synthetic data.
func (f *Fetcher) Fetch(ctx context.Context) (string, error) {
	if len(f.urls) == 0 {
		return "", errors.New("fetch: no candidate urls configured")
	}

	var errs []error
	for i, url := range f.urls {
		text, err := f.fetchOne(ctx, url)
		if err != nil {
			slog.Warn("fetch: candidate failed", "candidate", i+1, "err", err)
			errs = append(errs, err)
			continue
		}
		slog.Debug("fetch: candidate succeeded", "candidate", i+1, "bytes", len(text))
		return text, nil
	}
	return "", fmt.Errorf("fetch: all %d candidates failed: %w", len(f.urls), errors.Join(errs...))
}

func (f *Fetcher) fetchOne(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "text/csv")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("http get: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	text := string(body)
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("empty csv body from %s", url)
	}
	return text, nil
}
