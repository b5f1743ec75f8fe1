package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"catalog/scraper/internal/config"
	"catalog/scraper/internal/proxy"

	log "github.com/sirupsen/logrus"
	"resty.dev/v3"
)

// ErrPageUnavailable is returned once a page has exhausted its attempt budget.
var ErrPageUnavailable = errors.New("page unavailable")

type PageFetcher interface {
	FetchPage(ctx context.Context, url string) (string, error)
}

type pageFetcher struct {
	httpClient    *resty.Client
	proxySupplier proxy.ProxySupplier
	maxAttempts   int
	retryDelay    time.Duration
}

// NewHTTPClient builds the session shared by every request of a run.
// Retries stay disabled here; the fetcher owns the attempt budget.
func NewHTTPClient(cfg config.CatalogConfig) *resty.Client {
	return resty.New().
		SetTimeout(cfg.Timeout).
		SetRetryCount(0).
		SetHeader("User-Agent", cfg.UserAgent).
		SetHeader("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8").
		SetHeader("Accept-Language", "en-US,en;q=0.5")
}

func NewPageFetcher(httpClient *resty.Client, cfg config.CatalogConfig, proxySupplier proxy.ProxySupplier) PageFetcher {
	if proxySupplier != nil {
		if proxyURL := proxySupplier.Get(); proxyURL != "" {
			httpClient.SetProxy(proxyURL)
			log.Infof("🔗 Using initial proxy: %s", proxyURL)
		}
	}

	return &pageFetcher{
		httpClient:    httpClient,
		proxySupplier: proxySupplier,
		maxAttempts:   cfg.MaxAttempts,
		retryDelay:    cfg.RetryDelay,
	}
}

func (f *pageFetcher) FetchPage(ctx context.Context, url string) (string, error) {
	for attempt := 1; attempt <= f.maxAttempts; attempt++ {
		html, err := f.fetchHTML(ctx, url)
		if err == nil {
			return html, nil
		}

		if ctx.Err() != nil {
			return "", fmt.Errorf("request cancelled: %w", ctx.Err())
		}

		log.Warnf("⚠️ Network error. Retry %d/%d: %v", attempt, f.maxAttempts, err)

		if attempt == f.maxAttempts {
			break
		}

		f.rotateProxy()

		select {
		case <-time.After(f.retryDelay):
		case <-ctx.Done():
			return "", fmt.Errorf("request cancelled: %w", ctx.Err())
		}
	}

	return "", fmt.Errorf("%w after %d attempts", ErrPageUnavailable, f.maxAttempts)
}

func (f *pageFetcher) rotateProxy() {
	if f.proxySupplier == nil {
		return
	}
	if newProxy := f.proxySupplier.Get(); newProxy != "" {
		log.Infof("🔄 Switching to new proxy: %s", newProxy)
		f.httpClient.SetProxy(newProxy)
	}
}

func (f *pageFetcher) fetchHTML(ctx context.Context, url string) (string, error) {
	resp, err := f.httpClient.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return "", fmt.Errorf("failed to fetch URL: %w", err)
	}

	if resp.IsError() {
		return "", fmt.Errorf("HTTP error: %d %s", resp.StatusCode(), resp.Status())
	}

	return resp.String(), nil
}
