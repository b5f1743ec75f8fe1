package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"catalog/scraper/internal/client"
	"catalog/scraper/internal/domain"

	log "github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"
)

type CatalogWalker struct {
	fetcher    client.PageFetcher
	parser     *client.CatalogParser
	pacer      ratelimit.Limiter
	catalogURL string
	filterType string
	pageSize   int
}

func NewCatalogWalker(
	fetcher client.PageFetcher,
	parser *client.CatalogParser,
	pacer ratelimit.Limiter,
	catalogURL string,
	filterType string,
	pageSize int,
) *CatalogWalker {
	return &CatalogWalker{
		fetcher:    fetcher,
		parser:     parser,
		pacer:      pacer,
		catalogURL: catalogURL,
		filterType: filterType,
		pageSize:   pageSize,
	}
}

// Walk visits offsets 0, pageSize, 2*pageSize... until a page has no rows
// or no next-page control. Pages that cannot be fetched are skipped and the
// offset still advances.
func (w *CatalogWalker) Walk(ctx context.Context) (*domain.WalkResult, error) {
	result := &domain.WalkResult{
		Records: make(domain.ResultSet, 0),
		Pages:   make([]domain.PageSummary, 0),
	}

	for offset := 0; ; offset += w.pageSize {
		pageURL, err := w.pageURL(offset)
		if err != nil {
			return nil, err
		}

		w.pacer.Take()

		log.Infof("🔄 Scraping page start=%d", offset)

		html, err := w.fetcher.FetchPage(ctx, pageURL)
		if err != nil {
			if errors.Is(err, client.ErrPageUnavailable) {
				log.Warnf("⏭️ Skipping page start=%d due to repeated failure", offset)
				result.Pages = append(result.Pages, domain.PageSummary{Offset: offset, Status: domain.PageStatusSkipped})
				continue
			}
			return nil, fmt.Errorf("failed to fetch page start=%d: %w", offset, err)
		}

		page, err := w.parser.ParseCatalogPage(html, offset)
		if err != nil {
			return nil, fmt.Errorf("failed to parse page start=%d: %w", offset, err)
		}

		if len(page.Records) == 0 {
			log.Infof("🏁 No rows at start=%d, catalog exhausted", offset)
			result.Pages = append(result.Pages, domain.PageSummary{Offset: offset, Status: domain.PageStatusEmpty})
			break
		}

		result.Records = append(result.Records, page.Records...)
		result.Pages = append(result.Pages, domain.PageSummary{
			Offset: offset,
			Status: domain.PageStatusFetched,
			Rows:   len(page.Records),
		})

		if !page.HasNext {
			log.Infof("🏁 No next page after start=%d", offset)
			break
		}
	}

	log.Infof("✅ Walk finished: %d records from %d pages (%d skipped)",
		len(result.Records), len(result.Pages), result.SkippedPages())

	return result, nil
}

func (w *CatalogWalker) pageURL(offset int) (string, error) {
	u, err := url.Parse(w.catalogURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse catalog URL: %w", err)
	}

	q := u.Query()
	q.Set("start", strconv.Itoa(offset))
	q.Set("type", w.filterType)
	u.RawQuery = q.Encode()

	return u.String(), nil
}
