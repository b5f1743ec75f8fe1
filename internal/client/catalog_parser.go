package client

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"catalog/scraper/internal/domain"

	"github.com/PuerkitoBio/goquery"
	log "github.com/sirupsen/logrus"
)

// ErrMalformedRow means a listing row lacks an element every row must carry.
var ErrMalformedRow = errors.New("malformed catalog row")

const (
	rowSelector         = "tr[data-entity-id]"
	entityIDAttr        = "data-entity-id"
	titleLinkSelector   = "td.custom__table-heading__title a"
	generalCellSelector = "td.custom__table-heading__general"
	positiveSelector    = ".-yes"
	keySelector         = ".product-catalogue__key"
	nextPageSelector    = "li.pagination__item.-next a"
)

type CatalogParser struct {
	baseURL *url.URL
}

func NewCatalogParser(baseURL string) (*CatalogParser, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}
	if !u.IsAbs() {
		return nil, fmt.Errorf("base URL %q is not absolute", baseURL)
	}

	return &CatalogParser{
		baseURL: u,
	}, nil
}

// ParseCatalogPage extracts every listing row of one page. A page without
// rows yields an empty Records slice and no error.
func (p *CatalogParser) ParseCatalogPage(html string, offset int) (*domain.CatalogPage, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	page := &domain.CatalogPage{
		Offset:  offset,
		Records: make([]domain.Record, 0),
	}

	var rowErr error
	doc.Find(rowSelector).EachWithBreak(func(i int, row *goquery.Selection) bool {
		record, err := p.ExtractRow(row)
		if err != nil {
			rowErr = fmt.Errorf("row %d: %w", i, err)
			return false
		}
		page.Records = append(page.Records, record)
		return true
	})
	if rowErr != nil {
		return nil, rowErr
	}

	page.HasNext = doc.Find(nextPageSelector).Length() > 0

	log.Debugf("Parsed page start=%d with %d rows (next=%t)", offset, len(page.Records), page.HasNext)
	return page, nil
}

// ExtractRow maps one listing row to a record.
func (p *CatalogParser) ExtractRow(row *goquery.Selection) (domain.Record, error) {
	entityID, _ := row.Attr(entityIDAttr)

	titleLink := row.Find(titleLinkSelector).First()
	if titleLink.Length() == 0 {
		return domain.Record{}, fmt.Errorf("%w: entity %q has no title link", ErrMalformedRow, entityID)
	}

	name := strings.TrimSpace(titleLink.Text())
	if name == "" {
		return domain.Record{}, fmt.Errorf("%w: entity %q has an empty title", ErrMalformedRow, entityID)
	}

	href, exists := titleLink.Attr("href")
	if !exists {
		return domain.Record{}, fmt.Errorf("%w: entity %q title link has no href", ErrMalformedRow, entityID)
	}
	link, err := p.resolve(href)
	if err != nil {
		return domain.Record{}, fmt.Errorf("%w: entity %q: %v", ErrMalformedRow, entityID, err)
	}

	cols := row.Find(generalCellSelector)
	if cols.Length() < 2 {
		return domain.Record{}, fmt.Errorf("%w: entity %q has %d general cells, want 2", ErrMalformedRow, entityID, cols.Length())
	}

	testTypes := make([]string, 0)
	row.Find(keySelector).Each(func(i int, tag *goquery.Selection) {
		testTypes = append(testTypes, strings.TrimSpace(tag.Text()))
	})

	return domain.Record{
		EntityID:      entityID,
		Name:          name,
		URL:           link,
		RemoteTesting: cols.Eq(0).Find(positiveSelector).Length() > 0,
		AdaptiveIRT:   cols.Eq(1).Find(positiveSelector).Length() > 0,
		TestTypes:     testTypes,
	}, nil
}

func (p *CatalogParser) resolve(href string) (string, error) {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", fmt.Errorf("invalid href %q: %w", href, err)
	}

	abs := p.baseURL.ResolveReference(ref)
	if !abs.IsAbs() || abs.Host == "" {
		return "", fmt.Errorf("href %q does not resolve to an absolute URL", href)
	}
	return abs.String(), nil
}
