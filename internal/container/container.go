package container

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"catalog/scraper/internal/client"
	"catalog/scraper/internal/config"
	"catalog/scraper/internal/domain"
	"catalog/scraper/internal/proxy"
	"catalog/scraper/internal/repository"
	"catalog/scraper/internal/service"

	log "github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"
	"resty.dev/v3"
)

// Container holds all initialized components
type Container struct {
	Config     *config.Config
	Fetcher    client.PageFetcher
	Walker     *service.CatalogWalker
	Repository repository.RecordRepository

	// Report receives the per-page table after a run; nil disables it.
	Report io.Writer

	httpClient *resty.Client
}

// New creates a new container with all dependencies initialized
func New(ctx context.Context, cfg *config.Config) (*Container, error) {
	container := &Container{
		Config: cfg,
		Report: os.Stdout,
	}

	var proxySupplier proxy.ProxySupplier
	if len(cfg.Catalog.Proxies) > 0 {
		proxySupplier = proxy.NewProxySupplier(ctx, cfg.Catalog.Proxies, cfg.Catalog.BaseURL)
		if proxySupplier.Len() == 0 {
			log.Warn("⚠️ No configured proxy is reachable, using a direct connection")
		}
	}

	httpClient := client.NewHTTPClient(cfg.Catalog)
	container.httpClient = httpClient

	fetcher := client.NewPageFetcher(httpClient, cfg.Catalog, proxySupplier)
	container.Fetcher = fetcher

	parser, err := client.NewCatalogParser(cfg.Catalog.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize catalog parser: %w", err)
	}

	container.Walker = service.NewCatalogWalker(
		fetcher,
		parser,
		newPacer(cfg.Catalog),
		cfg.Catalog.CatalogURL(),
		cfg.Catalog.Type,
		cfg.Catalog.PageSize,
	)

	container.Repository = repository.NewMultiRepository(
		repository.NewJSONRepository(filepath.Join(cfg.Output.Dir, cfg.Output.JSONFile)),
		repository.NewCSVRepository(filepath.Join(cfg.Output.Dir, cfg.Output.CSVFile)),
	)

	return container, nil
}

func newPacer(cfg config.CatalogConfig) ratelimit.Limiter {
	if cfg.PageDelay <= 0 {
		return ratelimit.NewUnlimited()
	}
	return ratelimit.New(1, ratelimit.Per(cfg.PageDelay), ratelimit.WithoutSlack)
}

// Run walks the whole catalog and then persists every record.
func (c *Container) Run(ctx context.Context) (*domain.WalkResult, error) {
	result, err := c.Walker.Walk(ctx)
	if err != nil {
		return nil, fmt.Errorf("catalog walk failed: %w", err)
	}

	if err := c.Repository.Save(ctx, result.Records); err != nil {
		return nil, fmt.Errorf("failed to save records: %w", err)
	}

	if c.Report != nil {
		service.RenderReport(c.Report, result)
	}

	return result, nil
}

// Close performs cleanup when shutting down
func (c *Container) Close() error {
	if c.httpClient != nil {
		return c.httpClient.Close()
	}
	return nil
}
