package mock

import (
	"context"

	"github.com/fwojciec/sitelinks"
)

var _ sitelinks.CrawlService = (*CrawlService)(nil)

// CrawlService is a mock implementation of sitelinks.CrawlService.
type CrawlService struct {
	CrawlFn func(ctx context.Context, seed string) (*sitelinks.Crawl, error)
}

func (s *CrawlService) Crawl(ctx context.Context, seed string) (*sitelinks.Crawl, error) {
	return s.CrawlFn(ctx, seed)
}
