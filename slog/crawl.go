package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/sitelinks"
)

// Ensure LoggingCrawlService implements sitelinks.CrawlService.
var _ sitelinks.CrawlService = (*LoggingCrawlService)(nil)

// LoggingCrawlService wraps a CrawlService and logs each crawl.
type LoggingCrawlService struct {
	next   sitelinks.CrawlService
	logger *slog.Logger
}

// NewLoggingCrawlService creates a new LoggingCrawlService.
func NewLoggingCrawlService(next sitelinks.CrawlService, logger *slog.Logger) *LoggingCrawlService {
	return &LoggingCrawlService{next: next, logger: logger}
}

// Crawl delegates to the wrapped service and logs the outcome.
func (s *LoggingCrawlService) Crawl(ctx context.Context, seed string) (crawl *sitelinks.Crawl, err error) {
	defer func(begin time.Time) {
		attrs := []any{
			"seed", seed,
			"duration", time.Since(begin),
		}
		if crawl != nil {
			attrs = append(attrs,
				"links", crawl.LinkCount(),
				"pages", crawl.Pages,
				"fingerprint", crawl.Fingerprint,
			)
		}
		if err != nil {
			s.logger.Warn("crawl", append(attrs, "code", sitelinks.ErrorCode(err), "err", err)...)
			return
		}
		s.logger.Info("crawl", attrs...)
	}(time.Now())
	return s.next.Crawl(ctx, seed)
}
