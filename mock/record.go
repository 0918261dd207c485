package mock

import (
	"context"

	"github.com/fwojciec/sitelinks"
)

var _ sitelinks.CrawlRecordService = (*CrawlRecordService)(nil)

// CrawlRecordService is a mock implementation of sitelinks.CrawlRecordService.
type CrawlRecordService struct {
	CreateCrawlRecordFn   func(ctx context.Context, rec *sitelinks.CrawlRecord) error
	FindCrawlRecordByIDFn func(ctx context.Context, id string) (*sitelinks.CrawlRecord, error)
	FindCrawlRecordsFn    func(ctx context.Context, filter sitelinks.CrawlRecordFilter) ([]*sitelinks.CrawlRecord, error)
}

func (s *CrawlRecordService) CreateCrawlRecord(ctx context.Context, rec *sitelinks.CrawlRecord) error {
	return s.CreateCrawlRecordFn(ctx, rec)
}

func (s *CrawlRecordService) FindCrawlRecordByID(ctx context.Context, id string) (*sitelinks.CrawlRecord, error) {
	return s.FindCrawlRecordByIDFn(ctx, id)
}

func (s *CrawlRecordService) FindCrawlRecords(ctx context.Context, filter sitelinks.CrawlRecordFilter) ([]*sitelinks.CrawlRecord, error) {
	return s.FindCrawlRecordsFn(ctx, filter)
}
