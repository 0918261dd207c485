package sitelinks

import (
	"context"
	"time"
)

// CrawlRecord summarizes one crawl request for the crawl history.
type CrawlRecord struct {
	ID          string    `json:"id"`
	Seed        string    `json:"seed"`
	Origin      string    `json:"origin"`
	Links       int       `json:"links"`
	UniqueLinks int       `json:"uniqueLinks"`
	Pages       int       `json:"pages"`
	Fingerprint string    `json:"fingerprint"`
	Error       string    `json:"error,omitempty"`
	StartedAt   time.Time `json:"startedAt"`
	FinishedAt  time.Time `json:"finishedAt"`
}

// NewCrawlRecord builds a record for a finished crawl request.
// When err is non-nil, crawl may be nil and the record captures the failure.
func NewCrawlRecord(seed string, crawl *Crawl, err error) *CrawlRecord {
	rec := &CrawlRecord{
		Seed:   seed,
		Origin: NormalizeOrigin(seed),
	}
	if err != nil {
		rec.Error = ErrorMessage(err)
		rec.FinishedAt = time.Now().UTC()
		rec.StartedAt = rec.FinishedAt
		return rec
	}
	rec.Origin = crawl.Origin
	rec.Links = crawl.LinkCount()
	rec.UniqueLinks = len(crawl.Unique())
	rec.Pages = crawl.Pages
	rec.Fingerprint = crawl.Fingerprint
	rec.StartedAt = crawl.StartedAt
	rec.FinishedAt = crawl.FinishedAt
	return rec
}

// Validate returns an error if the record contains invalid fields.
func (r *CrawlRecord) Validate() error {
	if r.Seed == "" {
		return Errorf(EINVALID, "crawl record seed required")
	}
	if r.UniqueLinks > r.Links {
		return Errorf(EINVALID, "crawl record has more unique links than links")
	}
	return nil
}

// CrawlRecordService represents a service for managing crawl history.
type CrawlRecordService interface {
	// CreateCrawlRecord stores a new record and assigns its ID.
	CreateCrawlRecord(ctx context.Context, rec *CrawlRecord) error

	// FindCrawlRecordByID retrieves a record by ID.
	// Returns ENOTFOUND if the record does not exist.
	FindCrawlRecordByID(ctx context.Context, id string) (*CrawlRecord, error)

	// FindCrawlRecords retrieves records matching the filter, newest first.
	FindCrawlRecords(ctx context.Context, filter CrawlRecordFilter) ([]*CrawlRecord, error)
}

// CrawlRecordFilter represents a filter for FindCrawlRecords.
type CrawlRecordFilter struct {
	Seed *string `json:"seed"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
