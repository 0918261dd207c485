package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/fwojciec/sitelinks"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ sitelinks.CrawlRecordService = (*CrawlRecordService)(nil)

// CrawlRecordService implements sitelinks.CrawlRecordService using SQLite.
type CrawlRecordService struct {
	db *DB
}

// NewCrawlRecordService creates a new CrawlRecordService.
func NewCrawlRecordService(db *DB) *CrawlRecordService {
	return &CrawlRecordService{db: db}
}

const crawlColumns = "id, seed, origin, links, unique_links, pages, fingerprint, error, started_at, finished_at"

// CreateCrawlRecord stores rec and assigns it a new ID.
func (s *CrawlRecordService) CreateCrawlRecord(ctx context.Context, rec *sitelinks.CrawlRecord) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	rec.ID = uuid.New().String()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO crawls (`+crawlColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.Seed, rec.Origin, rec.Links, rec.UniqueLinks, rec.Pages,
		rec.Fingerprint, rec.Error, formatTime(rec.StartedAt), formatTime(rec.FinishedAt))

	return err
}

// FindCrawlRecordByID retrieves a record by ID.
func (s *CrawlRecordService) FindCrawlRecordByID(ctx context.Context, id string) (*sitelinks.CrawlRecord, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+crawlColumns+` FROM crawls WHERE id = ?`, id)
	rec, err := scanCrawlRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sitelinks.Errorf(sitelinks.ENOTFOUND, "crawl record not found")
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// FindCrawlRecords retrieves records matching the filter, most recently
// started first. Records started at the same instant are ordered newest
// stored first.
func (s *CrawlRecordService) FindCrawlRecords(ctx context.Context, filter sitelinks.CrawlRecordFilter) ([]*sitelinks.CrawlRecord, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + crawlColumns + " FROM crawls WHERE 1=1")

	if filter.Seed != nil {
		query.WriteString(" AND seed = ?")
		args = append(args, *filter.Seed)
	}

	query.WriteString(" ORDER BY started_at DESC, rowid DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []*sitelinks.CrawlRecord{}
	for rows.Next() {
		rec, err := scanCrawlRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// scanner is implemented by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanCrawlRecord(row scanner) (*sitelinks.CrawlRecord, error) {
	var rec sitelinks.CrawlRecord
	var startedAt, finishedAt string

	if err := row.Scan(&rec.ID, &rec.Seed, &rec.Origin, &rec.Links, &rec.UniqueLinks, &rec.Pages,
		&rec.Fingerprint, &rec.Error, &startedAt, &finishedAt); err != nil {
		return nil, err
	}

	var err error
	if rec.StartedAt, err = parseTime(startedAt, "started_at"); err != nil {
		return nil, err
	}
	if rec.FinishedAt, err = parseTime(finishedAt, "finished_at"); err != nil {
		return nil, err
	}
	return &rec, nil
}
