// Package crawl implements site-scoped link traversal.
//
// A crawl fetches the seed page, extracts its hrefs and walks them in order.
// Site-root-relative hrefs are resolved against the origin and descended into
// immediately the first time they are seen, so the recorded link sequence is
// the depth-first pre-order of the site's link graph. All other hrefs are
// recorded where they were found and never fetched.
package crawl

import (
	"context"
	"time"

	"github.com/fwojciec/sitelinks"
	"github.com/fwojciec/sitelinks/bloom"
)

// Ensure Crawler implements sitelinks.CrawlService at compile time.
var _ sitelinks.CrawlService = (*Crawler)(nil)

// Visited-set sizing.
const (
	// DefaultExpectedPages sizes the visited-set Bloom filter when
	// Crawler.ExpectedPages is zero. Larger crawls stay correct; the
	// filter just screens fewer lookups.
	DefaultExpectedPages = 10000

	visitedFalsePositiveRate = 0.01
)

// Crawler walks a site one page at a time.
// A Crawler holds no per-crawl state and may serve concurrent crawls as long
// as its Fetcher is safe for concurrent use.
type Crawler struct {
	Fetcher   sitelinks.Fetcher
	Extractor sitelinks.LinkExtractor

	// ExpectedPages sizes the visited set for one crawl.
	ExpectedPages uint
}

// frame is a page whose hrefs are being walked. next is the index of the
// first href not yet processed.
type frame struct {
	hrefs []string
	next  int
}

// Crawl fetches seed and follows its site-root-relative links depth-first.
//
// The walk uses an explicit stack of frames instead of recursion: descending
// into a page pushes a frame, finishing its hrefs pops it and resumes the
// parent where it left off. This yields the same order as recursing at the
// point each link is processed, without tying graph size to goroutine stack.
//
// Any fetch failure aborts the crawl and no partial result is returned.
func (c *Crawler) Crawl(ctx context.Context, seed string) (*sitelinks.Crawl, error) {
	if err := sitelinks.ValidateSeed(seed); err != nil {
		return nil, err
	}

	result := &sitelinks.Crawl{
		Seed:      seed,
		Origin:    sitelinks.NormalizeOrigin(seed),
		Links:     []string{},
		StartedAt: time.Now().UTC(),
	}

	// The visited set starts empty: the seed string itself is never
	// inserted, so a root link that resolves back to it is fetched again.
	visited := bloom.NewSet(c.expectedPages(), visitedFalsePositiveRate)

	hrefs, err := c.visit(ctx, seed)
	if err != nil {
		return nil, err
	}
	result.Pages++

	stack := []*frame{{hrefs: hrefs}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		if top.next == len(top.hrefs) {
			stack = stack[:len(stack)-1]
			continue
		}
		href := top.hrefs[top.next]
		top.next++

		if !sitelinks.IsSiteRelative(href) {
			result.Links = append(result.Links, href)
			continue
		}

		absolute := result.Origin + href
		result.Links = append(result.Links, absolute)

		// Mark before descending so a page that links back to itself,
		// directly or through a cycle, is never fetched again.
		if !visited.Add(absolute) {
			continue
		}

		hrefs, err := c.visit(ctx, absolute)
		if err != nil {
			return nil, err
		}
		result.Pages++
		stack = append(stack, &frame{hrefs: hrefs})
	}

	result.Fingerprint = Fingerprint(result.Links)
	result.FinishedAt = time.Now().UTC()
	return result, nil
}

// visit fetches url and returns the hrefs found on it.
func (c *Crawler) visit(ctx context.Context, url string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, sitelinks.Wrapf(sitelinks.EFETCH, err, "fetch %s", url)
	}

	body, err := c.Fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, sitelinks.Wrapf(sitelinks.EFETCH, err, "fetch %s", url)
	}

	return c.Extractor.ExtractHrefs(body), nil
}

func (c *Crawler) expectedPages() uint {
	if c.ExpectedPages == 0 {
		return DefaultExpectedPages
	}
	return c.ExpectedPages
}
