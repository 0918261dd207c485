package sitelinks

import (
	"context"
	"net/url"
	"strings"
	"time"
)

// Crawl is the outcome of crawling a site from a seed URL.
type Crawl struct {
	// Seed is the URL the crawl started from, as given.
	Seed string `json:"seed"`

	// Origin is the seed without its trailing slash. Site-root-relative
	// hrefs are resolved by appending them to Origin.
	Origin string `json:"origin"`

	// Links holds every href encountered, in discovery order, including
	// duplicates. Followed hrefs appear in their resolved form.
	Links []string `json:"links"`

	// Pages is the number of pages fetched.
	Pages int `json:"pages"`

	// Fingerprint identifies the exact link sequence. Two crawls with equal
	// fingerprints discovered the same links in the same order.
	Fingerprint string `json:"fingerprint"`

	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
}

// LinkCount returns the number of links recorded, duplicates included.
func (c *Crawl) LinkCount() int {
	return len(c.Links)
}

// Unique returns the crawl's links with repeats removed, keeping the order
// in which each link was first discovered.
func (c *Crawl) Unique() []string {
	return Dedupe(c.Links)
}

// CrawlService crawls sites.
type CrawlService interface {
	// Crawl fetches seed, extracts its links and follows every
	// site-root-relative link depth-first. Each page is fetched at most once.
	// A failed fetch aborts the whole crawl with EFETCH.
	Crawl(ctx context.Context, seed string) (*Crawl, error)
}

// ValidateSeed returns EINVALID unless seed is an absolute http(s) URL.
func ValidateSeed(seed string) error {
	if seed == "" {
		return Errorf(EINVALID, "seed URL required")
	}
	u, err := url.Parse(seed)
	if err != nil {
		return Errorf(EINVALID, "invalid seed URL %q: %v", seed, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return Errorf(EINVALID, "seed URL %q must use http or https", seed)
	}
	if u.Host == "" {
		return Errorf(EINVALID, "seed URL %q has no host", seed)
	}
	return nil
}

// NormalizeOrigin strips one trailing slash from seed.
func NormalizeOrigin(seed string) string {
	return strings.TrimSuffix(seed, "/")
}

// IsSiteRelative reports whether href is resolved against the crawl origin
// and followed. Any href starting with "/" qualifies.
func IsSiteRelative(href string) bool {
	return strings.HasPrefix(href, "/")
}

// Dedupe returns links without repeats. The first occurrence of each link is
// kept and survivors stay in their original relative order. The input is not
// modified.
func Dedupe(links []string) []string {
	seen := make(map[string]struct{}, len(links))
	unique := make([]string, 0, len(links))
	for _, link := range links {
		if _, ok := seen[link]; ok {
			continue
		}
		seen[link] = struct{}{}
		unique = append(unique, link)
	}
	return unique
}
