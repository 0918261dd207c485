package mock

import "github.com/fwojciec/sitelinks"

var _ sitelinks.LinkExtractor = (*LinkExtractor)(nil)

// LinkExtractor is a mock implementation of sitelinks.LinkExtractor.
type LinkExtractor struct {
	ExtractHrefsFn func(html string) []string
}

func (e *LinkExtractor) ExtractHrefs(html string) []string {
	return e.ExtractHrefsFn(html)
}
