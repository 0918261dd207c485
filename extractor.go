package sitelinks

// LinkExtractor pulls anchor hrefs out of an HTML document.
type LinkExtractor interface {
	// ExtractHrefs returns the value of every href attribute found on an
	// anchor start tag, in document order. Values are returned as written
	// (no resolution, trimming or deduplication). Malformed markup never
	// causes a failure; unrecognized tokens are skipped.
	ExtractHrefs(html string) []string
}
