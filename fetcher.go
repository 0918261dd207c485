package sitelinks

import "context"

// Fetcher retrieves the body of a page as text.
// Implementations may issue a plain HTTP request or render the page in a browser.
type Fetcher interface {
	// Fetch blocks until the page at url has been retrieved and returns its body.
	// Invalid byte sequences in the body are replaced rather than rejected.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (body string, err error)

	// Close releases resources held by the fetcher.
	// Must be called when the Fetcher is no longer needed.
	Close() error
}
