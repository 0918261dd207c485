package crawl_test

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/fwojciec/sitelinks/mock"
)

// site is an in-memory website: page URL to the hrefs on that page.
type site map[string][]string

// render turns a list of hrefs into an HTML page with one anchor each.
func render(hrefs []string) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html><html><head><title>t</title></head><body><ul>\n")
	for _, h := range hrefs {
		fmt.Fprintf(&b, "<li><a class=\"nav\" href=\"%s\">link</a></li>\n", h)
	}
	b.WriteString("</ul></body></html>\n")
	return b.String()
}

// fetchLog records fetch calls made against a site.
type fetchLog struct {
	mu    sync.Mutex
	order []string
	count map[string]int
}

func (l *fetchLog) add(url string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.order = append(l.order, url)
	l.count[url]++
}

// newSiteFetcher returns a mock fetcher serving s. Unknown URLs return an
// empty page, which mirrors a real site answering 404 with no links.
func newSiteFetcher(s site) (*mock.Fetcher, *fetchLog) {
	log := &fetchLog{count: make(map[string]int)}
	return &mock.Fetcher{
		FetchFn: func(_ context.Context, url string) (string, error) {
			log.add(url)
			return render(s[url]), nil
		},
		CloseFn: func() error { return nil },
	}, log
}

const ddg = "https://duckduckgo.com"

// ddgFooter is the link block repeated at the bottom of several pages.
var ddgFooter = []string{
	"/about",
	"/app",
	"/traffic",
	"/privacy",
	"/press",
	"https://spreadprivacy.com/",
	"https://twitter.com/duckduckgo",
	"https://reddit.com/r/duckduckgo",
	"/about",
	"https://duckduckgo.com",
}

const (
	ddgPDF = "/assets/hiring/recruit-gdpr-processing-notice-1_11_20.pdf"
	ddgPNG = "/assets/email/DuckDuckGo-Privacy-Weekly_sample.png"
)

// ddgSite is a snapshot of a small part of duckduckgo.com.
func ddgSite() site {
	donations := []string{"/app", "/hiring", "/", ddgPDF}
	donations = append(donations, ddgFooter...)
	donations = append(donations,
		"https://spreadprivacy.com/delete-google-search-history/",
		ddgPNG,
	)
	return site{
		ddg:                {"/about", "/about"},
		ddg + "/about":     {"/", "/about", "/traffic"},
		ddg + "/":          {"/about"},
		ddg + "/traffic":   {"/", "/hiring"},
		ddg + "/hiring":    {"/donations"},
		ddg + "/donations": donations,
		ddg + "/app":       {"/", "https://spreadprivacy.com/tag/device-privacy-tips/"},
		ddg + ddgPDF:       {},
		ddg + "/privacy":   {},
		ddg + "/press":     {},
		ddg + ddgPNG:       ddgFooter,
	}
}

// ddgLinks is the full link sequence a crawl of ddgSite records.
var ddgLinks = []string{
	"https://duckduckgo.com/about",
	"https://duckduckgo.com/",
	"https://duckduckgo.com/about",
	"https://duckduckgo.com/about",
	"https://duckduckgo.com/traffic",
	"https://duckduckgo.com/",
	"https://duckduckgo.com/hiring",
	"https://duckduckgo.com/donations",
	"https://duckduckgo.com/app",
	"https://duckduckgo.com/",
	"https://spreadprivacy.com/tag/device-privacy-tips/",
	"https://duckduckgo.com/hiring",
	"https://duckduckgo.com/",
	"https://duckduckgo.com/assets/hiring/recruit-gdpr-processing-notice-1_11_20.pdf",
	"https://duckduckgo.com/about",
	"https://duckduckgo.com/app",
	"https://duckduckgo.com/traffic",
	"https://duckduckgo.com/privacy",
	"https://duckduckgo.com/press",
	"https://spreadprivacy.com/",
	"https://twitter.com/duckduckgo",
	"https://reddit.com/r/duckduckgo",
	"https://duckduckgo.com/about",
	"https://duckduckgo.com",
	"https://spreadprivacy.com/delete-google-search-history/",
	"https://duckduckgo.com/assets/email/DuckDuckGo-Privacy-Weekly_sample.png",
	"https://duckduckgo.com/about",
	"https://duckduckgo.com/app",
	"https://duckduckgo.com/traffic",
	"https://duckduckgo.com/privacy",
	"https://duckduckgo.com/press",
	"https://spreadprivacy.com/",
	"https://twitter.com/duckduckgo",
	"https://reddit.com/r/duckduckgo",
	"https://duckduckgo.com/about",
	"https://duckduckgo.com",
	"https://duckduckgo.com/about",
}

// ddgUnique is ddgLinks with repeats removed.
var ddgUnique = []string{
	"https://duckduckgo.com/about",
	"https://duckduckgo.com/",
	"https://duckduckgo.com/traffic",
	"https://duckduckgo.com/hiring",
	"https://duckduckgo.com/donations",
	"https://duckduckgo.com/app",
	"https://spreadprivacy.com/tag/device-privacy-tips/",
	"https://duckduckgo.com/assets/hiring/recruit-gdpr-processing-notice-1_11_20.pdf",
	"https://duckduckgo.com/privacy",
	"https://duckduckgo.com/press",
	"https://spreadprivacy.com/",
	"https://twitter.com/duckduckgo",
	"https://reddit.com/r/duckduckgo",
	"https://duckduckgo.com",
	"https://spreadprivacy.com/delete-google-search-history/",
	"https://duckduckgo.com/assets/email/DuckDuckGo-Privacy-Weekly_sample.png",
}
