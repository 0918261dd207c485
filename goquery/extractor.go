// Package goquery provides a DOM-based sitelinks.LinkExtractor.
//
// Unlike the tokenizer in package html, the document is parsed into a tree
// first, so misnested or foster-parented anchors are reported in tree order.
// For well-formed documents both extractors return the same hrefs.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/sitelinks"
)

// Ensure LinkExtractor implements sitelinks.LinkExtractor at compile time.
var _ sitelinks.LinkExtractor = (*LinkExtractor)(nil)

// LinkExtractor extracts anchor hrefs using goquery.
type LinkExtractor struct{}

// NewLinkExtractor creates a new LinkExtractor.
func NewLinkExtractor() *LinkExtractor {
	return &LinkExtractor{}
}

// ExtractHrefs returns the first href attribute of every <a> element, in
// document order. Script, style, textarea and title contents are text in the
// tree, so anchors written inside them are not reported.
func (e *LinkExtractor) ExtractHrefs(html string) []string {
	hrefs := []string{}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		// The HTML5 parser only fails on reader errors, which a
		// strings.Reader never returns.
		return hrefs
	}

	doc.Find("a").Each(func(_ int, sel *goquery.Selection) {
		for _, node := range sel.Nodes {
			for _, attr := range node.Attr {
				if attr.Namespace == "" && attr.Key == "href" {
					hrefs = append(hrefs, attr.Val)
					break
				}
			}
		}
	})

	return hrefs
}
