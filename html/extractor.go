// Package html provides the default sitelinks.LinkExtractor, built on the
// golang.org/x/net/html tokenizer. It never builds a DOM: tokens are read
// once, in order, and only anchor start tags are inspected.
package html

import (
	"strings"

	"github.com/fwojciec/sitelinks"
	xhtml "golang.org/x/net/html"
)

// Ensure LinkExtractor implements sitelinks.LinkExtractor at compile time.
var _ sitelinks.LinkExtractor = (*LinkExtractor)(nil)

// LinkExtractor extracts anchor hrefs from an HTML token stream.
// LinkExtractor is stateless and safe for concurrent use.
type LinkExtractor struct{}

// NewLinkExtractor creates a new LinkExtractor.
func NewLinkExtractor() *LinkExtractor {
	return &LinkExtractor{}
}

// ExtractHrefs returns the href of every <a> start tag, in document order.
//
// The tokenizer lowercases tag and attribute names, so <A HREF="..."> is
// matched. Attribute values have character references decoded and are
// otherwise returned untouched. A repeated href on one tag is ignored after
// the first.
//
// No tree builder drives the tokenizer, so it never switches into raw text:
// markup inside <script>, <style>, <textarea> and <title> is tokenized like
// any other, and anchors written there are extracted.
func (e *LinkExtractor) ExtractHrefs(html string) []string {
	z := xhtml.NewTokenizer(strings.NewReader(html))
	hrefs := []string{}
	for {
		switch z.Next() {
		case xhtml.ErrorToken:
			// io.EOF or a tokenizer error; either way the input is consumed.
			return hrefs
		case xhtml.StartTagToken, xhtml.SelfClosingTagToken:
			z.NextIsNotRawText()
			name, hasAttr := z.TagName()
			if !hasAttr || string(name) != "a" {
				continue
			}
			if href, ok := firstHref(z); ok {
				hrefs = append(hrefs, href)
			}
		}
	}
}

// firstHref scans the current tag's attributes for the first href.
func firstHref(z *xhtml.Tokenizer) (string, bool) {
	for {
		key, val, more := z.TagAttr()
		if string(key) == "href" {
			return string(val), true
		}
		if !more {
			return "", false
		}
	}
}
