package main

import (
	"fmt"

	"github.com/fwojciec/sitelinks"
)

// Run executes the crawl command.
func (c *CrawlCmd) Run(deps *Dependencies) error {
	result, err := deps.Crawls.Crawl(deps.Ctx, c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitelinks.ErrorMessage(err))
		return err
	}

	links := result.Links
	if c.Unique {
		links = result.Unique()
	}

	if c.Count {
		fmt.Fprintln(deps.Stdout, len(links))
		return nil
	}

	for _, link := range links {
		fmt.Fprintln(deps.Stdout, link)
	}

	return nil
}
