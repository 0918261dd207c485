package main

import (
	"fmt"

	sitehttp "github.com/fwojciec/sitelinks/http"
)

// Run executes the serve command. It blocks until the context is canceled.
func (c *ServeCmd) Run(deps *Dependencies) error {
	s := sitehttp.NewServer()
	s.Addr = c.Addr
	s.Crawls = deps.Crawls
	s.Records = deps.Records
	s.Logger = deps.Logger

	if err := s.Open(); err != nil {
		return fmt.Errorf("failed to listen on %s: %w", c.Addr, err)
	}

	fmt.Fprintf(deps.Stderr, "listening on %s\n", s.URL())
	return s.Serve(deps.Ctx)
}
