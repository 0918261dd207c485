package main_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	main "github.com/fwojciec/sitelinks/cmd/sitelinks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestMain returns a Main that ignores config files on the host.
func newTestMain() *main.Main {
	m := main.NewMain()
	m.ConfigPaths = nil
	return m
}

// newTestSite serves a three-page site and reports each request's
// User-Agent on the returned channel.
func newTestSite(t *testing.T) (*httptest.Server, <-chan string) {
	t.Helper()
	agents := make(chan string, 16)
	pages := map[string]string{
		"/":      `<a href="/docs">Docs</a><a href="https://github.com/x">GitHub</a><a href="/blog">Blog</a>`,
		"/docs":  `<a href="/">Home</a><a href="/docs">Docs</a>`,
		"/blog":  `<a href="https://github.com/x">GitHub</a>`,
		"/moved": `<a href="/blog">moved</a>`,
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case agents <- r.UserAgent():
		default:
		}
		body, ok := pages[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = io.WriteString(w, "<html><body>"+body+"</body></html>")
	}))
	t.Cleanup(srv.Close)
	return srv, agents
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRun_HelpFlag(t *testing.T) {
	t.Parallel()

	for _, arg := range []string{"--help", "-h", "help"} {
		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		err := newTestMain().Run(context.Background(), []string{arg}, stdout, stderr)

		require.NoError(t, err, arg)
		help := stdout.String()
		assert.Contains(t, help, "Usage:", arg)
		assert.Contains(t, help, "Flags:", arg)
		assert.Contains(t, help, "serve", arg)
		assert.Contains(t, help, "crawl", arg)
		assert.Contains(t, help, "--user-agent", arg)
	}
}

func TestRun_NoArgs(t *testing.T) {
	t.Parallel()

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	err := newTestMain().Run(context.Background(), nil, stdout, stderr)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no command specified")
	assert.Contains(t, stdout.String(), "Usage:")
}

func TestRun_Crawl(t *testing.T) {
	t.Parallel()

	t.Run("prints every link in discovery order", func(t *testing.T) {
		t.Parallel()

		site, _ := newTestSite(t)
		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		err := newTestMain().Run(context.Background(), []string{"crawl", site.URL + "/"}, stdout, stderr)

		require.NoError(t, err)
		assert.Equal(t, strings.Join([]string{
			site.URL + "/docs",
			site.URL + "/",
			site.URL + "/docs",
			"https://github.com/x",
			site.URL + "/blog",
			"https://github.com/x",
			site.URL + "/docs",
			"https://github.com/x",
			site.URL + "/blog",
		}, "\n")+"\n", stdout.String())
	})

	t.Run("prints unique links", func(t *testing.T) {
		t.Parallel()

		site, _ := newTestSite(t)
		stdout := &bytes.Buffer{}

		err := newTestMain().Run(context.Background(), []string{"crawl", "--unique", site.URL + "/"}, stdout, &bytes.Buffer{})

		require.NoError(t, err)
		assert.Equal(t, strings.Join([]string{
			site.URL + "/docs",
			site.URL + "/",
			"https://github.com/x",
			site.URL + "/blog",
		}, "\n")+"\n", stdout.String())
	})

	t.Run("prints counts", func(t *testing.T) {
		t.Parallel()

		site, _ := newTestSite(t)

		stdout := &bytes.Buffer{}
		require.NoError(t, newTestMain().Run(context.Background(), []string{"crawl", "-c", site.URL + "/"}, stdout, &bytes.Buffer{}))
		assert.Equal(t, "9\n", stdout.String())

		stdout.Reset()
		require.NoError(t, newTestMain().Run(context.Background(), []string{"crawl", "-u", "-c", site.URL + "/"}, stdout, &bytes.Buffer{}))
		assert.Equal(t, "4\n", stdout.String())
	})

	t.Run("logs the crawl and, when verbose, each fetch", func(t *testing.T) {
		t.Parallel()

		site, _ := newTestSite(t)

		stderr := &bytes.Buffer{}
		require.NoError(t, newTestMain().Run(context.Background(), []string{"crawl", site.URL + "/"}, &bytes.Buffer{}, stderr))
		assert.Contains(t, stderr.String(), "msg=crawl")
		assert.NotContains(t, stderr.String(), "msg=fetch")

		stderr.Reset()
		require.NoError(t, newTestMain().Run(context.Background(), []string{"--verbose", "crawl", site.URL + "/"}, &bytes.Buffer{}, stderr))
		assert.Contains(t, stderr.String(), "msg=fetch")
	})

	t.Run("uses the goquery extractor", func(t *testing.T) {
		t.Parallel()

		site, _ := newTestSite(t)
		stdout := &bytes.Buffer{}

		err := newTestMain().Run(context.Background(), []string{"--extractor=goquery", "crawl", "-u", "-c", site.URL + "/"}, stdout, &bytes.Buffer{})

		require.NoError(t, err)
		assert.Equal(t, "4\n", stdout.String())
	})

	t.Run("rejects an invalid seed", func(t *testing.T) {
		t.Parallel()

		stderr := &bytes.Buffer{}

		err := newTestMain().Run(context.Background(), []string{"crawl", "example.com"}, &bytes.Buffer{}, stderr)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "must use http or https")
	})

	t.Run("reports fetch failures", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()
		stderr := &bytes.Buffer{}

		err := newTestMain().Run(context.Background(), []string{"crawl", url}, &bytes.Buffer{}, stderr)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "error: fetch "+url)
	})

	t.Run("rejects an unknown fetcher", func(t *testing.T) {
		t.Parallel()

		err := newTestMain().Run(context.Background(), []string{"--fetcher=curl", "crawl", "https://a.test"}, &bytes.Buffer{}, &bytes.Buffer{})

		require.Error(t, err)
	})
}

func TestRun_Config(t *testing.T) {
	t.Parallel()

	t.Run("applies the config file", func(t *testing.T) {
		t.Parallel()

		site, agents := newTestSite(t)
		path := writeConfig(t, "user_agent: from-config/1\n")

		err := newTestMain().Run(context.Background(), []string{"--config", path, "crawl", site.URL + "/"}, &bytes.Buffer{}, &bytes.Buffer{})

		require.NoError(t, err)
		assert.Equal(t, "from-config/1", <-agents)
	})

	t.Run("reads default config paths", func(t *testing.T) {
		t.Parallel()

		site, agents := newTestSite(t)
		m := newTestMain()
		m.ConfigPaths = []string{
			filepath.Join(t.TempDir(), "missing.yaml"),
			writeConfig(t, "user-agent: from-default/1\n"),
		}

		err := m.Run(context.Background(), []string{"crawl", site.URL + "/"}, &bytes.Buffer{}, &bytes.Buffer{})

		require.NoError(t, err)
		assert.Equal(t, "from-default/1", <-agents)
	})

	t.Run("applies command sections", func(t *testing.T) {
		t.Parallel()

		site, _ := newTestSite(t)
		path := writeConfig(t, "crawl:\n  unique: true\n  count: true\n")
		stdout := &bytes.Buffer{}

		err := newTestMain().Run(context.Background(), []string{"--config", path, "crawl", site.URL + "/"}, stdout, &bytes.Buffer{})

		require.NoError(t, err)
		assert.Equal(t, "4\n", stdout.String())
	})

	t.Run("flags override the config file", func(t *testing.T) {
		t.Parallel()

		site, agents := newTestSite(t)
		path := writeConfig(t, "user_agent: from-config/1\n")

		err := newTestMain().Run(context.Background(), []string{"--config", path, "--user-agent", "from-flag/1", "crawl", site.URL + "/"}, &bytes.Buffer{}, &bytes.Buffer{})

		require.NoError(t, err)
		assert.Equal(t, "from-flag/1", <-agents)
	})

	t.Run("fails on a missing explicit config file", func(t *testing.T) {
		t.Parallel()

		err := newTestMain().Run(context.Background(), []string{"--config", filepath.Join(t.TempDir(), "nope.yaml"), "crawl", "https://a.test"}, &bytes.Buffer{}, &bytes.Buffer{})

		require.Error(t, err)
	})
}

// syncBuffer is a bytes.Buffer safe for one writer and one reader.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

var listeningRE = regexp.MustCompile(`listening on (http://\S+)`)

func TestRun_Serve(t *testing.T) {
	t.Parallel()

	site, _ := newTestSite(t)
	dbPath := filepath.Join(t.TempDir(), "history.db")
	stderr := &syncBuffer{}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() {
		done <- newTestMain().Run(ctx, []string{"serve", "--addr", "127.0.0.1:0", "--db", dbPath}, io.Discard, stderr)
	}()

	var base string
	require.Eventually(t, func() bool {
		m := listeningRE.FindStringSubmatch(stderr.String())
		if m == nil {
			return false
		}
		base = m[1]
		return true
	}, 5*time.Second, 10*time.Millisecond)

	get := func(path, body string) map[string]json.RawMessage {
		t.Helper()
		req, err := http.NewRequest(http.MethodGet, base+path, strings.NewReader(body))
		require.NoError(t, err)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var env map[string]json.RawMessage
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
		return env
	}

	env := get("/scrape/unique/count", `{"request":"`+site.URL+`"}`)
	assert.JSONEq(t, `200`, string(env["status"]))
	assert.JSONEq(t, `4`, string(env["response"]))

	env = get("/crawls", "")
	assert.JSONEq(t, `200`, string(env["status"]))
	var records []struct {
		Seed        string `json:"seed"`
		Links       int    `json:"links"`
		UniqueLinks int    `json:"uniqueLinks"`
	}
	require.NoError(t, json.Unmarshal(env["response"], &records))
	require.Len(t, records, 1)
	assert.Equal(t, site.URL, records[0].Seed)
	// "/" is linked from /docs and is crawled once more after the seed.
	assert.Equal(t, 9, records[0].Links)
	assert.Equal(t, 4, records[0].UniqueLinks)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("serve did not stop")
	}
}
