package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/fwojciec/sitelinks"
	"golang.org/x/sync/errgroup"
)

// DefaultAddr is the address the API listens on unless configured otherwise.
const DefaultAddr = "127.0.0.1:4001"

// ShutdownTimeout bounds how long Serve waits for in-flight requests after
// its context is canceled.
const ShutdownTimeout = 5 * time.Second

// Server exposes a CrawlService over a JSON API.
//
// Every response is an envelope {"status": <code>, "response": <payload>}
// delivered with transport status 200. The envelope status carries the
// outcome.
type Server struct {
	ln     net.Listener
	server *http.Server

	// Addr is the bind address used by Open.
	Addr string

	// Crawls performs crawl requests.
	Crawls sitelinks.CrawlService

	// Records stores a summary of every crawl request. Optional.
	Records sitelinks.CrawlRecordService

	Logger *slog.Logger
}

// NewServer returns a new instance of Server.
func NewServer() *Server {
	return &Server{
		server: &http.Server{
			ReadHeaderTimeout: 10 * time.Second,
		},
		Addr:   DefaultAddr,
		Logger: slog.New(slog.DiscardHandler),
	}
}

// Open binds the listener. Call Serve to start accepting requests.
func (s *Server) Open() (err error) {
	if s.ln, err = net.Listen("tcp", s.Addr); err != nil {
		return err
	}
	s.server.Handler = s.Handler()
	return nil
}

// URL returns the base URL of the running server.
func (s *Server) URL() string {
	if s.ln == nil {
		return "http://" + s.Addr
	}
	return "http://" + s.ln.Addr().String()
}

// Serve accepts requests until ctx is canceled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		if err := s.server.Serve(s.ln); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, done := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer done()
		return s.server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// Close stops the server immediately.
func (s *Server) Close() error {
	return s.server.Close()
}

// Handler returns the API routes wrapped in request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /scrape", s.handleScrape)
	mux.HandleFunc("GET /scrape/unique", s.handleScrapeUnique)
	mux.HandleFunc("GET /scrape/unique/count", s.handleScrapeUniqueCount)
	mux.HandleFunc("GET /crawls", s.handleCrawlList)
	mux.HandleFunc("GET /crawls/{id}", s.handleCrawlView)
	return s.logRequests(mux)
}

// envelope is the body of every API response.
type envelope struct {
	Status   int `json:"status"`
	Response any `json:"response"`
}

// scrapeRequest is the body of the scrape endpoints. Request is a pointer so
// a missing field can be told apart from an empty one.
type scrapeRequest struct {
	Request *string `json:"request"`
}

func (s *Server) handleScrape(w http.ResponseWriter, r *http.Request) {
	crawl, ok := s.crawl(w, r)
	if !ok {
		return
	}
	s.writeCrawl(w, crawl, crawl.Links)
}

func (s *Server) handleScrapeUnique(w http.ResponseWriter, r *http.Request) {
	crawl, ok := s.crawl(w, r)
	if !ok {
		return
	}
	s.writeCrawl(w, crawl, crawl.Unique())
}

func (s *Server) handleScrapeUniqueCount(w http.ResponseWriter, r *http.Request) {
	crawl, ok := s.crawl(w, r)
	if !ok {
		return
	}
	s.writeCrawl(w, crawl, len(crawl.Unique()))
}

// crawl decodes the request body and runs the crawl. On failure it writes
// the error envelope and returns false.
func (s *Server) crawl(w http.ResponseWriter, r *http.Request) (*sitelinks.Crawl, bool) {
	seed, err := decodeScrapeRequest(r)
	if err != nil {
		s.writeEnvelope(w, http.StatusInternalServerError, "Failed to parse JSON: "+err.Error())
		return nil, false
	}

	crawl, err := s.Crawls.Crawl(r.Context(), seed)
	s.record(r.Context(), seed, crawl, err)
	if err != nil {
		s.writeError(w, r, err)
		return nil, false
	}
	return crawl, true
}

func decodeScrapeRequest(r *http.Request) (string, error) {
	var req scrapeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return "", err
	}
	if req.Request == nil {
		return "", errors.New("missing field `request`")
	}
	return *req.Request, nil
}

// record stores a summary of the crawl. A storage failure is logged and does
// not affect the response.
func (s *Server) record(ctx context.Context, seed string, crawl *sitelinks.Crawl, crawlErr error) {
	if s.Records == nil {
		return
	}
	rec := sitelinks.NewCrawlRecord(seed, crawl, crawlErr)
	if err := s.Records.CreateCrawlRecord(context.WithoutCancel(ctx), rec); err != nil {
		s.Logger.Error("record crawl", "seed", seed, "error", err)
	}
}

func (s *Server) handleCrawlList(w http.ResponseWriter, r *http.Request) {
	if s.Records == nil {
		s.writeError(w, r, sitelinks.Errorf(sitelinks.ENOTFOUND, "crawl history is not enabled"))
		return
	}

	var filter sitelinks.CrawlRecordFilter
	q := r.URL.Query()
	if seed := q.Get("seed"); seed != "" {
		filter.Seed = &seed
	}
	var err error
	if filter.Limit, err = queryInt(q.Get("limit")); err != nil {
		s.writeError(w, r, sitelinks.Errorf(sitelinks.EINVALID, "invalid limit %q", q.Get("limit")))
		return
	}
	if filter.Offset, err = queryInt(q.Get("offset")); err != nil {
		s.writeError(w, r, sitelinks.Errorf(sitelinks.EINVALID, "invalid offset %q", q.Get("offset")))
		return
	}

	records, err := s.Records.FindCrawlRecords(r.Context(), filter)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if records == nil {
		records = []*sitelinks.CrawlRecord{}
	}
	s.writeEnvelope(w, http.StatusOK, records)
}

func (s *Server) handleCrawlView(w http.ResponseWriter, r *http.Request) {
	if s.Records == nil {
		s.writeError(w, r, sitelinks.Errorf(sitelinks.ENOTFOUND, "crawl history is not enabled"))
		return
	}

	rec, err := s.Records.FindCrawlRecordByID(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeEnvelope(w, http.StatusOK, rec)
}

func queryInt(v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, errors.New("not a non-negative integer")
	}
	return n, nil
}

func (s *Server) writeCrawl(w http.ResponseWriter, crawl *sitelinks.Crawl, payload any) {
	if crawl.Fingerprint != "" {
		w.Header().Set("ETag", `"`+crawl.Fingerprint+`"`)
	}
	s.writeEnvelope(w, http.StatusOK, payload)
}

// writeError writes the envelope for an application error. Internal errors
// are logged and their details hidden from the client.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code, message := sitelinks.ErrorCode(err), sitelinks.ErrorMessage(err)
	if code == sitelinks.EINTERNAL {
		s.Logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	s.writeEnvelope(w, ErrorStatusCode(code), message)
}

func (s *Server) writeEnvelope(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(envelope{Status: status, Response: payload}); err != nil {
		s.Logger.Error("write response", "error", err)
	}
}

// codes maps application error codes to envelope status codes.
var codes = map[string]int{
	sitelinks.EFETCH:    http.StatusBadGateway,
	sitelinks.EINVALID:  http.StatusBadRequest,
	sitelinks.ENOTFOUND: http.StatusNotFound,
	sitelinks.EINTERNAL: http.StatusInternalServerError,
}

// ErrorStatusCode returns the envelope status for an application error code.
func ErrorStatusCode(code string) int {
	if v, ok := codes[code]; ok {
		return v
	}
	return http.StatusInternalServerError
}

// statusRecorder captures the status written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.Logger.Info("request",
			"remote", r.RemoteAddr,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}
