// Package web serves the annotation engine as a JSON/HTML API over HTTP.
// Binds to localhost only; there is no auth.
package web

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/aden1s/ruphrasehints/internal/domain/hints"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 8 << 20

// Annotator is the application surface the server needs.
type Annotator interface {
	Annotate(text string, dict *hints.Dictionary) hints.Result
	Patterns(dict *hints.Dictionary) ([]hints.CompiledPattern, []error)
	// Dictionary returns the configured default dictionary.
	Dictionary() (*hints.Dictionary, error)
	StoredDictionary(name string) (*hints.Dictionary, error)
}

// Server serves the annotation API over HTTP.
type Server struct {
	app      Annotator
	classify func(error) int
	listener net.Listener
	httpSrv  *http.Server
	port     int
	started  time.Time
	stopOnce sync.Once

	portFilePath string // .ruhints/http.port
}

// NewServer creates an HTTP server for app. classify maps dictionary errors
// to status codes; nil treats every such error as 500.
// The portFilePath is where the bound port is written for discovery.
func NewServer(app Annotator, classify func(error) int, portFilePath string) *Server {
	if classify == nil {
		classify = func(error) int { return http.StatusInternalServerError }
	}
	return &Server{
		app:          app,
		classify:     classify,
		portFilePath: portFilePath,
		started:      time.Now(),
	}
}

// DefaultPort computes a project-specific port: 19000 + (hash(abs_path) % 1000).
func DefaultPort(projectRoot string) int {
	abs, err := filepath.Abs(projectRoot)
	if err != nil {
		abs = projectRoot
	}
	h := sha256.Sum256([]byte(abs))
	// Use first 4 bytes as uint32
	n := uint32(h[0])<<24 | uint32(h[1])<<16 | uint32(h[2])<<8 | uint32(h[3])
	return 19000 + int(n%1000)
}

// Handler returns the API routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("POST /api/annotate", s.handleAnnotate)
	mux.HandleFunc("GET /api/patterns", s.handlePatterns)
	return mux
}

// Start begins listening on the preferred port. Writes the port to .ruhints/http.port.
func (s *Server) Start(preferredPort int) error {
	addr := fmt.Sprintf("127.0.0.1:%d", preferredPort)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	port := ln.Addr().(*net.TCPAddr).Port

	// Write port file for discovery
	if s.portFilePath != "" {
		if err := os.WriteFile(s.portFilePath, []byte(fmt.Sprintf("%d", port)), 0644); err != nil {
			ln.Close()
			return fmt.Errorf("write port file: %w", err)
		}
	}

	s.listener = ln
	s.port = port
	s.started = time.Now()
	s.httpSrv = &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 10 * time.Second}

	go s.httpSrv.Serve(ln)
	return nil
}

// Stop gracefully shuts down the HTTP server. Idempotent.
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		if s.httpSrv != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			s.httpSrv.Shutdown(ctx)
		}
		if s.portFilePath != "" {
			os.Remove(s.portFilePath)
		}
	})
}

// Port returns the bound port number.
func (s *Server) Port() int {
	return s.port
}

// URL returns the API base URL.
func (s *Server) URL() string {
	return fmt.Sprintf("http://localhost:%d", s.port)
}

// HealthResult is the /api/health response.
type HealthResult struct {
	Status string `json:"status"`
	Uptime string `json:"uptime"`
}

// AnnotateRequest is the JSON body of POST /api/annotate.
type AnnotateRequest struct {
	Text       string `json:"text"`
	Dictionary string `json:"dictionary,omitempty"`
}

// OccurrenceResult is one annotated occurrence. Offsets are bytes into the input.
type OccurrenceResult struct {
	Start     int    `json:"start"`
	End       int    `json:"end"`
	Surface   string `json:"surface"`
	Term      string `json:"term"`
	Canonical string `json:"canonical"`
	Hint      string `json:"hint"`
}

// AnnotateResult is the JSON response of POST /api/annotate.
type AnnotateResult struct {
	Text        string             `json:"text"`
	Occurrences []OccurrenceResult `json:"occurrences"`
	Skipped     []string           `json:"skipped,omitempty"`
}

// PatternResult describes one compiled pattern.
type PatternResult struct {
	Term    string `json:"term"`
	Kind    string `json:"kind"`
	Literal string `json:"literal,omitempty"`
	Regexp  string `json:"regexp"`
}

// PatternsResult is the /api/patterns response.
type PatternsResult struct {
	Patterns []PatternResult `json:"patterns"`
	Skipped  []string        `json:"skipped,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResult{
		Status: "ok",
		Uptime: time.Since(s.started).Round(time.Second).String(),
	})
}

// handleAnnotate accepts a JSON AnnotateRequest, or a raw text/html or
// text/plain body that is annotated and returned in the same content type.
// ?dict=NAME selects a stored dictionary for raw bodies.
func (s *Server) handleAnnotate(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, err)
		return
	}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	raw := mediaType == "text/html" || mediaType == "text/plain"

	var req AnnotateRequest
	if raw {
		req = AnnotateRequest{Text: string(body), Dictionary: r.URL.Query().Get("dict")}
	} else if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}

	dict, ok := s.dictionary(w, req.Dictionary)
	if !ok {
		return
	}
	res := s.app.Annotate(req.Text, dict)

	if raw {
		w.Header().Set("Content-Type", mediaType+"; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		io.WriteString(w, res.Text)
		return
	}

	out := AnnotateResult{Text: res.Text, Occurrences: make([]OccurrenceResult, 0, len(res.Occurrences))}
	for _, o := range res.Occurrences {
		out.Occurrences = append(out.Occurrences, OccurrenceResult{
			Start: o.Start, End: o.End, Surface: o.Surface,
			Term: o.Term, Canonical: o.Canonical, Hint: o.Hint,
		})
	}
	out.Skipped = errorStrings(res.Skipped)
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handlePatterns(w http.ResponseWriter, r *http.Request) {
	dict, ok := s.dictionary(w, r.URL.Query().Get("dict"))
	if !ok {
		return
	}
	patterns, skipped := s.app.Patterns(dict)
	out := PatternsResult{Patterns: make([]PatternResult, 0, len(patterns))}
	for _, p := range patterns {
		out.Patterns = append(out.Patterns, PatternResult{
			Term:    p.Term,
			Kind:    p.Kind.String(),
			Literal: p.Literal,
			Regexp:  p.Matcher.String(),
		})
	}
	out.Skipped = errorStrings(skipped)
	writeJSON(w, http.StatusOK, out)
}

// dictionary resolves name (or the default) and writes the error response
// when that fails.
func (s *Server) dictionary(w http.ResponseWriter, name string) (*hints.Dictionary, bool) {
	var (
		dict *hints.Dictionary
		err  error
	)
	if name != "" {
		dict, err = s.app.StoredDictionary(name)
	} else {
		dict, err = s.app.Dictionary()
	}
	if err != nil {
		writeError(w, s.classify(err), err)
		return nil, false
	}
	return dict, true
}

func errorStrings(errs []error) []string {
	if len(errs) == 0 {
		return nil
	}
	out := make([]string, len(errs))
	for i, err := range errs {
		out[i] = err.Error()
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
