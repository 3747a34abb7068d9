package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/chris/gdpdash/internal/config"
	"github.com/chris/gdpdash/internal/render"
	"github.com/chris/gdpdash/internal/selection"
	"github.com/chris/gdpdash/internal/session"
	"github.com/chris/gdpdash/pkg/models"
)

const shutdownTimeout = 5 * time.Second

// Server serves the dashboard page and its JSON API. It keeps no selection
// state: every request carries its own selection in the query string (or
// the body for POST /api/selection), so concurrent users never interfere.
type Server struct {
	table     *models.Table
	cfg       config.Config
	chartOpts render.ChartOptions
	logger    *slog.Logger
	page      *template.Template
}

// New creates a server over an immutable table
func New(table *models.Table, cfg config.Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	opts := cfg.ChartOptions()
	opts.Palette = render.NewPalette(table.Countries(), cfg.Palette)

	return &Server{
		table:     table,
		cfg:       cfg,
		chartOpts: opts,
		logger:    logger,
		page:      template.Must(template.New("page").Funcs(pageFuncs).Parse(pageHTML)),
	}
}

// Handler returns the routed handler wrapped in request logging
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /api/controls", s.handleControls)
	mux.HandleFunc("GET /api/chart", s.handleChart)
	mux.HandleFunc("GET /api/series", s.handleSeries)
	mux.HandleFunc("GET /api/view", s.handleView)
	mux.HandleFunc("POST /api/selection", s.handleSelection)
	mux.HandleFunc("GET /chart.png", s.handleChartPNG)
	return s.logRequests(mux)
}

// Serve accepts connections on ln until ctx is cancelled, then shuts down
// gracefully
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	s.logger.Info("listening", "addr", ln.Addr().String())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down: %w", err)
		}
		return nil
	}
}

// view builds a one-off session for the request's selection
func (s *Server) view(sel models.Selection) (session.View, error) {
	sess := session.New(s.table, session.WithChartOptions(s.chartOpts))
	return sess.Apply(sel)
}

// selectionFromQuery reads country (repeatable, see countryNames) and
// from/to. A missing country parameter selects every country; country= with
// no value selects none. Missing bounds default to the table's year span.
func (s *Server) selectionFromQuery(q url.Values) (models.Selection, error) {
	sel := models.Selection{
		Countries: s.table.Countries(),
		Range:     models.Range{Min: s.table.MinYear(), Max: s.table.MaxYear()},
	}

	if q.Has("country") {
		sel.Countries = sel.Countries[:0]
		for _, c := range q["country"] {
			sel.Countries = append(sel.Countries, s.countryNames(c)...)
		}
	}

	var err error
	if sel.Range.Min, err = yearParam(q, "from", sel.Range.Min); err != nil {
		return sel, err
	}
	if sel.Range.Max, err = yearParam(q, "to", sel.Range.Max); err != nil {
		return sel, err
	}
	return sel, nil
}

// countryNames reads one country value. Names such as "Congo, Dem. Rep."
// contain commas, so a value naming a table country is taken whole; only
// other values are read as a comma separated list.
func (s *Server) countryNames(value string) []string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	if s.table.Has(value) {
		return []string{value}
	}

	var names []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			names = append(names, part)
		}
	}
	return names
}

func yearParam(q url.Values, name string, def int) (int, error) {
	v := strings.TrimSpace(q.Get(name))
	if v == "" {
		return def, nil
	}
	year, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be a year, got %q", name, v)
	}
	return year, nil
}

func (s *Server) viewFromRequest(w http.ResponseWriter, r *http.Request) (session.View, bool) {
	sel, err := s.selectionFromQuery(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return session.View{}, false
	}
	v, err := s.view(sel)
	if err != nil {
		writeError(w, statusFor(err), err)
		return session.View{}, false
	}
	return v, true
}

func (s *Server) handleControls(w http.ResponseWriter, r *http.Request) {
	if v, ok := s.viewFromRequest(w, r); ok {
		writeJSON(w, http.StatusOK, v.Controls)
	}
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	if v, ok := s.viewFromRequest(w, r); ok {
		writeJSON(w, http.StatusOK, v.Chart)
	}
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	if v, ok := s.viewFromRequest(w, r); ok {
		writeJSON(w, http.StatusOK, v)
	}
}

func (s *Server) handleSeries(w http.ResponseWriter, r *http.Request) {
	v, ok := s.viewFromRequest(w, r)
	if !ok {
		return
	}

	switch format := r.URL.Query().Get("format"); format {
	case "", "json":
		writeJSON(w, http.StatusOK, v.Series)
	case "csv":
		var buf bytes.Buffer
		if err := render.WriteCSV(&buf, s.table.KeyColumn(), v.Series); err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="series.csv"`)
		w.Write(buf.Bytes())
	default:
		writeError(w, http.StatusBadRequest, fmt.Errorf("unknown format %q (want json or csv)", format))
	}
}

func (s *Server) handleSelection(w http.ResponseWriter, r *http.Request) {
	var sel models.Selection
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&sel); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid selection: %w", err))
		return
	}

	v, err := s.view(sel)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleChartPNG(w http.ResponseWriter, r *http.Request) {
	v, ok := s.viewFromRequest(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	width, err := sizeParam(q, "width", s.cfg.ChartWidth)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	height, err := sizeParam(q, "height", s.cfg.ChartHeight)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	var buf bytes.Buffer
	if err := render.WritePNG(&buf, v.Chart, width, height); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	w.Write(buf.Bytes())
}

func sizeParam(q url.Values, name string, def int) (int, error) {
	v := q.Get(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 100 || n > 4000 {
		return 0, fmt.Errorf("%s must be between 100 and 4000", name)
	}
	return n, nil
}

func statusFor(err error) int {
	var rangeErr *selection.InvalidRangeError
	if errors.As(err, &rangeErr) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

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

		level := slog.LevelDebug
		switch {
		case rec.status >= 500:
			level = slog.LevelError
		case rec.status >= 400:
			level = slog.LevelWarn
		}
		s.logger.Log(r.Context(), level, "request",
			"method", r.Method,
			"path", r.URL.Path,
			"query", r.URL.RawQuery,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}
