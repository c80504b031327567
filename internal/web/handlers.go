package web

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/JonMunkholm/numanalyzer/internal/core"
	"github.com/JonMunkholm/numanalyzer/internal/logging"
	"github.com/JonMunkholm/numanalyzer/internal/metrics"
	"github.com/JonMunkholm/numanalyzer/internal/report"
	"github.com/JonMunkholm/numanalyzer/internal/web/templates"
)

// errNoFile is returned when a multipart request lacks the "file" field.
var errNoFile = errors.New("no file provided")

// handleIndex renders the upload form.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.UploadForm(templates.FormDefaultsFrom(s.defaults)).Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render upload form", "error", err)
	}
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status         string `json:"status"`
	ActiveAnalyses int64  `json:"active_analyses"`
}

// handleHealth reports liveness and how many analyses are running.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:         "ok",
		ActiveAnalyses: s.limiter.Active(),
	})
}

// handleAnalyze returns the JSON summary of the uploaded file.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	a, err := s.analyzeRequest(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report.NewSummary(a))
}

// handleValidCSV returns report_long.csv for the uploaded file.
func (s *Server) handleValidCSV(w http.ResponseWriter, r *http.Request) {
	a, err := s.analyzeRequest(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeCSVHeaders(w, report.ValuesFile)
	if err := report.WriteValuesCSV(w, a, a.Settings.Delimiter); err != nil {
		logging.FromContext(r.Context()).Error("write values csv", "error", err)
	}
}

// handleInvalidCSV returns invalid_rows.csv for the uploaded file.
func (s *Server) handleInvalidCSV(w http.ResponseWriter, r *http.Request) {
	a, err := s.analyzeRequest(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeCSVHeaders(w, report.InvalidFile)
	if err := report.WriteInvalidCSV(w, a, a.Settings.Delimiter); err != nil {
		logging.FromContext(r.Context()).Error("write invalid csv", "error", err)
	}
}

// handleReport renders the HTML report for a form upload.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	a, err := s.analyzeRequest(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.Report(a).Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render report", "error", err)
	}
}

func writeCSVHeaders(w http.ResponseWriter, filename string) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
}

// analyzeRequest reads the CSV from the request and runs the analysis.
// The CSV is either the multipart "file" field or the raw request body.
func (s *Server) analyzeRequest(w http.ResponseWriter, r *http.Request) (*core.Analysis, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadSize)

	var (
		body   io.Reader = r.Body
		source           = "request body"
		params           = r.URL.Query()
	)

	if isMultipart(r) {
		if err := r.ParseMultipartForm(s.cfg.MaxUploadSize); err != nil {
			return nil, fmt.Errorf("parse form: %w", err)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			return nil, errNoFile
		}
		defer file.Close()
		body, source, params = file, header.Filename, r.Form
	}

	settings, err := s.requestSettings(params)
	if err != nil {
		return nil, err
	}

	a, err := core.Analyze(r.Context(), body, source, settings)
	if err != nil {
		metrics.ObserveFailure()
		return nil, err
	}
	metrics.ObserveAnalysis(a)
	return a, nil
}

func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}

// requestSettings applies query or form overrides to the server defaults.
// Empty parameters keep the default. A raw body is never parsed as a form,
// so only the query string applies to it.
func (s *Server) requestSettings(params url.Values) (core.Settings, error) {
	settings := s.defaults

	param := func(name string) string {
		return strings.TrimSpace(params.Get(name))
	}

	if v := param("column"); v != "" {
		settings.Column = v
	}
	if v := param("encoding"); v != "" {
		settings.Encoding = v
	}
	if v := param("delimiter"); v != "" {
		d, err := core.ParseDelimiter(v)
		if err != nil {
			return core.Settings{}, err
		}
		settings.Delimiter = d
	}
	if v := param("column_index"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return core.Settings{}, fmt.Errorf("%w: column_index %q is not an integer", core.ErrInvalidSettings, v)
		}
		settings.ColumnIndex = n
	}

	for name, dst := range map[string]*int64{
		"threshold": &settings.Threshold,
		"min":       &settings.Min,
		"max":       &settings.Max,
	} {
		v := param(name)
		if v == "" {
			continue
		}
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return core.Settings{}, fmt.Errorf("%w: %s %q is not an integer", core.ErrInvalidSettings, name, v)
		}
		*dst = n
	}

	return settings, settings.Validate()
}

// statusFor picks the HTTP status for an analysis error.
func statusFor(err error) int {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrTooManyAnalyses):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	case errors.Is(err, core.ErrInvalidSettings),
		errors.Is(err, core.ErrUnsupportedEncoding),
		errors.Is(err, core.ErrMalformedCSV),
		errors.Is(err, errNoFile):
		return http.StatusBadRequest
	case strings.Contains(err.Error(), "parse form"):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
