package server

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/yurifrl/ivacruce/pkg/config"
	"github.com/yurifrl/ivacruce/pkg/csv"
	"github.com/yurifrl/ivacruce/pkg/models"
	"github.com/yurifrl/ivacruce/pkg/reconcile"
	"github.com/yurifrl/ivacruce/pkg/service"
)

//go:embed templates/*.html
var templates embed.FS

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	maxUploadBytes  = 32 << 20
)

// Server handles ledger uploads and serves the generated workbooks.
type Server struct {
	config    *config.Config
	logger    *log.Logger
	mux       *http.ServeMux
	template  *template.Template
	processor *service.Processor
	// files holds generated workbooks until they expire.
	files *cache.Cache
}

// generated is a workbook kept in memory until downloaded.
type generated struct {
	name     string
	workbook []byte
	table    *models.Table
}

func New(config *config.Config, logger *log.Logger) *Server {
	tmpl := template.Must(template.ParseFS(templates, "templates/*.html"))
	s := &Server{
		config:    config,
		logger:    logger,
		mux:       http.NewServeMux(),
		template:  tmpl,
		processor: service.NewProcessor(config, logger),
		files:     newFileCache(config.Server.FileTTL),
	}
	s.setupRoutes()
	return s
}

func newFileCache(ttl time.Duration) *cache.Cache {
	return cache.New(ttl, 2*ttl)
}

func (s *Server) Start(addr string) error {
	return http.ListenAndServe(addr, s.mux)
}

// Handler exposes the routes, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/", s.withLogging(s.handleHome))
	s.mux.HandleFunc("/api/process", s.withLogging(s.handleProcess))
	s.mux.HandleFunc("/api/files/", s.withLogging(s.handleFiles))
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		s.respondError(w, r, http.StatusNotFound, "not found", nil)
		return
	}
	if err := s.template.ExecuteTemplate(w, "index.html", nil); err != nil {
		s.respondError(w, r, http.StatusInternalServerError, "failed to render page", err)
	}
}

// ProcessResponse is the JSON body of a successful upload.
type ProcessResponse struct {
	Status            string   `json:"status"`
	File              string   `json:"file"`
	Filename          string   `json:"filename"`
	Section           string   `json:"section"`
	Header            []string `json:"header"`
	Buckets           []string `json:"buckets"`
	Rows              int      `json:"rows"`
	Total             string   `json:"total"`
	Lines             []string `json:"lines,omitempty"`
	InSync            int      `json:"in_sync"`
	MissingInExternal int      `json:"missing_in_external"`
	MissingInLedger   int      `json:"missing_in_ledger"`
}

func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.respondError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.respondError(w, r, http.StatusBadRequest, "invalid multipart form", err)
		return
	}

	ledgerData, ledgerName, err := readFormFile(r, "ledger")
	if err != nil {
		s.respondError(w, r, http.StatusBadRequest, "ledger file required", err)
		return
	}
	ledger, err := s.processor.ParseLedger(ledgerData, ledgerName)
	if err != nil {
		s.respondError(w, r, http.StatusUnprocessableEntity, "failed to process ledger", err)
		return
	}

	resp := ProcessResponse{
		Status:  "success",
		Section: string(ledger.Section),
		Header:  ledger.Header.Values(),
		Buckets: ledger.Table.Buckets,
		Rows:    len(ledger.Table.Rows),
		Total:   ledger.Table.Totals.Total.StringFixed(2),
	}
	base := strings.TrimSuffix(ledgerName, filepath.Ext(ledgerName))

	var workbook []byte
	externalData, externalName, err := readFormFile(r, "external")
	switch {
	case err == http.ErrMissingFile:
		resp.Filename = base + "-movimientos.xlsx"
		workbook, err = s.processor.RenderMovements(ledger)
	case err != nil:
		s.respondError(w, r, http.StatusBadRequest, "failed to read external file", err)
		return
	default:
		result, rerr := s.processor.Reconcile(ledger, externalData, externalName)
		if rerr != nil {
			s.respondError(w, r, http.StatusUnprocessableEntity, "failed to reconcile", rerr)
			return
		}
		resp.Filename = base + "-cruce.xlsx"
		resp.Lines = previewLines(result.Report)
		resp.InSync = result.Report.InSyncCount()
		resp.MissingInExternal = len(result.Report.MissingFromExternal)
		resp.MissingInLedger = len(result.Report.MissingFromLedger)
		workbook, err = s.processor.RenderConsolidated(result)
	}
	if err != nil {
		s.respondError(w, r, http.StatusInternalServerError, "failed to render workbook", err)
		return
	}

	resp.File = uuid.NewString()
	s.files.SetDefault(resp.File, generated{name: resp.Filename, workbook: workbook, table: ledger.Table})
	s.logger.Info("processed upload", "ledger", ledgerName, "file", resp.File, "rows", resp.Rows)

	if err := s.writeJSON(w, http.StatusOK, resp); err != nil {
		s.logger.Warn("failed to write json response", "err", err)
	}
}

func readFormFile(r *http.Request, field string) ([]byte, string, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, "", err
	}
	defer func(f multipart.File) { _ = f.Close() }(file)
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", err
	}
	return data, header.Filename, nil
}

func previewLines(report *reconcile.Report) []string {
	lines := make([]string, 0, len(report.Items)+len(report.MissingFromLedger))
	for _, entry := range report.Items {
		prefix := "="
		if entry.Status == reconcile.NotInExternal {
			prefix = "+"
		}
		lines = append(lines, fmt.Sprintf("%s %s | %s | %s | %s",
			prefix, entry.Key, entry.Row.Fecha, entry.Row.RazonSocial, entry.Row.Total.StringFixed(2)))
	}
	for _, row := range report.MissingFromLedger {
		lines = append(lines, "- "+strings.Join(row, " | "))
	}
	return lines
}

// handleFiles serves a generated workbook, or its movements as CSV when
// format=csv is given.
func (s *Server) handleFiles(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/api/files/")
	if _, err := uuid.Parse(id); err != nil {
		s.respondError(w, r, http.StatusBadRequest, "invalid file id", err)
		return
	}

	value, ok := s.files.Get(id)
	if !ok {
		s.respondError(w, r, http.StatusNotFound, "file not found", nil)
		return
	}
	file, ok := value.(generated)
	if !ok {
		s.respondError(w, r, http.StatusInternalServerError, "internal type assertion error", nil)
		return
	}

	body, name, contentType := file.workbook, file.name, xlsxContentType
	if r.URL.Query().Get("format") == "csv" {
		out, err := csv.Create(file.table, nil, true, s.config.Delimiter())
		if err != nil {
			s.respondError(w, r, http.StatusInternalServerError, "failed to render csv", err)
			return
		}
		body, contentType = out, "text/csv"
		name = strings.TrimSuffix(name, filepath.Ext(name)) + ".csv"
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	if _, err := w.Write(body); err != nil {
		s.logger.Warn("failed to write file response", "err", err)
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// respondError logs the error and returns a minimal JSON error body.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, status int, message string, err error) {
	if err != nil {
		s.logger.Warn("request error", "status", status, "msg", message, "err", err, "method", r.Method, "path", r.URL.Path)
	} else {
		s.logger.Warn("request error", "status", status, "msg", message, "method", r.Method, "path", r.URL.Path)
	}
	body := map[string]string{"status": "error", "error": message}
	if err != nil {
		body["detail"] = err.Error()
	}
	_ = s.writeJSON(w, status, body)
}

// withLogging wraps a handler to log requests and recover panics.
func (s *Server) withLogging(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.logger.Debug("http request", "method", r.Method, "path", r.URL.Path, "remote", r.RemoteAddr)
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("panic recovered", "panic", rec, "method", r.Method, "path", r.URL.Path)
				s.respondError(w, r, http.StatusInternalServerError, "internal server error", fmt.Errorf("panic: %v", rec))
			}
		}()
		next(w, r)
	}
}
