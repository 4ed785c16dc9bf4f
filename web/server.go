// Package web serves a localhost-only single-user UI; it intentionally has no
// auth/CSRF protection in this mode.
package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"mime"
	"net/http"
	"strings"
	"sync"
	"time"

	"zeiterfassung/entrystore"
	"zeiterfassung/gateway"
	"zeiterfassung/internal/log"
	"zeiterfassung/mirror"
	"zeiterfassung/output"
	"zeiterfassung/settings"
	"zeiterfassung/worklog"
)

//go:embed templates/*.html
var templateFS embed.FS

type Options struct {
	Entries     *entrystore.Store
	Settings    *settings.Store
	Gateway     *gateway.Gateway
	Syncer      *mirror.Syncer
	CompanyName string
	Logger      *log.Logger
	Now         func() time.Time
}

type Server struct {
	entries     *entrystore.Store
	settings    *settings.Store
	gateway     *gateway.Gateway
	syncer      *mirror.Syncer
	companyName string
	logger      *log.Logger
	now         func() time.Time

	mux        *http.ServeMux
	background sync.WaitGroup
}

type monthPageView struct {
	Title         string
	CompanyName   string
	CurrentMonth  string
	Label         string
	PreviousMonth string
	NextMonth     string
	Today         string
	Months        []MonthOption
	Days          []DayRow
	EntryCount    int
	TotalHours    float64
	TotalPay      float64
	Settings      worklog.Settings
	Selection     gateway.State
	Sync          mirror.Status
}

type deleteSelectedRequest struct {
	Confirm bool `json:"confirm"`
}

type deleteSelectedResponse struct {
	Removed int           `json:"removed"`
	State   gateway.State `json:"state"`
}

type monthListItem struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

func NewServer(options Options) *Server {
	logger := options.Logger
	if logger == nil {
		logger = log.Discard()
	}
	now := options.Now
	if now == nil {
		now = time.Now
	}

	server := &Server{
		entries:     options.Entries,
		settings:    options.Settings,
		gateway:     options.Gateway,
		syncer:      options.Syncer,
		companyName: options.CompanyName,
		logger:      logger,
		now:         now,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", server.handleRoot)
	mux.HandleFunc("GET /month", server.handleMonthPicker)
	mux.HandleFunc("GET /month/{month}", server.handleMonth)
	mux.HandleFunc("GET /export/{month}", server.handleExport)
	mux.HandleFunc("GET /api/months", server.handleAPIMonths)
	mux.HandleFunc("GET /api/month/{month}", server.handleAPIMonth)
	mux.HandleFunc("POST /api/entries", server.handleAPIEntryCreate)
	mux.HandleFunc("PATCH /api/entries/{id}", server.handleAPIEntryPatch)
	mux.HandleFunc("DELETE /api/entries/{id}", server.handleAPIEntryDelete)
	mux.HandleFunc("GET /api/selection", server.handleAPISelection)
	mux.HandleFunc("POST /api/selection/mode", server.handleAPISelectionMode)
	mux.HandleFunc("POST /api/selection/toggle/{id}", server.handleAPISelectionToggle)
	mux.HandleFunc("POST /api/selection/delete", server.handleAPISelectionDelete)
	mux.HandleFunc("GET /api/settings", server.handleAPISettingsGet)
	mux.HandleFunc("PUT /api/settings", server.handleAPISettingsPut)
	mux.HandleFunc("POST /api/sync/pull", server.handleAPISyncPull)
	mux.HandleFunc("GET /api/sync/status", server.handleAPISyncStatus)
	server.mux = mux

	return server
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	s.mux.ServeHTTP(recorder, r)
	s.logger.Debug("request",
		"method", r.Method,
		"path", r.URL.Path,
		"status", recorder.status,
		"duration", time.Since(started),
	)
}

// Wait blocks until background pulls started by the server finished or ctx is
// done.
func (s *Server) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.background.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// StartPull refreshes the store from the remote mirror in the background.
// It reports false when no endpoint is configured.
func (s *Server) StartPull() bool {
	if !mirror.Enabled(s.settings.Current()) {
		return false
	}
	s.background.Add(1)
	go func() {
		defer s.background.Done()
		// Failures are logged and recorded by the syncer.
		_ = s.syncer.Refresh(context.Background(), s.entries)
	}()
	return true
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/month/"+output.MonthOf(s.now()).String(), http.StatusFound)
}

func (s *Server) handleMonthPicker(w http.ResponseWriter, r *http.Request) {
	month := strings.TrimSpace(r.URL.Query().Get("month"))
	if month == "" {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	if _, err := output.ParseMonthKey(month); err != nil {
		http.Error(w, "invalid month format (expected YYYY-MM)", http.StatusBadRequest)
		return
	}
	http.Redirect(w, r, "/month/"+month, http.StatusFound)
}

func (s *Server) handleMonth(w http.ResponseWriter, r *http.Request) {
	key, err := output.ParseMonthKey(r.PathValue("month"))
	if err != nil {
		http.Error(w, "invalid month format (expected YYYY-MM)", http.StatusBadRequest)
		return
	}

	current := s.settings.Current()
	entries := s.entries.List()
	summary := output.BuildMonthSummary(entries, key.Year, key.Month, current.HourlyWage)
	selection := s.gateway.State()

	view := monthPageView{
		Title:         "Zeiterfassung - " + summary.Label,
		CompanyName:   s.companyName,
		CurrentMonth:  key.String(),
		Label:         summary.Label,
		PreviousMonth: key.Previous().String(),
		NextMonth:     key.Next().String(),
		Today:         s.now().Format("2006-01-02"),
		Months:        BuildMonthOptions(output.AvailableMonths(entries, s.now()), key),
		Days:          BuildDayRows(summary, selection),
		EntryCount:    len(summary.Entries),
		TotalHours:    summary.TotalHours,
		TotalPay:      summary.TotalPay,
		Settings:      current,
		Selection:     selection,
		Sync:          s.syncer.Status(),
	}
	if err := renderTemplate(w, "month.html", view); err != nil {
		s.logger.Error("render month page", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	key, err := output.ParseMonthKey(r.PathValue("month"))
	if err != nil {
		http.Error(w, "invalid month format (expected YYYY-MM)", http.StatusBadRequest)
		return
	}
	writer, err := output.WriterForFormat(r.URL.Query().Get("format"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	summary := output.BuildMonthSummary(s.entries.List(), key.Year, key.Month, s.settings.Current().HourlyWage)
	if len(summary.Entries) == 0 {
		http.Error(w, "Keine Einträge für diesen Monat", http.StatusNotFound)
		return
	}

	filename := output.ExportFileName(summary, writer.Extension())
	w.Header().Set("Content-Type", writer.ContentType())
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	if err := writer.Write(w, output.BuildExportRows(summary, s.companyName)); err != nil {
		s.logger.Error("write export", "month", key.String(), "error", err)
	}
}

func (s *Server) handleAPIMonths(w http.ResponseWriter, r *http.Request) {
	months := output.AvailableMonths(s.entries.List(), s.now())
	items := make([]monthListItem, 0, len(months))
	for _, key := range months {
		items = append(items, monthListItem{Key: key.String(), Label: key.Label()})
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleAPIMonth(w http.ResponseWriter, r *http.Request) {
	key, err := output.ParseMonthKey(r.PathValue("month"))
	if err != nil {
		http.Error(w, "invalid month format (expected YYYY-MM)", http.StatusBadRequest)
		return
	}
	summary := output.BuildMonthSummary(s.entries.List(), key.Year, key.Month, s.settings.Current().HourlyWage)
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleAPIEntryCreate(w http.ResponseWriter, r *http.Request) {
	var body worklog.Draft
	if err := decodeJSON(r, &body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	entry, err := s.gateway.Create(body)
	if err != nil {
		http.Error(w, err.Error(), mutationErrorStatus(err))
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (s *Server) handleAPIEntryPatch(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("id"))
	var body worklog.Draft
	if err := decodeJSON(r, &body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	entry, found, err := s.gateway.Update(id, body)
	if err != nil {
		http.Error(w, err.Error(), mutationErrorStatus(err))
		return
	}
	if !found {
		http.Error(w, "entry not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (s *Server) handleAPIEntryDelete(w http.ResponseWriter, r *http.Request) {
	removed, err := s.gateway.Delete(strings.TrimSpace(r.PathValue("id")))
	if err != nil {
		http.Error(w, err.Error(), mutationErrorStatus(err))
		return
	}
	if !removed {
		http.Error(w, "entry not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAPISelection(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.gateway.State())
}

func (s *Server) handleAPISelectionMode(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.gateway.ToggleMultiSelect())
}

func (s *Server) handleAPISelectionToggle(w http.ResponseWriter, r *http.Request) {
	state, applied := s.gateway.ToggleSelection(strings.TrimSpace(r.PathValue("id")))
	if !applied {
		http.Error(w, "multi-select mode is off", http.StatusConflict)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleAPISelectionDelete(w http.ResponseWriter, r *http.Request) {
	var body deleteSelectedRequest
	if err := decodeJSON(r, &body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	confirm := gateway.ConfirmFunc(func(string) bool { return body.Confirm })
	removed, err := s.gateway.DeleteSelected(confirm)
	if errors.Is(err, gateway.ErrNotConfirmed) {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, deleteSelectedResponse{Removed: removed, State: s.gateway.State()})
}

func (s *Server) handleAPISettingsGet(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.settings.Current())
}

func (s *Server) handleAPISettingsPut(w http.ResponseWriter, r *http.Request) {
	var body worklog.Settings
	if err := decodeJSON(r, &body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := s.settings.Save(body); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, worklog.ErrInvalidSettings) {
			status = http.StatusBadRequest
		}
		http.Error(w, err.Error(), status)
		return
	}
	writeJSON(w, http.StatusOK, s.settings.Current())
}

func (s *Server) handleAPISyncPull(w http.ResponseWriter, r *http.Request) {
	if !s.StartPull() {
		http.Error(w, mirror.ErrDisabled.Error(), http.StatusConflict)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]bool{"started": true})
}

func (s *Server) handleAPISyncStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.syncer.Status())
}

func renderTemplate(w http.ResponseWriter, pageTemplate string, data any) error {
	tmpl, err := template.New("base.html").Funcs(template.FuncMap{
		"fmtHours":     formatHours,
		"fmtMoney":     formatMoney,
		"fmtTimestamp": formatTimestamp,
	}).ParseFS(templateFS, "templates/base.html", "templates/"+pageTemplate)
	if err != nil {
		return fmt.Errorf("parse template %s: %w", pageTemplate, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "base", data); err != nil {
		return fmt.Errorf("render template %s: %w", pageTemplate, err)
	}
	return nil
}

func mutationErrorStatus(err error) int {
	if errors.Is(err, worklog.ErrInvalidEntry) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func decodeJSON(r *http.Request, out any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(out); err != nil {
		return err
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return fmt.Errorf("request body must contain a single JSON object")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
