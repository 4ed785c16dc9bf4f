package web

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"zeiterfassung/entrystore"
	"zeiterfassung/gateway"
	"zeiterfassung/mirror"
	"zeiterfassung/settings"
	"zeiterfassung/storage"
	"zeiterfassung/worklog"
)

var testNow = time.Date(2024, time.March, 20, 10, 0, 0, 0, time.Local)

type testApp struct {
	server   *Server
	ts       *httptest.Server
	entries  *entrystore.Store
	settings *settings.Store
	syncer   *mirror.Syncer
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	durable, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "web_test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = durable.Close() })

	settingsStore := settings.NewStore(durable)
	client := mirror.NewClient(mirror.ClientConfig{CompanyName: "Zimmerei", Timeout: 5 * time.Second})
	syncer := mirror.NewSyncer(client, settingsStore, nil)
	entries := entrystore.New(durable, syncer, entrystore.Options{})

	server := NewServer(Options{
		Entries:     entries,
		Settings:    settingsStore,
		Gateway:     gateway.New(entries, nil),
		Syncer:      syncer,
		CompanyName: "Zimmerei",
		Now:         func() time.Time { return testNow },
	})
	ts := httptest.NewServer(server)
	t.Cleanup(ts.Close)

	return &testApp{server: server, ts: ts, entries: entries, settings: settingsStore, syncer: syncer}
}

func (a *testApp) seed(t *testing.T, drafts ...worklog.Draft) []worklog.Entry {
	t.Helper()
	created, err := a.entries.CreateMany(drafts)
	if err != nil {
		t.Fatalf("seed entries: %v", err)
	}
	return created
}

func (a *testApp) do(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequest(method, a.ts.URL+path, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}

func expectStatus(t *testing.T, resp *http.Response, want int) {
	t.Helper()
	if resp.StatusCode != want {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("expected status %d, got %d: %s", want, resp.StatusCode, strings.TrimSpace(string(body)))
	}
}

func TestServer_RootRedirectsToCurrentMonth(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)
	client := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }}
	resp, err := client.Get(app.ts.URL + "/")
	if err != nil {
		t.Fatalf("request root: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusFound || resp.Header.Get("Location") != "/month/2024-03" {
		t.Fatalf("unexpected redirect: %d %q", resp.StatusCode, resp.Header.Get("Location"))
	}
}

func TestServer_MonthPageRendersEntriesAndTotals(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)
	app.seed(t,
		worklog.Draft{Date: "2024-03-01", From: "08:00", To: "12:00"},
		worklog.Draft{Date: "2024-03-15", From: "13:00", To: "17:30"},
		worklog.Draft{Date: "2024-04-01", From: "08:00", To: "09:00"},
	)

	resp := app.do(t, http.MethodGet, "/month/2024-03", nil)
	expectStatus(t, resp, http.StatusOK)
	body, _ := io.ReadAll(resp.Body)
	text := string(body)

	for _, want := range []string{"März 2024", "2024-03-15", "8.50", "323.00 CHF", "/month/2024-02", "/month/2024-04"} {
		if !strings.Contains(text, want) {
			t.Fatalf("month page missing %q", want)
		}
	}
	if strings.Contains(text, "2024-04-01") {
		t.Fatalf("month page must not show April entries")
	}

	bad := app.do(t, http.MethodGet, "/month/2024-3x", nil)
	expectStatus(t, bad, http.StatusBadRequest)
}

func TestServer_MonthPageOffersEditSettingsAndDeleteConfirm(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)
	created := app.seed(t, worklog.Draft{Date: "2024-03-04", From: "7:30", To: "12:00"})
	if err := app.settings.Save(worklog.Settings{ScriptURL: "https://example.test/exec", HourlyWage: 42.5}); err != nil {
		t.Fatalf("save settings: %v", err)
	}

	resp := app.do(t, http.MethodGet, "/month/2024-03", nil)
	expectStatus(t, resp, http.StatusOK)
	body, _ := io.ReadAll(resp.Body)
	text := string(body)

	for _, want := range []string{
		`id="edit-form"`,
		`id="btn-edit-save"`,
		`class="entry-edit" data-id="` + created[0].ID + `"`,
		`data-from="07:30"`,
		`send("PATCH", "/api/entries/"`,
		`id="settings-form"`,
		`value="https://example.test/exec"`,
		`value="42.5"`,
		`send("PUT", "/api/settings"`,
		`confirm("Eintrag löschen?")`,
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("month page missing %q", want)
		}
	}
}

func TestServer_APIMonthSummary(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)
	if err := app.settings.Save(worklog.Settings{HourlyWage: 40}); err != nil {
		t.Fatalf("save settings: %v", err)
	}
	app.seed(t,
		worklog.Draft{Date: "2024-03-01", From: "08:00", To: "12:00"},
		worklog.Draft{Date: "2024-03-15", From: "13:00", To: "17:30"},
	)

	resp := app.do(t, http.MethodGet, "/api/month/2024-03", nil)
	expectStatus(t, resp, http.StatusOK)
	summary := decodeBody[struct {
		TotalHours float64         `json:"totalHours"`
		TotalPay   float64         `json:"totalPay"`
		Entries    []worklog.Entry `json:"entries"`
	}](t, resp)
	if summary.TotalHours != 8.5 || summary.TotalPay != 340 {
		t.Fatalf("unexpected totals: %+v", summary)
	}
	if len(summary.Entries) != 2 || summary.Entries[0].Date != "2024-03-15" {
		t.Fatalf("expected newest first, got %+v", summary.Entries)
	}

	months := app.do(t, http.MethodGet, "/api/months", nil)
	expectStatus(t, months, http.StatusOK)
	items := decodeBody[[]monthListItem](t, months)
	if len(items) != 1 || items[0].Key != "2024-03" || items[0].Label != "März 2024" {
		t.Fatalf("unexpected months: %+v", items)
	}
}

func TestServer_EntryLifecycle(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)

	resp := app.do(t, http.MethodPost, "/api/entries", worklog.Draft{Date: "2024-03-02", From: "22:00", To: "06:00"})
	expectStatus(t, resp, http.StatusCreated)
	created := decodeBody[worklog.Entry](t, resp)
	if created.ID == "" || created.Hours != 8 {
		t.Fatalf("unexpected created entry: %+v", created)
	}

	invalid := app.do(t, http.MethodPost, "/api/entries", map[string]string{"date": "2024-03-02"})
	expectStatus(t, invalid, http.StatusBadRequest)
	if app.entries.Len() != 1 {
		t.Fatalf("invalid create must not add an entry")
	}

	patched := app.do(t, http.MethodPatch, "/api/entries/"+created.ID, worklog.Draft{Date: "2024-03-02", From: "07:00", To: "07:45"})
	expectStatus(t, patched, http.StatusOK)
	if updated := decodeBody[worklog.Entry](t, patched); updated.Hours != 0.75 || updated.ID != created.ID {
		t.Fatalf("unexpected updated entry: %+v", updated)
	}

	missing := app.do(t, http.MethodPatch, "/api/entries/nope", worklog.Draft{Date: "2024-03-02", From: "07:00", To: "08:00"})
	expectStatus(t, missing, http.StatusNotFound)

	deleted := app.do(t, http.MethodDelete, "/api/entries/"+created.ID, nil)
	expectStatus(t, deleted, http.StatusNoContent)
	if app.entries.Len() != 0 {
		t.Fatalf("expected store to be empty after delete")
	}

	again := app.do(t, http.MethodDelete, "/api/entries/"+created.ID, nil)
	expectStatus(t, again, http.StatusNotFound)
}

func TestServer_BatchDeleteFlow(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)
	entries := app.seed(t,
		worklog.Draft{Date: "2024-03-01", From: "07:00", To: "08:00"},
		worklog.Draft{Date: "2024-03-02", From: "07:00", To: "08:00"},
		worklog.Draft{Date: "2024-03-03", From: "07:00", To: "08:00"},
		worklog.Draft{Date: "2024-03-04", From: "07:00", To: "08:00"},
		worklog.Draft{Date: "2024-03-05", From: "07:00", To: "08:00"},
	)

	offMode := app.do(t, http.MethodPost, "/api/selection/toggle/"+entries[0].ID, nil)
	expectStatus(t, offMode, http.StatusConflict)

	mode := app.do(t, http.MethodPost, "/api/selection/mode", nil)
	expectStatus(t, mode, http.StatusOK)
	if state := decodeBody[gateway.State](t, mode); !state.MultiSelect {
		t.Fatalf("expected multi-select on")
	}

	for _, entry := range []worklog.Entry{entries[0], entries[4]} {
		resp := app.do(t, http.MethodPost, "/api/selection/toggle/"+entry.ID, nil)
		expectStatus(t, resp, http.StatusOK)
	}

	declined := app.do(t, http.MethodPost, "/api/selection/delete", map[string]bool{"confirm": false})
	expectStatus(t, declined, http.StatusConflict)
	if app.entries.Len() != 5 {
		t.Fatalf("declined delete removed entries")
	}

	confirmed := app.do(t, http.MethodPost, "/api/selection/delete", map[string]bool{"confirm": true})
	expectStatus(t, confirmed, http.StatusOK)
	result := decodeBody[deleteSelectedResponse](t, confirmed)
	if result.Removed != 2 || result.State.MultiSelect || len(result.State.Selected) != 0 {
		t.Fatalf("unexpected batch delete result: %+v", result)
	}
	if app.entries.Len() != 3 {
		t.Fatalf("expected 3 entries left, got %d", app.entries.Len())
	}

	state := app.do(t, http.MethodGet, "/api/selection", nil)
	if got := decodeBody[gateway.State](t, state); got.MultiSelect || len(got.Selected) != 0 {
		t.Fatalf("unexpected selection state: %+v", got)
	}
}

func TestServer_SettingsRoundTrip(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)

	initial := app.do(t, http.MethodGet, "/api/settings", nil)
	expectStatus(t, initial, http.StatusOK)
	if got := decodeBody[worklog.Settings](t, initial); got.HourlyWage != 38 || got.ScriptURL != "" {
		t.Fatalf("unexpected default settings: %+v", got)
	}

	invalid := app.do(t, http.MethodPut, "/api/settings", map[string]any{"scriptUrl": "not a url", "hourlyWage": 40})
	expectStatus(t, invalid, http.StatusBadRequest)

	saved := app.do(t, http.MethodPut, "/api/settings", map[string]any{"scriptUrl": "https://example.test/exec", "hourlyWage": 42.5})
	expectStatus(t, saved, http.StatusOK)
	if app.settings.Current().HourlyWage != 42.5 {
		t.Fatalf("settings not applied: %+v", app.settings.Current())
	}
}

func TestServer_PullReplacesStoreAndPushesMutations(t *testing.T) {
	t.Parallel()

	var (
		mu     sync.Mutex
		pushed []map[string]any
	)
	remote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			if r.URL.Query().Get("action") != "read" {
				http.Error(w, "unknown action", http.StatusBadRequest)
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{
				"status": "success",
				"entries": []map[string]any{
					{"id": "remote-1", "date": "2024-03-05T00:00:00.000Z", "from": "07:00", "to": "16:00", "hours": 9},
				},
			})
		case http.MethodPost:
			var body map[string]any
			_ = json.NewDecoder(r.Body).Decode(&body)
			mu.Lock()
			pushed = append(pushed, body)
			mu.Unlock()
			_, _ = io.WriteString(w, "ok")
		}
	}))
	defer remote.Close()

	app := newTestApp(t)
	if err := app.settings.Save(worklog.Settings{ScriptURL: remote.URL, HourlyWage: 38}); err != nil {
		t.Fatalf("save settings: %v", err)
	}
	app.seed(t, worklog.Draft{Date: "2024-03-01", From: "07:00", To: "08:00"})

	resp := app.do(t, http.MethodPost, "/api/sync/pull", nil)
	expectStatus(t, resp, http.StatusAccepted)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := app.server.Wait(ctx); err != nil {
		t.Fatalf("wait for pull: %v", err)
	}
	if err := app.syncer.Wait(ctx); err != nil {
		t.Fatalf("wait for pushes: %v", err)
	}

	list := app.entries.List()
	if len(list) != 1 || list[0].ID != "remote-1" || list[0].Date != "2024-03-05" {
		t.Fatalf("expected remote collection, got %+v", list)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(pushed) != 1 || pushed[0]["action"] != "write" || pushed[0]["companyName"] != "Zimmerei" {
		t.Fatalf("expected one push for the seed, got %+v", pushed)
	}

	status := app.do(t, http.MethodGet, "/api/sync/status", nil)
	if got := decodeBody[mirror.Status](t, status); !got.Enabled || got.LastPull.IsZero() {
		t.Fatalf("unexpected sync status: %+v", got)
	}
}

func TestServer_PullDisabledWithoutEndpoint(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)
	resp := app.do(t, http.MethodPost, "/api/sync/pull", nil)
	expectStatus(t, resp, http.StatusConflict)
}

func TestServer_ExportDownloads(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)
	app.seed(t,
		worklog.Draft{Date: "2024-03-01", From: "08:00", To: "12:00"},
		worklog.Draft{Date: "2024-03-15", From: "13:00", To: "17:30"},
	)

	resp := app.do(t, http.MethodGet, "/export/2024-03?format=xlsx", nil)
	expectStatus(t, resp, http.StatusOK)
	if !strings.Contains(resp.Header.Get("Content-Disposition"), "attachment") {
		t.Fatalf("missing attachment disposition: %q", resp.Header.Get("Content-Disposition"))
	}
	body, _ := io.ReadAll(resp.Body)
	file, err := excelize.OpenReader(bytes.NewReader(body))
	if err != nil {
		t.Fatalf("open exported workbook: %v", err)
	}
	defer file.Close()
	if sheets := file.GetSheetList(); len(sheets) != 1 || sheets[0] != "März 2024" {
		t.Fatalf("unexpected sheets: %v", sheets)
	}

	csvResp := app.do(t, http.MethodGet, "/export/2024-03?format=csv", nil)
	expectStatus(t, csvResp, http.StatusOK)
	csvBody, _ := io.ReadAll(csvResp.Body)
	if !strings.Contains(string(csvBody), "Total,8.50,323.00") {
		t.Fatalf("unexpected csv export: %s", csvBody)
	}

	empty := app.do(t, http.MethodGet, "/export/2024-06", nil)
	expectStatus(t, empty, http.StatusNotFound)

	unsupported := app.do(t, http.MethodGet, "/export/2024-03?format=pdf", nil)
	expectStatus(t, unsupported, http.StatusBadRequest)
}
