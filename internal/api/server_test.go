package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/S0okJu/openstack-mcp-sample/internal/catalog"
	"github.com/S0okJu/openstack-mcp-sample/internal/model"
	"github.com/S0okJu/openstack-mcp-sample/internal/security"
	"github.com/S0okJu/openstack-mcp-sample/internal/storage"
)

func newTestServer(t *testing.T) (*Server, *storage.DB) {
	t.Helper()
	db, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "api.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := db.CreateSchema(); err != nil {
		t.Fatalf("schema: %v", err)
	}
	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	return &Server{
		DB:              db,
		UserStore:       db,
		Catalog:         cat,
		Logger:          zap.NewNop().Sugar(),
		SessionDuration: time.Hour,
	}, db
}

func seedRun(t *testing.T, db *storage.DB, id string, started time.Time) {
	t.Helper()
	rep := model.Report{UnitsScanned: 1}
	rep.Add(
		model.Finding{RuleID: "SEC-CRED", Category: model.HardcodedCredentials, Severity: 10,
			Band: model.BandCritical, Unit: "src/app.py", Line: 2, Excerpt: `password = "x"`},
		model.Finding{RuleID: "SEC-ERR", Category: model.InsufficientErrorHandling, Severity: 2,
			Band: model.BandLow, Unit: "src/net.py", Line: 5, Excerpt: "requests.get(url)"},
	)
	rep.Finalize()
	run := &model.Run{ID: id, StartedAt: started, Source: "src", EngineVersion: model.Version, Report: rep}
	if err := db.SaveRun(run); err != nil {
		t.Fatalf("seed run: %v", err)
	}
}

func getJSON(t *testing.T, h http.Handler, path string, wantStatus int, out any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != wantStatus {
		t.Fatalf("GET %s: status %d, want %d (%s)", path, rec.Code, wantStatus, rec.Body.String())
	}
	if out != nil {
		if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
			t.Fatalf("GET %s: decode: %v", path, err)
		}
	}
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t)
	var got struct {
		OK bool `json:"ok"`
	}
	getJSON(t, s.Routes(), "/api/v1/health", http.StatusOK, &got)
	if !got.OK {
		t.Error("health not ok")
	}
}

func TestRunsEndpoints(t *testing.T) {
	s, db := newTestServer(t)
	t0 := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)
	seedRun(t, db, "run-1", t0)
	seedRun(t, db, "run-2", t0.Add(time.Hour))
	h := s.Routes()

	var list struct {
		Items []storage.RunRow `json:"items"`
	}
	getJSON(t, h, "/api/v1/runs", http.StatusOK, &list)
	if len(list.Items) != 2 || list.Items[0].ID != "run-2" {
		t.Fatalf("runs list = %+v", list.Items)
	}

	var latest model.Run
	getJSON(t, h, "/api/v1/runs/latest", http.StatusOK, &latest)
	if latest.ID != "run-2" {
		t.Errorf("latest = %s", latest.ID)
	}

	var one model.Run
	getJSON(t, h, "/api/v1/runs/run-1", http.StatusOK, &one)
	if one.ID != "run-1" || len(one.Report.Findings) != 2 {
		t.Errorf("run-1 = %+v", one)
	}

	getJSON(t, h, "/api/v1/runs/nope", http.StatusNotFound, nil)
}

func TestFindingsMinSeverity(t *testing.T) {
	s, db := newTestServer(t)
	seedRun(t, db, "run-1", time.Now().UTC())
	h := s.Routes()

	var got struct {
		Items []model.Finding `json:"items"`
	}
	getJSON(t, h, "/api/v1/runs/run-1/findings", http.StatusOK, &got)
	if len(got.Items) != 2 {
		t.Fatalf("unfiltered: %d items", len(got.Items))
	}
	getJSON(t, h, "/api/v1/runs/run-1/findings?min_severity=9", http.StatusOK, &got)
	if len(got.Items) != 1 || got.Items[0].RuleID != "SEC-CRED" {
		t.Fatalf("filtered: %+v", got.Items)
	}
}

func TestCategories(t *testing.T) {
	s, _ := newTestServer(t)
	var got struct {
		Count int `json:"count"`
		Items []struct {
			RuleID     string `json:"rule_id"`
			Indicators int    `json:"indicators"`
		} `json:"items"`
	}
	getJSON(t, s.Routes(), "/api/v1/categories", http.StatusOK, &got)
	if got.Count != 5 || len(got.Items) != 5 {
		t.Fatalf("categories = %+v", got)
	}
	if got.Items[0].RuleID != "SEC-CRED" || got.Items[0].Indicators == 0 {
		t.Errorf("first category = %+v", got.Items[0])
	}
}

func TestAuthFlow(t *testing.T) {
	s, db := newTestServer(t)
	hash, err := security.HashPassword("hunter22")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.CreateUser("ops", hash, "admin"); err != nil {
		t.Fatal(err)
	}
	h := s.Routes()

	// Wrong password.
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
		strings.NewReader(`{"username":"ops","password":"wrong"}`)))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad login: status %d", rec.Code)
	}

	// Good login sets a session cookie.
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
		strings.NewReader(`{"username":"ops","password":"hunter22"}`)))
	if rec.Code != http.StatusOK {
		t.Fatalf("login: status %d (%s)", rec.Code, rec.Body.String())
	}
	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookie {
			cookie = c
		}
	}
	if cookie == nil || cookie.Value == "" {
		t.Fatal("no session cookie set")
	}
	if !cookie.HttpOnly {
		t.Error("session cookie not HttpOnly")
	}

	// /me without a cookie is rejected.
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/me", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("me without cookie: status %d", rec.Code)
	}

	// /me with the cookie resolves the user.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("me: status %d", rec.Code)
	}
	var me meResp
	if err := json.Unmarshal(rec.Body.Bytes(), &me); err != nil {
		t.Fatal(err)
	}
	if me.Username != "ops" || me.Role != "admin" {
		t.Errorf("me = %+v", me)
	}

	// Logout invalidates the session.
	req = httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("logout: status %d", rec.Code)
	}
	req = httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("me after logout: status %d", rec.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	s, _ := newTestServer(t)
	rec := httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/v1/health", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("preflight: status %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("CORS header missing")
	}
}
