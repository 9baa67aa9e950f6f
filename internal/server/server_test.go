package server

import (
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestHealthHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	healthHandler(rec, httptest.NewRequest("GET", "/api/health", nil))

	if rec.Code != 200 {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %q, want ok", body["status"])
	}
}

func TestRunsHandlerListsNewestFirst(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"2026-03-01_10-00-00", "2026-03-02_10-00-00"} {
		if err := os.MkdirAll(filepath.Join(dir, name), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, "2026-03-02_10-00-00", "index.html"), []byte("<html>"), 0o644); err != nil {
		t.Fatal(err)
	}

	rec := httptest.NewRecorder()
	runsHandler(dir)(rec, httptest.NewRequest("GET", "/api/runs", nil))

	var runs []struct {
		Name      string `json:"name"`
		HasReport bool   `json:"hasReport"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &runs); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want 2", len(runs))
	}
	if runs[0].Name != "2026-03-02_10-00-00" || !runs[0].HasReport {
		t.Errorf("newest run first with report flag, got %+v", runs[0])
	}
	if runs[1].HasReport {
		t.Errorf("run without index.html flagged as having a report")
	}
}
