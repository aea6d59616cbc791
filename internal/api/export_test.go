package api

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/sherpa-wfm/backend/internal/cache"
	"github.com/sherpa-wfm/backend/internal/types"
)

func TestExportCSV(t *testing.T) {
	agentCache := cache.NewAgentCache()

	days := make([]string, types.DaysPerSchedule)
	days[0] = "8 RO"
	days[1] = "SL"
	agentCache.Upsert(types.AgentRecord{
		ID:            "a1",
		FullName:      "Ana Pop",
		Username:      "ana.pop.fsp",
		PrimaryTeam:   "RO",
		ContractHours: 8,
		Days:          days,
	})

	h := NewExportHandler(agentCache, zerolog.New(&bytes.Buffer{}))

	req := httptest.NewRequest(http.MethodGet, "/api/planner/export?month=2025-02", nil)
	w := httptest.NewRecorder()
	h.ExportCSV(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	if ct := w.Header().Get("Content-Type"); ct != "text/csv; charset=utf-8" {
		t.Errorf("expected csv content type, got %s", ct)
	}

	records, err := csv.NewReader(w.Body).ReadAll()
	if err != nil {
		t.Fatalf("failed to parse csv: %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("expected header plus 1 row, got %d records", len(records))
	}

	// 5 fixed columns plus 28 days for February 2025
	if len(records[0]) != 33 {
		t.Errorf("expected 33 header columns, got %d", len(records[0]))
	}

	row := records[1]
	if row[0] != "Ana Pop" || row[1] != "ana.pop.fsp" {
		t.Errorf("unexpected identity columns: %v", row[:2])
	}
	if row[4] != "8" {
		t.Errorf("expected 8 total hours, got %s", row[4])
	}
	if row[5] != "8 RO" || row[6] != "SL" {
		t.Errorf("unexpected day columns: %q, %q", row[5], row[6])
	}
}

func TestExportCSVBadMonth(t *testing.T) {
	h := NewExportHandler(cache.NewAgentCache(), zerolog.New(&bytes.Buffer{}))

	req := httptest.NewRequest(http.MethodGet, "/api/planner/export?month=Feb-2025", nil)
	w := httptest.NewRecorder()
	h.ExportCSV(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}
