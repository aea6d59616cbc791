package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sherpa-wfm/backend/internal/alerts"
	"github.com/sherpa-wfm/backend/internal/alloc"
	"github.com/sherpa-wfm/backend/internal/bulkedit"
	"github.com/sherpa-wfm/backend/internal/cache"
	"github.com/sherpa-wfm/backend/internal/daterange"
	"github.com/sherpa-wfm/backend/internal/metrics"
	"github.com/sherpa-wfm/backend/internal/schedule"
	"github.com/sherpa-wfm/backend/internal/selection"
	"github.com/sherpa-wfm/backend/internal/storage"
	"github.com/sherpa-wfm/backend/internal/types"
)

const dateLayout = "2006-01-02"

// PlannerHandler serves schedule aggregation, date range resolution and
// bulk allocation edits.
type PlannerHandler struct {
	store  storage.Store
	cache  *cache.AgentCache
	logger zerolog.Logger

	// now is swappable for tests
	now func() time.Time
}

// NewPlannerHandler creates a new PlannerHandler
func NewPlannerHandler(store storage.Store, agentCache *cache.AgentCache, logger zerolog.Logger) *PlannerHandler {
	return &PlannerHandler{
		store:  store,
		cache:  agentCache,
		logger: logger.With().Str("component", "planner").Logger(),
		now:    time.Now,
	}
}

// GetStats handles GET /api/planner/stats?date=YYYY-MM-DD
func (h *PlannerHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	date := h.now()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			http.Error(w, `{"error":"invalid date, expected YYYY-MM-DD"}`, http.StatusBadRequest)
			return
		}
		date = parsed
	}

	stats := schedule.DailyStats(h.cache.All(), date)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}

// rangeResponse is the payload for single-axis range queries
type rangeResponse struct {
	Dates []string           `json:"dates"`
	Stats []types.DailyStats `json:"stats"`
}

// monthResponse is one month of a multi-month range query
type monthResponse struct {
	Month string             `json:"month"`
	Dates []string           `json:"dates"`
	Stats []types.DailyStats `json:"stats"`
}

// GetRange handles GET /api/planner/range.
//
// Query forms:
//
//	?preset=current-month
//	?start=2025-05-01&end=2025-05-15
//	?months=2025-01,2025-02
func (h *PlannerHandler) GetRange(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	agents := h.cache.All()

	switch {
	case q.Get("months") != "":
		keys := strings.Split(q.Get("months"), ",")
		months, err := daterange.ResolveMonths(keys)
		if err != nil {
			http.Error(w, fmt.Sprintf(`{"error":%q}`, err.Error()), http.StatusBadRequest)
			return
		}

		out := make([]monthResponse, 0, len(months))
		for _, m := range months {
			out = append(out, monthResponse{
				Month: m.Key,
				Dates: formatDates(m.Dates),
				Stats: schedule.RangeStats(agents, m.Dates),
			})
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(out)

	case q.Get("preset") != "":
		dates, err := daterange.ResolvePreset(daterange.Preset(q.Get("preset")), h.now())
		if err != nil {
			http.Error(w, fmt.Sprintf(`{"error":%q}`, err.Error()), http.StatusBadRequest)
			return
		}
		h.writeRange(w, agents, dates)

	case q.Get("start") != "" || q.Get("end") != "":
		start, err := time.Parse(dateLayout, q.Get("start"))
		if err != nil {
			http.Error(w, `{"error":"invalid start date, expected YYYY-MM-DD"}`, http.StatusBadRequest)
			return
		}
		end, err := time.Parse(dateLayout, q.Get("end"))
		if err != nil {
			http.Error(w, `{"error":"invalid end date, expected YYYY-MM-DD"}`, http.StatusBadRequest)
			return
		}

		dates, err := daterange.ResolveCustom(start, end)
		if err != nil {
			http.Error(w, fmt.Sprintf(`{"error":%q}`, err.Error()), http.StatusBadRequest)
			return
		}
		h.writeRange(w, agents, dates)

	default:
		http.Error(w, `{"error":"one of preset, start/end or months is required"}`, http.StatusBadRequest)
	}
}

func (h *PlannerHandler) writeRange(w http.ResponseWriter, agents []types.AgentRecord, dates []time.Time) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rangeResponse{
		Dates: formatDates(dates),
		Stats: schedule.RangeStats(agents, dates),
	})
}

func formatDates(dates []time.Time) []string {
	out := make([]string, len(dates))
	for i, d := range dates {
		out[i] = d.Format(dateLayout)
	}
	return out
}

// GetAlerts handles GET /api/planner/alerts
func (h *PlannerHandler) GetAlerts(w http.ResponseWriter, r *http.Request) {
	out := alerts.CheckSchedules(h.cache.All())
	if out == nil {
		out = []types.ScheduleAlert{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}

// BulkEdit handles POST /api/planner/bulk-edit. The whole edit is
// validated up front and rejected atomically when any cell would exceed
// the daily hour cap.
func (h *PlannerHandler) BulkEdit(w http.ResponseWriter, r *http.Request) {
	m := metrics.Get()

	var req types.BulkEditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}

	if len(req.Cells) == 0 {
		http.Error(w, `{"error":"no cells selected"}`, http.StatusBadRequest)
		return
	}

	value, err := allocationFromValue(req.Value)
	if err != nil {
		http.Error(w, fmt.Sprintf(`{"error":%q}`, err.Error()), http.StatusBadRequest)
		return
	}

	// Replay the client's cell list through a selection session so the
	// applied set carries session semantics: deduplicated, deterministic
	// order.
	session := selection.NewSession()
	for i, cell := range req.Cells {
		key := selection.Key{AgentID: cell.AgentID, DayIndex: cell.DayIndex}
		if i == 0 {
			session.Start(key, false)
		} else {
			session.Extend(key)
		}
	}
	session.End()

	patches, err := bulkedit.Apply(session.Snapshot(), value, h.cache.All())
	if err != nil {
		if errors.Is(err, bulkedit.ErrHourLimitExceeded) {
			m.RecordBulkEditRejected()
			http.Error(w, fmt.Sprintf(`{"error":%q}`, err.Error()), http.StatusUnprocessableEntity)
			return
		}
		h.logger.Error().Err(err).Msg("bulk edit failed")
		http.Error(w, `{"error":"bulk edit failed"}`, http.StatusInternalServerError)
		return
	}

	persisted := 0
	for _, patch := range patches {
		if err := h.store.PatchAgentDays(r.Context(), patch.AgentID, patch.Days); err != nil {
			h.logger.Error().Err(err).Str("agent_id", patch.AgentID).Msg("failed to persist patch")
			http.Error(w, `{"error":"failed to persist changes"}`, http.StatusInternalServerError)
			return
		}

		if agent, ok := h.cache.Get(patch.AgentID); ok {
			agent.Days = patch.Days
			h.cache.Upsert(agent)
		}
		persisted++
	}

	m.RecordBulkEdit(persisted)

	h.logger.Info().
		Int("cells", session.Count()).
		Int("patches", persisted).
		Str("value", alloc.Encode(value)).
		Msg("bulk edit applied")

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "bulk edit applied",
		"patched": persisted,
	})
}

// allocationFromValue converts the wire value into a decoded allocation.
// Leave and work entries are mutually exclusive; neither means clear.
func allocationFromValue(v types.AllocationValue) (alloc.Allocation, error) {
	if v.Leave != "" && len(v.Entries) > 0 {
		return alloc.Allocation{}, errors.New("value cannot be both leave and work")
	}

	if v.Leave != "" {
		if !alloc.IsValidLeaveCode(v.Leave) {
			return alloc.Allocation{}, fmt.Errorf("unknown leave code %q", v.Leave)
		}
		return alloc.NewLeave(alloc.LeaveCode(v.Leave)), nil
	}

	if len(v.Entries) > 0 {
		for _, entry := range v.Entries {
			if entry.Hours <= 0 {
				return alloc.Allocation{}, fmt.Errorf("entry hours must be positive, got %d", entry.Hours)
			}
			if strings.TrimSpace(entry.Team) == "" {
				return alloc.Allocation{}, errors.New("entry team is required")
			}
		}
		return alloc.Work(v.Entries...), nil
	}

	return alloc.Empty(), nil
}
