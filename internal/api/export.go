package api

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/sherpa-wfm/backend/internal/cache"
	"github.com/sherpa-wfm/backend/internal/schedule"
	"github.com/sherpa-wfm/backend/internal/types"
)

// ExportHandler streams the planner grid as CSV for spreadsheet handoff.
type ExportHandler struct {
	cache  *cache.AgentCache
	logger zerolog.Logger
}

// NewExportHandler creates a new ExportHandler
func NewExportHandler(agentCache *cache.AgentCache, logger zerolog.Logger) *ExportHandler {
	return &ExportHandler{
		cache:  agentCache,
		logger: logger.With().Str("component", "export").Logger(),
	}
}

// ExportCSV handles GET /api/planner/export?month=YYYY-MM.
// One row per agent, one column per day, raw slot values as entered.
func (h *ExportHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	monthKey := r.URL.Query().Get("month")
	if monthKey == "" {
		monthKey = time.Now().Format("2006-01")
	}

	parsed, err := time.Parse("2006-01", monthKey)
	if err != nil {
		http.Error(w, `{"error":"invalid month, expected YYYY-MM"}`, http.StatusBadRequest)
		return
	}

	// Day zero of the following month is the last day of this one
	daysInMonth := time.Date(parsed.Year(), parsed.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()

	agents := h.cache.All()

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="planner-%s.csv"`, monthKey))

	cw := csv.NewWriter(w)

	header := []string{"Full Name", "Username", "Primary Team", "Contract Hours", "Total Hours"}
	for day := 1; day <= daysInMonth; day++ {
		header = append(header, strconv.Itoa(day))
	}
	if err := cw.Write(header); err != nil {
		h.logger.Error().Err(err).Msg("failed to write csv header")
		return
	}

	for _, agent := range agents {
		row := exportRow(agent, daysInMonth)
		if err := cw.Write(row); err != nil {
			h.logger.Error().Err(err).Str("agent_id", agent.ID).Msg("failed to write csv row")
			return
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		h.logger.Error().Err(err).Msg("failed to flush csv")
		return
	}

	h.logger.Info().Str("month", monthKey).Int("agents", len(agents)).Msg("planner exported")
}

func exportRow(agent types.AgentRecord, daysInMonth int) []string {
	row := []string{
		agent.FullName,
		agent.Username,
		agent.PrimaryTeam,
		strconv.Itoa(agent.ContractHours),
		strconv.Itoa(schedule.TotalHoursForAgent(agent)),
	}
	for day := 0; day < daysInMonth; day++ {
		row = append(row, agent.Slot(day))
	}
	return row
}
