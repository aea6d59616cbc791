// Package bulkedit converts a cell selection plus a new allocation value
// into per-agent days-array patches. It is pure: persistence, selection
// clearing and user feedback are the caller's job.
package bulkedit

import (
	"errors"
	"fmt"

	"github.com/sherpa-wfm/backend/internal/alloc"
	"github.com/sherpa-wfm/backend/internal/selection"
	"github.com/sherpa-wfm/backend/internal/types"
)

// ErrHourLimitExceeded is returned when the new value's work hours exceed
// the daily cap. The whole call fails; no patches are produced.
var ErrHourLimitExceeded = errors.New("allocation exceeds daily hour limit")

// Apply groups the selected cells by agent and produces one patch per
// touched agent, each a clone of that agent's days array with every
// selected in-range slot replaced by the encoded new value.
//
// Validation is all-or-nothing: an over-cap work value fails the call
// before any patch is built. Selection keys whose agent is missing from
// agents are skipped silently, since the agent list can be momentarily
// stale relative to the selection. Day indices outside an agent's stored
// array are skipped the same way.
func Apply(sel []selection.Key, newValue alloc.Allocation, agents []types.AgentRecord) ([]types.Patch, error) {
	if newValue.Kind == alloc.KindWork {
		if total := alloc.TotalHours(newValue); total > alloc.MaxDailyHours {
			return nil, fmt.Errorf("%w: %d > %d", ErrHourLimitExceeded, total, alloc.MaxDailyHours)
		}
	}

	byID := make(map[string]types.AgentRecord, len(agents))
	for _, agent := range agents {
		byID[agent.ID] = agent
	}

	byAgent := make(map[string][]int)
	var order []string
	for _, key := range sel {
		if _, ok := byID[key.AgentID]; !ok {
			continue
		}
		if _, seen := byAgent[key.AgentID]; !seen {
			order = append(order, key.AgentID)
		}
		byAgent[key.AgentID] = append(byAgent[key.AgentID], key.DayIndex)
	}

	encoded := alloc.Encode(newValue)

	patches := make([]types.Patch, 0, len(order))
	for _, agentID := range order {
		agent := byID[agentID]
		days := make([]string, len(agent.Days))
		copy(days, agent.Days)

		touched := false
		for _, dayIndex := range byAgent[agentID] {
			if dayIndex < 0 || dayIndex >= len(days) {
				continue
			}
			days[dayIndex] = encoded
			touched = true
		}
		if !touched {
			continue
		}
		patches = append(patches, types.Patch{AgentID: agentID, Days: days})
	}

	return patches, nil
}
