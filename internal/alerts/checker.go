package alerts

import (
	"fmt"

	"github.com/sherpa-wfm/backend/internal/alloc"
	"github.com/sherpa-wfm/backend/internal/types"
)

// CheckSchedules scans every agent's stored slots and reports days that
// need planner attention. The bulk editor rejects over-cap values before
// they are written, but legacy data and direct imports can still carry
// them; unparseable slots are surfaced as warnings instead of being
// silently read as empty.
func CheckSchedules(agents []types.AgentRecord) []types.ScheduleAlert {
	var out []types.ScheduleAlert

	for _, agent := range agents {
		for dayIndex, slot := range agent.Days {
			if slot == "" {
				continue
			}

			a, err := alloc.DecodeStrict(slot)
			if err != nil {
				out = append(out, types.ScheduleAlert{
					Rule:     "unparseable_slot",
					Severity: types.SeverityWarning,
					AgentID:  agent.ID,
					DayIndex: dayIndex,
					Message:  fmt.Sprintf("slot %q cannot be parsed and is read as empty", slot),
				})
				continue
			}

			if total := alloc.TotalHours(a); total > alloc.MaxDailyHours {
				out = append(out, types.ScheduleAlert{
					Rule:     "over_daily_cap",
					Severity: types.SeverityCritical,
					AgentID:  agent.ID,
					DayIndex: dayIndex,
					Message:  fmt.Sprintf("%dh allocated, cap is %dh", total, alloc.MaxDailyHours),
				})
			}
		}
	}

	return out
}
