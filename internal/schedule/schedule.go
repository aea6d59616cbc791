// Package schedule computes per-day and per-agent aggregations over agent
// planning records. All functions are pure: they read record snapshots and
// never touch storage.
package schedule

import (
	"sort"
	"time"

	"github.com/sherpa-wfm/backend/internal/alloc"
	"github.com/sherpa-wfm/backend/internal/types"
)

// DailyStats aggregates planned hours for one calendar day. Each agent's
// slot for the day is decoded; work entries add their hours to the team's
// total and the agent to the team's distinct contributor list. Teams with
// no contributing agents are omitted. Agents are visited in the given
// order, so contributor lists are deterministic.
func DailyStats(agents []types.AgentRecord, date time.Time) types.DailyStats {
	dayIndex := date.Day() - 1

	stats := types.DailyStats{
		Date:        date.Format("2006-01-02"),
		Teams:       make(map[string]types.TeamAggregate),
		TotalAgents: len(agents),
	}
	seen := make(map[string]map[string]bool) // team -> agentID -> counted

	for _, agent := range agents {
		a := alloc.Decode(agent.Slot(dayIndex))
		if a.Kind != alloc.KindWork {
			continue
		}
		for _, entry := range a.Entries {
			stats.TotalHours += entry.Hours

			agg := stats.Teams[entry.Team]
			agg.Hours += entry.Hours
			if seen[entry.Team] == nil {
				seen[entry.Team] = make(map[string]bool)
			}
			if !seen[entry.Team][agent.ID] {
				seen[entry.Team][agent.ID] = true
				agg.AgentIDs = append(agg.AgentIDs, agent.ID)
			}
			stats.Teams[entry.Team] = agg
		}
	}

	return stats
}

// RangeStats computes DailyStats for every date in the resolved list, in
// order. Used by the dashboard trend view.
func RangeStats(agents []types.AgentRecord, dates []time.Time) []types.DailyStats {
	out := make([]types.DailyStats, len(dates))
	for i, d := range dates {
		out[i] = DailyStats(agents, d)
	}
	return out
}

// TotalHoursForAgent sums the decoded hours of every slot in the agent's
// schedule. Leave and unparseable slots count as zero.
func TotalHoursForAgent(agent types.AgentRecord) int {
	total := 0
	for _, slot := range agent.Days {
		total += alloc.TotalHours(alloc.Decode(slot))
	}
	return total
}

// Teams returns the sorted distinct team codes across all agents'
// memberships.
func Teams(agents []types.AgentRecord) []string {
	set := make(map[string]bool)
	for _, agent := range agents {
		for _, team := range agent.Teams {
			set[team] = true
		}
	}
	teams := make([]string, 0, len(set))
	for team := range set {
		teams = append(teams, team)
	}
	sort.Strings(teams)
	return teams
}

// SortedTeamCodes returns the stats' team codes in lexicographic order,
// the order callers use for stable display.
func SortedTeamCodes(stats types.DailyStats) []string {
	codes := make([]string, 0, len(stats.Teams))
	for code := range stats.Teams {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
