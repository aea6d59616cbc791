package storage

import (
	"context"
	"errors"

	"github.com/sherpa-wfm/backend/internal/types"
)

// ErrAgentNotFound is returned when an agent id has no stored record.
var ErrAgentNotFound = errors.New("agent not found")

// Store defines the agent record storage interface. Days updates replace
// the full array (overwrite semantics, last-write-wins); the store keeps
// no revision counter.
type Store interface {
	ListAgents(ctx context.Context) ([]types.AgentRecord, error)
	GetAgent(ctx context.Context, id string) (types.AgentRecord, error)
	CreateAgent(ctx context.Context, record types.AgentRecord) (string, error)
	UpdateAgent(ctx context.Context, record types.AgentRecord) error
	PatchAgentDays(ctx context.Context, id string, days []string) error
	DeleteAgent(ctx context.Context, id string) error
}

// normalize resolves legacy record shapes once at the store boundary:
// missing contract hours default to 8 and a nil days array becomes an
// empty schedule. Aggregation logic never sees partial records.
func normalize(record types.AgentRecord) types.AgentRecord {
	if record.ContractHours == 0 {
		record.ContractHours = types.DefaultContractHours
	}
	if record.Days == nil {
		record.Days = emptySchedule()
	}
	if len(record.Teams) == 0 && record.PrimaryTeam != "" {
		record.Teams = []string{record.PrimaryTeam}
	}
	return record
}

func emptySchedule() []string {
	return make([]string, types.DaysPerSchedule)
}
