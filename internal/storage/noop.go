package storage

import (
	"context"

	"github.com/sherpa-wfm/backend/internal/types"
)

// NoopStore is a no-op implementation when persistence is disabled
type NoopStore struct{}

func NewNoopStore() *NoopStore { return &NoopStore{} }

func (s *NoopStore) ListAgents(_ context.Context) ([]types.AgentRecord, error) { return nil, nil }
func (s *NoopStore) GetAgent(_ context.Context, _ string) (types.AgentRecord, error) {
	return types.AgentRecord{}, ErrAgentNotFound
}
func (s *NoopStore) CreateAgent(_ context.Context, _ types.AgentRecord) (string, error) {
	return "", nil
}
func (s *NoopStore) UpdateAgent(_ context.Context, _ types.AgentRecord) error        { return nil }
func (s *NoopStore) PatchAgentDays(_ context.Context, _ string, _ []string) error    { return nil }
func (s *NoopStore) DeleteAgent(_ context.Context, _ string) error                   { return nil }
