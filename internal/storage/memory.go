package storage

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/sherpa-wfm/backend/internal/types"
)

// MemStore is an in-memory Store used for local development and handler
// tests. It applies the same record normalization as the DynamoDB store.
type MemStore struct {
	agents map[string]types.AgentRecord
	mu     sync.RWMutex
}

func NewMemStore() *MemStore {
	return &MemStore{agents: make(map[string]types.AgentRecord)}
}

func (s *MemStore) ListAgents(_ context.Context) ([]types.AgentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	agents := make([]types.AgentRecord, 0, len(s.agents))
	for _, agent := range s.agents {
		agents = append(agents, agent)
	}
	return agents, nil
}

func (s *MemStore) GetAgent(_ context.Context, id string) (types.AgentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	agent, ok := s.agents[id]
	if !ok {
		return types.AgentRecord{}, ErrAgentNotFound
	}
	return agent, nil
}

func (s *MemStore) CreateAgent(_ context.Context, record types.AgentRecord) (string, error) {
	record.ID = uuid.New().String()
	record = normalize(record)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.agents[record.ID] = record
	return record.ID, nil
}

func (s *MemStore) UpdateAgent(_ context.Context, record types.AgentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.agents[record.ID]; !ok {
		return ErrAgentNotFound
	}
	s.agents[record.ID] = normalize(record)
	return nil
}

func (s *MemStore) PatchAgentDays(_ context.Context, id string, days []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	agent, ok := s.agents[id]
	if !ok {
		return ErrAgentNotFound
	}
	agent.Days = days
	s.agents[id] = agent
	return nil
}

func (s *MemStore) DeleteAgent(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.agents, id)
	return nil
}
