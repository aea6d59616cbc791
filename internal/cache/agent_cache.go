package cache

import (
	"sort"
	"sync"

	"github.com/sherpa-wfm/backend/internal/types"
)

// AgentCache is the in-memory mirror of the agent store. It is the read
// path for aggregation and bulk editing; every write-through is followed
// by a change notification that drives the snapshot broadcaster.
type AgentCache struct {
	agents  map[string]types.AgentRecord
	mu      sync.RWMutex
	changed chan struct{} // buffered(1), coalescing
}

// NewAgentCache creates an empty agent cache.
func NewAgentCache() *AgentCache {
	return &AgentCache{
		agents:  make(map[string]types.AgentRecord),
		changed: make(chan struct{}, 1),
	}
}

// ReplaceAll swaps the full agent collection, e.g. after the initial store
// load.
func (c *AgentCache) ReplaceAll(agents []types.AgentRecord) {
	c.mu.Lock()
	c.agents = make(map[string]types.AgentRecord, len(agents))
	for _, agent := range agents {
		c.agents[agent.ID] = agent
	}
	c.mu.Unlock()
	c.notify()
}

// Upsert inserts or replaces one agent record.
func (c *AgentCache) Upsert(agent types.AgentRecord) {
	c.mu.Lock()
	c.agents[agent.ID] = agent
	c.mu.Unlock()
	c.notify()
}

// Remove deletes an agent record if present.
func (c *AgentCache) Remove(id string) {
	c.mu.Lock()
	_, existed := c.agents[id]
	delete(c.agents, id)
	c.mu.Unlock()
	if existed {
		c.notify()
	}
}

// Get returns one agent record by id.
func (c *AgentCache) Get(id string) (types.AgentRecord, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	agent, ok := c.agents[id]
	return agent, ok
}

// All returns every agent record sorted by full name. The slice is a
// fresh copy; the records' Days arrays are shared snapshots that callers
// must not mutate (the bulk editor clones before writing).
func (c *AgentCache) All() []types.AgentRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()

	agents := make([]types.AgentRecord, 0, len(c.agents))
	for _, agent := range c.agents {
		agents = append(agents, agent)
	}
	sort.Slice(agents, func(i, j int) bool {
		if agents[i].FullName != agents[j].FullName {
			return agents[i].FullName < agents[j].FullName
		}
		return agents[i].ID < agents[j].ID
	})
	return agents
}

// ByTeam returns the agents whose team memberships include the given code,
// sorted by full name.
func (c *AgentCache) ByTeam(team string) []types.AgentRecord {
	all := c.All()
	filtered := make([]types.AgentRecord, 0, len(all))
	for _, agent := range all {
		for _, t := range agent.Teams {
			if t == team {
				filtered = append(filtered, agent)
				break
			}
		}
	}
	return filtered
}

// Count returns the number of cached agents.
func (c *AgentCache) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.agents)
}

// Changed returns the channel signalled after every mutation. Signals
// coalesce: a slow consumer sees at least one signal for any burst of
// changes.
func (c *AgentCache) Changed() <-chan struct{} {
	return c.changed
}

func (c *AgentCache) notify() {
	select {
	case c.changed <- struct{}{}:
	default:
	}
}
