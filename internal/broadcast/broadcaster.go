package broadcast

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
	"github.com/sherpa-wfm/backend/internal/alerts"
	"github.com/sherpa-wfm/backend/internal/cache"
	"github.com/sherpa-wfm/backend/internal/metrics"
	"github.com/sherpa-wfm/backend/internal/schedule"
	"github.com/sherpa-wfm/backend/internal/types"
	"github.com/sherpa-wfm/backend/internal/websocket"
)

// Broadcaster pushes planner snapshots to connected clients. A snapshot
// goes out immediately after the agent cache changes and periodically as
// a keepalive refresh, so a client that missed a change converges within
// one interval.
type Broadcaster struct {
	cache    *cache.AgentCache
	hub      *websocket.Hub
	interval time.Duration
	logger   zerolog.Logger

	// now is swappable for tests
	now func() time.Time
}

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(agentCache *cache.AgentCache, hub *websocket.Hub, interval time.Duration, logger zerolog.Logger) *Broadcaster {
	return &Broadcaster{
		cache:    agentCache,
		hub:      hub,
		interval: interval,
		logger:   logger,
		now:      time.Now,
	}
}

// Start begins broadcasting snapshots until the context is cancelled
func (b *Broadcaster) Start(ctx context.Context) {
	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	b.logger.Info().Dur("interval", b.interval).Msg("broadcaster started")

	for {
		select {
		case <-ctx.Done():
			b.logger.Info().Msg("broadcaster stopped")
			return

		case <-b.cache.Changed():
			b.broadcastSnapshot("change")

		case <-ticker.C:
			b.broadcastSnapshot("interval")
		}
	}
}

func (b *Broadcaster) broadcastSnapshot(trigger string) {
	m := metrics.Get()
	cycleStart := b.now()

	snapshot := b.BuildSnapshot(cycleStart)
	m.UpdateAgentStats(snapshot.Agents)

	data, err := json.Marshal(snapshot)
	if err != nil {
		b.logger.Error().Err(err).Msg("failed to marshal planner snapshot")
		m.RecordBroadcastError()
		return
	}

	b.hub.Broadcast(data)
	m.RecordBroadcastCycle(b.now().Sub(cycleStart))

	b.logger.Debug().
		Str("trigger", trigger).
		Int("agents", len(snapshot.Agents)).
		Int("alerts", len(snapshot.Alerts)).
		Int("clients", b.hub.ClientCount()).
		Msg("broadcasted planner snapshot")
}

// BuildSnapshot assembles the full planner state at the given time.
func (b *Broadcaster) BuildSnapshot(at time.Time) types.PlannerSnapshot {
	agents := b.cache.All()

	return types.PlannerSnapshot{
		Type:      "planner_snapshot",
		Timestamp: at,
		Agents:    agents,
		Today:     schedule.DailyStats(agents, at),
		Alerts:    alerts.CheckSchedules(agents),
	}
}
