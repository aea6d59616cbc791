package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/sherpa-wfm/backend/internal/types"
)

// Metrics holds all application metrics
type Metrics struct {
	mu sync.RWMutex

	// WebSocket metrics
	WebSocketConnectionsTotal    int64
	WebSocketDisconnectionsTotal int64
	WebSocketErrorsTotal         int64
	activeConnections            int64

	// Broadcast metrics
	BroadcastCyclesTotal  int64
	SnapshotsSentTotal    int64
	BroadcastErrorsTotal  int64
	lastBroadcastDuration time.Duration

	// Bulk edit metrics
	BulkEditsAppliedTotal  int64
	BulkEditsRejectedTotal int64
	PatchesPersistedTotal  int64

	// Agent metrics
	agentsByTeam map[string]int
	totalAgents  int
	activeAgents int

	// HTTP metrics
	httpRequestsTotal    map[string]map[int]int64 // endpoint -> status -> count
	httpRequestDurations map[string][]float64     // endpoint -> durations

	// Timing
	startTime time.Time
}

// Global metrics instance
var instance *Metrics
var once sync.Once

// Get returns the singleton metrics instance
func Get() *Metrics {
	once.Do(func() {
		instance = &Metrics{
			agentsByTeam:         make(map[string]int),
			httpRequestsTotal:    make(map[string]map[int]int64),
			httpRequestDurations: make(map[string][]float64),
			startTime:            time.Now(),
		}
	})
	return instance
}

// RecordWebSocketConnect increments connection counters
func (m *Metrics) RecordWebSocketConnect() {
	m.mu.Lock()
	m.WebSocketConnectionsTotal++
	m.activeConnections++
	m.mu.Unlock()
}

// RecordWebSocketDisconnect increments disconnection counter
func (m *Metrics) RecordWebSocketDisconnect() {
	m.mu.Lock()
	m.WebSocketDisconnectionsTotal++
	m.activeConnections--
	m.mu.Unlock()
}

// RecordWebSocketError increments WebSocket error counter
func (m *Metrics) RecordWebSocketError() {
	m.mu.Lock()
	m.WebSocketErrorsTotal++
	m.mu.Unlock()
}

// RecordBroadcastCycle records a completed snapshot broadcast
func (m *Metrics) RecordBroadcastCycle(duration time.Duration) {
	m.mu.Lock()
	m.BroadcastCyclesTotal++
	m.SnapshotsSentTotal++
	m.lastBroadcastDuration = duration
	m.mu.Unlock()
}

// RecordBroadcastError increments broadcast error counter
func (m *Metrics) RecordBroadcastError() {
	m.mu.Lock()
	m.BroadcastErrorsTotal++
	m.mu.Unlock()
}

// RecordBulkEdit records an applied bulk edit and the patches it produced
func (m *Metrics) RecordBulkEdit(patchCount int) {
	m.mu.Lock()
	m.BulkEditsAppliedTotal++
	m.PatchesPersistedTotal += int64(patchCount)
	m.mu.Unlock()
}

// RecordBulkEditRejected increments the rejected bulk edit counter
func (m *Metrics) RecordBulkEditRejected() {
	m.mu.Lock()
	m.BulkEditsRejectedTotal++
	m.mu.Unlock()
}

// UpdateAgentStats updates agent distribution metrics
func (m *Metrics) UpdateAgentStats(agents []types.AgentRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Reset counts
	m.agentsByTeam = make(map[string]int)
	m.totalAgents = len(agents)
	m.activeAgents = 0

	for _, agent := range agents {
		if agent.PrimaryTeam != "" {
			m.agentsByTeam[agent.PrimaryTeam]++
		}
		if agent.IsActive {
			m.activeAgents++
		}
	}
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(endpoint string, statusCode int, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.httpRequestsTotal[endpoint] == nil {
		m.httpRequestsTotal[endpoint] = make(map[int]int64)
	}
	m.httpRequestsTotal[endpoint][statusCode]++

	// Keep last 100 durations for percentile calculation
	if len(m.httpRequestDurations[endpoint]) >= 100 {
		m.httpRequestDurations[endpoint] = m.httpRequestDurations[endpoint][1:]
	}
	m.httpRequestDurations[endpoint] = append(m.httpRequestDurations[endpoint], duration.Seconds())
}

// GetActiveConnections returns current WebSocket connections
func (m *Metrics) GetActiveConnections() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.activeConnections
}

// Handler returns an HTTP handler for the /metrics endpoint
func (m *Metrics) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m.mu.RLock()
		defer m.mu.RUnlock()

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")

		// Helper to write metric
		write := func(name string, value interface{}, labels ...string) {
			labelStr := ""
			if len(labels) > 0 {
				labelStr = "{"
				for i := 0; i < len(labels); i += 2 {
					if i > 0 {
						labelStr += ","
					}
					labelStr += labels[i] + "=\"" + labels[i+1] + "\""
				}
				labelStr += "}"
			}

			switch v := value.(type) {
			case int:
				w.Write([]byte(name + labelStr + " " + strconv.Itoa(v) + "\n"))
			case int64:
				w.Write([]byte(name + labelStr + " " + strconv.FormatInt(v, 10) + "\n"))
			case float64:
				w.Write([]byte(name + labelStr + " " + strconv.FormatFloat(v, 'f', 6, 64) + "\n"))
			}
		}

		// System metrics
		write("sherpa_uptime_seconds", time.Since(m.startTime).Seconds())

		// WebSocket metrics
		write("sherpa_websocket_connections_total", m.WebSocketConnectionsTotal)
		write("sherpa_websocket_disconnections_total", m.WebSocketDisconnectionsTotal)
		write("sherpa_websocket_active_connections", m.activeConnections)
		write("sherpa_websocket_errors_total", m.WebSocketErrorsTotal)

		// Broadcast metrics
		write("sherpa_broadcast_cycles_total", m.BroadcastCyclesTotal)
		write("sherpa_snapshots_sent_total", m.SnapshotsSentTotal)
		write("sherpa_broadcast_errors_total", m.BroadcastErrorsTotal)
		write("sherpa_broadcast_duration_seconds", m.lastBroadcastDuration.Seconds())

		// Bulk edit metrics
		write("sherpa_bulk_edits_applied_total", m.BulkEditsAppliedTotal)
		write("sherpa_bulk_edits_rejected_total", m.BulkEditsRejectedTotal)
		write("sherpa_patches_persisted_total", m.PatchesPersistedTotal)

		// Agent metrics
		write("sherpa_agents_total", m.totalAgents)
		write("sherpa_agents_active", m.activeAgents)

		// Agents by primary team
		for team, count := range m.agentsByTeam {
			write("sherpa_agents_by_team", count, "team", team)
		}

		// HTTP metrics
		for endpoint, statusCodes := range m.httpRequestsTotal {
			for status, count := range statusCodes {
				write("sherpa_http_requests_total", count, "endpoint", endpoint, "status", strconv.Itoa(status))
			}
		}
	}
}
