package types

import (
	"time"

	"github.com/sherpa-wfm/backend/internal/alloc"
)

// DefaultContractHours is applied at the store boundary when a record
// arrives without contracted hours. Legacy records differ in shape; the
// default is resolved once here, never in aggregation logic.
const DefaultContractHours = 8

// DaysPerSchedule is the slot count written for newly created agents. The
// days array covers a reference month, index 0 = day 1. Readers must not
// assume every stored record has exactly this length.
const DaysPerSchedule = 31

// KnownTeams lists the team codes offered by the editor. Stored slots may
// reference other codes; the codec does not restrict the vocabulary.
var KnownTeams = []string{"RO", "HU", "IT", "NL", "DE"}

// AgentRecord is one agent's persisted planning record. The core treats it
// as an immutable snapshot per operation and emits replacement Days arrays
// instead of mutating in place.
type AgentRecord struct {
	ID            string    `json:"id" dynamodbav:"AgentID"` // partition key
	FullName      string    `json:"fullName" dynamodbav:"FullName"`
	Username      string    `json:"username" dynamodbav:"Username"`
	ContractHours int       `json:"contractHours" dynamodbav:"ContractHours"`
	ContractType  string    `json:"contractType" dynamodbav:"ContractType"` // Full-time or Part-time
	PrimaryTeam   string    `json:"primaryTeam" dynamodbav:"PrimaryTeam"`
	Teams         []string  `json:"teams" dynamodbav:"Teams"`
	HireDate      time.Time `json:"hireDate" dynamodbav:"HireDate"`
	IsActive      bool      `json:"isActive" dynamodbav:"IsActive"`
	Days          []string  `json:"days" dynamodbav:"Days"` // encoded slots, index 0 = day 1
}

// Slot returns the encoded allocation at the given zero-based day index,
// or "" when the index falls outside the stored array.
func (a AgentRecord) Slot(dayIndex int) string {
	if dayIndex < 0 || dayIndex >= len(a.Days) {
		return ""
	}
	return a.Days[dayIndex]
}

// TeamAggregate is one team's share of a day: summed hours and the distinct
// agents contributing them. An agent split across teams appears in each
// team's list once but adds hours to each.
type TeamAggregate struct {
	Hours    int      `json:"hours"`
	AgentIDs []string `json:"agentIds"`
}

// DailyStats is the per-day aggregation consumed by the dashboard.
type DailyStats struct {
	Date        string                   `json:"date"` // YYYY-MM-DD
	TotalHours  int                      `json:"totalHours"`
	Teams       map[string]TeamAggregate `json:"teams"`
	TotalAgents int                      `json:"totalAgents"`
}

// Patch is a proposed replacement of one agent's full days array. Patches
// from one bulk edit are independent and may be persisted in any order.
type Patch struct {
	AgentID string   `json:"agentId"`
	Days    []string `json:"days"`
}

// AlertSeverity grades a schedule alert.
type AlertSeverity string

const (
	SeverityWarning  AlertSeverity = "warning"
	SeverityCritical AlertSeverity = "critical"
)

// ScheduleAlert flags a stored slot that needs planner attention: a day
// over the hour cap or a value the codec cannot parse.
type ScheduleAlert struct {
	Rule     string        `json:"rule"`
	Severity AlertSeverity `json:"severity"`
	AgentID  string        `json:"agentId"`
	DayIndex int           `json:"dayIndex"`
	Message  string        `json:"message"`
}

// PlannerSnapshot is the payload pushed to connected clients whenever the
// agent collection changes, and periodically as a keepalive refresh.
// Clients render from the latest snapshot they received; there is no
// per-client store subscription.
type PlannerSnapshot struct {
	Type      string          `json:"type"` // always "planner_snapshot"
	Timestamp time.Time       `json:"timestamp"`
	Agents    []AgentRecord   `json:"agents"`
	Today     DailyStats      `json:"today"`
	Alerts    []ScheduleAlert `json:"alerts,omitempty"`
}

// BulkEditRequest is the API payload for a bulk allocation change.
type BulkEditRequest struct {
	Cells []SelectionCell `json:"cells"`
	Value AllocationValue `json:"value"`
}

// SelectionCell is one selected grid cell in a bulk edit request.
type SelectionCell struct {
	AgentID  string `json:"agentId"`
	DayIndex int    `json:"dayIndex"`
}

// AllocationValue is the wire form of the value to assign: either a leave
// code or a list of work entries, never both.
type AllocationValue struct {
	Leave   string        `json:"leave,omitempty"`
	Entries []alloc.Entry `json:"entries,omitempty"`
}
