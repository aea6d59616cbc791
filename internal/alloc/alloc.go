package alloc

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// MaxDailyHours is the soft cap on one day's total allocation. The codec
// itself accepts any positive hours; editors must reject totals above this
// before encoding.
const MaxDailyHours = 12

// LeaveCode is a fixed token denoting a non-working day. The vocabulary is
// part of the wire format; changing it breaks every stored schedule.
type LeaveCode string

const (
	SickLeave    LeaveCode = "SL"
	Vacation     LeaveCode = "Co"
	MedicalLeave LeaveCode = "CM"
	DayOff       LeaveCode = "LB"
)

// IsValidLeaveCode reports whether s is a recognized leave token.
func IsValidLeaveCode(s string) bool {
	switch LeaveCode(s) {
	case SickLeave, Vacation, MedicalLeave, DayOff:
		return true
	}
	return false
}

// Kind discriminates the three allocation shapes.
type Kind int

const (
	KindEmpty Kind = iota
	KindLeave
	KindWork
)

// Entry is one (team, hours) pair of a work day. A day split across teams
// has multiple entries in order.
type Entry struct {
	Team  string `json:"team"`
	Hours int    `json:"hours"`
}

// Allocation is the decoded form of one day slot.
type Allocation struct {
	Kind    Kind      `json:"kind"`
	Leave   LeaveCode `json:"leave,omitempty"`
	Entries []Entry   `json:"entries,omitempty"`
}

// Empty returns the no-entry allocation.
func Empty() Allocation {
	return Allocation{Kind: KindEmpty}
}

// NewLeave returns a leave allocation for the given code.
func NewLeave(code LeaveCode) Allocation {
	return Allocation{Kind: KindLeave, Leave: code}
}

// Work returns a work allocation with the given entries in order.
func Work(entries ...Entry) Allocation {
	return Allocation{Kind: KindWork, Entries: entries}
}

// segmentPattern matches one work segment: hours, optional whitespace, team code.
var segmentPattern = regexp.MustCompile(`^(\d+)\s*([A-Za-z]+)$`)

// Decode parses a slot string into an Allocation. Decode is total: anything
// that is neither a leave token nor a "+"-joined list of <hours><team>
// segments yields Empty. Mixed valid/invalid content is treated as
// unparseable, not partially parsed.
func Decode(raw string) Allocation {
	a, _ := decode(raw)
	return a
}

// DecodeStrict parses like Decode but reports why a string would fall back
// to Empty. Intended for diagnostics on legacy data; the default read path
// stays lossy.
func DecodeStrict(raw string) (Allocation, error) {
	return decode(raw)
}

func decode(raw string) (Allocation, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Empty(), nil
	}

	if IsValidLeaveCode(trimmed) {
		return NewLeave(LeaveCode(trimmed)), nil
	}

	segments := strings.Split(trimmed, "+")
	entries := make([]Entry, 0, len(segments))
	for _, segment := range segments {
		segment = strings.TrimSpace(segment)
		m := segmentPattern.FindStringSubmatch(segment)
		if m == nil {
			return Empty(), fmt.Errorf("unparseable segment %q in %q", segment, raw)
		}
		hours, err := strconv.Atoi(m[1])
		if err != nil || hours <= 0 {
			return Empty(), fmt.Errorf("invalid hours %q in %q", m[1], raw)
		}
		entries = append(entries, Entry{
			Team:  strings.ToUpper(m[2]),
			Hours: hours,
		})
	}

	return Work(entries...), nil
}

// Encode renders an Allocation in canonical form: "" for Empty, the leave
// token for Leave, and "+"-joined <hours><TEAM> segments for Work. The
// canonical form carries no internal spaces; Decode(Encode(a)) == a for
// every valid a.
func Encode(a Allocation) string {
	switch a.Kind {
	case KindLeave:
		return string(a.Leave)
	case KindWork:
		parts := make([]string, len(a.Entries))
		for i, e := range a.Entries {
			parts[i] = strconv.Itoa(e.Hours) + e.Team
		}
		return strings.Join(parts, "+")
	default:
		return ""
	}
}

// TotalHours returns the summed hours of a work allocation, 0 otherwise.
func TotalHours(a Allocation) int {
	if a.Kind != KindWork {
		return 0
	}
	total := 0
	for _, e := range a.Entries {
		total += e.Hours
	}
	return total
}
