// Package selection tracks which grid cells are marked for bulk editing.
// A Session is owned by whatever wires the UI to the core, constructed per
// editing session and passed by reference; there is no package-level state.
package selection

import "sort"

// Key identifies one grid cell: an agent and a zero-based day index.
type Key struct {
	AgentID  string
	DayIndex int
}

// Session holds the current selection and the drag state machine
// (idle -> dragging -> idle). It is driven from single-threaded UI event
// callbacks and is not safe for concurrent use.
type Session struct {
	cells    map[Key]bool
	dragging bool
}

// NewSession returns an empty selection session.
func NewSession() *Session {
	return &Session{cells: make(map[Key]bool)}
}

// Start begins a selection gesture on key. A plain click clears the
// previous selection, selects key and enters the dragging state. A
// modifier click (extend=true) instead toggles key's membership and leaves
// the drag state untouched.
func (s *Session) Start(key Key, extend bool) {
	if extend {
		s.Toggle(key)
		return
	}
	s.cells = map[Key]bool{key: true}
	s.dragging = true
}

// Extend adds key to the selection while a drag is in progress. Dragging
// never removes cells picked up earlier in the same drag; outside a drag
// Extend is a no-op.
func (s *Session) Extend(key Key) {
	if !s.dragging {
		return
	}
	s.cells[key] = true
}

// Toggle flips key's membership without touching other cells or the drag
// state.
func (s *Session) Toggle(key Key) {
	if s.cells[key] {
		delete(s.cells, key)
	} else {
		s.cells[key] = true
	}
}

// End leaves the dragging state. The selection survives until Clear or the
// next plain Start.
func (s *Session) End() {
	s.dragging = false
}

// Clear empties the selection unconditionally. Callers must invoke it on
// every filter, date-range or view change so the selection never references
// cells that are no longer rendered.
func (s *Session) Clear() {
	s.cells = make(map[Key]bool)
	s.dragging = false
}

// Dragging reports whether a drag gesture is in progress.
func (s *Session) Dragging() bool {
	return s.dragging
}

// Count returns the number of selected cells.
func (s *Session) Count() int {
	return len(s.cells)
}

// Snapshot returns the selected keys as an independent sorted slice.
// Mutating the returned slice does not affect the session.
func (s *Session) Snapshot() []Key {
	keys := make([]Key, 0, len(s.cells))
	for key := range s.cells {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].AgentID != keys[j].AgentID {
			return keys[i].AgentID < keys[j].AgentID
		}
		return keys[i].DayIndex < keys[j].DayIndex
	})
	return keys
}
