package selection_test

import (
	"testing"

	"github.com/sherpa-wfm/backend/internal/selection"

	"github.com/stretchr/testify/assert"
)

var (
	k1 = selection.Key{AgentID: "a1", DayIndex: 0}
	k2 = selection.Key{AgentID: "a1", DayIndex: 1}
	k3 = selection.Key{AgentID: "a2", DayIndex: 5}
)

func TestDragSelection(t *testing.T) {
	s := selection.NewSession()

	s.Start(k1, false)
	assert.True(t, s.Dragging())
	s.Extend(k2)
	s.End()
	assert.False(t, s.Dragging())

	assert.Equal(t, []selection.Key{k1, k2}, s.Snapshot())

	// A new plain click starts over.
	s.Start(k3, false)
	s.End()
	assert.Equal(t, []selection.Key{k3}, s.Snapshot())
}

func TestExtendOutsideDragIsNoop(t *testing.T) {
	s := selection.NewSession()

	s.Extend(k1)
	assert.Equal(t, 0, s.Count())

	s.Start(k1, false)
	s.End()
	s.Extend(k2)
	assert.Equal(t, []selection.Key{k1}, s.Snapshot())
}

func TestDragNeverRemoves(t *testing.T) {
	s := selection.NewSession()

	s.Start(k1, false)
	s.Extend(k2)
	s.Extend(k2) // re-entering a cell keeps it selected
	s.Extend(k1)
	s.End()

	assert.Equal(t, []selection.Key{k1, k2}, s.Snapshot())
}

func TestModifierToggle(t *testing.T) {
	s := selection.NewSession()

	s.Start(k1, false)
	s.End()

	// Ctrl-click adds without clearing and without starting a drag.
	s.Start(k3, true)
	assert.False(t, s.Dragging())
	assert.Equal(t, []selection.Key{k1, k3}, s.Snapshot())

	// Ctrl-click again removes only that cell.
	s.Toggle(k3)
	assert.Equal(t, []selection.Key{k1}, s.Snapshot())
}

func TestClear(t *testing.T) {
	s := selection.NewSession()
	s.Start(k1, false)
	s.Extend(k2)

	s.Clear()

	assert.Equal(t, 0, s.Count())
	assert.False(t, s.Dragging())
	assert.Empty(t, s.Snapshot())
}

func TestSnapshotIsACopy(t *testing.T) {
	s := selection.NewSession()
	s.Start(k1, false)
	s.End()

	snap := s.Snapshot()
	snap[0] = k3

	assert.Equal(t, []selection.Key{k1}, s.Snapshot())
}
