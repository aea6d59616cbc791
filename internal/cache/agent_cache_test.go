package cache

import (
	"testing"

	"github.com/sherpa-wfm/backend/internal/types"
)

func TestAgentCacheUpsertGetRemove(t *testing.T) {
	c := NewAgentCache()

	c.Upsert(types.AgentRecord{ID: "a1", FullName: "Popescu Maria"})

	agent, ok := c.Get("a1")
	if !ok {
		t.Fatal("expected agent a1 to be present")
	}
	if agent.FullName != "Popescu Maria" {
		t.Errorf("expected Popescu Maria, got %s", agent.FullName)
	}

	c.Remove("a1")
	if _, ok := c.Get("a1"); ok {
		t.Error("expected agent a1 to be removed")
	}
	if c.Count() != 0 {
		t.Errorf("expected count 0, got %d", c.Count())
	}
}

func TestAgentCacheAllSortedByName(t *testing.T) {
	c := NewAgentCache()
	c.ReplaceAll([]types.AgentRecord{
		{ID: "a3", FullName: "Varga Peter"},
		{ID: "a1", FullName: "Ionescu Ana"},
		{ID: "a2", FullName: "Nagy Eszter"},
	})

	all := c.All()
	if len(all) != 3 {
		t.Fatalf("expected 3 agents, got %d", len(all))
	}
	for i, want := range []string{"Ionescu Ana", "Nagy Eszter", "Varga Peter"} {
		if all[i].FullName != want {
			t.Errorf("position %d: expected %s, got %s", i, want, all[i].FullName)
		}
	}
}

func TestAgentCacheByTeam(t *testing.T) {
	c := NewAgentCache()
	c.ReplaceAll([]types.AgentRecord{
		{ID: "a1", FullName: "Ionescu Ana", Teams: []string{"RO"}},
		{ID: "a2", FullName: "Nagy Eszter", Teams: []string{"HU", "IT"}},
		{ID: "a3", FullName: "Rossi Marco", Teams: []string{"IT"}},
	})

	it := c.ByTeam("IT")
	if len(it) != 2 {
		t.Fatalf("expected 2 IT agents, got %d", len(it))
	}
	if it[0].ID != "a2" || it[1].ID != "a3" {
		t.Errorf("unexpected IT agents: %v, %v", it[0].ID, it[1].ID)
	}

	if got := c.ByTeam("NL"); len(got) != 0 {
		t.Errorf("expected no NL agents, got %d", len(got))
	}
}

func TestAgentCacheChangeNotification(t *testing.T) {
	c := NewAgentCache()

	c.Upsert(types.AgentRecord{ID: "a1"})
	select {
	case <-c.Changed():
	default:
		t.Fatal("expected a change signal after upsert")
	}

	// Burst of changes coalesces into a single pending signal.
	c.Upsert(types.AgentRecord{ID: "a2"})
	c.Upsert(types.AgentRecord{ID: "a3"})
	c.Remove("a1")

	select {
	case <-c.Changed():
	default:
		t.Fatal("expected a coalesced change signal")
	}
	select {
	case <-c.Changed():
		t.Fatal("expected signals to coalesce, got a second one")
	default:
	}
}

func TestAgentCacheRemoveMissingDoesNotNotify(t *testing.T) {
	c := NewAgentCache()

	c.Remove("ghost")
	select {
	case <-c.Changed():
		t.Fatal("unexpected change signal for missing agent")
	default:
	}
}
