package websocket

import (
	"bytes"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestHubClientCount(t *testing.T) {
	logger := zerolog.New(&bytes.Buffer{})
	hub := NewHub(logger)

	if hub.ClientCount() != 0 {
		t.Errorf("expected 0 clients, got %d", hub.ClientCount())
	}

	hub.mu.Lock()
	hub.clients[&Client{id: "test1"}] = true
	hub.clients[&Client{id: "test2"}] = true
	hub.mu.Unlock()

	if hub.ClientCount() != 2 {
		t.Errorf("expected 2 clients, got %d", hub.ClientCount())
	}
}

func TestHubRegisterUnregister(t *testing.T) {
	logger := zerolog.New(&bytes.Buffer{})
	hub := NewHub(logger)
	go hub.Run()

	client := &Client{
		id:   "test-client",
		hub:  hub,
		send: make(chan []byte, 1),
	}

	hub.register <- client
	time.Sleep(10 * time.Millisecond)

	if hub.ClientCount() != 1 {
		t.Errorf("expected 1 client after register, got %d", hub.ClientCount())
	}

	hub.unregister <- client
	time.Sleep(10 * time.Millisecond)

	if hub.ClientCount() != 0 {
		t.Errorf("expected 0 clients after unregister, got %d", hub.ClientCount())
	}
}

func TestHubBroadcastToMultipleClients(t *testing.T) {
	logger := zerolog.New(&bytes.Buffer{})
	hub := NewHub(logger)
	go hub.Run()

	client1 := &Client{id: "client1", hub: hub, send: make(chan []byte, 10)}
	client2 := &Client{id: "client2", hub: hub, send: make(chan []byte, 10)}

	hub.register <- client1
	hub.register <- client2
	time.Sleep(10 * time.Millisecond)

	message := []byte(`{"type":"planner_snapshot"}`)
	hub.Broadcast(message)
	time.Sleep(10 * time.Millisecond)

	for _, c := range []*Client{client1, client2} {
		select {
		case msg := <-c.send:
			if string(msg) != string(message) {
				t.Errorf("%s expected %s, got %s", c.id, message, msg)
			}
		case <-time.After(100 * time.Millisecond):
			t.Errorf("%s did not receive message", c.id)
		}
	}
}

func TestHubEvictsClientWithFullBuffer(t *testing.T) {
	logger := zerolog.New(&bytes.Buffer{})
	hub := NewHub(logger)

	// Unbuffered send channel with no reader: first broadcast must evict.
	client := &Client{id: "stuck", hub: hub, send: make(chan []byte)}
	hub.mu.Lock()
	hub.clients[client] = true
	hub.mu.Unlock()

	hub.broadcastAll([]byte("snapshot"))

	if hub.ClientCount() != 0 {
		t.Errorf("expected stuck client to be evicted, got %d clients", hub.ClientCount())
	}
}
