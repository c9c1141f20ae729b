package realtime

import (
	"context"
	"encoding/json"
	"testing"
	"time"
)

func startHub(t *testing.T) (*Hub, context.CancelFunc) {
	t.Helper()
	hub := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	return hub, cancel
}

func registerClient(t *testing.T, hub *Hub, projectID string) *Client {
	t.Helper()
	client := &Client{hub: hub, send: make(chan []byte, 8), projectID: projectID}
	hub.register <- client
	return client
}

func receive(t *testing.T, c *Client) Event {
	t.Helper()
	select {
	case data, ok := <-c.send:
		if !ok {
			t.Fatal("send channel closed")
		}
		var ev Event
		if err := json.Unmarshal(data, &ev); err != nil {
			t.Fatalf("unmarshal event: %v", err)
		}
		return ev
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
	return Event{}
}

func assertSilent(t *testing.T, c *Client) {
	t.Helper()
	select {
	case data := <-c.send:
		t.Fatalf("unexpected event: %s", data)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestPublishSnapshotReachesAllSubscribers(t *testing.T) {
	hub, cancel := startHub(t)
	defer cancel()

	a := registerClient(t, hub, "")
	b := registerClient(t, hub, "")

	hub.PublishSnapshot("project_payments", "proj-1", []string{"p1", "p2"})

	for _, c := range []*Client{a, b} {
		ev := receive(t, c)
		if ev.Collection != "project_payments" || ev.ProjectID != "proj-1" {
			t.Errorf("got %+v", ev)
		}
		var snapshot []string
		if err := json.Unmarshal(ev.Snapshot, &snapshot); err != nil || len(snapshot) != 2 {
			t.Errorf("bad snapshot: %s", ev.Snapshot)
		}
	}
}

func TestProjectScopedClientSkipsOtherProjects(t *testing.T) {
	hub, cancel := startHub(t)
	defer cancel()

	scoped := registerClient(t, hub, "proj-1")

	hub.PublishSnapshot("project_payments", "proj-2", []string{})
	assertSilent(t, scoped)

	hub.PublishSnapshot("project_payments", "proj-1", []string{})
	if ev := receive(t, scoped); ev.ProjectID != "proj-1" {
		t.Errorf("got %+v", ev)
	}
}

func TestGlobalCollectionsReachScopedClients(t *testing.T) {
	hub, cancel := startHub(t)
	defer cancel()

	scoped := registerClient(t, hub, "proj-1")

	hub.PublishSnapshot("snippets", "", []string{"s1"})
	if ev := receive(t, scoped); ev.Collection != "snippets" {
		t.Errorf("got %+v", ev)
	}
}

func TestSlowClientIsDropped(t *testing.T) {
	hub, cancel := startHub(t)
	defer cancel()

	slow := &Client{hub: hub, send: make(chan []byte)} // no reader, zero buffer
	hub.register <- slow
	healthy := registerClient(t, hub, "")

	hub.PublishSnapshot("tasks", "", []string{})
	receive(t, healthy)

	hub.mu.Lock()
	_, stillThere := hub.clients[slow]
	hub.mu.Unlock()
	if stillThere {
		t.Error("slow client not evicted")
	}
}

func TestRunClosesClientsOnCancel(t *testing.T) {
	hub := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()

	client := registerClient(t, hub, "")
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("hub did not stop")
	}
	if _, ok := <-client.send; ok {
		t.Error("client send channel not closed")
	}
}
