package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
)

// redisChannel carries hub events between instances when Redis fanout is on.
const redisChannel = "opsdash:events"

// GlobalHub is the single hub instance for the whole application. Assigned
// in main before the router starts.
var GlobalHub *Hub

// Event is what subscribers receive: the full current snapshot of a
// collection after a write, Firestore-style. Subscribers replace their local
// state wholesale; nothing is ever hand-merged.
type Event struct {
	Collection string          `json:"collection"`
	ProjectID  string          `json:"projectId,omitempty"`
	Snapshot   json.RawMessage `json:"snapshot"`
}

// Client is one connected websocket subscriber. An empty projectID means
// the client receives events for every project.
type Client struct {
	hub       *Hub
	conn      *websocket.Conn
	send      chan []byte
	projectID string
}

type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	mu         sync.Mutex

	// rdb is optional. When set, events round-trip through Redis so every
	// instance (including the publisher) fans out what it receives.
	rdb *redis.Client
}

func NewHub(rdb *redis.Client) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		rdb:        rdb,
	}
}

func (h *Hub) Run(ctx context.Context) {
	if h.rdb != nil {
		go h.consumeRedis(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			slog.Info("realtime client registered", "projectId", client.projectID)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			slog.Info("realtime client unregistered")

		case data := <-h.broadcast:
			if h.rdb != nil {
				if err := h.rdb.Publish(ctx, redisChannel, data).Err(); err != nil {
					slog.Error("redis publish failed, delivering locally", "error", err)
					h.deliver(data)
				}
				continue
			}
			h.deliver(data)
		}
	}
}

func (h *Hub) consumeRedis(ctx context.Context) {
	sub := h.rdb.Subscribe(ctx, redisChannel)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			h.deliver([]byte(msg.Payload))
		}
	}
}

func (h *Hub) deliver(data []byte) {
	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil {
		slog.Error("failed to unmarshal hub event", "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		// Project-scoped clients skip other projects' events; events without
		// a project (snippets, vault, the project list) go to everyone.
		if client.projectID != "" && ev.ProjectID != "" && client.projectID != ev.ProjectID {
			continue
		}
		select {
		case client.send <- data:
		default:
			// Slow client: drop it rather than stall the hub.
			close(client.send)
			delete(h.clients, client)
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		close(client.send)
		delete(h.clients, client)
	}
}

// PublishSnapshot broadcasts the full current snapshot of a collection.
// Called by the store after every successful write.
func (h *Hub) PublishSnapshot(collection, projectID string, snapshot interface{}) {
	raw, err := json.Marshal(snapshot)
	if err != nil {
		slog.Error("failed to marshal snapshot", "collection", collection, "error", err)
		return
	}
	data, err := json.Marshal(Event{Collection: collection, ProjectID: projectID, Snapshot: raw})
	if err != nil {
		slog.Error("failed to marshal hub event", "collection", collection, "error", err)
		return
	}

	select {
	case h.broadcast <- data:
	default:
		slog.Warn("hub broadcast buffer full, dropping event", "collection", collection)
	}
}
