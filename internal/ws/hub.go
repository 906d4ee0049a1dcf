package ws

import (
	"log/slog"
	"sync"

	"minesweeper/internal/logger"
	"minesweeper/internal/service"
)

// Hub fans session events out to every connection of a player.
type Hub struct {
	Sessions *service.SessionService

	mu      sync.RWMutex
	clients map[int64]map[*Client]struct{} // playerID -> connections
	log     *slog.Logger
}

func NewHub(sessions *service.SessionService) *Hub {
	return &Hub{
		Sessions: sessions,
		clients:  make(map[int64]map[*Client]struct{}),
		log:      logger.With("component", "ws_hub"),
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[c.PlayerID]
	if !ok {
		set = make(map[*Client]struct{})
		h.clients[c.PlayerID] = set
	}
	set[c] = struct{}{}
	h.log.Debug("client registered", "player_id", c.PlayerID, "connections", len(set))
}

// Unregister removes c and closes its send channel.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[c.PlayerID]
	if !ok {
		return
	}
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	if len(set) == 0 {
		delete(h.clients, c.PlayerID)
	}
	close(c.Send)
	h.log.Debug("client unregistered", "player_id", c.PlayerID)
}

// Notify implements service.Notifier. It never blocks: a full send buffer
// drops the message.
func (h *Hub) Notify(playerID int64, event string, payload interface{}) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	set := h.clients[playerID]
	if len(set) == 0 {
		return
	}
	msg, err := encode(event, payload)
	if err != nil {
		h.log.Error("encode event failed", "event", event, "error", err)
		return
	}
	for c := range set {
		select {
		case c.Send <- msg:
		default:
			h.log.Warn("send buffer full, dropping event", "player_id", playerID, "event", event)
		}
	}
}

// Connections returns the number of open connections for playerID.
func (h *Hub) Connections(playerID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[playerID])
}

var _ service.Notifier = (*Hub)(nil)
