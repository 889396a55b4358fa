// Basinview - River Basin Monitoring and Forecast Visualization
// Copyright 2026 Basinview Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aquamind/basinview

// Package websocket pushes live view-model updates to connected dashboard
// clients. The hub fans out page snapshots produced by the view aggregators;
// clients receive whole snapshots, never deltas.
package websocket

import (
	"context"
	"sort"
	"sync"

	"github.com/aquamind/basinview/internal/logging"
	"github.com/aquamind/basinview/internal/metrics"
	"github.com/aquamind/basinview/internal/view"
)

// Message types sent to clients.
const (
	MessageTypeViewUpdate = "view_update"
	MessageTypePing       = "ping"
	MessageTypePong       = "pong"
)

// Message is the envelope for all hub-to-client traffic.
type Message struct {
	Type string `json:"type"`
	Page string `json:"page,omitempty"`
	Data any    `json:"data,omitempty"`
}

// Hub maintains the set of active clients and broadcasts messages to them.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan Message
	Register   chan *Client
	Unregister chan *Client
	mu         sync.RWMutex
}

// NewHub creates a Hub. Call RunWithContext to start it.
func NewHub() *Hub {
	return &Hub{
		broadcast:  make(chan Message, 256),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
	}
}

// RunWithContext runs the hub until the context is canceled, then closes
// all clients and returns ctx.Err(). Designed for suture supervision: a
// restart never leaves orphaned connections behind.
//
// Selection is priority-ordered (shutdown, then lifecycle, then broadcast)
// so client state is consistent before any message is fanned out.
func (h *Hub) RunWithContext(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			h.shutdown(ctx)
			return ctx.Err()
		default:
		}

		select {
		case client := <-h.Register:
			h.addClient(client)
			continue
		case client := <-h.Unregister:
			h.removeClient(client)
			continue
		default:
		}

		select {
		case <-ctx.Done():
			h.shutdown(ctx)
			return ctx.Err()
		case client := <-h.Register:
			h.addClient(client)
		case client := <-h.Unregister:
			h.removeClient(client)
		case message := <-h.broadcast:
			h.broadcastToClients(message)
		}
	}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	h.clients[client] = true
	total := len(h.clients)
	h.mu.Unlock()
	metrics.WSClients.Set(float64(total))
	logging.Info().Int("total_clients", total).Msg("websocket client connected")
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
	total := len(h.clients)
	h.mu.Unlock()
	metrics.WSClients.Set(float64(total))
	logging.Info().Int("total_clients", total).Msg("websocket client disconnected")
}

// broadcastToClients fans a message out to every client in id order.
// Sorting keeps delivery order reproducible across runs.
func (h *Hub) broadcastToClients(message Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})

	var toRemove []*Client
	for _, client := range clients {
		select {
		case client.send <- message:
			metrics.WSMessagesSent.WithLabelValues(message.Type).Inc()
		default:
			// Send buffer full: the client is too slow, drop it.
			toRemove = append(toRemove, client)
		}
	}

	for _, client := range toRemove {
		close(client.send)
		delete(h.clients, client)
	}
	if len(toRemove) > 0 {
		metrics.WSClients.Set(float64(len(h.clients)))
		logging.Warn().Int("dropped", len(toRemove)).Msg("dropped slow websocket clients")
	}
}

func (h *Hub) shutdown(ctx context.Context) {
	h.mu.Lock()
	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})
	for _, client := range clients {
		close(client.send)
		delete(h.clients, client)
	}
	h.mu.Unlock()

	metrics.WSClients.Set(0)
	logging.Info().
		Str("component", "websocket-hub").
		AnErr("reason", ctx.Err()).
		Int("clients_closed", len(clients)).
		Msg("websocket hub stopped")
}

// BroadcastViewUpdate pushes a fresh page snapshot to all clients.
// Non-blocking: when the broadcast buffer is full the update is dropped,
// since a newer snapshot will follow on the next poll.
func (h *Hub) BroadcastViewUpdate(pv view.PageView) {
	message := Message{
		Type: MessageTypeViewUpdate,
		Page: pv.Page,
		Data: pv,
	}
	select {
	case h.broadcast <- message:
	default:
		logging.Warn().Str("page", pv.Page).Msg("broadcast channel full, dropping view update")
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
