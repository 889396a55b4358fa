// Basinview - River Basin Monitoring and Forecast Visualization
// Copyright 2026 Basinview Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aquamind/basinview

package websocket

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aquamind/basinview/internal/view"
)

// newTestClient builds a client without a network connection; tests read
// from its send channel directly.
func newTestClient(hub *Hub) *Client {
	return &Client{
		id:   clientIDCounter.Add(1),
		hub:  hub,
		send: make(chan Message, 256),
	}
}

func startHub(t *testing.T) (*Hub, context.CancelFunc) {
	t.Helper()
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = hub.RunWithContext(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Error("hub did not stop")
		}
	})
	return hub, cancel
}

func waitForClients(t *testing.T, hub *Hub, want int) {
	t.Helper()
	require.Eventually(t, func() bool {
		return hub.ClientCount() == want
	}, time.Second, time.Millisecond)
}

func TestRegisterAndUnregister(t *testing.T) {
	hub, _ := startHub(t)

	client := newTestClient(hub)
	hub.Register <- client
	waitForClients(t, hub, 1)

	hub.Unregister <- client
	waitForClients(t, hub, 0)

	// The hub closes the send channel on unregister.
	select {
	case _, ok := <-client.send:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("send channel not closed")
	}
}

func TestBroadcastViewUpdateReachesAllClients(t *testing.T) {
	hub, _ := startHub(t)

	first := newTestClient(hub)
	second := newTestClient(hub)
	hub.Register <- first
	hub.Register <- second
	waitForClients(t, hub, 2)

	pv := view.PageView{Page: view.PageDashboard, Status: view.StatusReady}
	hub.BroadcastViewUpdate(pv)

	for _, client := range []*Client{first, second} {
		select {
		case msg := <-client.send:
			assert.Equal(t, MessageTypeViewUpdate, msg.Type)
			assert.Equal(t, view.PageDashboard, msg.Page)
			got, ok := msg.Data.(view.PageView)
			require.True(t, ok)
			assert.Equal(t, view.StatusReady, got.Status)
		case <-time.After(time.Second):
			t.Fatal("client did not receive broadcast")
		}
	}
}

func TestShutdownClosesClients(t *testing.T) {
	hub, cancel := startHub(t)

	client := newTestClient(hub)
	hub.Register <- client
	waitForClients(t, hub, 1)

	cancel()

	select {
	case _, ok := <-client.send:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("client not closed on shutdown")
	}
}

func TestSlowClientIsDropped(t *testing.T) {
	hub, _ := startHub(t)

	slow := newTestClient(hub)
	slow.send = make(chan Message) // unbuffered, never drained
	hub.Register <- slow
	waitForClients(t, hub, 1)

	hub.BroadcastViewUpdate(view.PageView{Page: view.PageShell})
	waitForClients(t, hub, 0)
}
