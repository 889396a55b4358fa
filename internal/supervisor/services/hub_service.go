// Basinview - River Basin Monitoring and Forecast Visualization
// Copyright 2026 Basinview Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aquamind/basinview

package services

import (
	"context"

	"github.com/aquamind/basinview/internal/websocket"
)

// HubService supervises the WebSocket hub.
type HubService struct {
	hub *websocket.Hub
}

// NewHubService wraps the hub for supervision.
func NewHubService(hub *websocket.Hub) *HubService {
	return &HubService{hub: hub}
}

// Serve implements suture.Service.
func (s *HubService) Serve(ctx context.Context) error {
	return s.hub.RunWithContext(ctx)
}

// String identifies the service in supervisor logs.
func (s *HubService) String() string {
	return "websocket-hub"
}
