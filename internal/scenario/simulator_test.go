// Basinview - River Basin Monitoring and Forecast Visualization
// Copyright 2026 Basinview Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aquamind/basinview

package scenario

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aquamind/basinview/internal/models"
)

// stubSubmitter blocks until released, recording each call.
type stubSubmitter struct {
	mu      sync.Mutex
	calls   int
	release chan struct{}
	result  *models.ScenarioResult
	err     error
}

func (s *stubSubmitter) SubmitScenario(ctx context.Context, input models.ScenarioInput) (*models.ScenarioResult, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.release != nil {
		<-s.release
	}
	return s.result, s.err
}

func (s *stubSubmitter) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func TestSubmitReturnsResult(t *testing.T) {
	stub := &stubSubmitter{
		result: &models.ScenarioResult{ScenarioID: "scn_1", MultiObjectiveScore: 82},
	}
	sim := NewSimulator(stub)

	input := models.ScenarioInput{ManantaliDischargeM3s: 1200, DiamaDischargeM3s: 950, FelouDischargeM3s: 400}
	result, err := sim.Submit(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, "scn_1", result.ScenarioID)
	assert.InDelta(t, 82, result.MultiObjectiveScore, 0.001)
	assert.Equal(t, 1, stub.callCount())
}

func TestSubmitRejectsWhileInFlight(t *testing.T) {
	stub := &stubSubmitter{
		release: make(chan struct{}),
		result:  &models.ScenarioResult{ScenarioID: "scn_2"},
	}
	sim := NewSimulator(stub)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := sim.Submit(context.Background(), models.ScenarioInput{})
		assert.NoError(t, err)
	}()

	require.Eventually(t, sim.InFlight, time.Second, time.Millisecond)

	// Second submission while the first is pending fails fast.
	_, err := sim.Submit(context.Background(), models.ScenarioInput{})
	assert.ErrorIs(t, err, ErrSubmissionInFlight)
	assert.Equal(t, 1, stub.callCount())

	close(stub.release)
	<-done

	// Once the first resolves, submission is enabled again.
	stub.release = nil
	_, err = sim.Submit(context.Background(), models.ScenarioInput{})
	assert.NoError(t, err)
	assert.Equal(t, 2, stub.callCount())
}

func TestSubmitFailureReleasesGuard(t *testing.T) {
	stub := &stubSubmitter{err: errors.New("backend unavailable")}
	sim := NewSimulator(stub)

	_, err := sim.Submit(context.Background(), models.ScenarioInput{})
	require.Error(t, err)
	assert.False(t, sim.InFlight())

	// Failure does not latch; a fresh submission goes through.
	stub.err = nil
	stub.result = &models.ScenarioResult{ScenarioID: "scn_3"}
	result, err := sim.Submit(context.Background(), models.ScenarioInput{})
	require.NoError(t, err)
	assert.Equal(t, "scn_3", result.ScenarioID)
}
