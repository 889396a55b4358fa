// Basinview - River Basin Monitoring and Forecast Visualization
// Copyright 2026 Basinview Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aquamind/basinview

// Package scenario submits what-if discharge plans for impact analysis.
// A submission is a one-shot command: never polled, never retried, and
// at most one in flight at a time.
package scenario

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/aquamind/basinview/internal/logging"
	"github.com/aquamind/basinview/internal/metrics"
	"github.com/aquamind/basinview/internal/models"
)

// ErrSubmissionInFlight is returned when a submission arrives while a
// previous one has not resolved yet.
var ErrSubmissionInFlight = errors.New("scenario submission already in flight")

// Submitter sends a scenario to the prediction platform.
type Submitter interface {
	SubmitScenario(ctx context.Context, input models.ScenarioInput) (*models.ScenarioResult, error)
}

// Simulator serializes scenario submissions.
type Simulator struct {
	submitter Submitter
	logger    zerolog.Logger
	inFlight  atomic.Bool
}

// NewSimulator builds a Simulator over the given submitter.
func NewSimulator(submitter Submitter) *Simulator {
	return &Simulator{
		submitter: submitter,
		logger:    logging.With().Str("component", "scenario").Logger(),
	}
}

// Submit sends the scenario and returns the predicted impact. While a
// submission is in flight, further calls fail fast with
// ErrSubmissionInFlight; they are not queued. A failed submission leaves
// no state behind and the next Submit proceeds normally.
func (s *Simulator) Submit(ctx context.Context, input models.ScenarioInput) (*models.ScenarioResult, error) {
	if !s.inFlight.CompareAndSwap(false, true) {
		metrics.ScenarioSubmissions.WithLabelValues("rejected_in_flight").Inc()
		return nil, ErrSubmissionInFlight
	}
	defer s.inFlight.Store(false)

	result, err := s.submitter.SubmitScenario(ctx, input)
	if err != nil {
		metrics.ScenarioSubmissions.WithLabelValues("error").Inc()
		s.logger.Warn().Err(err).Msg("Scenario submission failed")
		return nil, err
	}

	metrics.ScenarioSubmissions.WithLabelValues("ok").Inc()
	s.logger.Info().
		Str("scenario_id", result.ScenarioID).
		Float64("multi_objective_score", result.MultiObjectiveScore).
		Msg("Scenario analysis complete")
	return result, nil
}

// InFlight reports whether a submission is currently pending, so callers
// can disable re-submission up front.
func (s *Simulator) InFlight() bool {
	return s.inFlight.Load()
}
