package syncer

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/omni/timeout-syncer/contract"
	"github.com/omni/timeout-syncer/entity"
	"github.com/omni/timeout-syncer/logging"
)

type Projector struct {
	logger logging.Logger
	events entity.EventsRepo
	bets   entity.BetsRepo
}

func NewProjector(logger logging.Logger, events entity.EventsRepo, bets entity.BetsRepo) *Projector {
	return &Projector{
		logger: logger,
		events: events,
		bets:   bets,
	}
}

// Apply resolves the event record and then marks the winning side bets as claimable.
// The two writes are not atomic: bets are never touched if the event update fails,
// but a failed bets update leaves the event resolved.
func (p *Projector) Apply(ctx context.Context, event *contract.EventTimeout) error {
	logger := p.logger.WithFields(logrus.Fields{
		"event_address": event.EventAddress,
		"outcome":       event.Outcome,
		"timestamp":     event.Timestamp,
	})

	n, err := p.events.Resolve(ctx, event.EventAddress, event.Outcome)
	if err != nil {
		return fmt.Errorf("can't update events table: %w", err)
	}
	if n == 0 {
		logger.Warn("no event record found for resolved event")
	} else {
		logger.Info("updated events table")
	}

	side := event.ClaimSide()
	n, err = p.bets.MarkClaimable(ctx, event.EventAddress, side)
	if err != nil {
		return fmt.Errorf("can't update bets table: %w", err)
	}
	logger.WithFields(logrus.Fields{
		"bet":   side,
		"count": n,
	}).Info("updated bets table")
	return nil
}
