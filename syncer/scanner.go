package syncer

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/omni/timeout-syncer/felt"
	"github.com/omni/timeout-syncer/logging"
	"github.com/omni/timeout-syncer/starknet"
)

type BlockScanner struct {
	logger    logging.Logger
	client    starknet.Client
	eventKey  felt.Felt
	chunkSize uint
	maxPages  uint
}

// NewBlockScanner creates a scanner for the events with the given key.
// maxPages limits the number of followed continuation tokens per query, 0 means no limit.
func NewBlockScanner(logger logging.Logger, client starknet.Client, eventKey felt.Felt, chunkSize, maxPages uint) *BlockScanner {
	return &BlockScanner{
		logger:    logger,
		client:    client,
		eventKey:  eventKey,
		chunkSize: chunkSize,
		maxPages:  maxPages,
	}
}

// Scan returns the tracked events emitted by address in the given block.
// Rpc failures are logged and yield the events fetched so far, which is empty for a failed first page.
func (s *BlockScanner) Scan(ctx context.Context, address felt.Felt, blockNumber uint64) []starknet.EmittedEvent {
	logger := s.logger.WithFields(logrus.Fields{
		"address":      address,
		"block_number": blockNumber,
	})
	hexAddress, err := address.Hex()
	if err != nil {
		logger.WithError(err).Error("can't encode contract address")
		return nil
	}
	filter := &starknet.EventFilter{
		FromBlock: starknet.BlockID{Number: blockNumber},
		ToBlock:   starknet.BlockID{Number: blockNumber},
		Address:   felt.Felt(hexAddress),
		Keys:      [][]felt.Felt{{s.eventKey}},
		ChunkSize: s.chunkSize,
	}

	var events []starknet.EmittedEvent
	for page := uint(1); ; page++ {
		chunk, err2 := s.client.GetEvents(ctx, filter)
		if err2 != nil {
			logger.WithError(err2).WithField("page", page).Error("error fetching events")
			break
		}
		events = append(events, chunk.Events...)
		if chunk.ContinuationToken == "" {
			break
		}
		if chunk.ContinuationToken == filter.ContinuationToken {
			logger.WithField("continuation_token", chunk.ContinuationToken).Warn("rpc returned the same continuation token, stopping")
			break
		}
		if s.maxPages > 0 && page >= s.maxPages {
			logger.WithField("pages", page).Warn("reached max pages limit, remaining events are skipped")
			break
		}
		filter.ContinuationToken = chunk.ContinuationToken
	}

	FetchedEvents.Add(float64(len(events)))
	if len(events) == 0 {
		logger.Debug("no events found")
	} else {
		logger.WithField("count", len(events)).Info("fetched events")
	}
	return events
}
