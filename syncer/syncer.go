package syncer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/omni/timeout-syncer/config"
	"github.com/omni/timeout-syncer/contract"
	"github.com/omni/timeout-syncer/felt"
	"github.com/omni/timeout-syncer/logging"
	"github.com/omni/timeout-syncer/repository"
	"github.com/omni/timeout-syncer/starknet"
	"github.com/omni/timeout-syncer/utils"
)

var ErrInvalidBlockRange = errors.New("invalid block range")

type State int

const (
	StateIdle State = iota
	StateComputeRange
	StateScanBlock
	StateAdvanceCursor
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateComputeRange:
		return "COMPUTE_RANGE"
	case StateScanBlock:
		return "SCAN_BLOCK"
	case StateAdvanceCursor:
		return "ADVANCE_CURSOR"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

type Syncer struct {
	logger       logging.Logger
	client       starknet.Client
	registry     *AddressRegistry
	cursor       *Cursor
	scanner      *BlockScanner
	projector    *Projector
	pollInterval time.Duration

	state     State
	addresses []felt.Felt
	block     uint64
	toBlock   uint64
}

func NewSyncer(logger logging.Logger, cfg *config.SyncConfig, client starknet.Client, repo *repository.Repo) *Syncer {
	eventKey := contract.Selector(cfg.EventName)
	logger.WithFields(logrus.Fields{
		"event":    cfg.EventName,
		"selector": eventKey,
	}).Info("computed event selector")
	return &Syncer{
		logger:       logger,
		client:       client,
		registry:     NewAddressRegistry(repo.Events),
		cursor:       NewCursor(logger.WithField("service", "cursor"), repo.BlockStateTrunks),
		scanner:      NewBlockScanner(logger.WithField("service", "scanner"), client, eventKey, cfg.ChunkSize, cfg.MaxPages),
		projector:    NewProjector(logger.WithField("service", "projector"), repo.Events, repo.Bets),
		pollInterval: cfg.PollInterval,
		state:        StateIdle,
	}
}

func (s *Syncer) State() State {
	return s.state
}

// CurrentBlock returns the block being scanned, it is meaningful in SCAN_BLOCK and ADVANCE_CURSOR only.
func (s *Syncer) CurrentBlock() uint64 {
	return s.block
}

func (s *Syncer) Init(ctx context.Context) error {
	return s.cursor.Init(ctx)
}

// Run drives the state machine until ctx is done, sleeping the poll interval every time it becomes idle.
func (s *Syncer) Run(ctx context.Context) {
	s.logger.WithField("poll_interval", s.pollInterval).Info("starting syncer")
	for {
		if err := s.Step(ctx); err != nil {
			s.logger.WithError(err).Error("sync cycle aborted")
		}
		if s.state != StateIdle {
			if ctx.Err() != nil {
				return
			}
			continue
		}
		if !utils.ContextSleep(ctx, s.pollInterval) {
			return
		}
	}
}

// Step executes the current state and moves to the next one.
// An error means the cycle was aborted and the syncer is back in IDLE.
func (s *Syncer) Step(ctx context.Context) error {
	switch s.state {
	case StateIdle:
		s.state = StateComputeRange
	case StateComputeRange:
		return s.computeRange(ctx)
	case StateScanBlock:
		s.scanBlock(ctx, s.addresses, s.block)
		s.state = StateAdvanceCursor
	case StateAdvanceCursor:
		s.cursor.Advance(ctx, s.block)
		if s.block >= s.toBlock {
			s.logger.WithField("block_number", s.block).Info("processed all new blocks")
			s.addresses = nil
			s.state = StateIdle
			return nil
		}
		s.block++
		s.state = StateScanBlock
	}
	return nil
}

func (s *Syncer) computeRange(ctx context.Context) error {
	s.state = StateIdle

	addresses, err := s.registry.ListActiveAddresses(ctx)
	if err != nil {
		return err
	}
	lastProcessedBlock, err := s.cursor.Read(ctx)
	if err != nil {
		return err
	}
	latestBlock, err := s.client.BlockNumber(ctx)
	if err != nil {
		return fmt.Errorf("can't get latest block number: %w", err)
	}
	LatestHeadBlock.Set(float64(latestBlock))

	logger := s.logger.WithFields(logrus.Fields{
		"last_processed_block": lastProcessedBlock,
		"latest_block":         latestBlock,
		"addresses":            len(addresses),
	})
	if latestBlock <= lastProcessedBlock {
		logger.Info("no new blocks to process")
		return nil
	}
	logger.WithFields(logrus.Fields{
		"from_block": lastProcessedBlock + 1,
		"to_block":   latestBlock,
	}).Info("processing new blocks")

	s.addresses = addresses
	s.block = lastProcessedBlock + 1
	s.toBlock = latestBlock
	s.state = StateScanBlock
	return nil
}

// scanBlock processes one block for every address. Failures are isolated to the address or the event they happened in.
func (s *Syncer) scanBlock(ctx context.Context, addresses []felt.Felt, blockNumber uint64) {
	for _, address := range addresses {
		events := s.scanner.Scan(ctx, address, blockNumber)
		for i := range events {
			s.processEvent(ctx, &events[i])
		}
	}
}

func (s *Syncer) processEvent(ctx context.Context, event *starknet.EmittedEvent) {
	logger := s.logger.WithFields(logrus.Fields{
		"address":          event.FromAddress,
		"block_number":     event.BlockNumber,
		"transaction_hash": event.TransactionHash,
	})
	decoded, err := contract.ParseEventTimeout(event.Data)
	if err != nil {
		ProcessedEvents.WithLabelValues("invalid").Inc()
		logger.WithError(err).WithField("data", event.Data).Warn("failed to parse event, skipping")
		return
	}
	logger.WithFields(logrus.Fields{
		"event_address": decoded.EventAddress,
		"outcome":       decoded.Outcome,
		"timestamp":     decoded.Timestamp,
	}).Info("new event timeout")
	if err = s.projector.Apply(ctx, decoded); err != nil {
		ProcessedEvents.WithLabelValues("failed").Inc()
		logger.WithError(err).Error("failed to apply event")
		return
	}
	ProcessedEvents.WithLabelValues("applied").Inc()
}

// ProcessBlockRange scans [fromBlock, toBlock] again without moving the cursor.
func (s *Syncer) ProcessBlockRange(ctx context.Context, fromBlock, toBlock uint64) error {
	if fromBlock > toBlock {
		return fmt.Errorf("%w: from block %d is after to block %d", ErrInvalidBlockRange, fromBlock, toBlock)
	}
	addresses, err := s.registry.ListActiveAddresses(ctx)
	if err != nil {
		return err
	}
	s.logger.WithFields(logrus.Fields{
		"from_block": fromBlock,
		"to_block":   toBlock,
		"addresses":  len(addresses),
	}).Info("reprocessing block range")
	for block := fromBlock; block <= toBlock; block++ {
		if err = ctx.Err(); err != nil {
			return err
		}
		s.scanBlock(ctx, addresses, block)
		if block == toBlock {
			break
		}
	}
	return nil
}
