package syncer

import (
	"context"
	"fmt"

	"github.com/omni/timeout-syncer/db"
	"github.com/omni/timeout-syncer/entity"
	"github.com/omni/timeout-syncer/logging"
)

type Cursor struct {
	logger logging.Logger
	repo   entity.BlockStateTrunksRepo
}

func NewCursor(logger logging.Logger, repo entity.BlockStateTrunksRepo) *Cursor {
	return &Cursor{
		logger: logger,
		repo:   repo,
	}
}

// Init creates the cursor row at block 0, an existing row is kept.
func (c *Cursor) Init(ctx context.Context) error {
	err := c.repo.Ensure(ctx, &entity.BlockStateTrunk{
		ID:                 entity.CursorID,
		LastProcessedBlock: 0,
	})
	if err != nil {
		return fmt.Errorf("can't initialize block state trunk: %w", err)
	}
	return nil
}

func (c *Cursor) Read(ctx context.Context) (uint64, error) {
	trunk, err := c.repo.GetByID(ctx, entity.CursorID)
	if err = db.IgnoreErrNotFound(err); err != nil {
		return 0, fmt.Errorf("can't fetch last processed block: %w", err)
	}
	if trunk == nil {
		return 0, nil
	}
	LastProcessedBlock.Set(float64(trunk.LastProcessedBlock))
	return trunk.LastProcessedBlock, nil
}

// Advance stores blockNumber as the last processed block. On failure the stored value stays as it was,
// and the block will be scanned again in the next cycle.
func (c *Cursor) Advance(ctx context.Context, blockNumber uint64) {
	err := c.repo.UpdateLastProcessedBlock(ctx, entity.CursorID, blockNumber)
	if err != nil {
		c.logger.WithError(err).WithField("block_number", blockNumber).Error("failed to update last processed block")
		return
	}
	LastProcessedBlock.Set(float64(blockNumber))
}
