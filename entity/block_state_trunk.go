package entity

import (
	"context"
)

// CursorID is the id of the single block_state_trunks row.
const CursorID = 1

type BlockStateTrunk struct {
	ID                 uint   `db:"id"`
	LastProcessedBlock uint64 `db:"last_processed_block"`
}

type BlockStateTrunksRepo interface {
	Ensure(ctx context.Context, trunk *BlockStateTrunk) error
	GetByID(ctx context.Context, id uint) (*BlockStateTrunk, error)
	UpdateLastProcessedBlock(ctx context.Context, id uint, blockNumber uint64) error
}
