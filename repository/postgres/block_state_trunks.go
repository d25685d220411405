package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/omni/timeout-syncer/db"
	"github.com/omni/timeout-syncer/entity"
)

type blockStateTrunksRepo basePostgresRepo

func NewBlockStateTrunksRepo(table string, db *db.DB) entity.BlockStateTrunksRepo {
	return (*blockStateTrunksRepo)(newBasePostgresRepo(table, db))
}

// Ensure inserts the row unless it already exists, an existing row is left untouched.
func (r *blockStateTrunksRepo) Ensure(ctx context.Context, trunk *entity.BlockStateTrunk) error {
	q, args, err := psql.Insert(r.table).
		Columns("id", "last_processed_block").
		Values(trunk.ID, int64(trunk.LastProcessedBlock)).
		Suffix("ON CONFLICT (id) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("can't build query: %w", err)
	}
	_, err = r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("can't insert block state trunk: %w", err)
	}
	return nil
}

func (r *blockStateTrunksRepo) GetByID(ctx context.Context, id uint) (*entity.BlockStateTrunk, error) {
	q, args, err := psql.Select("id", "last_processed_block").
		From(r.table).
		Where("id = ?", id).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("can't build query: %w", err)
	}
	trunk := new(entity.BlockStateTrunk)
	err = r.db.GetContext(ctx, trunk, q, args...)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, db.ErrNotFound
		}
		return nil, fmt.Errorf("can't get block state trunk by id: %w", err)
	}
	return trunk, nil
}

func (r *blockStateTrunksRepo) UpdateLastProcessedBlock(ctx context.Context, id uint, blockNumber uint64) error {
	q, args, err := psql.Update(r.table).
		Set("last_processed_block", int64(blockNumber)).
		Where("id = ?", id).
		ToSql()
	if err != nil {
		return fmt.Errorf("can't build query: %w", err)
	}
	_, err = r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("can't update last processed block: %w", err)
	}
	return nil
}
