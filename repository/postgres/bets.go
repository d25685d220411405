package postgres

import (
	"context"
	"fmt"

	"github.com/omni/timeout-syncer/db"
	"github.com/omni/timeout-syncer/entity"
)

type betsRepo basePostgresRepo

func NewBetsRepo(table string, db *db.DB) entity.BetsRepo {
	return (*betsRepo)(newBasePostgresRepo(table, db))
}

func (r *betsRepo) MarkClaimable(ctx context.Context, eventAddress string, side uint8) (int64, error) {
	q, args, err := psql.Update(r.table).
		Set("is_claimable", true).
		Where("event_address = ?", eventAddress).
		Where("bet = ?", int(side)).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("can't build query: %w", err)
	}
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, fmt.Errorf("can't mark bets as claimable: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("can't get number of claimable bets: %w", err)
	}
	return n, nil
}

func (r *betsRepo) FindByEventAddress(ctx context.Context, eventAddress string) ([]*entity.Bet, error) {
	q, args, err := psql.Select("event_address", "bet", "is_claimable").
		From(r.table).
		Where("event_address = ?", eventAddress).
		OrderBy("bet").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("can't build query: %w", err)
	}
	bets := make([]*entity.Bet, 0, 10)
	err = r.db.SelectContext(ctx, &bets, q, args...)
	if err != nil {
		return nil, fmt.Errorf("can't get bets by event address: %w", err)
	}
	return bets, nil
}
