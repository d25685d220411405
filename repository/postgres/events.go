package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/omni/timeout-syncer/db"
	"github.com/omni/timeout-syncer/entity"
)

type eventsRepo basePostgresRepo

func NewEventsRepo(table string, db *db.DB) entity.EventsRepo {
	return (*eventsRepo)(newBasePostgresRepo(table, db))
}

func (r *eventsRepo) FindActiveAddresses(ctx context.Context) ([]string, error) {
	q, args, err := psql.Select("address").
		From(r.table).
		Where("is_active = ?", true).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("can't build query: %w", err)
	}
	addresses := make([]string, 0, 10)
	err = r.db.SelectContext(ctx, &addresses, q, args...)
	if err != nil {
		return nil, fmt.Errorf("can't get active event addresses: %w", err)
	}
	return addresses, nil
}

func (r *eventsRepo) GetByAddress(ctx context.Context, address string) (*entity.Event, error) {
	q, args, err := psql.Select("address", "is_active", "outcome").
		From(r.table).
		Where("address = ?", address).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("can't build query: %w", err)
	}
	event := new(entity.Event)
	err = r.db.GetContext(ctx, event, q, args...)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, db.ErrNotFound
		}
		return nil, fmt.Errorf("can't get event by address: %w", err)
	}
	return event, nil
}

// Resolve deactivates the event and stores its outcome, returns the number of updated rows.
func (r *eventsRepo) Resolve(ctx context.Context, address string, outcome uint8) (int64, error) {
	q, args, err := psql.Update(r.table).
		Set("is_active", false).
		Set("outcome", int(outcome)).
		Where("address = ?", address).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("can't build query: %w", err)
	}
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, fmt.Errorf("can't resolve event: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("can't get number of resolved events: %w", err)
	}
	return n, nil
}
