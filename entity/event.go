package entity

import (
	"context"
)

type Event struct {
	Address  string `db:"address"`
	IsActive bool   `db:"is_active"`
	Outcome  *int   `db:"outcome"`
}

type EventsRepo interface {
	FindActiveAddresses(ctx context.Context) ([]string, error)
	GetByAddress(ctx context.Context, address string) (*Event, error)
	Resolve(ctx context.Context, address string, outcome uint8) (int64, error)
}
