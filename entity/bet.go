package entity

import (
	"context"
)

type Bet struct {
	EventAddress string `db:"event_address"`
	Bet          int    `db:"bet"`
	IsClaimable  bool   `db:"is_claimable"`
}

type BetsRepo interface {
	MarkClaimable(ctx context.Context, eventAddress string, side uint8) (int64, error)
	FindByEventAddress(ctx context.Context, eventAddress string) ([]*Bet, error)
}
