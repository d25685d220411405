package presenter

import (
	"github.com/omni/timeout-syncer/entity"
)

type StatusResult struct {
	LastProcessedBlock uint64 `json:"last_processed_block"`
	ActiveEvents       int    `json:"active_events"`
}

type BetInfo struct {
	Bet         int  `json:"bet"`
	IsClaimable bool `json:"is_claimable"`
}

type EventResult struct {
	Address  string     `json:"address"`
	IsActive bool       `json:"is_active"`
	Outcome  *int       `json:"outcome"`
	Bets     []*BetInfo `json:"bets"`
}

func eventToEventResult(event *entity.Event, bets []*entity.Bet) *EventResult {
	res := &EventResult{
		Address:  event.Address,
		IsActive: event.IsActive,
		Outcome:  event.Outcome,
		Bets:     make([]*BetInfo, 0, len(bets)),
	}
	for _, bet := range bets {
		res.Bets = append(res.Bets, &BetInfo{
			Bet:         bet.Bet,
			IsClaimable: bet.IsClaimable,
		})
	}
	return res
}
