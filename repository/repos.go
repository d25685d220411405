package repository

import (
	"github.com/omni/timeout-syncer/db"
	"github.com/omni/timeout-syncer/entity"
	"github.com/omni/timeout-syncer/repository/postgres"
)

type Repo struct {
	BlockStateTrunks entity.BlockStateTrunksRepo
	Events           entity.EventsRepo
	Bets             entity.BetsRepo
}

func NewRepo(db *db.DB) *Repo {
	return &Repo{
		BlockStateTrunks: postgres.NewBlockStateTrunksRepo("block_state_trunks", db),
		Events:           postgres.NewEventsRepo("events", db),
		Bets:             postgres.NewBetsRepo("bets", db),
	}
}
