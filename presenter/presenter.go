package presenter

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/omni/timeout-syncer/db"
	"github.com/omni/timeout-syncer/entity"
	"github.com/omni/timeout-syncer/logging"
	middleware2 "github.com/omni/timeout-syncer/presenter/http/middleware"
	"github.com/omni/timeout-syncer/presenter/http/render"
	"github.com/omni/timeout-syncer/repository"
)

type Presenter struct {
	logger logging.Logger
	repo   *repository.Repo
	root   chi.Router
}

func NewPresenter(logger logging.Logger, repo *repository.Repo) *Presenter {
	p := &Presenter{
		logger: logger,
		repo:   repo,
		root:   chi.NewMux(),
	}
	p.root.Use(middleware.Throttle(5))
	p.root.Use(middleware.RequestID)
	p.root.Use(middleware2.NewLoggerMiddleware(logger))
	p.root.Use(middleware2.Recoverer)
	p.root.Get("/status", p.GetStatus)
	p.root.With(middleware2.GetEventAddressMiddleware).
		Get("/events/{address:0x[0-9a-fA-F]{1,64}}", p.GetEvent)
	return p
}

func (p *Presenter) Serve(addr string) error {
	p.logger.WithField("addr", addr).Info("starting presenter service")
	return http.ListenAndServe(addr, p.root)
}

func (p *Presenter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p.root.ServeHTTP(w, r)
}

func (p *Presenter) GetStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	res := &StatusResult{}
	trunk, err := p.repo.BlockStateTrunks.GetByID(ctx, entity.CursorID)
	if err = db.IgnoreErrNotFound(err); err != nil {
		render.Error(w, r, fmt.Errorf("failed to get block state trunk: %w", err))
		return
	}
	if trunk != nil {
		res.LastProcessedBlock = trunk.LastProcessedBlock
	}

	addresses, err := p.repo.Events.FindActiveAddresses(ctx)
	if err != nil {
		render.Error(w, r, fmt.Errorf("failed to find active events: %w", err))
		return
	}
	res.ActiveEvents = len(addresses)

	render.JSON(w, r, http.StatusOK, res)
}

func (p *Presenter) GetEvent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	address := middleware2.EventAddress(ctx)

	event, err := p.repo.Events.GetByAddress(ctx, address)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			render.JSON(w, r, http.StatusNotFound, fmt.Sprintf("event with address %s not found", address))
			return
		}
		render.Error(w, r, fmt.Errorf("failed to get event: %w", err))
		return
	}

	bets, err := p.repo.Bets.FindByEventAddress(ctx, address)
	if err != nil {
		render.Error(w, r, fmt.Errorf("failed to find bets: %w", err))
		return
	}

	render.JSON(w, r, http.StatusOK, eventToEventResult(event, bets))
}
