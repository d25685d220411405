package syncer_test

import (
	"context"
	"errors"
	"io"
	"strconv"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/omni/timeout-syncer/config"
	"github.com/omni/timeout-syncer/db"
	"github.com/omni/timeout-syncer/entity"
	"github.com/omni/timeout-syncer/felt"
	"github.com/omni/timeout-syncer/repository"
	"github.com/omni/timeout-syncer/starknet"
	"github.com/omni/timeout-syncer/syncer"
)

var errStore = errors.New("store is unavailable")

// fakeStore keeps block_state_trunks, events and bets in memory.
type fakeStore struct {
	mu sync.Mutex

	trunk   *entity.BlockStateTrunk
	order   []string
	events  map[string]*entity.Event
	bets    []*entity.Bet
	written []uint64

	listErr      error
	getErr       error
	resolveErr   error
	markErr      error
	failCursorAt map[uint64]bool
	resolveCalls int
	markCalls    int
}

func newFakeStore(lastProcessedBlock uint64) *fakeStore {
	return &fakeStore{
		trunk:        &entity.BlockStateTrunk{ID: entity.CursorID, LastProcessedBlock: lastProcessedBlock},
		events:       make(map[string]*entity.Event),
		failCursorAt: make(map[uint64]bool),
	}
}

func (s *fakeStore) addEvent(address string, bets ...int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.order = append(s.order, address)
	s.events[address] = &entity.Event{Address: address, IsActive: true}
	for _, side := range bets {
		s.bets = append(s.bets, &entity.Bet{EventAddress: address, Bet: side})
	}
}

func (s *fakeStore) lastProcessedBlock() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.trunk.LastProcessedBlock
}

func (s *fakeStore) event(address string) entity.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.events[address]
}

func (s *fakeStore) claimable(address string, side int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, bet := range s.bets {
		if bet.EventAddress == address && bet.Bet == side {
			return bet.IsClaimable
		}
	}
	return false
}

type storeSnapshot struct {
	Events map[string]entity.Event
	Bets   []entity.Bet
	Cursor uint64
}

func (s *fakeStore) snapshot() storeSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	res := storeSnapshot{
		Events: make(map[string]entity.Event, len(s.events)),
		Cursor: s.trunk.LastProcessedBlock,
	}
	for k, v := range s.events {
		e := *v
		if v.Outcome != nil {
			outcome := *v.Outcome
			e.Outcome = &outcome
		}
		res.Events[k] = e
	}
	for _, bet := range s.bets {
		res.Bets = append(res.Bets, *bet)
	}
	return res
}

func (s *fakeStore) Ensure(_ context.Context, trunk *entity.BlockStateTrunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.trunk == nil {
		t := *trunk
		s.trunk = &t
	}
	return nil
}

func (s *fakeStore) GetByID(_ context.Context, id uint) (*entity.BlockStateTrunk, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return nil, s.getErr
	}
	if s.trunk == nil || s.trunk.ID != id {
		return nil, db.ErrNotFound
	}
	t := *s.trunk
	return &t, nil
}

func (s *fakeStore) UpdateLastProcessedBlock(_ context.Context, id uint, blockNumber uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failCursorAt[blockNumber] {
		return errStore
	}
	if s.trunk != nil && s.trunk.ID == id {
		s.trunk.LastProcessedBlock = blockNumber
		s.written = append(s.written, blockNumber)
	}
	return nil
}

func (s *fakeStore) FindActiveAddresses(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	res := make([]string, 0, len(s.order))
	for _, addr := range s.order {
		if s.events[addr].IsActive {
			res = append(res, addr)
		}
	}
	return res, nil
}

func (s *fakeStore) GetByAddress(_ context.Context, address string) (*entity.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.events[address]
	if !ok {
		return nil, db.ErrNotFound
	}
	res := *e
	return &res, nil
}

func (s *fakeStore) Resolve(_ context.Context, address string, outcome uint8) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resolveCalls++
	if s.resolveErr != nil {
		return 0, s.resolveErr
	}
	e, ok := s.events[address]
	if !ok {
		return 0, nil
	}
	v := int(outcome)
	e.IsActive = false
	e.Outcome = &v
	return 1, nil
}

func (s *fakeStore) MarkClaimable(_ context.Context, eventAddress string, side uint8) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.markCalls++
	if s.markErr != nil {
		return 0, s.markErr
	}
	var n int64
	for _, bet := range s.bets {
		if bet.EventAddress == eventAddress && bet.Bet == int(side) {
			bet.IsClaimable = true
			n++
		}
	}
	return n, nil
}

func (s *fakeStore) FindByEventAddress(_ context.Context, eventAddress string) ([]*entity.Bet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var res []*entity.Bet
	for _, bet := range s.bets {
		if bet.EventAddress == eventAddress {
			b := *bet
			res = append(res, &b)
		}
	}
	return res, nil
}

func (s *fakeStore) repo() *repository.Repo {
	return &repository.Repo{
		BlockStateTrunks: s,
		Events:           s,
		Bets:             s,
	}
}

// fakeClient serves events per block and canonical address, paginating by chunk size.
type fakeClient struct {
	mu sync.Mutex

	head    uint64
	headErr error
	events  map[uint64]map[felt.Felt][]starknet.EmittedEvent
	failing map[felt.Felt]bool
	calls   []starknet.EventFilter
}

func newFakeClient(head uint64) *fakeClient {
	return &fakeClient{
		head:    head,
		events:  make(map[uint64]map[felt.Felt][]starknet.EmittedEvent),
		failing: make(map[felt.Felt]bool),
	}
}

func (c *fakeClient) addEvent(block uint64, address felt.Felt, data ...felt.Felt) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.events[block] == nil {
		c.events[block] = make(map[felt.Felt][]starknet.EmittedEvent)
	}
	c.events[block][address] = append(c.events[block][address], starknet.EmittedEvent{
		FromAddress: address,
		Data:        data,
		BlockNumber: block,
	})
}

func (c *fakeClient) setHead(head uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.head = head
}

func (c *fakeClient) eventCalls() []starknet.EventFilter {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]starknet.EventFilter(nil), c.calls...)
}

func (c *fakeClient) ChainID(context.Context) (string, error) {
	return "SN_MAIN", nil
}

func (c *fakeClient) BlockNumber(context.Context) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.head, c.headErr
}

func (c *fakeClient) GetEvents(_ context.Context, filter *starknet.EventFilter) (*starknet.EventsChunk, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, *filter)
	if c.failing[filter.Address] {
		return nil, errors.New("rpc is unavailable")
	}
	all := c.events[filter.FromBlock.Number][filter.Address]
	offset := 0
	if filter.ContinuationToken != "" {
		offset, _ = strconv.Atoi(filter.ContinuationToken)
	}
	end := offset + int(filter.ChunkSize)
	chunk := &starknet.EventsChunk{}
	if end < len(all) {
		chunk.ContinuationToken = strconv.Itoa(end)
	} else {
		end = len(all)
	}
	if offset < end {
		chunk.Events = append(chunk.Events, all[offset:end]...)
	}
	return chunk, nil
}

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestSyncer(client starknet.Client, store *fakeStore, cfg *config.SyncConfig) *syncer.Syncer {
	if cfg == nil {
		cfg = &config.SyncConfig{
			EventName:    "EventTimeout",
			PollInterval: time.Millisecond,
			ChunkSize:    100,
		}
	}
	return syncer.NewSyncer(newTestLogger(), cfg, client, store.repo())
}
