package syncer

import (
	"context"
	"fmt"

	"github.com/omni/timeout-syncer/entity"
	"github.com/omni/timeout-syncer/felt"
)

type AddressRegistry struct {
	events entity.EventsRepo
}

func NewAddressRegistry(events entity.EventsRepo) *AddressRegistry {
	return &AddressRegistry{events: events}
}

// ListActiveAddresses returns every active event address, in storage order.
// A single malformed address fails the whole listing.
func (r *AddressRegistry) ListActiveAddresses(ctx context.Context) ([]felt.Felt, error) {
	rows, err := r.events.FindActiveAddresses(ctx)
	if err != nil {
		return nil, fmt.Errorf("can't fetch contract addresses: %w", err)
	}
	addresses := make([]felt.Felt, 0, len(rows))
	for _, row := range rows {
		addr := felt.Felt(row)
		if err = addr.Validate(); err != nil {
			return nil, fmt.Errorf("invalid contract address %q: %w", row, err)
		}
		addresses = append(addresses, addr)
	}
	TrackedAddresses.Set(float64(len(addresses)))
	return addresses, nil
}
