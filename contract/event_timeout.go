package contract

import (
	"errors"
	"fmt"

	"github.com/omni/timeout-syncer/felt"
)

const eventTimeoutFieldsCount = 3

var ErrInvalidEventData = errors.New("invalid event data")

type EventTimeout struct {
	EventAddress string
	Outcome      uint8
	Timestamp    uint64
}

// ParseEventTimeout decodes [event_address, outcome, timestamp].
// Numeric fields that don't fit their types are decoded as 0 instead of being rejected.
func ParseEventTimeout(data []felt.Felt) (*EventTimeout, error) {
	if len(data) < eventTimeoutFieldsCount {
		return nil, fmt.Errorf("%w: expected at least %d fields, got %d", ErrInvalidEventData, eventTimeoutFieldsCount, len(data))
	}
	addr, err := data[0].FixedHex()
	if err != nil {
		addr = felt.FormatAddress(data[0].String())
	}
	outcome, _ := data[1].Uint8()
	timestamp, _ := data[2].Uint64()
	return &EventTimeout{
		EventAddress: addr,
		Outcome:      outcome,
		Timestamp:    timestamp,
	}, nil
}

// ClaimSide returns the bet side that becomes claimable for the given outcome.
func (e *EventTimeout) ClaimSide() uint8 {
	if e.Outcome == 1 {
		return 1
	}
	return 0
}
