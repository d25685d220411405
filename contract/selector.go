package contract

import (
	"github.com/consensys/gnark-crypto/ecc/stark-curve/fp"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/omni/timeout-syncer/felt"
)

const EventTimeoutName = "EventTimeout"

// Selector returns the event key for the given event name: keccak256 of the name truncated to 250 bits.
func Selector(name string) felt.Felt {
	h := crypto.Keccak256([]byte(name))
	h[0] &= 0x03
	return felt.FromElement(new(fp.Element).SetBytes(h))
}
