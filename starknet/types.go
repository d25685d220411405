package starknet

import (
	"encoding/json"

	"github.com/omni/timeout-syncer/felt"
)

type BlockID struct {
	Number uint64
}

func (b BlockID) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]uint64{"block_number": b.Number})
}

type EventFilter struct {
	FromBlock         BlockID       `json:"from_block"`
	ToBlock           BlockID       `json:"to_block"`
	Address           felt.Felt     `json:"address"`
	Keys              [][]felt.Felt `json:"keys"`
	ChunkSize         uint          `json:"chunk_size"`
	ContinuationToken string        `json:"continuation_token,omitempty"`
}

type EmittedEvent struct {
	FromAddress     felt.Felt   `json:"from_address"`
	Keys            []felt.Felt `json:"keys"`
	Data            []felt.Felt `json:"data"`
	BlockHash       felt.Felt   `json:"block_hash,omitempty"`
	BlockNumber     uint64      `json:"block_number,omitempty"`
	TransactionHash felt.Felt   `json:"transaction_hash"`
}

type EventsChunk struct {
	Events            []EmittedEvent `json:"events"`
	ContinuationToken string         `json:"continuation_token,omitempty"`
}
