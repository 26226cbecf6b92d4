package ledger

import "github.com/luca-patrignani/peanut-brulee/keys"

// GenesisPrevHash is the previous hash recorded by the genesis block.
const GenesisPrevHash = "0"

// Transaction moves Amount from one address to another.
type Transaction struct {
	From   keys.Address `json:"from"`
	To     keys.Address `json:"to"`
	Amount uint64       `json:"amount"`
}

// Block is one link of the chain.
type Block struct {
	Index        uint64        `json:"index"`
	Timestamp    string        `json:"timestamp"`
	Transactions []Transaction `json:"transactions"`
	PrevHash     string        `json:"prev_hash"`
	Hash         string        `json:"hash"`
}

// IsGenesis reports whether b is the root of the chain.
func (b Block) IsGenesis() bool {
	return b.Index == 0 && b.PrevHash == GenesisPrevHash
}
