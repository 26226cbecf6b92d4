package ledger

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/luca-patrignani/peanut-brulee/keys"
)

// TimestampLayout is the fixed textual form of block timestamps (always UTC).
const TimestampLayout = time.RFC3339Nano

// Blockchain maintains the append-only sequence of blocks.
type Blockchain struct {
	mu     sync.RWMutex // Protects concurrent access to blocks
	blocks []Block      // Index i holds the block with Index i
	now    func() time.Time
}

type option func(Blockchain) Blockchain

// WithClock replaces the time source used to stamp new blocks.
func WithClock(now func() time.Time) option {
	return func(bc Blockchain) Blockchain {
		bc.now = now
		return bc
	}
}

// NewBlockchain creates a new blockchain initialized with a genesis block.
//
// The genesis block:
//   - Has index 0 and previous hash "0"
//   - Contains no transactions
//   - Is stamped with the creation instant
func NewBlockchain(opts ...option) *Blockchain {
	cfg := Blockchain{now: time.Now}
	for _, opt := range opts {
		cfg = opt(cfg)
	}
	bc := &Blockchain{
		blocks: make([]Block, 0, 1),
		now:    cfg.now,
	}

	genesis := Block{
		Index:        0,
		Timestamp:    bc.timestamp(),
		Transactions: []Transaction{},
		PrevHash:     GenesisPrevHash,
	}
	genesis.Hash = CalculateHash(genesis)
	bc.blocks = append(bc.blocks, genesis)

	return bc
}

// Append seals the given transactions into a new block linked to the current
// tail and appends it. Transaction content is not inspected.
//
// Returns the appended block, or an error if the chain has no tail or the
// sealed block does not link to it.
func (bc *Blockchain) Append(txs []Transaction) (Block, error) {
	bc.mu.Lock()
	defer bc.mu.Unlock()

	if len(bc.blocks) == 0 {
		return Block{}, fmt.Errorf("cannot append to an empty blockchain")
	}
	latest := bc.blocks[len(bc.blocks)-1]

	stored := make([]Transaction, len(txs))
	copy(stored, txs)

	newBlock := Block{
		Index:        latest.Index + 1,
		Timestamp:    bc.timestamp(),
		Transactions: stored,
		PrevHash:     latest.Hash,
	}
	newBlock.Hash = CalculateHash(newBlock)

	if err := validateBlock(newBlock, latest); err != nil {
		return Block{}, fmt.Errorf("invalid block: %w", err)
	}

	bc.blocks = append(bc.blocks, newBlock)

	return cloneBlock(newBlock), nil
}

// GetLatest returns the most recently added block in the blockchain.
// Returns an error if the blockchain is empty.
func (bc *Blockchain) GetLatest() (Block, error) {
	bc.mu.RLock()
	defer bc.mu.RUnlock()

	if len(bc.blocks) == 0 {
		return Block{}, fmt.Errorf("blockchain is empty")
	}

	return cloneBlock(bc.blocks[len(bc.blocks)-1]), nil
}

// GetByIndex retrieves a block by its index in the chain.
func (bc *Blockchain) GetByIndex(index uint64) (Block, error) {
	bc.mu.RLock()
	defer bc.mu.RUnlock()

	if index >= uint64(len(bc.blocks)) {
		return Block{}, fmt.Errorf("index %d out of range", index)
	}

	return cloneBlock(bc.blocks[index]), nil
}

// Len returns the number of blocks, genesis included.
func (bc *Blockchain) Len() int {
	bc.mu.RLock()
	defer bc.mu.RUnlock()

	return len(bc.blocks)
}

// Blocks returns a copy of the whole chain in index order.
func (bc *Blockchain) Blocks() []Block {
	bc.mu.RLock()
	defer bc.mu.RUnlock()

	out := make([]Block, len(bc.blocks))
	for i, b := range bc.blocks {
		out[i] = cloneBlock(b)
	}
	return out
}

// KnownAddresses returns every address that appears as sender or recipient
// of any transaction in the chain. It does not consult any account registry.
func (bc *Blockchain) KnownAddresses() map[keys.Address]struct{} {
	bc.mu.RLock()
	defer bc.mu.RUnlock()

	known := make(map[keys.Address]struct{})
	for _, b := range bc.blocks {
		for _, tx := range b.Transactions {
			known[tx.From] = struct{}{}
			known[tx.To] = struct{}{}
		}
	}
	return known
}

// Verify validates the integrity of the entire blockchain: the genesis block
// must recompute to its stored hash, and every later block must have a
// contiguous index, link to its predecessor's hash and recompute to its own.
func (bc *Blockchain) Verify() error {
	bc.mu.RLock()
	defer bc.mu.RUnlock()

	return VerifyBlocks(bc.blocks)
}

// VerifyBlocks runs the Verify checks over an arbitrary slice of blocks, such
// as a chain dump.
func VerifyBlocks(blocks []Block) error {
	if len(blocks) == 0 {
		return fmt.Errorf("empty blockchain")
	}

	genesis := blocks[0]
	if !genesis.IsGenesis() {
		return fmt.Errorf("invalid genesis block")
	}
	if expected := CalculateHash(genesis); genesis.Hash != expected {
		return fmt.Errorf("genesis block invalid: hash expected %s, got %s", expected, genesis.Hash)
	}

	for i := 1; i < len(blocks); i++ {
		if err := validateBlock(blocks[i], blocks[i-1]); err != nil {
			return fmt.Errorf("block %d invalid: %w", i, err)
		}
	}

	return nil
}

// validateBlock verifies that a block is valid relative to the previous block. It checks
// index continuity, previous hash linkage and current hash validity.
func validateBlock(current, previous Block) error {
	if current.Index != previous.Index+1 {
		return fmt.Errorf("invalid index: expected %d, got %d", previous.Index+1, current.Index)
	}

	if expectedPrev := CalculateHash(previous); current.PrevHash != expectedPrev || current.PrevHash != previous.Hash {
		return fmt.Errorf("invalid prev hash: expected %s, got %s", previous.Hash, current.PrevHash)
	}

	expectedHash := CalculateHash(current)
	if current.Hash != expectedHash {
		return fmt.Errorf("invalid hash: expected %s, got %s", expectedHash, current.Hash)
	}

	return nil
}

// CalculateHash computes the hex SHA-256 of index, timestamp, the transactions
// as from/to/amount in order, and the previous hash, concatenated without
// delimiters. The stored Hash field is ignored.
func CalculateHash(block Block) string {
	var data strings.Builder
	data.WriteString(strconv.FormatUint(block.Index, 10))
	data.WriteString(block.Timestamp)
	for _, tx := range block.Transactions {
		data.WriteString(string(tx.From))
		data.WriteString(string(tx.To))
		data.WriteString(strconv.FormatUint(tx.Amount, 10))
	}
	data.WriteString(block.PrevHash)

	hash := sha256.Sum256([]byte(data.String()))
	return hex.EncodeToString(hash[:])
}

func (bc *Blockchain) timestamp() string {
	return bc.now().UTC().Format(TimestampLayout)
}

func cloneBlock(b Block) Block {
	txs := make([]Transaction, len(b.Transactions))
	copy(txs, b.Transactions)
	b.Transactions = txs
	return b
}
