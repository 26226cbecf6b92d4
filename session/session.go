package session

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/luca-patrignani/peanut-brulee/account"
	"github.com/luca-patrignani/peanut-brulee/balance"
	"github.com/luca-patrignani/peanut-brulee/keys"
	"github.com/luca-patrignani/peanut-brulee/ledger"
)

// ErrInvalidAmount is returned when the amount text is not a base-10 unsigned integer.
var ErrInvalidAmount = errors.New("invalid amount")

// Session is the process-wide ledger state.
type Session struct {
	mu       sync.Mutex
	registry *account.Registry
	chain    *ledger.Blockchain
	balances *balance.Ledger

	openingBalance uint64
	logger         *slog.Logger
}

type settings struct {
	source         account.KeySource
	openingBalance uint64
	logger         *slog.Logger
	clock          func() time.Time
}

type option func(settings) settings

// WithKeySource replaces the default secp256k1 key generator.
func WithKeySource(source account.KeySource) option {
	return func(s settings) settings {
		s.source = source
		return s
	}
}

// WithOpeningBalance sets the amount credited to every newly created account.
func WithOpeningBalance(amount uint64) option {
	return func(s settings) settings {
		s.openingBalance = amount
		return s
	}
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) option {
	return func(s settings) settings {
		s.logger = logger
		return s
	}
}

// WithClock sets the time source used to stamp blocks.
func WithClock(now func() time.Time) option {
	return func(s settings) settings {
		s.clock = now
		return s
	}
}

// New creates a session holding a fresh chain (genesis only), an empty
// registry and an empty balance table.
func New(opts ...option) *Session {
	s := settings{
		source: keys.NewGenerator(keys.Secp256k1),
		logger: slog.Default(),
		clock:  time.Now,
	}
	for _, opt := range opts {
		s = opt(s)
	}

	chain := ledger.NewBlockchain(ledger.WithClock(s.clock))
	genesis, _ := chain.GetLatest()
	s.logger.Debug("genesis block created", "hash", genesis.Hash, "timestamp", genesis.Timestamp)

	return &Session{
		registry:       account.New(s.source),
		chain:          chain,
		balances:       balance.New(),
		openingBalance: s.openingBalance,
		logger:         s.logger,
	}
}

// CreateAccount registers a new key pair and opens its balance entry.
func (s *Session) CreateAccount() (keys.Address, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	addr, err := s.registry.CreateAccount()
	if err != nil {
		s.logger.Error("account creation failed", "error", err)
		return "", err
	}
	if err := s.balances.Open(addr, s.openingBalance); err != nil {
		return "", fmt.Errorf("failed to open balance of %s: %w", addr, err)
	}
	s.logger.Debug("account created", "address", addr, "opening_balance", s.openingBalance)
	return addr, nil
}

// ListAddresses returns the registered addresses in no particular order.
func (s *Session) ListAddresses() []keys.Address {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.registry.ListAddresses()
}

// Lookup returns the key pair registered for addr.
func (s *Session) Lookup(addr keys.Address) (keys.KeyPair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.registry.Get(addr)
}

// ParseAmount parses amount text as a base-10 unsigned 64-bit integer.
func ParseAmount(text string) (uint64, error) {
	amount, err := strconv.ParseUint(strings.TrimSpace(text), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, text)
	}
	return amount, nil
}

// Transfer moves amount from one address to another and records the move as
// the only transaction of a new block.
//
// Errors:
//   - ErrInvalidAmount: amount is not a base-10 uint64
//   - balance.ErrAmountOverflow: the recipient cannot hold the amount
//   - balance.ErrInsufficientFunds: the sender holds less than amount
//     (balance.ErrUnknownSender when the sender has no entry)
//
// A failed transfer changes neither balances nor the chain. Once the debit
// succeeds the credit and the append follow; there is no rollback if the
// append fails.
func (s *Session) Transfer(from, to, amount string) (ledger.Transaction, error) {
	value, err := ParseAmount(amount)
	if err != nil {
		return ledger.Transaction{}, err
	}
	tx := ledger.Transaction{From: keys.Address(from), To: keys.Address(to), Amount: value}

	s.mu.Lock()
	defer s.mu.Unlock()

	// A self-transfer credits back what it debited, so only foreign
	// recipients can overflow.
	if tx.From != tx.To && s.balances.Headroom(tx.To) < value {
		err := fmt.Errorf("%w: %s cannot receive %d", balance.ErrAmountOverflow, tx.To, value)
		s.logger.Warn("transfer rejected", "from", tx.From, "to", tx.To, "amount", value, "error", err)
		return ledger.Transaction{}, err
	}
	if err := s.balances.Debit(tx.From, value); err != nil {
		s.logger.Warn("transfer rejected", "from", tx.From, "to", tx.To, "amount", value, "error", err)
		return ledger.Transaction{}, err
	}
	if err := s.balances.Credit(tx.To, value); err != nil {
		return ledger.Transaction{}, err
	}

	block, err := s.chain.Append([]ledger.Transaction{tx})
	if err != nil {
		return ledger.Transaction{}, fmt.Errorf("balances updated but block not recorded: %w", err)
	}
	s.logger.Debug("block appended", "index", block.Index, "hash", block.Hash, "prev_hash", block.PrevHash)

	return tx, nil
}

// DumpChain returns a copy of every block in index order.
func (s *Session) DumpChain() []ledger.Block {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.chain.Blocks()
}

// KnownAddresses returns every address used as sender or recipient on chain,
// whether or not it is registered.
func (s *Session) KnownAddresses() map[keys.Address]struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.chain.KnownAddresses()
}

// BalanceOf returns the balance of addr, 0 if unknown.
func (s *Session) BalanceOf(addr keys.Address) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.balances.BalanceOf(addr)
}

// HasBalance reports whether addr has an entry in the balance table.
func (s *Session) HasBalance(addr keys.Address) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.balances.Has(addr)
}

// ChainLength returns the number of blocks including genesis.
func (s *Session) ChainLength() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.chain.Len()
}

// Verify checks the integrity of the whole chain.
func (s *Session) Verify() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.chain.Verify()
}

// Reconcile compares the balance table with a replay of the chain.
func (s *Session) Reconcile() []balance.Drift {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.balances.Reconcile(s.chain.Blocks())
}
