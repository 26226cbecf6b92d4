// Package balance keeps the live spendable amount of every address.
//
// The table is maintained next to the chain, not derived from it. Reconcile
// replays the chain to report where the two have drifted apart.
package balance

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"sort"
	"sync"

	"github.com/luca-patrignani/peanut-brulee/keys"
	"github.com/luca-patrignani/peanut-brulee/ledger"
)

var (
	// ErrInsufficientFunds is returned when a debit exceeds the balance.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrUnknownSender is returned when debiting a positive amount from an
	// address with no entry. It wraps ErrInsufficientFunds.
	ErrUnknownSender = fmt.Errorf("sender not found: %w", ErrInsufficientFunds)
	// ErrAmountOverflow is returned when a credit would exceed the uint64 range.
	ErrAmountOverflow = errors.New("amount overflow")
)

// Ledger maps addresses to unsigned balances. Unknown addresses read as 0.
type Ledger struct {
	mu       sync.RWMutex
	balances map[keys.Address]uint64
	openings map[keys.Address]uint64 // credits that did not come from the chain
}

// New returns an empty balance table.
func New() *Ledger {
	return &Ledger{
		balances: make(map[keys.Address]uint64),
		openings: make(map[keys.Address]uint64),
	}
}

// Open creates the entry of a new account with an opening amount. Opening
// credits are remembered so Reconcile can account for them.
func (l *Ledger) Open(addr keys.Address, amount uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.credit(addr, amount); err != nil {
		return err
	}
	l.openings[addr] += amount
	return nil
}

// Credit adds amount to addr, creating the entry at 0 first if needed.
// A credit that would wrap around is rejected with ErrAmountOverflow and
// leaves the balance untouched.
func (l *Ledger) Credit(addr keys.Address, amount uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.credit(addr, amount)
}

func (l *Ledger) credit(addr keys.Address, amount uint64) error {
	current := l.balances[addr]
	if amount > math.MaxUint64-current {
		return fmt.Errorf("%w: crediting %d to %s holding %d", ErrAmountOverflow, amount, addr, current)
	}
	l.balances[addr] = current + amount
	return nil
}

// Debit subtracts amount from addr. It fails with ErrInsufficientFunds when
// the balance is lower than amount; a missing entry counts as 0.
func (l *Ledger) Debit(addr keys.Address, amount uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	current, ok := l.balances[addr]
	if current < amount {
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownSender, addr)
		}
		return fmt.Errorf("%w: %s holds %d, needs %d", ErrInsufficientFunds, addr, current, amount)
	}
	if ok {
		l.balances[addr] = current - amount
	}
	return nil
}

// BalanceOf returns the balance of addr, 0 if unknown.
func (l *Ledger) BalanceOf(addr keys.Address) uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.balances[addr]
}

// Has reports whether addr has an entry, even a zero one.
func (l *Ledger) Has(addr keys.Address) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()

	_, ok := l.balances[addr]
	return ok
}

// Headroom returns how much can still be credited to addr without overflow.
func (l *Ledger) Headroom(addr keys.Address) uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return math.MaxUint64 - l.balances[addr]
}

// Total returns the sum of all balances. It can exceed uint64.
func (l *Ledger) Total() *big.Int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	total := new(big.Int)
	for _, v := range l.balances {
		total.Add(total, new(big.Int).SetUint64(v))
	}
	return total
}

// Snapshot returns a copy of the table.
func (l *Ledger) Snapshot() map[keys.Address]uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make(map[keys.Address]uint64, len(l.balances))
	for a, v := range l.balances {
		out[a] = v
	}
	return out
}

// Drift describes an address whose live balance differs from the replayed one.
type Drift struct {
	Address  keys.Address
	Live     uint64
	Replayed *big.Int // may be negative when the chain spends more than was opened
}

func (d Drift) String() string {
	return fmt.Sprintf("%s: live %d, replayed %s", d.Address, d.Live, d.Replayed)
}

// Reconcile replays opening credits and every transaction of blocks and
// returns the addresses whose live balance disagrees, sorted by address.
// An empty result means the table matches the chain.
func (l *Ledger) Reconcile(blocks []ledger.Block) []Drift {
	l.mu.RLock()
	defer l.mu.RUnlock()

	replayed := make(map[keys.Address]*big.Int)
	get := func(a keys.Address) *big.Int {
		v, ok := replayed[a]
		if !ok {
			v = new(big.Int)
			replayed[a] = v
		}
		return v
	}
	for a, v := range l.openings {
		get(a).Add(get(a), new(big.Int).SetUint64(v))
	}
	for _, b := range blocks {
		for _, tx := range b.Transactions {
			amount := new(big.Int).SetUint64(tx.Amount)
			get(tx.From).Sub(get(tx.From), amount)
			get(tx.To).Add(get(tx.To), amount)
		}
	}
	for a := range l.balances {
		get(a)
	}

	var drifts []Drift
	for a, v := range replayed {
		live := l.balances[a]
		if v.Cmp(new(big.Int).SetUint64(live)) != 0 {
			drifts = append(drifts, Drift{Address: a, Live: live, Replayed: v})
		}
	}
	sort.Slice(drifts, func(i, j int) bool { return drifts[i].Address < drifts[j].Address })
	return drifts
}
