// Package account keeps the key pairs of the accounts created in a session,
// indexed by address.
package account

import (
	"errors"
	"fmt"
	"sync"

	"github.com/luca-patrignani/peanut-brulee/keys"
)

// ErrUnknownAccount is returned by Get for an address with no key pair.
var ErrUnknownAccount = errors.New("unknown account")

// KeySource produces fresh key pairs.
type KeySource interface {
	Generate() (keys.KeyPair, error)
}

// Registry maps addresses to the key pairs that derived them.
type Registry struct {
	mu       sync.RWMutex
	keys     KeySource
	accounts map[keys.Address]keys.KeyPair
}

// New returns an empty registry drawing key pairs from source.
func New(source KeySource) *Registry {
	return &Registry{
		keys:     source,
		accounts: make(map[keys.Address]keys.KeyPair),
	}
}

// CreateAccount generates a key pair, stores it under its address and returns
// the address. Address collisions are not checked.
func (r *Registry) CreateAccount() (keys.Address, error) {
	kp, err := r.keys.Generate()
	if err != nil {
		return "", fmt.Errorf("failed to generate key pair: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.accounts[kp.Address] = kp
	return kp.Address, nil
}

// ListAddresses returns every registered address in no particular order.
func (r *Registry) ListAddresses() []keys.Address {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]keys.Address, 0, len(r.accounts))
	for addr := range r.accounts {
		out = append(out, addr)
	}
	return out
}

// Lookup returns the key pair of addr, if any.
func (r *Registry) Lookup(addr keys.Address) (keys.KeyPair, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kp, ok := r.accounts[addr]
	return kp, ok
}

// Get is Lookup with an ErrUnknownAccount error for a miss.
func (r *Registry) Get(addr keys.Address) (keys.KeyPair, error) {
	kp, ok := r.Lookup(addr)
	if !ok {
		return keys.KeyPair{}, fmt.Errorf("%w: %s", ErrUnknownAccount, addr)
	}
	return kp, nil
}

// Len returns the number of registered accounts.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.accounts)
}
