package keys

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
)

// ScalarSize is the number of entropy bytes drawn for one private scalar.
const ScalarSize = 32

// defaultMaxDraws bounds the redraw loop. Hitting an invalid scalar is
// negligible on both curves, so reaching the bound means the reader is broken.
const defaultMaxDraws = 16

var (
	// ErrEntropy is returned when the entropy source cannot provide a usable scalar.
	ErrEntropy = errors.New("entropy source failure")
	// ErrInvalidScalar is returned by a Scheme when a draw is not a valid private scalar.
	ErrInvalidScalar = errors.New("invalid private scalar")
	// ErrUnknownScheme is returned by ParseScheme for an unsupported curve name.
	ErrUnknownScheme = errors.New("unknown key scheme")
)

// Address is the public identifier of an account: hex(SHA-256(public key)).
type Address string

// DeriveAddress returns the address of a serialized public key.
func DeriveAddress(publicKey []byte) Address {
	sum := sha256.Sum256(publicKey)
	return Address(hex.EncodeToString(sum[:]))
}

// Short returns the first n characters of the address, for display.
func (a Address) Short(n int) string {
	if n <= 0 || n >= len(a) {
		return string(a)
	}
	return string(a[:n])
}

// KeyPair is an immutable private/public key pair together with its address.
type KeyPair struct {
	Scheme     string
	PrivateKey []byte
	PublicKey  []byte
	Address    Address
}

// Scheme turns 32 bytes of entropy into a key pair on a fixed curve.
type Scheme interface {
	// Name returns the configuration name of the curve.
	Name() string

	// Derive interprets entropy as a private scalar and returns the serialized
	// private scalar and public point. It returns ErrInvalidScalar when the
	// entropy does not encode a usable scalar.
	Derive(entropy [ScalarSize]byte) (priv []byte, pub []byte, err error)

	// PublicKey recomputes the serialized public point of a serialized private scalar.
	PublicKey(priv []byte) ([]byte, error)
}

// ParseScheme returns the Scheme registered under name.
func ParseScheme(name string) (Scheme, error) {
	switch name {
	case "", Secp256k1.Name():
		return Secp256k1, nil
	case Ed25519.Name():
		return Ed25519, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownScheme, name)
}

// Generator draws key pairs for a Scheme from an entropy reader.
type Generator struct {
	scheme   Scheme
	rand     io.Reader
	maxDraws int
}

type option func(Generator) Generator

// NewGenerator returns a Generator for scheme reading from crypto/rand.
func NewGenerator(scheme Scheme, opts ...option) Generator {
	g := Generator{
		scheme:   scheme,
		rand:     rand.Reader,
		maxDraws: defaultMaxDraws,
	}
	for _, opt := range opts {
		g = opt(g)
	}
	return g
}

// WithRand replaces the entropy reader.
func WithRand(r io.Reader) option {
	return func(g Generator) Generator {
		g.rand = r
		return g
	}
}

// WithMaxDraws sets how many invalid scalars are tolerated before giving up.
func WithMaxDraws(n int) option {
	return func(g Generator) Generator {
		if n > 0 {
			g.maxDraws = n
		}
		return g
	}
}

// Scheme returns the curve used by the generator.
func (g Generator) Scheme() Scheme {
	return g.scheme
}

// Generate draws a fresh key pair. Invalid scalars are redrawn; a reader
// error or short read aborts with ErrEntropy.
func (g Generator) Generate() (KeyPair, error) {
	var entropy [ScalarSize]byte
	for draw := 0; draw < g.maxDraws; draw++ {
		if _, err := io.ReadFull(g.rand, entropy[:]); err != nil {
			return KeyPair{}, fmt.Errorf("%w: %v", ErrEntropy, err)
		}
		priv, pub, err := g.scheme.Derive(entropy)
		if errors.Is(err, ErrInvalidScalar) {
			continue
		}
		if err != nil {
			return KeyPair{}, err
		}
		return KeyPair{
			Scheme:     g.scheme.Name(),
			PrivateKey: priv,
			PublicKey:  pub,
			Address:    DeriveAddress(pub),
		}, nil
	}
	return KeyPair{}, fmt.Errorf("%w: no valid %s scalar after %d draws", ErrEntropy, g.scheme.Name(), g.maxDraws)
}
