package keys

import (
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// Secp256k1 is the default scheme. Public keys are serialized compressed.
var Secp256k1 Scheme = secp256k1Scheme{}

type secp256k1Scheme struct{}

func (secp256k1Scheme) Name() string { return "secp256k1" }

func (secp256k1Scheme) Derive(entropy [ScalarSize]byte) ([]byte, []byte, error) {
	var scalar secp256k1.ModNScalar
	// Values >= N are reduced by SetBytes; reject them instead of biasing the key.
	if overflow := scalar.SetBytes(&entropy); overflow != 0 || scalar.IsZero() {
		return nil, nil, ErrInvalidScalar
	}
	priv := secp256k1.NewPrivateKey(&scalar)
	return priv.Serialize(), priv.PubKey().SerializeCompressed(), nil
}

func (secp256k1Scheme) PublicKey(priv []byte) ([]byte, error) {
	if len(priv) != ScalarSize {
		return nil, fmt.Errorf("secp256k1 private key must be %d bytes, got %d", ScalarSize, len(priv))
	}
	var scalar secp256k1.ModNScalar
	if overflow := scalar.SetByteSlice(priv); overflow || scalar.IsZero() {
		return nil, ErrInvalidScalar
	}
	return secp256k1.NewPrivateKey(&scalar).PubKey().SerializeCompressed(), nil
}
