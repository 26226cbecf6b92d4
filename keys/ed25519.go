package keys

import (
	"fmt"

	"go.dedis.ch/kyber/v4"
	"go.dedis.ch/kyber/v4/suites"
)

// Ed25519 uses the kyber Ed25519 group. The private scalar is the entropy
// reduced modulo the group order.
var Ed25519 Scheme = ed25519Scheme{suite: suites.MustFind("Ed25519")}

type ed25519Scheme struct {
	suite suites.Suite
}

func (ed25519Scheme) Name() string { return "ed25519" }

func (s ed25519Scheme) Derive(entropy [ScalarSize]byte) ([]byte, []byte, error) {
	scalar := s.suite.Scalar().SetBytes(entropy[:])
	if scalar.Equal(s.suite.Scalar().Zero()) {
		return nil, nil, ErrInvalidScalar
	}
	return s.marshal(scalar)
}

func (s ed25519Scheme) PublicKey(priv []byte) ([]byte, error) {
	if len(priv) != ScalarSize {
		return nil, fmt.Errorf("ed25519 private key must be %d bytes, got %d", ScalarSize, len(priv))
	}
	scalar := s.suite.Scalar()
	if err := scalar.UnmarshalBinary(priv); err != nil {
		return nil, fmt.Errorf("failed to decode ed25519 scalar: %w", err)
	}
	_, pub, err := s.marshal(scalar)
	return pub, err
}

func (s ed25519Scheme) marshal(scalar kyber.Scalar) ([]byte, []byte, error) {
	privBytes, err := scalar.MarshalBinary()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal scalar: %w", err)
	}
	pubBytes, err := s.suite.Point().Mul(scalar, nil).MarshalBinary()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal point: %w", err)
	}
	return privBytes, pubBytes, nil
}
