// Package keys generates the asymmetric key pairs that back ledger accounts
// and derives their public addresses.
//
// # Schemes
//
// Two curves are supported:
//   - secp256k1 (default): 33-byte compressed public keys
//   - Ed25519: 32-byte compressed Edwards points, through the kyber suite
//
// # Addresses
//
// An address is the lowercase hex encoding of SHA-256 over the serialized
// public key. It is a deterministic function of the public key and is the
// join key between the account registry and the balance table.
//
// # Entropy
//
// Every private scalar is drawn as 32 bytes from a cryptographically secure
// reader. A draw that is not a valid scalar for the curve is discarded and
// drawn again. A failing reader aborts generation with ErrEntropy: a weak key
// is never produced.
package keys
