// Package ledger implements the append-only hash chain that records value
// transfers between addresses.
//
// # Core Components
//
// Blockchain: an ordered, contiguous sequence of blocks starting from a
// genesis block. Blocks are only ever appended.
//
// Block: an index, a capture-time timestamp, an ordered list of transactions
// and the hash of the previous block, sealed by its own hash.
//
// # Hashing
//
// A block hash is the hex encoded SHA-256 of
//
//	index || timestamp || from_1 || to_1 || amount_1 || ... || prev_hash
//
// with numbers in base 10 and no delimiters. The ordering is part of the
// external contract: chains hashed with a different ordering cannot verify
// each other.
//
// # Security Properties
//
//   - Tamper detection: changing any stored field of any block makes Verify fail
//   - Linkage: every block stores the hash of its predecessor
//
// The chain does not validate transaction content. Balance rules live with the
// caller that decides what to append.
package ledger
