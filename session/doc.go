// Package session wires the account registry, the hash chain and the balance
// table into the entry points used by the command shell.
//
// A Session owns all three structures for the lifetime of the process. Every
// entry point runs under one mutex, so a transfer observes a consistent
// balance snapshot while it debits, credits and appends.
//
// # Known limitations
//
// Transfers are not authorized: any caller can spend from any address, no
// signature is checked against the registered public key.
//
// A transfer is not atomic across a crash. Balances are mutated before the
// block is appended, and nothing rolls them back if the append fails.
package session
