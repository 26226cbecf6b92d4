package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/pterm/pterm"

	"github.com/luca-patrignani/peanut-brulee/balance"
	"github.com/luca-patrignani/peanut-brulee/keys"
	"github.com/luca-patrignani/peanut-brulee/session"
)

const commandsHelp = "Commands: `new`, `list`, `send <from> <to> <amount>`, `chain`, `known`, `balance <address>`, `verify`, `reconcile`, `help`, `exit`"

// shell reads one command per line and runs it against the session.
type shell struct {
	session *session.Session
	out     io.Writer
}

func newShell(s *session.Session, out io.Writer) *shell {
	return &shell{session: s, out: out}
}

// run executes commands from in until `exit` or end of input. Only an entropy
// failure during key generation stops it early, with an error.
func (sh *shell) run(in io.Reader) error {
	pterm.Fprintln(sh.out, "Welcome to the peanut-brulee ledger")
	pterm.Fprintln(sh.out, commandsHelp)

	scanner := bufio.NewScanner(in)
	for {
		pterm.Fprint(sh.out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		quit, err := sh.execute(scanner.Text())
		if err != nil {
			return err
		}
		if quit {
			return nil
		}
	}
}

// execute runs a single command line. It reports whether the shell should stop.
func (sh *shell) execute(line string) (bool, error) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return false, nil
	}

	switch parts[0] {
	case "new":
		addr, err := sh.session.CreateAccount()
		if err != nil {
			sh.fail("Could not create account: %v", err)
			if errors.Is(err, keys.ErrEntropy) {
				return true, err
			}
			return false, nil
		}
		sh.success("New account created: %s", addr)
	case "list":
		sh.table(addressRows(sh.session, sh.session.ListAddresses()))
	case "send":
		if len(parts) != 4 {
			sh.fail("usage: send <from> <to> <amount>")
			return false, nil
		}
		sh.send(parts[1], parts[2], parts[3])
	case "chain":
		for _, b := range sh.session.DumpChain() {
			pterm.Fprint(sh.out, renderBlock(b))
		}
	case "known":
		known := sh.session.KnownAddresses()
		addrs := make([]keys.Address, 0, len(known))
		for a := range known {
			addrs = append(addrs, a)
		}
		sh.table(addressRows(sh.session, addrs))
	case "balance":
		if len(parts) != 2 {
			sh.fail("usage: balance <address>")
			return false, nil
		}
		sh.balance(keys.Address(parts[1]))
	case "verify":
		if err := sh.session.Verify(); err != nil {
			sh.fail("Chain is corrupted: %v", err)
			return false, nil
		}
		sh.success("Chain is valid (%d blocks)", sh.session.ChainLength())
	case "reconcile":
		drifts := sh.session.Reconcile()
		if len(drifts) == 0 {
			sh.success("Balances match the chain")
			return false, nil
		}
		sh.warn("%d balances drifted from the chain", len(drifts))
		sh.table(driftRows(drifts))
	case "help":
		pterm.Fprintln(sh.out, commandsHelp)
	case "exit", "quit":
		pterm.Fprintln(sh.out, "Goodbye.")
		return true, nil
	default:
		sh.fail("Unknown command.")
	}
	return false, nil
}

func (sh *shell) send(from, to, amount string) {
	tx, err := sh.session.Transfer(from, to, amount)
	switch {
	case err == nil:
		sh.success("Sent %d from %s to %s", tx.Amount, tx.From, tx.To)
	case errors.Is(err, session.ErrInvalidAmount):
		sh.fail("Invalid amount.")
	case errors.Is(err, balance.ErrUnknownSender):
		sh.fail("Sender not found.")
	case errors.Is(err, balance.ErrInsufficientFunds):
		sh.fail("Insufficient balance.")
	case errors.Is(err, balance.ErrAmountOverflow):
		sh.fail("Recipient balance would overflow.")
	default:
		sh.fail("Transfer failed: %v", err)
	}
}

func (sh *shell) balance(addr keys.Address) {
	_, err := sh.session.Lookup(addr)
	if err != nil && !sh.session.HasBalance(addr) {
		sh.warn("Unknown account %s", addr)
	}
	pterm.Fprintln(sh.out, fmt.Sprintf("%s | Balance: %d", addr, sh.session.BalanceOf(addr)))
}

func (sh *shell) success(format string, a ...any) {
	pterm.Fprint(sh.out, pterm.Success.Sprintfln(format, a...))
}

func (sh *shell) warn(format string, a ...any) {
	pterm.Fprint(sh.out, pterm.Warning.Sprintfln(format, a...))
}

func (sh *shell) fail(format string, a ...any) {
	pterm.Fprint(sh.out, pterm.Error.Sprintfln(format, a...))
}

func (sh *shell) table(data pterm.TableData) {
	rendered, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		sh.fail("Could not render table: %v", err)
		return
	}
	pterm.Fprintln(sh.out, rendered)
}
