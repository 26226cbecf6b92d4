package main

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/pterm/pterm"

	"github.com/luca-patrignani/peanut-brulee/keys"
	"github.com/luca-patrignani/peanut-brulee/session"
)

func TestMain(m *testing.M) {
	pterm.DisableStyling()
	os.Exit(m.Run())
}

func newTestShell() (*shell, *bytes.Buffer) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := session.New(session.WithLogger(logger), session.WithOpeningBalance(100))
	out := &bytes.Buffer{}
	return newShell(s, out), out
}

func mustExecute(t *testing.T, sh *shell, line string) {
	t.Helper()
	if _, err := sh.execute(line); err != nil {
		t.Fatalf("%q: unexpected error %v", line, err)
	}
}

// TestShellSendFlow drives new, send, list, known and chain through the shell
// and checks the resulting balances and output.
func TestShellSendFlow(t *testing.T) {
	sh, out := newTestShell()

	mustExecute(t, sh, "new")
	addrs := sh.session.ListAddresses()
	if len(addrs) != 1 {
		t.Fatalf("expected one account, got %d", len(addrs))
	}
	from := addrs[0]
	if !strings.Contains(out.String(), "New account created: "+string(from)) {
		t.Fatalf("missing creation message in %q", out.String())
	}

	out.Reset()
	mustExecute(t, sh, "send "+string(from)+" bob 40")
	if !strings.Contains(out.String(), "Sent 40 from "+string(from)+" to bob") {
		t.Fatalf("missing send confirmation in %q", out.String())
	}
	if sh.session.BalanceOf(from) != 60 || sh.session.BalanceOf("bob") != 40 {
		t.Fatal("balances not updated by send")
	}

	out.Reset()
	mustExecute(t, sh, "list")
	if !strings.Contains(out.String(), string(from)) || !strings.Contains(out.String(), "60") {
		t.Fatalf("list should show the account and its balance, got %q", out.String())
	}
	if strings.Contains(out.String(), "bob") {
		t.Fatal("list should only show registered accounts")
	}

	out.Reset()
	mustExecute(t, sh, "known")
	if !strings.Contains(out.String(), "bob") || !strings.Contains(out.String(), string(from)) {
		t.Fatalf("known should show both parties, got %q", out.String())
	}

	out.Reset()
	mustExecute(t, sh, "chain")
	for _, expected := range []string{"Index: 0", "Index: 1", string(from) + " -> bob : 40"} {
		if !strings.Contains(out.String(), expected) {
			t.Fatalf("chain output should contain %q, got %q", expected, out.String())
		}
	}
}

// TestShellTransferErrors verifies the messages of rejected transfers.
func TestShellTransferErrors(t *testing.T) {
	sh, out := newTestShell()
	mustExecute(t, sh, "new")
	from := string(sh.session.ListAddresses()[0])

	cases := map[string]string{
		"send " + from + " bob abc":  "Invalid amount.",
		"send " + from + " bob 1000": "Insufficient balance.",
		"send ghost bob 1":           "Sender not found.",
		"send " + from + " bob":      "usage: send",
	}
	for line, expected := range cases {
		out.Reset()
		mustExecute(t, sh, line)
		if !strings.Contains(out.String(), expected) {
			t.Fatalf("%q: expected %q in %q", line, expected, out.String())
		}
	}
	if sh.session.ChainLength() != 1 {
		t.Fatal("rejected transfers must not append blocks")
	}
}

// TestShellVerifyAndReconcile verifies the integrity commands on a healthy session.
func TestShellVerifyAndReconcile(t *testing.T) {
	sh, out := newTestShell()
	mustExecute(t, sh, "new")
	from := string(sh.session.ListAddresses()[0])
	mustExecute(t, sh, "send "+from+" bob 10")

	out.Reset()
	mustExecute(t, sh, "verify")
	if !strings.Contains(out.String(), "Chain is valid (2 blocks)") {
		t.Fatalf("unexpected verify output %q", out.String())
	}

	out.Reset()
	mustExecute(t, sh, "reconcile")
	if !strings.Contains(out.String(), "Balances match the chain") {
		t.Fatalf("unexpected reconcile output %q", out.String())
	}
}

// TestShellBalance verifies the balance command for known and unknown addresses.
func TestShellBalance(t *testing.T) {
	sh, out := newTestShell()
	mustExecute(t, sh, "new")
	addr := string(sh.session.ListAddresses()[0])

	out.Reset()
	mustExecute(t, sh, "balance "+addr)
	if !strings.Contains(out.String(), addr+" | Balance: 100") {
		t.Fatalf("unexpected output %q", out.String())
	}

	out.Reset()
	mustExecute(t, sh, "balance nobody")
	if !strings.Contains(out.String(), "Unknown account nobody") || !strings.Contains(out.String(), "Balance: 0") {
		t.Fatalf("unknown address should show an empty view, got %q", out.String())
	}
}

// TestShellRun verifies the read loop: blank lines are skipped, unknown commands
// are reported and exit stops reading.
func TestShellRun(t *testing.T) {
	sh, out := newTestShell()
	input := strings.NewReader("\nfoo\nnew\nexit\nnew\n")

	if err := sh.run(input); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), "Unknown command.") {
		t.Fatalf("expected unknown command message, got %q", out.String())
	}
	if !strings.Contains(out.String(), "Goodbye.") {
		t.Fatal("expected goodbye message")
	}
	if len(sh.session.ListAddresses()) != 1 {
		t.Fatal("commands after exit must not run")
	}
}

// TestShellRunEndOfInput verifies that the loop ends cleanly without exit.
func TestShellRunEndOfInput(t *testing.T) {
	sh, _ := newTestShell()
	if err := sh.run(strings.NewReader("new\nnew")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sh.session.ListAddresses()) != 2 {
		t.Fatal("both commands should run")
	}
}

// TestShellEntropyFailureStops verifies that a key generation failure ends the session.
func TestShellEntropyFailureStops(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	gen := keys.NewGenerator(keys.Secp256k1, keys.WithRand(bytes.NewReader(nil)))
	s := session.New(session.WithLogger(logger), session.WithKeySource(gen))
	sh := newShell(s, &bytes.Buffer{})

	err := sh.run(strings.NewReader("new\nnew\n"))
	if !errors.Is(err, keys.ErrEntropy) {
		t.Fatalf("expected ErrEntropy, got %v", err)
	}
}
