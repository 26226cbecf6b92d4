package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pterm/pterm"

	"github.com/luca-patrignani/peanut-brulee/balance"
	"github.com/luca-patrignani/peanut-brulee/keys"
	"github.com/luca-patrignani/peanut-brulee/ledger"
)

type balanceReader interface {
	BalanceOf(addr keys.Address) uint64
}

// addressRows renders addresses with their balances, sorted for a stable display.
func addressRows(balances balanceReader, addrs []keys.Address) pterm.TableData {
	sorted := make([]keys.Address, len(addrs))
	copy(sorted, addrs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	data := pterm.TableData{{"Address", "Balance"}}
	for _, a := range sorted {
		data = append(data, []string{string(a), fmt.Sprint(balances.BalanceOf(a))})
	}
	return data
}

func driftRows(drifts []balance.Drift) pterm.TableData {
	data := pterm.TableData{{"Address", "Live", "Replayed"}}
	for _, d := range drifts {
		data = append(data, []string{string(d.Address), fmt.Sprint(d.Live), d.Replayed.String()})
	}
	return data
}

func renderBlock(b ledger.Block) string {
	title := pterm.LightYellow(fmt.Sprintf("|BLOCK %d|", b.Index))
	if b.IsGenesis() {
		title = pterm.LightGreen("|GENESIS|")
	}
	pbox := pterm.DefaultBox.WithHorizontalPadding(2).WithTitle(title).WithTitleTopLeft()

	var body strings.Builder
	fmt.Fprintf(&body, "Index: %d\nTimestamp: %s\nPrevious hash: %s\nHash: %s\nTransactions: %d",
		b.Index, b.Timestamp, b.PrevHash, b.Hash, len(b.Transactions))
	for _, tx := range b.Transactions {
		fmt.Fprintf(&body, "\n  %s -> %s : %d", tx.From, tx.To, tx.Amount)
	}
	return pbox.Sprintln(body.String())
}
