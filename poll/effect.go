// Copyright (c) 2026 The PollVenue developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package poll

import (
	"math/big"

	"github.com/pollvenue/venue/venue"
)

// Transfer is an instruction to send native currency to a recipient.
type Transfer struct {
	Recipient venue.Address `json:"recipient"`
	Amount    *big.Int      `json:"amount"`
}

// TokenTransfer is an instruction to move deposit tokens held by the venue.
type TokenTransfer struct {
	Recipient venue.Address `json:"recipient"`
	Amount    *big.Int      `json:"amount"`
}

// TokenBurn is an instruction to destroy deposit tokens held by the venue.
type TokenBurn struct {
	Amount *big.Int `json:"amount"`
}

// Output collects the outbound fund-movement instructions produced by one
// operation. The engine never moves funds itself; the dispatch layer
// executes these against the token contract and the native currency.
type Output struct {
	Transfers      []*Transfer      `json:"transfers,omitempty"`
	TokenTransfers []*TokenTransfer `json:"token_transfers,omitempty"`
	TokenBurns     []*TokenBurn     `json:"token_burns,omitempty"`
}

// AddTransfer appends a native currency transfer. Zero amounts are dropped.
func (o *Output) AddTransfer(recipient venue.Address, amount *big.Int) {
	if amount.Sign() <= 0 {
		return
	}
	o.Transfers = append(o.Transfers, &Transfer{Recipient: recipient, Amount: amount})
}

// AddTokenTransfer appends a deposit token transfer. Zero amounts are dropped.
func (o *Output) AddTokenTransfer(recipient venue.Address, amount *big.Int) {
	if amount.Sign() <= 0 {
		return
	}
	o.TokenTransfers = append(o.TokenTransfers, &TokenTransfer{Recipient: recipient, Amount: amount})
}

// AddTokenBurn appends a deposit token burn. Zero amounts are dropped.
func (o *Output) AddTokenBurn(amount *big.Int) {
	if amount.Sign() <= 0 {
		return
	}
	o.TokenBurns = append(o.TokenBurns, &TokenBurn{Amount: amount})
}

// TransferredTotal sums the native currency leaving the venue.
func (o *Output) TransferredTotal() *big.Int {
	total := new(big.Int)
	for _, t := range o.Transfers {
		total.Add(total, t.Amount)
	}
	return total
}
