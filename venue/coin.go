// Copyright (c) 2026 The PollVenue developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package venue

import "math/big"

// Coin is a denominated amount of native currency attached to a call.
type Coin struct {
	Denom  string
	Amount *big.Int
}

// NewCoin creates a coin from an uint64 amount.
func NewCoin(denom string, amount uint64) Coin {
	return Coin{Denom: denom, Amount: new(big.Int).SetUint64(amount)}
}
