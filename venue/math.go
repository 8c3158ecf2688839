// Copyright (c) 2026 The PollVenue developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package venue

import "math/big"

// MulDiv returns x * num / den, truncated toward zero.
// All reward and odds computation goes through here so that payout sums
// never exceed the pool. den must be positive.
func MulDiv(x, num, den *big.Int) *big.Int {
	if den.Sign() <= 0 {
		panic("venue: non-positive denominator")
	}
	r := new(big.Int).Mul(x, num)
	return r.Quo(r, den)
}

// ApplyPercent returns x * pct / 100, truncated toward zero.
func ApplyPercent(x *big.Int, pct uint8) *big.Int {
	return MulDiv(x, big.NewInt(int64(pct)), big.NewInt(100))
}
