package nft

import (
	"math"
	"math/bits"
)

// BasisPoints is the denominator of royalty shares: 10000 bps = 100%.
const BasisPoints = 10_000

// Royalty holds the basis-point shares of a sale paid to each party.
// The shares are not required to sum to BasisPoints.
type Royalty struct {
	Artfi           uint64 // Artfi is the platform share
	Artist          uint64 // Artist is the creator share
	StakingContract uint64 // StakingContract is the staking pool share
}

// Split returns the amount owed to each party for a sale of amount.
// Results round down and saturate at math.MaxUint64.
func (r Royalty) Split(amount uint64) (artfi, artist, staking uint64) {
	return share(amount, r.Artfi), share(amount, r.Artist), share(amount, r.StakingContract)
}

// Total returns the sum of the three shares, saturating on overflow.
func (r Royalty) Total() uint64 {
	sum, carry := bits.Add64(r.Artfi, r.Artist, 0)
	if carry != 0 {
		return math.MaxUint64
	}

	sum, carry = bits.Add64(sum, r.StakingContract, 0)
	if carry != 0 {
		return math.MaxUint64
	}

	return sum
}

// share computes amount * bps / BasisPoints with a 128-bit intermediate.
func share(amount, bps uint64) uint64 {
	hi, lo := bits.Mul64(amount, bps)
	if hi >= BasisPoints {
		return math.MaxUint64
	}

	q, _ := bits.Div64(hi, lo, BasisPoints)

	return q
}
