// Package splitter computes what each participant owes for a receipt.
//
// Every expanded item row divides evenly across the users who claimed
// it. Per-user totals are rounded to cents and any residual cent from
// rounding lands on the largest share, so the shares always reconcile
// with the claimed total.
package splitter

import (
	"errors"
	"math"
	"sort"
)

// ItemClaim pairs one expanded item row with the users who claimed it.
type ItemClaim struct {
	ItemID  int64
	Price   float64
	UserIDs []int64
}

// Share is one participant's owed amount.
type Share struct {
	UserID int64
	Amount float64
}

// Result contains the computed split for one receipt.
type Result struct {
	Shares []Share
	// ClaimedTotal is the sum of all claimed item prices.
	ClaimedTotal float64
	// UnclaimedTotal is the sum of rows nobody has claimed yet.
	UnclaimedTotal float64
}

// Split divides each claimed item's price evenly among its claimants
// and returns per-user totals, sorted by user id. Items with no
// claimants are tallied into UnclaimedTotal.
func Split(items []ItemClaim) (*Result, error) {
	owed := make(map[int64]float64)
	result := &Result{}

	for _, item := range items {
		if item.Price < 0 {
			return nil, errors.New("item price cannot be negative")
		}
		if len(item.UserIDs) == 0 {
			result.UnclaimedTotal += item.Price
			continue
		}

		result.ClaimedTotal += item.Price
		portion := item.Price / float64(len(item.UserIDs))
		for _, userID := range item.UserIDs {
			owed[userID] += portion
		}
	}

	shares := make([]Share, 0, len(owed))
	var roundedTotal float64
	for userID, amount := range owed {
		rounded := roundToCents(amount)
		shares = append(shares, Share{UserID: userID, Amount: rounded})
		roundedTotal += rounded
	}
	sort.Slice(shares, func(i, j int) bool { return shares[i].UserID < shares[j].UserID })

	// Push any rounding residue onto the largest share so the shares
	// still sum to the claimed total.
	diff := roundToCents(result.ClaimedTotal - roundedTotal)
	if diff != 0 && len(shares) > 0 {
		maxIdx := 0
		for i, s := range shares {
			if s.Amount > shares[maxIdx].Amount {
				maxIdx = i
			}
		}
		shares[maxIdx].Amount = roundToCents(shares[maxIdx].Amount + diff)
	}

	result.ClaimedTotal = roundToCents(result.ClaimedTotal)
	result.UnclaimedTotal = roundToCents(result.UnclaimedTotal)
	result.Shares = shares
	return result, nil
}

// roundToCents rounds a float to 2 decimal places.
func roundToCents(amount float64) float64 {
	return math.Round(amount*100) / 100
}
