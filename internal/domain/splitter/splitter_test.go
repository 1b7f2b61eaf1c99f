package splitter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit_EvenDivision(t *testing.T) {
	// Two users share one item, a third claims another alone.
	result, err := Split([]ItemClaim{
		{ItemID: 1, Price: 3.00, UserIDs: []int64{1, 2}},
		{ItemID: 2, Price: 2.00, UserIDs: []int64{3}},
	})
	require.NoError(t, err)

	require.Len(t, result.Shares, 3)
	assert.Equal(t, Share{UserID: 1, Amount: 1.50}, result.Shares[0])
	assert.Equal(t, Share{UserID: 2, Amount: 1.50}, result.Shares[1])
	assert.Equal(t, Share{UserID: 3, Amount: 2.00}, result.Shares[2])
	assert.InDelta(t, 5.00, result.ClaimedTotal, 0.001)
	assert.Equal(t, 0.0, result.UnclaimedTotal)
}

func TestSplit_RoundingReconciles(t *testing.T) {
	// £1.00 across three users cannot round evenly; the residual cent
	// lands on one share so the total still reconciles.
	result, err := Split([]ItemClaim{
		{ItemID: 1, Price: 1.00, UserIDs: []int64{1, 2, 3}},
	})
	require.NoError(t, err)

	var sum float64
	for _, share := range result.Shares {
		sum += share.Amount
	}
	assert.InDelta(t, 1.00, sum, 0.001)
}

func TestSplit_UnclaimedItems(t *testing.T) {
	result, err := Split([]ItemClaim{
		{ItemID: 1, Price: 1.50, UserIDs: []int64{1}},
		{ItemID: 2, Price: 2.25},
	})
	require.NoError(t, err)

	assert.InDelta(t, 1.50, result.ClaimedTotal, 0.001)
	assert.InDelta(t, 2.25, result.UnclaimedTotal, 0.001)
	require.Len(t, result.Shares, 1)
}

func TestSplit_MultipleClaimsAccumulate(t *testing.T) {
	result, err := Split([]ItemClaim{
		{ItemID: 1, Price: 1.00, UserIDs: []int64{1}},
		{ItemID: 2, Price: 2.50, UserIDs: []int64{1, 2}},
	})
	require.NoError(t, err)

	require.Len(t, result.Shares, 2)
	assert.InDelta(t, 2.25, result.Shares[0].Amount, 0.001)
	assert.InDelta(t, 1.25, result.Shares[1].Amount, 0.001)
}

func TestSplit_NegativePrice(t *testing.T) {
	_, err := Split([]ItemClaim{{ItemID: 1, Price: -1.00, UserIDs: []int64{1}}})
	assert.Error(t, err)
}

func TestSplit_Empty(t *testing.T) {
	result, err := Split(nil)
	require.NoError(t, err)
	assert.Empty(t, result.Shares)
	assert.Equal(t, 0.0, result.ClaimedTotal)
}
