package sainsburys

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/basketsplit/basketsplit/internal/receipt"
)

// sampleLines is a minimal well-formed receipt dump.
func sampleLines(itemLines ...string) []string {
	lines := []string{
		"Your receipt for order: 12345",
		"Slot time: Thursday 3rd August 2023, 9:00pm - 10:00pm",
		"Delivery summary",
	}
	lines = append(lines, itemLines...)
	return append(lines, "Order summary")
}

func TestExtractHeader(t *testing.T) {
	p := New()

	header, err := p.ExtractHeader(sampleLines())
	require.NoError(t, err)

	assert.Equal(t, int64(12345), header.OrderID)
	// Only the start of the delivery window is kept.
	assert.Equal(t, time.Date(2023, time.August, 3, 21, 0, 0, 0, time.UTC), header.OrderTime)
}

func TestExtractHeader_Errors(t *testing.T) {
	p := New()

	tests := []struct {
		name  string
		lines []string
	}{
		{
			name: "order id line missing",
			lines: []string{
				"Slot time: Thursday 3rd August 2023, 9:00pm - 10:00pm",
			},
		},
		{
			name: "order id not numeric",
			lines: []string{
				"Your receipt for order: ABC123",
				"Slot time: Thursday 3rd August 2023, 9:00pm - 10:00pm",
			},
		},
		{
			name: "slot time line missing",
			lines: []string{
				"Your receipt for order: 12345",
			},
		},
		{
			name: "day has no ordinal suffix",
			lines: []string{
				"Your receipt for order: 12345",
				"Slot time: Thursday 3 August 2023, 9:00pm - 10:00pm",
			},
		},
		{
			name: "slot time missing comma",
			lines: []string{
				"Your receipt for order: 12345",
				"Slot time: Thursday 3rd August 2023 9:00pm - 10:00pm",
			},
		},
		{
			name: "unparseable month",
			lines: []string{
				"Your receipt for order: 12345",
				"Slot time: Thursday 3rd Augtember 2023, 9:00pm - 10:00pm",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.ExtractHeader(tt.lines)
			require.Error(t, err)
			assert.ErrorIs(t, err, receipt.ErrMalformedHeader)
		})
	}
}

func TestParse_CountItemExpansion(t *testing.T) {
	// "2Broccoli£1.00" becomes two rows at half price each.
	parsed, err := receipt.Parse(New(), sampleLines("2Broccoli£1.00"))
	require.NoError(t, err)

	require.Len(t, parsed.Items, 1)
	assert.Equal(t, "Broccoli", parsed.Items[0].Name)
	assert.Equal(t, receipt.UnitCount, parsed.Items[0].Kind)
	assert.Equal(t, 2, parsed.Items[0].Quantity)

	require.Len(t, parsed.Rows, 2)
	for _, row := range parsed.Rows {
		assert.Equal(t, int64(12345), row.OrderID)
		assert.Equal(t, "Broccoli", row.ItemName)
		assert.Nil(t, row.WeightKG)
		assert.InDelta(t, 0.50, row.UnitPrice, 1e-9)
	}
}

func TestParse_WeightItem(t *testing.T) {
	// Weighed produce keeps its printed price, no division.
	parsed, err := receipt.Parse(New(), sampleLines("0.86kgMango£2.19"))
	require.NoError(t, err)

	require.Len(t, parsed.Rows, 1)
	row := parsed.Rows[0]
	assert.Equal(t, "Mango", row.ItemName)
	require.NotNil(t, row.WeightKG)
	assert.InDelta(t, 0.86, *row.WeightKG, 1e-9)
	assert.InDelta(t, 2.19, row.UnitPrice, 1e-9)
}

func TestParse_QuantityOfOne(t *testing.T) {
	parsed, err := receipt.Parse(New(), sampleLines("1Milk£1.15"))
	require.NoError(t, err)

	require.Len(t, parsed.Rows, 1)
	assert.InDelta(t, 1.15, parsed.Rows[0].UnitPrice, 1e-9)
}

func TestParse_RoundTripSum(t *testing.T) {
	// The expanded unit prices must reconstruct the printed total.
	parsed, err := receipt.Parse(New(), sampleLines("3Sourdough Loaf£2.00"))
	require.NoError(t, err)

	require.Len(t, parsed.Rows, 3)
	var sum float64
	for _, row := range parsed.Rows {
		sum += row.UnitPrice
	}
	assert.InEpsilon(t, 2.00, sum, 1e-9)
}

func TestParse_WrappedName(t *testing.T) {
	// A long name wraps across physical lines; only the last carries the
	// price. The logical item is the concatenation.
	parsed, err := receipt.Parse(New(), sampleLines(
		"2Taste the Difference ",
		"Chocolate Cake£3.50",
	))
	require.NoError(t, err)

	require.Len(t, parsed.Items, 1)
	assert.Equal(t, "Taste the Difference Chocolate Cake", parsed.Items[0].Name)
	require.Len(t, parsed.Rows, 2)
	assert.InDelta(t, 1.75, parsed.Rows[0].UnitPrice, 1e-9)
}

func TestParse_LastCurrencySymbolWins(t *testing.T) {
	// A promotional "£1 off" inside the name must not be mistaken for
	// the price boundary.
	parsed, err := receipt.Parse(New(), sampleLines("1Fairy Liquid £1 off£2.00"))
	require.NoError(t, err)

	require.Len(t, parsed.Items, 1)
	assert.Equal(t, "Fairy Liquid £1 off", parsed.Items[0].Name)
	assert.InDelta(t, 2.00, parsed.Items[0].Price, 1e-9)
}

func TestParse_OrderingPreserved(t *testing.T) {
	parsed, err := receipt.Parse(New(), sampleLines(
		"2Broccoli£1.00",
		"0.86kgMango£2.19",
		"1Milk£1.15",
	))
	require.NoError(t, err)

	require.Len(t, parsed.Rows, 4)
	assert.Equal(t, "Broccoli", parsed.Rows[0].ItemName)
	assert.Equal(t, "Broccoli", parsed.Rows[1].ItemName) // duplicates contiguous
	assert.Equal(t, "Mango", parsed.Rows[2].ItemName)
	assert.Equal(t, "Milk", parsed.Rows[3].ItemName)
}

func TestParse_Idempotent(t *testing.T) {
	lines := sampleLines("2Broccoli£1.00", "0.86kgMango£2.19")
	p := New()

	first, err := receipt.Parse(p, lines)
	require.NoError(t, err)
	second, err := receipt.Parse(p, lines)
	require.NoError(t, err)

	assert.Equal(t, first.Header, second.Header)
	assert.Equal(t, first.Items, second.Items)
	require.Equal(t, len(first.Rows), len(second.Rows))
	for i := range first.Rows {
		assert.Equal(t, first.Rows[i].ItemName, second.Rows[i].ItemName)
		assert.Equal(t, first.Rows[i].UnitPrice, second.Rows[i].UnitPrice)
	}
}

func TestExtractItems_MissingMarkers(t *testing.T) {
	p := New()

	tests := []struct {
		name  string
		lines []string
	}{
		{
			name:  "no markers at all",
			lines: []string{"2Broccoli£1.00"},
		},
		{
			name:  "end marker missing",
			lines: []string{"Delivery summary", "2Broccoli£1.00"},
		},
		{
			name:  "start marker missing",
			lines: []string{"2Broccoli£1.00", "Order summary"},
		},
		{
			name:  "inverted markers",
			lines: []string{"Order summary", "2Broccoli£1.00", "Delivery summary"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.ExtractItems(tt.lines)
			require.Error(t, err)
			assert.ErrorIs(t, err, receipt.ErrMissingSectionMarkers)
		})
	}
}

func TestExtractItems_RepeatedMarkersUseLast(t *testing.T) {
	lines := []string{
		"Delivery summary",
		"1Stale Item£9.99",
		"Delivery summary",
		"1Milk£1.15",
		"Order summary",
	}

	items, err := New().ExtractItems(lines)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Milk", items[0].Name)
}

func TestExtractItems_FieldSplitErrors(t *testing.T) {
	p := New()

	tests := []struct {
		name string
		item string
	}{
		{name: "no uppercase before price", item: "2 own brand butter£3.00"},
		{name: "unparseable price", item: "2Broccoli£abc"},
		{name: "negative price", item: "2Broccoli£-1.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.ExtractItems(sampleLines(tt.item))
			require.Error(t, err)
			assert.ErrorIs(t, err, receipt.ErrFieldSplit)
		})
	}
}

func TestExtractItems_DanglingWrappedLine(t *testing.T) {
	// A line with no price anywhere before end of block is a hard error,
	// not a silent drop.
	_, err := New().ExtractItems(sampleLines("2Bananas with no price"))
	require.Error(t, err)
	assert.ErrorIs(t, err, receipt.ErrFieldSplit)

	var lineErr *receipt.LineError
	require.ErrorAs(t, err, &lineErr)
	assert.Contains(t, lineErr.Line, "Bananas")
}

func TestExtractItems_InvalidAmounts(t *testing.T) {
	p := New()

	tests := []struct {
		name string
		item string
	}{
		{name: "non-numeric weight", item: "abckgMango£2.19"},
		{name: "non-integer quantity", item: "1.5Broccoli£1.00"},
		{name: "zero quantity", item: "0Broccoli£1.00"},
		{name: "empty amount", item: "Broccoli£1.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.ExtractItems(sampleLines(tt.item))
			require.Error(t, err)
			assert.ErrorIs(t, err, receipt.ErrInvalidAmount)
		})
	}
}

func TestExtractItems_ErrorCarriesPosition(t *testing.T) {
	_, err := New().ExtractItems(sampleLines("1Milk£1.15", "xBroccoli£1.00"))
	require.Error(t, err)

	var lineErr *receipt.LineError
	require.ErrorAs(t, err, &lineErr)
	assert.Equal(t, "xBroccoli£1.00", lineErr.Line)
	// sampleLines puts the bad item at index 4 of the raw sequence.
	assert.Equal(t, 4, lineErr.Pos)
}
