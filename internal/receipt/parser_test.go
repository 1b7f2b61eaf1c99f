package receipt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpand_CountDividesPrice(t *testing.T) {
	items := []ItemRecord{
		{Name: "Eggs", Kind: UnitCount, Quantity: 4, Price: 3.00},
	}

	rows := Expand(99, items)
	require.Len(t, rows, 4)

	var sum float64
	for _, row := range rows {
		assert.Equal(t, int64(99), row.OrderID)
		assert.Equal(t, "Eggs", row.ItemName)
		assert.Nil(t, row.WeightKG)
		sum += row.UnitPrice
	}
	// Round-trip invariant: unit prices reconstruct the printed total.
	assert.InEpsilon(t, 3.00, sum, 1e-9)
}

func TestExpand_QuantityOfOneIsNoOp(t *testing.T) {
	rows := Expand(1, []ItemRecord{
		{Name: "Milk", Kind: UnitCount, Quantity: 1, Price: 1.15},
	})

	require.Len(t, rows, 1)
	assert.Equal(t, 1.15, rows[0].UnitPrice)
}

func TestExpand_WeightKeepsPrice(t *testing.T) {
	rows := Expand(1, []ItemRecord{
		{Name: "Mango", Kind: UnitWeight, WeightKG: 0.86, Price: 2.19},
	})

	require.Len(t, rows, 1)
	require.NotNil(t, rows[0].WeightKG)
	assert.Equal(t, 0.86, *rows[0].WeightKG)
	assert.Equal(t, 2.19, rows[0].UnitPrice)
}

func TestExpand_PreservesOrderAndContiguity(t *testing.T) {
	rows := Expand(1, []ItemRecord{
		{Name: "A", Kind: UnitCount, Quantity: 2, Price: 2.00},
		{Name: "B", Kind: UnitWeight, WeightKG: 1.2, Price: 4.00},
		{Name: "C", Kind: UnitCount, Quantity: 1, Price: 0.50},
	})

	names := make([]string, len(rows))
	for i, row := range rows {
		names[i] = row.ItemName
	}
	assert.Equal(t, []string{"A", "A", "B", "C"}, names)
}

type fakeParser struct {
	name string
}

func (f *fakeParser) Retailer() string { return f.name }
func (f *fakeParser) ExtractHeader(lines []string) (OrderHeader, error) {
	return OrderHeader{OrderID: 7}, nil
}
func (f *fakeParser) ExtractItems(lines []string) ([]ItemRecord, error) {
	return []ItemRecord{{Name: "X", Kind: UnitCount, Quantity: 2, Price: 1.00}}, nil
}

func TestRegistry(t *testing.T) {
	registry := NewRegistry(nil)

	require.NoError(t, registry.Register(&fakeParser{name: "sainsburys"}))
	assert.Error(t, registry.Register(&fakeParser{name: "sainsburys"}), "duplicate registration")

	p, err := registry.Get("sainsburys")
	require.NoError(t, err)
	assert.Equal(t, "sainsburys", p.Retailer())

	_, err = registry.Get("tesco")
	assert.Error(t, err)

	assert.Equal(t, []string{"sainsburys"}, registry.List())
}

func TestParse_UsesParserOutput(t *testing.T) {
	parsed, err := Parse(&fakeParser{name: "fake"}, nil)
	require.NoError(t, err)

	assert.Equal(t, int64(7), parsed.Header.OrderID)
	require.Len(t, parsed.Rows, 2)
	assert.Equal(t, int64(7), parsed.Rows[0].OrderID)
	assert.InDelta(t, 0.50, parsed.Rows[0].UnitPrice, 1e-9)
}
