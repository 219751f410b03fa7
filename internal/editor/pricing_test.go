package editor

import (
	"testing"

	"github.com/cotiza-app/quote-gateway/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCatalog is an in-memory Catalog for tests.
type fakeCatalog struct {
	items   map[string]domain.Item
	clients map[string]domain.Client
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		items:   make(map[string]domain.Item),
		clients: make(map[string]domain.Client),
	}
}

func (f *fakeCatalog) addItem(id, name, price string) {
	f.items[id] = domain.Item{
		ID:        id,
		Name:      name,
		UnitPrice: decimal.RequireFromString(price),
	}
}

func (f *fakeCatalog) addClient(id, name string) {
	f.clients[id] = domain.Client{ID: id, Name: name}
}

func (f *fakeCatalog) Item(id string) (domain.Item, bool) {
	it, ok := f.items[id]
	return it, ok
}

func (f *fakeCatalog) Client(id string) (domain.Client, bool) {
	cl, ok := f.clients[id]
	return cl, ok
}

func TestAggregate(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.addItem("1", "Consulting", "10.00")
	catalog.addItem("2", "Support", "5.50")

	t.Run("sums line totals", func(t *testing.T) {
		rows := []Row{
			{ID: "r1", ItemID: "1", Quantity: 2},
			{ID: "r2", ItemID: "2", Quantity: 3},
		}

		totals := Aggregate(rows, catalog)

		require.Len(t, totals.Lines, 2)
		assert.Equal(t, "20.00", totals.Lines[0].Total.StringFixed(2))
		assert.Equal(t, "16.50", totals.Lines[1].Total.StringFixed(2))
		assert.Equal(t, "36.50", totals.GrandTotalFixed())
	})

	t.Run("unselected rows contribute zero", func(t *testing.T) {
		rows := []Row{
			{ID: "r1", Quantity: 1},
			{ID: "r2", ItemID: "1", Quantity: 1},
		}

		totals := Aggregate(rows, catalog)

		require.Len(t, totals.Lines, 1)
		assert.Equal(t, "10.00", totals.GrandTotalFixed())
	})

	t.Run("rows with invalid quantity are skipped", func(t *testing.T) {
		rows := []Row{
			{ID: "r1", ItemID: "1", Quantity: 0},
			{ID: "r2", ItemID: "2", Quantity: -3},
		}

		totals := Aggregate(rows, catalog)

		assert.Empty(t, totals.Lines)
		assert.Equal(t, "0.00", totals.GrandTotalFixed())
	})

	t.Run("selection that no longer resolves is skipped", func(t *testing.T) {
		rows := []Row{
			{ID: "r1", ItemID: "deleted", Quantity: 2},
			{ID: "r2", ItemID: "2", Quantity: 1},
		}

		totals := Aggregate(rows, catalog)

		require.Len(t, totals.Lines, 1)
		assert.Equal(t, "2", totals.Lines[0].ItemID)
		assert.Equal(t, "5.50", totals.GrandTotalFixed())
	})

	t.Run("empty row list", func(t *testing.T) {
		totals := Aggregate(nil, catalog)

		assert.Empty(t, totals.Lines)
		assert.True(t, totals.GrandTotal.Equal(decimal.Zero))
	})

	t.Run("full precision kept until rendering", func(t *testing.T) {
		catalog.addItem("3", "Per-metre cable", "0.333")
		rows := []Row{{ID: "r1", ItemID: "3", Quantity: 3}}

		totals := Aggregate(rows, catalog)

		assert.True(t, totals.GrandTotal.Equal(decimal.RequireFromString("0.999")))
		assert.Equal(t, "1.00", totals.GrandTotalFixed())
	})
}
