package editor

import (
	"github.com/cotiza-app/quote-gateway/internal/domain"
	"github.com/shopspring/decimal"
)

// Catalog is the read-only view of the reference data cache the editor
// resolves selections against. refdata.Cache satisfies it.
type Catalog interface {
	Item(id string) (domain.Item, bool)
	Client(id string) (domain.Client, bool)
}

// Row is one line of a quotation draft: an optional item selection plus a
// quantity. Rows are created unselected with quantity 1.
type Row struct {
	ID       string
	ItemID   string
	Quantity int
}

// LineTotal is the priced rendering of one valid row.
type LineTotal struct {
	RowID     string
	ItemID    string
	ItemName  string
	Quantity  int
	UnitPrice decimal.Decimal
	Total     decimal.Decimal
}

// Totals is the derived pricing of a draft. It is recomputed wholesale from
// the rows and the catalog on every read, never patched incrementally, so a
// reference data reload reprices already-selected rows on the next
// aggregation.
type Totals struct {
	Lines      []LineTotal
	GrandTotal decimal.Decimal
}

// GrandTotalFixed renders the grand total with exactly two decimals.
// Accumulation keeps full precision; rounding happens only here.
func (t Totals) GrandTotalFixed() string {
	return t.GrandTotal.StringFixed(2)
}

// Aggregate prices the given rows against the catalog. Rows without a
// selection, with a selection that no longer resolves, or with an invalid
// quantity contribute zero and never abort the aggregation of the rest.
func Aggregate(rows []Row, catalog Catalog) Totals {
	totals := Totals{GrandTotal: decimal.Zero}
	for _, row := range rows {
		if row.ItemID == "" || row.Quantity < 1 {
			continue
		}
		item, ok := catalog.Item(row.ItemID)
		if !ok {
			// Selection predates a reference data reload that dropped
			// the item; skip it rather than fail the whole summary.
			continue
		}
		line := item.UnitPrice.Mul(decimal.NewFromInt(int64(row.Quantity)))
		totals.Lines = append(totals.Lines, LineTotal{
			RowID:     row.ID,
			ItemID:    item.ID,
			ItemName:  item.Name,
			Quantity:  row.Quantity,
			UnitPrice: item.UnitPrice,
			Total:     line,
		})
		totals.GrandTotal = totals.GrandTotal.Add(line)
	}
	return totals
}
