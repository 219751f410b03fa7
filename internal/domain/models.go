package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Client is a customer record from the backend master data.
type Client struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// ItemType categorizes catalog items.
type ItemType struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Item is a priced catalog entry. UnitPrice carries full precision; rendering
// rounds to two decimals at the presentation boundary only.
type Item struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	TypeID    string          `json:"typeId,omitempty"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// ReferenceData is the full master-data snapshot fetched from the backend.
// Reloads replace it wholesale; there is no partial update.
type ReferenceData struct {
	Clients   []Client   `json:"clients"`
	Items     []Item     `json:"items"`
	ItemTypes []ItemType `json:"itemTypes"`
}

// QuotationSummary is one entry of the quotation history listing.
type QuotationSummary struct {
	ID         string `json:"id"`
	ClientName string `json:"clientName"`
	Date       string `json:"date"`
	// Total is always formatted with exactly two decimals, regardless of how
	// the backend serialized it.
	Total string `json:"total"`
}

// QuotationDetailItem is one line of a stored quotation.
type QuotationDetailItem struct {
	Name      string `json:"name"`
	UnitPrice string `json:"unitPrice"`
	Quantity  int    `json:"quantity"`
	LineTotal string `json:"lineTotal"`
}

// QuotationDetail is the full stored quotation used for read-after-create
// display and the history modal.
type QuotationDetail struct {
	ID         string                `json:"id"`
	ClientName string                `json:"clientName"`
	Date       string                `json:"date"`
	Items      []QuotationDetailItem `json:"items"`
	Total      string                `json:"total"`
}

// SubmissionItem is one serialized draft row, keyed by item id and quantity.
type SubmissionItem struct {
	ItemID   string `json:"itemId"`
	Quantity int    `json:"quantity"`
}

// Submission is the serialized draft handed to the backend on submit.
type Submission struct {
	ClientID string           `json:"clientId"`
	Items    []SubmissionItem `json:"items"`
}

// CreatedQuotation is the backend's answer to a successful submission.
type CreatedQuotation struct {
	ID string `json:"id"`
}

// ItemView is an Item with the price rendered for display.
type ItemView struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	TypeID    string `json:"typeId,omitempty"`
	UnitPrice string `json:"unitPrice"`
}

// ReferenceDataView is the snapshot as rendered to the UI, with prices fixed
// to two decimals and the load timestamp for staleness display.
type ReferenceDataView struct {
	Clients   []Client   `json:"clients"`
	Items     []ItemView `json:"items"`
	ItemTypes []ItemType `json:"itemTypes"`
	LoadedAt  *time.Time `json:"loadedAt,omitempty"`
}

// ViewItem renders a catalog item for display.
func ViewItem(it Item) ItemView {
	return ItemView{
		ID:        it.ID,
		Name:      it.Name,
		TypeID:    it.TypeID,
		UnitPrice: it.UnitPrice.StringFixed(2),
	}
}
