package domain

// Request DTOs consumed by the HTTP adapter. Validation tags are enforced with
// go-playground/validator before any core call is made.

// CreateClientRequest creates a customer in the backend master data.
type CreateClientRequest struct {
	Name  string `json:"name" validate:"required,max=200"`
	Email string `json:"email" validate:"omitempty,email"`
	Phone string `json:"phone" validate:"omitempty,max=40"`
}

// CreateItemRequest creates a catalog item in the backend master data.
// UnitPrice travels as a decimal string to avoid float parsing surprises.
type CreateItemRequest struct {
	Name      string `json:"name" validate:"required,max=200"`
	TypeID    string `json:"typeId" validate:"omitempty,max=100"`
	UnitPrice string `json:"unitPrice" validate:"required"`
}

// SetClientRequest binds a draft to a client.
type SetClientRequest struct {
	ClientID string `json:"clientId" validate:"required"`
}

// SetSelectionRequest points a draft row at a catalog item.
type SetSelectionRequest struct {
	ItemID string `json:"itemId" validate:"required"`
}

// SetQuantityRequest updates a draft row's quantity. The editor enforces the
// quantity floor; the tag only rejects obviously malformed payloads early.
type SetQuantityRequest struct {
	Quantity int `json:"quantity" validate:"required"`
}

// RowView is one draft row as rendered to the UI.
type RowView struct {
	ID        string `json:"id"`
	ItemID    string `json:"itemId,omitempty"`
	ItemName  string `json:"itemName,omitempty"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unitPrice,omitempty"`
	LineTotal string `json:"lineTotal"`
}

// DraftView is the full editor state pushed back after every mutation, the
// render the UI replaces its form with.
type DraftView struct {
	ID         string    `json:"id"`
	ClientID   string    `json:"clientId,omitempty"`
	ClientName string    `json:"clientName,omitempty"`
	State      string    `json:"state"`
	Rows       []RowView `json:"rows"`
	Total      string    `json:"total"`
}

// SubmitResponse reports a successful submission together with the stored
// quotation for immediate display.
type SubmitResponse struct {
	ID        string           `json:"id"`
	Quotation *QuotationDetail `json:"quotation,omitempty"`
}
