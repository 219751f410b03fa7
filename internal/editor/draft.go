// Package editor implements the quotation draft editing core: an ordered,
// mutable list of line-item rows, reactive pricing aggregation against the
// reference data cache, and the draft submission state machine. The package
// is free of HTTP concerns; the http adapter translates UI events into calls
// on a Controller and renders the state it returns.
package editor

import (
	"context"
	"fmt"
	"sync"

	"github.com/cotiza-app/quote-gateway/internal/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// State is the draft lifecycle state.
type State string

const (
	// StateEmpty is a freshly created or just reset draft: no client, one
	// blank row.
	StateEmpty State = "empty"
	// StateEditing is entered on the first mutation and kept by all
	// subsequent ones.
	StateEditing State = "editing"
	// StateSubmitting means a submit request is in flight. Concurrent
	// submit attempts are rejected while in this state.
	StateSubmitting State = "submitting"
	// StateSubmitted is terminal for a draft instance; the controller
	// immediately resets to a fresh empty draft after reaching it.
	StateSubmitted State = "submitted"
)

// Submitter hands a serialized draft to the backend. A single call, no
// idempotency key: duplicate-submit protection is entirely the Submitting
// guard on the controller.
type Submitter interface {
	SubmitQuotation(ctx context.Context, sub domain.Submission) (domain.CreatedQuotation, error)
}

// ChangeListener receives freshly aggregated totals after every successful
// mutation (push model; there is no polling).
type ChangeListener func(Totals)

// Controller owns one quotation draft. It is the only writer of the row
// sequence; the catalog is shared read-only. All mutations are serialized by
// an internal mutex so concurrent HTTP handlers observe consistent state.
type Controller struct {
	mu        sync.Mutex
	id        string
	clientID  string
	rows      []Row
	state     State
	catalog   Catalog
	submitter Submitter
	logger    *zap.Logger
	onChange  ChangeListener
}

// Snapshot is a consistent copy of the controller state for rendering.
type Snapshot struct {
	ID       string
	ClientID string
	State    State
	Rows     []Row
	Totals   Totals
}

// NewController creates a controller holding a fresh empty draft.
func NewController(catalog Catalog, submitter Submitter, logger *zap.Logger) *Controller {
	c := &Controller{
		id:        uuid.New().String(),
		catalog:   catalog,
		submitter: submitter,
		logger:    logger,
	}
	c.resetLocked()
	return c
}

// SetChangeListener registers the render callback invoked after every
// successful mutation. Pass nil to detach.
func (c *Controller) SetChangeListener(fn ChangeListener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onChange = fn
}

// ID returns the opaque draft session identifier.
func (c *Controller) ID() string {
	return c.id
}

// resetLocked brings the draft back to the empty state: no client, one blank
// row. Callers must hold c.mu or have exclusive access.
func (c *Controller) resetLocked() {
	c.clientID = ""
	c.rows = []Row{{ID: uuid.New().String(), Quantity: 1}}
	c.state = StateEmpty
}

// Reset discards the draft and starts over with a fresh empty one.
func (c *Controller) Reset() {
	c.mu.Lock()
	c.resetLocked()
	c.mu.Unlock()
	c.notifyChange()
}

// AddRow appends a new unselected row with quantity 1 and returns its id.
// There is no upper bound on the row count.
func (c *Controller) AddRow() string {
	c.mu.Lock()
	row := Row{ID: uuid.New().String(), Quantity: 1}
	c.rows = append(c.rows, row)
	c.markEditingLocked()
	c.mu.Unlock()
	c.notifyChange()
	return row.ID
}

// RemoveRow removes the row with the given id. Removing an unknown id is an
// intentional no-op: rapid double clicks in the UI may race and the second
// removal must not surface an error.
func (c *Controller) RemoveRow(rowID string) {
	c.mu.Lock()
	removed := false
	for i, row := range c.rows {
		if row.ID == rowID {
			c.rows = append(c.rows[:i], c.rows[i+1:]...)
			removed = true
			break
		}
	}
	if removed {
		c.markEditingLocked()
	}
	c.mu.Unlock()
	if removed {
		c.notifyChange()
	}
}

// SetSelection points a row at a catalog item. The item must resolve in the
// reference data cache at mutation time; the quantity floor is re-validated
// so a selected row never carries a quantity below 1.
func (c *Controller) SetSelection(rowID, itemID string) error {
	if _, ok := c.catalog.Item(itemID); !ok {
		return fmt.Errorf("%w: unknown item %q", ErrInvalidReference, itemID)
	}

	c.mu.Lock()
	row := c.findRowLocked(rowID)
	if row == nil {
		c.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownRow, rowID)
	}
	row.ItemID = itemID
	if row.Quantity < 1 {
		row.Quantity = 1
	}
	c.markEditingLocked()
	c.mu.Unlock()

	c.notifyChange()
	return nil
}

// SetQuantity updates a row's quantity in place. Quantities below 1 are
// rejected; the row keeps its previous value.
func (c *Controller) SetQuantity(rowID string, qty int) error {
	if qty < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidQuantity, qty)
	}

	c.mu.Lock()
	row := c.findRowLocked(rowID)
	if row == nil {
		c.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownRow, rowID)
	}
	row.Quantity = qty
	c.markEditingLocked()
	c.mu.Unlock()

	c.notifyChange()
	return nil
}

// SetClient binds the draft to a client from the reference data cache.
func (c *Controller) SetClient(clientID string) error {
	if _, ok := c.catalog.Client(clientID); !ok {
		return fmt.Errorf("%w: unknown client %q", ErrInvalidReference, clientID)
	}

	c.mu.Lock()
	c.clientID = clientID
	c.markEditingLocked()
	c.mu.Unlock()

	c.notifyChange()
	return nil
}

// Totals aggregates the current rows against the catalog. The computation is
// wholesale on every call, so prices changed by a reference data reload are
// reflected without rows being reselected.
func (c *Controller) Totals() Totals {
	c.mu.Lock()
	rows := append([]Row(nil), c.rows...)
	c.mu.Unlock()
	return Aggregate(rows, c.catalog)
}

// Snapshot returns a consistent copy of the draft with freshly aggregated
// totals.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	snap := Snapshot{
		ID:       c.id,
		ClientID: c.clientID,
		State:    c.state,
		Rows:     append([]Row(nil), c.rows...),
	}
	c.mu.Unlock()
	snap.Totals = Aggregate(snap.Rows, c.catalog)
	return snap
}

// Submit validates the draft, serializes it and hands it to the submitter.
// On transport or backend failure the draft returns to editing unchanged; on
// success it transitions to submitted, resets to a fresh empty draft, and the
// server-assigned quotation id is returned.
func (c *Controller) Submit(ctx context.Context) (domain.CreatedQuotation, error) {
	c.mu.Lock()
	if c.state == StateSubmitting {
		c.mu.Unlock()
		return domain.CreatedQuotation{}, ErrAlreadySubmitting
	}

	sub, err := c.buildSubmissionLocked()
	if err != nil {
		c.mu.Unlock()
		return domain.CreatedQuotation{}, err
	}
	c.state = StateSubmitting
	c.mu.Unlock()

	// The network call happens outside the lock so the user can keep
	// interacting with unrelated parts of the UI while it is in flight.
	created, err := c.submitter.SubmitQuotation(ctx, sub)

	c.mu.Lock()
	if err != nil {
		// No data loss: every row and the client selection are intact.
		c.state = StateEditing
		c.mu.Unlock()
		c.logger.Warn("quotation submission failed",
			zap.String("draft_id", c.id),
			zap.Error(err),
		)
		return domain.CreatedQuotation{}, fmt.Errorf("%w: %v", ErrSubmitFailed, err)
	}
	c.state = StateSubmitted
	c.resetLocked()
	c.mu.Unlock()

	c.logger.Info("quotation submitted",
		zap.String("draft_id", c.id),
		zap.String("quotation_id", created.ID),
		zap.Int("rows", len(sub.Items)),
	)
	c.notifyChange()
	return created, nil
}

// buildSubmissionLocked validates the draft and serializes it. Callers must
// hold c.mu.
func (c *Controller) buildSubmissionLocked() (domain.Submission, error) {
	if c.clientID == "" {
		return domain.Submission{}, ErrMissingClient
	}
	if len(c.rows) == 0 {
		return domain.Submission{}, ErrEmptyDraft
	}

	sub := domain.Submission{ClientID: c.clientID}
	for i, row := range c.rows {
		if row.ItemID == "" {
			return domain.Submission{}, fmt.Errorf("%w: row %d has no item selected", ErrIncompleteRows, i+1)
		}
		if _, ok := c.catalog.Item(row.ItemID); !ok {
			return domain.Submission{}, fmt.Errorf("%w: row %d references unknown item %q", ErrIncompleteRows, i+1, row.ItemID)
		}
		if row.Quantity < 1 {
			return domain.Submission{}, fmt.Errorf("%w: row %d has invalid quantity %d", ErrIncompleteRows, i+1, row.Quantity)
		}
		sub.Items = append(sub.Items, domain.SubmissionItem{
			ItemID:   row.ItemID,
			Quantity: row.Quantity,
		})
	}
	return sub, nil
}

func (c *Controller) findRowLocked(rowID string) *Row {
	for i := range c.rows {
		if c.rows[i].ID == rowID {
			return &c.rows[i]
		}
	}
	return nil
}

func (c *Controller) markEditingLocked() {
	if c.state == StateEmpty || c.state == StateSubmitted {
		c.state = StateEditing
	}
}

func (c *Controller) notifyChange() {
	c.mu.Lock()
	fn := c.onChange
	c.mu.Unlock()
	if fn != nil {
		fn(c.Totals())
	}
}
