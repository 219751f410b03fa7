package service

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/cotiza-app/quote-gateway/internal/domain"
	"github.com/cotiza-app/quote-gateway/internal/editor"
	"github.com/cotiza-app/quote-gateway/internal/notify"
	"go.uber.org/zap"
)

// QuotationAPI is the slice of the backend client the quotation service
// consumes.
type QuotationAPI interface {
	ListQuotations(ctx context.Context) ([]domain.QuotationSummary, error)
	FetchQuotationDetail(ctx context.Context, id string) (*domain.QuotationDetail, error)
	DownloadPDF(ctx context.Context, id string) (io.ReadCloser, error)
}

// QuotationService orchestrates draft submission and serves the quotation
// history (browse, search, detail, PDF relay).
type QuotationService struct {
	api       QuotationAPI
	presenter notify.Presenter
	logger    *zap.Logger
}

// NewQuotationService creates a new QuotationService.
func NewQuotationService(api QuotationAPI, presenter notify.Presenter, logger *zap.Logger) *QuotationService {
	return &QuotationService{
		api:       api,
		presenter: presenter,
		logger:    logger,
	}
}

// List returns the quotation history, newest-first as the backend sends it.
// Totals are already normalized to two decimals by the backend client.
func (s *QuotationService) List(ctx context.Context) ([]domain.QuotationSummary, error) {
	summaries, err := s.api.ListQuotations(ctx)
	if err != nil {
		s.presenter.Present("Could not load quotations", notify.KindError)
		return nil, err
	}
	return summaries, nil
}

// Search filters the history case-insensitively over id, client name, date
// and total. An empty query returns the full listing.
func (s *QuotationService) Search(ctx context.Context, query string) ([]domain.QuotationSummary, error) {
	summaries, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return summaries, nil
	}

	filtered := make([]domain.QuotationSummary, 0, len(summaries))
	for _, sum := range summaries {
		if strings.Contains(strings.ToLower(sum.ID), query) ||
			strings.Contains(strings.ToLower(sum.ClientName), query) ||
			strings.Contains(strings.ToLower(sum.Date), query) ||
			strings.Contains(sum.Total, query) {
			filtered = append(filtered, sum)
		}
	}
	return filtered, nil
}

// Detail returns one stored quotation for display.
func (s *QuotationService) Detail(ctx context.Context, id string) (*domain.QuotationDetail, error) {
	detail, err := s.api.FetchQuotationDetail(ctx, id)
	if err != nil {
		s.presenter.Present("Could not load the quotation", notify.KindError)
		return nil, err
	}
	return detail, nil
}

// PDF streams the rendered PDF for a stored quotation. The caller owns the
// returned reader.
func (s *QuotationService) PDF(ctx context.Context, id string) (io.ReadCloser, error) {
	body, err := s.api.DownloadPDF(ctx, id)
	if err != nil {
		s.presenter.Present("Could not download the PDF", notify.KindError)
		return nil, err
	}
	return body, nil
}

// SubmitDraft submits a draft through its controller and, on success,
// fetches the stored quotation for immediate display. A failing
// read-after-create fetch does not fail the submission: the id is already
// assigned and the draft already reset.
func (s *QuotationService) SubmitDraft(ctx context.Context, c *editor.Controller) (*domain.SubmitResponse, error) {
	created, err := c.Submit(ctx)
	if err != nil {
		s.presenter.Present(submitFailureMessage(err), notify.KindError)
		return nil, err
	}

	s.presenter.Present("Quotation created successfully", notify.KindSuccess)

	resp := &domain.SubmitResponse{ID: created.ID}
	detail, err := s.api.FetchQuotationDetail(ctx, created.ID)
	if err != nil {
		s.logger.Warn("read-after-create fetch failed",
			zap.String("quotation_id", created.ID),
			zap.Error(err),
		)
		return resp, nil
	}
	resp.Quotation = detail
	return resp, nil
}

// submitFailureMessage maps submission errors onto the message shown to the
// user.
func submitFailureMessage(err error) string {
	switch {
	case isErr(err, editor.ErrMissingClient):
		return "Select a client before submitting"
	case isErr(err, editor.ErrEmptyDraft):
		return "Add at least one item"
	case isErr(err, editor.ErrIncompleteRows):
		return "Every row needs an item and a valid quantity"
	case isErr(err, editor.ErrAlreadySubmitting):
		return "Submission already in progress"
	default:
		return fmt.Sprintf("Could not create the quotation: %v", err)
	}
}
