package service

import (
	"context"
	"errors"

	"github.com/cotiza-app/quote-gateway/internal/domain"
	"github.com/cotiza-app/quote-gateway/internal/notify"
	"go.uber.org/zap"
)

func isErr(err, target error) bool { return errors.Is(err, target) }

// MasterDataAPI is the slice of the backend client used for client/item
// management.
type MasterDataAPI interface {
	CreateClient(ctx context.Context, req domain.CreateClientRequest) (domain.Client, error)
	CreateItem(ctx context.Context, req domain.CreateItemRequest) (domain.Item, error)
}

// Reloader triggers a reference data reload. refdata.Cache satisfies it.
type Reloader interface {
	Reload(ctx context.Context) error
}

// MasterDataService creates clients and catalog items through the backend
// and refreshes the reference data cache so new entries become selectable
// immediately, the way the original forms refetched after every save.
type MasterDataService struct {
	api       MasterDataAPI
	cache     Reloader
	presenter notify.Presenter
	logger    *zap.Logger
}

// NewMasterDataService creates a new MasterDataService.
func NewMasterDataService(api MasterDataAPI, cache Reloader, presenter notify.Presenter, logger *zap.Logger) *MasterDataService {
	return &MasterDataService{
		api:       api,
		cache:     cache,
		presenter: presenter,
		logger:    logger,
	}
}

// CreateClient creates a customer and reloads the cache.
func (s *MasterDataService) CreateClient(ctx context.Context, req domain.CreateClientRequest) (domain.Client, error) {
	created, err := s.api.CreateClient(ctx, req)
	if err != nil {
		s.presenter.Present("Could not create the client", notify.KindError)
		return domain.Client{}, err
	}

	s.presenter.Present("Client created", notify.KindSuccess)
	s.reload(ctx, "client", created.ID)
	return created, nil
}

// CreateItem creates a catalog item and reloads the cache.
func (s *MasterDataService) CreateItem(ctx context.Context, req domain.CreateItemRequest) (domain.Item, error) {
	created, err := s.api.CreateItem(ctx, req)
	if err != nil {
		s.presenter.Present("Could not create the item", notify.KindError)
		return domain.Item{}, err
	}

	s.presenter.Present("Item created", notify.KindSuccess)
	s.reload(ctx, "item", created.ID)
	return created, nil
}

// reload refreshes the cache after a master data change. A failed reload is
// not fatal: the entity exists in the backend and the next refresh picks it
// up; the stale cache keeps serving meanwhile.
func (s *MasterDataService) reload(ctx context.Context, entity, id string) {
	if err := s.cache.Reload(ctx); err != nil {
		s.logger.Warn("reference data reload after master data change failed",
			zap.String("entity", entity),
			zap.String("id", id),
			zap.Error(err),
		)
	}
}
