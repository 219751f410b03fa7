package service

import (
	"context"
	"errors"
	"testing"

	"github.com/cotiza-app/quote-gateway/internal/domain"
	"github.com/cotiza-app/quote-gateway/internal/notify"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeMasterDataAPI struct {
	client    domain.Client
	clientErr error
	item      domain.Item
	itemErr   error
}

func (f *fakeMasterDataAPI) CreateClient(ctx context.Context, req domain.CreateClientRequest) (domain.Client, error) {
	return f.client, f.clientErr
}

func (f *fakeMasterDataAPI) CreateItem(ctx context.Context, req domain.CreateItemRequest) (domain.Item, error) {
	return f.item, f.itemErr
}

type fakeReloader struct {
	calls int
	err   error
}

func (f *fakeReloader) Reload(ctx context.Context) error {
	f.calls++
	return f.err
}

func TestMasterDataService_CreateClient(t *testing.T) {
	t.Run("creates and reloads the cache", func(t *testing.T) {
		api := &fakeMasterDataAPI{client: domain.Client{ID: "12", Name: "Acme SA"}}
		reloader := &fakeReloader{}
		presenter := &recordingPresenter{}
		svc := NewMasterDataService(api, reloader, presenter, zap.NewNop())

		created, err := svc.CreateClient(context.Background(), domain.CreateClientRequest{Name: "Acme SA"})
		require.NoError(t, err)
		assert.Equal(t, "12", created.ID)
		assert.Equal(t, 1, reloader.calls)
		require.Len(t, presenter.kinds, 1)
		assert.Equal(t, notify.KindSuccess, presenter.kinds[0])
	})

	t.Run("backend failure skips the reload", func(t *testing.T) {
		api := &fakeMasterDataAPI{clientErr: errors.New("boom")}
		reloader := &fakeReloader{}
		presenter := &recordingPresenter{}
		svc := NewMasterDataService(api, reloader, presenter, zap.NewNop())

		_, err := svc.CreateClient(context.Background(), domain.CreateClientRequest{Name: "Acme SA"})
		require.Error(t, err)
		assert.Zero(t, reloader.calls)
		require.Len(t, presenter.kinds, 1)
		assert.Equal(t, notify.KindError, presenter.kinds[0])
	})

	t.Run("failed reload does not fail the creation", func(t *testing.T) {
		api := &fakeMasterDataAPI{client: domain.Client{ID: "13"}}
		reloader := &fakeReloader{err: errors.New("backend down")}
		svc := NewMasterDataService(api, reloader, &recordingPresenter{}, zap.NewNop())

		created, err := svc.CreateClient(context.Background(), domain.CreateClientRequest{Name: "Beta SRL"})
		require.NoError(t, err)
		assert.Equal(t, "13", created.ID)
		assert.Equal(t, 1, reloader.calls)
	})
}

func TestMasterDataService_CreateItem(t *testing.T) {
	api := &fakeMasterDataAPI{item: domain.Item{
		ID:        "3",
		Name:      "Cableado",
		UnitPrice: decimal.RequireFromString("7.25"),
	}}
	reloader := &fakeReloader{}
	svc := NewMasterDataService(api, reloader, &recordingPresenter{}, zap.NewNop())

	created, err := svc.CreateItem(context.Background(), domain.CreateItemRequest{
		Name:      "Cableado",
		UnitPrice: "7.25",
	})
	require.NoError(t, err)
	assert.Equal(t, "3", created.ID)
	assert.Equal(t, 1, reloader.calls)
}
