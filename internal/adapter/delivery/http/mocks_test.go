package http

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/treebio/treebio/internal/entity"
)

type mockShortLinkUseCase struct {
	mock.Mock
}

func (m *mockShortLinkUseCase) Shorten(ctx context.Context, originalURL string) (*entity.ShortLink, error) {
	args := m.Called(ctx, originalURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ShortLink), args.Error(1)
}

func (m *mockShortLinkUseCase) Resolve(ctx context.Context, shortCode, ipAddress string) (*entity.ShortLink, error) {
	args := m.Called(ctx, shortCode, ipAddress)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ShortLink), args.Error(1)
}

func (m *mockShortLinkUseCase) List(ctx context.Context) ([]entity.ShortLink, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.ShortLink), args.Error(1)
}

func (m *mockShortLinkUseCase) DailyHits(ctx context.Context, shortLinkID int64, days int) ([]entity.DailyHits, error) {
	args := m.Called(ctx, shortLinkID, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.DailyHits), args.Error(1)
}

func (m *mockShortLinkUseCase) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockShortLinkUseCase) DeleteMany(ctx context.Context, ids []int64) (int64, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(int64), args.Error(1)
}
