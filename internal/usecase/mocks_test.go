package usecase

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/treebio/treebio/internal/entity"
)

type mockShortLinkRepository struct {
	mock.Mock
}

func (m *mockShortLinkRepository) Save(ctx context.Context, shortCode, url string) (*entity.ShortLink, error) {
	args := m.Called(ctx, shortCode, url)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ShortLink), args.Error(1)
}

func (m *mockShortLinkRepository) ExistsByCode(ctx context.Context, shortCode string) (bool, error) {
	args := m.Called(ctx, shortCode)
	return args.Bool(0), args.Error(1)
}

func (m *mockShortLinkRepository) RetrieveByShortCode(ctx context.Context, shortCode string) (*entity.ShortLink, error) {
	args := m.Called(ctx, shortCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ShortLink), args.Error(1)
}

func (m *mockShortLinkRepository) RetrieveAll(ctx context.Context) ([]entity.ShortLink, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.ShortLink), args.Error(1)
}

func (m *mockShortLinkRepository) IncrementClicks(ctx context.Context, shortCode string) (*entity.ShortLink, error) {
	args := m.Called(ctx, shortCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ShortLink), args.Error(1)
}

func (m *mockShortLinkRepository) Remove(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockShortLinkRepository) RemoveMany(ctx context.Context, ids []int64) (int64, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(int64), args.Error(1)
}

type mockHitRepository struct {
	mock.Mock
}

func (m *mockHitRepository) Record(ctx context.Context, shortLinkID int64, ipAddress string) error {
	args := m.Called(ctx, shortLinkID, ipAddress)
	return args.Error(0)
}

func (m *mockHitRepository) RetrieveSince(ctx context.Context, shortLinkID int64, since time.Time) ([]entity.ShortLinkHit, error) {
	args := m.Called(ctx, shortLinkID, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.ShortLinkHit), args.Error(1)
}
