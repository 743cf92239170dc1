package service_test

import (
	"context"

	"rentshare-backend/internal/domain"

	"github.com/stretchr/testify/mock"
)

// MockTransactor runs fn in place.
type MockTransactor struct {
	mock.Mock
}

func (m *MockTransactor) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	m.Called(ctx)
	return fn(ctx)
}

// MockListingRepo
type MockListingRepo struct {
	mock.Mock
}

func (m *MockListingRepo) Create(ctx context.Context, l *domain.Listing) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}
func (m *MockListingRepo) GetByID(ctx context.Context, id int32) (*domain.Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Listing), args.Error(1)
}
func (m *MockListingRepo) GetForUpdate(ctx context.Context, id int32) (*domain.Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Listing), args.Error(1)
}
func (m *MockListingRepo) AdjustQuantity(ctx context.Context, id int32, delta int32) (int32, error) {
	args := m.Called(ctx, id, delta)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockListingRepo) AddStock(ctx context.Context, id int32, delta int32) (*domain.Listing, error) {
	args := m.Called(ctx, id, delta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Listing), args.Error(1)
}
func (m *MockListingRepo) Update(ctx context.Context, l *domain.Listing) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}
func (m *MockListingRepo) List(ctx context.Context, page, pageSize int32) ([]domain.Listing, int32, error) {
	args := m.Called(ctx, page, pageSize)
	return args.Get(0).([]domain.Listing), args.Get(1).(int32), args.Error(2)
}
func (m *MockListingRepo) ListByOwner(ctx context.Context, ownerID int32) ([]domain.Listing, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]domain.Listing), args.Error(1)
}
func (m *MockListingRepo) FindStockDrift(ctx context.Context) ([]domain.StockDrift, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.StockDrift), args.Error(1)
}

// MockWalletRepo
type MockWalletRepo struct {
	mock.Mock
}

func (m *MockWalletRepo) Credit(ctx context.Context, userID int32, amount int64) error {
	args := m.Called(ctx, userID, amount)
	return args.Error(0)
}
func (m *MockWalletRepo) RecordSettlement(ctx context.Context, s *domain.Settlement) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}
func (m *MockWalletRepo) GetBalance(ctx context.Context, userID int32) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockWalletRepo) ListSettlements(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Settlement, int32, error) {
	args := m.Called(ctx, userID, page, pageSize)
	return args.Get(0).([]domain.Settlement), args.Get(1).(int32), args.Error(2)
}
