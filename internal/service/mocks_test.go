package service

import (
	"context"

	"golang-portfolio/internal/dto"
	"golang-portfolio/internal/model"
	"golang-portfolio/pkg/utils"

	"github.com/stretchr/testify/mock"
)

type mockPositionRepository struct {
	mock.Mock
}

func (m *mockPositionRepository) Create(ctx context.Context, position *model.Position, opts ...utils.DBOption) (uint, error) {
	args := m.Called(ctx, position)
	return args.Get(0).(uint), args.Error(1)
}

func (m *mockPositionRepository) List(ctx context.Context, opts ...utils.DBOption) ([]model.Position, error) {
	args := m.Called(ctx)
	positions, _ := args.Get(0).([]model.Position)
	return positions, args.Error(1)
}

func (m *mockPositionRepository) GetByID(ctx context.Context, id uint, opts ...utils.DBOption) (*model.Position, error) {
	args := m.Called(ctx, id)
	position, _ := args.Get(0).(*model.Position)
	return position, args.Error(1)
}

func (m *mockPositionRepository) ExistsBySymbol(ctx context.Context, symbol string, excludeID uint, opts ...utils.DBOption) (bool, error) {
	args := m.Called(ctx, symbol, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *mockPositionRepository) Update(ctx context.Context, id uint, position model.Position, opts ...utils.DBOption) error {
	return m.Called(ctx, id, position).Error(0)
}

func (m *mockPositionRepository) UpdateCurrentPrice(ctx context.Context, id uint, price float64, opts ...utils.DBOption) error {
	return m.Called(ctx, id, price).Error(0)
}

func (m *mockPositionRepository) Delete(ctx context.Context, id uint, opts ...utils.DBOption) error {
	return m.Called(ctx, id).Error(0)
}

type mockQuoteRepository struct {
	mock.Mock
}

func (m *mockQuoteRepository) GetPrice(ctx context.Context, symbol string) (float64, error) {
	args := m.Called(ctx, symbol)
	return args.Get(0).(float64), args.Error(1)
}

// passThroughUnitOfWork runs fn without a transaction.
type passThroughUnitOfWork struct{}

func (passThroughUnitOfWork) Run(ctx context.Context, fn func(opts ...utils.DBOption) error) error {
	return fn()
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) SendMessage(ctx context.Context, message string, opts ...interface{}) error {
	return m.Called(ctx, message).Error(0)
}

type mockRefresher struct {
	mock.Mock
}

func (m *mockRefresher) RefreshPrices(ctx context.Context) (*dto.RefreshResult, error) {
	args := m.Called(ctx)
	result, _ := args.Get(0).(*dto.RefreshResult)
	return result, args.Error(1)
}
