package repository

import (
	"context"
	"errors"
	"fmt"

	"golang-portfolio/internal/model"
	"golang-portfolio/pkg/utils"

	"gorm.io/gorm"
)

var (
	ErrDuplicateSymbol  = errors.New("stock already exists in portfolio")
	ErrPositionNotFound = errors.New("position not found")
	ErrInvalidTradeType = errors.New("invalid trade type")
)

type PositionRepository interface {
	Create(ctx context.Context, position *model.Position, opts ...utils.DBOption) (uint, error)
	List(ctx context.Context, opts ...utils.DBOption) ([]model.Position, error)
	GetByID(ctx context.Context, id uint, opts ...utils.DBOption) (*model.Position, error)
	ExistsBySymbol(ctx context.Context, symbol string, excludeID uint, opts ...utils.DBOption) (bool, error)
	Update(ctx context.Context, id uint, position model.Position, opts ...utils.DBOption) error
	UpdateCurrentPrice(ctx context.Context, id uint, price float64, opts ...utils.DBOption) error
	Delete(ctx context.Context, id uint, opts ...utils.DBOption) error
}

type positionRepository struct {
	db *gorm.DB
}

func NewPositionRepository(db *gorm.DB) PositionRepository {
	return &positionRepository{
		db: db,
	}
}

func translateError(err error) error {
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicateSymbol
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrPositionNotFound
	default:
		return err
	}
}

func (r *positionRepository) Create(ctx context.Context, position *model.Position, opts ...utils.DBOption) (uint, error) {
	if !position.TradeType.IsValid() {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTradeType, position.TradeType)
	}
	position.ID = 0
	position.Symbol = utils.NormalizeSymbol(position.Symbol)
	if err := utils.ApplyOptions(r.db.WithContext(ctx), opts...).Create(position).Error; err != nil {
		return 0, translateError(err)
	}
	return position.ID, nil
}

func (r *positionRepository) List(ctx context.Context, opts ...utils.DBOption) ([]model.Position, error) {
	var positions []model.Position
	if err := utils.ApplyOptions(r.db.WithContext(ctx), opts...).Order("id ASC").Find(&positions).Error; err != nil {
		return nil, err
	}
	return positions, nil
}

func (r *positionRepository) GetByID(ctx context.Context, id uint, opts ...utils.DBOption) (*model.Position, error) {
	var position model.Position
	if err := utils.ApplyOptions(r.db.WithContext(ctx), opts...).First(&position, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &position, nil
}

func (r *positionRepository) ExistsBySymbol(ctx context.Context, symbol string, excludeID uint, opts ...utils.DBOption) (bool, error) {
	var count int64
	q := utils.ApplyOptions(r.db.WithContext(ctx), opts...).
		Model(&model.Position{}).
		Where("symbol = ?", utils.NormalizeSymbol(symbol))
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Update overwrites every user-editable column of the row. The id and
// created_at of the stored row are kept.
func (r *positionRepository) Update(ctx context.Context, id uint, position model.Position, opts ...utils.DBOption) error {
	if !position.TradeType.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidTradeType, position.TradeType)
	}
	db := utils.ApplyOptions(r.db.WithContext(ctx), opts...)

	var existing model.Position
	if err := db.First(&existing, id).Error; err != nil {
		return translateError(err)
	}

	existing.Symbol = utils.NormalizeSymbol(position.Symbol)
	existing.CurrentPrice = position.CurrentPrice
	existing.EntryPrice = position.EntryPrice
	existing.Quantity = position.Quantity
	existing.StopLoss = position.StopLoss
	existing.Target = position.Target
	existing.TradeType = position.TradeType

	if err := db.Save(&existing).Error; err != nil {
		return translateError(err)
	}
	return nil
}

func (r *positionRepository) UpdateCurrentPrice(ctx context.Context, id uint, price float64, opts ...utils.DBOption) error {
	res := utils.ApplyOptions(r.db.WithContext(ctx), opts...).
		Model(&model.Position{}).
		Where("id = ?", id).
		Update("current_price", price)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: id %d", ErrPositionNotFound, id)
	}
	return nil
}

func (r *positionRepository) Delete(ctx context.Context, id uint, opts ...utils.DBOption) error {
	res := utils.ApplyOptions(r.db.WithContext(ctx), opts...).Delete(&model.Position{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: id %d", ErrPositionNotFound, id)
	}
	return nil
}

// Migrate creates the positions table for stores that are not managed by the
// SQL migrations (the local sqlite file).
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&model.Position{})
}
