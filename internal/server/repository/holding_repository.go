package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"river-portfolio/internal/entity"
)

// HoldingRepository defines the interface for portfolio holding operations.
// Removals deactivate rows instead of deleting them so purchase history
// survives.
type HoldingRepository interface {
	GetActiveByUserID(ctx context.Context, userID uint) ([]entity.PortfolioHolding, error)
	GetActiveByUserAndStock(ctx context.Context, userID, stockID uint) (*entity.PortfolioHolding, error)
	Create(ctx context.Context, holding *entity.PortfolioHolding) error
	Update(ctx context.Context, holding *entity.PortfolioHolding) error
	Deactivate(ctx context.Context, userID, stockID uint) (bool, error)
}

type holdingRepository struct {
	db *gorm.DB
}

// NewHoldingRepository creates a new instance of HoldingRepository.
func NewHoldingRepository(db *gorm.DB) HoldingRepository {
	return &holdingRepository{db: db}
}

func (r *holdingRepository) GetActiveByUserID(ctx context.Context, userID uint) ([]entity.PortfolioHolding, error) {
	var holdings []entity.PortfolioHolding
	err := r.db.WithContext(ctx).
		Preload("Stock").
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("id asc").
		Find(&holdings).Error
	if err != nil {
		return nil, err
	}
	return holdings, nil
}

func (r *holdingRepository) GetActiveByUserAndStock(ctx context.Context, userID, stockID uint) (*entity.PortfolioHolding, error) {
	var holding entity.PortfolioHolding
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND stock_id = ? AND is_active = ?", userID, stockID, true).
		First(&holding).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &holding, nil
}

func (r *holdingRepository) Create(ctx context.Context, holding *entity.PortfolioHolding) error {
	return r.db.WithContext(ctx).Create(holding).Error
}

func (r *holdingRepository) Update(ctx context.Context, holding *entity.PortfolioHolding) error {
	return r.db.WithContext(ctx).Save(holding).Error
}

func (r *holdingRepository) Deactivate(ctx context.Context, userID, stockID uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&entity.PortfolioHolding{}).
		Where("user_id = ? AND stock_id = ? AND is_active = ?", userID, stockID, true).
		Update("is_active", false)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
