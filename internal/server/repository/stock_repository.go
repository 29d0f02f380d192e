package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"river-portfolio/internal/entity"
)

// StockRepository defines the interface for stock data operations.
type StockRepository interface {
	GetBySymbol(ctx context.Context, symbol string) (*entity.Stock, error)
	GetByID(ctx context.Context, id uint) (*entity.Stock, error)
	GetAll(ctx context.Context) ([]entity.Stock, error)
	Create(ctx context.Context, stock *entity.Stock) error
	Update(ctx context.Context, stock *entity.Stock) error
}

type stockRepository struct {
	db *gorm.DB
}

// NewStockRepository creates a new instance of StockRepository.
func NewStockRepository(db *gorm.DB) StockRepository {
	return &stockRepository{db: db}
}

func (r *stockRepository) GetBySymbol(ctx context.Context, symbol string) (*entity.Stock, error) {
	var stock entity.Stock
	err := r.db.WithContext(ctx).
		Where("symbol = ?", strings.ToUpper(symbol)).
		First(&stock).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &stock, nil
}

func (r *stockRepository) GetByID(ctx context.Context, id uint) (*entity.Stock, error) {
	var stock entity.Stock
	err := r.db.WithContext(ctx).First(&stock, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &stock, nil
}

func (r *stockRepository) GetAll(ctx context.Context) ([]entity.Stock, error) {
	var stocks []entity.Stock
	err := r.db.WithContext(ctx).Order("symbol asc").Find(&stocks).Error
	if err != nil {
		return nil, err
	}
	return stocks, nil
}

func (r *stockRepository) Create(ctx context.Context, stock *entity.Stock) error {
	stock.Symbol = strings.ToUpper(stock.Symbol)
	return r.db.WithContext(ctx).Create(stock).Error
}

func (r *stockRepository) Update(ctx context.Context, stock *entity.Stock) error {
	return r.db.WithContext(ctx).Save(stock).Error
}
