package service

import (
	"fmt"

	"github.com/tienda-next/internal/logger"
	"github.com/tienda-next/internal/models"
	"github.com/tienda-next/internal/repository"

	"gorm.io/gorm"
)

// StockService 库存账本服务。
// 数量只经由本服务变更；扣减必须发生在调用方事务内，靠条件更新保证不为负。
type StockService struct {
	repo repository.StockRepository
}

// NewStockService 创建库存服务
func NewStockService(repo repository.StockRepository) *StockService {
	return &StockService{repo: repo}
}

// Reserve 纯校验，不做任何变更。
// 库存行缺失或数量不足时返回库存不足错误。
func (s *StockService) Reserve(optionID uint, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	stock, err := s.repo.GetByOptionID(optionID)
	if err != nil {
		return err
	}
	if stock == nil || stock.Quantity < quantity {
		available := 0
		if stock != nil {
			available = stock.Quantity
		}
		return fmt.Errorf("%w: option %d available %d requested %d",
			ErrInsufficientStock, optionID, available, quantity)
	}
	return nil
}

// Decrement 在调用方事务内扣减库存。
// 条件更新 0 行受影响时区分两种失败：行不存在返回 NotFound，否则并发下数量不足。
func (s *StockService) Decrement(tx *gorm.DB, optionID, productID uint, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	repo := s.repo.WithTx(tx)
	affected, err := repo.DecrementQuantity(optionID, quantity)
	if err != nil {
		return err
	}
	if affected == 0 {
		stock, err := repo.GetByOptionID(optionID)
		if err != nil {
			return err
		}
		if stock == nil {
			return fmt.Errorf("%w: stock for option %d", ErrNotFound, optionID)
		}
		return fmt.Errorf("%w: option %d available %d requested %d",
			ErrInsufficientStock, optionID, stock.Quantity, quantity)
	}
	logger.Debugw("stock_decremented",
		"product_id", productID,
		"option_id", optionID,
		"quantity", quantity,
	)
	return nil
}

// SetQuantity 管理端直接覆盖库存数量（非增量，人工盘点修正用）
func (s *StockService) SetQuantity(optionID uint, quantity int) (*models.Stock, error) {
	if quantity < 0 {
		return nil, fmt.Errorf("%w: quantity must not be negative", ErrBadRequest)
	}
	stock, err := s.repo.GetByOptionID(optionID)
	if err != nil {
		return nil, err
	}
	if stock == nil {
		return nil, fmt.Errorf("%w: stock for option %d", ErrNotFound, optionID)
	}
	if _, err := s.repo.SetQuantity(optionID, quantity); err != nil {
		return nil, err
	}
	logger.Infow("stock_overwritten",
		"option_id", optionID,
		"from", stock.Quantity,
		"to", quantity,
	)
	return s.repo.GetByOptionID(optionID)
}

// LowStock 列出低于告警阈值的库存行
func (s *StockService) LowStock() ([]models.Stock, error) {
	return s.repo.ListBelowMin()
}
