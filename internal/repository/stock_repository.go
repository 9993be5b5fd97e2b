package repository

import (
	"errors"

	"github.com/tienda-next/internal/models"

	"gorm.io/gorm"
)

// StockRepository 库存数据访问接口
type StockRepository interface {
	Create(stock *models.Stock) error
	GetByOptionID(optionID uint) (*models.Stock, error)
	DecrementQuantity(optionID uint, quantity int) (int64, error)
	SetQuantity(optionID uint, quantity int) (int64, error)
	ListBelowMin() ([]models.Stock, error)
	WithTx(tx *gorm.DB) StockRepository
}

// GormStockRepository GORM 实现
type GormStockRepository struct {
	db *gorm.DB
}

// NewStockRepository 创建库存仓库
func NewStockRepository(db *gorm.DB) *GormStockRepository {
	return &GormStockRepository{db: db}
}

// WithTx 绑定事务
func (r *GormStockRepository) WithTx(tx *gorm.DB) StockRepository {
	if tx == nil {
		return r
	}
	return &GormStockRepository{db: tx}
}

// Create 创建库存行
func (r *GormStockRepository) Create(stock *models.Stock) error {
	return r.db.Create(stock).Error
}

// GetByOptionID 根据规格 ID 获取库存行
func (r *GormStockRepository) GetByOptionID(optionID uint) (*models.Stock, error) {
	var stock models.Stock
	if err := r.db.Where("product_option_id = ?", optionID).First(&stock).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &stock, nil
}

// DecrementQuantity 条件扣减库存。
// WHERE quantity >= ? 保证并发下数量不会为负；返回受影响行数，0 行表示库存不足或行不存在。
func (r *GormStockRepository) DecrementQuantity(optionID uint, quantity int) (int64, error) {
	if optionID == 0 || quantity <= 0 {
		return 0, errors.New("invalid stock decrement params")
	}
	result := r.db.Model(&models.Stock{}).
		Where("product_option_id = ? AND quantity >= ?", optionID, quantity).
		Update("quantity", gorm.Expr("quantity - ?", quantity))
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// SetQuantity 管理端覆盖库存数量（非增量）
func (r *GormStockRepository) SetQuantity(optionID uint, quantity int) (int64, error) {
	if optionID == 0 || quantity < 0 {
		return 0, errors.New("invalid stock quantity params")
	}
	result := r.db.Model(&models.Stock{}).
		Where("product_option_id = ?", optionID).
		Update("quantity", quantity)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// ListBelowMin 列出数量低于告警阈值的库存行
func (r *GormStockRepository) ListBelowMin() ([]models.Stock, error) {
	var stocks []models.Stock
	if err := r.db.Where("quantity <= min_stock AND is_active = ?", true).
		Order("quantity ASC").
		Find(&stocks).Error; err != nil {
		return nil, err
	}
	return stocks, nil
}
