package repository

import (
	"errors"

	"github.com/tienda-next/internal/models"

	"gorm.io/gorm"
)

// ProductOptionRepository 商品规格数据访问接口
type ProductOptionRepository interface {
	Create(option *models.ProductOption) error
	GetByID(id uint) (*models.ProductOption, error)
	ListByIDs(ids []uint) ([]models.ProductOption, error)
	ListBySKUs(skus []string) ([]models.ProductOption, error)
	WithTx(tx *gorm.DB) ProductOptionRepository
}

// GormProductOptionRepository GORM 实现
type GormProductOptionRepository struct {
	db *gorm.DB
}

// NewProductOptionRepository 创建商品规格仓库
func NewProductOptionRepository(db *gorm.DB) *GormProductOptionRepository {
	return &GormProductOptionRepository{db: db}
}

// WithTx 绑定事务
func (r *GormProductOptionRepository) WithTx(tx *gorm.DB) ProductOptionRepository {
	if tx == nil {
		return r
	}
	return &GormProductOptionRepository{db: tx}
}

// Create 创建商品规格
func (r *GormProductOptionRepository) Create(option *models.ProductOption) error {
	return r.db.Create(option).Error
}

// GetByID 根据 ID 获取规格（含库存与商品）
func (r *GormProductOptionRepository) GetByID(id uint) (*models.ProductOption, error) {
	var option models.ProductOption
	if err := r.db.Preload("Stock").Preload("Product").First(&option, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &option, nil
}

// ListByIDs 批量获取规格（含库存与商品，下单校验用）
func (r *GormProductOptionRepository) ListByIDs(ids []uint) ([]models.ProductOption, error) {
	if len(ids) == 0 {
		return []models.ProductOption{}, nil
	}
	var options []models.ProductOption
	if err := r.db.Preload("Stock").Preload("Product").
		Where("id IN ?", ids).
		Find(&options).Error; err != nil {
		return nil, err
	}
	return options, nil
}

// ListBySKUs 批量查询规格编码占用（建商品前的快速冲突检查）
func (r *GormProductOptionRepository) ListBySKUs(skus []string) ([]models.ProductOption, error) {
	if len(skus) == 0 {
		return []models.ProductOption{}, nil
	}
	var options []models.ProductOption
	if err := r.db.Where("sku IN ?", skus).Find(&options).Error; err != nil {
		return nil, err
	}
	return options, nil
}
