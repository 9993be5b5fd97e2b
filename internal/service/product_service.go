package service

import (
	"fmt"
	"strings"

	"github.com/tienda-next/internal/constants"
	"github.com/tienda-next/internal/logger"
	"github.com/tienda-next/internal/models"
	"github.com/tienda-next/internal/repository"

	"gorm.io/gorm"
)

// ProductService 商品装配服务。
// 创建商品时解析根分类、懒建子分类，并在单个事务里落商品+规格+库存。
type ProductService struct {
	db              *gorm.DB
	productRepo     repository.ProductRepository
	optionRepo      repository.ProductOptionRepository
	stockRepo       repository.StockRepository
	categoryRepo    repository.CategoryRepository
	categoryService *CategoryService
}

// NewProductService 创建商品服务
func NewProductService(db *gorm.DB, productRepo repository.ProductRepository, optionRepo repository.ProductOptionRepository, stockRepo repository.StockRepository, categoryRepo repository.CategoryRepository, categoryService *CategoryService) *ProductService {
	return &ProductService{
		db:              db,
		productRepo:     productRepo,
		optionRepo:      optionRepo,
		stockRepo:       stockRepo,
		categoryRepo:    categoryRepo,
		categoryService: categoryService,
	}
}

// CreateProductOptionInput 商品规格输入
type CreateProductOptionInput struct {
	Size     string
	Color    string
	Material string
	SKU      *string
	Stock    *int
	MinStock *int
}

// CreateProductInput 创建商品输入
type CreateProductInput struct {
	Name           string
	SKU            *string
	Price          models.Money
	BrandName      string
	Description    string
	ParentCategory string
	SubCategory    string
	IsActive       bool
	Options        []CreateProductOptionInput
}

// UpdateProductInput 更新商品输入
type UpdateProductInput struct {
	Name        *string
	SKU         *string
	Price       *models.Money
	BrandName   *string
	Description *string
	CategoryID  *uint
	IsActive    *bool
}

// CreateProduct 创建商品及其规格与库存。
// 子分类 upsert 是事务前的幂等步骤；商品+规格+库存在同一事务内落库，
// 任何一步失败整体回滚，最多留下一个无害的空子分类。
func (s *ProductService) CreateProduct(input CreateProductInput) (*models.Product, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: product name is required", ErrBadRequest)
	}

	if input.SKU != nil {
		sku := strings.TrimSpace(*input.SKU)
		if sku != "" {
			count, err := s.productRepo.CountBySKU(sku, nil)
			if err != nil {
				return nil, err
			}
			if count > 0 {
				return nil, fmt.Errorf("%w: product sku %q", ErrSKUExists, sku)
			}
		}
	}

	// 规格编码冲突在事务前一次批量查询，快速失败
	optionSKUs := make([]string, 0, len(input.Options))
	for _, option := range input.Options {
		if option.SKU == nil {
			continue
		}
		if sku := strings.TrimSpace(*option.SKU); sku != "" {
			optionSKUs = append(optionSKUs, sku)
		}
	}
	if len(optionSKUs) > 0 {
		taken, err := s.optionRepo.ListBySKUs(optionSKUs)
		if err != nil {
			return nil, err
		}
		if len(taken) > 0 {
			return nil, fmt.Errorf("%w: option sku %q", ErrSKUExists, *taken[0].SKU)
		}
	}

	root, err := s.categoryRepo.GetRootByName(strings.TrimSpace(input.ParentCategory))
	if err != nil {
		return nil, err
	}
	if root == nil {
		return nil, ErrRootNotRecognized
	}

	leaf, err := s.categoryService.UpsertByNameUnderParent(input.SubCategory, root.ID)
	if err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:        name,
		SKU:         normalizeSKU(input.SKU),
		Price:       input.Price,
		BrandName:   strings.TrimSpace(input.BrandName),
		Description: input.Description,
		CategoryID:  leaf.ID,
		IsActive:    input.IsActive,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		productRepo := s.productRepo.WithTx(tx)
		optionRepo := s.optionRepo.WithTx(tx)
		stockRepo := s.stockRepo.WithTx(tx)

		if err := productRepo.Create(product); err != nil {
			return err
		}
		for _, optionInput := range input.Options {
			option := &models.ProductOption{
				ProductID: product.ID,
				Size:      strings.TrimSpace(optionInput.Size),
				Color:     strings.TrimSpace(optionInput.Color),
				Material:  strings.TrimSpace(optionInput.Material),
				SKU:       normalizeSKU(optionInput.SKU),
				IsActive:  true,
			}
			if err := optionRepo.Create(option); err != nil {
				return err
			}

			quantity := 0
			if optionInput.Stock != nil {
				if *optionInput.Stock < 0 {
					return fmt.Errorf("%w: option stock must not be negative", ErrBadRequest)
				}
				quantity = *optionInput.Stock
			}
			minStock := constants.DefaultMinStock
			if optionInput.MinStock != nil {
				minStock = *optionInput.MinStock
			}
			stock := &models.Stock{
				ProductID:       product.ID,
				ProductOptionID: option.ID,
				Quantity:        quantity,
				MinStock:        minStock,
				IsActive:        true,
			}
			if err := stockRepo.Create(stock); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Infow("product_created",
		"product_id", product.ID,
		"name", product.Name,
		"category_id", leaf.ID,
		"options", len(input.Options),
	)
	return s.productRepo.GetByID(product.ID)
}

// GetProduct 获取商品详情
func (s *ProductService) GetProduct(id uint) (*models.Product, error) {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrNotFound
	}
	return product, nil
}

// ListProducts 商品列表
func (s *ProductService) ListProducts(filter repository.ProductListFilter) ([]models.Product, int64, error) {
	return s.productRepo.List(filter)
}

// UpdateProduct 更新商品。
// 禁止把商品改挂到根分类；编码变更复查全局唯一。
func (s *ProductService) UpdateProduct(id uint, input UpdateProductInput) (*models.Product, error) {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrNotFound
	}

	if input.CategoryID != nil {
		category, err := s.categoryRepo.GetByID(*input.CategoryID)
		if err != nil {
			return nil, err
		}
		if category == nil {
			return nil, fmt.Errorf("%w: category %d", ErrNotFound, *input.CategoryID)
		}
		if category.IsRoot() {
			return nil, ErrRootCategoryProduct
		}
		product.CategoryID = *input.CategoryID
	}
	if input.SKU != nil {
		sku := strings.TrimSpace(*input.SKU)
		if sku != "" {
			count, err := s.productRepo.CountBySKU(sku, &id)
			if err != nil {
				return nil, err
			}
			if count > 0 {
				return nil, fmt.Errorf("%w: product sku %q", ErrSKUExists, sku)
			}
		}
		product.SKU = normalizeSKU(input.SKU)
	}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: product name is required", ErrBadRequest)
		}
		product.Name = name
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.BrandName != nil {
		product.BrandName = strings.TrimSpace(*input.BrandName)
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}

	product.Category = models.Category{}
	product.Options = nil
	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}
	return s.productRepo.GetByID(id)
}

// DeactivateProduct 下架商品（软停用，订单项外键要求行保留）
func (s *ProductService) DeactivateProduct(id uint) error {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil {
		return ErrNotFound
	}
	return s.productRepo.Deactivate(id)
}

// normalizeSKU 去空白并把空串归一为 nil
func normalizeSKU(sku *string) *string {
	if sku == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*sku)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
