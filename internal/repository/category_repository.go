package repository

import (
	"errors"

	"github.com/tienda-next/internal/models"

	"gorm.io/gorm"
)

// CategoryRepository 分类数据访问接口
type CategoryRepository interface {
	Create(category *models.Category) error
	GetByID(id uint) (*models.Category, error)
	GetByNameAndParent(name string, parentID *uint) (*models.Category, error)
	GetRootByName(name string) (*models.Category, error)
	CountByNameAndParent(name string, parentID *uint, excludeID *uint) (int64, error)
	CountAll() (int64, error)
	CountActiveChildren(parentID uint) (int64, error)
	CountProducts(categoryID uint) (int64, error)
	ListRoots(onlyActive bool) ([]models.Category, error)
	ListChildren(parentID uint, onlyActive bool) ([]models.Category, error)
	ListAll(onlyActive bool) ([]models.Category, error)
	Update(category *models.Category) error
	Deactivate(id uint) error
	WithTx(tx *gorm.DB) CategoryRepository
}

// GormCategoryRepository GORM 实现
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository 创建分类仓库
func NewCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCategoryRepository) WithTx(tx *gorm.DB) CategoryRepository {
	if tx == nil {
		return r
	}
	return &GormCategoryRepository{db: tx}
}

// Create 创建分类
func (r *GormCategoryRepository) Create(category *models.Category) error {
	return r.db.Create(category).Error
}

// GetByID 根据 ID 获取分类（含父分类）
func (r *GormCategoryRepository) GetByID(id uint) (*models.Category, error) {
	var category models.Category
	if err := r.db.Preload("Parent").First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

// GetByNameAndParent 按名称与父级获取分类
func (r *GormCategoryRepository) GetByNameAndParent(name string, parentID *uint) (*models.Category, error) {
	query := r.db.Where("name = ?", name)
	if parentID == nil {
		query = query.Where("parent_id IS NULL")
	} else {
		query = query.Where("parent_id = ?", *parentID)
	}
	var category models.Category
	if err := query.First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

// GetRootByName 按名称获取根分类
func (r *GormCategoryRepository) GetRootByName(name string) (*models.Category, error) {
	return r.GetByNameAndParent(name, nil)
}

// CountByNameAndParent 统计同一父级下同名分类数量
func (r *GormCategoryRepository) CountByNameAndParent(name string, parentID *uint, excludeID *uint) (int64, error) {
	query := r.db.Model(&models.Category{}).Where("name = ?", name)
	if parentID == nil {
		query = query.Where("parent_id IS NULL")
	} else {
		query = query.Where("parent_id = ?", *parentID)
	}
	if excludeID != nil {
		query = query.Where("id != ?", *excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountAll 统计分类总数（祖先链遍历的步数上界）
func (r *GormCategoryRepository) CountAll() (int64, error) {
	var count int64
	if err := r.db.Model(&models.Category{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountActiveChildren 统计启用状态的子分类数量
func (r *GormCategoryRepository) CountActiveChildren(parentID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Category{}).
		Where("parent_id = ? AND is_active = ?", parentID, true).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountProducts 统计分类下的商品数量
func (r *GormCategoryRepository) CountProducts(categoryID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Product{}).
		Where("category_id = ?", categoryID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ListRoots 获取根分类列表
func (r *GormCategoryRepository) ListRoots(onlyActive bool) ([]models.Category, error) {
	query := r.db.Where("parent_id IS NULL")
	if onlyActive {
		query = query.Where("is_active = ?", true)
	}
	var categories []models.Category
	if err := query.Order("position ASC, name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// ListChildren 获取子分类列表
func (r *GormCategoryRepository) ListChildren(parentID uint, onlyActive bool) ([]models.Category, error) {
	query := r.db.Where("parent_id = ?", parentID)
	if onlyActive {
		query = query.Where("is_active = ?", true)
	}
	var categories []models.Category
	if err := query.Order("position ASC, name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// ListAll 获取全部分类（树形装配用）
func (r *GormCategoryRepository) ListAll(onlyActive bool) ([]models.Category, error) {
	query := r.db.Model(&models.Category{})
	if onlyActive {
		query = query.Where("is_active = ?", true)
	}
	var categories []models.Category
	if err := query.Order("position ASC, name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// Update 更新分类
func (r *GormCategoryRepository) Update(category *models.Category) error {
	return r.db.Save(category).Error
}

// Deactivate 停用分类（软停用，不物理删除）
func (r *GormCategoryRepository) Deactivate(id uint) error {
	return r.db.Model(&models.Category{}).
		Where("id = ?", id).
		Update("is_active", false).Error
}
