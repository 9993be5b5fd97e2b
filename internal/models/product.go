package models

import (
	"time"

	"gorm.io/gorm"
)

// Product 商品表（必须挂在叶子分类下，不允许挂在根分类）
type Product struct {
	ID          uint           `gorm:"primarykey" json:"id"`                               // 主键
	Name        string         `gorm:"type:varchar(200);not null;index" json:"name"`       // 商品名称
	SKU         *string        `gorm:"type:varchar(64);uniqueIndex" json:"sku,omitempty"`  // 商品编码（可选，全局唯一）
	Price       Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price"` // 售价
	BrandName   string         `gorm:"type:varchar(120);index" json:"brand_name"`          // 品牌
	CategoryID  uint           `gorm:"not null;index" json:"category_id"`                  // 叶子分类ID
	Description string         `gorm:"type:varchar(2000)" json:"description"`              // 描述
	IsActive    bool           `gorm:"default:true;index" json:"is_active"`                // 是否上架
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                            // 创建时间
	UpdatedAt   time.Time      `json:"updated_at"`                                         // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                     // 软删除时间

	// 关联
	Category Category        `gorm:"foreignKey:CategoryID" json:"category,omitempty"` // 分类信息
	Options  []ProductOption `gorm:"foreignKey:ProductID" json:"options,omitempty"`   // 销售规格列表
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}
