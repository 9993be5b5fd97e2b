package models

import (
	"time"

	"gorm.io/gorm"
)

// ProductOption 商品规格表（尺码/颜色/材质组合，每个规格独立计库存）
type ProductOption struct {
	ID        uint           `gorm:"primarykey" json:"id"`                              // 主键
	ProductID uint           `gorm:"not null;index" json:"product_id"`                  // 商品ID
	Size      string         `gorm:"type:varchar(32)" json:"size"`                      // 尺码
	Color     string         `gorm:"type:varchar(64)" json:"color"`                     // 颜色
	Material  string         `gorm:"type:varchar(64)" json:"material"`                  // 材质
	SKU       *string        `gorm:"type:varchar(64);uniqueIndex" json:"sku,omitempty"` // 规格编码（可选，全局唯一）
	IsActive  bool           `gorm:"default:true;index" json:"is_active"`               // 是否启用
	CreatedAt time.Time      `gorm:"index" json:"created_at"`                           // 创建时间
	UpdatedAt time.Time      `json:"updated_at"`                                        // 更新时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                                    // 软删除时间

	// 关联
	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`      // 所属商品
	Stock   *Stock   `gorm:"foreignKey:ProductOptionID" json:"stock,omitempty"` // 库存行（一对一）
}

// TableName 指定表名
func (ProductOption) TableName() string {
	return "product_options"
}
