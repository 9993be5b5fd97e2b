package models

import (
	"time"

	"gorm.io/gorm"
)

// Stock 库存表（由规格独占，数量只经由 StockService 变更）
type Stock struct {
	ID              uint           `gorm:"primarykey" json:"id"`                          // 主键
	ProductID       uint           `gorm:"not null;index" json:"product_id"`              // 商品ID
	ProductOptionID uint           `gorm:"not null;uniqueIndex" json:"product_option_id"` // 规格ID（一对一）
	Quantity        int            `gorm:"not null;default:0" json:"quantity"`            // 可用数量（不允许为负）
	MinStock        int            `gorm:"not null;default:5" json:"min_stock"`           // 告警阈值
	IsActive        bool           `gorm:"default:true;index" json:"is_active"`           // 是否启用
	CreatedAt       time.Time      `gorm:"index" json:"created_at"`                       // 创建时间
	UpdatedAt       time.Time      `json:"updated_at"`                                    // 更新时间
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`                                // 软删除时间
}

// TableName 指定表名
func (Stock) TableName() string {
	return "stocks"
}
