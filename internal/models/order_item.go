package models

import (
	"time"

	"gorm.io/gorm"
)

// OrderItem 订单项表（单价为下单时快照，永不从实时商品价重算）
type OrderItem struct {
	ID              uint           `gorm:"primarykey" json:"id"`                               // 主键
	OrderID         uint           `gorm:"index;not null" json:"order_id"`                     // 订单ID
	ProductOptionID uint           `gorm:"index;not null" json:"product_option_id"`            // 规格ID
	Quantity        int            `gorm:"not null" json:"quantity"`                           // 数量（>0）
	Price           Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price"` // 单价快照
	CreatedAt       time.Time      `gorm:"index" json:"created_at"`                            // 创建时间
	UpdatedAt       time.Time      `json:"updated_at"`                                         // 更新时间
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`                                     // 软删除时间

	// 关联
	Option *ProductOption `gorm:"foreignKey:ProductOptionID" json:"option,omitempty"` // 规格信息
}

// TableName 指定表名
func (OrderItem) TableName() string {
	return "order_items"
}
