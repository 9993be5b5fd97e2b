package models

import (
	"time"

	"gorm.io/gorm"
)

// Order 订单表。
// 订单独占其订单项、收货地址和状态历史；除库存数量外不回写目录数据。
type Order struct {
	ID            uint           `gorm:"primarykey" json:"id"`                                        // 主键
	OrderNumber   string         `gorm:"type:varchar(64);uniqueIndex;not null" json:"order_number"`   // 订单编号
	UserID        uint           `gorm:"index;not null" json:"user_id"`                               // 下单用户ID
	Subtotal      Money          `gorm:"type:decimal(20,2);not null;default:0" json:"subtotal"`       // 商品小计
	Tax           Money          `gorm:"type:decimal(20,2);not null;default:0" json:"tax"`            // 税费
	ShippingCost  Money          `gorm:"type:decimal(20,2);not null;default:0" json:"shipping_cost"`  // 运费
	Total         Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total"`          // 应付总额（小计+税费+运费）
	Status        string         `gorm:"type:varchar(20);index;not null" json:"status"`               // 订单状态
	PaymentStatus string         `gorm:"type:varchar(20);index;not null" json:"payment_status"`       // 支付状态
	PaymentMethod string         `gorm:"type:varchar(20)" json:"payment_method"`                      // 支付方式
	Notes         string         `gorm:"type:varchar(1000)" json:"notes"`                             // 备注
	CanceledAt    *time.Time     `gorm:"index" json:"canceled_at,omitempty"`                          // 取消时间
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`                                     // 创建时间
	UpdatedAt     time.Time      `json:"updated_at"`                                                  // 更新时间
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`                                              // 软删除时间

	// 关联
	User            *User            `gorm:"foreignKey:UserID" json:"user,omitempty"`             // 下单用户
	Items           []OrderItem      `gorm:"foreignKey:OrderID" json:"items,omitempty"`           // 订单项
	ShippingAddress *ShippingAddress `gorm:"foreignKey:OrderID" json:"shipping_address,omitempty"` // 收货地址（可选）
	History         []OrderHistory   `gorm:"foreignKey:OrderID" json:"history,omitempty"`         // 状态历史（只追加）
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}
