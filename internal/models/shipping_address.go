package models

import (
	"time"

	"gorm.io/gorm"
)

// ShippingAddress 收货地址表（随订单创建，一单至多一条）
type ShippingAddress struct {
	ID             uint           `gorm:"primarykey" json:"id"`                          // 主键
	OrderID        uint           `gorm:"uniqueIndex;not null" json:"order_id"`          // 订单ID
	FullName       string         `gorm:"type:varchar(120);not null" json:"full_name"`   // 收件人
	Street         string         `gorm:"type:varchar(200);not null" json:"street"`      // 街道
	City           string         `gorm:"type:varchar(120);not null" json:"city"`        // 城市
	State          string         `gorm:"type:varchar(120)" json:"state"`                // 省/州
	PostalCode     string         `gorm:"type:varchar(20)" json:"postal_code"`           // 邮编
	Country        string         `gorm:"type:varchar(120);not null" json:"country"`     // 国家
	Phone          string         `gorm:"type:varchar(32)" json:"phone"`                 // 电话
	TrackingNumber string         `gorm:"type:varchar(64)" json:"tracking_number"`       // 物流单号（发货后回填）
	CreatedAt      time.Time      `gorm:"index" json:"created_at"`                       // 创建时间
	UpdatedAt      time.Time      `json:"updated_at"`                                    // 更新时间
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`                                // 软删除时间
}

// TableName 指定表名
func (ShippingAddress) TableName() string {
	return "shipping_addresses"
}
