package models

import "time"

// OrderHistory 订单状态历史表。
// 只追加：创建订单写入一条，状态每次变更再写入一条，任何路径都不得删除。
type OrderHistory struct {
	ID        uint      `gorm:"primarykey" json:"id"`                        // 主键
	OrderID   uint      `gorm:"index;not null" json:"order_id"`              // 订单ID
	Status    string    `gorm:"type:varchar(20);not null" json:"status"`     // 记录时点的订单状态
	Notes     string    `gorm:"type:varchar(500)" json:"notes"`              // 说明
	AdminID   uint      `gorm:"index" json:"admin_id"`                       // 操作人（0 表示系统）
	CreatedAt time.Time `gorm:"index" json:"created_at"`                     // 记录时间
}

// TableName 指定表名
func (OrderHistory) TableName() string {
	return "order_histories"
}
