package models

import (
	"time"

	"gorm.io/gorm"
)

// User 用户表。
// 身份校验与凭证签发由外部身份服务负责，本表只承载订单外键所需的身份行。
type User struct {
	ID        uint           `gorm:"primarykey" json:"id"`                                    // 主键
	Email     string         `gorm:"type:varchar(200);uniqueIndex;not null" json:"email"`     // 邮箱
	Name      string         `gorm:"type:varchar(120)" json:"name"`                           // 姓名
	Role      string         `gorm:"type:varchar(20);not null;default:'customer'" json:"role"` // 角色（admin/customer）
	IsActive  bool           `gorm:"default:true;index" json:"is_active"`                     // 是否启用
	CreatedAt time.Time      `gorm:"index" json:"created_at"`                                 // 创建时间
	UpdatedAt time.Time      `json:"updated_at"`                                              // 更新时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                                          // 软删除时间
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}
