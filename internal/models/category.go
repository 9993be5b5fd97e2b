package models

import (
	"time"

	"gorm.io/gorm"
)

// Category 分类表（自引用树，parent_id 为空即根分类）
type Category struct {
	ID        uint           `gorm:"primarykey" json:"id"`                                                       // 主键
	Name      string         `gorm:"type:varchar(120);not null;uniqueIndex:idx_category_name_parent" json:"name"` // 名称（同一父级下唯一）
	ParentID  *uint          `gorm:"index;uniqueIndex:idx_category_name_parent" json:"parent_id,omitempty"`      // 父分类ID（根分类为空）
	Position  int            `gorm:"default:0;index" json:"position"`                                            // 排序位
	IsActive  bool           `gorm:"default:true;index" json:"is_active"`                                        // 是否启用
	CreatedAt time.Time      `gorm:"index" json:"created_at"`                                                    // 创建时间
	UpdatedAt time.Time      `json:"updated_at"`                                                                 // 更新时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                                                             // 软删除时间

	// 关联
	Parent   *Category  `gorm:"foreignKey:ParentID" json:"parent,omitempty"`   // 父分类
	Children []Category `gorm:"foreignKey:ParentID" json:"children,omitempty"` // 子分类（树形展示用）

	ChildCount int64 `gorm:"-" json:"child_count"` // 子分类数量（仅结构，不写入数据库）
}

// TableName 指定表名
func (Category) TableName() string {
	return "categories"
}

// IsRoot 是否为根分类
func (c Category) IsRoot() bool {
	return c.ParentID == nil
}
