package repository

import (
	"github.com/tienda-next/internal/constants"
	"github.com/tienda-next/internal/models"

	"gorm.io/gorm"
)

// StatsRepository 订单聚合查询接口
// 说明：仅聚合统计数据，不承载业务规则。
type StatsRepository interface {
	GetOrderOverview() (OrderOverviewRow, error)
}

// OrderOverviewRow 订单总览原始统计结果
type OrderOverviewRow struct {
	OrdersTotal     int64
	PendingOrders   int64
	PreparingOrders int64
	ShippedOrders   int64
	DeliveredOrders int64
	CanceledOrders  int64
	Revenue         float64
}

// GormStatsRepository GORM 聚合实现
type GormStatsRepository struct {
	db *gorm.DB
}

// NewStatsRepository 创建统计仓库
func NewStatsRepository(db *gorm.DB) *GormStatsRepository {
	return &GormStatsRepository{db: db}
}

// fulfilledOrderStatuses 计入营收的订单状态（已发货或已送达）
func fulfilledOrderStatuses() []string {
	return []string{
		constants.OrderStatusShipped,
		constants.OrderStatusDelivered,
	}
}

// GetOrderOverview 按状态统计订单数量并汇总已履约且已支付订单的营收
func (r *GormStatsRepository) GetOrderOverview() (OrderOverviewRow, error) {
	var row OrderOverviewRow

	type statusCount struct {
		Status string
		Count  int64
	}
	var counts []statusCount
	if err := r.db.Model(&models.Order{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&counts).Error; err != nil {
		return row, err
	}
	for _, c := range counts {
		row.OrdersTotal += c.Count
		switch c.Status {
		case constants.OrderStatusPending:
			row.PendingOrders = c.Count
		case constants.OrderStatusPreparing:
			row.PreparingOrders = c.Count
		case constants.OrderStatusShipped:
			row.ShippedOrders = c.Count
		case constants.OrderStatusDelivered:
			row.DeliveredOrders = c.Count
		case constants.OrderStatusCanceled:
			row.CanceledOrders = c.Count
		}
	}

	if err := r.db.Model(&models.Order{}).
		Select("COALESCE(SUM(total), 0)").
		Where("status IN ? AND payment_status = ?", fulfilledOrderStatuses(), constants.PaymentStatusPaid).
		Scan(&row.Revenue).Error; err != nil {
		return row, err
	}
	return row, nil
}
