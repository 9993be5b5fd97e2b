package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tienda-next/internal/constants"
	"github.com/tienda-next/internal/logger"
	"github.com/tienda-next/internal/models"
	"github.com/tienda-next/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderService 订单事务服务。
// 下单与状态流转的多行写入都收敛在单个数据库事务里：
// 订单、收货地址、订单项、库存扣减、历史记录要么全部落库要么全部回滚。
type OrderService struct {
	db           *gorm.DB
	orderRepo    repository.OrderRepository
	optionRepo   repository.ProductOptionRepository
	userRepo     repository.UserRepository
	statsRepo    repository.StatsRepository
	stockService *StockService
}

// NewOrderService 创建订单服务
func NewOrderService(db *gorm.DB, orderRepo repository.OrderRepository, optionRepo repository.ProductOptionRepository, userRepo repository.UserRepository, statsRepo repository.StatsRepository, stockService *StockService) *OrderService {
	return &OrderService{
		db:           db,
		orderRepo:    orderRepo,
		optionRepo:   optionRepo,
		userRepo:     userRepo,
		statsRepo:    statsRepo,
		stockService: stockService,
	}
}

// CreateOrderItemInput 下单订单项输入（单价为客户端快照价）
type CreateOrderItemInput struct {
	ProductOptionID uint
	Quantity        int
	Price           models.Money
}

// ShippingAddressInput 收货地址输入
type ShippingAddressInput struct {
	FullName   string
	Street     string
	City       string
	State      string
	PostalCode string
	Country    string
	Phone      string
}

// CreateOrderInput 创建订单输入
type CreateOrderInput struct {
	UserID          uint
	Items           []CreateOrderItemInput
	ShippingAddress *ShippingAddressInput
	PaymentMethod   string
	ShippingCost    models.Money
	Tax             models.Money
	Notes           string
	ActingAdminID   uint
}

// UpdateOrderInput 更新订单输入
type UpdateOrderInput struct {
	Status         *string
	PaymentStatus  *string
	PaymentMethod  *string
	Notes          *string
	TrackingNumber *string
}

// OrderStatistics 订单统计结果
type OrderStatistics struct {
	OrdersTotal     int64        `json:"orders_total"`
	PendingOrders   int64        `json:"pending_orders"`
	PreparingOrders int64        `json:"preparing_orders"`
	ShippedOrders   int64        `json:"shipped_orders"`
	DeliveredOrders int64        `json:"delivered_orders"`
	CanceledOrders  int64        `json:"canceled_orders"`
	Revenue         models.Money `json:"revenue"`
}

// CreateOrder 创建订单。
// 先对全部订单项完成存在性与库存校验（全有或全无），再在单个事务内
// 落订单、收货地址、订单项并逐项条件扣减库存，最后追加首条历史记录。
func (s *OrderService) CreateOrder(input CreateOrderInput) (*models.Order, error) {
	if len(input.Items) == 0 {
		return nil, fmt.Errorf("%w: order requires at least one item", ErrInvalidOrderItem)
	}

	user, err := s.userRepo.GetByID(input.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: customer %d", ErrNotFound, input.UserID)
	}

	// 批量取规格（含库存与商品），返回数量与去重请求数不符说明有非法规格 ID
	optionIDs := make([]uint, 0, len(input.Items))
	seen := make(map[uint]bool, len(input.Items))
	for _, item := range input.Items {
		if item.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		if !seen[item.ProductOptionID] {
			seen[item.ProductOptionID] = true
			optionIDs = append(optionIDs, item.ProductOptionID)
		}
	}
	options, err := s.optionRepo.ListByIDs(optionIDs)
	if err != nil {
		return nil, err
	}
	if len(options) != len(optionIDs) {
		return nil, fmt.Errorf("%w: one or more product options do not exist", ErrInvalidOrderItem)
	}
	optionsByID := make(map[uint]*models.ProductOption, len(options))
	for i := range options {
		optionsByID[options[i].ID] = &options[i]
	}

	// 库存校验先于任何写入，全部订单项通过后才开事务
	for _, item := range input.Items {
		option := optionsByID[item.ProductOptionID]
		available := 0
		if option.Stock != nil {
			available = option.Stock.Quantity
		}
		if item.Quantity > available {
			productName := fmt.Sprintf("option %d", option.ID)
			if option.Product != nil {
				productName = option.Product.Name
			}
			return nil, fmt.Errorf("%w for %s - %s - %s. Available: %d, Requested: %d",
				ErrInsufficientStock, productName, option.Color, option.Size, available, item.Quantity)
		}
	}

	subtotal := models.MoneyZero()
	orderItems := make([]models.OrderItem, 0, len(input.Items))
	for _, item := range input.Items {
		subtotal = subtotal.Add(item.Price.MulInt(item.Quantity))
		orderItems = append(orderItems, models.OrderItem{
			ProductOptionID: item.ProductOptionID,
			Quantity:        item.Quantity,
			Price:           item.Price,
		})
	}
	total := subtotal.Add(input.ShippingCost).Add(input.Tax)

	now := time.Now()
	order := &models.Order{
		OrderNumber:   generateOrderNumber(),
		UserID:        input.UserID,
		Subtotal:      subtotal,
		Tax:           input.Tax,
		ShippingCost:  input.ShippingCost,
		Total:         total,
		Status:        constants.OrderStatusPending,
		PaymentStatus: constants.PaymentStatusPending,
		PaymentMethod: strings.TrimSpace(input.PaymentMethod),
		Notes:         input.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		if err := orderRepo.Create(order, orderItems); err != nil {
			return err
		}

		if input.ShippingAddress != nil {
			address := &models.ShippingAddress{
				OrderID:    order.ID,
				FullName:   strings.TrimSpace(input.ShippingAddress.FullName),
				Street:     strings.TrimSpace(input.ShippingAddress.Street),
				City:       strings.TrimSpace(input.ShippingAddress.City),
				State:      strings.TrimSpace(input.ShippingAddress.State),
				PostalCode: strings.TrimSpace(input.ShippingAddress.PostalCode),
				Country:    strings.TrimSpace(input.ShippingAddress.Country),
				Phone:      strings.TrimSpace(input.ShippingAddress.Phone),
			}
			if err := orderRepo.CreateShippingAddress(address); err != nil {
				return err
			}
		}

		// 逐项条件扣减；并发竞争导致不足时整单回滚
		for _, item := range input.Items {
			option := optionsByID[item.ProductOptionID]
			if err := s.stockService.Decrement(tx, option.ID, option.ProductID, item.Quantity); err != nil {
				return err
			}
		}

		history := &models.OrderHistory{
			OrderID:   order.ID,
			Status:    constants.OrderStatusPending,
			Notes:     "order created",
			AdminID:   input.ActingAdminID,
			CreatedAt: now,
		}
		return orderRepo.CreateHistory(history)
	})
	if err != nil {
		if errors.Is(err, ErrInsufficientStock) || errors.Is(err, ErrNotFound) {
			return nil, err
		}
		logger.Errorw("order_create_tx_failed",
			"order_number", order.OrderNumber,
			"user_id", input.UserID,
			"error", err,
		)
		return nil, ErrOrderCreateFailed
	}

	logger.Infow("order_created",
		"order_id", order.ID,
		"order_number", order.OrderNumber,
		"user_id", input.UserID,
		"total", order.Total.String(),
	)
	return s.orderRepo.GetByID(order.ID)
}

// GetOrder 获取订单详情（全量关联）
func (s *OrderService) GetOrder(id uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrNotFound
	}
	return order, nil
}

// ListOrders 订单列表
func (s *OrderService) ListOrders(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	return s.orderRepo.List(filter)
}

// UpdateOrder 更新订单。
// 仅当提交了状态且与当前不同才追加历史记录；物流单号只在收货地址存在时回填。
func (s *OrderService) UpdateOrder(id uint, input UpdateOrderInput, actingAdminID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrNotFound
	}

	statusChanged := false
	newStatus := ""
	if input.Status != nil && *input.Status != order.Status {
		newStatus = *input.Status
		if !isValidOrderStatus(newStatus) {
			return nil, fmt.Errorf("%w: unknown status %q", ErrBadRequest, newStatus)
		}
		if !canTransition(order.Status, newStatus) {
			return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, newStatus)
		}
		statusChanged = true
	}

	now := time.Now()
	err = s.db.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)

		updates := map[string]interface{}{"updated_at": now}
		if statusChanged {
			updates["status"] = newStatus
			if newStatus == constants.OrderStatusCanceled {
				updates["canceled_at"] = now
			}
		}
		if input.PaymentStatus != nil {
			updates["payment_status"] = *input.PaymentStatus
		}
		if input.PaymentMethod != nil {
			updates["payment_method"] = strings.TrimSpace(*input.PaymentMethod)
		}
		if input.Notes != nil {
			updates["notes"] = *input.Notes
		}
		if err := orderRepo.UpdateFields(order.ID, updates); err != nil {
			return err
		}

		if input.TrackingNumber != nil && order.ShippingAddress != nil {
			if _, err := orderRepo.UpdateShippingTracking(order.ID, strings.TrimSpace(*input.TrackingNumber)); err != nil {
				return err
			}
		}

		if statusChanged {
			history := &models.OrderHistory{
				OrderID:   order.ID,
				Status:    newStatus,
				Notes:     statusChangeNote(order.Status, newStatus),
				AdminID:   actingAdminID,
				CreatedAt: now,
			}
			if err := orderRepo.CreateHistory(history); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if statusChanged {
		logger.Infow("order_status_changed",
			"order_id", order.ID,
			"from", order.Status,
			"to", newStatus,
			"admin_id", actingAdminID,
		)
	}
	return s.orderRepo.GetByID(order.ID)
}

// CancelOrder 取消订单。
// 软取消：订单行保留，状态置为 CANCELADO 并追加历史；已扣库存不回补。
func (s *OrderService) CancelOrder(id uint, actingAdminID uint) (*models.Order, error) {
	status := constants.OrderStatusCanceled
	return s.UpdateOrder(id, UpdateOrderInput{Status: &status}, actingAdminID)
}

// GetStatistics 订单统计：按状态计数，营收只统计已发货/已送达且已支付的订单
func (s *OrderService) GetStatistics() (*OrderStatistics, error) {
	row, err := s.statsRepo.GetOrderOverview()
	if err != nil {
		return nil, err
	}
	return &OrderStatistics{
		OrdersTotal:     row.OrdersTotal,
		PendingOrders:   row.PendingOrders,
		PreparingOrders: row.PreparingOrders,
		ShippedOrders:   row.ShippedOrders,
		DeliveredOrders: row.DeliveredOrders,
		CanceledOrders:  row.CanceledOrders,
		Revenue:         models.NewMoneyFromDecimal(decimal.NewFromFloat(row.Revenue)),
	}, nil
}

// generateOrderNumber 生成订单编号：时间前缀 + 随机后缀，避免碰撞
func generateOrderNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("ORD%s%s", time.Now().Format("20060102150405"), suffix)
}
