package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/tienda-next/internal/constants"
	"github.com/tienda-next/internal/models"
	"github.com/tienda-next/internal/repository"

	"gorm.io/gorm"
)

type orderFixture struct {
	svc    *OrderService
	db     *gorm.DB
	user   models.User
	option models.ProductOption
}

// newOrderFixture 准备下单环境：一个客户和一个库存为 quantity 的规格。
func newOrderFixture(t *testing.T, name string, quantity int) orderFixture {
	t.Helper()

	db := newServiceTestDB(t, name)

	user := models.User{Email: name + "@tienda.local", Name: "Cliente", Role: constants.UserRoleCustomer, IsActive: true}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}

	root := models.Category{Name: "Hombre", IsActive: true}
	if err := db.Create(&root).Error; err != nil {
		t.Fatalf("create root category failed: %v", err)
	}
	leaf := models.Category{Name: "Zapatillas", ParentID: &root.ID, IsActive: true}
	if err := db.Create(&leaf).Error; err != nil {
		t.Fatalf("create leaf category failed: %v", err)
	}
	product := models.Product{Name: "Zapatilla Runner", Price: money(t, "59.90"), CategoryID: leaf.ID, IsActive: true}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	option := models.ProductOption{ProductID: product.ID, Size: "42", Color: "Negro", Material: "Malla", IsActive: true}
	if err := db.Create(&option).Error; err != nil {
		t.Fatalf("create option failed: %v", err)
	}
	stock := models.Stock{ProductID: product.ID, ProductOptionID: option.ID, Quantity: quantity, MinStock: 5, IsActive: true}
	if err := db.Create(&stock).Error; err != nil {
		t.Fatalf("create stock failed: %v", err)
	}

	svc := NewOrderService(
		db,
		repository.NewOrderRepository(db),
		repository.NewProductOptionRepository(db),
		repository.NewUserRepository(db),
		repository.NewStatsRepository(db),
		NewStockService(repository.NewStockRepository(db)),
	)
	return orderFixture{svc: svc, db: db, user: user, option: option}
}

func (f orderFixture) stockQuantity(t *testing.T) int {
	t.Helper()
	var stock models.Stock
	if err := f.db.Where("product_option_id = ?", f.option.ID).First(&stock).Error; err != nil {
		t.Fatalf("load stock failed: %v", err)
	}
	return stock.Quantity
}

func TestCreateOrderRejectsInsufficientStockWithoutWriting(t *testing.T) {
	f := newOrderFixture(t, "order_insufficient", 10)

	_, err := f.svc.CreateOrder(CreateOrderInput{
		UserID: f.user.ID,
		Items: []CreateOrderItemInput{
			{ProductOptionID: f.option.ID, Quantity: 12, Price: money(t, "59.90")},
		},
	})
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got: %v", err)
	}
	if !strings.Contains(err.Error(), "Available: 10, Requested: 12") {
		t.Fatalf("unexpected error message: %v", err)
	}
	if !strings.Contains(err.Error(), "Zapatilla Runner - Negro - 42") {
		t.Fatalf("expected product and option in message, got: %v", err)
	}

	// 拒绝发生在任何写入之前
	if got := f.stockQuantity(t); got != 10 {
		t.Fatalf("expected stock untouched at 10, got %d", got)
	}
	var orders, items, histories int64
	f.db.Model(&models.Order{}).Count(&orders)
	f.db.Model(&models.OrderItem{}).Count(&items)
	f.db.Model(&models.OrderHistory{}).Count(&histories)
	if orders != 0 || items != 0 || histories != 0 {
		t.Fatalf("expected no rows written, got orders=%d items=%d histories=%d", orders, items, histories)
	}
}

func TestCreateOrderDecrementsStockAndRecordsHistory(t *testing.T) {
	f := newOrderFixture(t, "order_create", 10)

	order, err := f.svc.CreateOrder(CreateOrderInput{
		UserID: f.user.ID,
		Items: []CreateOrderItemInput{
			{ProductOptionID: f.option.ID, Quantity: 4, Price: money(t, "59.90")},
		},
		ShippingCost:  money(t, "5.00"),
		Tax:           money(t, "2.50"),
		PaymentMethod: constants.PaymentMethodCard,
		ShippingAddress: &ShippingAddressInput{
			FullName: "Cliente Demo",
			Street:   "Av. Siempre Viva 742",
			City:     "Santiago",
			Country:  "Chile",
		},
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	if order.Status != constants.OrderStatusPending {
		t.Fatalf("expected status PENDIENTE, got %s", order.Status)
	}
	if order.PaymentStatus != constants.PaymentStatusPending {
		t.Fatalf("expected payment status PENDIENTE, got %s", order.PaymentStatus)
	}
	if !strings.HasPrefix(order.OrderNumber, "ORD") {
		t.Fatalf("unexpected order number: %s", order.OrderNumber)
	}
	if order.Subtotal.String() != "239.60" {
		t.Fatalf("expected subtotal 239.60, got %s", order.Subtotal.String())
	}
	if order.Total.String() != "247.10" {
		t.Fatalf("expected total 247.10, got %s", order.Total.String())
	}
	if len(order.Items) != 1 || order.Items[0].Quantity != 4 {
		t.Fatalf("unexpected items: %+v", order.Items)
	}
	if order.Items[0].Price.String() != "59.90" {
		t.Fatalf("expected snapshot price 59.90, got %s", order.Items[0].Price.String())
	}
	if order.ShippingAddress == nil || order.ShippingAddress.City != "Santiago" {
		t.Fatalf("unexpected shipping address: %+v", order.ShippingAddress)
	}
	if len(order.History) != 1 || order.History[0].Status != constants.OrderStatusPending {
		t.Fatalf("expected single PENDIENTE history entry, got: %+v", order.History)
	}
	if order.History[0].Notes != "order created" {
		t.Fatalf("unexpected history note: %s", order.History[0].Notes)
	}

	if got := f.stockQuantity(t); got != 6 {
		t.Fatalf("expected stock 6 after order, got %d", got)
	}
}

func TestCreateOrderRejectsUnknownCustomer(t *testing.T) {
	f := newOrderFixture(t, "order_unknown_customer", 10)

	_, err := f.svc.CreateOrder(CreateOrderInput{
		UserID: 999,
		Items: []CreateOrderItemInput{
			{ProductOptionID: f.option.ID, Quantity: 1, Price: money(t, "59.90")},
		},
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}
}

func TestCreateOrderRejectsUnknownOption(t *testing.T) {
	f := newOrderFixture(t, "order_unknown_option", 10)

	_, err := f.svc.CreateOrder(CreateOrderInput{
		UserID: f.user.ID,
		Items: []CreateOrderItemInput{
			{ProductOptionID: 999, Quantity: 1, Price: money(t, "59.90")},
		},
	})
	if !errors.Is(err, ErrInvalidOrderItem) {
		t.Fatalf("expected ErrInvalidOrderItem, got: %v", err)
	}
}

func TestCreateOrderRejectsNonPositiveQuantity(t *testing.T) {
	f := newOrderFixture(t, "order_bad_quantity", 10)

	_, err := f.svc.CreateOrder(CreateOrderInput{
		UserID: f.user.ID,
		Items: []CreateOrderItemInput{
			{ProductOptionID: f.option.ID, Quantity: 0, Price: money(t, "59.90")},
		},
	})
	if !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got: %v", err)
	}
}

func TestCreateOrderRejectsEmptyItems(t *testing.T) {
	f := newOrderFixture(t, "order_empty", 10)

	_, err := f.svc.CreateOrder(CreateOrderInput{UserID: f.user.ID})
	if !errors.Is(err, ErrInvalidOrderItem) {
		t.Fatalf("expected ErrInvalidOrderItem, got: %v", err)
	}
}

func TestUpdateOrderAppendsHistoryOnStatusChange(t *testing.T) {
	f := newOrderFixture(t, "order_status_change", 10)

	order, err := f.svc.CreateOrder(CreateOrderInput{
		UserID: f.user.ID,
		Items: []CreateOrderItemInput{
			{ProductOptionID: f.option.ID, Quantity: 1, Price: money(t, "59.90")},
		},
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	shipped := constants.OrderStatusShipped
	updated, err := f.svc.UpdateOrder(order.ID, UpdateOrderInput{Status: &shipped}, 7)
	if err != nil {
		t.Fatalf("update order failed: %v", err)
	}
	if updated.Status != constants.OrderStatusShipped {
		t.Fatalf("expected status ENVIADO, got %s", updated.Status)
	}
	if len(updated.History) != 2 {
		t.Fatalf("expected 2 history entries, got %d", len(updated.History))
	}
	// 历史按最新在前
	latest := updated.History[0]
	if latest.Status != constants.OrderStatusShipped {
		t.Fatalf("expected latest history ENVIADO, got %s", latest.Status)
	}
	if latest.Notes != "status changed from PENDIENTE to ENVIADO" {
		t.Fatalf("unexpected history note: %s", latest.Notes)
	}
	if latest.AdminID != 7 {
		t.Fatalf("expected acting admin 7, got %d", latest.AdminID)
	}
}

func TestUpdateOrderSameStatusAppendsNothing(t *testing.T) {
	f := newOrderFixture(t, "order_same_status", 10)

	order, err := f.svc.CreateOrder(CreateOrderInput{
		UserID: f.user.ID,
		Items: []CreateOrderItemInput{
			{ProductOptionID: f.option.ID, Quantity: 1, Price: money(t, "59.90")},
		},
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	pending := constants.OrderStatusPending
	notes := "cliente llamó para confirmar"
	updated, err := f.svc.UpdateOrder(order.ID, UpdateOrderInput{Status: &pending, Notes: &notes}, 7)
	if err != nil {
		t.Fatalf("update order failed: %v", err)
	}
	if updated.Notes != notes {
		t.Fatalf("expected notes updated, got: %s", updated.Notes)
	}
	if len(updated.History) != 1 {
		t.Fatalf("expected no new history for unchanged status, got %d entries", len(updated.History))
	}
}

func TestUpdateOrderRejectsInvalidTransition(t *testing.T) {
	f := newOrderFixture(t, "order_invalid_transition", 10)

	order, err := f.svc.CreateOrder(CreateOrderInput{
		UserID: f.user.ID,
		Items: []CreateOrderItemInput{
			{ProductOptionID: f.option.ID, Quantity: 1, Price: money(t, "59.90")},
		},
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	// PENDIENTE 不能直接 ENTREGADO
	delivered := constants.OrderStatusDelivered
	if _, err := f.svc.UpdateOrder(order.ID, UpdateOrderInput{Status: &delivered}, 7); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got: %v", err)
	}

	bogus := "PERDIDO"
	if _, err := f.svc.UpdateOrder(order.ID, UpdateOrderInput{Status: &bogus}, 7); !errors.Is(err, ErrBadRequest) {
		t.Fatalf("expected ErrBadRequest for unknown status, got: %v", err)
	}
}

func TestUpdateOrderRejectsLeavingTerminalStatus(t *testing.T) {
	f := newOrderFixture(t, "order_terminal", 10)

	order, err := f.svc.CreateOrder(CreateOrderInput{
		UserID: f.user.ID,
		Items: []CreateOrderItemInput{
			{ProductOptionID: f.option.ID, Quantity: 1, Price: money(t, "59.90")},
		},
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	if _, err := f.svc.CancelOrder(order.ID, 7); err != nil {
		t.Fatalf("cancel order failed: %v", err)
	}
	preparing := constants.OrderStatusPreparing
	if _, err := f.svc.UpdateOrder(order.ID, UpdateOrderInput{Status: &preparing}, 7); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition out of CANCELADO, got: %v", err)
	}
}

func TestUpdateOrderFillsTrackingOnlyWithAddress(t *testing.T) {
	f := newOrderFixture(t, "order_tracking", 10)

	withAddress, err := f.svc.CreateOrder(CreateOrderInput{
		UserID: f.user.ID,
		Items: []CreateOrderItemInput{
			{ProductOptionID: f.option.ID, Quantity: 1, Price: money(t, "59.90")},
		},
		ShippingAddress: &ShippingAddressInput{FullName: "Cliente Demo", Street: "Calle 1", City: "Lima", Country: "Perú"},
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	withoutAddress, err := f.svc.CreateOrder(CreateOrderInput{
		UserID: f.user.ID,
		Items: []CreateOrderItemInput{
			{ProductOptionID: f.option.ID, Quantity: 1, Price: money(t, "59.90")},
		},
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	tracking := "TRK-12345"
	shipped := constants.OrderStatusShipped
	updated, err := f.svc.UpdateOrder(withAddress.ID, UpdateOrderInput{Status: &shipped, TrackingNumber: &tracking}, 7)
	if err != nil {
		t.Fatalf("update order failed: %v", err)
	}
	if updated.ShippingAddress == nil || updated.ShippingAddress.TrackingNumber != tracking {
		t.Fatalf("expected tracking number set, got: %+v", updated.ShippingAddress)
	}

	// 无地址的订单忽略单号，不报错
	if _, err := f.svc.UpdateOrder(withoutAddress.ID, UpdateOrderInput{Status: &shipped, TrackingNumber: &tracking}, 7); err != nil {
		t.Fatalf("update order without address failed: %v", err)
	}
}

func TestCancelOrderKeepsRowAndStock(t *testing.T) {
	f := newOrderFixture(t, "order_cancel", 10)

	order, err := f.svc.CreateOrder(CreateOrderInput{
		UserID: f.user.ID,
		Items: []CreateOrderItemInput{
			{ProductOptionID: f.option.ID, Quantity: 4, Price: money(t, "59.90")},
		},
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	canceled, err := f.svc.CancelOrder(order.ID, 7)
	if err != nil {
		t.Fatalf("cancel order failed: %v", err)
	}
	if canceled.Status != constants.OrderStatusCanceled {
		t.Fatalf("expected status CANCELADO, got %s", canceled.Status)
	}
	if canceled.CanceledAt == nil {
		t.Fatalf("expected canceled_at set")
	}
	if len(canceled.History) != 2 {
		t.Fatalf("expected 2 history entries after cancel, got %d", len(canceled.History))
	}

	// 取消不回补库存
	if got := f.stockQuantity(t); got != 6 {
		t.Fatalf("expected stock to stay at 6 after cancel, got %d", got)
	}
}

func TestGetStatisticsAggregatesByStatus(t *testing.T) {
	f := newOrderFixture(t, "order_stats", 100)

	newOrder := func() *models.Order {
		order, err := f.svc.CreateOrder(CreateOrderInput{
			UserID: f.user.ID,
			Items: []CreateOrderItemInput{
				{ProductOptionID: f.option.ID, Quantity: 1, Price: money(t, "100.00")},
			},
		})
		if err != nil {
			t.Fatalf("create order failed: %v", err)
		}
		return order
	}

	pendingOrder := newOrder()
	_ = pendingOrder

	shipped := constants.OrderStatusShipped
	paid := constants.PaymentStatusPaid
	shippedOrder := newOrder()
	if _, err := f.svc.UpdateOrder(shippedOrder.ID, UpdateOrderInput{Status: &shipped, PaymentStatus: &paid}, 7); err != nil {
		t.Fatalf("ship order failed: %v", err)
	}

	canceledOrder := newOrder()
	if _, err := f.svc.CancelOrder(canceledOrder.ID, 7); err != nil {
		t.Fatalf("cancel order failed: %v", err)
	}

	stats, err := f.svc.GetStatistics()
	if err != nil {
		t.Fatalf("get statistics failed: %v", err)
	}
	if stats.OrdersTotal != 3 {
		t.Fatalf("expected 3 orders, got %d", stats.OrdersTotal)
	}
	if stats.PendingOrders != 1 || stats.ShippedOrders != 1 || stats.CanceledOrders != 1 {
		t.Fatalf("unexpected status counts: %+v", stats)
	}
	// 营收只含已发货且已支付的订单
	if stats.Revenue.String() != "100.00" {
		t.Fatalf("expected revenue 100.00, got %s", stats.Revenue.String())
	}
}
