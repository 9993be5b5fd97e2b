package constants

// 订单状态常量（状态机：PENDIENTE → PREPARANDO/ENVIADO → ENTREGADO，CANCELADO 可由任意非终态进入）
const (
	OrderStatusPending   = "PENDIENTE"
	OrderStatusPreparing = "PREPARANDO"
	OrderStatusShipped   = "ENVIADO"
	OrderStatusDelivered = "ENTREGADO"
	OrderStatusCanceled  = "CANCELADO"
)

// 支付状态常量（与订单状态平行推进）
const (
	PaymentStatusPending = "PENDIENTE"
	PaymentStatusPaid    = "PAGADO"
	PaymentStatusFailed  = "FALLIDO"
)

// 支付方式常量
const (
	PaymentMethodCard     = "card"
	PaymentMethodTransfer = "transfer"
	PaymentMethodCash     = "cash"
)

// 用户角色常量
const (
	UserRoleAdmin    = "admin"
	UserRoleCustomer = "customer"
)

// 目录默认值
const (
	// DefaultMinStock 库存告警阈值默认值
	DefaultMinStock = 5
	// DefaultCategoryPosition 懒创建子分类时的默认排序位
	DefaultCategoryPosition = 0
)

// SystemActorID 历史记录中代表系统自动操作的 admin_id
const SystemActorID = 0
