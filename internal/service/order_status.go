package service

import (
	"fmt"

	"github.com/tienda-next/internal/constants"
)

// allowedTransitions 订单状态机。
// PENDIENTE → PREPARANDO/ENVIADO → ENTREGADO；CANCELADO 可由任意非终态进入；
// ENTREGADO 与 CANCELADO 为终态。
var allowedTransitions = map[string]map[string]bool{
	constants.OrderStatusPending: {
		constants.OrderStatusPreparing: true,
		constants.OrderStatusShipped:   true,
		constants.OrderStatusCanceled:  true,
	},
	constants.OrderStatusPreparing: {
		constants.OrderStatusShipped:   true,
		constants.OrderStatusDelivered: true,
		constants.OrderStatusCanceled:  true,
	},
	constants.OrderStatusShipped: {
		constants.OrderStatusDelivered: true,
		constants.OrderStatusCanceled:  true,
	},
}

// isValidOrderStatus 是否为已知订单状态
func isValidOrderStatus(status string) bool {
	switch status {
	case constants.OrderStatusPending,
		constants.OrderStatusPreparing,
		constants.OrderStatusShipped,
		constants.OrderStatusDelivered,
		constants.OrderStatusCanceled:
		return true
	}
	return false
}

// isTerminalStatus 是否为终态
func isTerminalStatus(status string) bool {
	return status == constants.OrderStatusDelivered || status == constants.OrderStatusCanceled
}

// canTransition 校验状态迁移是否合法
func canTransition(from, to string) bool {
	targets, ok := allowedTransitions[from]
	if !ok {
		return false
	}
	return targets[to]
}

// statusChangeNote 状态变更的历史记录文案
func statusChangeNote(from, to string) string {
	return fmt.Sprintf("status changed from %s to %s", from, to)
}
