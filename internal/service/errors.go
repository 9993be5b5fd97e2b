package service

import (
	"errors"
	"fmt"
)

// 错误分类基底：调用方用 errors.Is 归类到 NotFound / Conflict / BadRequest 三类。
var (
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrBadRequest = errors.New("bad request")
)

// 具体错误均包裹在分类基底之上，附带可读信息。
var (
	ErrCategoryNameExists = fmt.Errorf("%w: category name already exists under this parent", ErrConflict)
	ErrSelfParent         = fmt.Errorf("%w: category cannot be its own parent", ErrConflict)
	ErrCategoryCycle      = fmt.Errorf("%w: would create a cycle", ErrConflict)
	ErrCategoryInUse      = fmt.Errorf("%w: category has active children or products", ErrConflict)
	ErrSKUExists          = fmt.Errorf("%w: sku already in use", ErrConflict)
	ErrInvalidTransition  = fmt.Errorf("%w: invalid order status transition", ErrConflict)

	ErrRootNotRecognized = fmt.Errorf("%w: parent category not recognized", ErrNotFound)

	ErrRootCategoryProduct = fmt.Errorf("%w: product must belong to a leaf category", ErrBadRequest)
	ErrInsufficientStock   = fmt.Errorf("%w: insufficient stock", ErrBadRequest)
	ErrInvalidOrderItem    = fmt.Errorf("%w: invalid order item", ErrBadRequest)
	ErrInvalidQuantity     = fmt.Errorf("%w: quantity must be positive", ErrBadRequest)
)

// ErrOrderCreateFailed 订单事务失败后的兜底错误（具体原因已回滚并打日志）
var ErrOrderCreateFailed = errors.New("order create failed")
