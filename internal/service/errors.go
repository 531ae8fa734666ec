package service

import "errors"

// 业务哨兵错误，handler 层通过 errors.Is 映射为 HTTP 响应
var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrNotFound         = errors.New("record not found")

	// 用户
	ErrEmailExists        = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserDisabled       = errors.New("user disabled")
	ErrWeakPassword       = errors.New("password does not meet policy")

	// 购物车
	ErrInvalidCartItem     = errors.New("invalid cart item")
	ErrCartItemNotFound    = errors.New("cart item not found")
	ErrProductNotAvailable = errors.New("product not available")
	ErrCartEmpty           = errors.New("cart is empty")

	// 收货地址
	ErrAddressRequired = errors.New("shipping address required")
	ErrAddressNotFound = errors.New("shipping address not found")

	// 下单编排，按失败阶段区分
	ErrOrderCreationFailed = errors.New("order creation failed")
	ErrOrderItemsFailed    = errors.New("order items creation failed")
	ErrStockUpdateFailed   = errors.New("stock update failed")
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrCartClearFailed     = errors.New("cart clear failed")

	// 订单
	ErrOrderNotFound      = errors.New("order not found")
	ErrInvalidOrderStatus = errors.New("invalid order status transition")

	// 分类 / 商品
	ErrCategoryNotFound = errors.New("category not found")
	ErrInvalidCategory  = errors.New("invalid category data")
	ErrSlugExists       = errors.New("category slug already exists")
	ErrProductNotFound  = errors.New("product not found")
	ErrInvalidProduct   = errors.New("invalid product data")
)
