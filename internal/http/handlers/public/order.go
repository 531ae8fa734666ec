package public

import (
	"errors"
	"strconv"

	"github.com/tienda-next/internal/http/response"
	"github.com/tienda-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CheckoutRequest 下单请求。address_id 缺省时由接口层预选默认地址。
type CheckoutRequest struct {
	AddressID uint `json:"address_id"`
}

// Checkout 购物车下单
func (h *Handler) Checkout(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req CheckoutRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, response.CodeBadRequest, "error.bad_request", err)
			return
		}
	}

	// 下单编排要求显式地址，缺省时在这里预选默认地址
	if req.AddressID == 0 {
		address, err := h.AddressService.Default(uid)
		if err != nil {
			respondError(c, response.CodeInternal, "error.checkout_failed", err)
			return
		}
		if address != nil {
			req.AddressID = address.ID
		}
	}

	result, err := h.CheckoutService.PlaceOrder(service.PlaceOrderInput{
		UserID:    uid,
		AddressID: req.AddressID,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCartEmpty):
			respondError(c, response.CodeBadRequest, "error.cart_empty", nil)
		case errors.Is(err, service.ErrAddressRequired):
			respondError(c, response.CodeBadRequest, "error.address_required", nil)
		case errors.Is(err, service.ErrAddressNotFound):
			respondError(c, response.CodeNotFound, "error.address_not_found", nil)
		case errors.Is(err, service.ErrProductNotAvailable):
			respondError(c, response.CodeBadRequest, "error.product_not_available", nil)
		case errors.Is(err, service.ErrInsufficientStock):
			respondError(c, response.CodeBadRequest, "error.insufficient_stock", nil)
		case errors.Is(err, service.ErrOrderCreationFailed):
			respondError(c, response.CodeInternal, "error.order_create_failed", err)
		case errors.Is(err, service.ErrOrderItemsFailed):
			respondError(c, response.CodeInternal, "error.order_items_failed", err)
		case errors.Is(err, service.ErrStockUpdateFailed):
			respondError(c, response.CodeInternal, "error.stock_update_failed", err)
		default:
			respondError(c, response.CodeInternal, "error.checkout_failed", err)
		}
		return
	}
	response.Success(c, result)
}

// ListOrders 分页查询我的订单
func (h *Handler) ListOrders(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	orders, total, err := h.OrderService.ListByUser(uid, page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "error.order_list_failed", err)
		return
	}
	response.SuccessWithPage(c, orders, response.NewPagination(page, pageSize, total))
}

// GetOrder 获取我的订单详情
func (h *Handler) GetOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	order, err := h.OrderService.GetByIDAndUser(uint(id), uid)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			respondError(c, response.CodeNotFound, "error.order_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.order_fetch_failed", err)
		return
	}
	response.Success(c, order)
}
