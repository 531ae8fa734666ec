package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/tienda-next/internal/constants"
	"github.com/tienda-next/internal/logger"
	"github.com/tienda-next/internal/models"
	"github.com/tienda-next/internal/queue"
	"github.com/tienda-next/internal/repository"
)

// PlaceOrderInput 下单输入。AddressID 必须显式指定，编排服务不回退默认地址。
type PlaceOrderInput struct {
	UserID    uint
	AddressID uint
}

// PlaceOrderResult 下单结果。
// CartCleared 为 false 表示订单已生效但购物车清空失败。
type PlaceOrderResult struct {
	Order       *models.Order `json:"order"`
	CartCleared bool          `json:"cart_cleared"`
}

// CheckoutService 下单编排服务。
// 四个写入步骤按固定顺序依次执行，不包在同一事务内：
// 订单头 -> 订单行 -> 逐商品扣库存 -> 清空购物车。
// 前置校验全部通过前不产生任何写入；订单头写入成功后，
// 后续步骤失败时已写入的数据保留，由错误哨兵标识失败阶段。
type CheckoutService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	orderRepo   repository.OrderRepository
	addressRepo repository.ShippingAddressRepository
	queueClient *queue.Client
}

// NewCheckoutService 创建下单编排服务
func NewCheckoutService(
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
	addressRepo repository.ShippingAddressRepository,
	queueClient *queue.Client,
) *CheckoutService {
	return &CheckoutService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		orderRepo:   orderRepo,
		addressRepo: addressRepo,
		queueClient: queueClient,
	}
}

// checkoutLine 校验通过后的下单行快照
type checkoutLine struct {
	productID uint
	name      string
	unitPrice models.Money
	quantity  int
}

// PlaceOrder 执行下单。
// 重复调用会生成新订单并再次扣减库存，调用方需自行防重。
func (s *CheckoutService) PlaceOrder(input PlaceOrderInput) (*PlaceOrderResult, error) {
	if input.UserID == 0 {
		return nil, ErrNotAuthenticated
	}

	// 前置校验阶段，任何失败都不落库
	address, err := s.resolveAddress(input.UserID, input.AddressID)
	if err != nil {
		return nil, err
	}

	cart, err := s.cartRepo.GetByUser(input.UserID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, ErrCartEmpty
	}
	items, err := s.cartRepo.ListItems(cart.ID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrCartEmpty
	}

	lines, total, err := s.buildLines(items)
	if err != nil {
		return nil, err
	}

	// 步骤 1：订单头
	order := &models.Order{
		OrderNo:           generateOrderNo(),
		UserID:            input.UserID,
		Total:             total,
		Status:            constants.OrderStatusPending,
		ShippingAddressID: address.ID,
	}
	if err := s.orderRepo.CreateHeader(order); err != nil {
		logger.Errorw("checkout_order_header_failed",
			"user_id", input.UserID,
			"error", err,
		)
		return nil, fmt.Errorf("%w: %v", ErrOrderCreationFailed, err)
	}

	// 步骤 2：订单行（名称与单价为下单时刻快照）
	orderItems := make([]models.OrderItem, 0, len(lines))
	for _, line := range lines {
		orderItems = append(orderItems, models.OrderItem{
			OrderID:     order.ID,
			ProductID:   line.productID,
			ProductName: line.name,
			UnitPrice:   line.unitPrice,
			Quantity:    line.quantity,
		})
	}
	if err := s.orderRepo.CreateItems(orderItems); err != nil {
		logger.Errorw("checkout_order_items_failed",
			"order_id", order.ID,
			"order_no", order.OrderNo,
			"error", err,
		)
		return nil, fmt.Errorf("%w: %v", ErrOrderItemsFailed, err)
	}

	// 步骤 3：逐商品条件扣减库存，库存不足时停止
	for _, line := range lines {
		affected, err := s.productRepo.DecrementStock(line.productID, line.quantity)
		if err != nil {
			logger.Errorw("checkout_stock_decrement_failed",
				"order_id", order.ID,
				"order_no", order.OrderNo,
				"product_id", line.productID,
				"error", err,
			)
			return nil, fmt.Errorf("%w: %v", ErrStockUpdateFailed, err)
		}
		if affected == 0 {
			logger.Warnw("checkout_insufficient_stock",
				"order_id", order.ID,
				"order_no", order.OrderNo,
				"product_id", line.productID,
				"quantity", line.quantity,
			)
			return nil, fmt.Errorf("%w: product %d", ErrInsufficientStock, line.productID)
		}
	}

	// 步骤 4：清空购物车，失败不影响订单结果
	result := &PlaceOrderResult{Order: order, CartCleared: true}
	if err := s.cartRepo.ClearByCart(cart.ID); err != nil {
		logger.Warnw("checkout_cart_clear_failed",
			"order_id", order.ID,
			"order_no", order.OrderNo,
			"cart_id", cart.ID,
			"error", err,
		)
		result.CartCleared = false
	}

	if s.queueClient != nil {
		if err := s.queueClient.EnqueueOrderPlacedEmail(queue.OrderPlacedEmailPayload{
			OrderID: order.ID,
		}); err != nil {
			logger.Errorw("checkout_enqueue_email_failed",
				"order_id", order.ID,
				"order_no", order.OrderNo,
				"error", err,
			)
		}
	}

	logger.Infow("checkout_order_placed",
		"order_id", order.ID,
		"order_no", order.OrderNo,
		"user_id", input.UserID,
		"total", order.Total.String(),
		"cart_cleared", result.CartCleared,
	)

	if full, err := s.orderRepo.GetByID(order.ID); err == nil && full != nil {
		result.Order = full
	}
	return result, nil
}

// resolveAddress 校验收货地址：必须显式指定且属于当前用户。
// 默认地址的预选由调用方完成，这里不做回退。
func (s *CheckoutService) resolveAddress(userID, addressID uint) (*models.ShippingAddress, error) {
	if addressID == 0 {
		return nil, ErrAddressRequired
	}
	address, err := s.addressRepo.GetByIDAndUser(addressID, userID)
	if err != nil {
		return nil, err
	}
	if address == nil {
		return nil, ErrAddressNotFound
	}
	return address, nil
}

// buildLines 按当前商品单价生成下单行并合计总额
func (s *CheckoutService) buildLines(items []models.CartItem) ([]checkoutLine, models.Money, error) {
	ids := make([]uint, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}
	products, err := s.productRepo.ListByIDs(ids)
	if err != nil {
		return nil, models.Money{}, err
	}
	byID := make(map[uint]*models.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	lines := make([]checkoutLine, 0, len(items))
	var total models.Money
	for _, item := range items {
		product := byID[item.ProductID]
		if product == nil || !product.IsActive {
			return nil, models.Money{}, ErrProductNotAvailable
		}
		if item.Quantity <= 0 {
			return nil, models.Money{}, ErrInvalidCartItem
		}
		lines = append(lines, checkoutLine{
			productID: product.ID,
			name:      product.Name,
			unitPrice: product.Price,
			quantity:  item.Quantity,
		})
		total = total.Add(product.Price.MulQuantity(item.Quantity))
	}
	return lines, total, nil
}

func generateOrderNo() string {
	now := time.Now().Format("20060102150405")
	return fmt.Sprintf("TN%s%s", now, randNumeric(6))
}

func randNumeric(length int) string {
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			b.WriteString("0")
			continue
		}
		fmt.Fprintf(&b, "%d", n.Int64())
	}
	return b.String()
}
