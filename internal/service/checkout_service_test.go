package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/tienda-next/internal/constants"
	"github.com/tienda-next/internal/models"
	"github.com/tienda-next/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupCheckoutTest(t *testing.T) (*CheckoutService, *CartService, *gorm.DB) {
	t.Helper()
	db := openServiceTestDB(t)
	cartRepo := repository.NewCartRepository(db)
	productRepo := repository.NewProductRepository(db)
	checkout := NewCheckoutService(
		cartRepo,
		productRepo,
		repository.NewOrderRepository(db),
		repository.NewShippingAddressRepository(db),
		nil,
	)
	return checkout, NewCartService(cartRepo, productRepo), db
}

func addToCart(t *testing.T, cart *CartService, userID, productID uint, quantity int) {
	t.Helper()
	if _, err := cart.AddItem(AddCartItemInput{UserID: userID, ProductID: productID, Quantity: quantity}); err != nil {
		t.Fatalf("add to cart failed: %v", err)
	}
}

func TestPlaceOrderHappyPath(t *testing.T) {
	checkout, cart, db := setupCheckoutTest(t)
	user := createTestUser(t, db, "checkout-ok@test.local")
	address := createTestAddress(t, db, user.ID, true)
	category := createTestCategory(t, db, "checkout-ok")
	productA := createTestProduct(t, db, category.ID, "Auriculares", "10.00", 5, true)
	productB := createTestProduct(t, db, category.ID, "Cafetera", "25.00", 3, true)

	addToCart(t, cart, user.ID, productA.ID, 2)
	addToCart(t, cart, user.ID, productB.ID, 1)

	result, err := checkout.PlaceOrder(PlaceOrderInput{UserID: user.ID, AddressID: address.ID})
	if err != nil {
		t.Fatalf("place order failed: %v", err)
	}
	if !result.CartCleared {
		t.Fatal("cart should be cleared")
	}

	order := result.Order
	if order.Status != constants.OrderStatusPending {
		t.Fatalf("status want pending got %s", order.Status)
	}
	if !strings.HasPrefix(order.OrderNo, "TN") {
		t.Fatalf("order no should carry TN prefix, got %s", order.OrderNo)
	}
	if !moneyEquals(order.Total, "45.00") {
		t.Fatalf("total want 45.00 got %s", order.Total.String())
	}
	if len(order.Items) != 2 {
		t.Fatalf("order items want 2 got %d", len(order.Items))
	}
	if order.Items[0].ProductName != "Auriculares" || !moneyEquals(order.Items[0].UnitPrice, "10.00") {
		t.Fatalf("item snapshot mismatch: %+v", order.Items[0])
	}

	if stock := reloadProductStock(t, db, productA.ID); stock != 3 {
		t.Fatalf("product A stock want 3 got %d", stock)
	}
	if stock := reloadProductStock(t, db, productB.ID); stock != 2 {
		t.Fatalf("product B stock want 2 got %d", stock)
	}
	if count := countRows(t, db, &models.CartItem{}); count != 0 {
		t.Fatalf("cart items want 0 got %d", count)
	}
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	checkout, _, db := setupCheckoutTest(t)
	user := createTestUser(t, db, "checkout-empty@test.local")
	address := createTestAddress(t, db, user.ID, true)

	_, err := checkout.PlaceOrder(PlaceOrderInput{UserID: user.ID, AddressID: address.ID})
	if !errors.Is(err, ErrCartEmpty) {
		t.Fatalf("want ErrCartEmpty got %v", err)
	}
	if count := countRows(t, db, &models.Order{}); count != 0 {
		t.Fatalf("no order should be written, got %d", count)
	}
}

func TestPlaceOrderRequiresExplicitAddress(t *testing.T) {
	checkout, cart, db := setupCheckoutTest(t)
	user := createTestUser(t, db, "checkout-noaddr@test.local")
	// 即使存在默认地址，编排服务也不自动选用
	createTestAddress(t, db, user.ID, true)
	category := createTestCategory(t, db, "noaddr")
	product := createTestProduct(t, db, category.ID, "Cable", "9.90", 10, true)
	addToCart(t, cart, user.ID, product.ID, 1)

	_, err := checkout.PlaceOrder(PlaceOrderInput{UserID: user.ID})
	if !errors.Is(err, ErrAddressRequired) {
		t.Fatalf("want ErrAddressRequired got %v", err)
	}
	if count := countRows(t, db, &models.Order{}); count != 0 {
		t.Fatalf("no order should be written, got %d", count)
	}
}

func TestPlaceOrderRejectsForeignAddress(t *testing.T) {
	checkout, cart, db := setupCheckoutTest(t)
	user := createTestUser(t, db, "checkout-foreign@test.local")
	other := createTestUser(t, db, "checkout-foreign-other@test.local")
	foreign := createTestAddress(t, db, other.ID, true)
	category := createTestCategory(t, db, "foreign")
	product := createTestProduct(t, db, category.ID, "Funda", "15.00", 10, true)
	addToCart(t, cart, user.ID, product.ID, 1)

	_, err := checkout.PlaceOrder(PlaceOrderInput{UserID: user.ID, AddressID: foreign.ID})
	if !errors.Is(err, ErrAddressNotFound) {
		t.Fatalf("want ErrAddressNotFound got %v", err)
	}
}

func TestPlaceOrderRejectsDeactivatedProduct(t *testing.T) {
	checkout, cart, db := setupCheckoutTest(t)
	user := createTestUser(t, db, "checkout-deactivated@test.local")
	address := createTestAddress(t, db, user.ID, true)
	category := createTestCategory(t, db, "deactivated")
	product := createTestProduct(t, db, category.ID, "Lampara", "24.50", 10, true)
	addToCart(t, cart, user.ID, product.ID, 1)

	// 加购后下架
	if err := db.Model(&models.Product{}).Where("id = ?", product.ID).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate failed: %v", err)
	}

	_, err := checkout.PlaceOrder(PlaceOrderInput{UserID: user.ID, AddressID: address.ID})
	if !errors.Is(err, ErrProductNotAvailable) {
		t.Fatalf("want ErrProductNotAvailable got %v", err)
	}
	if count := countRows(t, db, &models.Order{}); count != 0 {
		t.Fatalf("precondition failure must not write orders, got %d", count)
	}
	if count := countRows(t, db, &models.CartItem{}); count != 1 {
		t.Fatalf("cart must stay intact, got %d items", count)
	}
}

func TestPlaceOrderInsufficientStockMidSequence(t *testing.T) {
	checkout, cart, db := setupCheckoutTest(t)
	user := createTestUser(t, db, "checkout-stock@test.local")
	address := createTestAddress(t, db, user.ID, true)
	category := createTestCategory(t, db, "stock")
	productA := createTestProduct(t, db, category.ID, "Teclado", "89.00", 10, true)
	productB := createTestProduct(t, db, category.ID, "Raton", "19.00", 1, true)

	addToCart(t, cart, user.ID, productA.ID, 2)
	addToCart(t, cart, user.ID, productB.ID, 3)

	_, err := checkout.PlaceOrder(PlaceOrderInput{UserID: user.ID, AddressID: address.ID})
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("want ErrInsufficientStock got %v", err)
	}

	// 订单头和订单行已写入并保留
	if count := countRows(t, db, &models.Order{}); count != 1 {
		t.Fatalf("order header should persist, got %d", count)
	}
	if count := countRows(t, db, &models.OrderItem{}); count != 2 {
		t.Fatalf("order items should persist, got %d", count)
	}
	// 前一行已扣减，不足的一行保持原库存
	if stock := reloadProductStock(t, db, productA.ID); stock != 8 {
		t.Fatalf("product A stock want 8 got %d", stock)
	}
	if stock := reloadProductStock(t, db, productB.ID); stock != 1 {
		t.Fatalf("product B stock want 1 got %d", stock)
	}
	// 购物车未清空
	if count := countRows(t, db, &models.CartItem{}); count != 2 {
		t.Fatalf("cart should stay intact, got %d items", count)
	}
}

// failingOrderItemsRepo 注入订单行写入失败
type failingOrderItemsRepo struct {
	repository.OrderRepository
}

func (r *failingOrderItemsRepo) CreateItems(items []models.OrderItem) error {
	return errors.New("simulated write failure")
}

func TestPlaceOrderItemsStepFailure(t *testing.T) {
	db := openServiceTestDB(t)
	cartRepo := repository.NewCartRepository(db)
	productRepo := repository.NewProductRepository(db)
	checkout := NewCheckoutService(
		cartRepo,
		productRepo,
		&failingOrderItemsRepo{OrderRepository: repository.NewOrderRepository(db)},
		repository.NewShippingAddressRepository(db),
		nil,
	)
	cart := NewCartService(cartRepo, productRepo)

	user := createTestUser(t, db, "checkout-items-fail@test.local")
	address := createTestAddress(t, db, user.ID, true)
	category := createTestCategory(t, db, "items-fail")
	product := createTestProduct(t, db, category.ID, "Cafetera", "32.00", 40, true)
	addToCart(t, cart, user.ID, product.ID, 2)

	_, err := checkout.PlaceOrder(PlaceOrderInput{UserID: user.ID, AddressID: address.ID})
	if !errors.Is(err, ErrOrderItemsFailed) {
		t.Fatalf("want ErrOrderItemsFailed got %v", err)
	}

	// 订单头保留，库存与购物车未动
	if count := countRows(t, db, &models.Order{}); count != 1 {
		t.Fatalf("order header should persist, got %d", count)
	}
	if count := countRows(t, db, &models.OrderItem{}); count != 0 {
		t.Fatalf("order items want 0 got %d", count)
	}
	if stock := reloadProductStock(t, db, product.ID); stock != 40 {
		t.Fatalf("stock must be untouched, got %d", stock)
	}
	if count := countRows(t, db, &models.CartItem{}); count != 1 {
		t.Fatalf("cart should stay intact, got %d items", count)
	}
}

func TestPlaceOrderTwiceDecrementsTwice(t *testing.T) {
	checkout, cart, db := setupCheckoutTest(t)
	user := createTestUser(t, db, "checkout-twice@test.local")
	address := createTestAddress(t, db, user.ID, true)
	category := createTestCategory(t, db, "twice")
	product := createTestProduct(t, db, category.ID, "Cable", "9.90", 10, true)

	addToCart(t, cart, user.ID, product.ID, 2)
	if _, err := checkout.PlaceOrder(PlaceOrderInput{UserID: user.ID, AddressID: address.ID}); err != nil {
		t.Fatalf("first order failed: %v", err)
	}

	addToCart(t, cart, user.ID, product.ID, 2)
	if _, err := checkout.PlaceOrder(PlaceOrderInput{UserID: user.ID, AddressID: address.ID}); err != nil {
		t.Fatalf("second order failed: %v", err)
	}

	if count := countRows(t, db, &models.Order{}); count != 2 {
		t.Fatalf("orders want 2 got %d", count)
	}
	if stock := reloadProductStock(t, db, product.ID); stock != 6 {
		t.Fatalf("stock want 6 got %d", stock)
	}
}

func TestPlaceOrderSnapshotSurvivesPriceChange(t *testing.T) {
	checkout, cart, db := setupCheckoutTest(t)
	user := createTestUser(t, db, "checkout-snapshot@test.local")
	address := createTestAddress(t, db, user.ID, true)
	category := createTestCategory(t, db, "snapshot")
	product := createTestProduct(t, db, category.ID, "Auriculares", "59.90", 50, true)

	addToCart(t, cart, user.ID, product.ID, 1)
	result, err := checkout.PlaceOrder(PlaceOrderInput{UserID: user.ID, AddressID: address.ID})
	if err != nil {
		t.Fatalf("place order failed: %v", err)
	}

	newPrice := models.NewMoneyFromDecimal(decimal.NewFromFloat(99.00))
	if err := db.Model(&models.Product{}).Where("id = ?", product.ID).Update("price", newPrice).Error; err != nil {
		t.Fatalf("update price failed: %v", err)
	}

	orderRepo := repository.NewOrderRepository(db)
	order, err := orderRepo.GetByID(result.Order.ID)
	if err != nil || order == nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if !moneyEquals(order.Total, "59.90") {
		t.Fatalf("order total must keep snapshot, got %s", order.Total.String())
	}
	if !moneyEquals(order.Items[0].UnitPrice, "59.90") {
		t.Fatalf("item unit price must keep snapshot, got %s", order.Items[0].UnitPrice.String())
	}
}

// failingCartClearRepo 注入购物车清空失败
type failingCartClearRepo struct {
	repository.CartRepository
}

func (r *failingCartClearRepo) ClearByCart(cartID uint) error {
	return errors.New("simulated clear failure")
}

func TestPlaceOrderCartClearFailureKeepsOrder(t *testing.T) {
	db := openServiceTestDB(t)
	baseCartRepo := repository.NewCartRepository(db)
	productRepo := repository.NewProductRepository(db)
	checkout := NewCheckoutService(
		&failingCartClearRepo{CartRepository: baseCartRepo},
		productRepo,
		repository.NewOrderRepository(db),
		repository.NewShippingAddressRepository(db),
		nil,
	)
	cart := NewCartService(baseCartRepo, productRepo)

	user := createTestUser(t, db, "checkout-clear-fail@test.local")
	address := createTestAddress(t, db, user.ID, true)
	category := createTestCategory(t, db, "clear-fail")
	product := createTestProduct(t, db, category.ID, "Altavoz", "49.90", 8, true)
	addToCart(t, cart, user.ID, product.ID, 2)

	result, err := checkout.PlaceOrder(PlaceOrderInput{UserID: user.ID, AddressID: address.ID})
	if err != nil {
		t.Fatalf("clear failure must not fail the order, got %v", err)
	}
	if result.CartCleared {
		t.Fatal("cart_cleared should be false when the clear step fails")
	}

	// 订单完整生效，库存已扣减，购物车原样保留
	if count := countRows(t, db, &models.Order{}); count != 1 {
		t.Fatalf("orders want 1 got %d", count)
	}
	if !moneyEquals(result.Order.Total, "99.80") {
		t.Fatalf("total want 99.80 got %s", result.Order.Total.String())
	}
	if stock := reloadProductStock(t, db, product.ID); stock != 6 {
		t.Fatalf("stock want 6 got %d", stock)
	}
	if count := countRows(t, db, &models.CartItem{}); count != 1 {
		t.Fatalf("cart should stay as-is, got %d items", count)
	}
}
