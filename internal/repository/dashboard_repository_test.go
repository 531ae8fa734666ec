package repository

import (
	"testing"

	"github.com/tienda-next/internal/constants"
	"github.com/tienda-next/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func seedDashboardOrder(t *testing.T, db *gorm.DB, orderNo, status, total string) {
	t.Helper()
	amount, err := decimal.NewFromString(total)
	if err != nil {
		t.Fatalf("parse total failed: %v", err)
	}
	order := &models.Order{
		OrderNo:           orderNo,
		UserID:            1,
		Total:             models.NewMoneyFromDecimal(amount),
		Status:            status,
		ShippingAddressID: 1,
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}
}

func TestDashboardCountsAndRevenue(t *testing.T) {
	db := openRepositoryTestDB(t)
	repo := NewDashboardRepository(db)
	productRepo := NewProductRepository(db)

	createStockProduct(t, productRepo, "uno", 5)
	createStockProduct(t, productRepo, "dos", 5)
	seedDashboardOrder(t, db, "TN1001", constants.OrderStatusPending, "19.90")
	seedDashboardOrder(t, db, "TN1002", constants.OrderStatusDelivered, "35.10")
	seedDashboardOrder(t, db, "TN1003", constants.OrderStatusDelivered, "10.00")

	products, err := repo.CountProducts()
	if err != nil || products != 2 {
		t.Fatalf("product count want 2 got %d err=%v", products, err)
	}
	all, err := repo.CountOrders("")
	if err != nil || all != 3 {
		t.Fatalf("order count want 3 got %d err=%v", all, err)
	}
	delivered, err := repo.CountOrders(constants.OrderStatusDelivered)
	if err != nil || delivered != 2 {
		t.Fatalf("delivered count want 2 got %d err=%v", delivered, err)
	}

	revenue, err := repo.SumOrderTotal()
	if err != nil {
		t.Fatalf("sum failed: %v", err)
	}
	if revenue.String() != "65.00" {
		t.Fatalf("revenue want 65.00 got %s", revenue.String())
	}
}

func TestDashboardSumEmptyIsZero(t *testing.T) {
	db := openRepositoryTestDB(t)
	repo := NewDashboardRepository(db)

	revenue, err := repo.SumOrderTotal()
	if err != nil {
		t.Fatalf("sum failed: %v", err)
	}
	if !revenue.IsZero() {
		t.Fatalf("empty revenue want 0 got %s", revenue.String())
	}
}

func TestDashboardRecentOrdersLimit(t *testing.T) {
	db := openRepositoryTestDB(t)
	repo := NewDashboardRepository(db)

	for _, no := range []string{"TN2001", "TN2002", "TN2003"} {
		seedDashboardOrder(t, db, no, constants.OrderStatusPending, "1.00")
	}

	orders, err := repo.RecentOrders(2)
	if err != nil {
		t.Fatalf("recent failed: %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("recent want 2 got %d", len(orders))
	}
}
