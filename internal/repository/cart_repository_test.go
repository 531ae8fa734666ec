package repository

import (
	"testing"

	"github.com/tienda-next/internal/models"
)

func TestGetOrCreateByUserReturnsSameCart(t *testing.T) {
	db := openRepositoryTestDB(t)
	repo := NewCartRepository(db)

	first, err := repo.GetOrCreateByUser(42)
	if err != nil {
		t.Fatalf("first call failed: %v", err)
	}
	second, err := repo.GetOrCreateByUser(42)
	if err != nil {
		t.Fatalf("second call failed: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("cart id changed: %d vs %d", first.ID, second.ID)
	}

	var count int64
	if err := db.Model(&models.Cart{}).Where("user_id = ?", 42).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("cart rows want 1 got %d", count)
	}
}

func TestCartItemPhysicalDeleteReusesUniqueIndex(t *testing.T) {
	db := openRepositoryTestDB(t)
	repo := NewCartRepository(db)

	cart, err := repo.GetOrCreateByUser(7)
	if err != nil {
		t.Fatalf("get cart failed: %v", err)
	}

	item := &models.CartItem{CartID: cart.ID, ProductID: 3, Quantity: 2}
	if err := repo.CreateItem(item); err != nil {
		t.Fatalf("create item failed: %v", err)
	}
	if err := repo.DeleteItem(item.ID); err != nil {
		t.Fatalf("delete item failed: %v", err)
	}

	// 同一 cart_id+product_id 再次插入不能撞唯一索引
	again := &models.CartItem{CartID: cart.ID, ProductID: 3, Quantity: 1}
	if err := repo.CreateItem(again); err != nil {
		t.Fatalf("re-create item failed: %v", err)
	}
}

func TestClearByCartRemovesAllItems(t *testing.T) {
	db := openRepositoryTestDB(t)
	repo := NewCartRepository(db)

	cart, err := repo.GetOrCreateByUser(9)
	if err != nil {
		t.Fatalf("get cart failed: %v", err)
	}
	for productID := uint(1); productID <= 3; productID++ {
		if err := repo.CreateItem(&models.CartItem{CartID: cart.ID, ProductID: productID, Quantity: 1}); err != nil {
			t.Fatalf("create item failed: %v", err)
		}
	}

	if err := repo.ClearByCart(cart.ID); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	items, err := repo.ListItems(cart.ID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("items want 0 got %d", len(items))
	}

	// 空车再次清空为无操作
	if err := repo.ClearByCart(cart.ID); err != nil {
		t.Fatalf("clear empty cart failed: %v", err)
	}
}
