package repository

import (
	"fmt"
	"strings"
	"testing"

	"github.com/tienda-next/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func openRepositoryTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
	); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	return db
}

func createStockProduct(t *testing.T, repo *GormProductRepository, name string, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		CategoryID: 1,
		Name:       name,
		Price:      models.NewMoneyFromDecimal(decimal.NewFromInt(10)),
		Stock:      stock,
		IsActive:   true,
	}
	if err := repo.Create(product); err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

func TestDecrementStockGuard(t *testing.T) {
	db := openRepositoryTestDB(t)
	repo := NewProductRepository(db)
	product := createStockProduct(t, repo, "guard", 5)

	affected, err := repo.DecrementStock(product.ID, 3)
	if err != nil {
		t.Fatalf("decrement failed: %v", err)
	}
	if affected != 1 {
		t.Fatalf("affected want 1 got %d", affected)
	}

	// 剩余 2，再扣 3 必须拒绝且不改库存
	affected, err = repo.DecrementStock(product.ID, 3)
	if err != nil {
		t.Fatalf("guarded decrement errored: %v", err)
	}
	if affected != 0 {
		t.Fatalf("affected want 0 got %d", affected)
	}

	var reloaded models.Product
	if err := db.First(&reloaded, product.ID).Error; err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if reloaded.Stock != 2 {
		t.Fatalf("stock want 2 got %d", reloaded.Stock)
	}
}

func TestDecrementStockExactRemainder(t *testing.T) {
	db := openRepositoryTestDB(t)
	repo := NewProductRepository(db)
	product := createStockProduct(t, repo, "exact", 4)

	affected, err := repo.DecrementStock(product.ID, 4)
	if err != nil {
		t.Fatalf("decrement failed: %v", err)
	}
	if affected != 1 {
		t.Fatalf("affected want 1 got %d", affected)
	}

	var reloaded models.Product
	if err := db.First(&reloaded, product.ID).Error; err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if reloaded.Stock != 0 {
		t.Fatalf("stock want 0 got %d", reloaded.Stock)
	}
}

func TestDecrementStockNonPositiveQuantityIsNoop(t *testing.T) {
	db := openRepositoryTestDB(t)
	repo := NewProductRepository(db)
	product := createStockProduct(t, repo, "noop", 5)

	affected, err := repo.DecrementStock(product.ID, 0)
	if err != nil || affected != 0 {
		t.Fatalf("zero quantity want noop, affected=%d err=%v", affected, err)
	}
	affected, err = repo.DecrementStock(product.ID, -2)
	if err != nil || affected != 0 {
		t.Fatalf("negative quantity want noop, affected=%d err=%v", affected, err)
	}
}
