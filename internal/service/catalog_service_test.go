package service

import (
	"errors"
	"testing"

	"github.com/tienda-next/internal/config"
	"github.com/tienda-next/internal/models"
	"github.com/tienda-next/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupCatalogTest(t *testing.T) (*ProductService, *CategoryService, *gorm.DB) {
	t.Helper()
	db := openServiceTestDB(t)
	cfg := &config.Config{Catalog: config.CatalogConfig{DefaultPageSize: 12, MaxPageSize: 50}}
	categoryRepo := repository.NewCategoryRepository(db)
	products := NewProductService(cfg, repository.NewProductRepository(db), categoryRepo)
	categories := NewCategoryService(categoryRepo)
	return products, categories, db
}

func TestCategorySlugGeneration(t *testing.T) {
	_, categories, _ := setupCatalogTest(t)

	category, err := categories.Create(CategoryInput{Name: "Electrónica y Hogar"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if category.Slug != "electr-nica-y-hogar" {
		t.Fatalf("slug mismatch: %s", category.Slug)
	}

	if _, err := categories.Create(CategoryInput{Name: "Otra", Slug: category.Slug}); !errors.Is(err, ErrSlugExists) {
		t.Fatalf("duplicate slug want ErrSlugExists got %v", err)
	}
}

func TestCategoryUpdateKeepsSlugUnique(t *testing.T) {
	_, categories, _ := setupCatalogTest(t)

	first, err := categories.Create(CategoryInput{Name: "Hogar"})
	if err != nil {
		t.Fatalf("create first failed: %v", err)
	}
	second, err := categories.Create(CategoryInput{Name: "Accesorios"})
	if err != nil {
		t.Fatalf("create second failed: %v", err)
	}

	if _, err := categories.Update(second.ID, CategoryInput{Name: "Accesorios", Slug: first.Slug}); !errors.Is(err, ErrSlugExists) {
		t.Fatalf("update to taken slug want ErrSlugExists got %v", err)
	}
	// 自己的 slug 可以原样保留
	if _, err := categories.Update(second.ID, CategoryInput{Name: "Accesorios", Slug: second.Slug}); err != nil {
		t.Fatalf("update keeping own slug failed: %v", err)
	}
}

func TestProductCreateValidation(t *testing.T) {
	products, categories, _ := setupCatalogTest(t)
	category, err := categories.Create(CategoryInput{Name: "Electronica"})
	if err != nil {
		t.Fatalf("create category failed: %v", err)
	}

	valid := ProductInput{
		CategoryID: category.ID,
		Name:       "Auriculares",
		Price:      models.NewMoneyFromDecimal(decimal.NewFromFloat(59.90)),
		Stock:      10,
	}
	if _, err := products.Create(valid); err != nil {
		t.Fatalf("create valid product failed: %v", err)
	}

	cases := []struct {
		name  string
		input ProductInput
		want  error
	}{
		{"empty name", ProductInput{CategoryID: category.ID, Name: " ", Price: valid.Price, Stock: 1}, ErrInvalidProduct},
		{"zero price", ProductInput{CategoryID: category.ID, Name: "X", Price: models.Money{}, Stock: 1}, ErrInvalidProduct},
		{"negative stock", ProductInput{CategoryID: category.ID, Name: "X", Price: valid.Price, Stock: -1}, ErrInvalidProduct},
		{"missing category", ProductInput{CategoryID: 999, Name: "X", Price: valid.Price, Stock: 1}, ErrCategoryNotFound},
	}
	for _, tc := range cases {
		if _, err := products.Create(tc.input); !errors.Is(err, tc.want) {
			t.Fatalf("%s: want %v got %v", tc.name, tc.want, err)
		}
	}
}

func TestProductPublicListingHidesInactive(t *testing.T) {
	products, categories, db := setupCatalogTest(t)
	category, err := categories.Create(CategoryInput{Name: "Hogar"})
	if err != nil {
		t.Fatalf("create category failed: %v", err)
	}
	active := createTestProduct(t, db, category.ID, "Visible", "10.00", 5, true)
	hidden := createTestProduct(t, db, category.ID, "Oculto", "10.00", 5, false)

	list, total, err := products.List(ProductListInput{OnlyActive: true})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 1 || len(list) != 1 || list[0].ID != active.ID {
		t.Fatalf("public list should hide inactive products: total=%d", total)
	}

	if _, err := products.GetActiveByID(hidden.ID); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("inactive product want ErrProductNotFound got %v", err)
	}

	// 管理端能看到全部
	_, total, err = products.List(ProductListInput{OnlyActive: false})
	if err != nil {
		t.Fatalf("admin list failed: %v", err)
	}
	if total != 2 {
		t.Fatalf("admin list want 2 got %d", total)
	}
}

func TestProductListPageSizeClamped(t *testing.T) {
	products, categories, db := setupCatalogTest(t)
	category, err := categories.Create(CategoryInput{Name: "Accesorios"})
	if err != nil {
		t.Fatalf("create category failed: %v", err)
	}
	createTestProduct(t, db, category.ID, "Cable", "9.90", 5, true)

	// 超过上限的 page_size 会被收敛，不报错
	if _, _, err := products.List(ProductListInput{PageSize: 10000}); err != nil {
		t.Fatalf("list with oversized page failed: %v", err)
	}
}
