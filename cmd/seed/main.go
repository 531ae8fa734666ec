package main

import (
	"github.com/tienda-next/internal/config"
	"github.com/tienda-next/internal/logger"
	"github.com/tienda-next/internal/models"

	"github.com/shopspring/decimal"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 添加分类
	categories := []models.Category{
		{Name: "Electrónica", Slug: "electronica", IsActive: true, SortOrder: 1},
		{Name: "Hogar", Slug: "hogar", IsActive: true, SortOrder: 2},
		{Name: "Accesorios", Slug: "accesorios", IsActive: true, SortOrder: 3},
	}

	for _, cat := range categories {
		var existing models.Category
		if err := models.DB.Where("slug = ?", cat.Slug).First(&existing).Error; err != nil {
			if err := models.DB.Create(&cat).Error; err != nil {
				stdLog.Printf("Failed to create category %s: %v", cat.Slug, err)
			} else {
				stdLog.Printf("Created category: %s", cat.Slug)
			}
		} else {
			stdLog.Printf("Category already exists: %s", cat.Slug)
		}
	}

	// 获取分类ID
	categoryIDs := map[string]uint{}
	var categoryList []models.Category
	if err := models.DB.Find(&categoryList).Error; err != nil {
		stdLog.Fatalf("Failed to load categories: %v", err)
	}
	for _, cat := range categoryList {
		categoryIDs[cat.Slug] = cat.ID
	}

	// 添加商品
	products := []models.Product{
		{
			CategoryID:  categoryIDs["electronica"],
			Name:        "Auriculares Bluetooth",
			Description: "Auriculares inalámbricos con cancelación de ruido.",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(59.90)),
			Stock:       50,
			IsActive:    true,
			SortOrder:   1,
		},
		{
			CategoryID:  categoryIDs["electronica"],
			Name:        "Teclado mecánico",
			Description: "Teclado mecánico retroiluminado, switches rojos.",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(89.00)),
			Stock:       30,
			IsActive:    true,
			SortOrder:   2,
		},
		{
			CategoryID:  categoryIDs["hogar"],
			Name:        "Lámpara de escritorio",
			Description: "Lámpara LED regulable con puerto USB.",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(24.50)),
			Stock:       80,
			IsActive:    true,
			SortOrder:   1,
		},
		{
			CategoryID:  categoryIDs["hogar"],
			Name:        "Cafetera italiana",
			Description: "Cafetera de aluminio para 6 tazas.",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(32.00)),
			Stock:       40,
			IsActive:    true,
			SortOrder:   2,
		},
		{
			CategoryID:  categoryIDs["accesorios"],
			Name:        "Funda para portátil",
			Description: "Funda acolchada de 15 pulgadas.",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(15.00)),
			Stock:       120,
			IsActive:    true,
			SortOrder:   1,
		},
		{
			CategoryID:  categoryIDs["accesorios"],
			Name:        "Cable USB-C 2m",
			Description: "Cable trenzado de carga rápida.",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(9.90)),
			Stock:       200,
			IsActive:    true,
			SortOrder:   2,
		},
	}

	for _, product := range products {
		if product.CategoryID == 0 {
			stdLog.Printf("Skipping product %s: category missing", product.Name)
			continue
		}
		var existing models.Product
		if err := models.DB.Where("name = ?", product.Name).First(&existing).Error; err != nil {
			if err := models.DB.Create(&product).Error; err != nil {
				stdLog.Printf("Failed to create product %s: %v", product.Name, err)
			} else {
				stdLog.Printf("Created product: %s", product.Name)
			}
		} else {
			stdLog.Printf("Product already exists: %s", product.Name)
		}
	}

	// 初始化默认管理员
	if err := models.InitDefaultAdmin("", ""); err != nil {
		stdLog.Printf("Failed to init default admin: %v", err)
	}

	stdLog.Println("Seed completed")
}
