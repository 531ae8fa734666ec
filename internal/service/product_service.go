package service

import (
	"strings"

	"github.com/tienda-next/internal/config"
	"github.com/tienda-next/internal/models"
	"github.com/tienda-next/internal/repository"
)

// ProductListInput 商品列表查询输入
type ProductListInput struct {
	Page       int
	PageSize   int
	CategoryID uint
	Search     string
	OnlyActive bool
}

// ProductInput 商品创建/更新输入
type ProductInput struct {
	CategoryID  uint
	Name        string
	Description string
	Price       models.Money
	Stock       int
	ImageURL    string
	IsActive    *bool
	SortOrder   int
}

// ProductService 商品服务
type ProductService struct {
	cfg          *config.Config
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
}

// NewProductService 创建商品服务
func NewProductService(cfg *config.Config, productRepo repository.ProductRepository, categoryRepo repository.CategoryRepository) *ProductService {
	return &ProductService{
		cfg:          cfg,
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
	}
}

// List 分页查询商品
func (s *ProductService) List(input ProductListInput) ([]models.Product, int64, error) {
	page := input.Page
	if page <= 0 {
		page = 1
	}
	pageSize := s.resolvePageSize(input.PageSize)
	return s.productRepo.List(repository.ProductListFilter{
		Page:         page,
		PageSize:     pageSize,
		CategoryID:   input.CategoryID,
		Search:       strings.TrimSpace(input.Search),
		OnlyActive:   input.OnlyActive,
		WithCategory: true,
	})
}

// GetByID 获取商品详情
func (s *ProductService) GetByID(id uint) (*models.Product, error) {
	if id == 0 {
		return nil, ErrProductNotFound
	}
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// GetActiveByID 获取上架商品详情（公开接口）
func (s *ProductService) GetActiveByID(id uint) (*models.Product, error) {
	product, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// Create 创建商品（管理端）
func (s *ProductService) Create(input ProductInput) (*models.Product, error) {
	if err := s.validateInput(input); err != nil {
		return nil, err
	}

	product := &models.Product{
		CategoryID:  input.CategoryID,
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
		Price:       input.Price,
		Stock:       input.Stock,
		ImageURL:    strings.TrimSpace(input.ImageURL),
		IsActive:    true,
		SortOrder:   input.SortOrder,
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}
	return product, nil
}

// Update 更新商品（管理端）
func (s *ProductService) Update(id uint, input ProductInput) (*models.Product, error) {
	product, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if err := s.validateInput(input); err != nil {
		return nil, err
	}

	product.CategoryID = input.CategoryID
	product.Name = strings.TrimSpace(input.Name)
	product.Description = strings.TrimSpace(input.Description)
	product.Price = input.Price
	product.Stock = input.Stock
	product.ImageURL = strings.TrimSpace(input.ImageURL)
	product.SortOrder = input.SortOrder
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

// Delete 删除商品（管理端）
func (s *ProductService) Delete(id uint) error {
	if _, err := s.GetByID(id); err != nil {
		return err
	}
	return s.productRepo.Delete(id)
}

func (s *ProductService) validateInput(input ProductInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return ErrInvalidProduct
	}
	if !input.Price.IsPositive() {
		return ErrInvalidProduct
	}
	if input.Stock < 0 {
		return ErrInvalidProduct
	}
	if input.CategoryID == 0 {
		return ErrCategoryNotFound
	}
	category, err := s.categoryRepo.GetByID(input.CategoryID)
	if err != nil {
		return err
	}
	if category == nil {
		return ErrCategoryNotFound
	}
	return nil
}

func (s *ProductService) resolvePageSize(pageSize int) int {
	defaultSize := 20
	maxSize := 100
	if s.cfg != nil {
		if s.cfg.Catalog.DefaultPageSize > 0 {
			defaultSize = s.cfg.Catalog.DefaultPageSize
		}
		if s.cfg.Catalog.MaxPageSize > 0 {
			maxSize = s.cfg.Catalog.MaxPageSize
		}
	}
	if pageSize <= 0 {
		return defaultSize
	}
	if pageSize > maxSize {
		return maxSize
	}
	return pageSize
}
