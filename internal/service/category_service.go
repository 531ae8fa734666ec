package service

import (
	"regexp"
	"strings"

	"github.com/tienda-next/internal/models"
	"github.com/tienda-next/internal/repository"
)

var slugSanitizer = regexp.MustCompile(`[^a-z0-9]+`)

// CategoryInput 分类创建/更新输入
type CategoryInput struct {
	Name      string
	Slug      string
	IsActive  *bool
	SortOrder int
}

// CategoryService 商品分类服务
type CategoryService struct {
	categoryRepo repository.CategoryRepository
}

// NewCategoryService 创建分类服务
func NewCategoryService(categoryRepo repository.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

// List 获取分类列表
func (s *CategoryService) List(onlyActive bool) ([]models.Category, error) {
	return s.categoryRepo.List(onlyActive)
}

// GetByID 获取分类
func (s *CategoryService) GetByID(id uint) (*models.Category, error) {
	if id == 0 {
		return nil, ErrCategoryNotFound
	}
	category, err := s.categoryRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}
	return category, nil
}

// Create 创建分类
func (s *CategoryService) Create(input CategoryInput) (*models.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrInvalidCategory
	}
	slug := resolveSlug(input.Slug, name)
	count, err := s.categoryRepo.CountBySlug(slug, 0)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrSlugExists
	}

	category := &models.Category{
		Name:      name,
		Slug:      slug,
		IsActive:  true,
		SortOrder: input.SortOrder,
	}
	if input.IsActive != nil {
		category.IsActive = *input.IsActive
	}
	if err := s.categoryRepo.Create(category); err != nil {
		return nil, err
	}
	return category, nil
}

// Update 更新分类
func (s *CategoryService) Update(id uint, input CategoryInput) (*models.Category, error) {
	category, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if name != "" {
		category.Name = name
	}
	if strings.TrimSpace(input.Slug) != "" {
		slug := resolveSlug(input.Slug, category.Name)
		count, err := s.categoryRepo.CountBySlug(slug, category.ID)
		if err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrSlugExists
		}
		category.Slug = slug
	}
	category.SortOrder = input.SortOrder
	if input.IsActive != nil {
		category.IsActive = *input.IsActive
	}
	if err := s.categoryRepo.Update(category); err != nil {
		return nil, err
	}
	return category, nil
}

// Delete 删除分类
func (s *CategoryService) Delete(id uint) error {
	if _, err := s.GetByID(id); err != nil {
		return err
	}
	return s.categoryRepo.Delete(id)
}

// resolveSlug 生成 URL 友好的唯一标识
func resolveSlug(slug, name string) string {
	candidate := strings.TrimSpace(slug)
	if candidate == "" {
		candidate = name
	}
	candidate = strings.ToLower(candidate)
	candidate = slugSanitizer.ReplaceAllString(candidate, "-")
	return strings.Trim(candidate, "-")
}
