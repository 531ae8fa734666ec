package service

import (
	"github.com/tienda-next/internal/models"
	"github.com/tienda-next/internal/repository"
)

// CartItemDetail 购物车条目详情（用于响应）
type CartItemDetail struct {
	ItemID      uint         `json:"item_id"`
	ProductID   uint         `json:"product_id"`
	ProductName string       `json:"product_name"`
	UnitPrice   models.Money `json:"unit_price"`
	Quantity    int          `json:"quantity"`
	Subtotal    models.Money `json:"subtotal"`
	ImageURL    string       `json:"image_url"`
	Stock       int          `json:"stock"`
	IsActive    bool         `json:"is_active"`
}

// CartDetail 购物车详情，金额按当前商品价格实时计算
type CartDetail struct {
	CartID    uint             `json:"cart_id"`
	Items     []CartItemDetail `json:"items"`
	ItemCount int              `json:"item_count"`
	Total     models.Money     `json:"total"`
}

// AddCartItemInput 加购输入
type AddCartItemInput struct {
	UserID    uint
	ProductID uint
	Quantity  int
}

// UpdateCartItemInput 数量覆盖输入
type UpdateCartItemInput struct {
	UserID   uint
	ItemID   uint
	Quantity int
}

// CartService 购物车服务。
// 全部写操作完成后重新加载购物车返回最新状态。
type CartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

// NewCartService 创建购物车服务
func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// GetCart 获取用户购物车详情，不存在则创建空车
func (s *CartService) GetCart(userID uint) (*CartDetail, error) {
	if userID == 0 {
		return nil, ErrNotAuthenticated
	}
	cart, err := s.cartRepo.GetOrCreateByUser(userID)
	if err != nil {
		return nil, err
	}
	return s.buildDetail(cart.ID)
}

// AddItem 加购。商品已在车内时数量累加，否则新建条目。
func (s *CartService) AddItem(input AddCartItemInput) (*CartDetail, error) {
	if input.UserID == 0 {
		return nil, ErrNotAuthenticated
	}
	if input.ProductID == 0 || input.Quantity <= 0 {
		return nil, ErrInvalidCartItem
	}

	product, err := s.productRepo.GetByID(input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil || !product.IsActive {
		return nil, ErrProductNotAvailable
	}

	cart, err := s.cartRepo.GetOrCreateByUser(input.UserID)
	if err != nil {
		return nil, err
	}

	existing, err := s.cartRepo.FindItemByProduct(cart.ID, input.ProductID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if err := s.cartRepo.UpdateItemQuantity(existing.ID, existing.Quantity+input.Quantity); err != nil {
			return nil, err
		}
	} else {
		item := &models.CartItem{
			CartID:    cart.ID,
			ProductID: input.ProductID,
			Quantity:  input.Quantity,
		}
		if err := s.cartRepo.CreateItem(item); err != nil {
			return nil, err
		}
	}
	return s.buildDetail(cart.ID)
}

// UpdateQuantity 覆盖条目数量。数量小于等于 0 时删除该条目。
func (s *CartService) UpdateQuantity(input UpdateCartItemInput) (*CartDetail, error) {
	if input.UserID == 0 {
		return nil, ErrNotAuthenticated
	}
	if input.ItemID == 0 {
		return nil, ErrInvalidCartItem
	}

	cart, err := s.cartRepo.GetOrCreateByUser(input.UserID)
	if err != nil {
		return nil, err
	}
	item, err := s.cartRepo.GetItem(input.ItemID, cart.ID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrCartItemNotFound
	}

	if input.Quantity <= 0 {
		if err := s.cartRepo.DeleteItem(item.ID); err != nil {
			return nil, err
		}
	} else {
		if err := s.cartRepo.UpdateItemQuantity(item.ID, input.Quantity); err != nil {
			return nil, err
		}
	}
	return s.buildDetail(cart.ID)
}

// RemoveItem 删除条目。条目不存在时视为已删除，直接返回当前购物车。
func (s *CartService) RemoveItem(userID, itemID uint) (*CartDetail, error) {
	if userID == 0 {
		return nil, ErrNotAuthenticated
	}
	if itemID == 0 {
		return nil, ErrInvalidCartItem
	}

	cart, err := s.cartRepo.GetOrCreateByUser(userID)
	if err != nil {
		return nil, err
	}
	item, err := s.cartRepo.GetItem(itemID, cart.ID)
	if err != nil {
		return nil, err
	}
	if item != nil {
		if err := s.cartRepo.DeleteItem(item.ID); err != nil {
			return nil, err
		}
	}
	return s.buildDetail(cart.ID)
}

// Clear 清空购物车。用户尚无购物车时不落库，直接返回空车。
func (s *CartService) Clear(userID uint) (*CartDetail, error) {
	if userID == 0 {
		return nil, ErrNotAuthenticated
	}
	cart, err := s.cartRepo.GetByUser(userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return &CartDetail{Items: make([]CartItemDetail, 0)}, nil
	}
	if err := s.cartRepo.ClearByCart(cart.ID); err != nil {
		return nil, err
	}
	return s.buildDetail(cart.ID)
}

// buildDetail 重新加载购物车并计算金额。
// 商品已被删除的条目直接清掉；下架商品保留在视图中由 is_active 标记。
func (s *CartService) buildDetail(cartID uint) (*CartDetail, error) {
	items, err := s.cartRepo.ListItems(cartID)
	if err != nil {
		return nil, err
	}

	detail := &CartDetail{
		CartID: cartID,
		Items:  make([]CartItemDetail, 0, len(items)),
	}
	for _, item := range items {
		product := item.Product
		if product == nil || product.ID == 0 {
			p, err := s.productRepo.GetByID(item.ProductID)
			if err != nil {
				return nil, err
			}
			product = p
		}
		if product == nil {
			if err := s.cartRepo.DeleteItem(item.ID); err != nil {
				return nil, err
			}
			continue
		}

		subtotal := product.Price.MulQuantity(item.Quantity)
		detail.Items = append(detail.Items, CartItemDetail{
			ItemID:      item.ID,
			ProductID:   item.ProductID,
			ProductName: product.Name,
			UnitPrice:   product.Price,
			Quantity:    item.Quantity,
			Subtotal:    subtotal,
			ImageURL:    product.ImageURL,
			Stock:       product.Stock,
			IsActive:    product.IsActive,
		})
		detail.ItemCount += item.Quantity
		detail.Total = detail.Total.Add(subtotal)
	}
	return detail, nil
}
