package service

import (
	"strings"

	"github.com/tienda-next/internal/models"
	"github.com/tienda-next/internal/repository"
)

// AddressInput 地址输入
type AddressInput struct {
	UserID      uint
	AddressLine string
	City        string
	State       string
	PostalCode  string
	IsDefault   bool
}

// AddressService 收货地址服务
type AddressService struct {
	addressRepo repository.ShippingAddressRepository
}

// NewAddressService 创建收货地址服务
func NewAddressService(addressRepo repository.ShippingAddressRepository) *AddressService {
	return &AddressService{addressRepo: addressRepo}
}

// ListByUser 获取用户地址列表，默认地址排在最前
func (s *AddressService) ListByUser(userID uint) ([]models.ShippingAddress, error) {
	if userID == 0 {
		return nil, ErrNotAuthenticated
	}
	return s.addressRepo.ListByUser(userID)
}

// Default 获取用户的默认地址，没有默认地址时返回 nil
func (s *AddressService) Default(userID uint) (*models.ShippingAddress, error) {
	if userID == 0 {
		return nil, ErrNotAuthenticated
	}
	return s.addressRepo.GetDefaultByUser(userID)
}

// Create 创建地址。用户的第一个地址自动设为默认。
func (s *AddressService) Create(input AddressInput) (*models.ShippingAddress, error) {
	if input.UserID == 0 {
		return nil, ErrNotAuthenticated
	}
	if strings.TrimSpace(input.AddressLine) == "" || strings.TrimSpace(input.City) == "" {
		return nil, ErrAddressRequired
	}

	count, err := s.addressRepo.CountByUser(input.UserID)
	if err != nil {
		return nil, err
	}

	address := &models.ShippingAddress{
		UserID:      input.UserID,
		AddressLine: strings.TrimSpace(input.AddressLine),
		City:        strings.TrimSpace(input.City),
		State:       strings.TrimSpace(input.State),
		PostalCode:  strings.TrimSpace(input.PostalCode),
		IsDefault:   count == 0,
	}
	if err := s.addressRepo.Create(address); err != nil {
		return nil, err
	}

	if input.IsDefault && !address.IsDefault {
		if err := s.addressRepo.SetDefault(address.ID, input.UserID); err != nil {
			return nil, err
		}
		address.IsDefault = true
	}
	return address, nil
}

// Update 更新地址内容
func (s *AddressService) Update(addressID uint, input AddressInput) (*models.ShippingAddress, error) {
	if input.UserID == 0 {
		return nil, ErrNotAuthenticated
	}
	address, err := s.addressRepo.GetByIDAndUser(addressID, input.UserID)
	if err != nil {
		return nil, err
	}
	if address == nil {
		return nil, ErrAddressNotFound
	}

	if strings.TrimSpace(input.AddressLine) != "" {
		address.AddressLine = strings.TrimSpace(input.AddressLine)
	}
	if strings.TrimSpace(input.City) != "" {
		address.City = strings.TrimSpace(input.City)
	}
	address.State = strings.TrimSpace(input.State)
	address.PostalCode = strings.TrimSpace(input.PostalCode)

	if err := s.addressRepo.Update(address); err != nil {
		return nil, err
	}

	if input.IsDefault && !address.IsDefault {
		if err := s.addressRepo.SetDefault(address.ID, input.UserID); err != nil {
			return nil, err
		}
		address.IsDefault = true
	}
	return address, nil
}

// SetDefault 设置默认地址
func (s *AddressService) SetDefault(userID, addressID uint) error {
	if userID == 0 {
		return ErrNotAuthenticated
	}
	address, err := s.addressRepo.GetByIDAndUser(addressID, userID)
	if err != nil {
		return err
	}
	if address == nil {
		return ErrAddressNotFound
	}
	return s.addressRepo.SetDefault(addressID, userID)
}

// Delete 删除地址
func (s *AddressService) Delete(userID, addressID uint) error {
	if userID == 0 {
		return ErrNotAuthenticated
	}
	address, err := s.addressRepo.GetByIDAndUser(addressID, userID)
	if err != nil {
		return err
	}
	if address == nil {
		return ErrAddressNotFound
	}
	return s.addressRepo.Delete(addressID, userID)
}
