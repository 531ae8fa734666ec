package repository

import (
	"errors"

	"github.com/tienda-next/internal/models"

	"gorm.io/gorm"
)

// ShippingAddressRepository 收货地址数据访问接口
type ShippingAddressRepository interface {
	ListByUser(userID uint) ([]models.ShippingAddress, error)
	GetByIDAndUser(id, userID uint) (*models.ShippingAddress, error)
	GetDefaultByUser(userID uint) (*models.ShippingAddress, error)
	CountByUser(userID uint) (int64, error)
	Create(address *models.ShippingAddress) error
	Update(address *models.ShippingAddress) error
	SetDefault(id, userID uint) error
	Delete(id, userID uint) error
	WithTx(tx *gorm.DB) ShippingAddressRepository
}

// GormShippingAddressRepository GORM 实现
type GormShippingAddressRepository struct {
	db *gorm.DB
}

// NewShippingAddressRepository 创建收货地址仓库
func NewShippingAddressRepository(db *gorm.DB) *GormShippingAddressRepository {
	return &GormShippingAddressRepository{db: db}
}

// WithTx 绑定事务
func (r *GormShippingAddressRepository) WithTx(tx *gorm.DB) ShippingAddressRepository {
	if tx == nil {
		return r
	}
	return &GormShippingAddressRepository{db: tx}
}

// ListByUser 获取用户全部地址，默认地址排在最前
func (r *GormShippingAddressRepository) ListByUser(userID uint) ([]models.ShippingAddress, error) {
	var addresses []models.ShippingAddress
	err := r.db.Where("user_id = ?", userID).
		Order("is_default DESC, created_at DESC").
		Find(&addresses).Error
	return addresses, err
}

// GetByIDAndUser 获取属于指定用户的地址
func (r *GormShippingAddressRepository) GetByIDAndUser(id, userID uint) (*models.ShippingAddress, error) {
	var address models.ShippingAddress
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&address).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &address, nil
}

// GetDefaultByUser 获取用户默认地址
func (r *GormShippingAddressRepository) GetDefaultByUser(userID uint) (*models.ShippingAddress, error) {
	var address models.ShippingAddress
	err := r.db.Where("user_id = ? AND is_default = ?", userID, true).First(&address).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &address, nil
}

// CountByUser 统计用户地址数量
func (r *GormShippingAddressRepository) CountByUser(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.ShippingAddress{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// Create 创建地址
func (r *GormShippingAddressRepository) Create(address *models.ShippingAddress) error {
	return r.db.Create(address).Error
}

// Update 保存地址
func (r *GormShippingAddressRepository) Update(address *models.ShippingAddress) error {
	return r.db.Save(address).Error
}

// SetDefault 设置默认地址，先清除旧默认再置新默认
func (r *GormShippingAddressRepository) SetDefault(id, userID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.ShippingAddress{}).
			Where("user_id = ? AND is_default = ?", userID, true).
			Update("is_default", false).Error; err != nil {
			return err
		}
		result := tx.Model(&models.ShippingAddress{}).
			Where("id = ? AND user_id = ?", id, userID).
			Update("is_default", true)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// Delete 删除地址
func (r *GormShippingAddressRepository) Delete(id, userID uint) error {
	return r.db.Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.ShippingAddress{}).Error
}
