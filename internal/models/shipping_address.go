package models

import (
	"time"

	"gorm.io/gorm"
)

// ShippingAddress 收货地址表
type ShippingAddress struct {
	ID          uint           `gorm:"primarykey" json:"id"`                    // 主键
	UserID      uint           `gorm:"not null;index" json:"user_id"`           // 用户ID
	AddressLine string         `gorm:"type:varchar(200);not null" json:"address_line"` // 街道地址
	City        string         `gorm:"type:varchar(100);not null" json:"city"`  // 城市
	State       string         `gorm:"type:varchar(100);not null" json:"state"` // 省/州
	PostalCode  string         `gorm:"type:varchar(20);not null" json:"postal_code"` // 邮编
	IsDefault   bool           `gorm:"default:false;index" json:"is_default"`   // 是否默认地址
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                 // 创建时间
	UpdatedAt   time.Time      `json:"updated_at"`                              // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                          // 软删除时间
}

// TableName 指定表名
func (ShippingAddress) TableName() string {
	return "shipping_addresses"
}
