package models

import (
	"time"

	"gorm.io/gorm"
)

// Order 订单表
type Order struct {
	ID                uint           `gorm:"primarykey" json:"id"`                               // 主键
	OrderNo           string         `gorm:"uniqueIndex;not null" json:"order_no"`               // 订单编号
	UserID            uint           `gorm:"index;not null" json:"user_id"`                      // 用户ID
	Total             Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total"` // 下单时金额快照（创建后不变）
	Status            string         `gorm:"index;not null" json:"status"`                       // 订单状态
	ShippingAddressID uint           `gorm:"index;not null" json:"shipping_address_id"`          // 收货地址ID
	CreatedAt         time.Time      `gorm:"index" json:"created_at"`                            // 创建时间
	UpdatedAt         time.Time      `gorm:"index" json:"updated_at"`                            // 更新时间
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`                                     // 软删除时间

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"` // 订单项
	// 关联
	ShippingAddress *ShippingAddress `gorm:"foreignKey:ShippingAddressID" json:"shipping_address,omitempty"` // 收货地址
	User            *User            `gorm:"foreignKey:UserID" json:"user,omitempty"`                        // 下单用户
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}
