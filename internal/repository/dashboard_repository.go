package repository

import (
	"github.com/tienda-next/internal/models"

	"gorm.io/gorm"
)

// DashboardRepository 管理后台统计数据访问接口
type DashboardRepository interface {
	CountProducts() (int64, error)
	CountOrders(status string) (int64, error)
	SumOrderTotal() (models.Money, error)
	RecentOrders(limit int) ([]models.Order, error)
}

// GormDashboardRepository GORM 实现
type GormDashboardRepository struct {
	db *gorm.DB
}

// NewDashboardRepository 创建统计仓库
func NewDashboardRepository(db *gorm.DB) *GormDashboardRepository {
	return &GormDashboardRepository{db: db}
}

// CountProducts 统计商品总数
func (r *GormDashboardRepository) CountProducts() (int64, error) {
	var count int64
	err := r.db.Model(&models.Product{}).Count(&count).Error
	return count, err
}

// CountOrders 统计订单数量，status 为空时统计全部
func (r *GormDashboardRepository) CountOrders(status string) (int64, error) {
	var count int64
	query := r.db.Model(&models.Order{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	err := query.Count(&count).Error
	return count, err
}

// SumOrderTotal 统计订单总金额
func (r *GormDashboardRepository) SumOrderTotal() (models.Money, error) {
	var row struct {
		Total string
	}
	err := r.db.Model(&models.Order{}).
		Select("COALESCE(SUM(total), 0) AS total").
		Scan(&row).Error
	if err != nil {
		return models.Money{}, err
	}
	return models.NewMoneyFromString(row.Total)
}

// RecentOrders 获取最近订单
func (r *GormDashboardRepository) RecentOrders(limit int) ([]models.Order, error) {
	if limit <= 0 {
		limit = 5
	}
	var orders []models.Order
	err := r.db.Preload("User").
		Order("created_at DESC").
		Limit(limit).
		Find(&orders).Error
	return orders, err
}
