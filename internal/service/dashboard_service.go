package service

import (
	"context"
	"time"

	"github.com/tienda-next/internal/cache"
	"github.com/tienda-next/internal/constants"
	"github.com/tienda-next/internal/models"
	"github.com/tienda-next/internal/repository"
)

const dashboardCacheTTL = 45 * time.Second

// DashboardOverview 后台首页经营数据
type DashboardOverview struct {
	ProductCount    int64          `json:"product_count"`
	OrderCount      int64          `json:"order_count"`
	PendingOrders   int64          `json:"pending_orders"`
	DeliveredOrders int64          `json:"delivered_orders"`
	TotalRevenue    models.Money   `json:"total_revenue"`
	RecentOrders    []models.Order `json:"recent_orders"`
}

// DashboardService 仪表盘服务
type DashboardService struct {
	repo repository.DashboardRepository
}

// NewDashboardService 创建仪表盘服务
func NewDashboardService(repo repository.DashboardRepository) *DashboardService {
	return &DashboardService{repo: repo}
}

// Overview 聚合后台首页数据，短 TTL 缓存
func (s *DashboardService) Overview(ctx context.Context, forceRefresh bool) (*DashboardOverview, error) {
	const cacheKey = "dashboard:overview"
	if !forceRefresh {
		var cached DashboardOverview
		if hit, err := cache.GetJSON(ctx, cacheKey, &cached); err == nil && hit {
			return &cached, nil
		}
	}

	overview := &DashboardOverview{}
	var err error
	if overview.ProductCount, err = s.repo.CountProducts(); err != nil {
		return nil, err
	}
	if overview.OrderCount, err = s.repo.CountOrders(""); err != nil {
		return nil, err
	}
	if overview.PendingOrders, err = s.repo.CountOrders(constants.OrderStatusPending); err != nil {
		return nil, err
	}
	if overview.DeliveredOrders, err = s.repo.CountOrders(constants.OrderStatusDelivered); err != nil {
		return nil, err
	}
	if overview.TotalRevenue, err = s.repo.SumOrderTotal(); err != nil {
		return nil, err
	}
	if overview.RecentOrders, err = s.repo.RecentOrders(5); err != nil {
		return nil, err
	}

	_ = cache.SetJSON(ctx, cacheKey, overview, dashboardCacheTTL)
	return overview, nil
}
