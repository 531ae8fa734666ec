package service

import (
	"strings"
	"time"

	"github.com/tienda-next/internal/constants"
	"github.com/tienda-next/internal/logger"
	"github.com/tienda-next/internal/models"
	"github.com/tienda-next/internal/queue"
	"github.com/tienda-next/internal/repository"
)

// AdminOrderListInput 管理端订单查询输入
type AdminOrderListInput struct {
	Page        int
	PageSize    int
	UserID      uint
	Status      string
	OrderNo     string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// OrderService 订单查询与状态管理服务
type OrderService struct {
	orderRepo   repository.OrderRepository
	queueClient *queue.Client
}

// NewOrderService 创建订单服务
func NewOrderService(orderRepo repository.OrderRepository, queueClient *queue.Client) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		queueClient: queueClient,
	}
}

// ListByUser 分页查询用户订单
func (s *OrderService) ListByUser(userID uint, page, pageSize int) ([]models.Order, int64, error) {
	if userID == 0 {
		return nil, 0, ErrNotAuthenticated
	}
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	return s.orderRepo.ListByUser(userID, page, pageSize)
}

// GetByIDAndUser 获取用户订单详情
func (s *OrderService) GetByIDAndUser(id, userID uint) (*models.Order, error) {
	if userID == 0 {
		return nil, ErrNotAuthenticated
	}
	order, err := s.orderRepo.GetByIDAndUser(id, userID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// ListAdmin 管理端订单查询
func (s *OrderService) ListAdmin(input AdminOrderListInput) ([]models.Order, int64, error) {
	if input.Page <= 0 {
		input.Page = 1
	}
	if input.PageSize <= 0 {
		input.PageSize = 20
	}
	return s.orderRepo.ListAdmin(repository.OrderListFilter{
		Page:        input.Page,
		PageSize:    input.PageSize,
		UserID:      input.UserID,
		Status:      strings.TrimSpace(input.Status),
		OrderNo:     strings.TrimSpace(input.OrderNo),
		CreatedFrom: input.CreatedFrom,
		CreatedTo:   input.CreatedTo,
	})
}

// GetByID 获取订单详情（管理端）
func (s *OrderService) GetByID(id uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// UpdateStatus 管理端更新订单状态，仅允许合法流转
func (s *OrderService) UpdateStatus(id uint, status string) (*models.Order, error) {
	order, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	target := strings.ToLower(strings.TrimSpace(status))
	if !isStatusTransitionAllowed(order.Status, target) {
		return nil, ErrInvalidOrderStatus
	}
	if err := s.orderRepo.UpdateStatus(order.ID, target); err != nil {
		return nil, err
	}
	order.Status = target

	if s.queueClient != nil {
		if err := s.queueClient.EnqueueOrderStatusEmail(queue.OrderStatusEmailPayload{
			OrderID: order.ID,
			Status:  target,
		}); err != nil {
			logger.Errorw("order_enqueue_status_email_failed",
				"order_id", order.ID,
				"order_no", order.OrderNo,
				"status", target,
				"error", err,
			)
		}
	}

	logger.Infow("order_status_updated",
		"order_id", order.ID,
		"order_no", order.OrderNo,
		"status", target,
	)
	return order, nil
}

// isStatusTransitionAllowed 订单状态流转表
func isStatusTransitionAllowed(current, target string) bool {
	transitions := map[string][]string{
		constants.OrderStatusPending:    {constants.OrderStatusProcessing, constants.OrderStatusCancelled},
		constants.OrderStatusProcessing: {constants.OrderStatusShipped, constants.OrderStatusCancelled},
		constants.OrderStatusShipped:    {constants.OrderStatusDelivered},
	}
	allowed, ok := transitions[strings.ToLower(current)]
	if !ok {
		return false
	}
	for _, next := range allowed {
		if next == target {
			return true
		}
	}
	return false
}
