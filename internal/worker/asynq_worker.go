package worker

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/tienda-next/internal/logger"
	"github.com/tienda-next/internal/models"
	"github.com/tienda-next/internal/provider"
	"github.com/tienda-next/internal/queue"
	"github.com/tienda-next/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskOrderPlacedEmail, c.handleOrderPlacedEmail)
	mux.HandleFunc(queue.TaskOrderStatusEmail, c.handleOrderStatusEmail)
}

func (c *Consumer) handleOrderPlacedEmail(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		return nil
	}
	var payload queue.OrderPlacedEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_order_placed_email_unmarshal_failed", "error", err)
		return err
	}
	if payload.OrderID == 0 {
		return nil
	}

	order, receiver, err := c.resolveOrderReceiver(payload.OrderID, "worker_order_placed_email")
	if err != nil || order == nil || receiver == "" {
		return err
	}
	if c.EmailService == nil {
		logger.Warnw("worker_order_placed_email_skip_service_nil", "order_id", order.ID)
		return nil
	}

	input := service.OrderEmailInput{
		OrderNo: order.OrderNo,
		Status:  order.Status,
		Total:   order.Total,
	}
	if err := c.EmailService.SendOrderPlacedEmail(receiver, input); err != nil {
		logger.Warnw("worker_order_placed_email_send_failed",
			"order_id", order.ID,
			"order_no", order.OrderNo,
			"receiver_email", receiver,
			"error", err,
		)
		return err
	}
	return nil
}

func (c *Consumer) handleOrderStatusEmail(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		return nil
	}
	var payload queue.OrderStatusEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_order_status_email_unmarshal_failed", "error", err)
		return err
	}
	if payload.OrderID == 0 {
		return nil
	}

	order, receiver, err := c.resolveOrderReceiver(payload.OrderID, "worker_order_status_email")
	if err != nil || order == nil || receiver == "" {
		return err
	}
	if c.EmailService == nil {
		logger.Warnw("worker_order_status_email_skip_service_nil", "order_id", order.ID)
		return nil
	}

	status := strings.TrimSpace(payload.Status)
	if status == "" {
		status = order.Status
	}
	input := service.OrderEmailInput{
		OrderNo: order.OrderNo,
		Status:  status,
		Total:   order.Total,
	}
	if err := c.EmailService.SendOrderStatusEmail(receiver, input); err != nil {
		logger.Warnw("worker_order_status_email_send_failed",
			"order_id", order.ID,
			"order_no", order.OrderNo,
			"receiver_email", receiver,
			"status", status,
			"error", err,
		)
		return err
	}
	return nil
}

// resolveOrderReceiver 加载订单与收件人邮箱，缺失时返回 nil 并跳过任务
func (c *Consumer) resolveOrderReceiver(orderID uint, logPrefix string) (*models.Order, string, error) {
	order, err := c.OrderRepo.GetByID(orderID)
	if err != nil {
		logger.Warnw(logPrefix+"_fetch_order_failed", "order_id", orderID, "error", err)
		return nil, "", err
	}
	if order == nil {
		logger.Debugw(logPrefix+"_skip_order_not_found", "order_id", orderID)
		return nil, "", nil
	}

	receiver := ""
	if order.User != nil {
		receiver = strings.TrimSpace(order.User.Email)
	}
	if receiver == "" && order.UserID != 0 {
		user, uerr := c.UserRepo.GetByID(order.UserID)
		if uerr != nil {
			logger.Warnw(logPrefix+"_fetch_user_failed", "order_id", order.ID, "user_id", order.UserID, "error", uerr)
			return nil, "", uerr
		}
		if user != nil {
			receiver = strings.TrimSpace(user.Email)
		}
	}
	if receiver == "" {
		logger.Debugw(logPrefix+"_skip_empty_receiver", "order_id", order.ID, "order_no", order.OrderNo)
		return nil, "", nil
	}
	return order, receiver, nil
}
