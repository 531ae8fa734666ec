package service

import (
	"errors"
	"testing"

	"github.com/tienda-next/internal/constants"
	"github.com/tienda-next/internal/models"
	"github.com/tienda-next/internal/repository"

	"gorm.io/gorm"
)

func setupOrderServiceTest(t *testing.T) (*OrderService, *gorm.DB) {
	t.Helper()
	db := openServiceTestDB(t)
	return NewOrderService(repository.NewOrderRepository(db), nil), db
}

func createTestOrder(t *testing.T, db *gorm.DB, userID uint, orderNo, status string) *models.Order {
	t.Helper()
	order := &models.Order{
		OrderNo:           orderNo,
		UserID:            userID,
		Total:             models.NewMoneyFromInt(100),
		Status:            status,
		ShippingAddressID: 1,
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	return order
}

func TestOrderStatusTransitions(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	user := createTestUser(t, db, "order-flow@test.local")
	order := createTestOrder(t, db, user.ID, "TN0001", constants.OrderStatusPending)

	// pending -> processing -> shipped -> delivered
	for _, status := range []string{
		constants.OrderStatusProcessing,
		constants.OrderStatusShipped,
		constants.OrderStatusDelivered,
	} {
		updated, err := svc.UpdateStatus(order.ID, status)
		if err != nil {
			t.Fatalf("transition to %s failed: %v", status, err)
		}
		if updated.Status != status {
			t.Fatalf("status want %s got %s", status, updated.Status)
		}
	}

	// 终态不再允许流转
	if _, err := svc.UpdateStatus(order.ID, constants.OrderStatusCancelled); !errors.Is(err, ErrInvalidOrderStatus) {
		t.Fatalf("delivered order must reject transitions, got %v", err)
	}
}

func TestOrderStatusRejectsSkips(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	user := createTestUser(t, db, "order-skip@test.local")
	order := createTestOrder(t, db, user.ID, "TN0002", constants.OrderStatusPending)

	if _, err := svc.UpdateStatus(order.ID, constants.OrderStatusDelivered); !errors.Is(err, ErrInvalidOrderStatus) {
		t.Fatalf("pending -> delivered must be rejected, got %v", err)
	}
	if _, err := svc.UpdateStatus(order.ID, "nonsense"); !errors.Is(err, ErrInvalidOrderStatus) {
		t.Fatalf("unknown status must be rejected, got %v", err)
	}
}

func TestOrderCancelFromPendingAndProcessing(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	user := createTestUser(t, db, "order-cancel@test.local")

	pending := createTestOrder(t, db, user.ID, "TN0003", constants.OrderStatusPending)
	if _, err := svc.UpdateStatus(pending.ID, constants.OrderStatusCancelled); err != nil {
		t.Fatalf("cancel pending failed: %v", err)
	}

	processing := createTestOrder(t, db, user.ID, "TN0004", constants.OrderStatusProcessing)
	if _, err := svc.UpdateStatus(processing.ID, constants.OrderStatusCancelled); err != nil {
		t.Fatalf("cancel processing failed: %v", err)
	}

	shipped := createTestOrder(t, db, user.ID, "TN0005", constants.OrderStatusShipped)
	if _, err := svc.UpdateStatus(shipped.ID, constants.OrderStatusCancelled); !errors.Is(err, ErrInvalidOrderStatus) {
		t.Fatalf("cancel shipped must be rejected, got %v", err)
	}
}

func TestOrderGetScopedByUser(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	owner := createTestUser(t, db, "order-owner@test.local")
	intruder := createTestUser(t, db, "order-intruder@test.local")
	order := createTestOrder(t, db, owner.ID, "TN0006", constants.OrderStatusPending)

	if _, err := svc.GetByIDAndUser(order.ID, owner.ID); err != nil {
		t.Fatalf("owner get failed: %v", err)
	}
	if _, err := svc.GetByIDAndUser(order.ID, intruder.ID); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("foreign get want ErrOrderNotFound got %v", err)
	}
}

func TestOrderListAdminFilters(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	user := createTestUser(t, db, "order-filter@test.local")
	createTestOrder(t, db, user.ID, "TN0007", constants.OrderStatusPending)
	createTestOrder(t, db, user.ID, "TN0008", constants.OrderStatusDelivered)

	orders, total, err := svc.ListAdmin(AdminOrderListInput{Status: constants.OrderStatusPending})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 1 || len(orders) != 1 || orders[0].OrderNo != "TN0007" {
		t.Fatalf("status filter mismatch: total=%d orders=%+v", total, orders)
	}

	orders, total, err = svc.ListAdmin(AdminOrderListInput{OrderNo: "TN0008"})
	if err != nil {
		t.Fatalf("list by no failed: %v", err)
	}
	if total != 1 || orders[0].Status != constants.OrderStatusDelivered {
		t.Fatalf("order no filter mismatch: total=%d", total)
	}
}
