package service

import (
	"errors"
	"testing"

	"github.com/tienda-next/internal/repository"

	"gorm.io/gorm"
)

func setupAddressServiceTest(t *testing.T) (*AddressService, *gorm.DB) {
	t.Helper()
	db := openServiceTestDB(t)
	return NewAddressService(repository.NewShippingAddressRepository(db)), db
}

func TestAddressFirstCreatedBecomesDefault(t *testing.T) {
	svc, db := setupAddressServiceTest(t)
	user := createTestUser(t, db, "addr-first@test.local")

	first, err := svc.Create(AddressInput{UserID: user.ID, AddressLine: "Calle Uno 1", City: "Madrid"})
	if err != nil {
		t.Fatalf("create first failed: %v", err)
	}
	if !first.IsDefault {
		t.Fatal("first address should be default")
	}

	second, err := svc.Create(AddressInput{UserID: user.ID, AddressLine: "Calle Dos 2", City: "Sevilla"})
	if err != nil {
		t.Fatalf("create second failed: %v", err)
	}
	if second.IsDefault {
		t.Fatal("second address should not be default")
	}
}

func TestAddressSetDefaultSwaps(t *testing.T) {
	svc, db := setupAddressServiceTest(t)
	user := createTestUser(t, db, "addr-swap@test.local")

	first, err := svc.Create(AddressInput{UserID: user.ID, AddressLine: "Calle Uno 1", City: "Madrid"})
	if err != nil {
		t.Fatalf("create first failed: %v", err)
	}
	second, err := svc.Create(AddressInput{UserID: user.ID, AddressLine: "Calle Dos 2", City: "Sevilla"})
	if err != nil {
		t.Fatalf("create second failed: %v", err)
	}

	if err := svc.SetDefault(user.ID, second.ID); err != nil {
		t.Fatalf("set default failed: %v", err)
	}

	list, err := svc.ListByUser(user.ID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	defaults := 0
	for _, address := range list {
		if address.IsDefault {
			defaults++
			if address.ID != second.ID {
				t.Fatalf("default should be %d got %d", second.ID, address.ID)
			}
		}
	}
	if defaults != 1 {
		t.Fatalf("exactly one default expected, got %d", defaults)
	}
	// 默认地址排在最前
	if list[0].ID != second.ID {
		t.Fatalf("default address should be listed first, got %d", list[0].ID)
	}
	_ = first
}

func TestAddressCreateRequiresLineAndCity(t *testing.T) {
	svc, db := setupAddressServiceTest(t)
	user := createTestUser(t, db, "addr-required@test.local")

	_, err := svc.Create(AddressInput{UserID: user.ID, AddressLine: " ", City: "Madrid"})
	if !errors.Is(err, ErrAddressRequired) {
		t.Fatalf("want ErrAddressRequired got %v", err)
	}
}

func TestAddressOwnershipEnforced(t *testing.T) {
	svc, db := setupAddressServiceTest(t)
	owner := createTestUser(t, db, "addr-owner@test.local")
	intruder := createTestUser(t, db, "addr-intruder@test.local")

	address, err := svc.Create(AddressInput{UserID: owner.ID, AddressLine: "Calle Uno 1", City: "Madrid"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := svc.SetDefault(intruder.ID, address.ID); !errors.Is(err, ErrAddressNotFound) {
		t.Fatalf("foreign set default want ErrAddressNotFound got %v", err)
	}
	if err := svc.Delete(intruder.ID, address.ID); !errors.Is(err, ErrAddressNotFound) {
		t.Fatalf("foreign delete want ErrAddressNotFound got %v", err)
	}
	if _, err := svc.Update(address.ID, AddressInput{UserID: intruder.ID, AddressLine: "Hack", City: "X"}); !errors.Is(err, ErrAddressNotFound) {
		t.Fatalf("foreign update want ErrAddressNotFound got %v", err)
	}
}
