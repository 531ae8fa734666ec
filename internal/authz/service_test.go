package authz

import (
	"fmt"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupAuthzServiceTest(t *testing.T) *Service {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	svc, err := NewService(db)
	if err != nil {
		t.Fatalf("new authz service failed: %v", err)
	}
	return svc
}

func TestEnforceRoleWithWildcardPolicy(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap failed: %v", err)
	}

	allow, err := svc.EnforceRole("admin", "/api/v1/admin/products/42", "get")
	if err != nil {
		t.Fatalf("enforce admin failed: %v", err)
	}
	if !allow {
		t.Fatal("admin should pass wildcard policy")
	}

	allow, err = svc.EnforceRole("customer", "/api/v1/admin/products/42", "GET")
	if err != nil {
		t.Fatalf("enforce customer failed: %v", err)
	}
	if allow {
		t.Fatal("customer must not reach admin routes")
	}
}

func TestGrantRolePolicyScoped(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.GrantRolePolicy("ops", "/admin/orders", "GET"); err != nil {
		t.Fatalf("grant failed: %v", err)
	}

	allow, err := svc.EnforceRole("ops", "/api/v1/admin/orders", "GET")
	if err != nil {
		t.Fatalf("enforce allow failed: %v", err)
	}
	if !allow {
		t.Fatal("granted route should be allowed")
	}

	allow, err = svc.EnforceRole("ops", "/api/v1/admin/orders", "PATCH")
	if err != nil {
		t.Fatalf("enforce deny failed: %v", err)
	}
	if allow {
		t.Fatal("ungranted action must be denied")
	}
}

func TestNormalizeHelpers(t *testing.T) {
	role, err := NormalizeRole(" Admin ")
	if err != nil {
		t.Fatalf("normalize role failed: %v", err)
	}
	if role != "role:admin" {
		t.Fatalf("role want role:admin got %s", role)
	}
	if _, err := NormalizeRole(" "); err == nil {
		t.Fatal("blank role must be rejected")
	}

	if obj := NormalizeObject("/api/v1/admin/products"); obj != "/admin/products" {
		t.Fatalf("object want /admin/products got %s", obj)
	}
	if act := NormalizeAction("patch"); act != "PATCH" {
		t.Fatalf("action want PATCH got %s", act)
	}
}
