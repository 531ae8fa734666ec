package service

import (
	"context"
	"errors"
	"testing"

	"github.com/tienda-next/internal/config"
	"github.com/tienda-next/internal/models"
	"github.com/tienda-next/internal/repository"

	"gorm.io/gorm"
)

func authTestConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			SecretKey:   "unit-test-secret-key-0123456789abcdef",
			ExpireHours: 1,
		},
		Security: config.SecurityConfig{
			PasswordPolicy: config.PasswordPolicyConfig{
				MinLength:     8,
				RequireUpper:  true,
				RequireLower:  true,
				RequireNumber: true,
			},
		},
	}
}

func setupUserAuthServiceTest(t *testing.T) (*UserAuthService, *gorm.DB) {
	t.Helper()
	db := openServiceTestDB(t)
	return NewUserAuthService(authTestConfig(), repository.NewUserRepository(db)), db
}

func TestRegisterAndLogin(t *testing.T) {
	svc, db := setupUserAuthServiceTest(t)

	user, token, _, err := svc.Register("Nuevo@Test.Local", "Password1", "Nuevo Cliente")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if user.Email != "nuevo@test.local" {
		t.Fatalf("email should be normalized, got %s", user.Email)
	}
	if token == "" {
		t.Fatal("register should return a token")
	}

	claims, err := svc.ParseUserJWT(token)
	if err != nil {
		t.Fatalf("parse token failed: %v", err)
	}
	if claims.UserID != user.ID || claims.Role != user.Role {
		t.Fatalf("claims mismatch: %+v", claims)
	}

	if _, _, _, err := svc.Login("nuevo@test.local", "Password1"); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if _, _, _, err := svc.Login("nuevo@test.local", "wrong-pass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("want ErrInvalidCredentials got %v", err)
	}
	_ = db
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := setupUserAuthServiceTest(t)

	if _, _, _, err := svc.Register("dup@test.local", "Password1", ""); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	if _, _, _, err := svc.Register("DUP@test.local", "Password1", ""); !errors.Is(err, ErrEmailExists) {
		t.Fatalf("want ErrEmailExists got %v", err)
	}
}

func TestRegisterWeakPassword(t *testing.T) {
	svc, _ := setupUserAuthServiceTest(t)

	cases := []string{"short1A", "nouppercase1", "NOLOWERCASE1", "NoNumbersHere"}
	for _, password := range cases {
		if _, _, _, err := svc.Register("weak@test.local", password, ""); !errors.Is(err, ErrWeakPassword) {
			t.Fatalf("password %q want ErrWeakPassword got %v", password, err)
		}
	}
}

func TestLoginDisabledUser(t *testing.T) {
	svc, db := setupUserAuthServiceTest(t)

	user, _, _, err := svc.Register("disabled@test.local", "Password1", "")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if err := db.Model(&models.User{}).Where("id = ?", user.ID).Update("status", "disabled").Error; err != nil {
		t.Fatalf("disable user failed: %v", err)
	}

	if _, _, _, err := svc.Login("disabled@test.local", "Password1"); !errors.Is(err, ErrUserDisabled) {
		t.Fatalf("want ErrUserDisabled got %v", err)
	}
}

func TestChangePasswordInvalidatesOldToken(t *testing.T) {
	svc, _ := setupUserAuthServiceTest(t)

	user, token, _, err := svc.Register("rotate@test.local", "Password1", "")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if err := svc.ChangePassword(user.ID, "Password1", "Password2x"); err != nil {
		t.Fatalf("change password failed: %v", err)
	}

	claims, err := svc.ParseUserJWT(token)
	if err != nil {
		t.Fatalf("parse token failed: %v", err)
	}
	// 旧 Token 携带旧版本号，状态校验必须拒绝
	if _, err := svc.VerifyAuthState(context.Background(), claims); !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("old token want ErrNotAuthenticated got %v", err)
	}

	if _, _, _, err := svc.Login("rotate@test.local", "Password2x"); err != nil {
		t.Fatalf("login with new password failed: %v", err)
	}
	if _, _, _, err := svc.Login("rotate@test.local", "Password1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("old password want ErrInvalidCredentials got %v", err)
	}
}

func TestParseJWTRejectsTampering(t *testing.T) {
	svc, _ := setupUserAuthServiceTest(t)
	other := NewUserAuthService(&config.Config{
		JWT: config.JWTConfig{SecretKey: "another-secret-key-0123456789abcdef", ExpireHours: 1},
	}, nil)

	user := &models.User{ID: 7, Email: "sign@test.local", Role: "customer"}
	token, _, err := other.GenerateUserJWT(user)
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}
	if _, err := svc.ParseUserJWT(token); err == nil {
		t.Fatal("token signed with another key must be rejected")
	}
}
