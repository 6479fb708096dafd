package services

import (
	"testing"

	"github.com/dgrijalva/jwt-go"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/rmehra/papertrade/internal/ledger"
	"github.com/rmehra/papertrade/internal/models"
)

func setupAuth(t *testing.T) (AuthService, *gorm.DB, ledger.PasswordHasher) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	if err := db.AutoMigrate(&models.Account{}); err != nil {
		t.Fatalf("Failed to migrate schema: %v", err)
	}

	hasher := ledger.NewBcryptHasher()
	return NewAuthService(db, hasher), db, hasher
}

func TestAuthenticate(t *testing.T) {
	service, db, hasher := setupAuth(t)

	digest, err := hasher.Hash("s3cret")
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	db.Create(&models.Account{Username: "alice", HashedPassword: digest})

	account, err := service.Authenticate("alice", "s3cret")
	if err != nil {
		t.Fatalf("Failed to authenticate: %v", err)
	}
	if account.Username != "alice" {
		t.Errorf("Expected username alice, got %s", account.Username)
	}

	if _, err := service.Authenticate("alice", "wrong"); err == nil {
		t.Error("Expected error for wrong password, got nil")
	}
	if _, err := service.Authenticate("nobody", "s3cret"); err == nil {
		t.Error("Expected error for unknown user, got nil")
	}
}

func TestGenerateToken(t *testing.T) {
	service, _, _ := setupAuth(t)
	secret := []byte("test_secret")

	tokenString, err := service.GenerateToken(models.Account{ID: 7, Username: "alice"}, secret)
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}

	claims := &models.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	})
	if err != nil || !token.Valid {
		t.Fatalf("Failed to parse token: %v", err)
	}
	if claims.AccountID != 7 {
		t.Errorf("Expected account ID 7, got %d", claims.AccountID)
	}
	if claims.Username != "alice" {
		t.Errorf("Expected username alice, got %s", claims.Username)
	}
}
