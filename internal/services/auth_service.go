package services

import (
	"time"

	"github.com/dgrijalva/jwt-go"
	"gorm.io/gorm"

	"github.com/rmehra/papertrade/internal/ledger"
	"github.com/rmehra/papertrade/internal/models"
)

// AuthService defines the interface for authentication operations
type AuthService interface {
	Authenticate(username, password string) (models.Account, error)
	GenerateToken(account models.Account, secretKey []byte) (string, error)
}

// authService implements the AuthService interface
type authService struct {
	db     *gorm.DB
	hasher ledger.PasswordHasher
}

// NewAuthService creates a new authentication service
func NewAuthService(db *gorm.DB, hasher ledger.PasswordHasher) AuthService {
	return &authService{
		db:     db,
		hasher: hasher,
	}
}

// Authenticate verifies credentials and returns the account if valid
func (s *authService) Authenticate(username, password string) (models.Account, error) {
	var account models.Account
	result := s.db.Where("username = ?", username).First(&account)
	if result.Error != nil {
		return models.Account{}, result.Error
	}

	if !s.hasher.Verify(account.HashedPassword, password) {
		return models.Account{}, ledger.ErrPasswordMismatch
	}

	return account, nil
}

// GenerateToken creates a new JWT token for the account
func (s *authService) GenerateToken(account models.Account, secretKey []byte) (string, error) {
	expirationTime := time.Now().Add(60 * time.Minute)
	claims := &models.Claims{
		AccountID: account.ID,
		Username:  account.Username,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: expirationTime.Unix(),
			IssuedAt:  time.Now().Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}
