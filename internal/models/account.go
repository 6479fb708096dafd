package models

import (
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/shopspring/decimal"
)

// Account is a registered user together with their simulated cash balance.
// StartingCash is frozen at registration so the transaction log can be
// replayed from it.
type Account struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	Username       string          `gorm:"uniqueIndex" json:"username"`
	HashedPassword string          `json:"-" gorm:"column:hashed_password"`
	Cash           decimal.Decimal `gorm:"type:numeric(20,8)" json:"cash"`
	StartingCash   decimal.Decimal `gorm:"type:numeric(20,8)" json:"startingCash"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// Claims for JWT authentication
type Claims struct {
	AccountID uint   `json:"account_id"`
	Username  string `json:"username"`
	jwt.StandardClaims
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Username     string `json:"username"`
	Password     string `json:"password"`
	Confirmation string `json:"confirmation"`
}
