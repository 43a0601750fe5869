package upstream

import (
	"time"

	"github.com/grocerlane/gateway/pkg/enums"
	"github.com/shopspring/decimal"
)

func init() {
	// The upstream API speaks plain JSON numbers for money fields.
	decimal.MarshalJSONWithoutQuotes = true
}

// Product mirrors the catalog record served by the upstream API.
type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	ImageURL    string          `json:"imageUrl,omitempty"`
}

// ProductInput is the payload for creating catalog records.
type ProductInput struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	ImageURL    string          `json:"imageUrl,omitempty"`
}

// Account is the user record owned by the upstream auth service.
type Account struct {
	ID            int64               `json:"id"`
	Name          string              `json:"name"`
	Email         string              `json:"email"`
	ContactNumber string              `json:"contactNumber"`
	Address       string              `json:"address"`
	Role          enums.UserRole      `json:"role"`
	Status        enums.AccountStatus `json:"status"`
}

// OrderLine is one purchased position inside an order.
type OrderLine struct {
	ProductID int64           `json:"productId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

// Order is immutable once placed.
type Order struct {
	ID        int64           `json:"id"`
	UserID    int64           `json:"userId"`
	Items     []OrderLine     `json:"items"`
	Total     decimal.Decimal `json:"total"`
	CreatedAt time.Time       `json:"createdAt"`
}

// OrderInput is the checkout payload sent to the order service.
type OrderInput struct {
	UserID int64           `json:"userId"`
	Items  []OrderLine     `json:"items"`
	Total  decimal.Decimal `json:"total"`
}

// Credentials identify a user by email or display name.
type Credentials struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// RegisterInput is the payload for creating a new account.
type RegisterInput struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	ContactNumber string `json:"contactNumber"`
	Address       string `json:"address"`
	Password      string `json:"password"`
}

// ProfileUpdate carries the mutable profile fields; nil members are left untouched.
type ProfileUpdate struct {
	Email         *string `json:"email,omitempty"`
	Address       *string `json:"address,omitempty"`
	ContactNumber *string `json:"contactNumber,omitempty"`
}

// PasswordChange swaps the account credential after verifying the old one.
type PasswordChange struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}
