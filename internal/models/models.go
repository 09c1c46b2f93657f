package models

import "time"

type Category string

const (
	CategoryFruits     Category = "Fruits"
	CategoryVegetables Category = "Vegetables"
	CategoryTubers     Category = "Tubers"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryFruits, CategoryVegetables, CategoryTubers:
		return true
	}
	return false
}

type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
	RoleAdmin  Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleBuyer, RoleSeller, RoleAdmin:
		return true
	}
	return false
}

// Product quantities are kilograms, so they are decimals, not unit counts.
type Product struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Price          float64  `json:"price"`
	Image          string   `json:"image"`
	Category       Category `json:"category"`
	Seller         string   `json:"seller"`
	Description    string   `json:"description,omitempty"`
	AvailableKilos float64  `json:"available_kilos"`
}

// CartLine is a denormalized snapshot of the product at add time plus the
// requested quantity.
type CartLine struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Image     string  `json:"image"`
	Seller    string  `json:"seller"`
	Quantity  float64 `json:"quantity"`
}

type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

type ShippingInfo struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
	City    string `json:"city"`
}

type Order struct {
	ID        string       `json:"id"`
	UserID    string       `json:"user_id"`
	Items     []CartLine   `json:"items"`
	Total     float64      `json:"total"`
	Shipping  ShippingInfo `json:"shipping"`
	CreatedAt time.Time    `json:"created_at"`
}
