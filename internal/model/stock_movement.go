package model

import "time"

// Movement reasons written by the application.
const (
	ReasonManualAdjustment = "manual_adjustment"
	ReasonInitialStock     = "initial_stock"
	ReasonManualEdit       = "manual_edit"
	ReasonSale             = "sale"
)

// StockMovement is one immutable ledger entry. Quantity is the signed delta.
type StockMovement struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	ProductID      uint      `gorm:"not null;index" json:"product_id"`
	Product        *Product  `gorm:"constraint:OnDelete:CASCADE" json:"product,omitempty"`
	UserID         *uint     `gorm:"index" json:"user_id"`
	User           *User     `gorm:"constraint:OnDelete:SET NULL" json:"user,omitempty"`
	SaleID         *uint     `gorm:"index" json:"sale_id,omitempty"`
	Quantity       int       `gorm:"not null" json:"quantity"`
	Reason         string    `gorm:"type:varchar(255)" json:"reason"`
	QuantityBefore int       `gorm:"not null" json:"quantity_before"`
	QuantityAfter  int       `gorm:"not null" json:"quantity_after"`
	CreatedAt      time.Time `json:"created_at"`
}

func (StockMovement) TableName() string {
	return "stock_movements"
}

// MovementSummary is the compact shape used by history listings.
type MovementSummary struct {
	ID             uint          `json:"id"`
	ProductID      uint          `json:"product_id"`
	UserID         *uint         `json:"user_id"`
	SaleID         *uint         `json:"sale_id,omitempty"`
	Quantity       int           `json:"quantity"`
	Type           string        `json:"type"`
	QuantityBefore int           `json:"quantity_before"`
	QuantityAfter  int           `json:"quantity_after"`
	CreatedAt      time.Time     `json:"created_at"`
	User           *UserSummary  `json:"user"`
	Product        *ProductBrief `json:"product"`
}

type ProductBrief struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	SKU  string `json:"sku"`
}

func (m *StockMovement) ToSummary() MovementSummary {
	s := MovementSummary{
		ID:             m.ID,
		ProductID:      m.ProductID,
		UserID:         m.UserID,
		SaleID:         m.SaleID,
		Quantity:       m.Quantity,
		Type:           m.Reason,
		QuantityBefore: m.QuantityBefore,
		QuantityAfter:  m.QuantityAfter,
		CreatedAt:      m.CreatedAt,
	}
	if m.User != nil {
		u := m.User.ToSummary()
		s.User = &u
	}
	if m.Product != nil {
		s.Product = &ProductBrief{ID: m.Product.ID, Name: m.Product.Name, SKU: m.Product.SKU}
	}
	return s
}
