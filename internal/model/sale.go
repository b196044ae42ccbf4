package model

import (
	"time"

	"gorm.io/datatypes"

	"shopflow/internal/money"
)

const (
	PaymentCash        = "cash"
	PaymentMobileMoney = "mobile_money"
	PaymentCard        = "card"

	PaymentCompleted = "completed"
)

func IsValidPaymentMethod(m string) bool {
	switch m {
	case PaymentCash, PaymentMobileMoney, PaymentCard:
		return true
	}
	return false
}

// SaleItem is one line of a sale, stored inside the sale's items column.
type SaleItem struct {
	SKU       string `json:"sku"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"` // cents
}

type Sale struct {
	BaseModel
	UserID        *uint                          `gorm:"index" json:"user_id"`
	User          *User                          `gorm:"constraint:OnDelete:SET NULL" json:"user,omitempty"`
	TotalAmount   int64                          `gorm:"not null" json:"total_amount"`
	PaymentMethod string                         `gorm:"type:varchar(50);not null" json:"payment_method"`
	PaymentStatus string                         `gorm:"type:varchar(50);not null;default:'completed'" json:"payment_status"`
	CustomerName  *string                        `gorm:"type:varchar(255)" json:"customer_name"`
	CustomerPhone *string                        `gorm:"type:varchar(50)" json:"customer_phone"`
	Items         datatypes.JSONType[[]SaleItem] `gorm:"type:jsonb" json:"items"`
}

// ComputeTotal sums quantity * unit price over the items.
func ComputeTotal(items []SaleItem) int64 {
	var total int64
	for _, it := range items {
		total += int64(it.Quantity) * it.UnitPrice
	}
	return total
}

type SaleItemResponse struct {
	SKU       string       `json:"sku"`
	Name      string       `json:"name"`
	Quantity  int          `json:"quantity"`
	UnitPrice money.Amount `json:"unit_price"`
}

type SaleResponse struct {
	ID            uint               `json:"id"`
	UserID        *uint              `json:"user_id"`
	TotalAmount   money.Amount       `json:"total_amount"`
	TotalDisplay  string             `json:"total_display"`
	PaymentMethod string             `json:"payment_method"`
	PaymentStatus string             `json:"payment_status"`
	CustomerName  *string            `json:"customer_name"`
	CustomerPhone *string            `json:"customer_phone"`
	Items         []SaleItemResponse `json:"items"`
	ItemCount     int                `json:"item_count"`
	CreatedAt     time.Time          `json:"created_at"`
}

func (s *Sale) ToResponse(display money.Display) SaleResponse {
	items := s.Items.Data()
	resp := SaleResponse{
		ID:            s.ID,
		UserID:        s.UserID,
		TotalAmount:   money.Amount(s.TotalAmount),
		TotalDisplay:  display.Format(money.Amount(s.TotalAmount)),
		PaymentMethod: s.PaymentMethod,
		PaymentStatus: s.PaymentStatus,
		CustomerName:  s.CustomerName,
		CustomerPhone: s.CustomerPhone,
		Items:         make([]SaleItemResponse, 0, len(items)),
		CreatedAt:     s.CreatedAt,
	}
	for _, it := range items {
		resp.Items = append(resp.Items, SaleItemResponse{
			SKU:       it.SKU,
			Name:      it.Name,
			Quantity:  it.Quantity,
			UnitPrice: money.Amount(it.UnitPrice),
		})
	}
	resp.ItemCount = len(items)
	return resp
}
