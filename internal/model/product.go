package model

import (
	"time"

	"shopflow/internal/money"
)

const DefaultLowStockThreshold = 10

type Product struct {
	BaseModel
	Name              string    `gorm:"type:varchar(255);not null" json:"name"`
	SKU               string    `gorm:"type:varchar(100);uniqueIndex:products_sku_key;not null" json:"sku"`
	Quantity          int       `gorm:"not null;default:0" json:"quantity"`
	Price             *int64    `json:"price"` // cents
	CategoryID        *uint     `gorm:"index" json:"category_id"`
	Category          *Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:RESTRICT" json:"category,omitempty"`
	Supplier          *string   `gorm:"type:varchar(255)" json:"supplier"`
	LowStockThreshold int       `gorm:"not null;default:10" json:"low_stock_threshold"`
}

// IsLowStock is strict: a product sitting exactly on its threshold is fine.
func (p *Product) IsLowStock() bool {
	return p.Quantity < p.LowStockThreshold
}

// ProductResponse is the API shape, prices in major units.
type ProductResponse struct {
	ID                uint          `json:"id"`
	Name              string        `json:"name"`
	SKU               string        `json:"sku"`
	Quantity          int           `json:"quantity"`
	Price             *money.Amount `json:"price"`
	PriceDisplay      string        `json:"price_display,omitempty"`
	CategoryID        *uint         `json:"category_id"`
	CategoryName      *string       `json:"category_name"`
	CategoryColor     *string       `json:"category_color"`
	Supplier          *string       `json:"supplier"`
	LowStockThreshold int           `json:"low_stock_threshold"`
	IsLowStock        bool          `json:"is_low_stock"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`
}

func (p *Product) ToResponse(display money.Display) ProductResponse {
	resp := ProductResponse{
		ID:                p.ID,
		Name:              p.Name,
		SKU:               p.SKU,
		Quantity:          p.Quantity,
		Price:             money.Ptr(p.Price),
		CategoryID:        p.CategoryID,
		Supplier:          p.Supplier,
		LowStockThreshold: p.LowStockThreshold,
		IsLowStock:        p.IsLowStock(),
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
	if resp.Price != nil {
		resp.PriceDisplay = display.Format(*resp.Price)
	}
	if p.Category != nil {
		name, color := p.Category.Name, p.Category.Color
		resp.CategoryName = &name
		resp.CategoryColor = &color
	}
	return resp
}
