package model

import (
	"time"

	"gorm.io/datatypes"
)

const (
	ActionLogin           = "login"
	ActionProductCreate   = "product_create"
	ActionProductUpdate   = "product_update"
	ActionProductDelete   = "product_delete"
	ActionStockAdjustment = "stock_adjustment"
	ActionSale            = "sale"
	ActionCategoryCreate  = "category_create"
	ActionCategoryUpdate  = "category_update"
	ActionCategoryDelete  = "category_delete"
	ActionSupplierCreate  = "supplier_create"
	ActionSupplierUpdate  = "supplier_update"
	ActionSupplierDelete  = "supplier_delete"
	ActionUserCreate      = "user_create"
	ActionUserUpdate      = "user_update"
	ActionUserDelete      = "user_delete"
	ActionSettingsUpdate  = "settings_update"
)

const (
	EntityProduct  = "product"
	EntityCategory = "category"
	EntitySupplier = "supplier"
	EntitySale     = "sale"
	EntityUser     = "user"
)

// ActivityLog is append-only.
type ActivityLog struct {
	ID          uint              `gorm:"primaryKey" json:"id"`
	UserID      *uint             `gorm:"index" json:"user_id"`
	User        *User             `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	ActionType  string            `gorm:"type:varchar(100);not null" json:"action_type"`
	Description string            `gorm:"type:text;not null" json:"description"`
	EntityType  *string           `gorm:"type:varchar(50)" json:"entity_type"`
	EntityID    *uint             `json:"entity_id"`
	Metadata    datatypes.JSONMap `gorm:"type:jsonb" json:"metadata"`
	CreatedAt   time.Time         `gorm:"index" json:"created_at"`
}

type ActivityResponse struct {
	ID          uint              `json:"id"`
	ActionType  string            `json:"action_type"`
	Description string            `json:"description"`
	EntityType  *string           `json:"entity_type"`
	EntityID    *uint             `json:"entity_id"`
	Metadata    datatypes.JSONMap `json:"metadata"`
	CreatedAt   time.Time         `json:"created_at"`
	User        *UserSummary      `json:"user"`
}

func (a *ActivityLog) ToResponse() ActivityResponse {
	resp := ActivityResponse{
		ID:          a.ID,
		ActionType:  a.ActionType,
		Description: a.Description,
		EntityType:  a.EntityType,
		EntityID:    a.EntityID,
		Metadata:    a.Metadata,
		CreatedAt:   a.CreatedAt,
	}
	if a.User != nil {
		u := a.User.ToSummary()
		resp.User = &u
	}
	return resp
}
