package model

import (
	"time"

	"gorm.io/datatypes"
)

const (
	SettingGeneral = "general"
	SettingTheme   = "theme"
)

// Setting is a JSON document stored under a key.
type Setting struct {
	Key       string         `gorm:"primaryKey;type:varchar(100)" json:"key"`
	Value     datatypes.JSON `gorm:"type:jsonb;not null" json:"value"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func (Setting) TableName() string {
	return "app_settings"
}

type GeneralSettings struct {
	CompanyName  string `json:"company_name" validate:"required,max=255"`
	CompanyEmail string `json:"company_email" validate:"required,email"`
	Timezone     string `json:"timezone" validate:"required"`
	Language     string `json:"language" validate:"required,oneof=fr en"`
	DateFormat   string `json:"date_format" validate:"required"`
	Currency     string `json:"currency" validate:"required,oneof=XOF EUR"`
}

type ThemeSettings struct {
	Theme       string `json:"theme" validate:"required,oneof=light dark"`
	AccentColor string `json:"accent_color" validate:"required,hexcolor"`
}

var DefaultGeneralSettings = GeneralSettings{
	CompanyName:  "ShopFlow SARL",
	CompanyEmail: "contact@shopflow.fr",
	Timezone:     "Africa/Ouagadougou",
	Language:     "fr",
	DateFormat:   "DD/MM/YYYY",
	Currency:     "XOF",
}

var DefaultThemeSettings = ThemeSettings{
	Theme:       "dark",
	AccentColor: "#8b5cf6",
}
