package model

const DefaultCategoryColor = "#3b82f6"

type Category struct {
	BaseModel
	Name        string  `gorm:"type:varchar(255);uniqueIndex:categories_name_key;not null" json:"name"`
	Description *string `gorm:"type:text" json:"description"`
	Color       string  `gorm:"type:varchar(7);default:'#3b82f6'" json:"color"`

	// filled by list queries only
	ProductCount int64 `gorm:"->;-:migration" json:"product_count"`
}
