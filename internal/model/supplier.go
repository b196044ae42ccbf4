package model

type Supplier struct {
	BaseModel
	Name        string  `gorm:"type:varchar(255);uniqueIndex:suppliers_name_key;not null" json:"name"`
	ContactName *string `gorm:"type:varchar(255)" json:"contact_name"`
	Email       *string `gorm:"type:varchar(255)" json:"email"`
	Phone       *string `gorm:"type:varchar(50)" json:"phone"`
	Address     *string `gorm:"type:text" json:"address"`
	Status      string  `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	Notes       *string `gorm:"type:text" json:"notes"`

	ProductsCount int64 `gorm:"-" json:"products_count"`
}
