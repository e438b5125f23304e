package models

// Product represents a product entity stored in the Product table.
type Product struct {
	ID          int     `json:"id" gorm:"column:Id;primaryKey;autoIncrement"`
	Name        *string `json:"name" gorm:"column:Name"`
	Description *string `json:"description" gorm:"column:Description"`
	Quantity    int     `json:"quantity" gorm:"column:Quantity;not null"`
}

// TableName returns the table name for Product.
func (Product) TableName() string {
	return "Product"
}
