package model

// discountは割引率（乗数）
type Promotion struct {
	ID          int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	Description string  `gorm:"type:varchar(255);not null" json:"description"`
	Discount    float64 `gorm:"not null" json:"discount"`
}
