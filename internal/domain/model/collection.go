package model

type Collection struct {
	ID                int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Title             string `gorm:"type:varchar(255);not null" json:"title"`
	FeaturedProductID *int64 `gorm:"index" json:"featured_product_id"`
}
