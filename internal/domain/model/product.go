package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID           int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Title        string          `gorm:"type:varchar(255);not null" json:"title"`
	Slug         string          `gorm:"type:varchar(255);not null" json:"slug"`
	Description  string          `gorm:"type:text" json:"description"`
	UnitPrice    decimal.Decimal `gorm:"type:decimal(6,2);not null" json:"unit_price"`
	Inventory    int64           `gorm:"not null" json:"inventory"`
	CollectionID int64           `gorm:"not null;index" json:"collection_id"`
	Promotions   []Promotion     `gorm:"many2many:product_promotions" json:"-"`
	LastUpdate   time.Time       `gorm:"not null;autoUpdateTime" json:"last_update"`
}

// 商品画像（URLだけ持つ）
type ProductImage struct {
	ID        int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID int64  `gorm:"not null;index" json:"product_id"`
	URL       string `gorm:"type:varchar(512);not null" json:"url"`
}
