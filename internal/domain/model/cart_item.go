package model

import "time"

// カートの明細
// 同一商品は1行（uniqueIndex）で、追加は数量加算になる。
type CartItem struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CartToken string    `gorm:"type:uuid;not null;uniqueIndex:idx_cart_product" json:"cart_id"`
	ProductID int64     `gorm:"not null;uniqueIndex:idx_cart_product;index" json:"product_id"`
	Quantity  int64     `gorm:"not null" json:"quantity"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`

	//親カートへのFK。注文確定がcartsの行をロックしている間、
	//明細のINSERTがそのロックと競合するようにFKは必ず張る。
	Cart Cart `gorm:"foreignKey:CartToken;references:Token;constraint:OnDelete:CASCADE" json:"-"`
}
