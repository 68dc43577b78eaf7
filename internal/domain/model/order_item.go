package model

import "github.com/shopspring/decimal"

// unit_priceは注文確定時点のスナップショット。以後の商品価格変更に追随しない。
type OrderItem struct {
	ID        int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   int64           `gorm:"not null;index" json:"order_id"`
	ProductID int64           `gorm:"not null;index" json:"product_id"`
	Quantity  int64           `gorm:"not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(6,2);not null" json:"unit_price"`

	//明細が残っている限り親注文はDBレベルでも消せない
	Order Order `gorm:"foreignKey:OrderID;references:ID;constraint:OnDelete:RESTRICT" json:"-"`
}
