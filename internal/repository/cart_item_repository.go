package repository

import (
	"context"

	"storefront/internal/domain/model"
)

type CartItemRepository interface {
	ListByCartToken(ctx context.Context, token string) ([]model.CartItem, error)

	//バリデーション用。未知のカートは0を返し、エラーにしない。
	ItemCount(ctx context.Context, token string) (int64, error)

	// 同一商品はプラス
	UpsertByCartAndProduct(ctx context.Context, token string, productID int64, addQty int64) (model.CartItem, error)
	UpdateQuantity(ctx context.Context, cartItemID int64, qty int64) error
	DeleteByID(ctx context.Context, cartItemID int64) error
	FindByID(ctx context.Context, cartItemID int64) (model.CartItem, error)
}
