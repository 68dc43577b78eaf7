package repository

import (
	"context"

	"storefront/internal/domain/model"
)

type CartRepository interface {
	Create(ctx context.Context, cart model.Cart) error
	FindByToken(ctx context.Context, token string) (model.Cart, error)

	//トランザクション内で行ロックを取る版。
	//注文確定の読み→削除の間に別の書き手が入らないようにする。
	FindByTokenForUpdate(ctx context.Context, token string) (model.Cart, error)

	//カートと明細をまとめて削除。存在しなくてもエラーにしない（冪等）。
	Delete(ctx context.Context, token string) error
}
