package repository

import (
	"context"

	"storefront/internal/domain/model"
)

// 一覧は所属商品の件数つきで返す
type CollectionWithCount struct {
	model.Collection
	ProductsCount int64 `json:"products_count"`
}

type CollectionRepository interface {
	List(ctx context.Context) ([]CollectionWithCount, error)
	FindByID(ctx context.Context, id int64) (CollectionWithCount, error)
	Create(ctx context.Context, c model.Collection) (model.Collection, error)
	Update(ctx context.Context, c model.Collection) error
	Delete(ctx context.Context, id int64) error
}

type PromotionRepository interface {
	List(ctx context.Context) ([]model.Promotion, error)
	FindByID(ctx context.Context, id int64) (model.Promotion, error)
	Create(ctx context.Context, p model.Promotion) (model.Promotion, error)
	DeleteByID(ctx context.Context, id int64) error
}
