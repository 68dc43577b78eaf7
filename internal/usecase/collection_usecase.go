package usecase

import (
	"context"
	"net/http"
	"strings"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

type CollectionUsecase struct {
	collectionRepo repo.CollectionRepository
}

// DI
func NewCollectionUsecase(collectionRepo repo.CollectionRepository) *CollectionUsecase {
	return &CollectionUsecase{collectionRepo: collectionRepo}
}

type CollectionInput struct {
	Title             string
	FeaturedProductID *int64
}

func (u *CollectionUsecase) List(ctx context.Context) ([]repo.CollectionWithCount, error) {
	rows, err := u.collectionRepo.List(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return rows, nil
}

func (u *CollectionUsecase) Get(ctx context.Context, id int64) (repo.CollectionWithCount, error) {
	if id <= 0 {
		return repo.CollectionWithCount{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	row, err := u.collectionRepo.FindByID(ctx, id)
	if err == repo.ErrNotFound {
		return repo.CollectionWithCount{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return repo.CollectionWithCount{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return row, nil
}

func (u *CollectionUsecase) Create(ctx context.Context, in CollectionInput) (model.Collection, error) {
	if strings.TrimSpace(in.Title) == "" {
		return model.Collection{}, NewHTTPError(http.StatusBadRequest, "title is required")
	}

	c, err := u.collectionRepo.Create(ctx, model.Collection{
		Title:             in.Title,
		FeaturedProductID: in.FeaturedProductID,
	})
	if err != nil {
		return model.Collection{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return c, nil
}

func (u *CollectionUsecase) Update(ctx context.Context, id int64, in CollectionInput) (repo.CollectionWithCount, error) {
	if id <= 0 {
		return repo.CollectionWithCount{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if strings.TrimSpace(in.Title) == "" {
		return repo.CollectionWithCount{}, NewHTTPError(http.StatusBadRequest, "title is required")
	}

	err := u.collectionRepo.Update(ctx, model.Collection{
		ID:                id,
		Title:             in.Title,
		FeaturedProductID: in.FeaturedProductID,
	})
	if err == repo.ErrNotFound {
		return repo.CollectionWithCount{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return repo.CollectionWithCount{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.Get(ctx, id)
}

// 商品が残っているコレクションは消せない
func (u *CollectionUsecase) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	row, err := u.collectionRepo.FindByID(ctx, id)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if row.ProductsCount > 0 {
		return NewHTTPError(http.StatusConflict, "collection contains products")
	}

	if err := u.collectionRepo.Delete(ctx, id); err != nil {
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

type PromotionUsecase struct {
	promotionRepo repo.PromotionRepository
}

func NewPromotionUsecase(promotionRepo repo.PromotionRepository) *PromotionUsecase {
	return &PromotionUsecase{promotionRepo: promotionRepo}
}

type PromotionInput struct {
	Description string
	Discount    float64
}

func (u *PromotionUsecase) List(ctx context.Context) ([]model.Promotion, error) {
	promos, err := u.promotionRepo.List(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return promos, nil
}

func (u *PromotionUsecase) Create(ctx context.Context, in PromotionInput) (model.Promotion, error) {
	if strings.TrimSpace(in.Description) == "" {
		return model.Promotion{}, NewHTTPError(http.StatusBadRequest, "description is required")
	}
	if in.Discount <= 0 || in.Discount >= 1 {
		return model.Promotion{}, NewHTTPError(http.StatusBadRequest, "discount must be between 0 and 1")
	}

	p, err := u.promotionRepo.Create(ctx, model.Promotion{
		Description: in.Description,
		Discount:    in.Discount,
	})
	if err != nil {
		return model.Promotion{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return p, nil
}

func (u *PromotionUsecase) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	err := u.promotionRepo.DeleteByID(ctx, id)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}
