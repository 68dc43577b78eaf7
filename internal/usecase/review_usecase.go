package usecase

import (
	"context"
	"net/http"
	"strings"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

// /products/:id/reviews の業務ロジック
type ReviewUsecase struct {
	reviewRepo  repo.ReviewRepository
	productRepo repo.ProductRepository
}

// DI
func NewReviewUsecase(reviewRepo repo.ReviewRepository, productRepo repo.ProductRepository) *ReviewUsecase {
	return &ReviewUsecase{reviewRepo: reviewRepo, productRepo: productRepo}
}

type ReviewInput struct {
	Name        string
	Description string
}

func (u *ReviewUsecase) ListByProduct(ctx context.Context, productID int64) ([]model.Review, error) {
	if err := u.requireProduct(ctx, productID); err != nil {
		return nil, err
	}

	reviews, err := u.reviewRepo.ListByProductID(ctx, productID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return reviews, nil
}

func (u *ReviewUsecase) Create(ctx context.Context, productID int64, in ReviewInput) (model.Review, error) {
	if err := u.requireProduct(ctx, productID); err != nil {
		return model.Review{}, err
	}
	if strings.TrimSpace(in.Name) == "" {
		return model.Review{}, NewHTTPError(http.StatusBadRequest, "name is required")
	}
	if strings.TrimSpace(in.Description) == "" {
		return model.Review{}, NewHTTPError(http.StatusBadRequest, "description is required")
	}

	rv, err := u.reviewRepo.Create(ctx, model.Review{
		ProductID:   productID,
		Name:        in.Name,
		Description: in.Description,
	})
	if err != nil {
		return model.Review{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return rv, nil
}

func (u *ReviewUsecase) Get(ctx context.Context, productID int64, reviewID int64) (model.Review, error) {
	return u.requireReview(ctx, productID, reviewID)
}

func (u *ReviewUsecase) Update(ctx context.Context, productID int64, reviewID int64, in ReviewInput) (model.Review, error) {
	rv, err := u.requireReview(ctx, productID, reviewID)
	if err != nil {
		return model.Review{}, err
	}

	if strings.TrimSpace(in.Name) != "" {
		rv.Name = in.Name
	}
	if strings.TrimSpace(in.Description) != "" {
		rv.Description = in.Description
	}

	if err := u.reviewRepo.Update(ctx, rv); err != nil {
		if err == repo.ErrNotFound {
			return model.Review{}, NewHTTPError(http.StatusNotFound, "not found")
		}
		return model.Review{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return rv, nil
}

func (u *ReviewUsecase) Delete(ctx context.Context, productID int64, reviewID int64) error {
	if _, err := u.requireReview(ctx, productID, reviewID); err != nil {
		return err
	}

	if err := u.reviewRepo.DeleteByID(ctx, reviewID); err != nil {
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func (u *ReviewUsecase) requireProduct(ctx context.Context, productID int64) error {
	if productID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	_, err := u.productRepo.FindByID(ctx, productID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

// 他商品のレビューは「存在しない扱い」にする
func (u *ReviewUsecase) requireReview(ctx context.Context, productID int64, reviewID int64) (model.Review, error) {
	if productID <= 0 || reviewID <= 0 {
		return model.Review{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	rv, err := u.reviewRepo.FindByID(ctx, reviewID)
	if err == repo.ErrNotFound {
		return model.Review{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Review{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if rv.ProductID != productID {
		return model.Review{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	return rv, nil
}
