package usecase

import (
	"context"
	"net/http"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

type CustomerUsecase struct {
	customerRepo repo.CustomerRepository
}

// DI
func NewCustomerUsecase(customerRepo repo.CustomerRepository) *CustomerUsecase {
	return &CustomerUsecase{customerRepo: customerRepo}
}

type UpdateCustomerInput struct {
	Phone     string
	BirthDate *time.Time
}

type CustomerListOutput struct {
	Items []model.Customer `json:"items"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}

// 自分の顧客レコードを返す
func (u *CustomerUsecase) Me(ctx context.Context, userID int64) (model.Customer, error) {
	if userID <= 0 {
		return model.Customer{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	c, err := u.customerRepo.FindByUserID(ctx, userID)
	if err == repo.ErrNotFound {
		return model.Customer{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Customer{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return c, nil
}

func (u *CustomerUsecase) UpdateMe(ctx context.Context, userID int64, in UpdateCustomerInput) (model.Customer, error) {
	c, err := u.Me(ctx, userID)
	if err != nil {
		return model.Customer{}, err
	}

	c.Phone = in.Phone
	c.BirthDate = in.BirthDate

	if err := u.customerRepo.Update(ctx, c); err != nil {
		if err == repo.ErrNotFound {
			return model.Customer{}, NewHTTPError(http.StatusNotFound, "not found")
		}
		return model.Customer{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return c, nil
}

// 管理者用の一覧
func (u *CustomerUsecase) List(ctx context.Context, page int, limit int) (CustomerListOutput, error) {
	if page < 1 {
		return CustomerListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if limit < 1 || limit > 100 {
		return CustomerListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}

	items, total, err := u.customerRepo.List(ctx, page, limit)
	if err != nil {
		return CustomerListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return CustomerListOutput{Items: items, Total: total, Page: page, Limit: limit}, nil
}
