package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/shopspring/decimal"
)

type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

// 税込価格の固定乗数
var taxMultiplier = decimal.NewFromFloat(1.5)

type ProductUsecase struct {
	productRepo repo.ProductRepository
	imageRepo   repo.ProductImageRepository
}

// DI
func NewProductUsecase(
	productRepo repo.ProductRepository,
	imageRepo repo.ProductImageRepository,
) *ProductUsecase {
	return &ProductUsecase{
		productRepo: productRepo,
		imageRepo:   imageRepo,
	}
}

// GET /productsの入力DTO
type ListProductsInput struct {
	Page         int
	Limit        int
	Q            string
	CollectionID *int64
	MinPrice     *decimal.Decimal
	MaxPrice     *decimal.Decimal
	Sort         string
}

type ProductOutput struct {
	ID           int64                `json:"id"`
	Title        string               `json:"title"`
	Slug         string               `json:"slug"`
	Description  string               `json:"description"`
	UnitPrice    decimal.Decimal      `json:"unit_price"`
	PriceWithTax decimal.Decimal      `json:"price_with_tax"`
	Inventory    int64                `json:"inventory"`
	CollectionID int64                `json:"collection_id"`
	Orders       int64                `json:"orders"`
	Images       []model.ProductImage `json:"images"`
}

type ProductListOutput struct {
	Items []ProductOutput `json:"items"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

type ProductCreateInput struct {
	Title        string
	Slug         string
	Description  string
	UnitPrice    decimal.Decimal
	Inventory    int64
	CollectionID int64
}

func (u *ProductUsecase) ListProducts(ctx context.Context, in ListProductsInput) (ProductListOutput, error) {
	if in.Page < 1 {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if in.Limit < 1 || in.Limit > 100 {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}
	if len(in.Q) > 100 {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "q too long")
	}
	if in.MinPrice != nil && in.MinPrice.IsNegative() {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "min_price must be >= 0")
	}
	if in.MaxPrice != nil && in.MaxPrice.IsNegative() {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "max_price must be >= 0")
	}
	if in.MinPrice != nil && in.MaxPrice != nil && in.MinPrice.GreaterThan(*in.MaxPrice) {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "min_price must be <= max_price")
	}
	switch in.Sort {
	case "", "new", "price_asc", "price_desc":
	default:
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid sort")
	}

	items, total, err := u.productRepo.List(ctx, repo.ProductListQuery{
		Page:         in.Page,
		Limit:        in.Limit,
		Q:            in.Q,
		CollectionID: in.CollectionID,
		MinPrice:     in.MinPrice,
		MaxPrice:     in.MaxPrice,
		Sort:         in.Sort,
	})
	if err != nil {
		return ProductListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	outs := make([]ProductOutput, 0, len(items))
	for _, p := range items {
		outs = append(outs, toProductOutput(p, 0, nil))
	}

	return ProductListOutput{
		Items: outs,
		Total: total,
		Page:  in.Page,
		Limit: in.Limit,
	}, nil
}

// 詳細は注文回数と画像つき
func (u *ProductUsecase) GetProductDetail(ctx context.Context, id int64) (ProductOutput, error) {
	if id <= 0 {
		return ProductOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	p, err := u.productRepo.FindByID(ctx, id)
	if err == repo.ErrNotFound {
		return ProductOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return ProductOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	orders, err := u.productRepo.CountOrderedBy(ctx, id)
	if err != nil {
		return ProductOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	images, err := u.imageRepo.ListByProductID(ctx, id)
	if err != nil {
		return ProductOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return toProductOutput(p, orders, images), nil
}

func (u *ProductUsecase) CreateProduct(ctx context.Context, in ProductCreateInput) (ProductOutput, error) {
	if err := validateProductInput(in); err != nil {
		return ProductOutput{}, err
	}

	p, err := u.productRepo.Create(ctx, model.Product{
		Title:        in.Title,
		Slug:         in.Slug,
		Description:  in.Description,
		UnitPrice:    in.UnitPrice,
		Inventory:    in.Inventory,
		CollectionID: in.CollectionID,
	})
	if err != nil {
		return ProductOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return toProductOutput(p, 0, nil), nil
}

func (u *ProductUsecase) UpdateProduct(ctx context.Context, id int64, in ProductCreateInput) (ProductOutput, error) {
	if id <= 0 {
		return ProductOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := validateProductInput(in); err != nil {
		return ProductOutput{}, err
	}

	err := u.productRepo.Update(ctx, model.Product{
		ID:           id,
		Title:        in.Title,
		Slug:         in.Slug,
		Description:  in.Description,
		UnitPrice:    in.UnitPrice,
		Inventory:    in.Inventory,
		CollectionID: in.CollectionID,
	})
	if err == repo.ErrNotFound {
		return ProductOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return ProductOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.GetProductDetail(ctx, id)
}

// 注文された商品は消せない
func (u *ProductUsecase) DeleteProduct(ctx context.Context, id int64) error {
	if id <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	orders, err := u.productRepo.CountOrderedBy(ctx, id)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if orders > 0 {
		return NewHTTPError(http.StatusConflict, "product is referenced by order items")
	}

	err = u.productRepo.Delete(ctx, id)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func (u *ProductUsecase) SetPromotions(ctx context.Context, id int64, promotionIDs []int64) error {
	if id <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	err := u.productRepo.ReplacePromotions(ctx, id, promotionIDs)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

// /products/:id/images
func (u *ProductUsecase) ListImages(ctx context.Context, productID int64) ([]model.ProductImage, error) {
	if _, err := u.requireProduct(ctx, productID); err != nil {
		return nil, err
	}

	images, err := u.imageRepo.ListByProductID(ctx, productID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return images, nil
}

func (u *ProductUsecase) AddImage(ctx context.Context, productID int64, url string) (model.ProductImage, error) {
	if _, err := u.requireProduct(ctx, productID); err != nil {
		return model.ProductImage{}, err
	}
	if strings.TrimSpace(url) == "" {
		return model.ProductImage{}, NewHTTPError(http.StatusBadRequest, "url is required")
	}

	img, err := u.imageRepo.Create(ctx, model.ProductImage{ProductID: productID, URL: url})
	if err != nil {
		return model.ProductImage{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return img, nil
}

func (u *ProductUsecase) DeleteImage(ctx context.Context, productID int64, imageID int64) error {
	if imageID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	img, err := u.imageRepo.FindByID(ctx, imageID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//別の商品の画像は「存在しない扱い」にする
	if img.ProductID != productID {
		return NewHTTPError(http.StatusNotFound, "not found")
	}

	if err := u.imageRepo.DeleteByID(ctx, imageID); err != nil {
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func (u *ProductUsecase) requireProduct(ctx context.Context, productID int64) (model.Product, error) {
	if productID <= 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	p, err := u.productRepo.FindByID(ctx, productID)
	if err == repo.ErrNotFound {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return p, nil
}

func validateProductInput(in ProductCreateInput) error {
	if strings.TrimSpace(in.Title) == "" {
		return NewHTTPError(http.StatusBadRequest, "title is required")
	}
	//単価は0.01以上
	if in.UnitPrice.LessThan(decimal.NewFromFloat(0.01)) {
		return NewHTTPError(http.StatusBadRequest, "unit_price must be >= 0.01")
	}
	if in.Inventory < 1 {
		return NewHTTPError(http.StatusBadRequest, "inventory must be >= 1")
	}
	if in.CollectionID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid collection_id")
	}
	return nil
}

func toProductOutput(p model.Product, orders int64, images []model.ProductImage) ProductOutput {
	if images == nil {
		images = []model.ProductImage{}
	}
	return ProductOutput{
		ID:           p.ID,
		Title:        p.Title,
		Slug:         p.Slug,
		Description:  p.Description,
		UnitPrice:    p.UnitPrice,
		PriceWithTax: p.UnitPrice.Mul(taxMultiplier),
		Inventory:    p.Inventory,
		CollectionID: p.CollectionID,
		Orders:       orders,
		Images:       images,
	}
}
