package usecase

import (
	"context"
	"net/http"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartUsecase は /carts の業務ロジックです。
// カートは認証なしで、トークンだけで引ける。
type CartUsecase struct {
	cartRepo     repo.CartRepository
	cartItemRepo repo.CartItemRepository
	productRepo  repo.ProductRepository
}

func NewCartUsecase(
	cartRepo repo.CartRepository,
	cartItemRepo repo.CartItemRepository,
	productRepo repo.ProductRepository,
) *CartUsecase {
	return &CartUsecase{
		cartRepo:     cartRepo,
		cartItemRepo: cartItemRepo,
		productRepo:  productRepo,
	}
}

// 明細にぶら下げる商品の要約
type CartProductResponse struct {
	ID        int64           `json:"id"`
	Title     string          `json:"title"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type CartItemResponse struct {
	ID         int64               `json:"id"`
	Product    CartProductResponse `json:"product"`
	Quantity   int64               `json:"quantity"`
	TotalPrice decimal.Decimal     `json:"total_price"`
}

type CartResponse struct {
	ID         string             `json:"id"`
	Items      []CartItemResponse `json:"items"`
	TotalPrice decimal.Decimal    `json:"total_price"`
}

type AddCartItemInput struct {
	ProductID int64
	Quantity  int64
}

type UpdateCartItemInput struct {
	Quantity int64
}

// 新しい空カートを作ってトークンを返す
func (u *CartUsecase) CreateCart(ctx context.Context) (CartResponse, error) {
	cart := model.Cart{Token: uuid.NewString()}

	if err := u.cartRepo.Create(ctx, cart); err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return CartResponse{
		ID:         cart.Token,
		Items:      []CartItemResponse{},
		TotalPrice: decimal.Zero,
	}, nil
}

func (u *CartUsecase) GetCart(ctx context.Context, token string) (CartResponse, error) {
	if err := u.requireCart(ctx, token); err != nil {
		return CartResponse{}, err
	}
	return u.buildCartResponse(ctx, token)
}

func (u *CartUsecase) DeleteCart(ctx context.Context, token string) error {
	if err := u.requireCart(ctx, token); err != nil {
		return err
	}

	if err := u.cartRepo.Delete(ctx, token); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

// カートに追加（同一商品は数量加算）
func (u *CartUsecase) AddItem(ctx context.Context, token string, in AddCartItemInput) (CartResponse, error) {
	if err := u.requireCart(ctx, token); err != nil {
		return CartResponse{}, err
	}
	if in.Quantity < 1 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}

	//商品チェック
	_, err := u.productRepo.FindByID(ctx, in.ProductID)
	if err == repo.ErrNotFound {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "product with the given id does not exist")
	}
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if _, err := u.cartItemRepo.UpsertByCartAndProduct(ctx, token, in.ProductID, in.Quantity); err != nil {
		//存在チェックの後にカートが消えた（注文確定と競合した）場合
		if err == repo.ErrNotFound {
			return CartResponse{}, NewHTTPError(http.StatusNotFound, "no cart with the given ID was found")
		}
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.buildCartResponse(ctx, token)
}

// 数量変更（カート所有チェック付き）
func (u *CartUsecase) UpdateItem(ctx context.Context, token string, cartItemID int64, in UpdateCartItemInput) (CartResponse, error) {
	if err := u.requireCart(ctx, token); err != nil {
		return CartResponse{}, err
	}
	if cartItemID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if in.Quantity < 1 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}

	item, err := u.cartItemRepo.FindByID(ctx, cartItemID)
	if err == repo.ErrNotFound {
		return CartResponse{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//別のカートの明細は「存在しない扱い」にする
	if item.CartToken != token {
		return CartResponse{}, NewHTTPError(http.StatusNotFound, "not found")
	}

	if err := u.cartItemRepo.UpdateQuantity(ctx, cartItemID, in.Quantity); err != nil {
		if err == repo.ErrNotFound {
			return CartResponse{}, NewHTTPError(http.StatusNotFound, "not found")
		}
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.buildCartResponse(ctx, token)
}

// 明細削除
func (u *CartUsecase) DeleteItem(ctx context.Context, token string, cartItemID int64) (CartResponse, error) {
	if err := u.requireCart(ctx, token); err != nil {
		return CartResponse{}, err
	}
	if cartItemID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	item, err := u.cartItemRepo.FindByID(ctx, cartItemID)
	if err == repo.ErrNotFound {
		return CartResponse{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if item.CartToken != token {
		return CartResponse{}, NewHTTPError(http.StatusNotFound, "not found")
	}

	if err := u.cartItemRepo.DeleteByID(ctx, cartItemID); err != nil {
		if err == repo.ErrNotFound {
			return CartResponse{}, NewHTTPError(http.StatusNotFound, "not found")
		}
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.buildCartResponse(ctx, token)
}

// トークンの形式が不正でも「無いカート」として返す
func (u *CartUsecase) requireCart(ctx context.Context, token string) error {
	if uuid.Validate(token) != nil {
		return NewHTTPError(http.StatusNotFound, "no cart with the given ID was found")
	}

	_, err := u.cartRepo.FindByToken(ctx, token)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "no cart with the given ID was found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

// 明細をまとめてCartResponseを作る。
func (u *CartUsecase) buildCartResponse(ctx context.Context, token string) (CartResponse, error) {
	items, err := u.cartItemRepo.ListByCartToken(ctx, token)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	respItems := make([]CartItemResponse, 0, len(items))
	total := decimal.Zero

	for _, it := range items {
		p, err := u.productRepo.FindByID(ctx, it.ProductID)
		if err != nil {
			continue
		}

		lineTotal := p.UnitPrice.Mul(decimal.NewFromInt(it.Quantity))

		respItems = append(respItems, CartItemResponse{
			ID: it.ID,
			Product: CartProductResponse{
				ID:        p.ID,
				Title:     p.Title,
				UnitPrice: p.UnitPrice,
			},
			Quantity:   it.Quantity,
			TotalPrice: lineTotal,
		})

		total = total.Add(lineTotal)
	}

	return CartResponse{ID: token, Items: respItems, TotalPrice: total}, nil
}
