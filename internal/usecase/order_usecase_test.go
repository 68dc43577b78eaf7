package usecase_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"storefront/internal/domain/model"
	"storefront/internal/notification"
	repo "storefront/internal/repository"
	"storefront/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =====================
// Mocks
// =====================

type CartRepoMock struct{ mock.Mock }

func (m *CartRepoMock) Create(ctx context.Context, cart model.Cart) error {
	args := m.Called(ctx, cart)
	return args.Error(0)
}

func (m *CartRepoMock) FindByToken(ctx context.Context, token string) (model.Cart, error) {
	args := m.Called(ctx, token)
	c, _ := args.Get(0).(model.Cart)
	return c, args.Error(1)
}

func (m *CartRepoMock) FindByTokenForUpdate(ctx context.Context, token string) (model.Cart, error) {
	args := m.Called(ctx, token)
	c, _ := args.Get(0).(model.Cart)
	return c, args.Error(1)
}

func (m *CartRepoMock) Delete(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

type CartItemRepoMock struct{ mock.Mock }

func (m *CartItemRepoMock) ListByCartToken(ctx context.Context, token string) ([]model.CartItem, error) {
	args := m.Called(ctx, token)
	items, _ := args.Get(0).([]model.CartItem)
	return items, args.Error(1)
}

func (m *CartItemRepoMock) ItemCount(ctx context.Context, token string) (int64, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(int64), args.Error(1)
}

func (m *CartItemRepoMock) UpsertByCartAndProduct(ctx context.Context, token string, productID int64, addQty int64) (model.CartItem, error) {
	panic("not used in OrderUsecase tests")
}

func (m *CartItemRepoMock) UpdateQuantity(ctx context.Context, cartItemID int64, qty int64) error {
	panic("not used in OrderUsecase tests")
}

func (m *CartItemRepoMock) DeleteByID(ctx context.Context, cartItemID int64) error {
	panic("not used in OrderUsecase tests")
}

func (m *CartItemRepoMock) FindByID(ctx context.Context, cartItemID int64) (model.CartItem, error) {
	panic("not used in OrderUsecase tests")
}

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) ListByCustomerID(ctx context.Context, customerID int64, page int, limit int) ([]model.Order, int64, error) {
	args := m.Called(ctx, customerID, page, limit)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Get(1).(int64), args.Error(2)
}

func (m *OrderRepoMock) ListAll(ctx context.Context, page int, limit int) ([]model.Order, int64, error) {
	args := m.Called(ctx, page, limit)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Get(1).(int64), args.Error(2)
}

func (m *OrderRepoMock) Create(ctx context.Context, order model.Order) (int64, error) {
	args := m.Called(ctx, order)
	return args.Get(0).(int64), args.Error(1)
}

func (m *OrderRepoMock) UpdatePaymentStatus(ctx context.Context, orderID int64, status model.PaymentStatus) error {
	args := m.Called(ctx, orderID, status)
	return args.Error(0)
}

func (m *OrderRepoMock) Delete(ctx context.Context, orderID int64) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

type OrderItemRepoMock struct{ mock.Mock }

func (m *OrderItemRepoMock) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error {
	args := m.Called(ctx, orderID, items)
	return args.Error(0)
}

func (m *OrderItemRepoMock) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	args := m.Called(ctx, orderID)
	items, _ := args.Get(0).([]model.OrderItem)
	return items, args.Error(1)
}

type ProductRepoMock struct{ mock.Mock }

func (m *ProductRepoMock) List(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	args := m.Called(ctx, q)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *ProductRepoMock) FindByID(ctx context.Context, id int64) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *ProductRepoMock) CountOrderedBy(ctx context.Context, productID int64) (int64, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *ProductRepoMock) Create(ctx context.Context, p model.Product) (model.Product, error) {
	args := m.Called(ctx, p)
	created, _ := args.Get(0).(model.Product)
	return created, args.Error(1)
}

func (m *ProductRepoMock) Update(ctx context.Context, p model.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *ProductRepoMock) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *ProductRepoMock) ReplacePromotions(ctx context.Context, productID int64, promotionIDs []int64) error {
	args := m.Called(ctx, productID, promotionIDs)
	return args.Error(0)
}

type CustomerRepoMock struct{ mock.Mock }

func (m *CustomerRepoMock) FindByID(ctx context.Context, id int64) (model.Customer, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(model.Customer)
	return c, args.Error(1)
}

func (m *CustomerRepoMock) FindByUserID(ctx context.Context, userID int64) (model.Customer, error) {
	args := m.Called(ctx, userID)
	c, _ := args.Get(0).(model.Customer)
	return c, args.Error(1)
}

func (m *CustomerRepoMock) List(ctx context.Context, page int, limit int) ([]model.Customer, int64, error) {
	args := m.Called(ctx, page, limit)
	items, _ := args.Get(0).([]model.Customer)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *CustomerRepoMock) Create(ctx context.Context, c model.Customer) (model.Customer, error) {
	args := m.Called(ctx, c)
	created, _ := args.Get(0).(model.Customer)
	return created, args.Error(1)
}

func (m *CustomerRepoMock) Update(ctx context.Context, c model.Customer) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *UserRepoMock) FindByID(ctx context.Context, userID int64) (*model.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

// TxReposのスタブ。WithinTxはfnをそのまま実行するだけ。
type txReposStub struct {
	orders    *OrderRepoMock
	items     *OrderItemRepoMock
	carts     *CartRepoMock
	cartItems *CartItemRepoMock
	products  *ProductRepoMock
	customers *CustomerRepoMock
	users     *UserRepoMock
}

func (s *txReposStub) Orders() repo.OrderRepository         { return s.orders }
func (s *txReposStub) OrderItems() repo.OrderItemRepository { return s.items }
func (s *txReposStub) Carts() repo.CartRepository           { return s.carts }
func (s *txReposStub) CartItems() repo.CartItemRepository   { return s.cartItems }
func (s *txReposStub) Products() repo.ProductRepository     { return s.products }
func (s *txReposStub) Customers() repo.CustomerRepository   { return s.customers }
func (s *txReposStub) Users() repo.UserRepository           { return s.users }

type txManagerStub struct {
	repos *txReposStub
}

func (t *txManagerStub) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return fn(t.repos)
}

type NotifierMock struct{ mock.Mock }

func (m *NotifierMock) OrderCreated(ctx context.Context, ev notification.OrderCreatedEvent) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

func newTxReposStub() *txReposStub {
	return &txReposStub{
		orders:    new(OrderRepoMock),
		items:     new(OrderItemRepoMock),
		carts:     new(CartRepoMock),
		cartItems: new(CartItemRepoMock),
		products:  new(ProductRepoMock),
		customers: new(CustomerRepoMock),
		users:     new(UserRepoMock),
	}
}

func newOrderUsecase(repos *txReposStub, notifier notification.Sender) *usecase.OrderUsecase {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return usecase.NewOrderUsecase(&txManagerStub{repos: repos}, notifier, logger)
}

func assertErrContains(t *testing.T, err error, want string) {
	t.Helper()
	assert.Error(t, err)
	if err != nil {
		assert.True(t, strings.Contains(err.Error(), want),
			"error %q should contain %q", err.Error(), want)
	}
}

const validCartToken = "0b3f0f6a-9f1e-4a5b-8a0e-3c2d9a1b7c6d"

// =====================
// PlaceOrder
// =====================

func TestOrderUsecase_PlaceOrder_Success(t *testing.T) {
	ctx := context.Background()
	repos := newTxReposStub()
	notifier := new(NotifierMock)
	uc := newOrderUsecase(repos, notifier)

	price1 := decimal.RequireFromString("10.00")
	price2 := decimal.RequireFromString("3.50")

	repos.carts.On("FindByTokenForUpdate", mock.Anything, validCartToken).
		Return(model.Cart{Token: validCartToken}, nil)
	repos.cartItems.On("ItemCount", mock.Anything, validCartToken).Return(int64(2), nil)
	repos.cartItems.On("ListByCartToken", mock.Anything, validCartToken).
		Return([]model.CartItem{
			{ID: 1, CartToken: validCartToken, ProductID: 10, Quantity: 2},
			{ID: 2, CartToken: validCartToken, ProductID: 20, Quantity: 1},
		}, nil)
	repos.customers.On("FindByUserID", mock.Anything, int64(7)).
		Return(model.Customer{ID: 70, UserID: 7}, nil)
	repos.orders.On("Create", mock.Anything, mock.MatchedBy(func(o model.Order) bool {
		return o.CustomerID == 70 && o.PaymentStatus == model.PaymentStatusPending
	})).Return(int64(500), nil)
	repos.products.On("FindByID", mock.Anything, int64(10)).
		Return(model.Product{ID: 10, Title: "Coffee", UnitPrice: price1}, nil)
	repos.products.On("FindByID", mock.Anything, int64(20)).
		Return(model.Product{ID: 20, Title: "Tea", UnitPrice: price2}, nil)
	repos.items.On("CreateBulk", mock.Anything, int64(500), mock.MatchedBy(func(items []model.OrderItem) bool {
		if len(items) != 2 {
			return false
		}
		//明細の単価は注文時点の商品価格
		return items[0].UnitPrice.Equal(price1) && items[0].Quantity == 2 &&
			items[1].UnitPrice.Equal(price2) && items[1].Quantity == 1
	})).Return(nil)
	repos.carts.On("Delete", mock.Anything, validCartToken).Return(nil)

	notifier.On("OrderCreated", mock.Anything, mock.MatchedBy(func(ev notification.OrderCreatedEvent) bool {
		return ev.OrderID == 500 && len(ev.Items) == 2
	})).Return(nil)

	out, err := uc.PlaceOrder(ctx, 7, usecase.PlaceOrderInput{CartID: validCartToken})
	assert.NoError(t, err)
	assert.Equal(t, int64(500), out.ID)
	assert.Equal(t, int64(70), out.CustomerID)
	assert.Equal(t, string(model.PaymentStatusPending), out.PaymentStatus)
	assert.Equal(t, 2, len(out.Items))
	assert.Equal(t, "Coffee", out.Items[0].Title)

	repos.carts.AssertExpectations(t)
	repos.items.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestOrderUsecase_PlaceOrder_CartNotFound(t *testing.T) {
	ctx := context.Background()
	repos := newTxReposStub()
	notifier := new(NotifierMock)
	uc := newOrderUsecase(repos, notifier)

	repos.carts.On("FindByTokenForUpdate", mock.Anything, validCartToken).
		Return(model.Cart{}, repo.ErrNotFound)

	_, err := uc.PlaceOrder(ctx, 7, usecase.PlaceOrderInput{CartID: validCartToken})
	assertErrContains(t, err, "no cart with the given ID was found")

	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 400, he.Status)

	notifier.AssertNotCalled(t, "OrderCreated", mock.Anything, mock.Anything)
}

func TestOrderUsecase_PlaceOrder_MalformedToken_TreatedAsMissingCart(t *testing.T) {
	ctx := context.Background()
	repos := newTxReposStub()
	uc := newOrderUsecase(repos, new(NotifierMock))

	_, err := uc.PlaceOrder(ctx, 7, usecase.PlaceOrderInput{CartID: "not-a-uuid"})
	assertErrContains(t, err, "no cart with the given ID was found")

	//形式不正はDBまで行かない
	repos.carts.AssertNotCalled(t, "FindByTokenForUpdate", mock.Anything, mock.Anything)
}

func TestOrderUsecase_PlaceOrder_EmptyCart(t *testing.T) {
	ctx := context.Background()
	repos := newTxReposStub()
	notifier := new(NotifierMock)
	uc := newOrderUsecase(repos, notifier)

	repos.carts.On("FindByTokenForUpdate", mock.Anything, validCartToken).
		Return(model.Cart{Token: validCartToken}, nil)
	repos.cartItems.On("ItemCount", mock.Anything, validCartToken).Return(int64(0), nil)

	_, err := uc.PlaceOrder(ctx, 7, usecase.PlaceOrderInput{CartID: validCartToken})
	assertErrContains(t, err, "the cart is empty")

	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 400, he.Status)

	//明細読みも注文もカート削除も走らない
	repos.cartItems.AssertNotCalled(t, "ListByCartToken", mock.Anything, mock.Anything)
	repos.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	repos.carts.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestOrderUsecase_PlaceOrder_NoCustomer_IsInternalError(t *testing.T) {
	ctx := context.Background()
	repos := newTxReposStub()
	uc := newOrderUsecase(repos, new(NotifierMock))

	repos.carts.On("FindByTokenForUpdate", mock.Anything, validCartToken).
		Return(model.Cart{Token: validCartToken}, nil)
	repos.cartItems.On("ItemCount", mock.Anything, validCartToken).Return(int64(1), nil)
	repos.cartItems.On("ListByCartToken", mock.Anything, validCartToken).
		Return([]model.CartItem{{ID: 1, ProductID: 10, Quantity: 1}}, nil)
	repos.customers.On("FindByUserID", mock.Anything, int64(7)).
		Return(model.Customer{}, repo.ErrNotFound)

	_, err := uc.PlaceOrder(ctx, 7, usecase.PlaceOrderInput{CartID: validCartToken})

	//顧客レコード欠落はバリデーションではなくデータ不整合
	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 500, he.Status)

	repos.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestOrderUsecase_PlaceOrder_MissingProduct_AbortsWholeOrder(t *testing.T) {
	ctx := context.Background()
	repos := newTxReposStub()
	notifier := new(NotifierMock)
	uc := newOrderUsecase(repos, notifier)

	repos.carts.On("FindByTokenForUpdate", mock.Anything, validCartToken).
		Return(model.Cart{Token: validCartToken}, nil)
	repos.cartItems.On("ItemCount", mock.Anything, validCartToken).Return(int64(2), nil)
	repos.cartItems.On("ListByCartToken", mock.Anything, validCartToken).
		Return([]model.CartItem{
			{ID: 1, ProductID: 10, Quantity: 1},
			{ID: 2, ProductID: 99, Quantity: 1},
		}, nil)
	repos.customers.On("FindByUserID", mock.Anything, int64(7)).
		Return(model.Customer{ID: 70, UserID: 7}, nil)
	repos.orders.On("Create", mock.Anything, mock.Anything).Return(int64(500), nil)
	repos.products.On("FindByID", mock.Anything, int64(10)).
		Return(model.Product{ID: 10, UnitPrice: decimal.RequireFromString("1.00")}, nil)
	repos.products.On("FindByID", mock.Anything, int64(99)).
		Return(model.Product{}, repo.ErrNotFound)

	_, err := uc.PlaceOrder(ctx, 7, usecase.PlaceOrderInput{CartID: validCartToken})
	assert.Error(t, err)

	//明細は1件も書かれず、カートも残る
	repos.items.AssertNotCalled(t, "CreateBulk", mock.Anything, mock.Anything, mock.Anything)
	repos.carts.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	notifier.AssertNotCalled(t, "OrderCreated", mock.Anything, mock.Anything)
}

func TestOrderUsecase_PlaceOrder_CartDeleteFails_PropagatesError(t *testing.T) {
	ctx := context.Background()
	repos := newTxReposStub()
	notifier := new(NotifierMock)
	uc := newOrderUsecase(repos, notifier)

	repos.carts.On("FindByTokenForUpdate", mock.Anything, validCartToken).
		Return(model.Cart{Token: validCartToken}, nil)
	repos.cartItems.On("ItemCount", mock.Anything, validCartToken).Return(int64(1), nil)
	repos.cartItems.On("ListByCartToken", mock.Anything, validCartToken).
		Return([]model.CartItem{{ID: 1, ProductID: 10, Quantity: 1}}, nil)
	repos.customers.On("FindByUserID", mock.Anything, int64(7)).
		Return(model.Customer{ID: 70, UserID: 7}, nil)
	repos.orders.On("Create", mock.Anything, mock.Anything).Return(int64(500), nil)
	repos.products.On("FindByID", mock.Anything, int64(10)).
		Return(model.Product{ID: 10, UnitPrice: decimal.RequireFromString("1.00")}, nil)
	repos.items.On("CreateBulk", mock.Anything, int64(500), mock.Anything).Return(nil)
	repos.carts.On("Delete", mock.Anything, validCartToken).Return(errors.New("deadlock"))

	_, err := uc.PlaceOrder(ctx, 7, usecase.PlaceOrderInput{CartID: validCartToken})
	assert.Error(t, err)

	//エラーで抜けた以上、通知は出ない
	notifier.AssertNotCalled(t, "OrderCreated", mock.Anything, mock.Anything)
}

func TestOrderUsecase_PlaceOrder_NotificationFailure_DoesNotFailOrder(t *testing.T) {
	ctx := context.Background()
	repos := newTxReposStub()
	notifier := new(NotifierMock)
	uc := newOrderUsecase(repos, notifier)

	repos.carts.On("FindByTokenForUpdate", mock.Anything, validCartToken).
		Return(model.Cart{Token: validCartToken}, nil)
	repos.cartItems.On("ItemCount", mock.Anything, validCartToken).Return(int64(1), nil)
	repos.cartItems.On("ListByCartToken", mock.Anything, validCartToken).
		Return([]model.CartItem{{ID: 1, ProductID: 10, Quantity: 3}}, nil)
	repos.customers.On("FindByUserID", mock.Anything, int64(7)).
		Return(model.Customer{ID: 70, UserID: 7}, nil)
	repos.orders.On("Create", mock.Anything, mock.Anything).Return(int64(500), nil)
	repos.products.On("FindByID", mock.Anything, int64(10)).
		Return(model.Product{ID: 10, UnitPrice: decimal.RequireFromString("2.00")}, nil)
	repos.items.On("CreateBulk", mock.Anything, int64(500), mock.Anything).Return(nil)
	repos.carts.On("Delete", mock.Anything, validCartToken).Return(nil)

	notifier.On("OrderCreated", mock.Anything, mock.Anything).
		Return(errors.New("broker unreachable"))

	out, err := uc.PlaceOrder(ctx, 7, usecase.PlaceOrderInput{CartID: validCartToken})
	assert.NoError(t, err)
	assert.Equal(t, int64(500), out.ID)

	notifier.AssertExpectations(t)
}

func TestOrderUsecase_PlaceOrder_Unauthorized(t *testing.T) {
	uc := newOrderUsecase(newTxReposStub(), new(NotifierMock))

	_, err := uc.PlaceOrder(context.Background(), 0, usecase.PlaceOrderInput{CartID: validCartToken})

	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 401, he.Status)
}

// =====================
// ListMyOrders / GetMyOrderDetail
// =====================

func TestOrderUsecase_ListMyOrders_NoCustomer_ReturnsEmpty(t *testing.T) {
	ctx := context.Background()
	repos := newTxReposStub()
	uc := newOrderUsecase(repos, new(NotifierMock))

	repos.customers.On("FindByUserID", mock.Anything, int64(7)).
		Return(model.Customer{}, repo.ErrNotFound)

	out, err := uc.ListMyOrders(ctx, 7)
	assert.NoError(t, err)
	assert.Equal(t, 0, len(out))
}

func TestOrderUsecase_GetMyOrderDetail_OthersOrder_IsNotFound(t *testing.T) {
	ctx := context.Background()
	repos := newTxReposStub()
	uc := newOrderUsecase(repos, new(NotifierMock))

	repos.orders.On("FindByID", mock.Anything, int64(500)).
		Return(model.Order{ID: 500, CustomerID: 999}, nil)
	repos.customers.On("FindByUserID", mock.Anything, int64(7)).
		Return(model.Customer{ID: 70, UserID: 7}, nil)

	_, err := uc.GetMyOrderDetail(ctx, 7, 500)

	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 404, he.Status)
}

func TestOrderUsecase_GetMyOrderDetail_Success(t *testing.T) {
	ctx := context.Background()
	repos := newTxReposStub()
	uc := newOrderUsecase(repos, new(NotifierMock))

	price := decimal.RequireFromString("4.20")

	repos.orders.On("FindByID", mock.Anything, int64(500)).
		Return(model.Order{ID: 500, CustomerID: 70, PaymentStatus: model.PaymentStatusPending}, nil)
	repos.customers.On("FindByUserID", mock.Anything, int64(7)).
		Return(model.Customer{ID: 70, UserID: 7}, nil)
	repos.items.On("ListByOrderID", mock.Anything, int64(500)).
		Return([]model.OrderItem{
			{ID: 1, OrderID: 500, ProductID: 10, Quantity: 2, UnitPrice: price},
		}, nil)
	repos.products.On("FindByID", mock.Anything, int64(10)).
		Return(model.Product{ID: 10, Title: "Coffee", UnitPrice: decimal.RequireFromString("9.99")}, nil)

	out, err := uc.GetMyOrderDetail(ctx, 7, 500)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(out.Items))
	//明細単価は注文時のスナップショットのまま
	assert.True(t, out.Items[0].UnitPrice.Equal(price))
	assert.Equal(t, "Coffee", out.Items[0].Title)
}
