package usecase

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"storefront/internal/domain/model"
	"storefront/internal/notification"
	repo "storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderUsecase struct {
	tx       repo.TransactionManager
	notifier notification.Sender
	logger   *slog.Logger
}

func NewOrderUsecase(tx repo.TransactionManager, notifier notification.Sender, logger *slog.Logger) *OrderUsecase {
	return &OrderUsecase{tx: tx, notifier: notifier, logger: logger}
}

type PlaceOrderInput struct {
	CartID string
}

type OrderItemOutput struct {
	ID        int64           `json:"id"`
	ProductID int64           `json:"product_id"`
	Title     string          `json:"title"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type OrderOutput struct {
	ID            int64             `json:"id"`
	CustomerID    int64             `json:"customer_id"`
	PaymentStatus string            `json:"payment_status"`
	PlacedAt      time.Time         `json:"placed_at"`
	Items         []OrderItemOutput `json:"items"`
}

// PlaceOrder はカートの中身から注文を作る。
// 読み→注文作成→明細一括保存→カート削除までを1トランザクションで行い、
// 失敗したらカートは元のまま残る。通知はコミット後にベストエフォートで送る。
func (u *OrderUsecase) PlaceOrder(ctx context.Context, userID int64, in PlaceOrderInput) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	//形式が不正なトークンは「無いカート」と同じ扱い
	if uuid.Validate(in.CartID) != nil {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "no cart with the given ID was found")
	}

	var out OrderOutput

	//注文処理はトランザクション
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		//カートを行ロック付きで取得。
		//同じカートで同時に確定しようとした2本目はここでErrNotFoundになる。
		if _, err := r.Carts().FindByTokenForUpdate(ctx, in.CartID); err != nil {
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusBadRequest, "no cart with the given ID was found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//空チェックは件数だけ見る
		count, err := r.CartItems().ItemCount(ctx, in.CartID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if count == 0 {
			return NewHTTPError(http.StatusBadRequest, "the cart is empty")
		}

		//カート明細取得
		cartItems, err := r.CartItems().ListByCartToken(ctx, in.CartID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//認証ユーザーに顧客レコードが無いのはデータ不整合（バリデーションではない）
		customer, err := r.Customers().FindByUserID(ctx, userID)
		if err == repo.ErrNotFound {
			u.logger.ErrorContext(ctx, "no customer linked to authenticated user",
				"user_id", userID,
			)
			return NewHTTPError(http.StatusInternalServerError, "internal error")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		// 注文作成
		now := time.Now()
		orderID, err := r.Orders().Create(ctx, model.Order{
			CustomerID:    customer.ID,
			PaymentStatus: model.PaymentStatusPending,
			PlacedAt:      now,
		})
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//明細作成。単価はこの時点の商品価格のスナップショット。
		orderItems := make([]model.OrderItem, 0, len(cartItems))
		titles := make(map[int64]string, len(cartItems))

		for _, ci := range cartItems {
			p, err := r.Products().FindByID(ctx, ci.ProductID)
			if err == repo.ErrNotFound {
				//カートが消えた商品を参照している。注文は一切作らない。
				u.logger.ErrorContext(ctx, "cart references missing product",
					"cart_id", in.CartID,
					"product_id", ci.ProductID,
				)
				return NewHTTPError(http.StatusInternalServerError, "internal error")
			}
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}

			orderItems = append(orderItems, model.OrderItem{
				ProductID: ci.ProductID,
				Quantity:  ci.Quantity,
				UnitPrice: p.UnitPrice,
			})
			titles[ci.ProductID] = p.Title
		}

		//注文明細一括作成
		if err := r.OrderItems().CreateBulk(ctx, orderID, orderItems); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//カートごと削除（再注文防止）
		if err := r.Carts().Delete(ctx, in.CartID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		created := model.Order{
			ID:            orderID,
			CustomerID:    customer.ID,
			PaymentStatus: model.PaymentStatusPending,
			PlacedAt:      now,
		}
		out = toOrderOutput(created, orderItems, titles)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}

	//コミット後の通知。失敗しても注文の結果は変えない。
	u.notifyOrderCreated(ctx, out)

	return out, nil
}

func (u *OrderUsecase) notifyOrderCreated(ctx context.Context, out OrderOutput) {
	ev := notification.OrderCreatedEvent{
		OrderID:    out.ID,
		CustomerID: out.CustomerID,
		PlacedAt:   out.PlacedAt,
		Items:      make([]notification.OrderItemEvent, 0, len(out.Items)),
	}
	for _, it := range out.Items {
		ev.Items = append(ev.Items, notification.OrderItemEvent{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}

	if err := u.notifier.OrderCreated(ctx, ev); err != nil {
		u.logger.WarnContext(ctx, "order created notification failed",
			"order_id", out.ID,
			"error", err,
		)
	}
}

func (u *OrderUsecase) ListMyOrders(ctx context.Context, userID int64) ([]OrderOutput, error) {
	if userID <= 0 {
		return []OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	//ページングはまずは固定で取る
	var outs []OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		customer, err := r.Customers().FindByUserID(ctx, userID)
		if err == repo.ErrNotFound {
			outs = []OrderOutput{}
			return nil
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		orders, _, err := r.Orders().ListByCustomerID(ctx, customer.ID, 1, 50)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		outs = make([]OrderOutput, 0, len(orders))
		for _, o := range orders {
			out, err := buildOrderOutput(ctx, r, o)
			if err != nil {
				return err
			}
			outs = append(outs, out)
		}
		return nil
	})

	if err != nil {
		return []OrderOutput{}, err
	}
	return outs, nil
}

func (u *OrderUsecase) GetMyOrderDetail(ctx context.Context, userID int64, orderID int64) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		customer, err := r.Customers().FindByUserID(ctx, userID)
		if err == repo.ErrNotFound {
			//他人の注文は「存在しない扱い」にする
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if o.CustomerID != customer.ID {
			return NewHTTPError(http.StatusNotFound, "not found")
		}

		out, err = buildOrderOutput(ctx, r, o)
		return err
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

// 明細と商品タイトルを引いてOrderOutputを組み立てる
func buildOrderOutput(ctx context.Context, r repo.TxRepos, o model.Order) (OrderOutput, error) {
	items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
	if err != nil {
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	titles := make(map[int64]string, len(items))
	for _, it := range items {
		if _, ok := titles[it.ProductID]; ok {
			continue
		}
		p, err := r.Products().FindByID(ctx, it.ProductID)
		if err == nil {
			titles[it.ProductID] = p.Title
		}
	}

	return toOrderOutput(o, items, titles), nil
}

func toOrderOutput(o model.Order, items []model.OrderItem, titles map[int64]string) OrderOutput {
	outItems := make([]OrderItemOutput, 0, len(items))
	for _, it := range items {
		outItems = append(outItems, OrderItemOutput{
			ID:        it.ID,
			ProductID: it.ProductID,
			Title:     titles[it.ProductID],
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}

	return OrderOutput{
		ID:            o.ID,
		CustomerID:    o.CustomerID,
		PaymentStatus: string(o.PaymentStatus),
		PlacedAt:      o.PlacedAt,
		Items:         outItems,
	}
}
