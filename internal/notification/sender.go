package notification

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
)

// 注文確定イベント
type OrderItemEvent struct {
	ProductID int64           `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type OrderCreatedEvent struct {
	OrderID    int64            `json:"order_id"`
	CustomerID int64            `json:"customer_id"`
	PlacedAt   time.Time        `json:"placed_at"`
	Items      []OrderItemEvent `json:"items"`
}

// コミット後に1回だけ呼ばれる。失敗しても注文は取り消されない（呼び出し側でログするだけ）。
type Sender interface {
	OrderCreated(ctx context.Context, ev OrderCreatedEvent) error
}

// Kafka未設定のときの配信先。ログに出すだけ。
type LogSender struct {
	logger *slog.Logger
}

func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) OrderCreated(ctx context.Context, ev OrderCreatedEvent) error {
	s.logger.InfoContext(ctx, "order created",
		"order_id", ev.OrderID,
		"customer_id", ev.CustomerID,
		"items", len(ev.Items),
	)
	return nil
}
