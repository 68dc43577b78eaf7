package model

import "time"

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "P"
	PaymentStatusComplete PaymentStatus = "C"
	PaymentStatusFailed   PaymentStatus = "F"
)

// PENDINGからだけ遷移できる（COMPLETE/FAILEDは終端）
func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	if s != PaymentStatusPending {
		return false
	}
	return next == PaymentStatusComplete || next == PaymentStatusFailed
}

type Order struct {
	ID            int64         `gorm:"primaryKey;autoIncrement" json:"id"`
	CustomerID    int64         `gorm:"not null;index" json:"customer_id"`
	PaymentStatus PaymentStatus `gorm:"type:varchar(1);not null" json:"payment_status"`
	PlacedAt      time.Time     `gorm:"not null" json:"placed_at"`
}
