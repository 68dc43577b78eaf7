package model

import "time"

// カートはトークン（uuid）で引く。注文確定と同時に消える。
type Cart struct {
	Token     string    `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
