package model

import "time"

type Membership string

const (
	MembershipBronze Membership = "B"
	MembershipSilver Membership = "S"
	MembershipGold   Membership = "G"
)

// ユーザーと1対1の顧客レコード
type Customer struct {
	ID         int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     int64      `gorm:"not null;uniqueIndex" json:"user_id"`
	Phone      string     `gorm:"type:varchar(255)" json:"phone"`
	BirthDate  *time.Time `json:"birth_date"`
	Membership Membership `gorm:"type:varchar(1);not null;default:'B'" json:"membership"`
	CreatedAt  time.Time  `gorm:"not null;autoCreateTime" json:"-"`
	UpdatedAt  time.Time  `gorm:"not null;autoUpdateTime" json:"-"`
}
