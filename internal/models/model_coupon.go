package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/lifedash/lifedash/pkg/types"
)

// CouponUsage is one redemption record inside a coupon's usage history.
type CouponUsage struct {
	UsedAt    time.Time `json:"used_at"`
	UserID    string    `json:"user_id"`
	UserEmail string    `json:"user_email"`
}

// Coupon is a promotional code granting a discount or free access to a
// Product/plan. PlanName joins Product by name, not by id; a product rename
// breaks historical linkage, which the admin UI accepts knowingly.
type Coupon struct {
	ID      string `gorm:"column:id;type:uuid;primary_key" json:"id"`
	Code    string `gorm:"column:code;type:varchar(64);not null;uniqueIndex" json:"code"`
	Purpose string `gorm:"column:purpose;type:varchar(128)" json:"purpose"`

	DiscountType  types.DiscountType `gorm:"column:discount_type;type:varchar(32);not null" json:"discount_type"`
	DiscountValue float64            `gorm:"column:discount_value;not null" json:"discount_value"`
	PlanName      string             `gorm:"column:plan_name;type:varchar(128);not null" json:"plan_name"`

	MaxUses   int `gorm:"column:max_uses;not null" json:"max_uses"`
	UsedCount int `gorm:"column:used_count;not null;default:0" json:"used_count"`
	// UsageHistory is an append-only JSONB list ordered by redemption time.
	UsageHistory datatypes.JSONType[[]CouponUsage] `gorm:"column:usage_history;type:jsonb;default:'[]'" json:"usage_history"`

	Status types.CouponStatus `gorm:"column:status;type:varchar(32);not null;index" json:"status"`
	// ExpirationDate is nil for coupons that never expire.
	ExpirationDate *time.Time `gorm:"column:expiration_date;default:null" json:"expiration_date"`

	ArchivedAt     *time.Time `gorm:"column:archived_at;default:null" json:"archived_at"`
	ArchivedReason string     `gorm:"column:archived_reason;type:varchar(128)" json:"archived_reason"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Coupon) TableName() string {
	return "coupon"
}

func (c *Coupon) Active() bool {
	return c != nil && c.Status == types.CouponStatusActive
}

// AtCap reports whether the coupon has consumed its full usage budget.
func (c *Coupon) AtCap() bool {
	return c != nil && c.MaxUses > 0 && c.UsedCount >= c.MaxUses
}

// Expired reports whether the coupon's expiration date has passed at now.
// Coupons without an expiration date never expire.
func (c *Coupon) Expired(now time.Time) bool {
	return c != nil && c.ExpirationDate != nil && c.ExpirationDate.Before(now)
}
