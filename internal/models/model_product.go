package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/lifedash/lifedash/pkg/types"
)

// Product is a purchasable plan. Name is the join key used by both
// Coupon.PlanName and User.PlanName.
type Product struct {
	ID   string `gorm:"column:id;type:uuid;primary_key" json:"id"`
	Name string `gorm:"column:name;type:varchar(128);not null;uniqueIndex" json:"name"`
	// Price is the monthly price in the account currency.
	Price        float64                       `gorm:"column:price;not null" json:"price"`
	BillingCycle types.BillingCycle            `gorm:"column:billing_cycle;type:varchar(32);not null" json:"billing_cycle"`
	Features     datatypes.JSONType[[]string]  `gorm:"column:features;type:jsonb;default:'[]'" json:"features"`
	Status       types.ProductStatus           `gorm:"column:status;type:varchar(32);not null" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Product) TableName() string {
	return "product"
}
