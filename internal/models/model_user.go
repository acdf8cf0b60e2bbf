package models

import "time"

// User is an account record. The premium window (PremiumStartAt ..
// PremiumEndAt) plus PlanName is what the billing aggregator reads; there is
// no separate subscription table.
type User struct {
	ID    string `gorm:"column:id;type:uuid;primary_key" json:"id"`
	Email string `gorm:"column:email;type:varchar(256);not null;uniqueIndex" json:"email"`

	IsPremium      bool       `gorm:"column:is_premium;not null;default:false" json:"is_premium"`
	PlanName       string     `gorm:"column:plan_name;type:varchar(128)" json:"plan_name"`
	PremiumStartAt *time.Time `gorm:"column:premium_start_at;default:null" json:"premium_start_at"`
	PremiumEndAt   *time.Time `gorm:"column:premium_end_at;default:null" json:"premium_end_at"`

	IsAdmin bool `gorm:"column:is_admin;not null;default:false" json:"is_admin"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "app_user"
}

// PremiumDays returns the whole days between the premium window boundaries,
// floored at 0. Missing boundaries count as 0.
func (u *User) PremiumDays() int {
	if u == nil || u.PremiumStartAt == nil || u.PremiumEndAt == nil {
		return 0
	}
	days := int(u.PremiumEndAt.Sub(*u.PremiumStartAt).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}
