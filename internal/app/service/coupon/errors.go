package coupon

import "errors"

var (
	ErrNotFound = errors.New("coupon not found")
	// ErrArchived is returned when a mutation targets a coupon that already
	// left the active state; archived coupons are read-only.
	ErrArchived = errors.New("coupon is archived")
	ErrExpired  = errors.New("coupon is expired")
	// ErrAtCap is returned when a redemption hits a coupon whose usage budget
	// is already consumed. The redemption is a no-op.
	ErrAtCap = errors.New("coupon has reached its maximum uses")
	// ErrConflict is returned when the guarded usage update matched no row,
	// meaning another redemption won the race. The caller sees the failure
	// instead of a silently lost update.
	ErrConflict      = errors.New("concurrent coupon update, please retry")
	ErrDuplicateCode = errors.New("coupon code already exists")
)
