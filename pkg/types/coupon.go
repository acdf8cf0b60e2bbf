package types

type DiscountType string

const (
	DiscountTypeFree       DiscountType = "free"
	DiscountTypePercentage DiscountType = "percentage"
	DiscountTypeFixed      DiscountType = "fixed"
)

func (t DiscountType) Valid() bool {
	switch t {
	case DiscountTypeFree, DiscountTypePercentage, DiscountTypeFixed:
		return true
	}
	return false
}

type CouponStatus string

const (
	CouponStatusActive CouponStatus = "active"
	// CouponStatusExpired and CouponStatusMaxUsesReached are both archived
	// states: the coupon stays readable but is excluded from active listings
	// and accepts no further mutation.
	CouponStatusExpired        CouponStatus = "expired"
	CouponStatusMaxUsesReached CouponStatus = "max_uses_reached"
)

// Archival reasons recorded on the coupon when it leaves the active state.
const (
	ArchiveReasonExpired  = "Expired automatically"
	ArchiveReasonMaxUses  = "Maximum uses reached"
	ArchiveReasonManually = "Archived by operator"
)
