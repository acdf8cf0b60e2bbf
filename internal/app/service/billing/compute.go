package billing

import (
	"time"

	"github.com/samber/lo"

	"github.com/lifedash/lifedash/internal/models"
	"github.com/lifedash/lifedash/pkg/types"
)

// Snapshot is the derived billing analytics for one period. It is recomputed
// in full on every request and never persisted or cached.
type Snapshot struct {
	PeriodStart           time.Time `json:"period_start"`
	TotalUsers            int64     `json:"total_users"`
	PremiumUsers          int64     `json:"premium_users"`
	TotalRevenue          float64   `json:"total_revenue"`
	CouponUsage           int64     `json:"coupon_usage"`
	TotalSavings          float64   `json:"total_savings"`
	ActiveSubscriptions   int64     `json:"active_subscriptions"`
	TotalProfit           float64   `json:"total_profit"`
	AverageRevenuePerUser float64   `json:"average_revenue_per_user"`
}

// ComputeSnapshot derives the analytics snapshot from full collection scans.
// Pure over its inputs; the service owns the fetching.
//
// Joins between users/coupons and products are by plan name, matching the
// stored data. An unknown plan name contributes zero price instead of an
// error.
func ComputeSnapshot(users []*models.User, coupons []*models.Coupon, products []*models.Product, periodStart time.Time) *Snapshot {
	snap := &Snapshot{PeriodStart: periodStart, TotalUsers: int64(len(users))}

	priceByPlan := lo.Associate(products, func(p *models.Product) (string, float64) {
		return p.Name, p.Price
	})

	// Premium users whose subscription window reaches into the period.
	premium := lo.Filter(users, func(u *models.User, _ int) bool {
		return u.IsPremium && u.PremiumEndAt != nil && !u.PremiumEndAt.Before(periodStart)
	})
	snap.PremiumUsers = int64(len(premium))

	for _, c := range coupons {
		inPeriod := lo.CountBy(c.UsageHistory.Data(), func(u models.CouponUsage) bool {
			return !u.UsedAt.Before(periodStart)
		})
		if inPeriod == 0 {
			continue
		}
		snap.CouponUsage += int64(inPeriod)
		snap.TotalSavings += savingsPerUse(c, priceByPlan[c.PlanName]) * float64(inPeriod)
	}

	for _, u := range premium {
		price, ok := priceByPlan[u.PlanName]
		if !ok {
			continue
		}
		snap.ActiveSubscriptions++
		// Pro-rated over the user's subscribed days at a 30-day month.
		snap.TotalRevenue += price / 30 * float64(u.PremiumDays())
	}

	snap.TotalProfit = snap.TotalRevenue - snap.TotalSavings
	snap.AverageRevenuePerUser = snap.TotalRevenue / float64(max(int64(1), snap.TotalUsers))
	return snap
}

// savingsPerUse is the discount granted by one redemption of the coupon.
func savingsPerUse(c *models.Coupon, planPrice float64) float64 {
	switch c.DiscountType {
	case types.DiscountTypeFree:
		return planPrice
	case types.DiscountTypePercentage:
		return planPrice * c.DiscountValue / 100
	case types.DiscountTypeFixed:
		return c.DiscountValue
	default:
		return 0
	}
}
