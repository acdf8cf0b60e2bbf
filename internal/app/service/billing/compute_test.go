package billing

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/lifedash/lifedash/internal/models"
	"github.com/lifedash/lifedash/pkg/types"
)

func usageAt(t time.Time, n int) datatypes.JSONType[[]models.CouponUsage] {
	uses := make([]models.CouponUsage, n)
	for i := range uses {
		uses[i] = models.CouponUsage{UsedAt: t, UserID: "u", UserEmail: "u@example.com"}
	}
	return datatypes.NewJSONType(uses)
}

func product(name string, price float64) *models.Product {
	return &models.Product{Name: name, Price: price, BillingCycle: types.BillingCycleMonthly, Status: types.ProductStatusActive}
}

func premiumUser(plan string, start, end time.Time) *models.User {
	return &models.User{IsPremium: true, PlanName: plan, PremiumStartAt: &start, PremiumEndAt: &end}
}

func TestComputeSnapshot_FixedDiscountSavings(t *testing.T) {
	now := time.Now()
	c := &models.Coupon{
		DiscountType:  types.DiscountTypeFixed,
		DiscountValue: 5,
		PlanName:      "pro",
		UsageHistory:  usageAt(now, 3),
	}

	snap := ComputeSnapshot(nil, []*models.Coupon{c}, []*models.Product{product("pro", 50)}, now.Add(-time.Hour))
	assert.Equal(t, int64(3), snap.CouponUsage)
	assert.InDelta(t, 15, snap.TotalSavings, 1e-9)
}

func TestComputeSnapshot_PercentageDiscountSavings(t *testing.T) {
	now := time.Now()
	c := &models.Coupon{
		DiscountType:  types.DiscountTypePercentage,
		DiscountValue: 20,
		PlanName:      "pro",
		UsageHistory:  usageAt(now, 2),
	}

	snap := ComputeSnapshot(nil, []*models.Coupon{c}, []*models.Product{product("pro", 50)}, now.Add(-time.Hour))
	assert.InDelta(t, 20, snap.TotalSavings, 1e-9) // 2 × 0.20 × 50
}

func TestComputeSnapshot_FreeDiscountSavings(t *testing.T) {
	now := time.Now()
	c := &models.Coupon{
		DiscountType: types.DiscountTypeFree,
		PlanName:     "pro",
		UsageHistory: usageAt(now, 2),
	}

	snap := ComputeSnapshot(nil, []*models.Coupon{c}, []*models.Product{product("pro", 50)}, now.Add(-time.Hour))
	assert.InDelta(t, 100, snap.TotalSavings, 1e-9)
}

func TestComputeSnapshot_UsageOutsidePeriodExcluded(t *testing.T) {
	now := time.Now()
	c := &models.Coupon{
		DiscountType:  types.DiscountTypeFixed,
		DiscountValue: 5,
		PlanName:      "pro",
		UsageHistory:  usageAt(now.Add(-48*time.Hour), 4),
	}

	snap := ComputeSnapshot(nil, []*models.Coupon{c}, []*models.Product{product("pro", 50)}, now.Add(-time.Hour))
	assert.Zero(t, snap.CouponUsage)
	assert.Zero(t, snap.TotalSavings)
}

func TestComputeSnapshot_ProRatedRevenue(t *testing.T) {
	now := time.Now()
	start := now.Add(-15 * 24 * time.Hour)
	u := premiumUser("pro", start, now)

	snap := ComputeSnapshot([]*models.User{u}, nil, []*models.Product{product("pro", 30)}, now.Add(-time.Hour))
	// 30/30 per day × 15 days
	assert.InDelta(t, 15, snap.TotalRevenue, 1e-9)
	assert.Equal(t, int64(1), snap.ActiveSubscriptions)
	assert.Equal(t, int64(1), snap.PremiumUsers)
}

func TestComputeSnapshot_PremiumWindowEndedBeforePeriod(t *testing.T) {
	now := time.Now()
	u := premiumUser("pro", now.Add(-60*24*time.Hour), now.Add(-30*24*time.Hour))

	snap := ComputeSnapshot([]*models.User{u}, nil, []*models.Product{product("pro", 30)}, now)
	assert.Zero(t, snap.PremiumUsers)
	assert.Zero(t, snap.TotalRevenue)
	assert.Zero(t, snap.ActiveSubscriptions)
	assert.Equal(t, int64(1), snap.TotalUsers)
}

func TestComputeSnapshot_UnknownPlanContributesNothing(t *testing.T) {
	now := time.Now()
	u := premiumUser("deleted-plan", now.Add(-10*24*time.Hour), now)
	c := &models.Coupon{DiscountType: types.DiscountTypeFree, PlanName: "deleted-plan", UsageHistory: usageAt(now, 1)}

	snap := ComputeSnapshot([]*models.User{u}, []*models.Coupon{c}, nil, now.Add(-time.Hour))
	assert.Zero(t, snap.TotalRevenue)
	assert.Zero(t, snap.ActiveSubscriptions)
	// Usage still counts; the savings amount falls back to a zero price.
	assert.Equal(t, int64(1), snap.CouponUsage)
	assert.Zero(t, snap.TotalSavings)
}

func TestComputeSnapshot_ProfitIdentity(t *testing.T) {
	now := time.Now()
	users := []*models.User{
		premiumUser("pro", now.Add(-30*24*time.Hour), now),
		premiumUser("team", now.Add(-7*24*time.Hour), now),
		{},
	}
	coupons := []*models.Coupon{
		{DiscountType: types.DiscountTypePercentage, DiscountValue: 50, PlanName: "pro", UsageHistory: usageAt(now, 3)},
		{DiscountType: types.DiscountTypeFixed, DiscountValue: 7.5, PlanName: "team", UsageHistory: usageAt(now, 2)},
	}
	products := []*models.Product{product("pro", 50), product("team", 120)}

	snap := ComputeSnapshot(users, coupons, products, now.Add(-time.Hour))
	assert.InDelta(t, snap.TotalRevenue-snap.TotalSavings, snap.TotalProfit, 1e-9)
}

func TestComputeSnapshot_AverageRevenuePerUser(t *testing.T) {
	now := time.Now()
	users := []*models.User{
		premiumUser("pro", now.Add(-30*24*time.Hour), now),
		{},
		{},
		{},
	}
	snap := ComputeSnapshot(users, nil, []*models.Product{product("pro", 60)}, now.Add(-time.Hour))
	require.NotZero(t, snap.TotalUsers)
	assert.InDelta(t, snap.TotalRevenue/float64(snap.TotalUsers), snap.AverageRevenuePerUser, 1e-9)
}

func TestComputeSnapshot_NoUsersDivByZeroGuard(t *testing.T) {
	snap := ComputeSnapshot(nil, nil, nil, time.Now())
	assert.Zero(t, snap.TotalUsers)
	// Defined as totalRevenue / 1 when there are no users.
	assert.Zero(t, snap.AverageRevenuePerUser)
}

func TestRenderCSV(t *testing.T) {
	snap := &Snapshot{
		TotalUsers:            12,
		PremiumUsers:          4,
		TotalRevenue:          199.5,
		CouponUsage:           7,
		TotalSavings:          35,
		ActiveSubscriptions:   4,
		TotalProfit:           164.5,
		AverageRevenuePerUser: 16.625,
	}

	out, err := RenderCSV(snap)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 10)
	assert.Equal(t, "Metric,Value", lines[0])
	assert.Contains(t, lines, "Total Revenue,199.50")
	assert.Contains(t, lines, "Coupon Usage,7")
	assert.Contains(t, lines, "Total Profit,164.50")
}
