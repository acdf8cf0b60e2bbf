package coupon

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/lifedash/lifedash/internal/models"
	"github.com/lifedash/lifedash/pkg/types"
)

// fakeRepo is an in-memory Repository for service tests.
type fakeRepo struct {
	coupons map[string]*models.Coupon
}

func newFakeRepo(cs ...*models.Coupon) *fakeRepo {
	r := &fakeRepo{coupons: map[string]*models.Coupon{}}
	for _, c := range cs {
		r.coupons[c.ID] = c
	}
	return r
}

func (r *fakeRepo) ListByStatus(_ context.Context, active bool) ([]*models.Coupon, error) {
	var out []*models.Coupon
	for _, c := range r.coupons {
		if c.Active() == active {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeRepo) GetByID(_ context.Context, id string) (*models.Coupon, error) {
	c, ok := r.coupons[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *fakeRepo) GetByCode(_ context.Context, code string) (*models.Coupon, error) {
	for _, c := range r.coupons {
		if c.Code == code {
			cp := *c
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r *fakeRepo) Create(_ context.Context, c *models.Coupon) error {
	for _, existing := range r.coupons {
		if existing.Code == c.Code {
			return ErrDuplicateCode
		}
	}
	cp := *c
	r.coupons[c.ID] = &cp
	return nil
}

func (r *fakeRepo) UpdateActive(_ context.Context, id string, cols map[string]any) error {
	c, ok := r.coupons[id]
	if !ok || !c.Active() {
		return ErrArchived
	}
	if v, ok := cols["purpose"]; ok {
		c.Purpose = v.(string)
	}
	if v, ok := cols["max_uses"]; ok {
		c.MaxUses = v.(int)
	}
	return nil
}

func (r *fakeRepo) Archive(_ context.Context, id string, status types.CouponStatus, reason string, at time.Time) error {
	c, ok := r.coupons[id]
	if !ok || !c.Active() {
		return nil
	}
	c.Status = status
	c.ArchivedAt = &at
	c.ArchivedReason = reason
	return nil
}

func (r *fakeRepo) AppendUsage(_ context.Context, c *models.Coupon, usage models.CouponUsage) error {
	stored, ok := r.coupons[c.ID]
	if !ok || !stored.Active() || stored.UsedCount != c.UsedCount {
		return ErrConflict
	}
	history := append(stored.UsageHistory.Data(), usage)
	stored.UsedCount++
	stored.UsageHistory = datatypes.NewJSONType(history)
	c.UsedCount = stored.UsedCount
	c.UsageHistory = stored.UsageHistory
	return nil
}

func newCoupon(id string, maxUses, usedCount int, exp *time.Time) *models.Coupon {
	return &models.Coupon{
		ID:             id,
		Code:           "CODE-" + id,
		DiscountType:   types.DiscountTypeFixed,
		DiscountValue:  5,
		PlanName:       "pro",
		MaxUses:        maxUses,
		UsedCount:      usedCount,
		UsageHistory:   datatypes.NewJSONType(make([]models.CouponUsage, usedCount)),
		Status:         types.CouponStatusActive,
		ExpirationDate: exp,
	}
}

func newTestService(repo Repository) *Service {
	return NewService(repo, zap.NewNop().Sugar())
}

func TestListActive_ArchivesExpiredAndCapped(t *testing.T) {
	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)

	expired := newCoupon("expired", 10, 0, &past)
	capped := newCoupon("capped", 3, 3, &future)
	// Expiration takes precedence over the cap when both apply.
	expiredAndCapped := newCoupon("both", 3, 3, &past)
	healthy := newCoupon("healthy", 10, 1, nil)

	repo := newFakeRepo(expired, capped, expiredAndCapped, healthy)
	svc := newTestService(repo)

	active, err := svc.ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "healthy", active[0].ID)

	assert.Equal(t, types.CouponStatusExpired, repo.coupons["expired"].Status)
	assert.Equal(t, types.ArchiveReasonExpired, repo.coupons["expired"].ArchivedReason)
	assert.Equal(t, types.CouponStatusMaxUsesReached, repo.coupons["capped"].Status)
	assert.Equal(t, types.ArchiveReasonMaxUses, repo.coupons["capped"].ArchivedReason)
	assert.Equal(t, types.CouponStatusExpired, repo.coupons["both"].Status)
	assert.NotNil(t, repo.coupons["expired"].ArchivedAt)
}

func TestListActive_CappedCouponExcludedAfterNextFetch(t *testing.T) {
	c := newCoupon("c1", 2, 0, nil)
	repo := newFakeRepo(c)
	svc := newTestService(repo)

	_, err := svc.Redeem(context.Background(), "c1", "u1", "u1@example.com")
	require.NoError(t, err)
	_, err = svc.Redeem(context.Background(), "c1", "u2", "u2@example.com")
	require.NoError(t, err)

	// Archived at cap, not deleted.
	active, err := svc.ListActive(context.Background())
	require.NoError(t, err)
	assert.Empty(t, active)

	archived, err := svc.ListArchived(context.Background())
	require.NoError(t, err)
	require.Len(t, archived, 1)
	assert.Equal(t, types.CouponStatusMaxUsesReached, archived[0].Status)
	assert.Equal(t, 2, archived[0].UsedCount)
}

func TestRedeem_AppendsUsageAndIncrementsCount(t *testing.T) {
	repo := newFakeRepo(newCoupon("c1", 5, 0, nil))
	svc := newTestService(repo)

	got, err := svc.Redeem(context.Background(), "c1", "user-1", "user-1@example.com")
	require.NoError(t, err)
	assert.Equal(t, 1, got.UsedCount)

	stored := repo.coupons["c1"]
	history := stored.UsageHistory.Data()
	require.Len(t, history, 1)
	assert.Equal(t, "user-1", history[0].UserID)
	assert.Equal(t, "user-1@example.com", history[0].UserEmail)
	assert.False(t, history[0].UsedAt.IsZero())
	assert.Equal(t, types.CouponStatusActive, stored.Status)
}

func TestRedeem_AtCapIsNoOp(t *testing.T) {
	c := newCoupon("c1", 3, 3, nil)
	repo := newFakeRepo(c)
	svc := newTestService(repo)

	_, err := svc.Redeem(context.Background(), "c1", "u1", "u1@example.com")
	require.ErrorIs(t, err, ErrAtCap)

	stored := repo.coupons["c1"]
	assert.Equal(t, 3, stored.UsedCount)
	assert.Len(t, stored.UsageHistory.Data(), 3)
	// The stale active status is repaired on the way out.
	assert.Equal(t, types.CouponStatusMaxUsesReached, stored.Status)
}

func TestRedeem_ReachingCapArchivesImmediately(t *testing.T) {
	repo := newFakeRepo(newCoupon("c1", 1, 0, nil))
	svc := newTestService(repo)

	got, err := svc.Redeem(context.Background(), "c1", "u1", "u1@example.com")
	require.NoError(t, err)
	assert.Equal(t, 1, got.UsedCount)

	stored := repo.coupons["c1"]
	assert.Equal(t, types.CouponStatusMaxUsesReached, stored.Status)
	assert.Equal(t, types.ArchiveReasonMaxUses, stored.ArchivedReason)
}

func TestRedeem_ExpiredCoupon(t *testing.T) {
	past := time.Now().Add(-time.Minute)
	repo := newFakeRepo(newCoupon("c1", 5, 0, &past))
	svc := newTestService(repo)

	_, err := svc.Redeem(context.Background(), "c1", "u1", "u1@example.com")
	require.ErrorIs(t, err, ErrExpired)
	assert.Equal(t, types.CouponStatusExpired, repo.coupons["c1"].Status)
}

func TestCreate_Validation(t *testing.T) {
	svc := newTestService(newFakeRepo())

	tests := []struct {
		name    string
		req     *CreateRequest
		wantErr bool
	}{
		{name: "ok", req: &CreateRequest{DiscountType: types.DiscountTypePercentage, DiscountValue: 20, PlanName: "pro", MaxUses: 10}},
		{name: "bad discount type", req: &CreateRequest{DiscountType: "half-off", PlanName: "pro", MaxUses: 10}, wantErr: true},
		{name: "zero max uses", req: &CreateRequest{DiscountType: types.DiscountTypeFree, PlanName: "pro", MaxUses: 0}, wantErr: true},
		{name: "missing plan", req: &CreateRequest{DiscountType: types.DiscountTypeFree, MaxUses: 1}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := svc.Create(context.Background(), tt.req)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, c.ID)
			assert.NotEmpty(t, c.Code)
			assert.Equal(t, types.CouponStatusActive, c.Status)
			assert.Zero(t, c.UsedCount)
		})
	}
}

func TestCreate_DuplicateCode(t *testing.T) {
	svc := newTestService(newFakeRepo())

	_, err := svc.Create(context.Background(), &CreateRequest{Code: "WELCOME", DiscountType: types.DiscountTypeFree, PlanName: "pro", MaxUses: 5})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), &CreateRequest{Code: "WELCOME", DiscountType: types.DiscountTypeFree, PlanName: "pro", MaxUses: 5})
	require.ErrorIs(t, err, ErrDuplicateCode)
}

func TestUpdate_ArchivedCouponIsImmutable(t *testing.T) {
	c := newCoupon("c1", 5, 0, nil)
	c.Status = types.CouponStatusExpired
	repo := newFakeRepo(c)
	svc := newTestService(repo)

	purpose := "spring sale"
	err := svc.Update(context.Background(), "c1", &UpdateRequest{Purpose: &purpose})
	require.ErrorIs(t, err, ErrArchived)
}

func TestIsExpired(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Second)
	future := now.Add(time.Second)

	assert.False(t, IsExpired(newCoupon("a", 1, 0, nil), now))
	assert.True(t, IsExpired(newCoupon("b", 1, 0, &past), now))
	assert.False(t, IsExpired(newCoupon("c", 1, 0, &future), now))
}
