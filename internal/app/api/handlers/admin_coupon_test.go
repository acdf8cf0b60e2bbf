package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	couponsvc "github.com/lifedash/lifedash/internal/app/service/coupon"
	"github.com/lifedash/lifedash/internal/models"
	"github.com/lifedash/lifedash/pkg/types"
)

// stubCouponRepo holds a single coupon for handler tests.
type stubCouponRepo struct {
	coupon *models.Coupon
}

func (s *stubCouponRepo) ListByStatus(_ context.Context, active bool) ([]*models.Coupon, error) {
	if s.coupon != nil && s.coupon.Active() == active {
		return []*models.Coupon{s.coupon}, nil
	}
	return nil, nil
}

func (s *stubCouponRepo) GetByID(_ context.Context, id string) (*models.Coupon, error) {
	if s.coupon == nil || s.coupon.ID != id {
		return nil, couponsvc.ErrNotFound
	}
	cp := *s.coupon
	return &cp, nil
}

func (s *stubCouponRepo) GetByCode(_ context.Context, _ string) (*models.Coupon, error) {
	panic("not used")
}

func (s *stubCouponRepo) Create(_ context.Context, c *models.Coupon) error {
	s.coupon = c
	return nil
}

func (s *stubCouponRepo) UpdateActive(_ context.Context, _ string, _ map[string]any) error {
	panic("not used")
}

func (s *stubCouponRepo) Archive(_ context.Context, id string, status types.CouponStatus, reason string, at time.Time) error {
	if s.coupon != nil && s.coupon.ID == id && s.coupon.Active() {
		s.coupon.Status = status
		s.coupon.ArchivedReason = reason
		s.coupon.ArchivedAt = &at
	}
	return nil
}

func (s *stubCouponRepo) AppendUsage(_ context.Context, c *models.Coupon, usage models.CouponUsage) error {
	if s.coupon == nil || s.coupon.UsedCount != c.UsedCount {
		return couponsvc.ErrConflict
	}
	history := append(s.coupon.UsageHistory.Data(), usage)
	s.coupon.UsedCount++
	s.coupon.UsageHistory = datatypes.NewJSONType(history)
	c.UsedCount = s.coupon.UsedCount
	c.UsageHistory = s.coupon.UsageHistory
	return nil
}

func testAdminRouter(repo couponsvc.Repository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := couponsvc.NewService(repo, zap.NewNop().Sugar())
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("currentUser", &models.User{ID: "admin-1", Email: "admin@example.com", IsAdmin: true})
	})
	RegisterAdminCouponRoutes(r.Group("/api/v1/admin"), svc)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestApiRedeemCoupon_AppendsUsage(t *testing.T) {
	repo := &stubCouponRepo{coupon: &models.Coupon{
		ID:           "c1",
		Code:         "WELCOME",
		DiscountType: types.DiscountTypeFixed,
		MaxUses:      5,
		Status:       types.CouponStatusActive,
		UsageHistory: datatypes.NewJSONType([]models.CouponUsage{}),
	}}
	r := testAdminRouter(repo)

	w := postJSON(t, r, "/api/v1/admin/redeem_coupon", map[string]any{"id": "c1"})
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"code":0`)
	require.Contains(t, w.Body.String(), `"used_count":1`)
	require.Contains(t, w.Body.String(), "admin@example.com")
}

func TestApiRedeemCoupon_AtCapReturnsError(t *testing.T) {
	repo := &stubCouponRepo{coupon: &models.Coupon{
		ID:           "c1",
		Code:         "WELCOME",
		DiscountType: types.DiscountTypeFixed,
		MaxUses:      1,
		UsedCount:    1,
		Status:       types.CouponStatusActive,
		UsageHistory: datatypes.NewJSONType(make([]models.CouponUsage, 1)),
	}}
	r := testAdminRouter(repo)

	w := postJSON(t, r, "/api/v1/admin/redeem_coupon", map[string]any{"id": "c1"})
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"code":40000`)
	// no-op: the stored count did not move
	require.Equal(t, 1, repo.coupon.UsedCount)
}

func TestApiRedeemCoupon_MissingID(t *testing.T) {
	r := testAdminRouter(&stubCouponRepo{})

	w := postJSON(t, r, "/api/v1/admin/redeem_coupon", map[string]any{})
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"code":40000`)
}

func TestApiCreateCoupon_ThenListActive(t *testing.T) {
	repo := &stubCouponRepo{}
	r := testAdminRouter(repo)

	w := postJSON(t, r, "/api/v1/admin/create_coupon", map[string]any{
		"discount_type":  "percentage",
		"discount_value": 20,
		"plan_name":      "pro",
		"max_uses":       10,
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"code":0`)

	w = postJSON(t, r, "/api/v1/admin/list_active_coupons", map[string]any{})
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"plan_name":"pro"`)
}
