package coupon

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/lifedash/lifedash/internal/models"
	"github.com/lifedash/lifedash/pkg/logctx"
	"github.com/lifedash/lifedash/pkg/tool"
	"github.com/lifedash/lifedash/pkg/types"
)

type Service struct {
	repo Repository
	log  *zap.SugaredLogger
}

func NewService(repo Repository, log *zap.SugaredLogger) *Service {
	return &Service{repo: repo, log: log}
}

// IsExpired is the expiry rule evaluated at every read boundary. Expiry is
// read-triggered, not scheduled: a coupon can claim active in the store
// between reads even after its expiration date, until the next ListActive.
func IsExpired(c *models.Coupon, now time.Time) bool {
	return c.Expired(now)
}

type CreateRequest struct {
	Code           string             `json:"code"`
	Purpose        string             `json:"purpose"`
	DiscountType   types.DiscountType `json:"discount_type"`
	DiscountValue  float64            `json:"discount_value"`
	PlanName       string             `json:"plan_name"`
	MaxUses        int                `json:"max_uses"`
	ExpirationDate *time.Time         `json:"expiration_date"`
}

func (s *Service) Create(ctx context.Context, req *CreateRequest) (*models.Coupon, error) {
	if !req.DiscountType.Valid() {
		return nil, fmt.Errorf("invalid discount type: %s", req.DiscountType)
	}
	if req.MaxUses <= 0 {
		return nil, fmt.Errorf("max_uses must be positive")
	}
	if req.PlanName == "" {
		return nil, fmt.Errorf("plan_name is required")
	}
	code := req.Code
	if code == "" {
		code = tool.GenerateCouponCode(8)
	}
	c := &models.Coupon{
		ID:             tool.GenerateUUIDV7(),
		Code:           code,
		Purpose:        req.Purpose,
		DiscountType:   req.DiscountType,
		DiscountValue:  req.DiscountValue,
		PlanName:       req.PlanName,
		MaxUses:        req.MaxUses,
		UsedCount:      0,
		UsageHistory:   datatypes.NewJSONType([]models.CouponUsage{}),
		Status:         types.CouponStatusActive,
		ExpirationDate: req.ExpirationDate,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to create coupon: %w", err)
	}
	return c, nil
}

// ListActive returns coupons still claiming the active status after the
// archival sweep. The expiration check strictly precedes the usage-cap check.
func (s *Service) ListActive(ctx context.Context) ([]*models.Coupon, error) {
	coupons, err := s.repo.ListByStatus(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list active coupons: %w", err)
	}
	now := time.Now()
	kept := coupons[:0]
	for _, c := range coupons {
		if IsExpired(c, now) {
			s.archive(ctx, c, types.CouponStatusExpired, types.ArchiveReasonExpired, now)
			continue
		}
		if c.AtCap() {
			s.archive(ctx, c, types.CouponStatusMaxUsesReached, types.ArchiveReasonMaxUses, now)
			continue
		}
		kept = append(kept, c)
	}
	return kept, nil
}

func (s *Service) ListArchived(ctx context.Context) ([]*models.Coupon, error) {
	coupons, err := s.repo.ListByStatus(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("failed to list archived coupons: %w", err)
	}
	return coupons, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*models.Coupon, error) {
	return s.repo.GetByID(ctx, id)
}

type UpdateRequest struct {
	Purpose        *string    `json:"purpose"`
	DiscountValue  *float64   `json:"discount_value"`
	PlanName       *string    `json:"plan_name"`
	MaxUses        *int       `json:"max_uses"`
	ExpirationDate *time.Time `json:"expiration_date"`
}

// Update applies a partial update. Archived coupons are immutable except for
// inspection, so the update only matches while the coupon is active.
func (s *Service) Update(ctx context.Context, id string, req *UpdateRequest) error {
	cols := map[string]any{}
	if req.Purpose != nil {
		cols["purpose"] = *req.Purpose
	}
	if req.DiscountValue != nil {
		cols["discount_value"] = *req.DiscountValue
	}
	if req.PlanName != nil {
		cols["plan_name"] = *req.PlanName
	}
	if req.MaxUses != nil {
		if *req.MaxUses <= 0 {
			return fmt.Errorf("max_uses must be positive")
		}
		cols["max_uses"] = *req.MaxUses
	}
	if req.ExpirationDate != nil {
		cols["expiration_date"] = *req.ExpirationDate
	}
	if len(cols) == 0 {
		return nil
	}
	if err := s.repo.UpdateActive(ctx, id, cols); err != nil {
		return fmt.Errorf("failed to update coupon: %w", err)
	}
	return nil
}

// Redeem appends a usage record and consumes one usage slot. Redeeming a
// coupon already at its cap is a no-op: used_count and the usage history
// stay unchanged and ErrAtCap is returned. When the post-increment count
// reaches the cap the coupon is archived immediately.
func (s *Service) Redeem(ctx context.Context, id, userID, userEmail string) (*models.Coupon, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	if !c.Active() {
		return nil, ErrArchived
	}
	if IsExpired(c, now) {
		s.archive(ctx, c, types.CouponStatusExpired, types.ArchiveReasonExpired, now)
		return nil, ErrExpired
	}
	if c.AtCap() {
		// Stale active status; repair it on the way out.
		s.archive(ctx, c, types.CouponStatusMaxUsesReached, types.ArchiveReasonMaxUses, now)
		return nil, ErrAtCap
	}

	usage := models.CouponUsage{UsedAt: now, UserID: userID, UserEmail: userEmail}
	if err := s.repo.AppendUsage(ctx, c, usage); err != nil {
		return nil, fmt.Errorf("failed to record coupon usage: %w", err)
	}

	logctx.FromCtx(ctx, s.log).Infow("coupon redeemed",
		"coupon_id", c.ID, "code", c.Code, "used_count", c.UsedCount, "max_uses", c.MaxUses)

	if c.AtCap() {
		s.archive(ctx, c, types.CouponStatusMaxUsesReached, types.ArchiveReasonMaxUses, now)
	}
	return c, nil
}

// ArchiveManually flips an active coupon to the expired state on operator
// request.
func (s *Service) ArchiveManually(ctx context.Context, id string) error {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !c.Active() {
		return ErrArchived
	}
	return s.repo.Archive(ctx, id, types.CouponStatusExpired, types.ArchiveReasonManually, time.Now())
}

// archive performs a best-effort transition; a failure leaves the coupon for
// the next sweep and is logged rather than failing the read path.
func (s *Service) archive(ctx context.Context, c *models.Coupon, status types.CouponStatus, reason string, at time.Time) {
	if err := s.repo.Archive(ctx, c.ID, status, reason, at); err != nil {
		logctx.FromCtx(ctx, s.log).Errorw("failed to archive coupon",
			"coupon_id", c.ID, "reason", reason, "err", err)
		return
	}
	c.Status = status
	c.ArchivedAt = &at
	c.ArchivedReason = reason
}
