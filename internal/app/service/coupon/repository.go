package coupon

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/lifedash/lifedash/internal/models"
	"github.com/lifedash/lifedash/pkg/types"
)

// Repository is the coupon store accessor. The service depends on this
// interface so tests can run against an in-memory fake.
type Repository interface {
	ListByStatus(ctx context.Context, active bool) ([]*models.Coupon, error)
	GetByID(ctx context.Context, id string) (*models.Coupon, error)
	GetByCode(ctx context.Context, code string) (*models.Coupon, error)
	Create(ctx context.Context, c *models.Coupon) error
	// UpdateActive applies a partial column update, matching only while the
	// coupon is still active. Returns ErrArchived when no active row matched.
	UpdateActive(ctx context.Context, id string, cols map[string]any) error
	// Archive transitions an active coupon to the given archived status. A
	// coupon that already left the active state is not touched.
	Archive(ctx context.Context, id string, status types.CouponStatus, reason string, at time.Time) error
	// AppendUsage increments used_count and writes the extended usage history
	// in a single update guarded by the previously read count, so two
	// concurrent redemptions cannot both consume the same slot.
	AppendUsage(ctx context.Context, c *models.Coupon, usage models.CouponUsage) error
}

type gormRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) ListByStatus(ctx context.Context, active bool) ([]*models.Coupon, error) {
	q := r.db.WithContext(ctx).Order("created_at desc")
	if active {
		q = q.Where("status = ?", types.CouponStatusActive)
	} else {
		q = q.Where("status != ?", types.CouponStatusActive)
	}
	var coupons []*models.Coupon
	if err := q.Find(&coupons).Error; err != nil {
		return nil, err
	}
	return coupons, nil
}

func (r *gormRepository) GetByID(ctx context.Context, id string) (*models.Coupon, error) {
	var c models.Coupon
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *gormRepository) GetByCode(ctx context.Context, code string) (*models.Coupon, error) {
	var c models.Coupon
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *gormRepository) Create(ctx context.Context, c *models.Coupon) error {
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "duplicate key") {
			return ErrDuplicateCode
		}
		return err
	}
	return nil
}

func (r *gormRepository) UpdateActive(ctx context.Context, id string, cols map[string]any) error {
	res := r.db.WithContext(ctx).Model(&models.Coupon{}).
		Where("id = ? AND status = ?", id, types.CouponStatusActive).
		Updates(cols)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrArchived
	}
	return nil
}

func (r *gormRepository) Archive(ctx context.Context, id string, status types.CouponStatus, reason string, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&models.Coupon{}).
		Where("id = ? AND status = ?", id, types.CouponStatusActive).
		Updates(map[string]any{
			"status":          status,
			"archived_at":     at,
			"archived_reason": reason,
		})
	if res.Error != nil {
		return res.Error
	}
	// Zero rows means someone else archived first; the end state is the same.
	return nil
}

func (r *gormRepository) AppendUsage(ctx context.Context, c *models.Coupon, usage models.CouponUsage) error {
	history := append(c.UsageHistory.Data(), usage)
	res := r.db.WithContext(ctx).Model(&models.Coupon{}).
		Where("id = ? AND status = ? AND used_count = ?", c.ID, types.CouponStatusActive, c.UsedCount).
		Updates(map[string]any{
			"used_count":    c.UsedCount + 1,
			"usage_history": datatypes.NewJSONType(history),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrConflict
	}
	c.UsedCount++
	c.UsageHistory = datatypes.NewJSONType(history)
	return nil
}
