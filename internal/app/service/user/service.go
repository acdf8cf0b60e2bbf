package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/lifedash/lifedash/internal/models"
	"github.com/lifedash/lifedash/pkg/logctx"
	"github.com/lifedash/lifedash/pkg/types"
)

var ErrNotFound = errors.New("user not found")

type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewService(db *gorm.DB, log *zap.SugaredLogger) *Service {
	return &Service{db: db, log: log}
}

func (s *Service) GetByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

type ScanUsersRequest struct {
	Filters   []*types.CommonFilter `json:"filters"`
	From      int                   `json:"from"`
	Size      int                   `json:"size"`
	SortBy    string                `json:"sort_by"`
	SortOrder string                `json:"sort_order"`
}

type ScanUsersResponse struct {
	Items []*models.User `json:"items"`
	Total int64          `json:"total"`
}

// ScanUsers returns a filtered, paginated page of users for the admin list.
func (s *Service) ScanUsers(ctx context.Context, req *ScanUsersRequest) (*ScanUsersResponse, error) {
	q := s.db.WithContext(ctx).Model(&models.User{}).
		Where(clause.Where{Exprs: []clause.Expression{filtersWhere{filters: req.Filters}}})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	size := req.Size
	if size <= 0 || size > 200 {
		size = 50
	}
	sortBy := req.SortBy
	if sortBy == "" {
		sortBy = "created_at"
	}
	q = q.Order(clause.OrderByColumn{
		Column: clause.Column{Name: sortBy},
		Desc:   req.SortOrder != "asc",
	}).Offset(req.From).Limit(size)

	var items []*models.User
	if err := q.Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to scan users: %w", err)
	}
	return &ScanUsersResponse{Items: items, Total: total}, nil
}

type UpdateUserRequest struct {
	IsPremium      *bool      `json:"is_premium"`
	PlanName       *string    `json:"plan_name"`
	PremiumStartAt *time.Time `json:"premium_start_at"`
	PremiumEndAt   *time.Time `json:"premium_end_at"`
	IsAdmin        *bool      `json:"is_admin"`
}

// UpdateUser applies a partial update to premium state, plan and admin flag.
func (s *Service) UpdateUser(ctx context.Context, id string, req *UpdateUserRequest) (*models.User, error) {
	u, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	cols := map[string]any{}
	if req.IsPremium != nil {
		cols["is_premium"] = *req.IsPremium
	}
	if req.PlanName != nil {
		cols["plan_name"] = *req.PlanName
	}
	if req.PremiumStartAt != nil {
		cols["premium_start_at"] = *req.PremiumStartAt
	}
	if req.PremiumEndAt != nil {
		cols["premium_end_at"] = *req.PremiumEndAt
	}
	if req.IsAdmin != nil {
		cols["is_admin"] = *req.IsAdmin
	}
	if len(cols) == 0 {
		return u, nil
	}
	if err := s.db.WithContext(ctx).Model(u).Updates(cols).Error; err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	logctx.FromCtx(ctx, s.log).Infow("user updated", "user_id", id)
	return s.GetByID(ctx, id)
}

// filtersWhere wraps a list of filters to a single clause.Expression
type filtersWhere struct{ filters []*types.CommonFilter }

func (w filtersWhere) Build(builder clause.Builder) {
	if len(w.filters) == 0 {
		builder.WriteString("1=1")
		return
	}
	for i, f := range w.filters {
		if i > 0 {
			builder.WriteString(" AND ")
		}
		f.Build(builder)
	}
}
