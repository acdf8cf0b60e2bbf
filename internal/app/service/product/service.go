package product

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/lifedash/lifedash/internal/models"
	"github.com/lifedash/lifedash/pkg/logctx"
	"github.com/lifedash/lifedash/pkg/tool"
	"github.com/lifedash/lifedash/pkg/types"
)

var ErrNotFound = errors.New("product not found")

type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewService(db *gorm.DB, log *zap.SugaredLogger) *Service {
	return &Service{db: db, log: log}
}

func (s *Service) List(ctx context.Context) ([]*models.Product, error) {
	var products []*models.Product
	if err := s.db.WithContext(ctx).Order("created_at").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

type CreateRequest struct {
	Name         string             `json:"name"`
	Price        float64            `json:"price"`
	BillingCycle types.BillingCycle `json:"billing_cycle"`
	Features     []string           `json:"features"`
}

func (s *Service) Create(ctx context.Context, req *CreateRequest) (*models.Product, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if req.Price < 0 {
		return nil, fmt.Errorf("price must not be negative")
	}
	cycle := req.BillingCycle
	if cycle == "" {
		cycle = types.BillingCycleMonthly
	}
	p := &models.Product{
		ID:           tool.GenerateUUIDV7(),
		Name:         req.Name,
		Price:        req.Price,
		BillingCycle: cycle,
		Features:     datatypes.NewJSONType(req.Features),
		Status:       types.ProductStatusActive,
	}
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return p, nil
}

type UpdateRequest struct {
	Price        *float64             `json:"price"`
	BillingCycle *types.BillingCycle  `json:"billing_cycle"`
	Features     *[]string            `json:"features"`
	Status       *types.ProductStatus `json:"status"`
}

func (s *Service) Update(ctx context.Context, id string, req *UpdateRequest) (*models.Product, error) {
	var p models.Product
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	cols := map[string]any{}
	if req.Price != nil {
		cols["price"] = *req.Price
	}
	if req.BillingCycle != nil {
		cols["billing_cycle"] = *req.BillingCycle
	}
	if req.Features != nil {
		cols["features"] = datatypes.NewJSONType(*req.Features)
	}
	if req.Status != nil {
		cols["status"] = *req.Status
	}
	if len(cols) == 0 {
		return &p, nil
	}
	if err := s.db.WithContext(ctx).Model(&p).Updates(cols).Error; err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return &p, nil
}

// Delete removes a product. Coupons and users referencing the product by
// name keep the dangling name; there is no cascade, matching the stored
// data model.
func (s *Service) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Product{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	logctx.FromCtx(ctx, s.log).Infow("product deleted", "product_id", id)
	return nil
}
