package billing

import (
	"context"
	"fmt"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/lifedash/lifedash/internal/models"
)

// Service computes billing analytics over users, coupons and products.
type Service struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Service { return &Service{db: db} }

type AnalyticsRequest struct {
	// PeriodStart bounds coupon usage and premium windows; zero means "all
	// time".
	PeriodStart time.Time `json:"period_start"`
}

// ComputeAnalytics fetches the three collections concurrently and reduces
// them in memory. O(users + coupons + products) per call, no memoization
// across period changes.
func (s *Service) ComputeAnalytics(ctx context.Context, req *AnalyticsRequest) (*Snapshot, error) {
	var (
		users    []*models.User
		coupons  []*models.Coupon
		products []*models.Product
	)

	var wg sync.WaitGroup
	errChan := make(chan error, 3)
	fetch := func(dst any, what string) {
		defer wg.Done()
		if err := s.db.WithContext(ctx).Find(dst).Error; err != nil {
			errChan <- fmt.Errorf("failed to fetch %s: %w", what, err)
		}
	}
	wg.Add(3)
	go fetch(&users, "users")
	go fetch(&coupons, "coupons")
	go fetch(&products, "products")
	wg.Wait()
	close(errChan)
	if err := <-errChan; err != nil {
		return nil, err
	}

	return ComputeSnapshot(users, coupons, products, req.PeriodStart), nil
}
