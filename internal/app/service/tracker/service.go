package tracker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/lifedash/lifedash/internal/models"
	"github.com/lifedash/lifedash/pkg/tool"
	"github.com/lifedash/lifedash/pkg/types"
)

var ErrEntryNotFound = errors.New("tracker entry not found")

// Service is the single storage path shared by all tracker kinds; the
// per-kind dashboards differ only in payload fields and the stats they ask
// for.
type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewService(db *gorm.DB, log *zap.SugaredLogger) *Service {
	return &Service{db: db, log: log}
}

func (s *Service) ListEntries(ctx context.Context, userID string, kind types.TrackerKind) ([]*models.TrackerEntry, error) {
	var entries []*models.TrackerEntry
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND kind = ?", userID, kind).
		Order("occurred_at desc").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list tracker entries: %w", err)
	}
	return entries, nil
}

func (s *Service) CreateEntry(ctx context.Context, userID string, kind types.TrackerKind, payload map[string]any, occurredAt time.Time) (*models.TrackerEntry, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown tracker kind: %s", kind)
	}
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}
	if payload == nil {
		payload = map[string]any{}
	}
	e := &models.TrackerEntry{
		ID:         tool.GenerateUUIDV7(),
		UserID:     userID,
		Kind:       kind,
		Payload:    datatypes.JSONMap(payload),
		OccurredAt: occurredAt,
	}
	if err := s.db.WithContext(ctx).Create(e).Error; err != nil {
		return nil, fmt.Errorf("failed to create tracker entry: %w", err)
	}
	return e, nil
}

func (s *Service) UpdateEntry(ctx context.Context, userID, id string, payload map[string]any, occurredAt *time.Time) (*models.TrackerEntry, error) {
	e, err := s.getOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		e.Payload = datatypes.JSONMap(payload)
	}
	if occurredAt != nil {
		e.OccurredAt = *occurredAt
	}
	if err := s.db.WithContext(ctx).Save(e).Error; err != nil {
		return nil, fmt.Errorf("failed to update tracker entry: %w", err)
	}
	return e, nil
}

func (s *Service) DeleteEntry(ctx context.Context, userID, id string) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.TrackerEntry{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete tracker entry: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrEntryNotFound
	}
	return nil
}

// Stats returns the derived summary for one tracker kind. field selects the
// numeric payload field to sum/average; since bounds the window.
func (s *Service) Stats(ctx context.Context, userID string, kind types.TrackerKind, field string, since time.Time) (*Summary, error) {
	entries, err := s.ListEntries(ctx, userID, kind)
	if err != nil {
		return nil, err
	}
	summary := Summarize(entries, field, since, time.Now())
	return &summary, nil
}

func (s *Service) getOwned(ctx context.Context, userID, id string) (*models.TrackerEntry, error) {
	var e models.TrackerEntry
	err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&e).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, err
	}
	return &e, nil
}
