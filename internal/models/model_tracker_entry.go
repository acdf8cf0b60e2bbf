package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/lifedash/lifedash/pkg/types"
)

// TrackerEntry is one record in a life-logging category. Payload is
// schemaless JSONB; each tracker kind stores whatever fields its form
// collects (e.g. minutes, amount, pages) and stats read them with fallback
// defaults instead of failing on missing fields.
type TrackerEntry struct {
	ID     string            `gorm:"column:id;type:uuid;primary_key" json:"id"`
	UserID string            `gorm:"column:user_id;type:uuid;not null;index:idx_user_kind_occurred,priority:1" json:"user_id"`
	Kind   types.TrackerKind `gorm:"column:kind;type:varchar(32);not null;index:idx_user_kind_occurred,priority:2" json:"kind"`

	Payload    datatypes.JSONMap `gorm:"column:payload;type:jsonb;default:'{}'" json:"payload"`
	OccurredAt time.Time         `gorm:"column:occurred_at;not null;index:idx_user_kind_occurred,priority:3" json:"occurred_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (TrackerEntry) TableName() string {
	return "tracker_entry"
}
