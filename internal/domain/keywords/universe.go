package keywords

import (
	"time"

	"github.com/google/uuid"
)

// KeywordUniverse is the per-user planning state row. At most one per user.
// The stored lock flag is never cleared by a background process; readers
// compute effective lock state against LockedUntil.
type KeywordUniverse struct {
	ID     uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`

	IsLocked          bool       `gorm:"not null;default:false;column:is_locked" json:"is_locked"`
	LockedUntil       *time.Time `gorm:"column:locked_until" json:"locked_until,omitempty"`
	SelectionCount    int        `gorm:"not null;default:0;column:selection_count" json:"selection_count"`
	DiagnosticMessage string     `gorm:"type:text;column:diagnostic_message" json:"diagnostic_message,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (KeywordUniverse) TableName() string { return "keyword_universe" }

// EffectivelyLocked computes lock state at read time. Expiry is evaluated
// here only; the stored flag is left as written by finalize.
func (u *KeywordUniverse) EffectivelyLocked(now time.Time) bool {
	if u == nil || !u.IsLocked {
		return false
	}
	if u.LockedUntil == nil {
		return true
	}
	return now.Before(*u.LockedUntil)
}

// KeywordUniverseItem persists one processed keyword for a user.
// Keyword text is unique per user.
type KeywordUniverseItem struct {
	ID     uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_universe_item_user_keyword" json:"user_id"`

	Keyword     string  `gorm:"not null;uniqueIndex:idx_universe_item_user_keyword;column:keyword" json:"keyword"`
	Volume      int64   `gorm:"not null;default:0;column:volume" json:"volume"`
	Difficulty  string  `gorm:"not null;column:difficulty" json:"difficulty"`
	Intent      string  `gorm:"not null;column:intent" json:"intent"`
	KeywordType string  `gorm:"not null;column:keyword_type" json:"keyword_type"`
	Source      string  `gorm:"not null;column:source" json:"source"`
	Score       float64 `gorm:"not null;default:0;column:score" json:"score"`
	IsSelected  bool    `gorm:"not null;default:false;column:is_selected" json:"is_selected"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (KeywordUniverseItem) TableName() string { return "keyword_universe_item" }
