package domain

import "time"

// Priority levels. A non-pinned email may still carry a non-zero priority.
const (
	PriorityNormal = 0
	PriorityHigh   = 1
	PriorityUrgent = 2
)

// EmailPriority is the pin/urgency overlay for one email. PinnedOrder is a
// fractional sort key meaningful only while IsPinned; pinned emails sort
// ascending, smallest key on top.
type EmailPriority struct {
	ID            string    `json:"id" gorm:"primaryKey"`
	UserID        string    `json:"user_id" gorm:"uniqueIndex:idx_priority_user_email;index:idx_priority_user_column;not null"`
	EmailID       string    `json:"email_id" gorm:"uniqueIndex:idx_priority_user_email;not null"`
	ColumnID      string    `json:"column_id" gorm:"index:idx_priority_user_column"` // column the pin applies within
	IsPinned      bool      `json:"is_pinned" gorm:"default:false"`
	PinnedOrder   float64   `json:"pinned_order"`
	PriorityLevel int       `json:"priority_level" gorm:"default:0"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (EmailPriority) TableName() string {
	return "email_priorities"
}
