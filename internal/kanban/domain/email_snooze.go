package domain

import "time"

// EmailSnooze hides an email from its column until SnoozeUntil. One row per
// (user, email); a new snooze on the same email resets the row to a fresh
// cycle instead of inserting a second one, so there is never more than one
// active snooze per email. Snoozing never touches the provider's label set --
// it is a purely local visibility overlay.
type EmailSnooze struct {
	ID             string     `json:"id" gorm:"primaryKey"`
	UserID         string     `json:"user_id" gorm:"uniqueIndex:idx_snooze_user_email;index:idx_snooze_user_restored;not null"`
	EmailID        string     `json:"email_id" gorm:"uniqueIndex:idx_snooze_user_email;not null"`
	ThreadID       string     `json:"thread_id"`
	OriginalColumn string     `json:"original_column"` // column to reappear in after restore
	SnoozeUntil    time.Time  `json:"snooze_until" gorm:"index:idx_snooze_due_restored"`
	IsRestored     bool       `json:"is_restored" gorm:"index:idx_snooze_user_restored;index:idx_snooze_due_restored;default:false"`
	RestoredAt     *time.Time `json:"restored_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (EmailSnooze) TableName() string {
	return "email_snoozes"
}
