package domain

import "time"

// EmailSummary stores cached AI-generated summaries for emails
type EmailSummary struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"uniqueIndex:idx_summary_user_email;index:idx_summary_user_created;not null"`
	EmailID   string    `json:"email_id" gorm:"uniqueIndex:idx_summary_user_email;not null"`
	Summary   string    `json:"summary" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at" gorm:"index:idx_summary_user_created"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (EmailSummary) TableName() string {
	return "email_summaries"
}
