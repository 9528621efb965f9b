package domain

import "time"

// ColumnConfig is a user-defined Kanban board column. A column may be linked
// to a Gmail label, in which case the provider owns its membership
// (HasEmailSync); otherwise membership and order come entirely from local
// EmailOrderEntry rows.
type ColumnConfig struct {
	ID             string    `json:"id" gorm:"primaryKey"`
	UserID         string    `json:"user_id" gorm:"index:idx_column_user_active;index:idx_column_user_order;not null"`
	Name           string    `json:"name" gorm:"size:100;not null"`
	GmailLabelID   string    `json:"gmail_label_id,omitempty" gorm:"default:''"`
	GmailLabelName string    `json:"gmail_label_name,omitempty" gorm:"default:''"`
	Order          int       `json:"order" gorm:"column:display_order;index:idx_column_user_order;not null;default:0"` // dense 0-based position among active columns
	IsActive       bool      `json:"is_active" gorm:"index:idx_column_user_active;default:true"`                       // soft delete
	HasEmailSync   bool      `json:"has_email_sync" gorm:"default:false"`                                              // true iff linked to a Gmail label
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (ColumnConfig) TableName() string {
	return "kanban_column_configs"
}

// Label option values accepted by create/update column requests.
const (
	LabelOptionExisting = "existing"
	LabelOptionNew      = "new"
	LabelOptionNone     = "none"
)
