package domain

import "time"

// EmailOrderEntry is the manual position of one email within a column. The
// sort key is a fractional-indexing float: dragging an email between two
// neighbors writes the midpoint of their keys.
type EmailOrderEntry struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"uniqueIndex:idx_order_user_column_email;not null"`
	EmailID   string    `json:"email_id" gorm:"uniqueIndex:idx_order_user_column_email;not null"`
	ColumnID  string    `json:"column_id" gorm:"uniqueIndex:idx_order_user_column_email;not null"`
	Order     float64   `json:"order" gorm:"column:sort_order;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (EmailOrderEntry) TableName() string {
	return "email_kanban_orders"
}
