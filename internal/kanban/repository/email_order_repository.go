package repository

import (
	"fmt"
	"time"

	"mailboard-backend/internal/kanban/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type emailOrderRepository struct {
	db *gorm.DB
}

// NewEmailOrderRepository creates a new instance of emailOrderRepository
func NewEmailOrderRepository(db *gorm.DB) EmailOrderRepository {
	return &emailOrderRepository{db: db}
}

// Upsert writes an order entry keyed on (user, column, email). A conflicting
// row gets its sort key replaced in a single statement, so concurrent drags of
// the same email never produce duplicate rows.
func (r *emailOrderRepository) Upsert(entry *domain.EmailOrderEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	now := time.Now()
	entry.CreatedAt = now
	entry.UpdatedAt = now
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "column_id"}, {Name: "email_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"sort_order": entry.Order,
			"updated_at": now,
		}),
	}).Create(entry).Error
}

func (r *emailOrderRepository) FindByColumn(userID, columnID string) ([]domain.EmailOrderEntry, error) {
	var entries []domain.EmailOrderEntry
	err := r.db.Where("user_id = ? AND column_id = ?", userID, columnID).
		Order("sort_order ASC").
		Find(&entries).Error
	return entries, err
}

func (r *emailOrderRepository) FindByColumnPaged(userID, columnID string, offset, limit int) ([]domain.EmailOrderEntry, error) {
	var entries []domain.EmailOrderEntry
	err := r.db.Where("user_id = ? AND column_id = ?", userID, columnID).
		Order("sort_order ASC").
		Offset(offset).
		Limit(limit).
		Find(&entries).Error
	return entries, err
}

func (r *emailOrderRepository) CountByColumn(userID, columnID string) (int64, error) {
	var count int64
	err := r.db.Model(&domain.EmailOrderEntry{}).
		Where("user_id = ? AND column_id = ?", userID, columnID).
		Count(&count).Error
	return count, err
}

// ReplaceColumnKeys rewrites the sort keys of a whole column in one
// transaction. Used by rebalance after the fractional gap between two
// neighbors collapses below the usable epsilon.
func (r *emailOrderRepository) ReplaceColumnKeys(userID, columnID string, emailIDs []string, keys []float64) error {
	if len(emailIDs) != len(keys) {
		return fmt.Errorf("mismatched ids and keys: %d vs %d", len(emailIDs), len(keys))
	}
	now := time.Now()
	return r.db.Transaction(func(tx *gorm.DB) error {
		for i, emailID := range emailIDs {
			err := tx.Model(&domain.EmailOrderEntry{}).
				Where("user_id = ? AND column_id = ? AND email_id = ?", userID, columnID, emailID).
				Updates(map[string]interface{}{
					"sort_order": keys[i],
					"updated_at": now,
				}).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteByEmailExcept removes an email's order rows from every column but
// one. A moved email keeps a single position row, in its new column.
func (r *emailOrderRepository) DeleteByEmailExcept(userID, emailID, exceptColumnID string) error {
	return r.db.Where("user_id = ? AND email_id = ? AND column_id <> ?", userID, emailID, exceptColumnID).
		Delete(&domain.EmailOrderEntry{}).Error
}

func (r *emailOrderRepository) DeleteByColumn(userID, columnID string) error {
	return r.db.Where("user_id = ? AND column_id = ?", userID, columnID).
		Delete(&domain.EmailOrderEntry{}).Error
}
