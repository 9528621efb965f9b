package repository

import (
	"errors"
	"time"

	"mailboard-backend/internal/kanban/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type columnRepository struct {
	db *gorm.DB
}

// NewColumnRepository creates a new instance of columnRepository
func NewColumnRepository(db *gorm.DB) ColumnRepository {
	return &columnRepository{db: db}
}

func (r *columnRepository) Create(column *domain.ColumnConfig) error {
	if column.ID == "" {
		column.ID = uuid.New().String()
	}
	column.CreatedAt = time.Now()
	column.UpdatedAt = time.Now()
	return r.db.Create(column).Error
}

func (r *columnRepository) Update(column *domain.ColumnConfig) error {
	column.UpdatedAt = time.Now()
	return r.db.Save(column).Error
}

func (r *columnRepository) FindByID(userID, columnID string) (*domain.ColumnConfig, error) {
	var column domain.ColumnConfig
	err := r.db.Where("id = ? AND user_id = ? AND is_active = ?", columnID, userID, true).
		First(&column).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &column, nil
}

func (r *columnRepository) FindActiveByUser(userID string) ([]domain.ColumnConfig, error) {
	var columns []domain.ColumnConfig
	err := r.db.Where("user_id = ? AND is_active = ?", userID, true).
		Order("display_order ASC").
		Find(&columns).Error
	return columns, err
}

func (r *columnRepository) FindByLabelID(userID, labelID string) (*domain.ColumnConfig, error) {
	var column domain.ColumnConfig
	err := r.db.Where("user_id = ? AND gmail_label_id = ? AND is_active = ?", userID, labelID, true).
		First(&column).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &column, nil
}

func (r *columnRepository) MaxDisplayOrder(userID string) (int, error) {
	var max *int
	err := r.db.Model(&domain.ColumnConfig{}).
		Where("user_id = ? AND is_active = ?", userID, true).
		Select("MAX(display_order)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	if max == nil {
		return -1, nil
	}
	return *max, nil
}

// Deactivate soft-deletes a column. Order rows under the column are left in
// place; they become unreachable and are cleaned up by the usecase.
func (r *columnRepository) Deactivate(userID, columnID string) error {
	return r.db.Model(&domain.ColumnConfig{}).
		Where("id = ? AND user_id = ?", columnID, userID).
		Updates(map[string]interface{}{
			"is_active":  false,
			"updated_at": time.Now(),
		}).Error
}
