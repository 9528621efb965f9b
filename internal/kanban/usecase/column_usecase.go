package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"

	authrepo "mailboard-backend/internal/auth/repository"
	"mailboard-backend/internal/kanban/domain"
	"mailboard-backend/internal/kanban/dto"
	"mailboard-backend/internal/kanban/repository"
	"mailboard-backend/pkg/apperror"
)

type columnUsecase struct {
	columns  repository.ColumnRepository
	orders   repository.EmailOrderRepository
	provider domain.MailProvider
	creds    *credentialSource
}

// NewColumnUsecase creates a new instance of columnUsecase
func NewColumnUsecase(
	columns repository.ColumnRepository,
	orders repository.EmailOrderRepository,
	provider domain.MailProvider,
	users authrepo.UserRepository,
) ColumnUsecase {
	return &columnUsecase{
		columns:  columns,
		orders:   orders,
		provider: provider,
		creds:    newCredentialSource(users),
	}
}

func (uc *columnUsecase) ListColumns(ctx context.Context, userID string) ([]dto.ColumnResponse, error) {
	columns, err := uc.columns.FindActiveByUser(userID)
	if err != nil {
		return nil, err
	}
	result := make([]dto.ColumnResponse, 0, len(columns))
	for _, c := range columns {
		result = append(result, toColumnResponse(&c))
	}
	return result, nil
}

func (uc *columnUsecase) ListAvailableLabels(ctx context.Context, userID string) ([]dto.AvailableLabelResponse, error) {
	accessToken, refreshToken, onRefresh, err := uc.creds.tokens(userID)
	if err != nil {
		return nil, err
	}
	labels, err := uc.provider.ListLabels(ctx, accessToken, refreshToken, onRefresh)
	if err != nil {
		return nil, apperror.Upstream(err, "failed to list labels")
	}

	// Labels already claimed by an active column are filtered out so the
	// 1:1 column-label mapping holds.
	columns, err := uc.columns.FindActiveByUser(userID)
	if err != nil {
		return nil, err
	}
	linked := make(map[string]bool, len(columns))
	for _, c := range columns {
		if c.GmailLabelID != "" {
			linked[c.GmailLabelID] = true
		}
	}

	result := make([]dto.AvailableLabelResponse, 0, len(labels))
	for _, l := range labels {
		if linked[l.ID] {
			continue
		}
		result = append(result, dto.AvailableLabelResponse{
			ID:             l.ID,
			Name:           l.Name,
			Type:           l.Type,
			MessagesTotal:  l.MessagesTotal,
			MessagesUnread: l.MessagesUnread,
		})
	}
	return result, nil
}

func (uc *columnUsecase) CreateColumn(ctx context.Context, userID string, req dto.CreateColumnRequest) (*dto.ColumnResponse, error) {
	name := strings.TrimSpace(req.Name)
	if err := validateColumnName(name); err != nil {
		return nil, err
	}
	if err := uc.checkNameUnique(userID, name, ""); err != nil {
		return nil, err
	}

	column := &domain.ColumnConfig{
		UserID:   userID,
		Name:     name,
		IsActive: true,
	}

	switch req.LabelOption {
	case domain.LabelOptionExisting:
		if req.LabelID == "" {
			return nil, apperror.Validation("labelId is required for labelOption 'existing'")
		}
		existing, err := uc.columns.FindByLabelID(userID, req.LabelID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, apperror.Conflict("label is already linked to column '%s'", existing.Name)
		}
		accessToken, refreshToken, onRefresh, err := uc.creds.tokens(userID)
		if err != nil {
			return nil, err
		}
		label, err := uc.provider.GetLabel(ctx, accessToken, refreshToken, req.LabelID, onRefresh)
		if err != nil {
			return nil, apperror.Upstream(err, "failed to fetch label %s", req.LabelID)
		}
		column.GmailLabelID = label.ID
		column.GmailLabelName = label.Name
		column.HasEmailSync = true

	case domain.LabelOptionNew:
		accessToken, refreshToken, onRefresh, err := uc.creds.tokens(userID)
		if err != nil {
			return nil, err
		}
		label, err := uc.provider.CreateLabel(ctx, accessToken, refreshToken, name, onRefresh)
		if err != nil {
			return nil, apperror.Upstream(err, "failed to create label '%s'", name)
		}
		column.GmailLabelID = label.ID
		column.GmailLabelName = label.Name
		column.HasEmailSync = true

	case domain.LabelOptionNone:
		// local-only column

	default:
		return nil, apperror.Validation("invalid labelOption '%s'", req.LabelOption)
	}

	max, err := uc.columns.MaxDisplayOrder(userID)
	if err != nil {
		return nil, err
	}
	column.Order = max + 1

	if err := uc.columns.Create(column); err != nil {
		return nil, err
	}
	log.Printf("[Kanban] created column %s (%s) for user %s", column.ID, column.Name, userID)
	resp := toColumnResponse(column)
	return &resp, nil
}

func (uc *columnUsecase) UpdateColumn(ctx context.Context, userID, columnID string, req dto.UpdateColumnRequest) (*dto.ColumnResponse, error) {
	column, err := uc.columns.FindByID(userID, columnID)
	if err != nil {
		return nil, err
	}
	if column == nil {
		return nil, apperror.NotFound("column %s not found", columnID)
	}

	if req.Name != "" {
		name := strings.TrimSpace(req.Name)
		if err := validateColumnName(name); err != nil {
			return nil, err
		}
		if name != column.Name {
			if err := uc.checkNameUnique(userID, name, column.ID); err != nil {
				return nil, err
			}
			column.Name = name
		}
	}

	switch req.LabelOption {
	case "":
		// mapping unchanged
	case domain.LabelOptionNone:
		column.GmailLabelID = ""
		column.GmailLabelName = ""
		column.HasEmailSync = false
	case domain.LabelOptionExisting:
		if req.LabelID == "" {
			return nil, apperror.Validation("labelId is required for labelOption 'existing'")
		}
		if req.LabelID != column.GmailLabelID {
			existing, err := uc.columns.FindByLabelID(userID, req.LabelID)
			if err != nil {
				return nil, err
			}
			if existing != nil && existing.ID != column.ID {
				return nil, apperror.Conflict("label is already linked to column '%s'", existing.Name)
			}
			accessToken, refreshToken, onRefresh, err := uc.creds.tokens(userID)
			if err != nil {
				return nil, err
			}
			label, err := uc.provider.GetLabel(ctx, accessToken, refreshToken, req.LabelID, onRefresh)
			if err != nil {
				return nil, apperror.Upstream(err, "failed to fetch label %s", req.LabelID)
			}
			column.GmailLabelID = label.ID
			column.GmailLabelName = label.Name
			column.HasEmailSync = true
		}
	case domain.LabelOptionNew:
		accessToken, refreshToken, onRefresh, err := uc.creds.tokens(userID)
		if err != nil {
			return nil, err
		}
		label, err := uc.provider.CreateLabel(ctx, accessToken, refreshToken, column.Name, onRefresh)
		if err != nil {
			return nil, apperror.Upstream(err, "failed to create label '%s'", column.Name)
		}
		column.GmailLabelID = label.ID
		column.GmailLabelName = label.Name
		column.HasEmailSync = true
	default:
		return nil, apperror.Validation("invalid labelOption '%s'", req.LabelOption)
	}

	if err := uc.columns.Update(column); err != nil {
		return nil, err
	}
	resp := toColumnResponse(column)
	return &resp, nil
}

func (uc *columnUsecase) DeleteColumn(ctx context.Context, userID, columnID string) error {
	column, err := uc.columns.FindByID(userID, columnID)
	if err != nil {
		return err
	}
	if column == nil {
		return apperror.NotFound("column %s not found", columnID)
	}

	active, err := uc.columns.FindActiveByUser(userID)
	if err != nil {
		return err
	}
	if len(active) <= 1 {
		return apperror.Conflict("cannot delete the last column")
	}

	count, err := uc.emailCount(ctx, userID, column)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperror.Conflict("column '%s' still contains %d emails", column.Name, count)
	}

	if err := uc.columns.Deactivate(userID, columnID); err != nil {
		return err
	}
	// Order rows under a deleted column are unreachable; drop them so a
	// future column never inherits stale positions.
	if err := uc.orders.DeleteByColumn(userID, columnID); err != nil {
		return err
	}

	return uc.compactDisplayOrder(userID)
}

func (uc *columnUsecase) ReorderColumns(ctx context.Context, userID string, req dto.ReorderColumnsRequest) ([]dto.ColumnResponse, error) {
	active, err := uc.columns.FindActiveByUser(userID)
	if err != nil {
		return nil, err
	}
	if len(req.ColumnIDs) != len(active) {
		return nil, apperror.Validation("columnIds must contain exactly the %d active columns", len(active))
	}
	byID := make(map[string]*domain.ColumnConfig, len(active))
	for i := range active {
		byID[active[i].ID] = &active[i]
	}
	seen := make(map[string]bool, len(req.ColumnIDs))
	for _, id := range req.ColumnIDs {
		if seen[id] {
			return nil, apperror.Validation("duplicate column id %s", id)
		}
		seen[id] = true
		if byID[id] == nil {
			return nil, apperror.Validation("unknown column id %s", id)
		}
	}

	result := make([]dto.ColumnResponse, 0, len(req.ColumnIDs))
	for i, id := range req.ColumnIDs {
		column := byID[id]
		if column.Order != i {
			column.Order = i
			if err := uc.columns.Update(column); err != nil {
				return nil, err
			}
		}
		result = append(result, toColumnResponse(column))
	}
	return result, nil
}

// emailCount implements the non-empty deletion guard. Synced columns defer to
// the provider's label counters; local columns count their order rows.
func (uc *columnUsecase) emailCount(ctx context.Context, userID string, column *domain.ColumnConfig) (int64, error) {
	if column.HasEmailSync {
		accessToken, refreshToken, onRefresh, err := uc.creds.tokens(userID)
		if err != nil {
			return 0, err
		}
		label, err := uc.provider.GetLabel(ctx, accessToken, refreshToken, column.GmailLabelID, onRefresh)
		if err != nil {
			return 0, apperror.Upstream(err, "failed to check label %s", column.GmailLabelID)
		}
		return label.MessagesTotal, nil
	}
	return uc.orders.CountByColumn(userID, column.ID)
}

const maxColumnNameLen = 100

func validateColumnName(name string) error {
	if name == "" {
		return apperror.Validation("column name must not be empty")
	}
	if len(name) > maxColumnNameLen {
		return apperror.Validation("column name must be at most %d characters", maxColumnNameLen)
	}
	return nil
}

func (uc *columnUsecase) checkNameUnique(userID, name, exceptID string) error {
	columns, err := uc.columns.FindActiveByUser(userID)
	if err != nil {
		return err
	}
	for _, c := range columns {
		if c.ID != exceptID && c.Name == name {
			return apperror.Conflict("a column named '%s' already exists", name)
		}
	}
	return nil
}

// compactDisplayOrder renumbers active columns to a dense 0..n-1 sequence.
func (uc *columnUsecase) compactDisplayOrder(userID string) error {
	active, err := uc.columns.FindActiveByUser(userID)
	if err != nil {
		return err
	}
	for i := range active {
		if active[i].Order != i {
			active[i].Order = i
			if err := uc.columns.Update(&active[i]); err != nil {
				return fmt.Errorf("compact display order: %w", err)
			}
		}
	}
	return nil
}

func toColumnResponse(c *domain.ColumnConfig) dto.ColumnResponse {
	return dto.ColumnResponse{
		ID:             c.ID,
		Name:           c.Name,
		GmailLabelID:   c.GmailLabelID,
		GmailLabelName: c.GmailLabelName,
		Order:          c.Order,
		HasEmailSync:   c.HasEmailSync,
		CreatedAt:      c.CreatedAt,
	}
}
