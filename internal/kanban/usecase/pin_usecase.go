package usecase

import (
	"context"

	"mailboard-backend/internal/kanban/domain"
	"mailboard-backend/internal/kanban/dto"
	"mailboard-backend/internal/kanban/repository"
	"mailboard-backend/pkg/apperror"
	"mailboard-backend/pkg/ordering"
)

type pinUsecase struct {
	priorities repository.PriorityRepository
}

// NewPinUsecase creates a new instance of pinUsecase
func NewPinUsecase(priorities repository.PriorityRepository) PinUsecase {
	return &pinUsecase{priorities: priorities}
}

// PinEmail pins an email within its column. Pinned emails sort by ascending
// pin key, smallest on top; pinning without a position appends to the bottom
// of the pinned section.
func (uc *pinUsecase) PinEmail(ctx context.Context, userID string, req dto.PinEmailRequest) error {
	var key float64
	if req.Position == nil {
		max, err := uc.priorities.MaxPinnedOrder(userID, req.ColumnID)
		if err != nil {
			return err
		}
		key = max + ordering.Step
	} else {
		pinned, err := uc.priorities.FindPinnedByColumn(userID, req.ColumnID)
		if err != nil {
			return err
		}
		others := make([]domain.EmailPriority, 0, len(pinned))
		for _, p := range pinned {
			if p.EmailID != req.EmailID {
				others = append(others, p)
			}
		}
		idx := *req.Position
		if idx < 0 {
			idx = 0
		}
		if idx > len(others) {
			idx = len(others)
		}
		var prev, next *float64
		if idx > 0 {
			v := others[idx-1].PinnedOrder
			prev = &v
		}
		if idx < len(others) {
			v := others[idx].PinnedOrder
			next = &v
		}
		key, err = ordering.Allocate(prev, next)
		if err != nil {
			// The pinned section is small; rewrite it with canonical keys
			// and place the new pin by index.
			keys := ordering.Spread(len(others) + 1)
			for i, p := range others {
				pos := i
				if i >= idx {
					pos = i + 1
				}
				if err := uc.priorities.UpdatePinnedOrder(p.ID, keys[pos]); err != nil {
					return err
				}
			}
			key = keys[idx]
		}
	}

	existing, err := uc.priorities.FindByEmail(userID, req.EmailID)
	if err != nil {
		return err
	}
	level := domain.PriorityNormal
	if existing != nil {
		level = existing.PriorityLevel
	}
	return uc.priorities.Upsert(&domain.EmailPriority{
		UserID:        userID,
		EmailID:       req.EmailID,
		ColumnID:      req.ColumnID,
		IsPinned:      true,
		PinnedOrder:   key,
		PriorityLevel: level,
	})
}

// UnpinEmail clears the pin flag; the stale pin key is ignored thereafter.
func (uc *pinUsecase) UnpinEmail(ctx context.Context, userID, emailID string) error {
	existing, err := uc.priorities.FindByEmail(userID, emailID)
	if err != nil {
		return err
	}
	if existing == nil || !existing.IsPinned {
		return apperror.NotFound("email %s is not pinned", emailID)
	}
	return uc.priorities.Unpin(userID, emailID)
}

func (uc *pinUsecase) SetPriority(ctx context.Context, userID string, req dto.SetPriorityRequest) error {
	if req.Level < domain.PriorityNormal || req.Level > domain.PriorityUrgent {
		return apperror.Validation("priority level must be 0, 1 or 2, got %d", req.Level)
	}

	existing, err := uc.priorities.FindByEmail(userID, req.EmailID)
	if err != nil {
		return err
	}
	priority := &domain.EmailPriority{
		UserID:        userID,
		EmailID:       req.EmailID,
		ColumnID:      req.ColumnID,
		PriorityLevel: req.Level,
	}
	if existing != nil {
		// Keep the pin state; only the level changes.
		priority.IsPinned = existing.IsPinned
		priority.PinnedOrder = existing.PinnedOrder
		if req.ColumnID == "" {
			priority.ColumnID = existing.ColumnID
		}
	}
	return uc.priorities.Upsert(priority)
}
