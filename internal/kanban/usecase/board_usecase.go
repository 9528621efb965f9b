package usecase

import (
	"context"
	"errors"
	"log"
	"sort"
	"strconv"

	authrepo "mailboard-backend/internal/auth/repository"
	"mailboard-backend/internal/kanban/domain"
	"mailboard-backend/internal/kanban/dto"
	"mailboard-backend/internal/kanban/repository"
	"mailboard-backend/pkg/apperror"
	"mailboard-backend/pkg/ordering"
)

type boardUsecase struct {
	columns    repository.ColumnRepository
	orders     repository.EmailOrderRepository
	priorities repository.PriorityRepository
	snoozes    repository.SnoozeRepository
	summaries  repository.SummaryRepository
	provider   domain.MailProvider
	creds      *credentialSource
	pageSize   int
}

// NewBoardUsecase creates a new instance of boardUsecase
func NewBoardUsecase(
	columns repository.ColumnRepository,
	orders repository.EmailOrderRepository,
	priorities repository.PriorityRepository,
	snoozes repository.SnoozeRepository,
	summaries repository.SummaryRepository,
	provider domain.MailProvider,
	users authrepo.UserRepository,
	pageSize int,
) BoardUsecase {
	if pageSize <= 0 {
		pageSize = 20
	}
	return &boardUsecase{
		columns:    columns,
		orders:     orders,
		priorities: priorities,
		snoozes:    snoozes,
		summaries:  summaries,
		provider:   provider,
		creds:      newCredentialSource(users),
		pageSize:   pageSize,
	}
}

// cardEntry pairs a hydrated message with its overlay state for sorting.
type cardEntry struct {
	msg         *domain.MessageSummary
	isPinned    bool
	pinnedOrder float64
	priority    int
	hasOrder    bool
	sortOrder   float64
	index       int // position within the provider page
}

func (uc *boardUsecase) GetColumn(ctx context.Context, userID, columnID, query, pageToken string, pageSize int) (*dto.ColumnPageResponse, error) {
	column, err := uc.columns.FindByID(userID, columnID)
	if err != nil {
		return nil, err
	}
	if column == nil {
		return nil, apperror.NotFound("column %s not found", columnID)
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = uc.pageSize
	}

	var (
		messages      []*domain.MessageSummary
		nextPageToken string
		totalEstimate int64
	)
	if column.HasEmailSync {
		messages, nextPageToken, totalEstimate, err = uc.fetchSyncedPage(ctx, userID, column, query, pageToken, pageSize)
	} else {
		messages, nextPageToken, totalEstimate, err = uc.fetchLocalPage(ctx, userID, column, pageToken, pageSize)
	}
	if err != nil {
		return nil, err
	}

	emailIDs := make([]string, 0, len(messages))
	for _, m := range messages {
		emailIDs = append(emailIDs, m.ID)
	}

	priorities, err := uc.priorities.FindByEmails(userID, emailIDs)
	if err != nil {
		return nil, err
	}
	snoozed, err := uc.snoozes.FindActiveByEmails(userID, emailIDs)
	if err != nil {
		return nil, err
	}
	summaries, err := uc.summaries.FindByEmails(userID, emailIDs)
	if err != nil {
		return nil, err
	}
	orderRows, err := uc.orders.FindByColumn(userID, columnID)
	if err != nil {
		return nil, err
	}
	orderByEmail := make(map[string]domain.EmailOrderEntry, len(orderRows))
	for _, o := range orderRows {
		orderByEmail[o.EmailID] = o
	}

	entries := make([]cardEntry, 0, len(messages))
	for i, m := range messages {
		if _, isSnoozed := snoozed[m.ID]; isSnoozed {
			continue
		}
		e := cardEntry{msg: m, index: i}
		if p, ok := priorities[m.ID]; ok {
			// A pin belongs to one column; the priority level follows the
			// email everywhere.
			if p.ColumnID == columnID {
				e.isPinned = p.IsPinned
				e.pinnedOrder = p.PinnedOrder
			}
			e.priority = p.PriorityLevel
		}
		if o, ok := orderByEmail[m.ID]; ok {
			e.hasOrder = true
			e.sortOrder = o.Order
		}
		entries = append(entries, e)
	}
	sortCards(entries)

	cards := make([]dto.EmailCard, 0, len(entries))
	for _, e := range entries {
		card := toEmailCard(e.msg, e.isPinned, e.priority)
		_, card.HasSummary = summaries[e.msg.ID]
		cards = append(cards, card)
	}

	pinned, err := uc.priorities.FindPinnedByColumn(userID, columnID)
	if err != nil {
		return nil, err
	}

	return &dto.ColumnPageResponse{
		Emails:        cards,
		NextPageToken: nextPageToken,
		TotalEstimate: totalEstimate,
		PinnedCount:   len(pinned),
	}, nil
}

// fetchSyncedPage pages through the provider: the label is the membership and
// paging authority, the token is opaque.
func (uc *boardUsecase) fetchSyncedPage(ctx context.Context, userID string, column *domain.ColumnConfig, query, pageToken string, pageSize int) ([]*domain.MessageSummary, string, int64, error) {
	accessToken, refreshToken, onRefresh, err := uc.creds.tokens(userID)
	if err != nil {
		return nil, "", 0, err
	}
	page, err := uc.provider.ListMessagesByLabel(ctx, accessToken, refreshToken, column.GmailLabelID, query, pageToken, int64(pageSize), onRefresh)
	if err != nil {
		return nil, "", 0, apperror.Upstream(err, "failed to list messages for label %s", column.GmailLabelID)
	}
	return page.Messages, page.NextPageToken, page.ResultSizeEstimate, nil
}

// fetchLocalPage pages a sync-less column over its own order rows. The page
// token is a plain offset; each row is hydrated individually from the provider.
func (uc *boardUsecase) fetchLocalPage(ctx context.Context, userID string, column *domain.ColumnConfig, pageToken string, pageSize int) ([]*domain.MessageSummary, string, int64, error) {
	offset := 0
	if pageToken != "" {
		n, err := strconv.Atoi(pageToken)
		if err != nil || n < 0 {
			return nil, "", 0, apperror.Validation("invalid page token '%s'", pageToken)
		}
		offset = n
	}

	total, err := uc.orders.CountByColumn(userID, column.ID)
	if err != nil {
		return nil, "", 0, err
	}
	rows, err := uc.orders.FindByColumnPaged(userID, column.ID, offset, pageSize)
	if err != nil {
		return nil, "", 0, err
	}

	accessToken, refreshToken, onRefresh, err := uc.creds.tokens(userID)
	if err != nil {
		return nil, "", 0, err
	}
	messages := make([]*domain.MessageSummary, 0, len(rows))
	for _, row := range rows {
		msg, err := uc.provider.GetMessage(ctx, accessToken, refreshToken, row.EmailID, onRefresh)
		if err != nil {
			// The message may have been deleted upstream; skip it rather
			// than failing the whole page.
			log.Printf("[Kanban] skipping email %s in column %s: %v", row.EmailID, column.ID, err)
			continue
		}
		messages = append(messages, msg)
	}

	nextToken := ""
	if int64(offset+len(rows)) < total {
		nextToken = strconv.Itoa(offset + len(rows))
	}
	return messages, nextToken, total, nil
}

func (uc *boardUsecase) GetSnoozedColumn(ctx context.Context, userID string) ([]dto.SnoozedEmailResponse, error) {
	snoozes, err := uc.snoozes.FindActiveByUser(userID)
	if err != nil {
		return nil, err
	}
	if len(snoozes) == 0 {
		return []dto.SnoozedEmailResponse{}, nil
	}

	emailIDs := make([]string, 0, len(snoozes))
	for _, s := range snoozes {
		emailIDs = append(emailIDs, s.EmailID)
	}
	priorities, err := uc.priorities.FindByEmails(userID, emailIDs)
	if err != nil {
		return nil, err
	}
	summaries, err := uc.summaries.FindByEmails(userID, emailIDs)
	if err != nil {
		return nil, err
	}

	accessToken, refreshToken, onRefresh, err := uc.creds.tokens(userID)
	if err != nil {
		return nil, err
	}
	result := make([]dto.SnoozedEmailResponse, 0, len(snoozes))
	for _, s := range snoozes {
		msg, err := uc.provider.GetMessage(ctx, accessToken, refreshToken, s.EmailID, onRefresh)
		if err != nil {
			log.Printf("[Kanban] skipping snoozed email %s: %v", s.EmailID, err)
			continue
		}
		priority := 0
		pinned := false
		if p, ok := priorities[s.EmailID]; ok {
			priority = p.PriorityLevel
			pinned = p.IsPinned
		}
		card := toEmailCard(msg, pinned, priority)
		_, card.HasSummary = summaries[s.EmailID]
		until := s.SnoozeUntil
		card.SnoozedUntil = &until
		result = append(result, dto.SnoozedEmailResponse{
			EmailCard:      card,
			OriginalColumn: s.OriginalColumn,
			SnoozeUntil:    s.SnoozeUntil,
		})
	}
	return result, nil
}

// MoveEmailToColumn applies a cross-column move. The provider's label set is
// authoritative, so the label modification happens first; if it fails nothing
// local is touched.
func (uc *boardUsecase) MoveEmailToColumn(ctx context.Context, userID string, req dto.MoveEmailRequest) error {
	dest, err := uc.columns.FindByID(userID, req.ToColumnID)
	if err != nil {
		return err
	}
	if dest == nil {
		return apperror.NotFound("column %s not found", req.ToColumnID)
	}

	var source *domain.ColumnConfig
	if req.FromColumnID != "" {
		source, err = uc.columns.FindByID(userID, req.FromColumnID)
		if err != nil {
			return err
		}
	}

	var addLabels, removeLabels []string
	if dest.HasEmailSync {
		addLabels = append(addLabels, dest.GmailLabelID)
	}
	if source != nil && source.HasEmailSync && source.GmailLabelID != dest.GmailLabelID {
		removeLabels = append(removeLabels, source.GmailLabelID)
	}

	if len(addLabels) > 0 || len(removeLabels) > 0 {
		accessToken, refreshToken, onRefresh, err := uc.creds.tokens(userID)
		if err != nil {
			return err
		}
		err = uc.provider.ModifyMessageLabels(ctx, accessToken, refreshToken, req.EmailID, addLabels, removeLabels, onRefresh)
		if err != nil {
			return apperror.Upstream(err, "failed to move email %s", req.EmailID)
		}
	}

	if err := uc.orders.DeleteByEmailExcept(userID, req.EmailID, dest.ID); err != nil {
		return err
	}

	// A synced destination keeps the provider's ordering unless the drop
	// targeted a position. Sync-less columns have no provider order, so
	// membership there always needs a local row.
	if req.TargetIndex == nil && dest.HasEmailSync {
		return nil
	}

	key, err := uc.allocateAt(userID, dest.ID, req.EmailID, req.TargetIndex)
	if err != nil {
		return err
	}
	return uc.orders.Upsert(&domain.EmailOrderEntry{
		UserID:   userID,
		EmailID:  req.EmailID,
		ColumnID: dest.ID,
		Order:    key,
	})
}

func (uc *boardUsecase) BatchMoveEmails(ctx context.Context, userID string, req dto.BatchMoveRequest) (*dto.BatchMoveResponse, error) {
	resp := &dto.BatchMoveResponse{Results: make([]dto.MoveResult, 0, len(req.EmailIDs))}
	for _, emailID := range req.EmailIDs {
		err := uc.MoveEmailToColumn(ctx, userID, dto.MoveEmailRequest{
			EmailID:      emailID,
			FromColumnID: req.FromColumnID,
			ToColumnID:   req.ToColumnID,
		})
		if err != nil {
			resp.Failed++
			resp.Results = append(resp.Results, dto.MoveResult{EmailID: emailID, Success: false, Error: err.Error()})
			continue
		}
		resp.Success++
		resp.Results = append(resp.Results, dto.MoveResult{EmailID: emailID, Success: true})
	}
	return resp, nil
}

// ReorderEmails repositions an email inside its column. Purely local: the
// provider is never consulted for a same-column drag.
func (uc *boardUsecase) ReorderEmails(ctx context.Context, userID string, req dto.ReorderEmailsRequest) error {
	column, err := uc.columns.FindByID(userID, req.ColumnID)
	if err != nil {
		return err
	}
	if column == nil {
		return apperror.NotFound("column %s not found", req.ColumnID)
	}

	idx := req.TargetIndex
	key, err := uc.allocateAt(userID, column.ID, req.EmailID, &idx)
	if err != nil {
		return err
	}
	return uc.orders.Upsert(&domain.EmailOrderEntry{
		UserID:   userID,
		EmailID:  req.EmailID,
		ColumnID: column.ID,
		Order:    key,
	})
}

// allocateAt computes the sort key for placing emailID at targetIndex among
// the column's entries (excluding the email's own current row). A nil index
// appends. When the fractional gap at the target is exhausted the whole
// column is rewritten with canonical keys and the allocation retried.
func (uc *boardUsecase) allocateAt(userID, columnID, emailID string, targetIndex *int) (float64, error) {
	entries, err := uc.orders.FindByColumn(userID, columnID)
	if err != nil {
		return 0, err
	}
	others := make([]domain.EmailOrderEntry, 0, len(entries))
	for _, e := range entries {
		if e.EmailID != emailID {
			others = append(others, e)
		}
	}

	idx := len(others)
	if targetIndex != nil {
		idx = *targetIndex
		if idx < 0 {
			idx = 0
		}
		if idx > len(others) {
			idx = len(others)
		}
	}

	prev, next := neighborBounds(others, idx)
	key, err := ordering.Allocate(prev, next)
	if err == nil {
		return key, nil
	}
	if !errors.Is(err, ordering.ErrGapExhausted) {
		return 0, err
	}

	// Rebalance: rewrite every other entry with evenly spaced keys, then the
	// gap at the target position is Step wide and allocation cannot fail.
	log.Printf("[Kanban] rebalancing column %s for user %s", columnID, userID)
	ids := make([]string, len(others))
	for i, e := range others {
		ids[i] = e.EmailID
	}
	keys := ordering.Spread(len(others))
	if err := uc.orders.ReplaceColumnKeys(userID, columnID, ids, keys); err != nil {
		return 0, err
	}
	rebalanced := make([]domain.EmailOrderEntry, len(others))
	copy(rebalanced, others)
	for i := range rebalanced {
		rebalanced[i].Order = keys[i]
	}
	prev, next = neighborBounds(rebalanced, idx)
	return ordering.Allocate(prev, next)
}

func neighborBounds(entries []domain.EmailOrderEntry, idx int) (prev, next *float64) {
	if idx > 0 && idx-1 < len(entries) {
		v := entries[idx-1].Order
		prev = &v
	}
	if idx < len(entries) {
		v := entries[idx].Order
		next = &v
	}
	return prev, next
}

// sortCards orders a column page: pinned emails first by ascending pin key,
// then by descending priority, then manual order, then the provider's own
// (reverse chronological) order.
func sortCards(entries []cardEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.isPinned != b.isPinned {
			return a.isPinned
		}
		if a.isPinned {
			return a.pinnedOrder < b.pinnedOrder
		}
		if a.priority != b.priority {
			return a.priority > b.priority
		}
		if a.hasOrder && b.hasOrder {
			return a.sortOrder < b.sortOrder
		}
		if a.hasOrder != b.hasOrder {
			return a.hasOrder
		}
		return a.index < b.index
	})
}

func toEmailCard(m *domain.MessageSummary, isPinned bool, priority int) dto.EmailCard {
	return dto.EmailCard{
		ID:            m.ID,
		ThreadID:      m.ThreadID,
		Subject:       m.Subject,
		From:          m.From,
		FromName:      m.FromName,
		Snippet:       m.Snippet,
		Date:          m.Date,
		IsUnread:      m.IsUnread,
		IsStarred:     m.IsStarred,
		IsPinned:      isPinned,
		PriorityLevel: priority,
	}
}
