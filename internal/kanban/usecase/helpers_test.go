package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	authdomain "mailboard-backend/internal/auth/domain"
	authrepo "mailboard-backend/internal/auth/repository"
	"mailboard-backend/internal/kanban/domain"
	"mailboard-backend/internal/kanban/repository"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testUserID = "user-1"

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&authdomain.User{},
		&authdomain.RefreshToken{},
		&domain.ColumnConfig{},
		&domain.EmailOrderEntry{},
		&domain.EmailPriority{},
		&domain.EmailSnooze{},
		&domain.EmailSummary{},
	))
	return db
}

// testEnv bundles the repositories and fakes most usecase tests need.
type testEnv struct {
	db         *gorm.DB
	users      authrepo.UserRepository
	columns    repository.ColumnRepository
	orders     repository.EmailOrderRepository
	priorities repository.PriorityRepository
	snoozes    repository.SnoozeRepository
	summaries  repository.SummaryRepository
	provider   *fakeProvider
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := newTestDB(t)
	env := &testEnv{
		db:         db,
		users:      authrepo.NewUserRepository(db),
		columns:    repository.NewColumnRepository(db),
		orders:     repository.NewEmailOrderRepository(db),
		priorities: repository.NewPriorityRepository(db),
		snoozes:    repository.NewSnoozeRepository(db),
		summaries:  repository.NewSummaryRepository(db),
		provider:   newFakeProvider(),
	}
	user := &authdomain.User{
		Email:        "board@example.com",
		Name:         "Board User",
		Provider:     "google",
		AccessToken:  "access-token",
		RefreshToken: "refresh-token",
		TokenExpiry:  time.Now().Add(time.Hour),
	}
	require.NoError(t, env.users.Create(user))
	require.NoError(t, db.Model(user).Update("id", testUserID).Error)
	user.ID = testUserID
	return env
}

func (e *testEnv) mustCreateColumn(t *testing.T, name, labelID string) *domain.ColumnConfig {
	t.Helper()
	max, err := e.columns.MaxDisplayOrder(testUserID)
	require.NoError(t, err)
	column := &domain.ColumnConfig{
		UserID:       testUserID,
		Name:         name,
		IsActive:     true,
		Order:        max + 1,
		GmailLabelID: labelID,
		HasEmailSync: labelID != "",
	}
	require.NoError(t, e.columns.Create(column))
	return column
}

// fakeProvider is an in-memory MailProvider. Per-email failures are injected
// through failModify / failGet.
type fakeProvider struct {
	labels      map[string]*domain.Label
	messages    map[string]*domain.MessageSummary
	details     map[string]*domain.MessageDetail
	pages       map[string]*domain.MessagePage // labelID "|" pageToken
	failModify  map[string]error
	failGet     map[string]error
	modifyCalls []modifyCall
	createdLabels []string
}

type modifyCall struct {
	emailID string
	add     []string
	remove  []string
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		labels:     map[string]*domain.Label{},
		messages:   map[string]*domain.MessageSummary{},
		details:    map[string]*domain.MessageDetail{},
		pages:      map[string]*domain.MessagePage{},
		failModify: map[string]error{},
		failGet:    map[string]error{},
	}
}

func (f *fakeProvider) addMessage(id string, date time.Time) *domain.MessageSummary {
	msg := &domain.MessageSummary{
		ID:       id,
		ThreadID: "thread-" + id,
		Subject:  "subject " + id,
		From:     id + "@example.com",
		Date:     date,
	}
	f.messages[id] = msg
	return msg
}

func (f *fakeProvider) setPage(labelID, pageToken string, page *domain.MessagePage) {
	f.pages[labelID+"|"+pageToken] = page
}

func (f *fakeProvider) ListLabels(ctx context.Context, _, _ string, _ domain.TokenUpdateFunc) ([]*domain.Label, error) {
	out := make([]*domain.Label, 0, len(f.labels))
	for _, l := range f.labels {
		out = append(out, l)
	}
	return out, nil
}

func (f *fakeProvider) GetLabel(ctx context.Context, _, _, labelID string, _ domain.TokenUpdateFunc) (*domain.Label, error) {
	l, ok := f.labels[labelID]
	if !ok {
		return nil, fmt.Errorf("label %s not found", labelID)
	}
	return l, nil
}

func (f *fakeProvider) CreateLabel(ctx context.Context, _, _, name string, _ domain.TokenUpdateFunc) (*domain.Label, error) {
	id := "label-" + name
	l := &domain.Label{ID: id, Name: name, Type: "user"}
	f.labels[id] = l
	f.createdLabels = append(f.createdLabels, id)
	return l, nil
}

func (f *fakeProvider) ListMessagesByLabel(ctx context.Context, _, _, labelID, query, pageToken string, pageSize int64, _ domain.TokenUpdateFunc) (*domain.MessagePage, error) {
	page, ok := f.pages[labelID+"|"+pageToken]
	if !ok {
		return &domain.MessagePage{}, nil
	}
	return page, nil
}

func (f *fakeProvider) GetMessage(ctx context.Context, _, _, emailID string, _ domain.TokenUpdateFunc) (*domain.MessageSummary, error) {
	if err := f.failGet[emailID]; err != nil {
		return nil, err
	}
	msg, ok := f.messages[emailID]
	if !ok {
		return nil, fmt.Errorf("message %s not found", emailID)
	}
	return msg, nil
}

func (f *fakeProvider) GetMessageDetail(ctx context.Context, _, _, emailID string, _ domain.TokenUpdateFunc) (*domain.MessageDetail, error) {
	if err := f.failGet[emailID]; err != nil {
		return nil, err
	}
	if d, ok := f.details[emailID]; ok {
		return d, nil
	}
	msg, ok := f.messages[emailID]
	if !ok {
		return nil, fmt.Errorf("message %s not found", emailID)
	}
	return &domain.MessageDetail{MessageSummary: *msg, Body: "body of " + emailID}, nil
}

func (f *fakeProvider) ModifyMessageLabels(ctx context.Context, _, _, emailID string, addLabelIDs, removeLabelIDs []string, _ domain.TokenUpdateFunc) error {
	if err := f.failModify[emailID]; err != nil {
		return err
	}
	f.modifyCalls = append(f.modifyCalls, modifyCall{emailID: emailID, add: addLabelIDs, remove: removeLabelIDs})
	return nil
}

// fakeSummarizer returns canned text, or an injected error per input.
type fakeSummarizer struct {
	calls int
	fail  error
}

func (f *fakeSummarizer) SummarizeEmail(ctx context.Context, text string) (string, error) {
	f.calls++
	if f.fail != nil {
		return "", f.fail
	}
	return "summary #" + fmt.Sprint(f.calls), nil
}
