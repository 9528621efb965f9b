package usecase

import (
	"context"
	"strings"
	"testing"

	authdomain "mailboard-backend/internal/auth/domain"
	"mailboard-backend/internal/kanban/domain"
	"mailboard-backend/internal/kanban/dto"
	"mailboard-backend/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newColumnUsecase(env *testEnv) ColumnUsecase {
	return NewColumnUsecase(env.columns, env.orders, env.provider, env.users)
}

func TestCreateColumn_AppendsDisplayOrder(t *testing.T) {
	env := newTestEnv(t)
	uc := newColumnUsecase(env)
	ctx := context.Background()

	first, err := uc.CreateColumn(ctx, testUserID, dto.CreateColumnRequest{Name: "Todo", LabelOption: "none"})
	require.NoError(t, err)
	second, err := uc.CreateColumn(ctx, testUserID, dto.CreateColumnRequest{Name: "Doing", LabelOption: "none"})
	require.NoError(t, err)

	assert.Equal(t, 0, first.Order)
	assert.Equal(t, 1, second.Order)
}

func TestColumnName_LengthValidated(t *testing.T) {
	env := newTestEnv(t)
	uc := newColumnUsecase(env)
	ctx := context.Background()

	long := strings.Repeat("x", 101)
	_, err := uc.CreateColumn(ctx, testUserID, dto.CreateColumnRequest{Name: long, LabelOption: "none"})
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))

	column, err := uc.CreateColumn(ctx, testUserID, dto.CreateColumnRequest{
		Name: strings.Repeat("x", 100), LabelOption: "none",
	})
	require.NoError(t, err)

	_, err = uc.UpdateColumn(ctx, testUserID, column.ID, dto.UpdateColumnRequest{Name: long})
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
}

func TestCreateColumn_NameMustBeUnique(t *testing.T) {
	env := newTestEnv(t)
	uc := newColumnUsecase(env)
	ctx := context.Background()

	_, err := uc.CreateColumn(ctx, testUserID, dto.CreateColumnRequest{Name: "Todo", LabelOption: "none"})
	require.NoError(t, err)

	_, err = uc.CreateColumn(ctx, testUserID, dto.CreateColumnRequest{Name: "Todo", LabelOption: "none"})
	assert.True(t, apperror.IsKind(err, apperror.KindConflict))

	// Case differs, so it is a different name.
	_, err = uc.CreateColumn(ctx, testUserID, dto.CreateColumnRequest{Name: "todo", LabelOption: "none"})
	assert.NoError(t, err)
}

func TestCreateColumn_NameUniquePerUserOnly(t *testing.T) {
	env := newTestEnv(t)
	uc := newColumnUsecase(env)
	ctx := context.Background()

	other := &authdomain.User{Email: "other@example.com", AccessToken: "a", RefreshToken: "r"}
	require.NoError(t, env.users.Create(other))

	_, err := uc.CreateColumn(ctx, testUserID, dto.CreateColumnRequest{Name: "Todo", LabelOption: "none"})
	require.NoError(t, err)

	_, err = uc.CreateColumn(ctx, other.ID, dto.CreateColumnRequest{Name: "Todo", LabelOption: "none"})
	assert.NoError(t, err)
}

func TestCreateColumn_NameReusableAfterDelete(t *testing.T) {
	env := newTestEnv(t)
	uc := newColumnUsecase(env)
	ctx := context.Background()

	keep, err := uc.CreateColumn(ctx, testUserID, dto.CreateColumnRequest{Name: "Keep", LabelOption: "none"})
	require.NoError(t, err)
	_ = keep
	doomed, err := uc.CreateColumn(ctx, testUserID, dto.CreateColumnRequest{Name: "Todo", LabelOption: "none"})
	require.NoError(t, err)

	require.NoError(t, uc.DeleteColumn(ctx, testUserID, doomed.ID))

	_, err = uc.CreateColumn(ctx, testUserID, dto.CreateColumnRequest{Name: "Todo", LabelOption: "none"})
	assert.NoError(t, err)
}

func TestCreateColumn_NewLabelCreatesProviderLabel(t *testing.T) {
	env := newTestEnv(t)
	uc := newColumnUsecase(env)
	ctx := context.Background()

	column, err := uc.CreateColumn(ctx, testUserID, dto.CreateColumnRequest{Name: "Waiting", LabelOption: "new"})
	require.NoError(t, err)

	assert.True(t, column.HasEmailSync)
	assert.Equal(t, "label-Waiting", column.GmailLabelID)
	assert.Equal(t, []string{"label-Waiting"}, env.provider.createdLabels)
}

func TestCreateColumn_LabelAlreadyLinked(t *testing.T) {
	env := newTestEnv(t)
	env.provider.labels["l1"] = &domain.Label{ID: "l1", Name: "Work", Type: "user"}
	uc := newColumnUsecase(env)
	ctx := context.Background()

	_, err := uc.CreateColumn(ctx, testUserID, dto.CreateColumnRequest{Name: "Work", LabelOption: "existing", LabelID: "l1"})
	require.NoError(t, err)

	_, err = uc.CreateColumn(ctx, testUserID, dto.CreateColumnRequest{Name: "Work 2", LabelOption: "existing", LabelID: "l1"})
	assert.True(t, apperror.IsKind(err, apperror.KindConflict))
}

func TestDeleteColumn_Guards(t *testing.T) {
	env := newTestEnv(t)
	uc := newColumnUsecase(env)
	ctx := context.Background()

	only, err := uc.CreateColumn(ctx, testUserID, dto.CreateColumnRequest{Name: "Only", LabelOption: "none"})
	require.NoError(t, err)

	// Last active column cannot be deleted.
	err = uc.DeleteColumn(ctx, testUserID, only.ID)
	assert.True(t, apperror.IsKind(err, apperror.KindConflict))

	full, err := uc.CreateColumn(ctx, testUserID, dto.CreateColumnRequest{Name: "Full", LabelOption: "none"})
	require.NoError(t, err)
	require.NoError(t, env.orders.Upsert(&domain.EmailOrderEntry{
		UserID: testUserID, EmailID: "m1", ColumnID: full.ID, Order: 65536,
	}))

	// A non-empty column cannot be deleted either.
	err = uc.DeleteColumn(ctx, testUserID, full.ID)
	assert.True(t, apperror.IsKind(err, apperror.KindConflict))
}

func TestDeleteColumn_CompactsDisplayOrder(t *testing.T) {
	env := newTestEnv(t)
	uc := newColumnUsecase(env)
	ctx := context.Background()

	a, _ := uc.CreateColumn(ctx, testUserID, dto.CreateColumnRequest{Name: "A", LabelOption: "none"})
	b, _ := uc.CreateColumn(ctx, testUserID, dto.CreateColumnRequest{Name: "B", LabelOption: "none"})
	c, _ := uc.CreateColumn(ctx, testUserID, dto.CreateColumnRequest{Name: "C", LabelOption: "none"})

	require.NoError(t, uc.DeleteColumn(ctx, testUserID, b.ID))

	columns, err := uc.ListColumns(ctx, testUserID)
	require.NoError(t, err)
	require.Len(t, columns, 2)
	assert.Equal(t, a.ID, columns[0].ID)
	assert.Equal(t, 0, columns[0].Order)
	assert.Equal(t, c.ID, columns[1].ID)
	assert.Equal(t, 1, columns[1].Order)
}

func TestReorderColumns_RequiresExactActiveSet(t *testing.T) {
	env := newTestEnv(t)
	uc := newColumnUsecase(env)
	ctx := context.Background()

	a, _ := uc.CreateColumn(ctx, testUserID, dto.CreateColumnRequest{Name: "A", LabelOption: "none"})
	b, _ := uc.CreateColumn(ctx, testUserID, dto.CreateColumnRequest{Name: "B", LabelOption: "none"})

	_, err := uc.ReorderColumns(ctx, testUserID, dto.ReorderColumnsRequest{ColumnIDs: []string{a.ID}})
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))

	_, err = uc.ReorderColumns(ctx, testUserID, dto.ReorderColumnsRequest{ColumnIDs: []string{a.ID, "nope"}})
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))

	_, err = uc.ReorderColumns(ctx, testUserID, dto.ReorderColumnsRequest{ColumnIDs: []string{a.ID, a.ID}})
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))

	columns, err := uc.ReorderColumns(ctx, testUserID, dto.ReorderColumnsRequest{ColumnIDs: []string{b.ID, a.ID}})
	require.NoError(t, err)
	assert.Equal(t, b.ID, columns[0].ID)
	assert.Equal(t, 0, columns[0].Order)
	assert.Equal(t, a.ID, columns[1].ID)
	assert.Equal(t, 1, columns[1].Order)
}

func TestListAvailableLabels_ExcludesLinked(t *testing.T) {
	env := newTestEnv(t)
	env.provider.labels["l1"] = &domain.Label{ID: "l1", Name: "Work", Type: "user", MessagesTotal: 3}
	env.provider.labels["l2"] = &domain.Label{ID: "l2", Name: "Play", Type: "user"}
	uc := newColumnUsecase(env)
	ctx := context.Background()

	_, err := uc.CreateColumn(ctx, testUserID, dto.CreateColumnRequest{Name: "Work", LabelOption: "existing", LabelID: "l1"})
	require.NoError(t, err)

	labels, err := uc.ListAvailableLabels(ctx, testUserID)
	require.NoError(t, err)
	require.Len(t, labels, 1)
	assert.Equal(t, "l2", labels[0].ID)
}
