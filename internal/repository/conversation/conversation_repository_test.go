package conversation

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/iyunix/go-chatview/internal/domain"
)

// newTestDB opens a migrated SQLite database inside the test's temp dir.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "conversations_test.db")
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Conversation{}, &domain.Message{}))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// steppedClock hands out strictly increasing timestamps.
func steppedClock(start time.Time) func() time.Time {
	current := start
	return func() time.Time {
		current = current.Add(time.Second)
		return current
	}
}

func newRepo(t *testing.T) (*gormConversationRepository, *gorm.DB) {
	db := newTestDB(t)
	return &gormConversationRepository{db: db, now: steppedClock(time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC))}, db
}

func TestCreateDefaultsTitle(t *testing.T) {
	repo, _ := newRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, &domain.Conversation{})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, domain.DefaultConversationTitle, created.Title)
	assert.False(t, created.UpdatedAt.Before(created.CreatedAt))

	_, err = repo.Create(ctx, &domain.Conversation{Title: "<script>x</script>"})
	assert.ErrorIs(t, err, domain.ErrTitleUnsafe)
}

func TestFindByIDNotFound(t *testing.T) {
	repo, _ := newRepo(t)
	_, err := repo.FindByID(context.Background(), 42)
	assert.ErrorIs(t, err, ErrConversationNotFound)
}

func TestListPagesCompose(t *testing.T) {
	repo, _ := newRepo(t)
	ctx := context.Background()

	for _, title := range []string{"first", "second", "third"} {
		_, err := repo.Create(ctx, &domain.Conversation{Title: title})
		require.NoError(t, err)
	}

	both, err := repo.List(ctx, 0, 2)
	require.NoError(t, err)
	require.Len(t, both, 2)

	page1, err := repo.List(ctx, 0, 1)
	require.NoError(t, err)
	page2, err := repo.List(ctx, 1, 1)
	require.NoError(t, err)
	require.Len(t, page1, 1)
	require.Len(t, page2, 1)

	assert.NotEqual(t, page1[0].ID, page2[0].ID)
	assert.Equal(t, []uint{both[0].ID, both[1].ID}, []uint{page1[0].ID, page2[0].ID})
	assert.Equal(t, "third", both[0].Title, "most recently updated comes first")

	_, err = repo.List(ctx, -1, 2)
	assert.Error(t, err)
	_, err = repo.List(ctx, 0, MaxPageSize+1)
	assert.Error(t, err)

	empty, err := repo.List(ctx, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestUpdateTitleAdvancesUpdatedAt(t *testing.T) {
	repo, _ := newRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, &domain.Conversation{})
	require.NoError(t, err)

	renamed, err := repo.UpdateTitle(ctx, created.ID, "X")
	require.NoError(t, err)
	assert.Equal(t, "X", renamed.Title)
	assert.True(t, renamed.UpdatedAt.After(created.UpdatedAt))

	fetched, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "X", fetched.Title)
	assert.True(t, fetched.UpdatedAt.After(created.UpdatedAt))

	_, err = repo.UpdateTitle(ctx, 999, "Y")
	assert.ErrorIs(t, err, ErrConversationNotFound)
}

func TestUpdateTitleWithFrozenClock(t *testing.T) {
	repo, _ := newRepo(t)
	frozen := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return frozen }
	ctx := context.Background()

	created, err := repo.Create(ctx, &domain.Conversation{})
	require.NoError(t, err)

	renamed, err := repo.UpdateTitle(ctx, created.ID, "again")
	require.NoError(t, err)
	assert.True(t, renamed.UpdatedAt.After(created.UpdatedAt))
}

func TestDeleteCascadesMessages(t *testing.T) {
	repo, db := newRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, &domain.Conversation{})
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		require.NoError(t, db.Create(&domain.Message{ConversationID: created.ID, Role: domain.RoleUser, Text: "hi"}).Error)
	}

	require.NoError(t, repo.Delete(ctx, created.ID))

	var remaining int64
	require.NoError(t, db.Model(&domain.Message{}).Where("conversation_id = ?", created.ID).Count(&remaining).Error)
	assert.Zero(t, remaining)

	assert.ErrorIs(t, repo.Delete(ctx, created.ID), ErrConversationNotFound)
}

func TestTouchUpdatedAt(t *testing.T) {
	repo, _ := newRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, &domain.Conversation{})
	require.NoError(t, err)
	require.NoError(t, repo.TouchUpdatedAt(ctx, created.ID))

	fetched, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, fetched.UpdatedAt.After(created.UpdatedAt))

	assert.ErrorIs(t, repo.TouchUpdatedAt(ctx, 77), ErrConversationNotFound)
}

func TestTouchAfterRenameNeverMovesBackwards(t *testing.T) {
	repo, _ := newRepo(t)
	frozen := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return frozen }
	ctx := context.Background()

	created, err := repo.Create(ctx, &domain.Conversation{})
	require.NoError(t, err)
	renamed, err := repo.UpdateTitle(ctx, created.ID, "renamed")
	require.NoError(t, err)
	require.True(t, renamed.UpdatedAt.After(frozen))

	require.NoError(t, repo.TouchUpdatedAt(ctx, created.ID))

	fetched, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, fetched.UpdatedAt.After(renamed.UpdatedAt),
		"touch moved updated_at from %v to %v", renamed.UpdatedAt, fetched.UpdatedAt)
}
