package message

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

func newTestRepo(t *testing.T) (*gormMessageRepository, uint) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "messages_test.db")
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Conversation{}, &domain.Message{}))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	conv := &domain.Conversation{Title: "test"}
	require.NoError(t, db.Create(conv).Error)

	// Every message in a test shares one timestamp so ordering falls back to id.
	frozen := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	return &gormMessageRepository{db: db, now: func() time.Time { return frozen }}, conv.ID
}

func TestCreateRequiresConversation(t *testing.T) {
	repo, _ := newTestRepo(t)
	_, err := repo.Create(context.Background(), &domain.Message{ConversationID: 999, Text: "hello"})
	assert.ErrorIs(t, err, ErrUnknownConversation)
}

func TestCreateValidates(t *testing.T) {
	repo, convID := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, &domain.Message{ConversationID: convID, Text: "   "})
	assert.ErrorIs(t, err, domain.ErrTextEmpty)

	_, err = repo.Create(ctx, &domain.Message{ConversationID: convID, Role: "narrator", Text: "hi"})
	assert.Error(t, err)

	created, err := repo.Create(ctx, &domain.Message{ConversationID: convID, Text: "hi"})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, created.Role)
}

func TestPaginationKeepsTranscriptOrder(t *testing.T) {
	repo, convID := newTestRepo(t)
	ctx := context.Background()

	var ids []uint
	for _, text := range []string{"one", "two", "three", "four"} {
		m, err := repo.Create(ctx, &domain.Message{ConversationID: convID, Role: domain.RoleUser, Text: text})
		require.NoError(t, err)
		ids = append(ids, m.ID)
	}

	all, err := repo.FindByConversationIDWithPagination(ctx, convID, 0, 10)
	require.NoError(t, err)
	require.Len(t, all, 4)
	for i, m := range all {
		assert.Equal(t, ids[i], m.ID)
	}

	page, err := repo.FindByConversationIDWithPagination(ctx, convID, 2, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "three", page[0].Text)

	recent, err := repo.FindRecent(ctx, convID, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "three", recent[0].Text)
	assert.Equal(t, "four", recent[1].Text)

	_, err = repo.FindByConversationIDWithPagination(ctx, convID, -1, 1)
	assert.Error(t, err)
}

func TestUpdateAndDelete(t *testing.T) {
	repo, convID := newTestRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, &domain.Message{ConversationID: convID, Text: "draft"})
	require.NoError(t, err)

	updated, err := repo.UpdateText(ctx, created.ID, "final")
	require.NoError(t, err)
	assert.Equal(t, "final", updated.Text)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))

	_, err = repo.UpdateText(ctx, created.ID, "")
	assert.ErrorIs(t, err, domain.ErrTextEmpty)

	require.NoError(t, repo.Delete(ctx, created.ID))
	_, err = repo.FindByID(ctx, created.ID)
	assert.ErrorIs(t, err, ErrMessageNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, created.ID), ErrMessageNotFound)

	count, err := repo.CountByConversationID(ctx, convID)
	require.NoError(t, err)
	assert.Zero(t, count)
}
