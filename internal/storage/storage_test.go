package storage_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"mentor-backend/internal/database"
	"mentor-backend/internal/storage"
)

func newMemoryStore(t *testing.T) storage.Store {
	return storage.NewMemoryStore()
}

func newDatabaseStore(t *testing.T) storage.Store {
	db, err := gorm.Open(sqlite.Open(database.SqliteDSN("file::memory:")), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, database.GetMigrator(db).Migrate())

	return storage.NewDatabaseStore(db)
}

// Both implementations share one contract; the suite runs against each so
// that behavior differences show up as failures instead of surprises.
func TestMemoryStoreContract(t *testing.T) {
	runStoreContract(t, newMemoryStore)
}

func TestDatabaseStoreContract(t *testing.T) {
	runStoreContract(t, newDatabaseStore)
}

func runStoreContract(t *testing.T, newStore func(t *testing.T) storage.Store) {
	ctx := context.Background()

	t.Run("FreshConversationTimestampsMatch", func(t *testing.T) {
		store := newStore(t)

		conversation, err := store.CreateConversation(ctx, "Career advice")
		require.NoError(t, err)

		assert.Positive(t, conversation.ID)
		assert.Equal(t, "Career advice", conversation.Title)
		assert.True(t, conversation.CreatedAt.Equal(conversation.UpdatedAt))
	})

	t.Run("AbsentConversationIsNotAnError", func(t *testing.T) {
		store := newStore(t)

		conversation, err := store.GetConversation(ctx, 12345)
		require.NoError(t, err)
		assert.Nil(t, conversation)
	})

	t.Run("MessageRoundTrip", func(t *testing.T) {
		store := newStore(t)

		conversation, err := store.CreateConversation(ctx, "Round trip")
		require.NoError(t, err)

		content := "I want to become a data scientist — où commencer?"
		created, err := store.CreateMessage(ctx, conversation.ID, database.RoleUser, content)
		require.NoError(t, err)
		assert.Positive(t, created.ID)

		messages, err := store.GetMessagesByConversation(ctx, conversation.ID)
		require.NoError(t, err)
		require.Len(t, messages, 1)
		assert.Equal(t, content, messages[0].Content)
		assert.Equal(t, database.RoleUser, messages[0].Role)
		assert.Equal(t, conversation.ID, messages[0].ConversationID)
	})

	t.Run("MessageTouchesConversationTimestamp", func(t *testing.T) {
		store := newStore(t)

		conversation, err := store.CreateConversation(ctx, "Touch test")
		require.NoError(t, err)

		time.Sleep(10 * time.Millisecond)

		_, err = store.CreateMessage(ctx, conversation.ID, database.RoleUser, "hello")
		require.NoError(t, err)

		touched, err := store.GetConversation(ctx, conversation.ID)
		require.NoError(t, err)
		require.NotNil(t, touched)
		assert.True(t, touched.UpdatedAt.After(conversation.UpdatedAt))
		assert.False(t, touched.UpdatedAt.Before(touched.CreatedAt))
	})

	t.Run("MessagesOrderedByCreation", func(t *testing.T) {
		store := newStore(t)

		conversation, err := store.CreateConversation(ctx, "Ordering")
		require.NoError(t, err)

		contents := []string{"first", "second", "third"}
		for _, content := range contents {
			_, err := store.CreateMessage(ctx, conversation.ID, database.RoleUser, content)
			require.NoError(t, err)
			time.Sleep(5 * time.Millisecond)
		}

		messages, err := store.GetMessagesByConversation(ctx, conversation.ID)
		require.NoError(t, err)
		require.Len(t, messages, 3)
		for i, content := range contents {
			assert.Equal(t, content, messages[i].Content)
		}
		for i := 1; i < len(messages); i++ {
			assert.False(t, messages[i].CreatedAt.Before(messages[i-1].CreatedAt))
		}
	})

	t.Run("ConversationsOrderedByMostRecentActivity", func(t *testing.T) {
		store := newStore(t)

		first, err := store.CreateConversation(ctx, "first")
		require.NoError(t, err)
		time.Sleep(5 * time.Millisecond)
		_, err = store.CreateConversation(ctx, "second")
		require.NoError(t, err)
		time.Sleep(5 * time.Millisecond)
		_, err = store.CreateConversation(ctx, "third")
		require.NoError(t, err)
		time.Sleep(5 * time.Millisecond)

		// A new message moves the oldest conversation to the front.
		_, err = store.CreateMessage(ctx, first.ID, database.RoleUser, "bump")
		require.NoError(t, err)

		conversations, err := store.GetConversations(ctx)
		require.NoError(t, err)
		require.Len(t, conversations, 3)
		assert.Equal(t, []string{"first", "third", "second"}, []string{
			conversations[0].Title, conversations[1].Title, conversations[2].Title,
		})
		for i := 1; i < len(conversations); i++ {
			assert.False(t, conversations[i].UpdatedAt.After(conversations[i-1].UpdatedAt))
		}
	})

	t.Run("EmptyConversationHasEmptyMessageList", func(t *testing.T) {
		store := newStore(t)

		messages, err := store.GetMessagesByConversation(ctx, 999)
		require.NoError(t, err)
		assert.NotNil(t, messages)
		assert.Empty(t, messages)
	})

	t.Run("RenameConversation", func(t *testing.T) {
		store := newStore(t)

		conversation, err := store.CreateConversation(ctx, "old title")
		require.NoError(t, err)

		require.NoError(t, store.UpdateConversationTitle(ctx, conversation.ID, "new title"))

		renamed, err := store.GetConversation(ctx, conversation.ID)
		require.NoError(t, err)
		require.NotNil(t, renamed)
		assert.Equal(t, "new title", renamed.Title)
	})

	t.Run("RenameUnknownConversationSucceedsQuietly", func(t *testing.T) {
		store := newStore(t)

		assert.NoError(t, store.UpdateConversationTitle(ctx, 4242, "whatever"))
	})
}

// The dangling reference behavior is where the two backends intentionally
// diverge; each side of the divergence is pinned down here.

func TestMemoryStoreToleratesDanglingMessages(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()

	message, err := store.CreateMessage(ctx, 42, database.RoleUser, "orphan")
	require.NoError(t, err)
	assert.Positive(t, message.ID)

	messages, err := store.GetMessagesByConversation(ctx, 42)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "orphan", messages[0].Content)
}

func TestDatabaseStoreRejectsDanglingMessages(t *testing.T) {
	ctx := context.Background()
	store := newDatabaseStore(t)

	_, err := store.CreateMessage(ctx, 42, database.RoleUser, "orphan")
	require.Error(t, err)

	messages, err := store.GetMessagesByConversation(ctx, 42)
	require.NoError(t, err)
	assert.Empty(t, messages)
}
