package repositories

import (
	"log/slog"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *badger.DB {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).
		WithLoggingLevel(badger.ERROR).
		WithValueLogFileSize(16 << 20))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestMessageRepository_Store_And_Fetch_Newest_First(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openTestDB(t), slog.Default(), nil)
	thread := "thread-42"
	at := time.Now().UTC()

	stored := []StoredMessage{
		{uuid.New(), thread, "Alice", "first", at},
		{uuid.New(), thread, "Bob", "second", at.Add(1 * time.Minute)},
		{uuid.New(), thread, "Clara", "third", at.Add(2 * time.Minute)},
	}
	for _, msg := range stored {
		req.NoError(repository.StoreMessage(msg))
	}
	// A message in another thread must never bleed in
	req.NoError(repository.StoreMessage(StoredMessage{uuid.New(), "other", "Eve", "noise", at}))

	fetched, cursor, err := repository.GetMessages(thread, nil)
	req.NoError(err)
	req.NotNil(cursor)
	req.Len(fetched, len(stored))
	req.Equal("third", fetched[0].Content)
	req.Equal("first", fetched[2].Content)
}

func TestMessageRepository_Cursor_Pages_Without_Overlap(t *testing.T) {
	req := require.New(t)
	limit := 2
	repository := NewMessageRepository(openTestDB(t), slog.Default(), &limit)
	thread := "thread-42"
	at := time.Now().UTC()

	for i, content := range []string{"first", "second", "third"} {
		req.NoError(repository.StoreMessage(StoredMessage{
			ID: uuid.New(), ThreadID: thread, Author: "Alice",
			Content: content, At: at.Add(time.Duration(i) * time.Minute),
		}))
	}

	// First page: the two newest
	page1, cursor, err := repository.GetMessages(thread, nil)
	req.NoError(err)
	req.Len(page1, limit)
	req.Equal("third", page1[0].Content)
	req.Equal("second", page1[1].Content)

	// Second page resumes after the cursor
	page2, _, err := repository.GetMessages(thread, cursor)
	req.NoError(err)
	req.Len(page2, 1)
	req.Equal("first", page2[0].Content)
}
