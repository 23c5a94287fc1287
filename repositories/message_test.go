package repositories

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"chat-guard/domain"
	apperrors "chat-guard/errors"
)

func testRecord(chat domain.ChatID, message domain.MessageID, createdAt time.Time) domain.MessageRecord {
	return domain.MessageRecord{
		Message:   message,
		Chat:      chat,
		User:      42,
		Text:      "this message will self destruct in 48 hours",
		CreatedAt: createdAt,
	}
}

func Test_Save_RejectsDuplicate(t *testing.T) {
	req := require.New(t)
	repo := NewMessageRepository(openTestDB(t), slog.Default())
	record := testRecord("-1001234", 100, time.Now().UTC())

	req.NoError(repo.Save(record))
	req.ErrorIs(repo.Save(record), apperrors.ErrDuplicateMessage)
}

func Test_Update_RewritesTextAndStampsEditedAt(t *testing.T) {
	req := require.New(t)
	repo := NewMessageRepository(openTestDB(t), slog.Default())
	createdAt := time.Now().UTC().Truncate(time.Millisecond)
	record := testRecord("-1001234", 100, createdAt)
	req.NoError(repo.Save(record))

	editedAt := createdAt.Add(5 * time.Minute)
	updated, err := repo.Update(record.Chat, record.Message, "new text", editedAt)
	req.NoError(err)
	req.Equal("new text", updated.Text)
	req.NotNil(updated.EditedAt)
	req.Equal(editedAt, *updated.EditedAt)
	req.Equal(createdAt, updated.CreatedAt)
	req.Equal(record.User, updated.User)
}

func Test_Update_UnknownMessage(t *testing.T) {
	req := require.New(t)
	repo := NewMessageRepository(openTestDB(t), slog.Default())

	_, err := repo.Update("-1001234", 100, "text", time.Now().UTC())
	req.ErrorIs(err, apperrors.ErrMessageNotFound)
}

func Test_PurgeOlderThan_CutoffBoundary(t *testing.T) {
	req := require.New(t)
	repo := NewMessageRepository(openTestDB(t), slog.Default())
	now := time.Now().UTC()

	expired := testRecord("-1001234", 100, now.Add(-49*time.Hour))
	surviving := testRecord("-1001234", 101, now.Add(-47*time.Hour))
	req.NoError(repo.Save(expired))
	req.NoError(repo.Save(surviving))

	purged, err := repo.PurgeOlderThan(now.Add(-48 * time.Hour))
	req.NoError(err)
	req.Equal([]domain.MessageKey{{Chat: expired.Chat, Message: expired.Message}}, purged)

	// The surviving snapshot is still editable, the expired one is gone.
	_, err = repo.Update(surviving.Chat, surviving.Message, "still here", now)
	req.NoError(err)
	_, err = repo.Update(expired.Chat, expired.Message, "gone", now)
	req.ErrorIs(err, apperrors.ErrMessageNotFound)
}

func Test_PurgeOlderThan_KeysOffOriginalCreation(t *testing.T) {
	req := require.New(t)
	repo := NewMessageRepository(openTestDB(t), slog.Default())
	now := time.Now().UTC()

	// An edit one hour ago must not rescue a snapshot created 49h ago.
	record := testRecord("-1001234", 100, now.Add(-49*time.Hour))
	req.NoError(repo.Save(record))
	_, err := repo.Update(record.Chat, record.Message, "edited recently", now.Add(-1*time.Hour))
	req.NoError(err)

	purged, err := repo.PurgeOlderThan(now.Add(-48 * time.Hour))
	req.NoError(err)
	req.Len(purged, 1)
	req.Equal(record.Message, purged[0].Message)
}

func Test_PurgeOlderThan_EmptyStore(t *testing.T) {
	req := require.New(t)
	repo := NewMessageRepository(openTestDB(t), slog.Default())

	purged, err := repo.PurgeOlderThan(time.Now().UTC())
	req.NoError(err)
	req.Empty(purged)
}

func Test_MessageKeys(t *testing.T) {
	req := require.New(t)
	req.Equal("msg:-1001234:100", string(messageKey("-1001234", 100)))

	at := time.Unix(0, 1756400000000000000).UTC()
	req.Equal("msgts:1756400000000000000:-1001234:100", string(timeIndexKey(at, "-1001234", 100)))
}

func Test_ParseTimeIndexKey(t *testing.T) {
	req := require.New(t)

	key := string(timeIndexKey(time.Now().UTC(), "-1001234", 100))
	parsed, ok := parseTimeIndexKey(key)
	req.True(ok)
	req.Equal(domain.ChatID("-1001234"), parsed.Chat)
	req.Equal(domain.MessageID(100), parsed.Message)

	// A colon inside the chat identifier still parses: the message id
	// is bound to the last colon.
	key = string(timeIndexKey(time.Now().UTC(), "telegram:-1001234", 100))
	parsed, ok = parseTimeIndexKey(key)
	req.True(ok)
	req.Equal(domain.ChatID("telegram:-1001234"), parsed.Chat)
	req.Equal(domain.MessageID(100), parsed.Message)

	_, ok = parseTimeIndexKey("msg:-1001234:100")
	req.False(ok)
	_, ok = parseTimeIndexKey("msgts:garbage")
	req.False(ok)
}
