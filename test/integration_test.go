package test

import (
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"chat-guard/commands"
	"chat-guard/contract"
	"chat-guard/domain"
	"chat-guard/domain/event"
	"chat-guard/mocks"
	"chat-guard/moderation"
	"chat-guard/observability"
	"chat-guard/repositories"
	"chat-guard/runtime/workers"
)

const (
	ownerID domain.UserID = 1
	chatID  domain.ChatID = "-1001234"
	userID  domain.UserID = 42
)

func Test_Scenario(t *testing.T) {
	ctx := context.Background()
	req := require.New(t)
	// Reduced to 16 Mo for testing (avoid 20 Go of storage)
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).
		WithLoggingLevel(badger.ERROR).
		WithValueLogFileSize(16 << 20))
	req.NoError(err)
	t.Cleanup(func() { db.Close() })

	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	stats := observability.NewStats()
	access := repositories.NewAccessRepository(db, ownerID)
	store := repositories.NewMessageRepository(db, log)

	ctrl := gomock.NewController(t)
	transport := mocks.NewMockTransport(ctrl)

	pipeline := moderation.NewPipeline(log, access, store, nil, moderation.NewTracker(), transport, stats, ownerID)
	dispatcher := commands.NewDispatcher(log, access, transport, stats, ownerID, commands.Capabilities{ExtendedAdmin: true})
	retention := workers.NewRetentionWorker(store, nil, stats, log,
		workers.DefaultRetentionHorizon, workers.DefaultSweepInterval)

	// 1. Messages from an unapproved chat pass through untouched.
	longText := strings.TrimSpace(strings.Repeat("word ", 45))
	pipeline.Handle(ctx, event.Message{Chat: chatID, User: userID, Message: 1, Text: longText, At: time.Now().UTC()})
	req.Zero(stats.Snapshot().Observed)

	// 2. The owner approves the chat through the command surface.
	transport.EXPECT().SendMessage(gomock.Any(), chatID, "Chat ID -1001234 has been approved.").Return(nil)
	dispatcher.Dispatch(ctx, event.Command{Chat: chatID, User: ownerID, Text: "/approve -1001234", At: time.Now().UTC()})

	approved, err := access.IsChatApproved(chatID)
	req.NoError(err)
	req.True(approved)

	// 3. Three oversized messages: three deletions, one notification.
	transport.EXPECT().DeleteMessage(gomock.Any(), chatID, gomock.Any()).Return(nil).Times(3)
	transport.EXPECT().ResolveUser(gomock.Any(), userID).
		Return(contract.UserDisplay{Name: "Bob", Mention: "@bob"}, nil)
	transport.EXPECT().SendMessage(gomock.Any(), chatID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ domain.ChatID, text string) error {
			req.Contains(text, "@bob")
			return nil
		})
	for i := int64(2); i <= 4; i++ {
		pipeline.Handle(ctx, event.Message{
			Chat: chatID, User: userID, Message: domain.MessageID(i), Text: longText, At: time.Now().UTC(),
		})
	}

	snapshot := stats.Snapshot()
	req.Equal(uint64(3), snapshot.Deleted)
	req.Equal(uint64(1), snapshot.Notified)

	// 4. A compliant message is stored and its edit is applied in place.
	createdAt := time.Now().UTC()
	pipeline.Handle(ctx, event.Message{Chat: chatID, User: userID, Message: 5, Text: "a short message", At: createdAt})
	pipeline.Handle(ctx, event.Message{
		Chat: chatID, User: userID, Message: 5, Text: "short message",
		At: createdAt, Edited: true, EditedAt: createdAt.Add(time.Minute),
	})

	snapshot = stats.Snapshot()
	req.Equal(uint64(1), snapshot.Stored)
	req.Equal(uint64(1), snapshot.Updated)

	// 5. A retention sweep leaves the fresh snapshot alone.
	retention.Sweep()
	req.Zero(stats.Snapshot().Purged)

	// 6. An older snapshot planted behind the horizon is purged.
	req.NoError(store.Save(domain.MessageRecord{
		Chat: chatID, User: userID, Message: 6, Text: "stale",
		CreatedAt: time.Now().UTC().Add(-49 * time.Hour),
	}))
	retention.Sweep()
	req.Equal(uint64(1), stats.Snapshot().Purged)
}
