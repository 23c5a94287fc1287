package moderation

import (
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"chat-guard/contract"
	"chat-guard/domain"
	"chat-guard/domain/event"
	apperrors "chat-guard/errors"
	"chat-guard/mocks"
	"chat-guard/observability"
)

const (
	testChat  domain.ChatID    = "-1006789"
	testUser  domain.UserID    = 7
	testOwner domain.UserID    = 1
	testMsg   domain.MessageID = 100
)

type pipelineFixture struct {
	pipeline  *Pipeline
	access    *mocks.MockIAccessRepository
	store     *mocks.MockIMessageRepository
	transport *mocks.MockTransport
	stats     *observability.Stats
}

func newPipelineFixture(t *testing.T) *pipelineFixture {
	ctrl := gomock.NewController(t)
	access := mocks.NewMockIAccessRepository(ctrl)
	store := mocks.NewMockIMessageRepository(ctrl)
	transport := mocks.NewMockTransport(ctrl)
	stats := observability.NewStats()
	pipeline := NewPipeline(slog.Default(), access, store, nil, NewTracker(), transport, stats, testOwner)
	return &pipelineFixture{
		pipeline:  pipeline,
		access:    access,
		store:     store,
		transport: transport,
		stats:     stats,
	}
}

func messageEvent(user domain.UserID, text string) event.Message {
	return event.Message{
		Chat:    testChat,
		User:    user,
		Message: testMsg,
		Text:    text,
		At:      time.Now().UTC(),
	}
}

func words(n int) string {
	return strings.TrimSpace(strings.Repeat("word ", n))
}

func TestPipeline_IgnoresUnapprovedChat(t *testing.T) {
	f := newPipelineFixture(t)
	f.access.EXPECT().IsChatApproved(testChat).Return(false, nil)

	f.pipeline.Handle(context.Background(), messageEvent(testUser, words(40)))

	require.Zero(t, f.stats.Snapshot().Observed)
}

func TestPipeline_IgnoresEmptyContent(t *testing.T) {
	f := newPipelineFixture(t)
	f.access.EXPECT().IsChatApproved(testChat).Return(true, nil)

	f.pipeline.Handle(context.Background(), messageEvent(testUser, ""))

	require.Zero(t, f.stats.Snapshot().Observed)
}

func TestPipeline_SavesMessageAtLimit(t *testing.T) {
	req := require.New(t)
	f := newPipelineFixture(t)
	evt := messageEvent(testUser, words(WordLimit))

	f.access.EXPECT().IsChatApproved(testChat).Return(true, nil)
	f.store.EXPECT().Save(domain.MessageRecord{
		Message:   evt.Message,
		Chat:      evt.Chat,
		User:      evt.User,
		Text:      evt.Text,
		CreatedAt: evt.At,
	}).Return(nil)

	f.pipeline.Handle(context.Background(), evt)

	snapshot := f.stats.Snapshot()
	req.Equal(uint64(1), snapshot.Stored)
	req.Zero(snapshot.Deleted)
}

func TestPipeline_DeletesMessageOverLimit(t *testing.T) {
	req := require.New(t)
	f := newPipelineFixture(t)
	evt := messageEvent(testUser, words(WordLimit+1))

	f.access.EXPECT().IsChatApproved(testChat).Return(true, nil)
	f.access.EXPECT().IsUserApproved(testUser).Return(false, nil)
	f.transport.EXPECT().DeleteMessage(gomock.Any(), testChat, testMsg).Return(nil)

	f.pipeline.Handle(context.Background(), evt)

	snapshot := f.stats.Snapshot()
	req.Equal(uint64(1), snapshot.Deleted)
	req.Zero(snapshot.Stored)
	req.Zero(snapshot.Notified)
}

func TestPipeline_NotifiesOnThirdViolationAndEveryOneAfter(t *testing.T) {
	req := require.New(t)
	f := newPipelineFixture(t)
	evt := messageEvent(testUser, words(50))

	f.access.EXPECT().IsChatApproved(testChat).Return(true, nil).Times(4)
	f.access.EXPECT().IsUserApproved(testUser).Return(false, nil).Times(4)
	f.transport.EXPECT().DeleteMessage(gomock.Any(), testChat, testMsg).Return(nil).Times(4)
	f.transport.EXPECT().ResolveUser(gomock.Any(), testUser).
		Return(contract.UserDisplay{Name: "Bob", Mention: "@bob"}, nil).Times(2)
	f.transport.EXPECT().SendMessage(gomock.Any(), testChat, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ domain.ChatID, text string) error {
			req.Contains(text, "@bob")
			req.Contains(text, "security guidelines")
			return nil
		}).Times(2)

	ctx := context.Background()
	for i := 0; i < 4; i++ {
		f.pipeline.Handle(ctx, evt)
	}

	snapshot := f.stats.Snapshot()
	req.Equal(uint64(4), snapshot.Deleted)
	req.Equal(uint64(2), snapshot.Notified)
}

func TestPipeline_ApprovedUserKeepsLongMessage(t *testing.T) {
	f := newPipelineFixture(t)
	evt := messageEvent(testUser, words(100))

	f.access.EXPECT().IsChatApproved(testChat).Return(true, nil)
	f.access.EXPECT().IsUserApproved(testUser).Return(true, nil)
	f.store.EXPECT().Save(gomock.Any()).Return(nil)

	f.pipeline.Handle(context.Background(), evt)

	require.Equal(t, uint64(1), f.stats.Snapshot().Stored)
}

func TestPipeline_OwnerKeepsLongMessage(t *testing.T) {
	f := newPipelineFixture(t)
	evt := messageEvent(testOwner, words(100))

	f.access.EXPECT().IsChatApproved(testChat).Return(true, nil)
	f.store.EXPECT().Save(gomock.Any()).Return(nil)

	f.pipeline.Handle(context.Background(), evt)

	require.Equal(t, uint64(1), f.stats.Snapshot().Stored)
}

func TestPipeline_ExemptionLookupFailureKeepsMessage(t *testing.T) {
	req := require.New(t)
	f := newPipelineFixture(t)
	evt := messageEvent(testUser, words(50))

	f.access.EXPECT().IsChatApproved(testChat).Return(true, nil)
	f.access.EXPECT().IsUserApproved(testUser).Return(false, apperrors.ErrGatewayDown)
	f.store.EXPECT().Save(gomock.Any()).Return(nil)

	f.pipeline.Handle(context.Background(), evt)

	snapshot := f.stats.Snapshot()
	req.Zero(snapshot.Deleted)
	req.Equal(uint64(1), snapshot.Stored)
	req.Equal(uint64(1), snapshot.StoreErrors)
}

func TestPipeline_DeletionFailureStillRecordsViolation(t *testing.T) {
	req := require.New(t)
	f := newPipelineFixture(t)
	evt := messageEvent(testUser, words(50))

	f.access.EXPECT().IsChatApproved(testChat).Return(true, nil).Times(3)
	f.access.EXPECT().IsUserApproved(testUser).Return(false, nil).Times(3)
	f.transport.EXPECT().DeleteMessage(gomock.Any(), testChat, testMsg).
		Return(apperrors.ErrGatewayDown).Times(3)
	f.transport.EXPECT().ResolveUser(gomock.Any(), testUser).
		Return(contract.UserDisplay{Mention: "@bob"}, nil)
	f.transport.EXPECT().SendMessage(gomock.Any(), testChat, gomock.Any()).Return(nil)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		f.pipeline.Handle(ctx, evt)
	}

	snapshot := f.stats.Snapshot()
	req.Zero(snapshot.Deleted)
	req.Equal(uint64(3), snapshot.TransportErrors)
	req.Equal(uint64(1), snapshot.Notified)
}

func TestPipeline_EditUpdatesStoredSnapshot(t *testing.T) {
	req := require.New(t)
	f := newPipelineFixture(t)
	editedAt := time.Now().UTC()
	evt := messageEvent(testUser, "shorter text now")
	evt.Edited = true
	evt.EditedAt = editedAt

	f.access.EXPECT().IsChatApproved(testChat).Return(true, nil)
	f.store.EXPECT().Update(testChat, testMsg, evt.Text, editedAt).
		Return(domain.MessageRecord{Message: testMsg, Chat: testChat, Text: evt.Text}, nil)

	f.pipeline.Handle(context.Background(), evt)

	snapshot := f.stats.Snapshot()
	req.Equal(uint64(1), snapshot.Updated)
	req.Zero(snapshot.Stored)
}

func TestPipeline_EditOfUnknownMessageIsLoggedOnly(t *testing.T) {
	req := require.New(t)
	f := newPipelineFixture(t)
	evt := messageEvent(testUser, "short edit")
	evt.Edited = true
	evt.EditedAt = time.Now().UTC()

	f.access.EXPECT().IsChatApproved(testChat).Return(true, nil)
	f.store.EXPECT().Update(testChat, testMsg, evt.Text, evt.EditedAt).
		Return(domain.MessageRecord{}, apperrors.ErrMessageNotFound)

	f.pipeline.Handle(context.Background(), evt)

	snapshot := f.stats.Snapshot()
	req.Zero(snapshot.Updated)
	req.Equal(uint64(1), snapshot.StoreErrors)
}

func TestPipeline_SaveFailureDoesNotInterruptProcessing(t *testing.T) {
	f := newPipelineFixture(t)
	evt := messageEvent(testUser, "hello there")

	f.access.EXPECT().IsChatApproved(testChat).Return(true, nil)
	f.store.EXPECT().Save(gomock.Any()).Return(apperrors.ErrDuplicateMessage)

	f.pipeline.Handle(context.Background(), evt)

	require.Equal(t, uint64(1), f.stats.Snapshot().StoreErrors)
}

func TestPipeline_IndexesSavedRecords(t *testing.T) {
	f := newPipelineFixture(t)
	ctrl := gomock.NewController(t)
	index := mocks.NewMockISearchIndex(ctrl)
	f.pipeline.index = index
	evt := messageEvent(testUser, "hello there")

	f.access.EXPECT().IsChatApproved(testChat).Return(true, nil)
	f.store.EXPECT().Save(gomock.Any()).Return(nil)
	index.EXPECT().Index(gomock.Any()).Return(nil)

	f.pipeline.Handle(context.Background(), evt)
}

func TestWordCount(t *testing.T) {
	req := require.New(t)
	req.Equal(0, WordCount(""))
	req.Equal(0, WordCount("   \n\t "))
	req.Equal(2, WordCount("hello world"))
	req.Equal(3, WordCount("  spaced   out   words  "))
}

func TestOverLimit(t *testing.T) {
	req := require.New(t)
	req.False(OverLimit(words(WordLimit)))
	req.True(OverLimit(words(WordLimit + 1)))
}
