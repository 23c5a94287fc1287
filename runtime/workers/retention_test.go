package workers

import (
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"chat-guard/domain"
	"chat-guard/mocks"
	"chat-guard/observability"
)

func TestRetentionWorker_SweepUsesHorizonCutoff(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	store := mocks.NewMockIMessageRepository(ctrl)
	stats := observability.NewStats()

	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	worker := NewRetentionWorker(store, nil, stats, slog.Default(), DefaultRetentionHorizon, DefaultSweepInterval)
	worker.now = func() time.Time { return now }

	purged := []domain.MessageKey{
		{Chat: "-1001234", Message: 100},
		{Chat: "-1001234", Message: 101},
	}
	store.EXPECT().PurgeOlderThan(now.Add(-48 * time.Hour)).Return(purged, nil)

	worker.Sweep()

	req.Equal(uint64(2), stats.Snapshot().Purged)
}

func TestRetentionWorker_SweepPrunesSearchIndex(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockIMessageRepository(ctrl)
	index := mocks.NewMockISearchIndex(ctrl)
	stats := observability.NewStats()

	worker := NewRetentionWorker(store, index, stats, slog.Default(), DefaultRetentionHorizon, DefaultSweepInterval)

	purged := []domain.MessageKey{{Chat: "-1001234", Message: 100}}
	store.EXPECT().PurgeOlderThan(gomock.Any()).Return(purged, nil)
	index.EXPECT().Remove(purged[0]).Return(nil)

	worker.Sweep()
}

func TestRetentionWorker_PurgeFailureSkipsIndexPrune(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	store := mocks.NewMockIMessageRepository(ctrl)
	index := mocks.NewMockISearchIndex(ctrl)
	stats := observability.NewStats()

	worker := NewRetentionWorker(store, index, stats, slog.Default(), DefaultRetentionHorizon, DefaultSweepInterval)

	store.EXPECT().PurgeOlderThan(gomock.Any()).Return(nil, fmt.Errorf("disk full"))

	worker.Sweep()

	snapshot := stats.Snapshot()
	req.Zero(snapshot.Purged)
	req.Equal(uint64(1), snapshot.StoreErrors)
}

func TestRetentionWorker_EmptySweepSkipsIndexPrune(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	store := mocks.NewMockIMessageRepository(ctrl)
	index := mocks.NewMockISearchIndex(ctrl)
	stats := observability.NewStats()

	worker := NewRetentionWorker(store, index, stats, slog.Default(), DefaultRetentionHorizon, DefaultSweepInterval)

	store.EXPECT().PurgeOlderThan(gomock.Any()).Return(nil, nil)

	worker.Sweep()

	req.Zero(stats.Snapshot().Purged)
}
