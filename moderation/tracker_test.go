package moderation

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"chat-guard/domain"
)

func TestTracker_WindowSaturatesAtCapacity(t *testing.T) {
	req := require.New(t)
	tracker := NewTracker()
	chat, user := chatID(), userID()
	base := time.Now().UTC()

	// First three violations count up, everything after stays pinned.
	req.Equal(1, tracker.Record(chat, user, base))
	req.Equal(2, tracker.Record(chat, user, base.Add(1*time.Minute)))
	req.Equal(3, tracker.Record(chat, user, base.Add(2*time.Minute)))
	req.Equal(3, tracker.Record(chat, user, base.Add(3*time.Minute)))
	req.Equal(3, tracker.Record(chat, user, base.Add(4*time.Minute)))
}

func TestTracker_EvictsOldestTimestamp(t *testing.T) {
	req := require.New(t)
	tracker := NewTracker()
	chat, user := chatID(), userID()
	base := time.Now().UTC()

	for i := 0; i < 4; i++ {
		tracker.Record(chat, user, base.Add(time.Duration(i)*time.Minute))
	}

	window := tracker.Window(chat, user)
	req.Len(window, WindowCapacity)
	// The oldest entry (base) is gone, the window holds minutes 1..3.
	req.Equal(base.Add(1*time.Minute), window[0])
	req.Equal(base.Add(3*time.Minute), window[2])
}

func TestTracker_KeysAreIndependent(t *testing.T) {
	req := require.New(t)
	tracker := NewTracker()
	at := time.Now().UTC()

	req.Equal(1, tracker.Record("chat-a", 1, at))
	req.Equal(1, tracker.Record("chat-b", 1, at))
	req.Equal(1, tracker.Record("chat-a", 2, at))
	req.Equal(2, tracker.Record("chat-a", 1, at))
}

// Two concurrent violations for the same user must never observe the
// same window length: Record is one critical section per key.
func TestTracker_ConcurrentRecordsSeeDistinctCounts(t *testing.T) {
	req := require.New(t)
	tracker := NewTracker()
	chat, user := chatID(), userID()

	const goroutines = 50
	counts := make(chan int, goroutines)
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			counts <- tracker.Record(chat, user, time.Now().UTC())
		}()
	}
	wg.Wait()
	close(counts)

	seen := make(map[int]int)
	for count := range counts {
		seen[count]++
	}
	req.Equal(1, seen[1])
	req.Equal(1, seen[2])
	req.Equal(goroutines-2, seen[3])
}

func chatID() domain.ChatID { return "-1001234" }
func userID() domain.UserID { return 42 }
