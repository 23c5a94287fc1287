package moderation

import (
	"chat-guard/domain"
	"hash/fnv"
	"sync"
	"time"
)

// WindowCapacity is how many recent violation timestamps are kept per
// (chat, user). Recording into a full window evicts the oldest entry,
// so the length stays pinned at capacity; callers treat a post-append
// length equal to WindowCapacity as the escalation signal, which
// therefore fires on the third violation and on every one after it.
const WindowCapacity = 3

const trackerShards = 16

type trackerKey struct {
	chat domain.ChatID
	user domain.UserID
}

type trackerShard struct {
	mu      sync.Mutex
	windows map[trackerKey][]time.Time
}

// Tracker records violation timestamps per (chat, user) in process
// memory. State lives only in this instance: a restart starts everyone
// with a clean slate, which is a deliberate property, not persistence
// left out by accident. Keys are sharded so two concurrent violations
// in unrelated chats never contend on the same lock, while two for the
// same user serialize and each observe a distinct window length.
type Tracker struct {
	shards [trackerShards]trackerShard
}

func NewTracker() *Tracker {
	t := &Tracker{}
	for i := range t.shards {
		t.shards[i].windows = make(map[trackerKey][]time.Time)
	}
	return t
}

func (t *Tracker) shard(key trackerKey) *trackerShard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key.chat))
	_, _ = h.Write([]byte(key.user.String()))
	return &t.shards[h.Sum32()%trackerShards]
}

// Record appends a violation timestamp and returns the resulting window
// length (1..WindowCapacity). The append and the length read are one
// critical section, so concurrent callers never see the same count.
func (t *Tracker) Record(chat domain.ChatID, user domain.UserID, at time.Time) int {
	key := trackerKey{chat: chat, user: user}
	s := t.shard(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	window := s.windows[key]
	if len(window) == WindowCapacity {
		copy(window, window[1:])
		window[WindowCapacity-1] = at
	} else {
		window = append(window, at)
	}
	s.windows[key] = window
	return len(window)
}

// Window returns a copy of the current violation timestamps for a key.
func (t *Tracker) Window(chat domain.ChatID, user domain.UserID) []time.Time {
	key := trackerKey{chat: chat, user: user}
	s := t.shard(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	window := s.windows[key]
	out := make([]time.Time, len(window))
	copy(out, window)
	return out
}
