//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"chat-guard/domain"
	apperrors "chat-guard/errors"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/samber/lo"
)

type IMessageRepository interface {
	Save(record domain.MessageRecord) error
	Update(chat domain.ChatID, message domain.MessageID, text string, editedAt time.Time) (domain.MessageRecord, error)
	PurgeOlderThan(cutoff time.Time) ([]domain.MessageKey, error)
}

// MessageRepository persists message snapshots in BadgerDB.
// Each snapshot is written under two keys:
//  1. "msg:{chat_id}:{message_id}" holds the JSON record and serves
//     point lookups for edits.
//  2. "msgts:{timestamp_padded}:{chat_id}:{message_id}" holds the primary
//     key. The 19-digit zero padding makes lexicographic order equal
//     chronological order, so the retention purge is a prefix scan that
//     stops at the first entry younger than the cutoff.
//
// Edits rewrite only the primary key; the time index keeps the original
// creation instant, which is exactly the retention contract.
type MessageRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewMessageRepository(db *badger.DB, log *slog.Logger) *MessageRepository {
	return &MessageRepository{db: db, log: log}
}

// purgeBatchSize bounds how many snapshots a single purge transaction
// removes, keeping well clear of Badger's transaction size limit.
const purgeBatchSize = 1024

func messageKey(chat domain.ChatID, message domain.MessageID) []byte {
	return []byte("msg:" + string(chat) + ":" + message.String())
}

func timeIndexKey(createdAt time.Time, chat domain.ChatID, message domain.MessageID) []byte {
	return []byte(fmt.Sprintf("msgts:%019d:%s:%s", createdAt.UnixNano(), chat, message.String()))
}

// Save inserts a new snapshot. A second Save for the same (chat, message)
// fails with ErrDuplicateMessage; edits go through Update.
func (m *MessageRepository) Save(record domain.MessageRecord) error {
	primary := messageKey(record.Chat, record.Message)
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}
	return m.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(primary); err == nil {
			return apperrors.ErrDuplicateMessage
		} else if err != badger.ErrKeyNotFound {
			return err
		}
		if err := txn.Set(primary, data); err != nil {
			return err
		}
		return txn.Set(timeIndexKey(record.CreatedAt, record.Chat, record.Message), primary)
	})
}

// Update rewrites the text of an existing snapshot, stamps EditedAt and
// returns the updated record. The time index is untouched: retention
// keys off the original CreatedAt.
func (m *MessageRepository) Update(chat domain.ChatID, message domain.MessageID, text string, editedAt time.Time) (domain.MessageRecord, error) {
	primary := messageKey(chat, message)
	var record domain.MessageRecord
	err := m.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(primary)
		if err == badger.ErrKeyNotFound {
			return apperrors.ErrMessageNotFound
		}
		if err != nil {
			return err
		}
		if err = item.Value(func(val []byte) error {
			return json.Unmarshal(val, &record)
		}); err != nil {
			return err
		}
		record.Text = text
		record.EditedAt = lo.ToPtr(editedAt.UTC())
		data, err := json.Marshal(record)
		if err != nil {
			return err
		}
		return txn.Set(primary, data)
	})
	if err != nil {
		return domain.MessageRecord{}, err
	}
	return record, nil
}

// PurgeOlderThan removes every snapshot created before the cutoff and
// returns the keys that were deleted. Work proceeds in bounded batches;
// a partially completed purge is simply finished by the next call.
func (m *MessageRepository) PurgeOlderThan(cutoff time.Time) ([]domain.MessageKey, error) {
	var purged []domain.MessageKey
	for {
		batch, err := m.purgeBatch(cutoff)
		if err != nil {
			return purged, err
		}
		purged = append(purged, batch...)
		if len(batch) < purgeBatchSize {
			return purged, nil
		}
	}
}

func (m *MessageRepository) purgeBatch(cutoff time.Time) ([]domain.MessageKey, error) {
	var keys []domain.MessageKey
	limit := []byte(fmt.Sprintf("msgts:%019d:", cutoff.UnixNano()))
	err := m.db.Update(func(txn *badger.Txn) error {
		keys = keys[:0]
		var indexKeys [][]byte
		var primaryKeys [][]byte

		options := badger.DefaultIteratorOptions
		options.PrefetchValues = true
		it := txn.NewIterator(options)

		prefix := []byte("msgts:")
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			key := item.KeyCopy(nil)
			// Entries sort by creation time; the first one at or past
			// the cutoff ends the scan.
			if string(key) >= string(limit) {
				break
			}
			primary, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			parsed, ok := parseTimeIndexKey(string(key))
			if !ok {
				m.log.Warn("Skipping unreadable time index entry", "key", string(key))
				continue
			}
			indexKeys = append(indexKeys, key)
			primaryKeys = append(primaryKeys, primary)
			keys = append(keys, parsed)
			if len(keys) == purgeBatchSize {
				break
			}
		}
		it.Close()

		for i := range indexKeys {
			if err := txn.Delete(indexKeys[i]); err != nil {
				return err
			}
			if err := txn.Delete(primaryKeys[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("purge batch: %w", err)
	}
	return keys, nil
}

// parseTimeIndexKey recovers (chat, message) from a
// "msgts:{ts}:{chat}:{message}" key. The message id is everything after
// the last colon, so a chat identifier may itself contain colons.
func parseTimeIndexKey(key string) (domain.MessageKey, bool) {
	rest, ok := strings.CutPrefix(key, "msgts:")
	if !ok {
		return domain.MessageKey{}, false
	}
	_, rest, ok = strings.Cut(rest, ":")
	if !ok {
		return domain.MessageKey{}, false
	}
	sep := strings.LastIndex(rest, ":")
	if sep < 0 {
		return domain.MessageKey{}, false
	}
	id, err := strconv.ParseInt(rest[sep+1:], 10, 64)
	if err != nil {
		return domain.MessageKey{}, false
	}
	return domain.MessageKey{Chat: domain.ChatID(rest[:sep]), Message: domain.MessageID(id)}, true
}
