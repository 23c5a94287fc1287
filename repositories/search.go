//go:generate go run go.uber.org/mock/mockgen -source=search.go -destination=../mocks/mock_search_index.go -package=mocks
package repositories

import (
	"chat-guard/domain"
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/blugelabs/bluge"
)

type ISearchIndex interface {
	Index(record domain.MessageRecord) error
	Remove(keys ...domain.MessageKey) error
	Close() error
}

// SearchIndex maintains a Bluge full-text index over the retained message
// snapshots, so operators can search the 48-hour window from the inspect
// tool. The index follows the store: written on save and edit, pruned by
// the retention sweep. It is strictly derived data; losing it costs
// nothing but search.
type SearchIndex struct {
	writer *bluge.Writer
}

func NewSearchIndex(path string) (*SearchIndex, error) {
	writer, err := bluge.OpenWriter(bluge.DefaultConfig(path))
	if err != nil {
		return nil, fmt.Errorf("opening search index: %w", err)
	}
	return &SearchIndex{writer: writer}, nil
}

func searchDocID(chat domain.ChatID, message domain.MessageID) string {
	return string(chat) + "/" + message.String()
}

func (s *SearchIndex) Index(record domain.MessageRecord) error {
	doc := bluge.NewDocument(searchDocID(record.Chat, record.Message)).
		AddField(bluge.NewTextField("text", record.Text).StoreValue()).
		AddField(bluge.NewKeywordField("chat", string(record.Chat)).StoreValue()).
		AddField(bluge.NewKeywordField("user", record.User.String()).StoreValue()).
		AddField(bluge.NewKeywordField("created", record.CreatedAt.UTC().Format(time.RFC3339)).StoreValue()).
		AddField(bluge.NewDateTimeField("created_at", record.CreatedAt))
	return s.writer.Update(doc.ID(), doc)
}

func (s *SearchIndex) Remove(keys ...domain.MessageKey) error {
	batch := bluge.NewBatch()
	for _, key := range keys {
		batch.Delete(bluge.Identifier(searchDocID(key.Chat, key.Message)))
	}
	return s.writer.Batch(batch)
}

func (s *SearchIndex) Close() error {
	return s.writer.Close()
}

// SearchHit is one matching snapshot, rebuilt from stored fields.
type SearchHit struct {
	Chat    domain.ChatID
	User    domain.UserID
	Text    string
	Created string
}

// SearchMessages runs a match query over the text of retained snapshots.
// It opens its own reader so read-only tools can search while the service
// owns the writer.
func SearchMessages(ctx context.Context, path, query string, limit int) ([]SearchHit, error) {
	reader, err := bluge.OpenReader(bluge.DefaultConfig(path))
	if err != nil {
		return nil, fmt.Errorf("opening search index: %w", err)
	}
	defer reader.Close()

	request := bluge.NewTopNSearch(limit, bluge.NewMatchQuery(query).SetField("text"))
	iterator, err := reader.Search(ctx, request)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	var hits []SearchHit
	for {
		match, err := iterator.Next()
		if err != nil {
			return nil, err
		}
		if match == nil {
			return hits, nil
		}
		var hit SearchHit
		err = match.VisitStoredFields(func(field string, value []byte) bool {
			switch field {
			case "chat":
				hit.Chat = domain.ChatID(value)
			case "user":
				if id, err := strconv.ParseInt(string(value), 10, 64); err == nil {
					hit.User = domain.UserID(id)
				}
			case "text":
				hit.Text = string(value)
			case "created":
				hit.Created = string(value)
			}
			return true
		})
		if err != nil {
			return nil, err
		}
		hits = append(hits, hit)
	}
}
