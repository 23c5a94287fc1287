package internal

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"chat-guard/domain"

	"github.com/dgraph-io/badger/v4"
)

//go:embed inspect.html
var templatesFS embed.FS

// InspectRow is one stored snapshot rendered for the debug page.
type InspectRow struct {
	Key     string
	Chat    string
	User    string
	Created string
	Edited  string
	Text    string
}

type StatsProvider func() map[string]any

type PageData struct {
	Prefix string
	Items  []InspectRow
	Stats  map[string]any
}

// StartDebugServer serves a read-only HTML view over the badger store,
// default scoped to the "msg:" snapshot keys, with live counters from
// the stats provider. Operator tooling only, never exposed beyond the
// host by default configuration.
func StartDebugServer(db *badger.DB, log *slog.Logger, port int, statsProvider StatsProvider) {
	mux := http.NewServeMux()
	tmpl := template.Must(template.ParseFS(templatesFS, "inspect.html"))

	mux.HandleFunc("/inspect", func(w http.ResponseWriter, r *http.Request) {
		prefix := r.URL.Query().Get("prefix")
		if prefix == "" {
			prefix = "msg:"
		}

		data := PageData{
			Prefix: prefix,
			Stats:  make(map[string]any),
		}
		if statsProvider != nil {
			data.Stats = statsProvider()
		}

		_ = db.View(func(txn *badger.Txn) error {
			it := txn.NewIterator(badger.DefaultIteratorOptions)
			defer it.Close()
			for it.Seek([]byte(prefix)); it.ValidForPrefix([]byte(prefix)); it.Next() {
				item := it.Item()
				_ = item.Value(func(val []byte) error {
					data.Items = append(data.Items, mapRow(string(item.Key()), val))
					return nil
				})
			}
			return nil
		})

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_ = tmpl.Execute(w, data)
	})

	go func() {
		addr := fmt.Sprintf("localhost:%d", port)
		log.Info("Debug inspector listening", "addr", addr)
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Warn("Debug inspector stopped", "error", err)
		}
	}()
}

func mapRow(key string, val []byte) InspectRow {
	row := InspectRow{
		Key:  key,
		Text: fmt.Sprintf("%d bytes", len(val)),
	}
	var record domain.MessageRecord
	if err := json.Unmarshal(val, &record); err != nil {
		return row
	}
	row.Chat = string(record.Chat)
	row.User = record.User.String()
	row.Created = record.CreatedAt.Format(time.RFC3339)
	if record.EditedAt != nil {
		row.Edited = record.EditedAt.Format(time.RFC3339)
	}
	row.Text = record.Text
	return row
}
