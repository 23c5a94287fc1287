// Command inspect is a read-only operator tool over the retained
// message window: scan the badger store by key prefix, or query the
// full-text index.
package main

import (
	"chat-guard/domain"
	"chat-guard/repositories"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/kelseyhightower/envconfig"
	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"
)

type Config struct {
	BadgerFilepath string `envconfig:"BADGER_FILEPATH" required:"true"`
	BlugeFilepath  string `envconfig:"BLUGE_FILEPATH"`
	// INSPECT_COLOURS enables colorized output for better readability
	Colours bool `envconfig:"INSPECT_COLOURS" default:"true"`
}

func main() {
	prefix := flag.String("prefix", "msg:", "key prefix to scan")
	query := flag.String("query", "", "full-text query against the search index")
	limit := flag.Int("limit", 50, "maximum rows to print")
	flag.Parse()

	var config Config
	if err := envconfig.Process("", &config); err != nil {
		log.Fatalf("Config error: %v", err)
	}
	if !config.Colours {
		color.Disable()
	}

	if *query != "" {
		if config.BlugeFilepath == "" {
			log.Fatal("BLUGE_FILEPATH must be set for -query")
		}
		searchIndex(config.BlugeFilepath, *query, *limit)
		return
	}
	scanStore(config.BadgerFilepath, *prefix, *limit)
}

// scanStore walks the badger store read-only. BypassLockGuard allows
// opening while the service holds the lock.
func scanStore(path, prefix string, limit int) {
	opts := badger.DefaultOptions(path).
		WithReadOnly(true).
		WithBypassLockGuard(true).
		WithLoggingLevel(badger.WARNING)

	db, err := badger.Open(opts)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	color.Cyan.Printf("Scanning %s with prefix %q\n", path, prefix)
	table := newTable([]string{"Key", "Chat", "User", "Created", "Edited", "Text"})

	count := 0
	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefixBytes := []byte(prefix)
		for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes); it.Next() {
			if count == limit {
				break
			}
			item := it.Item()
			err := item.Value(func(v []byte) error {
				table.Append(toRow(string(item.Key()), v))
				count++
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Fatalf("Scan failed: %v", err)
	}

	table.Render()
	color.Green.Printf("%d entries\n", count)
}

func toRow(key string, val []byte) []string {
	var record domain.MessageRecord
	if err := json.Unmarshal(val, &record); err != nil {
		return []string{key, "", "", "", "", fmt.Sprintf("%d bytes", len(val))}
	}
	edited := ""
	if record.EditedAt != nil {
		edited = record.EditedAt.Format(time.RFC3339)
	}
	return []string{
		key,
		string(record.Chat),
		record.User.String(),
		record.CreatedAt.Format(time.RFC3339),
		edited,
		record.Text,
	}
}

func searchIndex(path, query string, limit int) {
	hits, err := repositories.SearchMessages(context.Background(), path, query, limit)
	if err != nil {
		log.Fatalf("Search failed: %v", err)
	}

	color.Cyan.Printf("%d hits for %q\n", len(hits), query)
	table := newTable([]string{"Chat", "User", "Created", "Text"})
	for _, row := range lo.Map(hits, func(hit repositories.SearchHit, _ int) []string {
		return []string{string(hit.Chat), hit.User.String(), hit.Created, hit.Text}
	}) {
		table.Append(row)
	}
	table.Render()
}

func newTable(headers []string) *tablewriter.Table {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader(headers)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	return table
}
