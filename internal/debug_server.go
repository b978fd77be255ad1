package internal

import (
	"embed"
	"eyesup/repositories"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
)

//go:embed inspect.html
var templatesFS embed.FS

const maxInspectRows = 500

type InspectRow struct {
	Key       string
	Type      string
	Timestamp string
	EntityID  string
	Detail    string
}

type RowMapper func(key string, val []byte) InspectRow
type StatsProvider func() map[string]any

type PageData struct {
	Prefix string
	Items  []InspectRow
	Stats  map[string]any
}

// NewDebugServer serves a read-only HTML view of the Badger keyspace.
// It is only started when the log level is debug.
func NewDebugServer(db *badger.DB, address string, endpoint string, mapper RowMapper, statsProvider StatsProvider) *http.Server {
	mux := http.NewServeMux()
	mux.Handle(endpoint, InspectHandler(db, mapper, statsProvider))
	return &http.Server{Addr: address, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
}

func InspectHandler(db *badger.DB, mapper RowMapper, statsProvider StatsProvider) http.Handler {
	tmpl := template.Must(template.ParseFS(templatesFS, "inspect.html"))
	if mapper == nil {
		mapper = RecordMapper
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
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

		err := db.View(func(txn *badger.Txn) error {
			it := txn.NewIterator(badger.DefaultIteratorOptions)
			defer it.Close()
			for it.Seek([]byte(prefix)); it.ValidForPrefix([]byte(prefix)) && len(data.Items) < maxInspectRows; it.Next() {
				item := it.Item()
				key := string(item.KeyCopy(nil))
				err := item.Value(func(val []byte) error {
					data.Items = append(data.Items, mapper(key, val))
					return nil
				})
				if err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_ = tmpl.Execute(w, data)
	})
}

// DefaultMapper only reads the key: "msg:{timestamp}:{uuid}".
func DefaultMapper(key string, val []byte) InspectRow {
	parts := strings.Split(key, ":")
	row := InspectRow{
		Key:       key,
		Type:      "RAW",
		Timestamp: "--:--:--",
		EntityID:  "--------",
		Detail:    "Size: " + strconv.Itoa(len(val)) + " bytes",
	}

	if len(parts) >= 3 {
		if tsNano, err := strconv.ParseInt(parts[1], 10, 64); err == nil {
			row.Timestamp = time.Unix(0, tsNano).Format("15:04:05")
		}
		row.EntityID = parts[2]
		if len(row.EntityID) > 8 {
			row.EntityID = row.EntityID[:8]
		}
	}
	return row
}

// RecordMapper decodes the value as well.
func RecordMapper(key string, val []byte) InspectRow {
	row := DefaultMapper(key, val)
	record, err := repositories.DescribeRecord(key, val)
	row.Type = record.Kind
	if err != nil {
		row.Detail = "Error: decode failed"
		return row
	}
	row.Detail = record.Detail
	if record.ID != "" {
		row.EntityID = record.ID
		if len(row.EntityID) > 8 {
			row.EntityID = row.EntityID[:8]
		}
	}
	if !record.At.IsZero() {
		row.Timestamp = record.At.Format("15:04:05")
	}
	return row
}
