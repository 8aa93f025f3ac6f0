// Package notifications implements the durable activity log and the
// notifier that turns change events and user actions into log records and
// transient toasts.
package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/juju/clock"
	"github.com/rs/zerolog"

	"github.com/agentstation/bookmap/pkg/constants"
	"github.com/agentstation/bookmap/pkg/errors"
	"github.com/agentstation/bookmap/pkg/kv"
	"github.com/agentstation/bookmap/pkg/logging"
)

// Type is the severity of a notification.
type Type string

// Notification types.
const (
	TypeSuccess Type = "success"
	TypeInfo    Type = "info"
	TypeWarning Type = "warning"
	TypeError   Type = "error"
)

// Valid reports whether t is a known type.
func (t Type) Valid() bool {
	switch t {
	case TypeSuccess, TypeInfo, TypeWarning, TypeError:
		return true
	}
	return false
}

// Record is one entry of the notification log.
type Record struct {
	ID        string `json:"id" yaml:"id"`
	Type      Type   `json:"type" yaml:"type"`
	Title     string `json:"title" yaml:"title"`
	Message   string `json:"message" yaml:"message"`
	Timestamp int64  `json:"timestamp" yaml:"timestamp"` // unix milliseconds
	Read      bool   `json:"read" yaml:"read"`
}

// Time returns the record timestamp.
func (r Record) Time() time.Time {
	return time.UnixMilli(r.Timestamp)
}

// wireRecord detects absent fields when decoding.
type wireRecord struct {
	ID        *string `json:"id"`
	Type      *Type   `json:"type"`
	Title     *string `json:"title"`
	Message   *string `json:"message"`
	Timestamp *int64  `json:"timestamp"`
	Read      *bool   `json:"read"`
}

func (w wireRecord) record() (Record, error) {
	if w.ID == nil || *w.ID == "" || w.Type == nil || w.Title == nil || *w.Title == "" ||
		w.Message == nil || *w.Message == "" || w.Timestamp == nil || w.Read == nil {
		return Record{}, fmt.Errorf("record is missing required fields")
	}
	if !w.Type.Valid() {
		return Record{}, fmt.Errorf("unknown notification type %q", *w.Type)
	}
	return Record{
		ID:        *w.ID,
		Type:      *w.Type,
		Title:     *w.Title,
		Message:   *w.Message,
		Timestamp: *w.Timestamp,
		Read:      *w.Read,
	}, nil
}

// Snapshot is the log contents after an operation. Unread is always
// derived from Records.
type Snapshot struct {
	Records []Record `json:"notifications" yaml:"notifications"`
	Unread  int      `json:"unreadCount" yaml:"unread_count"`
}

func snapshot(records []Record) Snapshot {
	out := Snapshot{Records: append([]Record{}, records...)}
	for _, r := range records {
		if !r.Read {
			out.Unread++
		}
	}
	return out
}

// Log is a bounded, newest-first notification log kept in a kv.Store.
type Log struct {
	kv         kv.Store
	key        string
	clock      clock.Clock
	newID      func() string
	maxRecords int
	maxAge     time.Duration
	logger     *zerolog.Logger

	mu sync.Mutex
}

// LogOption configures a Log.
type LogOption func(*Log)

// WithLogClock sets the clock used for timestamps and age checks.
func WithLogClock(c clock.Clock) LogOption {
	return func(l *Log) {
		if c != nil {
			l.clock = c
		}
	}
}

// WithRetention sets the maximum record count and age.
func WithRetention(maxRecords int, maxAge time.Duration) LogOption {
	return func(l *Log) {
		if maxRecords > 0 {
			l.maxRecords = maxRecords
		}
		if maxAge > 0 {
			l.maxAge = maxAge
		}
	}
}

// WithIDGenerator sets the record id generator.
func WithIDGenerator(fn func() string) LogOption {
	return func(l *Log) {
		if fn != nil {
			l.newID = fn
		}
	}
}

// WithLogLogger sets the logger.
func WithLogLogger(logger *zerolog.Logger) LogOption {
	return func(l *Log) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLog returns a notification log.
func NewLog(store kv.Store, opts ...LogOption) *Log {
	l := &Log{
		kv:         store,
		key:        constants.KeyNotifications,
		clock:      clock.WallClock,
		newID:      uuid.NewString,
		maxRecords: constants.MaxNotifications,
		maxAge:     constants.NotificationMaxAge,
		logger:     logging.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// load reads the persisted log, dropping expired records and rewriting the
// blob when any were dropped. Undecodable data yields an empty log.
func (l *Log) load(ctx context.Context) []Record {
	raw, ok, err := l.kv.Get(ctx, l.key)
	if err != nil {
		l.logger.Warn().Err(err).Str("key", l.key).Msg("Failed to read notifications")
		return []Record{}
	}
	if !ok || raw == "" {
		return []Record{}
	}

	records, err := decode(raw)
	if err != nil {
		l.logger.Warn().Err(errors.WrapParse("json", l.key, err)).Msg("Discarding malformed notifications")
		return []Record{}
	}

	kept := l.expire(records)
	if len(kept) != len(records) {
		l.logger.Debug().Int("dropped", len(records)-len(kept)).Msg("Cleaned up old notifications")
		if err := l.save(ctx, kept); err != nil {
			l.logger.Warn().Err(err).Msg("Failed to rewrite notifications")
		}
	}
	return kept
}

func decode(raw string) ([]Record, error) {
	var wire []wireRecord
	if err := json.Unmarshal([]byte(raw), &wire); err != nil {
		return nil, err
	}
	records := make([]Record, 0, len(wire))
	for i, w := range wire {
		r, err := w.record()
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		records = append(records, r)
	}
	return records, nil
}

// expire drops records at or beyond the maximum age.
func (l *Log) expire(records []Record) []Record {
	cutoff := l.clock.Now().Add(-l.maxAge).UnixMilli()
	kept := make([]Record, 0, len(records))
	for _, r := range records {
		if r.Timestamp > cutoff {
			kept = append(kept, r)
		}
	}
	return kept
}

func (l *Log) retain(records []Record) []Record {
	records = l.expire(records)
	if len(records) > l.maxRecords {
		records = records[:l.maxRecords]
	}
	return records
}

func (l *Log) save(ctx context.Context, records []Record) error {
	raw, err := json.Marshal(records)
	if err != nil {
		return errors.WrapParse("json", l.key, err)
	}
	return errors.WrapResource("save", "notifications", "", l.kv.Set(ctx, l.key, string(raw)))
}

// mutate runs a read-modify-write cycle. fn gets a copy of the loaded
// records, so a failed save leaves nothing half applied.
func (l *Log) mutate(ctx context.Context, fn func([]Record) ([]Record, bool)) (Snapshot, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	records := l.load(ctx)
	next, changed := fn(append([]Record{}, records...))
	if !changed {
		return snapshot(records), nil
	}
	if err := l.save(ctx, next); err != nil {
		// only persisted state is exposed
		return snapshot(l.load(ctx)), err
	}
	return snapshot(next), nil
}

// Add records a new unread notification at the head of the log and
// applies retention.
func (l *Log) Add(ctx context.Context, typ Type, title, message string) (Record, Snapshot, error) {
	if !typ.Valid() {
		return Record{}, Snapshot{}, errors.NewValidationError("type", typ, "unknown notification type")
	}
	if title == "" || message == "" {
		return Record{}, Snapshot{}, errors.NewValidationError("title", title, "title and message are required")
	}

	rec := Record{
		ID:        l.newID(),
		Type:      typ,
		Title:     title,
		Message:   message,
		Timestamp: l.clock.Now().UnixMilli(),
	}
	snap, err := l.mutate(ctx, func(records []Record) ([]Record, bool) {
		next := make([]Record, 0, len(records)+1)
		next = append(next, rec)
		next = append(next, records...)
		return l.retain(next), true
	})
	return rec, snap, err
}

// List returns the current log.
func (l *Log) List(ctx context.Context) Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return snapshot(l.load(ctx))
}

// MarkRead marks one record read. Unknown ids are ignored.
func (l *Log) MarkRead(ctx context.Context, id string) (Snapshot, error) {
	return l.mutate(ctx, func(records []Record) ([]Record, bool) {
		for i := range records {
			if records[i].ID == id && !records[i].Read {
				records[i].Read = true
				return records, true
			}
		}
		return records, false
	})
}

// MarkAllRead marks every record read.
func (l *Log) MarkAllRead(ctx context.Context) (Snapshot, error) {
	return l.mutate(ctx, func(records []Record) ([]Record, bool) {
		changed := false
		for i := range records {
			if !records[i].Read {
				records[i].Read = true
				changed = true
			}
		}
		return records, changed
	})
}

// Remove deletes one record. Unknown ids are ignored.
func (l *Log) Remove(ctx context.Context, id string) (Snapshot, error) {
	return l.mutate(ctx, func(records []Record) ([]Record, bool) {
		next := make([]Record, 0, len(records))
		for _, r := range records {
			if r.ID != id {
				next = append(next, r)
			}
		}
		return next, len(next) != len(records)
	})
}

// Clear empties the log.
func (l *Log) Clear(ctx context.Context) (Snapshot, error) {
	return l.mutate(ctx, func([]Record) ([]Record, bool) {
		return []Record{}, true
	})
}
