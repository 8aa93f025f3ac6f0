package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/juju/clock/testclock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/bookmap/pkg/constants"
	"github.com/agentstation/bookmap/pkg/kv"
	"github.com/agentstation/bookmap/pkg/logging"
)

var epoch = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("n%d", n)
	}
}

func newLog(t *testing.T, opts ...LogOption) (*Log, *kv.Memory, *testclock.Clock) {
	t.Helper()
	mem := kv.NewMemory()
	clk := testclock.NewClock(epoch)
	base := []LogOption{
		WithLogClock(clk),
		WithIDGenerator(sequentialIDs()),
		WithLogLogger(logging.NewNopLogger()),
	}
	return NewLog(mem, append(base, opts...)...), mem, clk
}

func TestAddPrependsUnread(t *testing.T) {
	ctx := context.Background()
	l, _, _ := newLog(t)

	_, _, err := l.Add(ctx, TypeInfo, "First", "one")
	require.NoError(t, err)
	rec, snap, err := l.Add(ctx, TypeSuccess, "Second", "two")
	require.NoError(t, err)

	assert.Equal(t, "n2", rec.ID)
	assert.False(t, rec.Read)
	assert.Equal(t, epoch.UnixMilli(), rec.Timestamp)
	require.Len(t, snap.Records, 2)
	assert.Equal(t, "Second", snap.Records[0].Title)
	assert.Equal(t, 2, snap.Unread)
}

func TestAddValidates(t *testing.T) {
	l, _, _ := newLog(t)
	_, _, err := l.Add(context.Background(), Type("loud"), "t", "m")
	assert.Error(t, err)
	_, _, err = l.Add(context.Background(), TypeInfo, "", "m")
	assert.Error(t, err)
}

func TestRetentionTruncatesOldest(t *testing.T) {
	ctx := context.Background()
	l, _, _ := newLog(t, WithRetention(3, 0))

	for i := 1; i <= 5; i++ {
		_, _, err := l.Add(ctx, TypeInfo, fmt.Sprintf("t%d", i), "m")
		require.NoError(t, err)
	}

	snap := l.List(ctx)
	require.Len(t, snap.Records, 3)
	assert.Equal(t, []string{"t5", "t4", "t3"}, titles(snap))
}

func TestDefaultRetentionIsFifty(t *testing.T) {
	ctx := context.Background()
	l, _, _ := newLog(t)
	for i := 0; i < constants.MaxNotifications+5; i++ {
		_, _, err := l.Add(ctx, TypeInfo, "t", "m")
		require.NoError(t, err)
	}
	assert.Len(t, l.List(ctx).Records, constants.MaxNotifications)
}

func TestMarkRead(t *testing.T) {
	ctx := context.Background()
	l, _, _ := newLog(t)
	a, _, _ := l.Add(ctx, TypeInfo, "a", "m")
	_, _, _ = l.Add(ctx, TypeInfo, "b", "m")

	snap, err := l.MarkRead(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, snap.Unread)

	snap, err = l.MarkRead(ctx, "unknown")
	require.NoError(t, err)
	assert.Equal(t, 1, snap.Unread)

	snap, err = l.MarkAllRead(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, snap.Unread)
	assert.Len(t, snap.Records, 2)
}

func TestRemoveAndClear(t *testing.T) {
	ctx := context.Background()
	l, _, _ := newLog(t)
	a, _, _ := l.Add(ctx, TypeInfo, "a", "m")
	_, _, _ = l.Add(ctx, TypeInfo, "b", "m")

	snap, err := l.Remove(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, titles(snap))
	assert.Equal(t, 1, snap.Unread)

	snap, err = l.Clear(ctx)
	require.NoError(t, err)
	assert.Empty(t, snap.Records)
	assert.Equal(t, 0, snap.Unread)
}

func TestAgeFilterRewritesStorage(t *testing.T) {
	ctx := context.Background()
	l, mem, clk := newLog(t)
	_, _, err := l.Add(ctx, TypeInfo, "old", "m")
	require.NoError(t, err)

	clk.Advance(6 * 24 * time.Hour)
	_, _, err = l.Add(ctx, TypeInfo, "recent", "m")
	require.NoError(t, err)

	clk.Advance(24 * time.Hour)
	snap := l.List(ctx)
	assert.Equal(t, []string{"recent"}, titles(snap))

	raw, ok, err := mem.Get(ctx, constants.KeyNotifications)
	require.NoError(t, err)
	require.True(t, ok)
	var stored []Record
	require.NoError(t, json.Unmarshal([]byte(raw), &stored))
	assert.Len(t, stored, 1, "expired record should be removed from storage")
}

func TestMalformedLogFailsClosed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", `[{"id":`},
		{"object", `{"id": "x"}`},
		{"missing read", `[{"id":"a","type":"info","title":"t","message":"m","timestamp":1}]`},
		{"string timestamp", `[{"id":"a","type":"info","title":"t","message":"m","timestamp":"1","read":false}]`},
		{"empty title", `[{"id":"a","type":"info","title":"","message":"m","timestamp":1,"read":false}]`},
		{"bad type", `[{"id":"a","type":"shout","title":"t","message":"m","timestamp":1,"read":false}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			l, mem, _ := newLog(t)
			require.NoError(t, mem.Set(ctx, constants.KeyNotifications, tt.raw))

			snap := l.List(ctx)
			assert.Empty(t, snap.Records)
			assert.Equal(t, 0, snap.Unread)
		})
	}
}

func TestLoadsStoredShape(t *testing.T) {
	ctx := context.Background()
	l, mem, _ := newLog(t)
	ts := epoch.Add(-time.Hour).UnixMilli()
	raw := fmt.Sprintf(`[{"id":"x1","type":"warning","title":"Hi","message":"There","timestamp":%d,"read":true}]`, ts)
	require.NoError(t, mem.Set(ctx, constants.KeyNotifications, raw))

	snap := l.List(ctx)
	require.Len(t, snap.Records, 1)
	assert.Equal(t, TypeWarning, snap.Records[0].Type)
	assert.True(t, snap.Records[0].Read)
	assert.Equal(t, 0, snap.Unread)
}

func titles(s Snapshot) []string {
	out := make([]string, 0, len(s.Records))
	for _, r := range s.Records {
		out = append(out, r.Title)
	}
	return out
}

// readOnlyStore fails every Set once writes are frozen.
type readOnlyStore struct {
	*kv.Memory
	frozen bool
}

func (s *readOnlyStore) Set(ctx context.Context, key, value string) error {
	if s.frozen {
		return assert.AnError
	}
	return s.Memory.Set(ctx, key, value)
}

func TestFailedWriteReturnsPersistedState(t *testing.T) {
	ctx := context.Background()
	store := &readOnlyStore{Memory: kv.NewMemory()}
	l := NewLog(store,
		WithLogClock(testclock.NewClock(epoch)),
		WithIDGenerator(sequentialIDs()),
		WithLogLogger(logging.NewNopLogger()),
	)

	_, _, err := l.Add(ctx, TypeInfo, "First", "one")
	require.NoError(t, err)
	store.frozen = true

	tests := []struct {
		name string
		fn   func() (Snapshot, error)
	}{
		{"mark all read", func() (Snapshot, error) { return l.MarkAllRead(ctx) }},
		{"mark read", func() (Snapshot, error) { return l.MarkRead(ctx, "n1") }},
		{"remove", func() (Snapshot, error) { return l.Remove(ctx, "n1") }},
		{"clear", func() (Snapshot, error) { return l.Clear(ctx) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap, err := tt.fn()
			require.ErrorIs(t, err, assert.AnError)
			require.Len(t, snap.Records, 1)
			assert.False(t, snap.Records[0].Read)
			assert.Equal(t, 1, snap.Unread)

			persisted := l.List(ctx)
			assert.Equal(t, 1, persisted.Unread)
		})
	}
}
