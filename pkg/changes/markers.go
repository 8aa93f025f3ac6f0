package changes

import (
	"context"
	"sync"

	"github.com/agentstation/bookmap/pkg/books"
	"github.com/agentstation/bookmap/pkg/constants"
	"github.com/agentstation/bookmap/pkg/errors"
	"github.com/agentstation/bookmap/pkg/kv"
)

// MarkerPair holds the id of the newest event seen on each feed.
// An empty string means no event of that kind has been seen.
type MarkerPair struct {
	LastSeenAddID  string `json:"lastSeenAddId" yaml:"last_seen_add_id"`
	LastSeenEditID string `json:"lastSeenEditId" yaml:"last_seen_edit_id"`
}

// For returns the marker of kind.
func (m MarkerPair) For(kind books.Kind) string {
	if kind == books.KindEdit {
		return m.LastSeenEditID
	}
	return m.LastSeenAddID
}

// MarkerStore persists the last-seen markers.
type MarkerStore interface {
	// Markers reads the current markers.
	Markers(ctx context.Context) (MarkerPair, error)
	// SetMarker records id as the newest seen event of kind.
	SetMarker(ctx context.Context, kind books.Kind, id string) error
}

var _ MarkerStore = (*KVMarkers)(nil)

// KVMarkers stores markers as two keys of a kv.Store.
type KVMarkers struct {
	store kv.Store
}

// NewKVMarkers returns a marker store backed by store.
func NewKVMarkers(store kv.Store) *KVMarkers {
	return &KVMarkers{store: store}
}

func markerKey(kind books.Kind) string {
	if kind == books.KindEdit {
		return constants.KeyLastEditID
	}
	return constants.KeyLastAddID
}

// Markers implements MarkerStore.
func (m *KVMarkers) Markers(ctx context.Context) (MarkerPair, error) {
	var pair MarkerPair
	add, _, err := m.store.Get(ctx, constants.KeyLastAddID)
	if err != nil {
		return MarkerPair{}, errors.WrapResource("load", "markers", books.KindAdd.Feed(), err)
	}
	edit, _, err := m.store.Get(ctx, constants.KeyLastEditID)
	if err != nil {
		return MarkerPair{}, errors.WrapResource("load", "markers", books.KindEdit.Feed(), err)
	}
	pair.LastSeenAddID = add
	pair.LastSeenEditID = edit
	return pair, nil
}

// SetMarker implements MarkerStore.
func (m *KVMarkers) SetMarker(ctx context.Context, kind books.Kind, id string) error {
	if id == "" {
		return errors.WrapResource("save", "markers", kind.Feed(), m.store.Delete(ctx, markerKey(kind)))
	}
	return errors.WrapResource("save", "markers", kind.Feed(), m.store.Set(ctx, markerKey(kind), id))
}

// Reset clears both markers.
func (m *KVMarkers) Reset(ctx context.Context) error {
	for _, kind := range books.Kinds {
		if err := m.SetMarker(ctx, kind, ""); err != nil {
			return err
		}
	}
	return nil
}

var _ MarkerStore = (*MemoryMarkers)(nil)

// MemoryMarkers is an in-process MarkerStore.
type MemoryMarkers struct {
	mu   sync.Mutex
	pair MarkerPair
}

// Markers implements MarkerStore.
func (m *MemoryMarkers) Markers(context.Context) (MarkerPair, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pair, nil
}

// SetMarker implements MarkerStore.
func (m *MemoryMarkers) SetMarker(_ context.Context, kind books.Kind, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if kind == books.KindEdit {
		m.pair.LastSeenEditID = id
	} else {
		m.pair.LastSeenAddID = id
	}
	return nil
}
