// Package favorites keeps the user's favorite books in durable storage.
//
// Every mutation re-reads the persisted blob, applies the change and writes
// it back, and the exposed view is replaced wholesale with the value just
// read. Writers in other processes are observed on the next operation; two
// processes mutating at the same instant may lose one write.
package favorites

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/bookmap/pkg/books"
	"github.com/agentstation/bookmap/pkg/constants"
	"github.com/agentstation/bookmap/pkg/errors"
	"github.com/agentstation/bookmap/pkg/kv"
	"github.com/agentstation/bookmap/pkg/logging"
)

// Set is the persisted favorites blob. BookIDs and Books hold the same keys
// in the same insertion order.
type Set struct {
	BookIDs []string     `json:"bookIds" yaml:"book_ids"`
	Books   []books.Book `json:"books" yaml:"books"`
}

// Len returns the number of favorites.
func (s Set) Len() int {
	return len(s.Books)
}

// Contains reports whether key is a favorite.
func (s Set) Contains(key string) bool {
	for _, id := range s.BookIDs {
		if id == key {
			return true
		}
	}
	return false
}

func (s Set) clone() Set {
	return Set{
		BookIDs: append([]string{}, s.BookIDs...),
		Books:   append([]books.Book{}, s.Books...),
	}
}

func (s Set) validate() error {
	if len(s.BookIDs) != len(s.Books) {
		return fmt.Errorf("%d ids for %d books", len(s.BookIDs), len(s.Books))
	}
	seen := make(map[string]struct{}, len(s.Books))
	for i, b := range s.Books {
		if b.Key == "" {
			return fmt.Errorf("book %d has no key", i)
		}
		if s.BookIDs[i] != b.Key {
			return fmt.Errorf("id %q does not match book %q", s.BookIDs[i], b.Key)
		}
		if _, dup := seen[b.Key]; dup {
			return fmt.Errorf("duplicate key %q", b.Key)
		}
		seen[b.Key] = struct{}{}
	}
	return nil
}

// Store manages favorites in a kv.Store.
type Store struct {
	kv     kv.Store
	key    string
	logger *zerolog.Logger

	mu   sync.Mutex // serializes read-modify-write within the process
	view Set
}

// Option configures a Store.
type Option func(*Store)

// WithKey overrides the storage key.
func WithKey(key string) Option {
	return func(s *Store) {
		s.key = key
	}
}

// WithLogger sets the logger.
func WithLogger(l *zerolog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// New returns a favorites store.
func New(store kv.Store, opts ...Option) *Store {
	s := &Store{
		kv:     store,
		key:    constants.KeyFavorites,
		logger: logging.Default(),
		view:   Set{BookIDs: []string{}, Books: []books.Book{}},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// load reads the persisted set. Missing, unreadable or invalid data yields
// an empty set.
func (s *Store) load(ctx context.Context) Set {
	empty := Set{BookIDs: []string{}, Books: []books.Book{}}

	raw, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		s.logger.Warn().Err(err).Str("key", s.key).Msg("Failed to read favorites")
		return empty
	}
	if !ok || raw == "" {
		return empty
	}

	var set Set
	if err := json.Unmarshal([]byte(raw), &set); err != nil {
		s.logger.Warn().Err(errors.WrapParse("json", s.key, err)).Msg("Discarding malformed favorites")
		return empty
	}
	if err := set.validate(); err != nil {
		s.logger.Warn().Err(errors.WrapParse("json", s.key, err)).Msg("Discarding invalid favorites")
		return empty
	}
	return set.clone()
}

func (s *Store) save(ctx context.Context, set Set) error {
	raw, err := json.Marshal(set)
	if err != nil {
		return errors.WrapParse("json", s.key, err)
	}
	if err := s.kv.Set(ctx, s.key, string(raw)); err != nil {
		return errors.WrapResource("save", "favorites", "", err)
	}
	return nil
}

// publish replaces the exposed view. Callers hold mu.
func (s *Store) publish(set Set) Set {
	s.view = set
	return set.clone()
}

// List re-reads and returns the favorites.
func (s *Store) List(ctx context.Context) Set {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.publish(s.load(ctx))
}

// View returns the set published by the most recent operation without
// touching storage.
func (s *Store) View() Set {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view.clone()
}

// Contains re-reads storage and reports whether key is a favorite.
func (s *Store) Contains(ctx context.Context, key string) bool {
	return s.List(ctx).Contains(key)
}

// Add appends book unless its key is already present. It reports whether
// the set changed.
func (s *Store) Add(ctx context.Context, book books.Book) (Set, bool, error) {
	if book.Key == "" {
		return s.View(), false, errors.NewValidationError("key", book.Key, "book key is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	set := s.load(ctx)
	if set.Contains(book.Key) {
		return s.publish(set), false, nil
	}
	set.BookIDs = append(set.BookIDs, book.Key)
	set.Books = append(set.Books, book)
	if err := s.save(ctx, set); err != nil {
		return s.publish(s.load(ctx)), false, err
	}
	return s.publish(set), true, nil
}

// Remove drops key. Removing an absent key is a no-op. The removed book
// is returned when one was present.
func (s *Store) Remove(ctx context.Context, key string) (Set, *books.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	set := s.load(ctx)
	var removed *books.Book
	next := Set{BookIDs: []string{}, Books: []books.Book{}}
	for _, b := range set.Books {
		if b.Key == key {
			removed = &b
			continue
		}
		next.BookIDs = append(next.BookIDs, b.Key)
		next.Books = append(next.Books, b)
	}
	if removed == nil {
		return s.publish(set), nil, nil
	}
	if err := s.save(ctx, next); err != nil {
		return s.publish(s.load(ctx)), nil, err
	}
	return s.publish(next), removed, nil
}

// Clear removes every favorite.
func (s *Store) Clear(ctx context.Context) (Set, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	empty := Set{BookIDs: []string{}, Books: []books.Book{}}
	if err := s.save(ctx, empty); err != nil {
		return s.publish(s.load(ctx)), err
	}
	return s.publish(empty), nil
}
