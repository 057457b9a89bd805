// Package journal keeps visit notes and ratings, independent of the itinerary.
package journal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"

	"github.com/bwise1/viff_planner/internal/kv"
	"github.com/bwise1/viff_planner/internal/model"
	"github.com/bwise1/viff_planner/util"
)

const Key = "JOURNAL_KEY"

var ErrEntryNotFound = errors.New("journal entry not found")

type Store struct {
	kv       kv.Store
	sample   func() ([]model.JournalEntry, error)
	onChange func([]model.JournalEntry)

	// serializes read-modify-write operations
	mu sync.Mutex
}

// NewStore takes the source of the sample journal used by LoadSample.
func NewStore(store kv.Store, sample func() ([]model.JournalEntry, error)) *Store {
	return &Store{kv: store, sample: sample}
}

func (s *Store) OnChange(fn func([]model.JournalEntry)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

// GetAll returns the stored journal. Absent, corrupt or unreadable data all
// read as an empty journal.
func (s *Store) GetAll(ctx context.Context) []model.JournalEntry {
	entries, err := s.getAll(ctx)
	if err != nil {
		return []model.JournalEntry{}
	}
	return entries
}

// getAll reports read errors so mutations never overwrite a journal they
// could not read. Absent or corrupt data is an empty journal.
func (s *Store) getAll(ctx context.Context) ([]model.JournalEntry, error) {
	raw, ok, err := s.kv.Get(ctx, Key)
	if err != nil {
		log.Printf("[Journal]: error reading journal: %v", err)
		return nil, fmt.Errorf("reading journal: %w", err)
	}
	if !ok {
		return []model.JournalEntry{}, nil
	}

	var entries []model.JournalEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		log.Printf("[Journal]: ignoring unreadable journal: %v", err)
		return []model.JournalEntry{}, nil
	}
	if entries == nil {
		return []model.JournalEntry{}, nil
	}
	return entries, nil
}

// SaveAll overwrites the stored journal.
func (s *Store) SaveAll(ctx context.Context, entries []model.JournalEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveAll(ctx, entries)
}

func (s *Store) saveAll(ctx context.Context, entries []model.JournalEntry) error {
	if entries == nil {
		entries = []model.JournalEntry{}
	}
	blob, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encoding journal: %w", err)
	}
	if err := s.kv.Set(ctx, Key, string(blob)); err != nil {
		log.Printf("[Journal]: error saving journal: %v", err)
		return fmt.Errorf("saving journal: %w", err)
	}
	if s.onChange != nil {
		s.onChange(append([]model.JournalEntry(nil), entries...))
	}
	return nil
}

// Clear removes the journal entirely.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.Remove(ctx, Key); err != nil {
		log.Printf("[Journal]: error clearing journal: %v", err)
		return fmt.Errorf("clearing journal: %w", err)
	}
	if s.onChange != nil {
		s.onChange([]model.JournalEntry{})
	}
	return nil
}

// ToggleVisited flips the visited flag of the entry with the given id.
func (s *Store) ToggleVisited(ctx context.Context, id string) ([]model.JournalEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.getAll(ctx)
	if err != nil {
		return []model.JournalEntry{}, err
	}
	i := indexOf(entries, id)
	if i < 0 {
		return entries, ErrEntryNotFound
	}

	updated := append([]model.JournalEntry(nil), entries...)
	updated[i].Visited = !updated[i].Visited
	if err := s.saveAll(ctx, updated); err != nil {
		return entries, err
	}
	return updated, nil
}

// Add appends an entry, giving it a new id when it has none.
func (s *Store) Add(ctx context.Context, entry model.JournalEntry) (model.JournalEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.ID == "" {
		entry.ID = util.GenerateUUID().String()
	}
	entries, err := s.getAll(ctx)
	if err != nil {
		return model.JournalEntry{}, err
	}
	if err := s.saveAll(ctx, append(entries, entry)); err != nil {
		return model.JournalEntry{}, err
	}
	return entry, nil
}

func (s *Store) Delete(ctx context.Context, id string) ([]model.JournalEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.getAll(ctx)
	if err != nil {
		return []model.JournalEntry{}, err
	}
	i := indexOf(entries, id)
	if i < 0 {
		return entries, ErrEntryNotFound
	}

	remaining := make([]model.JournalEntry, 0, len(entries)-1)
	remaining = append(remaining, entries[:i]...)
	remaining = append(remaining, entries[i+1:]...)
	if err := s.saveAll(ctx, remaining); err != nil {
		return entries, err
	}
	return remaining, nil
}

// LoadSample overwrites the journal with the bundled sample entries.
func (s *Store) LoadSample(ctx context.Context) ([]model.JournalEntry, error) {
	entries, err := s.sample()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.saveAll(ctx, entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// View filters to visited entries when visitedOnly is set and sorts by
// rating, highest first. Entries with equal ratings keep their order.
func View(entries []model.JournalEntry, visitedOnly bool) []model.JournalEntry {
	out := make([]model.JournalEntry, 0, len(entries))
	for _, e := range entries {
		if visitedOnly && !e.Visited {
			continue
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Rating > out[j].Rating
	})
	return out
}

func indexOf(entries []model.JournalEntry, id string) int {
	for i, e := range entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}
