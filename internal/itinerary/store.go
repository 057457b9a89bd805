// Package itinerary keeps the user's saved venue markers.
//
// The list is persisted under SavedMarkersKey. ClearedKey marks that the user
// emptied the itinerary on purpose, which stops Load from repopulating it with
// the seed venues. Both keys are always written in one atomic batch.
package itinerary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/bwise1/viff_planner/internal/kv"
	"github.com/bwise1/viff_planner/internal/model"
	"github.com/bwise1/viff_planner/util"
)

const (
	SavedMarkersKey = "savedMarkers"
	ClearedKey      = "itineraryCleared"

	clearedValue = "true"
)

var errNotArray = errors.New("saved itinerary is not a JSON array")

// Geocoder resolves seed venues into markers, dropping the ones it cannot find.
type Geocoder interface {
	ResolveMany(ctx context.Context, venues []model.Venue) []model.Marker
}

// Store owns the in-memory mirror of the saved itinerary.
//
// Every operation returns the list the caller should show. On failure that
// is the last state known to be persisted (empty before the first successful
// load) together with the error, which has already been logged.
type Store struct {
	kv       kv.Store
	geocoder Geocoder
	seeds    []model.Venue
	onChange func([]model.Marker)

	mu      sync.Mutex
	markers []model.Marker
	loaded  bool
}

func NewStore(store kv.Store, geocoder Geocoder, seeds []model.Venue) *Store {
	return &Store{
		kv:       store,
		geocoder: geocoder,
		seeds:    seeds,
	}
}

// OnChange registers fn to receive the list after every persisted change.
func (s *Store) OnChange(fn func([]model.Marker)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

// Load returns the persisted itinerary. An explicitly cleared itinerary is
// empty; a stored list, even an empty one, is returned verbatim; only when
// nothing usable is stored are the seed venues resolved and saved.
func (s *Store) Load(ctx context.Context) ([]model.Marker, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

func (s *Store) load(ctx context.Context) ([]model.Marker, error) {
	cleared, _, err := s.kv.Get(ctx, ClearedKey)
	if err != nil {
		return s.fail("load itinerary", fmt.Errorf("reading cleared flag: %w", err))
	}
	if cleared == clearedValue {
		s.markers = []model.Marker{}
		s.loaded = true
		return s.snapshot(), nil
	}

	raw, ok, err := s.kv.Get(ctx, SavedMarkersKey)
	if err != nil {
		return s.fail("load itinerary", fmt.Errorf("reading saved markers: %w", err))
	}
	if ok {
		markers, err := decodeMarkers(raw)
		if err == nil {
			s.markers = markers
			s.loaded = true
			return s.snapshot(), nil
		}
		log.Printf("[Itinerary]: ignoring unreadable saved markers: %v", err)
	}

	fallback := s.geocoder.ResolveMany(ctx, s.seeds)
	if err := s.save(ctx, fallback); err != nil {
		return s.fail("save default venues", err)
	}
	return s.snapshot(), nil
}

// Save overwrites the itinerary and drops the cleared flag.
func (s *Store) Save(ctx context.Context, markers []model.Marker) ([]model.Marker, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.save(ctx, markers); err != nil {
		return s.fail("save itinerary", err)
	}
	return s.snapshot(), nil
}

func (s *Store) save(ctx context.Context, markers []model.Marker) error {
	if markers == nil {
		markers = []model.Marker{}
	}
	blob, err := json.Marshal(markers)
	if err != nil {
		return fmt.Errorf("encoding itinerary: %w", err)
	}

	err = s.kv.Apply(ctx,
		kv.SetOp(SavedMarkersKey, string(blob)),
		kv.RemoveOp(ClearedKey),
	)
	if err != nil {
		return fmt.Errorf("writing itinerary: %w", err)
	}

	s.markers = append([]model.Marker(nil), markers...)
	s.loaded = true
	s.notify()
	return nil
}

// Toggle removes the marker if a saved one has the same coordinates and
// appends it otherwise. Markers without coordinates are ignored.
func (s *Store) Toggle(ctx context.Context, marker model.Marker) ([]model.Marker, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !marker.HasCoordinates() {
		return s.snapshot(), nil
	}
	if !s.loaded {
		if _, err := s.load(ctx); err != nil {
			return s.snapshot(), err
		}
	}

	if err := s.save(ctx, toggled(s.markers, marker)); err != nil {
		return s.fail("toggle marker", err)
	}
	return s.snapshot(), nil
}

func toggled(markers []model.Marker, marker model.Marker) []model.Marker {
	next := make([]model.Marker, 0, len(markers)+1)
	found := false
	for _, m := range markers {
		if m.SamePlace(marker) {
			found = true
			continue
		}
		next = append(next, m)
	}
	if !found {
		next = append(next, marker)
	}
	return next
}

// Reset replaces the itinerary with freshly resolved seed venues.
func (s *Store) Reset(ctx context.Context) ([]model.Marker, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fallback := s.geocoder.ResolveMany(ctx, s.seeds)
	if err := s.save(ctx, fallback); err != nil {
		return s.fail("reset default venues", err)
	}
	return s.snapshot(), nil
}

// ClearAll empties the itinerary and sets the cleared flag.
func (s *Store) ClearAll(ctx context.Context) ([]model.Marker, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.kv.Apply(ctx,
		kv.RemoveOp(SavedMarkersKey),
		kv.SetOp(ClearedKey, clearedValue),
	)
	if err != nil {
		return s.fail("clear itinerary", fmt.Errorf("writing cleared flag: %w", err))
	}

	s.markers = []model.Marker{}
	s.loaded = true
	s.notify()
	return s.snapshot(), nil
}

// Markers returns the in-memory mirror without touching storage.
func (s *Store) Markers() []model.Marker {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// IsSaved reports whether a marker at the same coordinates is saved.
func (s *Store) IsSaved(marker model.Marker) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.markers {
		if m.SamePlace(marker) {
			return true
		}
	}
	return false
}

// Route encodes the saved markers, in itinerary order, as a polyline.
func (s *Store) Route() (string, int) {
	return util.EncodeMarkers(s.Markers())
}

func (s *Store) fail(action string, err error) ([]model.Marker, error) {
	log.Printf("[Itinerary]: failed to %s: %v", action, err)
	return s.snapshot(), err
}

func (s *Store) snapshot() []model.Marker {
	out := make([]model.Marker, len(s.markers))
	copy(out, s.markers)
	return out
}

func (s *Store) notify() {
	if s.onChange != nil {
		s.onChange(s.snapshot())
	}
}

func decodeMarkers(raw string) ([]model.Marker, error) {
	var markers []model.Marker
	if err := json.Unmarshal([]byte(raw), &markers); err != nil {
		return nil, err
	}
	if markers == nil {
		return nil, errNotArray
	}
	return markers, nil
}
