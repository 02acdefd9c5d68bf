package favclient

import "sync"

// Status is the client-side favorite state of one tour
type Status struct {
	TourID    string
	Favorited bool
	// Pending is set while an optimistic change awaits the server
	Pending   bool
}

// Snapshot is a consistent copy of the store
type Snapshot struct {
	Version   uint64
	Statuses  map[string]Status
	Favorites []Favorite
	Total     int
	Loaded    bool
}

// Favorited reports the visible state of a tour and whether it is known
func (s Snapshot) Favorited(tourID string) (favorited, known bool) {
	st, ok := s.Statuses[tourID]
	return st.Favorited, ok
}

type entry struct {
	favorited bool
	confirmed bool
	pending   uint64
}

// Store is the normalized client cache of favorite state, keyed by tour ID.
// Every change is published to subscribers as one Snapshot, in order.
type Store struct {
	mu        sync.Mutex
	entries   map[string]*entry
	favorites []Favorite
	total     int
	loaded    bool
	version   uint64
	nextToken uint64

	subMu   sync.Mutex
	subs    map[int]func(Snapshot)
	nextSub int
	deliver sync.Mutex
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		entries: make(map[string]*entry),
		subs:    make(map[int]func(Snapshot)),
	}
}

// Subscribe registers fn for every future change and returns a function
// that removes it. fn runs on the goroutine that made the change and must
// not modify the store.
func (s *Store) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

// Snapshot returns the current state
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Status returns the state of one tour
func (s *Store) Status(tourID string) (Status, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[tourID]
	if !ok {
		return Status{TourID: tourID}, false
	}
	return Status{TourID: tourID, Favorited: e.favorited, Pending: e.pending != 0}, true
}

// TourIDs returns every tour the store tracks
func (s *Store) TourIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.entries))
	for id := range s.entries {
		ids = append(ids, id)
	}
	return ids
}

// SetStatus records the server state of a tour. A pending optimistic value
// stays visible until its own request settles.
func (s *Store) SetStatus(tourID string, favorited bool) {
	s.update(func() bool {
		e := s.entryLocked(tourID)
		e.confirmed = favorited
		if e.pending == 0 {
			e.favorited = favorited
		}
		return true
	})
}

// BeginToggle flips the visible state of a tour and marks it pending. The
// returned token settles the change through Commit or Rollback.
func (s *Store) BeginToggle(tourID string) uint64 {
	var token uint64
	s.update(func() bool {
		s.nextToken++
		token = s.nextToken
		e := s.entryLocked(tourID)
		e.favorited = !e.favorited
		e.pending = token
		return true
	})
	return token
}

// BeginSet sets the visible state of a tour and marks it pending
func (s *Store) BeginSet(tourID string, favorited bool) uint64 {
	var token uint64
	s.update(func() bool {
		s.nextToken++
		token = s.nextToken
		e := s.entryLocked(tourID)
		e.favorited = favorited
		e.pending = token
		return true
	})
	return token
}

// Commit records the server result of the change identified by token. If
// a later change is still pending only the confirmed value moves.
func (s *Store) Commit(token uint64, tourID string, favorited bool) {
	s.update(func() bool {
		e := s.entryLocked(tourID)
		e.confirmed = favorited
		if e.pending == token {
			e.favorited = favorited
			e.pending = 0
		}
		return true
	})
}

// Rollback discards the change identified by token and restores the last
// confirmed value, unless a later change has superseded it.
func (s *Store) Rollback(token uint64, tourID string) {
	s.update(func() bool {
		e, ok := s.entries[tourID]
		if !ok || e.pending != token {
			return false
		}
		e.favorited = e.confirmed
		e.pending = 0
		return true
	})
}

// ReplaceFavorites stores a fetched list. Listed tours become favorited; when
// the list holds every favorite, tracked tours missing from it do not.
func (s *Store) ReplaceFavorites(favorites []Favorite, total int) {
	s.update(func() bool {
		s.favorites = append([]Favorite(nil), favorites...)
		s.total = total
		s.loaded = true
		listed := make(map[string]bool, len(favorites))
		for _, f := range favorites {
			listed[f.Tour.ID] = true
			e := s.entryLocked(f.Tour.ID)
			e.confirmed = true
			if e.pending == 0 {
				e.favorited = true
			}
		}
		// a complete list also settles every tracked tour it leaves out
		if len(favorites) == total {
			for id, e := range s.entries {
				if listed[id] {
					continue
				}
				e.confirmed = false
				if e.pending == 0 {
					e.favorited = false
				}
			}
		}
		return true
	})
}

// FavoriteIDs returns the IDs of the stored list in display order
func (s *Store) FavoriteIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, len(s.favorites))
	for i, f := range s.favorites {
		ids[i] = f.ID
	}
	return ids
}

func (s *Store) entryLocked(tourID string) *entry {
	e, ok := s.entries[tourID]
	if !ok {
		e = &entry{}
		s.entries[tourID] = e
	}
	return e
}

func (s *Store) snapshotLocked() Snapshot {
	statuses := make(map[string]Status, len(s.entries))
	for id, e := range s.entries {
		statuses[id] = Status{TourID: id, Favorited: e.favorited, Pending: e.pending != 0}
	}
	return Snapshot{
		Version:   s.version,
		Statuses:  statuses,
		Favorites: append([]Favorite(nil), s.favorites...),
		Total:     s.total,
		Loaded:    s.loaded,
	}
}

// update applies mutate and publishes the resulting snapshot. The delivery
// lock is taken before the state lock so snapshots reach subscribers in
// version order.
func (s *Store) update(mutate func() bool) {
	s.deliver.Lock()
	defer s.deliver.Unlock()

	s.mu.Lock()
	if !mutate() {
		s.mu.Unlock()
		return
	}
	s.version++
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.subMu.Lock()
	subs := make([]func(Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.subMu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
}
