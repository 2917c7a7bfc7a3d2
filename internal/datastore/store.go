package datastore

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/strrl/lain/internal/query"
	"github.com/strrl/lain/pkg/models"
)

// Kind is the endpoint a request targets.
type Kind int

const (
	KindProjects Kind = iota
	KindStats
)

func (k Kind) String() string {
	switch k {
	case KindProjects:
		return "projects"
	case KindStats:
		return "stats"
	}
	return "unknown"
}

// Request identifies one fetch. Seq increases monotonically per store; ID is
// a uuid for log correlation.
type Request struct {
	Seq     uint64
	ID      string
	Kind    Kind
	Query   query.Query
	Started time.Time
}

// Store holds the project directory and the latest stats snapshot. A stats
// response is only applied if no newer stats request has been issued since,
// so a slow stale response never overwrites a fresher one.
type Store struct {
	mu        sync.RWMutex
	projects  map[string]models.Project
	snapshot  *models.StatsSnapshot
	seq       uint64
	lastStats uint64
	applied   uint64
	inflight  map[string]Request
	now       func() time.Time
}

// NewStore returns an empty store stamping requests with now. A nil now
// uses time.Now.
func NewStore(now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{
		inflight: make(map[string]Request),
		now:      now,
	}
}

// Begin registers a new request and returns its handle.
func (s *Store) Begin(kind Kind, q query.Query) Request {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	req := Request{
		Seq:     s.seq,
		ID:      uuid.New().String(),
		Kind:    kind,
		Query:   q,
		Started: s.now(),
	}
	if kind == KindStats {
		s.lastStats = req.Seq
	}
	s.inflight[req.ID] = req
	return req
}

// Finish removes req from the in-flight set. Apply calls it implicitly.
func (s *Store) Finish(req Request) {
	s.mu.Lock()
	delete(s.inflight, req.ID)
	s.mu.Unlock()
}

// Current reports whether req is the newest request of its kind for stats,
// and always true for projects.
func (s *Store) Current(req Request) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return req.Kind != KindStats || req.Seq >= s.lastStats
}

// ReplaceProjects swaps in a new project directory.
func (s *Store) ReplaceProjects(req Request, projects map[string]models.Project) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.inflight, req.ID)
	s.projects = projects
}

// ApplyStats replaces the snapshot wholesale. It returns false and keeps the
// current snapshot when a newer stats request has been issued since req.
func (s *Store) ApplyStats(req Request, snap *models.StatsSnapshot) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.inflight, req.ID)
	if req.Seq < s.lastStats {
		return false
	}
	s.snapshot = snap
	s.applied = req.Seq
	return true
}

// Snapshot returns the latest applied stats, nil before the first fetch.
func (s *Store) Snapshot() *models.StatsSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// Projects returns the current project directory.
func (s *Store) Projects() map[string]models.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.projects
}

// Pending is the number of requests that have not finished.
func (s *Store) Pending() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.inflight)
}

// AppliedSeq is the sequence number of the snapshot on display.
func (s *Store) AppliedSeq() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.applied
}
