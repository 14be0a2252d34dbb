package incidents

import (
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/assureops/incident-desk/internal/domain"
	"github.com/google/uuid"
)

// Store is the in-memory incident collection. It is the only owner of
// incident state: every read hands out deep copies and every mutation is
// serialized behind the mutex. Newest incidents come first. There is no
// delete operation; incidents live for the lifetime of the process.
type Store struct {
	mu        sync.RWMutex
	incidents []*domain.Incident
	bySysID   map[string]*domain.Incident
	numbers   map[string]struct{}

	// strict makes identity violations fatal instead of logged-and-rejected.
	// Enabled in development.
	strict bool

	now func() time.Time
}

// NewStore creates an empty store. strict controls whether identity
// violations panic (development) or are logged and rejected (production).
func NewStore(strict bool) *Store {
	return &Store{
		bySysID: make(map[string]*domain.Incident),
		numbers: make(map[string]struct{}),
		strict:  strict,
		now:     time.Now,
	}
}

// Create assigns identity (sys_id, number, opened_at) to the draft, inserts
// it at the head of the collection and returns a copy of the stored record.
func (s *Store) Create(draft *domain.Incident) (*domain.Incident, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inc := draft.Clone()
	inc.SysID = uuid.New().String()
	inc.Number = s.nextNumberLocked()
	inc.OpenedAt = s.now()
	if inc.Comments == nil {
		inc.Comments = []domain.Comment{}
	}

	if err := s.guardIdentityLocked(inc); err != nil {
		return nil, err
	}

	s.insertLocked(inc)
	return inc.Clone(), nil
}

// Replace upserts by sys_id: an unknown sys_id is prepended, a known one is
// replaced in place preserving collection order. opened_at of an existing
// record is immutable and always carried over from the stored copy.
func (s *Store) Replace(inc *domain.Incident) (*domain.Incident, error) {
	if inc.SysID == "" {
		return nil, fmt.Errorf("%w: empty sys_id", ErrInvalidIncident)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := inc.Clone()
	existing, ok := s.bySysID[inc.SysID]
	if !ok {
		if err := s.guardIdentityLocked(next); err != nil {
			return nil, err
		}
		s.insertLocked(next)
		return next.Clone(), nil
	}

	next.OpenedAt = existing.OpenedAt
	for i, cur := range s.incidents {
		if cur.SysID == next.SysID {
			s.incidents[i] = next
			break
		}
	}
	s.bySysID[next.SysID] = next
	return next.Clone(), nil
}

// Get returns a copy of the incident with the given sys_id.
func (s *Store) Get(sysID string) (*domain.Incident, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	inc, ok := s.bySysID[sysID]
	if !ok {
		return nil, ErrIncidentNotFound
	}
	return inc.Clone(), nil
}

// List returns copies of all incidents in collection order, newest first.
func (s *Store) List() []*domain.Incident {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Incident, 0, len(s.incidents))
	for _, inc := range s.incidents {
		out = append(out, inc.Clone())
	}
	return out
}

// FilterByCaller returns copies of the incidents reported by the given
// caller, in collection order.
func (s *Store) FilterByCaller(name string) []*domain.Incident {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Incident, 0)
	for _, inc := range s.incidents {
		if inc.Caller == name {
			out = append(out, inc.Clone())
		}
	}
	return out
}

// AppendComment appends a comment to the incident journal. Comments are
// immutable once appended; they are never edited, reordered or removed.
func (s *Store) AppendComment(sysID string, comment domain.Comment) (*domain.Incident, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inc, ok := s.bySysID[sysID]
	if !ok {
		return nil, ErrIncidentNotFound
	}
	inc.Comments = append(inc.Comments, comment)
	return inc.Clone(), nil
}

// CountByState returns the number of incidents per state. Used for metrics.
func (s *Store) CountByState() map[domain.IncidentState]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[domain.IncidentState]int)
	for _, inc := range s.incidents {
		out[inc.State]++
	}
	return out
}

func (s *Store) insertLocked(inc *domain.Incident) {
	s.incidents = append([]*domain.Incident{inc}, s.incidents...)
	s.bySysID[inc.SysID] = inc
	s.numbers[inc.Number] = struct{}{}
}

// guardIdentityLocked enforces sys_id and number uniqueness. A violation is
// a programming error: fatal in strict mode, logged and rejected otherwise.
func (s *Store) guardIdentityLocked(inc *domain.Incident) error {
	if _, dup := s.bySysID[inc.SysID]; dup {
		return s.identityViolation("duplicate sys_id", inc.SysID)
	}
	if _, dup := s.numbers[inc.Number]; dup && inc.Number != "" {
		return s.identityViolation("duplicate number", inc.Number)
	}
	return nil
}

func (s *Store) identityViolation(kind, value string) error {
	if s.strict {
		panic(fmt.Sprintf("incident store: %s: %s", kind, value))
	}
	slog.Error("incident identity violation", "kind", kind, "value", value)
	return fmt.Errorf("%w: %s %s", ErrDuplicateIdentity, kind, value)
}

// nextNumberLocked picks an unused INC number with a 7-digit suffix.
func (s *Store) nextNumberLocked() string {
	for {
		n := fmt.Sprintf("INC%07d", 1000000+rand.Intn(9000000))
		if _, taken := s.numbers[n]; !taken {
			return n
		}
	}
}
