package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"

	"github.com/vburojevic/platescan/internal/domain"
)

var (
	// ErrSessionNotFound is returned for unknown or expired session IDs
	ErrSessionNotFound = errors.New("session not found")
	// ErrVehicleNotFound is returned when an index is outside the list
	ErrVehicleNotFound = errors.New("vehicle not found")
	// ErrMissingFields is returned when plate or odometer is empty
	ErrMissingFields = errors.New("plate and odometer are required")
)

// Session is a logged-in operator and the vehicles captured so far
type Session struct {
	ID        string
	Username  string
	CreatedAt time.Time
	LastSeen  time.Time
	vehicles  []domain.Vehicle
}

// Store keeps sessions in memory and expires them after an idle TTL
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	clock    clock.Clock
}

// NewStore creates a session store. A zero ttl means sessions never expire.
func NewStore(ttl time.Duration, clk clock.Clock) *Store {
	if clk == nil {
		clk = clock.New()
	}
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		clock:    clk,
	}
}

// Create starts a new session for username and returns a snapshot of it
func (s *Store) Create(username string) Session {
	now := s.clock.Now()
	sess := &Session{
		ID:        newID(),
		Username:  username,
		CreatedAt: now,
		LastSeen:  now,
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	return *sess
}

// Get returns the session and refreshes its idle timer
func (s *Store) Get(id string) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(id)
	if err != nil {
		return Session{}, false
	}
	snapshot := *sess
	snapshot.vehicles = nil
	return snapshot, true
}

// Delete ends a session; unknown IDs are ignored
func (s *Store) Delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// Len returns the number of live sessions, expired ones included until swept
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep removes expired sessions and returns how many were removed
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	removed := 0
	for id, sess := range s.sessions {
		if s.expired(sess, now) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Run sweeps every interval until ctx is done
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	ticker := s.clock.Ticker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

// Vehicles returns a copy of the session's vehicle list
func (s *Store) Vehicles(id string) ([]domain.Vehicle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	return append([]domain.Vehicle(nil), sess.vehicles...), nil
}

// AddVehicle appends a vehicle stamped with the current time
func (s *Store) AddVehicle(id, plate, odometer string) (domain.Vehicle, error) {
	if plate == "" || odometer == "" {
		return domain.Vehicle{}, ErrMissingFields
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(id)
	if err != nil {
		return domain.Vehicle{}, err
	}
	v := domain.Vehicle{
		Plate:      plate,
		Odometer:   odometer,
		RecordedAt: s.clock.Now(),
	}
	sess.vehicles = append(sess.vehicles, v)
	return v, nil
}

// UpdateVehicle replaces plate and odometer of the vehicle at index.
// RecordedAt is left unchanged.
func (s *Store) UpdateVehicle(id string, index int, plate, odometer string) (domain.Vehicle, error) {
	if plate == "" || odometer == "" {
		return domain.Vehicle{}, ErrMissingFields
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(id)
	if err != nil {
		return domain.Vehicle{}, err
	}
	if index < 0 || index >= len(sess.vehicles) {
		return domain.Vehicle{}, ErrVehicleNotFound
	}
	sess.vehicles[index].Plate = plate
	sess.vehicles[index].Odometer = odometer
	return sess.vehicles[index], nil
}

// RemoveVehicle deletes the vehicle at index and returns it
func (s *Store) RemoveVehicle(id string, index int) (domain.Vehicle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(id)
	if err != nil {
		return domain.Vehicle{}, err
	}
	if index < 0 || index >= len(sess.vehicles) {
		return domain.Vehicle{}, ErrVehicleNotFound
	}
	removed := sess.vehicles[index]
	sess.vehicles = append(sess.vehicles[:index], sess.vehicles[index+1:]...)
	return removed, nil
}

// lookup finds a live session and touches it. Callers hold s.mu.
func (s *Store) lookup(id string) (*Session, error) {
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	now := s.clock.Now()
	if s.expired(sess, now) {
		delete(s.sessions, id)
		return nil, ErrSessionNotFound
	}
	sess.LastSeen = now
	return sess, nil
}

func (s *Store) expired(sess *Session, now time.Time) bool {
	return s.ttl > 0 && now.Sub(sess.LastSeen) >= s.ttl
}

func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
