// Package session holds the identity of the local operator.
package session

import (
	"sync"

	log "github.com/sirupsen/logrus"
)

// Store holds the station callsign of the local operator.
type Store struct {
	mu       sync.RWMutex
	callsign string
}

// NewStore creates a new Store for the given callsign.
func NewStore(callsign string) *Store {
	return &Store{
		callsign: callsign,
	}
}

// StationCallsign returns the station callsign of the local operator.
func (s *Store) StationCallsign() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.callsign
}

// SetStationCallsign updates the station callsign of the local operator.
func (s *Store) SetStationCallsign(callsign string) {
	s.mu.Lock()
	old := s.callsign
	s.callsign = callsign
	s.mu.Unlock()

	if old != callsign {
		log.WithFields(log.Fields{
			"old_callsign": old,
			"callsign":     callsign,
		}).Info("session: station callsign updated")
	}
}
