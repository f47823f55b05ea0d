package api

import (
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/mdjubayerd1/vivi-music/internal/deck"
	"github.com/mdjubayerd1/vivi-music/internal/ports"
	"github.com/mdjubayerd1/vivi-music/internal/types"
)

type session struct {
	id       string
	ctl      *deck.Controller
	lastSeen time.Time
}

// Sessions is the registry of live discovery sessions, keyed by the opaque id
// handed out at creation. Every lookup refreshes the session's idle clock; a
// janitor goroutine closes sessions nobody touched for idleTTL.
type Sessions struct {
	mu      sync.Mutex
	m       map[string]*session
	idleTTL time.Duration
	stop    chan struct{}
	once    sync.Once
}

func NewSessions(idleTTL time.Duration) *Sessions {
	s := &Sessions{
		m:       make(map[string]*session),
		idleTTL: idleTTL,
		stop:    make(chan struct{}),
	}
	if idleTTL > 0 {
		go s.janitor()
	}
	return s
}

// Create registers a new session around a fresh deck controller and kicks off
// its seeding fetch. The returned id is the handle for all later calls.
func (s *Sessions) Create(src ports.Source, seed types.Seed) (string, *deck.Controller) {
	id := uuid.NewString()
	ctl := deck.New(src, seed)
	s.mu.Lock()
	s.m[id] = &session{id: id, ctl: ctl, lastSeen: time.Now()}
	s.mu.Unlock()
	ctl.Initialize()
	return id, ctl
}

func (s *Sessions) Get(id string) (*deck.Controller, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.m[id]
	if !ok {
		return nil, types.ErrSessionNotFound
	}
	sess.lastSeen = time.Now()
	return sess.ctl, nil
}

// Delete removes the session and tears its controller down.
func (s *Sessions) Delete(id string) error {
	s.mu.Lock()
	sess, ok := s.m[id]
	if ok {
		delete(s.m, id)
	}
	s.mu.Unlock()
	if !ok {
		return types.ErrSessionNotFound
	}
	sess.ctl.Close()
	return nil
}

func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.m)
}

// CloseAll tears down every live session and stops the janitor. Called on
// server shutdown; safe to call more than once.
func (s *Sessions) CloseAll() {
	s.once.Do(func() { close(s.stop) })
	s.mu.Lock()
	victims := make([]*session, 0, len(s.m))
	for _, sess := range s.m {
		victims = append(victims, sess)
	}
	s.m = make(map[string]*session)
	s.mu.Unlock()
	for _, sess := range victims {
		sess.ctl.Close()
	}
}

func (s *Sessions) janitor() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.evictIdle()
		}
	}
}

// evictIdle closes and drops every session idle for longer than idleTTL.
// Controllers are closed outside the registry lock; Close takes the
// controller's own lock.
func (s *Sessions) evictIdle() {
	cutoff := time.Now().Add(-s.idleTTL)
	s.mu.Lock()
	var victims []*session
	for id, sess := range s.m {
		if sess.lastSeen.Before(cutoff) {
			victims = append(victims, sess)
			delete(s.m, id)
		}
	}
	s.mu.Unlock()
	if len(victims) == 0 {
		return
	}
	for _, sess := range victims {
		sess.ctl.Close()
	}
	log.WithField("count", len(victims)).Info("Evicted idle sessions")
}
