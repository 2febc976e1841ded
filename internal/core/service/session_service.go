package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/rentalhub/rental-api/internal/core/domain"
	"github.com/rentalhub/rental-api/internal/core/ports"
	"github.com/rentalhub/rental-api/internal/core/session"
)

// PasswordDigester turns a plaintext password into the value stored in the
// record store's password column.
type PasswordDigester interface {
	Digest(password string) string
}

// SessionService keeps one session.State per browser session in memory,
// hydrated lazily from durable storage. Transitions are computed by the
// session package; this type only performs lookups and persistence.
type SessionService struct {
	users   ports.UserRepository
	storage ports.LocalStorage
	writes  ports.StorageWriter
	digest  PasswordDigester
	log     zerolog.Logger
	now     func() time.Time

	mu       sync.Mutex
	sessions map[string]session.State
	seen     map[string]time.Time
}

// NewSessionService wires the service. storage is only read (hydration);
// all writes go through writes.
func NewSessionService(
	users ports.UserRepository,
	storage ports.LocalStorage,
	writes ports.StorageWriter,
	digest PasswordDigester,
	log zerolog.Logger,
) *SessionService {
	return &SessionService{
		users:    users,
		storage:  storage,
		writes:   writes,
		digest:   digest,
		log:      log,
		now:      time.Now,
		sessions: make(map[string]session.State),
		seen:     make(map[string]time.Time),
	}
}

// store records st for sessionID and marks it as used. mu must be held.
func (s *SessionService) store(sessionID string, st session.State) {
	s.sessions[sessionID] = st
	s.seen[sessionID] = s.now()
}

// EvictIdle forgets sessions not used since cutoff and returns how many were
// dropped. An evicted session is hydrated again from durable storage on its
// next request, so only the viewed role is lost.
func (s *SessionService) EvictIdle(cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for sid, at := range s.seen {
		if at.Before(cutoff) {
			delete(s.sessions, sid)
			delete(s.seen, sid)
			n++
		}
	}
	return n
}

// Len returns the number of sessions held in memory.
func (s *SessionService) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Current returns the state of sessionID, hydrating it on first access.
func (s *SessionService) Current(ctx context.Context, sessionID string) session.State {
	s.mu.Lock()
	st, ok := s.sessions[sessionID]
	if ok {
		s.seen[sessionID] = s.now()
	}
	s.mu.Unlock()
	if ok {
		return st
	}

	hydrated := s.hydrate(ctx, sessionID)

	s.mu.Lock()
	defer s.mu.Unlock()
	// A login may have landed while storage was being read; it wins.
	if st, ok := s.sessions[sessionID]; ok {
		s.seen[sessionID] = s.now()
		return st
	}
	s.store(sessionID, hydrated)
	return hydrated
}

func (s *SessionService) hydrate(ctx context.Context, sessionID string) session.State {
	raw, ok, err := s.storage.Get(ctx, sessionID, ports.StorageKeyUser)
	if err != nil {
		s.log.Warn().Err(err).Str("session_id", sessionID).Msg("session hydration failed, starting logged out")
		return session.LoggedOut()
	}
	if !ok || raw == "" || raw == "null" {
		return session.LoggedOut()
	}

	var identity domain.Identity
	if err := json.Unmarshal([]byte(raw), &identity); err != nil {
		s.log.Warn().Err(err).Str("session_id", sessionID).Msg("stored identity unreadable, starting logged out")
		return session.LoggedOut()
	}
	return session.LoggedIn(&identity)
}

// Login looks the credentials up in the record store. The session is left
// untouched while the lookup is in flight; if two logins race, the one that
// finishes last wins.
func (s *SessionService) Login(ctx context.Context, sessionID, username, password string) (*domain.Identity, error) {
	if username == "" || password == "" {
		return nil, domain.ErrAuthentication
	}

	identity, err := s.users.FindByCredentials(ctx, username, s.digest.Digest(password))
	if err != nil {
		if !errors.Is(err, domain.ErrRecordNotFound) && !errors.Is(err, domain.ErrAmbiguousRecord) {
			s.log.Error().Err(err).Str("session_id", sessionID).Msg("credential lookup failed")
		}
		return nil, domain.ErrAuthentication
	}

	next := session.LoggedIn(identity)

	s.mu.Lock()
	s.store(sessionID, next)
	s.mu.Unlock()

	s.persistIdentity(sessionID, next.Identity())

	s.log.Info().
		Str("session_id", sessionID).
		Str("user_id", identity.ID).
		Msg("login succeeded")

	return next.Identity(), nil
}

// Logout clears the session and removes its durable records, including the
// legacy admin token.
func (s *SessionService) Logout(ctx context.Context, sessionID string) session.Navigation {
	s.mu.Lock()
	next, nav := s.sessions[sessionID].Logout()
	s.store(sessionID, next)
	s.mu.Unlock()

	s.writes.Enqueue(ports.StorageOp{SessionID: sessionID, Key: ports.StorageKeyUser, Delete: true})
	s.writes.Enqueue(ports.StorageOp{SessionID: sessionID, Key: ports.StorageKeyLegacyAdminToken, Delete: true})

	s.log.Info().Str("session_id", sessionID).Msg("logout")
	return nav
}

// SwitchRole changes the viewed role of a real admin. For anyone else the
// state comes back unchanged with no navigation and ok set to false.
func (s *SessionService) SwitchRole(ctx context.Context, sessionID string, target domain.Role, currentPath string) (session.State, session.Navigation, bool) {
	current := s.Current(ctx, sessionID)

	s.mu.Lock()
	defer s.mu.Unlock()

	// Re-read under the lock so a concurrent login or logout is not undone.
	if st, ok := s.sessions[sessionID]; ok {
		current = st
	}
	next, nav, ok := current.SwitchRole(target, currentPath)
	if !ok {
		s.log.Debug().Str("session_id", sessionID).Str("target", string(target)).Msg("role switch ignored")
		return current, session.Navigation{}, false
	}
	s.store(sessionID, next)
	return next, nav, true
}

func (s *SessionService) persistIdentity(sessionID string, identity *domain.Identity) {
	raw, err := json.Marshal(identity)
	if err != nil {
		s.log.Warn().Err(err).Str("session_id", sessionID).Msg("identity not persisted")
		return
	}
	s.writes.Enqueue(ports.StorageOp{SessionID: sessionID, Key: ports.StorageKeyUser, Value: string(raw)})
}
