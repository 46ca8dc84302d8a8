package memstore

import (
	"fmt"
	"sync"
	"time"

	"github.com/accommodation-form-api/internal/domain"
	"github.com/accommodation-form-api/internal/pkg/otp"
)

// SessionStore holds the opaque tokens issued after successful MFA. A token
// authorizes form initialization and exactly one submission; consumed tokens
// stay in the map until expiry so a resubmit can be distinguished from a
// bad token.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*domain.Session
	ttl      time.Duration

	done      chan struct{}
	closeOnce sync.Once
}

// NewSessionStore creates a store whose sessions expire after ttl.
// Call Close to stop the background sweep.
func NewSessionStore(ttl time.Duration) *SessionStore {
	s := &SessionStore{
		sessions: make(map[string]*domain.Session),
		ttl:      ttl,
		done:     make(chan struct{}),
	}
	go s.sweep()
	return s
}

// Issue creates a session bound to the verified email and returns its token.
func (s *SessionStore) Issue(email, clientIP string) (*domain.Session, error) {
	token, err := otp.NewSessionToken()
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	sess := &domain.Session{
		Token:     token,
		Email:     email,
		ClientIP:  clientIP,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.ttl),
	}
	s.mu.Lock()
	s.sessions[token] = sess
	s.mu.Unlock()
	copied := *sess
	return &copied, nil
}

// Get returns a copy of a live session. Expired or unknown tokens yield
// ErrUnauthorized; consumed tokens yield ErrSessionAlreadyUsed.
func (s *SessionStore) Get(token string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[token]
	if !ok {
		return nil, fmt.Errorf("unknown session token: %w", domain.ErrUnauthorized)
	}
	if sess.Expired(time.Now().UTC()) {
		delete(s.sessions, token)
		return nil, fmt.Errorf("session expired: %w", domain.ErrUnauthorized)
	}
	if sess.Used {
		return nil, fmt.Errorf("session token: %w", domain.ErrSessionAlreadyUsed)
	}
	copied := *sess
	return &copied, nil
}

// Peek is like Get but tolerates consumed sessions, so an applicant can
// still check the status of a submission they just made.
func (s *SessionStore) Peek(token string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[token]
	if !ok || sess.Expired(time.Now().UTC()) {
		return nil, fmt.Errorf("invalid session token: %w", domain.ErrUnauthorized)
	}
	copied := *sess
	return &copied, nil
}

// MarkOpened stamps form_opened_at the first time the form is initialized.
func (s *SessionStore) MarkOpened(token string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[token]
	if !ok || sess.Expired(time.Now().UTC()) {
		return nil, fmt.Errorf("invalid session token: %w", domain.ErrUnauthorized)
	}
	if sess.Used {
		return nil, fmt.Errorf("session token: %w", domain.ErrSessionAlreadyUsed)
	}
	if sess.FormOpenedAt == nil {
		now := time.Now().UTC()
		sess.FormOpenedAt = &now
	}
	copied := *sess
	return &copied, nil
}

// Consume marks the session used. It succeeds exactly once per token; the
// second call returns ErrSessionAlreadyUsed so a double-click cannot produce
// a second PDF or email.
func (s *SessionStore) Consume(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[token]
	if !ok || sess.Expired(time.Now().UTC()) {
		return fmt.Errorf("invalid session token: %w", domain.ErrUnauthorized)
	}
	if sess.Used {
		return fmt.Errorf("session token: %w", domain.ErrSessionAlreadyUsed)
	}
	sess.Used = true
	return nil
}

// Invalidate removes the session outright (logout).
func (s *SessionStore) Invalidate(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

// Close stops the background sweeper. Safe to call more than once.
func (s *SessionStore) Close() {
	s.closeOnce.Do(func() { close(s.done) })
}

func (s *SessionStore) sweep() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			now := time.Now().UTC()
			s.mu.Lock()
			for token, sess := range s.sessions {
				if sess.Expired(now) {
					delete(s.sessions, token)
				}
			}
			s.mu.Unlock()
		}
	}
}
