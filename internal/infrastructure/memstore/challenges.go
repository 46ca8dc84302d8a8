package memstore

import (
	"sync"
	"time"

	"github.com/accommodation-form-api/internal/domain"
	"github.com/accommodation-form-api/internal/pkg/captcha"
	"github.com/accommodation-form-api/internal/pkg/id"
)

// ChallengeStore keeps the expected answer of every outstanding math captcha
// keyed by a nonce. The client only ever sees the nonce and the question text,
// so it cannot fabricate a matching question/answer pair.
type ChallengeStore struct {
	mu         sync.Mutex
	challenges map[string]*domain.CaptchaChallenge
	ttl        time.Duration
	done       chan struct{}
	closeOnce  sync.Once
}

// NewChallengeStore creates a store whose challenges expire after ttl.
// Call Close to stop the background sweep.
func NewChallengeStore(ttl time.Duration) *ChallengeStore {
	s := &ChallengeStore{
		challenges: make(map[string]*domain.CaptchaChallenge),
		ttl:        ttl,
		done:       make(chan struct{}),
	}
	go s.sweep()
	return s
}

// Issue generates a new math challenge and records its answer server-side.
func (s *ChallengeStore) Issue() (*domain.CaptchaChallenge, error) {
	q, err := captcha.New()
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	c := &domain.CaptchaChallenge{
		CaptchaID: id.New(),
		Question:  q.Text,
		Answer:    q.Answer,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	s.mu.Lock()
	s.challenges[c.CaptchaID] = c
	s.mu.Unlock()
	return c, nil
}

// Check consumes the challenge and reports whether the answer is correct.
// A challenge is single-use: right or wrong, it is removed, so a caller who
// fails must request a fresh question.
func (s *ChallengeStore) Check(captchaID string, answer int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.challenges[captchaID]
	if !ok {
		return false
	}
	delete(s.challenges, captchaID)
	if time.Now().UTC().After(c.ExpiresAt) {
		return false
	}
	return c.Answer == answer
}

// Close stops the background sweeper. Safe to call more than once.
func (s *ChallengeStore) Close() {
	s.closeOnce.Do(func() { close(s.done) })
}

func (s *ChallengeStore) sweep() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			now := time.Now().UTC()
			s.mu.Lock()
			for cid, c := range s.challenges {
				if now.After(c.ExpiresAt) {
					delete(s.challenges, cid)
				}
			}
			s.mu.Unlock()
		}
	}
}
