package memstore

import (
	"fmt"
	"sync"
	"time"

	"github.com/accommodation-form-api/internal/domain"
	"github.com/accommodation-form-api/internal/pkg/id"
)

// VerificationStore holds pending email-verification records for the MFA
// workflow. All mutation happens under the store mutex so two concurrent
// guesses cannot each decrement past zero or both succeed after expiry.
type VerificationStore struct {
	mu      sync.Mutex
	records map[string]*domain.VerificationRecord

	ttl         time.Duration
	maxAttempts int
	maxPending  int

	done      chan struct{}
	closeOnce sync.Once
}

// NewVerificationStore creates a store whose records expire after ttl and
// allow maxAttempts wrong codes. At most maxPending unexpired records may
// exist per email at once (anti-spam throttle). Call Close to stop the sweep.
func NewVerificationStore(ttl time.Duration, maxAttempts, maxPending int) *VerificationStore {
	s := &VerificationStore{
		records:     make(map[string]*domain.VerificationRecord),
		ttl:         ttl,
		maxAttempts: maxAttempts,
		maxPending:  maxPending,
	}
	s.done = make(chan struct{})
	go s.sweep()
	return s
}

// Create allocates a new verification record for the email with the given
// one-time code. Fails with ErrTooManyPending when the per-email throttle is hit.
func (s *VerificationStore) Create(email, code, clientIP string) (*domain.VerificationRecord, error) {
	now := time.Now().UTC()
	s.mu.Lock()
	defer s.mu.Unlock()

	pending := 0
	for _, r := range s.records {
		if r.Email == email && !r.Used && now.Before(r.ExpiresAt) {
			pending++
		}
	}
	if pending >= s.maxPending {
		return nil, fmt.Errorf("pending verifications for %s: %w", email, domain.ErrTooManyPending)
	}

	rec := &domain.VerificationRecord{
		VerificationID:    id.New(),
		Email:             email,
		Code:              code,
		ClientIP:          clientIP,
		CreatedAt:         now,
		ExpiresAt:         now.Add(s.ttl),
		AttemptsRemaining: s.maxAttempts,
	}
	s.records[rec.VerificationID] = rec
	copied := *rec
	return &copied, nil
}

// Get returns a copy of a record, or ErrNotFound.
func (s *VerificationStore) Get(verificationID string) (*domain.VerificationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[verificationID]
	if !ok {
		return nil, fmt.Errorf("verification %s: %w", verificationID, domain.ErrNotFound)
	}
	copied := *rec
	return &copied, nil
}

// Delete discards a record, freeing its slot in the per-email throttle.
func (s *VerificationStore) Delete(verificationID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, verificationID)
}

// ConsumeAttempt checks the submitted code against the record.
//
// Expiry wins over everything; an exhausted record rejects even the correct
// code; a correct code on a live record marks it used exactly once. Each
// wrong code burns one attempt.
func (s *VerificationStore) ConsumeAttempt(verificationID, submittedCode string) (domain.VerifyResult, *domain.VerificationRecord) {
	now := time.Now().UTC()
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[verificationID]
	if !ok {
		return domain.VerifyNotFound, nil
	}
	if now.After(rec.ExpiresAt) {
		delete(s.records, verificationID)
		return domain.VerifyExpired, nil
	}
	if rec.Used {
		// Already consumed; a second verify must not succeed again.
		return domain.VerifyNotFound, nil
	}
	if rec.AttemptsRemaining <= 0 {
		return domain.VerifyAttemptsExhausted, nil
	}
	if rec.Code != submittedCode {
		rec.AttemptsRemaining--
		return domain.VerifyInvalidCode, nil
	}
	rec.Used = true
	copied := *rec
	return domain.VerifyOK, &copied
}

// Close stops the background sweeper. Safe to call more than once.
func (s *VerificationStore) Close() {
	s.closeOnce.Do(func() { close(s.done) })
}

func (s *VerificationStore) sweep() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			now := time.Now().UTC()
			s.mu.Lock()
			for vid, r := range s.records {
				if now.After(r.ExpiresAt) {
					delete(s.records, vid)
				}
			}
			s.mu.Unlock()
		}
	}
}
