package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/smartrecipe/auth-service/internal/domain"
)

// fakeAttemptStore is an in-memory AttemptStore.
type fakeAttemptStore struct {
	attempts []*domain.LoginAttempt
}

func (s *fakeAttemptStore) Create(ctx context.Context, attempt *domain.LoginAttempt) error {
	clone := *attempt
	s.attempts = append(s.attempts, &clone)
	return nil
}

func (s *fakeAttemptStore) CountFailuresForIdentifiersSince(ctx context.Context, identifiers []string, since time.Time) (int, error) {
	set := map[string]bool{}
	for _, id := range identifiers {
		set[id] = true
	}
	count := 0
	for _, a := range s.attempts {
		if set[a.Identifier] && !a.Success && a.CreatedAt.After(since) {
			count++
		}
	}
	return count, nil
}

func (s *fakeAttemptStore) LastSuccess(ctx context.Context, identifiers []string) (*time.Time, error) {
	set := map[string]bool{}
	for _, id := range identifiers {
		set[id] = true
	}
	var last *time.Time
	for _, a := range s.attempts {
		if set[a.Identifier] && a.Success {
			at := a.CreatedAt
			if last == nil || at.After(*last) {
				last = &at
			}
		}
	}
	return last, nil
}

// fakeLockStore is an in-memory LockStore.
type fakeLockStore struct {
	locks []*domain.AccountLock
}

func (s *fakeLockStore) Create(ctx context.Context, lock *domain.AccountLock) error {
	clone := *lock
	s.locks = append(s.locks, &clone)
	return nil
}

func (s *fakeLockStore) ActiveLock(ctx context.Context, userID uuid.UUID, now time.Time) (*domain.AccountLock, error) {
	var best *domain.AccountLock
	for _, l := range s.locks {
		if l.UserID == userID && l.Active && now.Before(l.LockedUntil) {
			if best == nil || l.LockedUntil.After(best.LockedUntil) {
				best = l
			}
		}
	}
	if best == nil {
		return nil, nil
	}
	clone := *best
	return &clone, nil
}

func newTestLockout(attempts *fakeAttemptStore, locks *fakeLockStore) *LockoutPolicy {
	return NewLockoutPolicy(attempts, locks, LockoutConfig{}, testLogger())
}

func TestLockoutPolicy_ThresholdLocks(t *testing.T) {
	attempts := &fakeAttemptStore{}
	locks := &fakeLockStore{}
	policy := newTestLockout(attempts, locks)
	ctx := context.Background()
	userID := uuid.New()
	identifiers := []string{"alice", "alice@example.com"}

	// Four failures: below the threshold of five, no lock.
	for i := 0; i < 4; i++ {
		policy.RecordAttempt(ctx, "alice", "1.2.3.4", "ua", false, domain.FailureWrongCredentials)
	}
	if err := policy.EvaluateAndLock(ctx, userID, identifiers); err != nil {
		t.Fatalf("EvaluateAndLock() error = %v", err)
	}
	locked, _, err := policy.CheckLock(ctx, userID)
	if err != nil {
		t.Fatalf("CheckLock() error = %v", err)
	}
	if locked {
		t.Fatal("locked after 4 failures, threshold is 5")
	}

	// The fifth failure trips the lock.
	policy.RecordAttempt(ctx, "alice", "1.2.3.4", "ua", false, domain.FailureWrongCredentials)
	if err := policy.EvaluateAndLock(ctx, userID, identifiers); err != nil {
		t.Fatalf("EvaluateAndLock() error = %v", err)
	}
	locked, until, err := policy.CheckLock(ctx, userID)
	if err != nil {
		t.Fatalf("CheckLock() error = %v", err)
	}
	if !locked {
		t.Fatal("not locked after 5 failures")
	}
	if until == nil || !until.After(time.Now()) {
		t.Errorf("locked_until = %v, want a future time", until)
	}
}

func TestLockoutPolicy_FailuresCountAcrossIdentifiers(t *testing.T) {
	attempts := &fakeAttemptStore{}
	locks := &fakeLockStore{}
	policy := newTestLockout(attempts, locks)
	ctx := context.Background()
	userID := uuid.New()

	// Failures split across username and email still add up: switching
	// identifier does not reset the budget.
	for i := 0; i < 3; i++ {
		policy.RecordAttempt(ctx, "alice", "1.2.3.4", "ua", false, domain.FailureWrongCredentials)
	}
	for i := 0; i < 2; i++ {
		policy.RecordAttempt(ctx, "alice@example.com", "1.2.3.4", "ua", false, domain.FailureWrongCredentials)
	}

	if err := policy.EvaluateAndLock(ctx, userID, []string{"alice", "alice@example.com"}); err != nil {
		t.Fatalf("EvaluateAndLock() error = %v", err)
	}
	locked, _, err := policy.CheckLock(ctx, userID)
	if err != nil {
		t.Fatalf("CheckLock() error = %v", err)
	}
	if !locked {
		t.Error("not locked after 5 failures across identifiers")
	}
}

func TestLockoutPolicy_SuccessesDoNotCount(t *testing.T) {
	attempts := &fakeAttemptStore{}
	locks := &fakeLockStore{}
	policy := newTestLockout(attempts, locks)
	ctx := context.Background()
	userID := uuid.New()

	for i := 0; i < 10; i++ {
		policy.RecordAttempt(ctx, "alice", "1.2.3.4", "ua", true, "")
	}
	if err := policy.EvaluateAndLock(ctx, userID, []string{"alice"}); err != nil {
		t.Fatalf("EvaluateAndLock() error = %v", err)
	}
	locked, _, err := policy.CheckLock(ctx, userID)
	if err != nil {
		t.Fatalf("CheckLock() error = %v", err)
	}
	if locked {
		t.Error("locked by successful attempts")
	}
}

func TestLockoutPolicy_ExpiredLockIsInert(t *testing.T) {
	attempts := &fakeAttemptStore{}
	locks := &fakeLockStore{}
	policy := newTestLockout(attempts, locks)
	ctx := context.Background()
	userID := uuid.New()

	locks.locks = append(locks.locks, &domain.AccountLock{
		ID:          uuid.New(),
		UserID:      userID,
		LockType:    domain.LockTypeLoginAttempts,
		LockedUntil: time.Now().Add(-time.Minute),
		Active:      true,
		CreatedAt:   time.Now().Add(-2 * time.Hour),
	})

	locked, _, err := policy.CheckLock(ctx, userID)
	if err != nil {
		t.Fatalf("CheckLock() error = %v", err)
	}
	if locked {
		t.Error("expired lock still blocks")
	}
}

func TestLockoutPolicy_LastLogin(t *testing.T) {
	attempts := &fakeAttemptStore{}
	locks := &fakeLockStore{}
	policy := newTestLockout(attempts, locks)
	ctx := context.Background()

	last, err := policy.LastLogin(ctx, []string{"alice"})
	if err != nil {
		t.Fatalf("LastLogin() error = %v", err)
	}
	if last != nil {
		t.Errorf("LastLogin() = %v, want nil before any success", last)
	}

	policy.RecordAttempt(ctx, "alice", "1.2.3.4", "ua", true, "")
	last, err = policy.LastLogin(ctx, []string{"alice"})
	if err != nil {
		t.Fatalf("LastLogin() error = %v", err)
	}
	if last == nil {
		t.Error("LastLogin() = nil after a success")
	}
}
