package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/smartrecipe/auth-service/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeCodeStore is an in-memory CodeStore mirroring the postgres
// repository's semantics.
type fakeCodeStore struct {
	codes []*domain.VerificationCode
}

func (s *fakeCodeStore) Replace(ctx context.Context, code *domain.VerificationCode) error {
	for _, c := range s.codes {
		if c.Identifier == code.Identifier && c.Purpose == code.Purpose && !c.Used {
			c.Used = true
		}
	}
	clone := *code
	s.codes = append(s.codes, &clone)
	return nil
}

func (s *fakeCodeStore) latestUnused(identifier string, purpose domain.CodePurpose) *domain.VerificationCode {
	var candidates []*domain.VerificationCode
	for _, c := range s.codes {
		if c.Identifier == identifier && c.Purpose == purpose && !c.Used {
			candidates = append(candidates, c)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].CreatedAt.After(candidates[j].CreatedAt)
	})
	return candidates[0]
}

func (s *fakeCodeStore) LatestActive(ctx context.Context, identifier string, purpose domain.CodePurpose, now time.Time) (*domain.VerificationCode, error) {
	c := s.latestUnused(identifier, purpose)
	if c == nil || !now.Before(c.ExpiresAt) {
		return nil, domain.ErrCodeInvalidOrExpired
	}
	clone := *c
	return &clone, nil
}

func (s *fakeCodeStore) IssuedSince(ctx context.Context, identifier string, purpose domain.CodePurpose, since time.Time) (bool, error) {
	for _, c := range s.codes {
		if c.Identifier == identifier && c.Purpose == purpose && c.CreatedAt.After(since) {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeCodeStore) IncrementAttempts(ctx context.Context, id uuid.UUID) (int, error) {
	for _, c := range s.codes {
		if c.ID == id && !c.Used {
			c.Attempts++
			return c.Attempts, nil
		}
	}
	return 0, domain.ErrCodeInvalidOrExpired
}

func (s *fakeCodeStore) IncrementLatestAttempts(ctx context.Context, identifier string, purpose domain.CodePurpose) error {
	if c := s.latestUnused(identifier, purpose); c != nil {
		c.Attempts++
	}
	return nil
}

func (s *fakeCodeStore) Consume(ctx context.Context, id uuid.UUID) (bool, error) {
	for _, c := range s.codes {
		if c.ID == id && !c.Used {
			c.Used = true
			return true, nil
		}
	}
	return false, nil
}

type fakeSender struct {
	sent []string
	err  error
}

func (s *fakeSender) SendVerificationCode(ctx context.Context, identifier, code string, purpose domain.CodePurpose, region domain.Region) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, code)
	return nil
}

func newTestCodeService(store *fakeCodeStore, sender *fakeSender) *VerificationCodeService {
	return NewVerificationCodeService(store, sender, VerificationCodeConfig{}, testLogger())
}

func TestVerificationCodeService_IssueAndVerify(t *testing.T) {
	store := &fakeCodeStore{}
	sender := &fakeSender{}
	svc := newTestCodeService(store, sender)
	ctx := context.Background()

	if err := svc.Issue(ctx, "alice@example.com", domain.PurposeRegister, domain.RegionUS); err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("sent %d codes, want 1", len(sender.sent))
	}
	code := sender.sent[0]

	if err := svc.Verify(ctx, "alice@example.com", code, domain.PurposeRegister); err != nil {
		t.Fatalf("Verify() error = %v", err)
	}

	// A consumed code never verifies again.
	if err := svc.Verify(ctx, "alice@example.com", code, domain.PurposeRegister); !errors.Is(err, domain.ErrCodeInvalidOrExpired) {
		t.Errorf("Verify(consumed) = %v, want ErrCodeInvalidOrExpired", err)
	}
}

func TestVerificationCodeService_IssueRateLimit(t *testing.T) {
	store := &fakeCodeStore{}
	sender := &fakeSender{}
	svc := newTestCodeService(store, sender)
	ctx := context.Background()

	if err := svc.Issue(ctx, "alice@example.com", domain.PurposeRegister, domain.RegionUS); err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if err := svc.Issue(ctx, "alice@example.com", domain.PurposeRegister, domain.RegionUS); !errors.Is(err, domain.ErrCodeRateLimited) {
		t.Errorf("second Issue() = %v, want ErrCodeRateLimited", err)
	}

	// A different purpose has its own window.
	if err := svc.Issue(ctx, "alice@example.com", domain.PurposeResetPassword, domain.RegionUS); err != nil {
		t.Errorf("Issue(other purpose) = %v, want nil", err)
	}
}

func TestVerificationCodeService_ReissueInvalidatesPrior(t *testing.T) {
	store := &fakeCodeStore{}
	sender := &fakeSender{}
	svc := NewVerificationCodeService(store, sender, VerificationCodeConfig{
		IssueWindow: time.Nanosecond, // effectively disable the window
	}, testLogger())
	ctx := context.Background()

	if err := svc.Issue(ctx, "alice@example.com", domain.PurposeRegister, domain.RegionUS); err != nil {
		t.Fatalf("first Issue() error = %v", err)
	}
	time.Sleep(time.Millisecond)
	if err := svc.Issue(ctx, "alice@example.com", domain.PurposeRegister, domain.RegionUS); err != nil {
		t.Fatalf("second Issue() error = %v", err)
	}

	first, second := sender.sent[0], sender.sent[1]
	if first != second {
		// The earlier code must be dead even though it never expired.
		if err := svc.Verify(ctx, "alice@example.com", first, domain.PurposeRegister); !errors.Is(err, domain.ErrCodeInvalidOrExpired) {
			t.Errorf("Verify(superseded code) = %v, want ErrCodeInvalidOrExpired", err)
		}
	}
	if err := svc.Verify(ctx, "alice@example.com", second, domain.PurposeRegister); err != nil {
		t.Errorf("Verify(latest code) = %v, want nil", err)
	}
}

func TestVerificationCodeService_DeliveryFailureKeepsCode(t *testing.T) {
	store := &fakeCodeStore{}
	sender := &fakeSender{err: errors.New("smtp down")}
	svc := newTestCodeService(store, sender)
	ctx := context.Background()

	err := svc.Issue(ctx, "alice@example.com", domain.PurposeRegister, domain.RegionUS)
	if !errors.Is(err, domain.ErrDeliveryFailed) {
		t.Fatalf("Issue() = %v, want ErrDeliveryFailed", err)
	}

	// The stored code stays valid: a late delivery is still honored.
	stored := store.latestUnused("alice@example.com", domain.PurposeRegister)
	if stored == nil {
		t.Fatal("no stored code after delivery failure")
	}
	if err := svc.Verify(ctx, "alice@example.com", stored.Code, domain.PurposeRegister); err != nil {
		t.Errorf("Verify(stored code) = %v, want nil", err)
	}
}

func TestVerificationCodeService_AttemptExhaustion(t *testing.T) {
	store := &fakeCodeStore{}
	sender := &fakeSender{}
	svc := newTestCodeService(store, sender)
	ctx := context.Background()

	if err := svc.Issue(ctx, "alice@example.com", domain.PurposeRegister, domain.RegionUS); err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	correct := sender.sent[0]

	// Three wrong submissions burn the attempt budget.
	for i := 0; i < 3; i++ {
		if err := svc.Verify(ctx, "alice@example.com", "000000", domain.PurposeRegister); !errors.Is(err, domain.ErrCodeInvalidOrExpired) {
			t.Fatalf("attempt %d: Verify() = %v, want ErrCodeInvalidOrExpired", i+1, err)
		}
	}

	// The fourth attempt fails as exhausted even with the correct code.
	if err := svc.Verify(ctx, "alice@example.com", correct, domain.PurposeRegister); !errors.Is(err, domain.ErrCodeTooManyAttempts) {
		t.Errorf("Verify(correct after exhaustion) = %v, want ErrCodeTooManyAttempts", err)
	}
}

func TestVerificationCodeService_ExpiredCode(t *testing.T) {
	store := &fakeCodeStore{}
	sender := &fakeSender{}
	svc := NewVerificationCodeService(store, sender, VerificationCodeConfig{
		TTL: time.Nanosecond,
	}, testLogger())
	ctx := context.Background()

	if err := svc.Issue(ctx, "alice@example.com", domain.PurposeRegister, domain.RegionUS); err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	time.Sleep(time.Millisecond)

	if err := svc.Verify(ctx, "alice@example.com", sender.sent[0], domain.PurposeRegister); !errors.Is(err, domain.ErrCodeInvalidOrExpired) {
		t.Errorf("Verify(expired) = %v, want ErrCodeInvalidOrExpired", err)
	}
}

func TestVerificationCodeService_InvalidPurpose(t *testing.T) {
	svc := newTestCodeService(&fakeCodeStore{}, &fakeSender{})
	err := svc.Issue(context.Background(), "alice@example.com", domain.CodePurpose("bogus"), domain.RegionUS)
	if !errors.Is(err, domain.ErrInvalidPurpose) {
		t.Errorf("Issue(bogus purpose) = %v, want ErrInvalidPurpose", err)
	}
}
