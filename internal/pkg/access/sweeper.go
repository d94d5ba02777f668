package access

import (
	"context"
	"log"
	"time"
)

// TokenRetention is how long token rows are kept past their expiry before
// the sweep removes them, used or not.
const TokenRetention = 24 * time.Hour

// Sweeper garbage-collects old QR token rows in the background. A token
// already consumed or expired is immutable in the fields that matter, so the
// sweep is safe to run at any time alongside in-flight validations.
type Sweeper struct {
	tokens   TokenSource
	interval time.Duration
	now      func() time.Time
}

// NewSweeper creates a token sweeper with the given sweep interval.
func NewSweeper(tokens TokenSource, interval time.Duration) *Sweeper {
	return &Sweeper{
		tokens:   tokens,
		interval: interval,
		now:      time.Now,
	}
}

// Start runs the sweep loop until the context is cancelled.
func (s *Sweeper) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.SweepOnce()
			}
		}
	}()
}

// SweepOnce removes token rows expired longer than the retention window ago.
func (s *Sweeper) SweepOnce() {
	cutoff := s.now().Add(-TokenRetention)
	deleted, err := s.tokens.DeleteExpiredBefore(cutoff)
	if err != nil {
		log.Printf("QR token sweep failed: %v", err)
		return
	}
	if deleted > 0 {
		log.Printf("QR token sweep removed %d expired tokens", deleted)
	}
}

// MembershipExpirer is the storage side of the expiry batch.
type MembershipExpirer interface {
	ExpireDue(now time.Time) (int64, error)
}

// ExpiryBatch persists the active to expired transition for memberships
// whose period ended. Admission decisions derive the state on the fly and
// never depend on this having run; the batch keeps listings and counters
// aligned with what the door already enforces.
type ExpiryBatch struct {
	memberships MembershipExpirer
	interval    time.Duration
	now         func() time.Time
}

// NewExpiryBatch creates a membership expiry batch with the given interval.
func NewExpiryBatch(memberships MembershipExpirer, interval time.Duration) *ExpiryBatch {
	return &ExpiryBatch{
		memberships: memberships,
		interval:    interval,
		now:         time.Now,
	}
}

// Start runs the batch loop until the context is cancelled. One run happens
// immediately so a restart never leaves stale rows for a full interval.
func (b *ExpiryBatch) Start(ctx context.Context) {
	go func() {
		b.RunOnce()

		ticker := time.NewTicker(b.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				b.RunOnce()
			}
		}
	}()
}

// RunOnce marks every due membership expired.
func (b *ExpiryBatch) RunOnce() {
	expired, err := b.memberships.ExpireDue(b.now())
	if err != nil {
		log.Printf("Membership expiry batch failed: %v", err)
		return
	}
	if expired > 0 {
		log.Printf("Membership expiry batch marked %d memberships expired", expired)
	}
}
