package access

import (
	"sync"
	"time"

	"github.com/gympulse/gympulse/app/models"
	"gorm.io/gorm"
)

type fakeMembers struct {
	members map[uint]*models.Member
}

func (f *fakeMembers) GetByID(id uint) (*models.Member, error) {
	if m, ok := f.members[id]; ok {
		return m, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeMemberships struct {
	current map[uint]*models.Membership
	history map[uint][]*models.Membership
}

func (f *fakeMemberships) FindCurrentByMember(memberID uint) (*models.Membership, error) {
	if m, ok := f.current[memberID]; ok {
		return m, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeMemberships) FindLatestByMemberAndStatuses(memberID uint, statuses []string) (*models.Membership, error) {
	var best *models.Membership
	for _, m := range f.history[memberID] {
		matched := false
		for _, s := range statuses {
			if m.Status == s {
				matched = true
				break
			}
		}
		if !matched {
			continue
		}
		if best == nil || m.EndsAt.After(best.EndsAt) {
			best = m
		}
	}
	if best == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return best, nil
}

type fakePayments struct {
	sums map[uint]int64
}

func (f *fakePayments) SumPaidByMembership(membershipID uint) (int64, error) {
	return f.sums[membershipID], nil
}

type fakeConfig struct {
	tolerance      int
	partialEnabled bool
	allowPartial   bool
	deadlineDays   int
	graceDays      int
	qrDuration     int
	reentryMinutes int
}

func (f *fakeConfig) MorosityToleranceDays() int       { return f.tolerance }
func (f *fakeConfig) PartialPaymentsEnabled() bool     { return f.partialEnabled }
func (f *fakeConfig) PartialPaymentsDeadlineDays() int { return f.deadlineDays }
func (f *fakeConfig) PartialPaymentsGraceDays() int    { return f.graceDays }
func (f *fakeConfig) PartialPaymentsAllowAccess() bool { return f.allowPartial }
func (f *fakeConfig) QrDurationSeconds() int           { return f.qrDuration }
func (f *fakeConfig) QrReentryMinutes() int            { return f.reentryMinutes }

// fakeTokens mimics the conditional-update semantics of the real repository:
// Consume claims used_at under a lock, exactly one caller wins.
type fakeTokens struct {
	mu     sync.Mutex
	byHash map[string]*models.QrToken
	nextID uint
}

func newFakeTokens() *fakeTokens {
	return &fakeTokens{byHash: make(map[string]*models.QrToken)}
}

func (f *fakeTokens) Create(token *models.QrToken) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	token.ID = f.nextID
	f.byHash[token.TokenHash] = token
	return nil
}

func (f *fakeTokens) GetByHash(hash string) (*models.QrToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t, ok := f.byHash[hash]; ok {
		copied := *t
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeTokens) Consume(hash string, usedAt time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.byHash[hash]
	if !ok || t.UsedAt != nil {
		return false, nil
	}
	t.UsedAt = &usedAt
	return true, nil
}

func (f *fakeTokens) DeleteExpiredBefore(cutoff time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var deleted int64
	for hash, t := range f.byHash {
		if t.ExpiresAt.Before(cutoff) {
			delete(f.byHash, hash)
			deleted++
		}
	}
	return deleted, nil
}

type fakeLogs struct {
	mu      sync.Mutex
	entries []*models.AccessLog
	nextID  uint
	// now supplies CreatedAt stamps so guard-window tests share one clock
	// with the manager under test.
	now func() time.Time
}

func (f *fakeLogs) Create(log *models.AccessLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	log.ID = f.nextID
	if log.CreatedAt.IsZero() {
		if f.now != nil {
			log.CreatedAt = f.now()
		} else {
			log.CreatedAt = time.Now()
		}
	}
	f.entries = append(f.entries, log)
	return nil
}

func (f *fakeLogs) LastAllowedAt(memberID uint) (*time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.entries) - 1; i >= 0; i-- {
		e := f.entries[i]
		if e.MemberID == memberID && e.Allowed {
			at := e.CreatedAt
			return &at, nil
		}
	}
	return nil, nil
}

func (f *fakeLogs) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.entries)
}
