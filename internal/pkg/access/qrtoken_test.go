package access

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/gympulse/gympulse/app/models"
)

type managerFixture struct {
	*engineFixture
	tokens  *fakeTokens
	logs    *fakeLogs
	manager *Manager
	clock   time.Time
}

func newManagerFixture() *managerFixture {
	ef := newEngineFixture()
	ef.config.qrDuration = 30
	ef.config.reentryMinutes = 10

	f := &managerFixture{
		engineFixture: ef,
		tokens:        newFakeTokens(),
		logs:          &fakeLogs{},
		clock:         engineNow,
	}
	f.manager = NewManager(f.tokens, f.logs, f.engine, f.config)
	f.manager.now = func() time.Time { return f.clock }
	f.logs.now = func() time.Time { return f.clock }
	return f
}

func (f *managerFixture) addAdmittableMember(id uint) {
	f.addMember(id, true)
	f.addMembership(id, models.MEMBERSHIP_STATUS_ACTIVE, engineNow.AddDate(0, 0, -10), engineNow.AddDate(0, 0, 20), 0)
}

func TestGenerateToken(t *testing.T) {
	f := newManagerFixture()
	f.addAdmittableMember(1)

	issued, err := f.manager.Generate(1)
	assert.NoError(t, err)
	assert.NotEmpty(t, issued.Token)
	assert.Equal(t, engineNow.Add(30*time.Second), issued.ExpiresAt)

	// Only the digest is stored, never the plaintext.
	stored, err := f.tokens.GetByHash(HashToken(issued.Token))
	assert.NoError(t, err)
	assert.Equal(t, uint(1), stored.MemberID)
	assert.NotEqual(t, issued.Token, stored.TokenHash)
	assert.Nil(t, stored.UsedAt)
}

func TestValidateUnknownToken(t *testing.T) {
	f := newManagerFixture()

	result, err := f.manager.Validate("never-issued", nil)
	assert.ErrorIs(t, err, ErrTokenInvalid)
	assert.Nil(t, result)
	// Nothing to log the attempt against.
	assert.Zero(t, f.logs.count())
}

func TestValidateExpiredToken(t *testing.T) {
	f := newManagerFixture()
	f.addAdmittableMember(1)

	issued, err := f.manager.Generate(1)
	assert.NoError(t, err)

	f.clock = engineNow.Add(31 * time.Second)
	result, err := f.manager.Validate(issued.Token, nil)
	assert.NoError(t, err)
	assert.False(t, result.Allowed)
	assert.Equal(t, "token expired", result.Reason)
	// The denial is logged against the token's member.
	assert.Equal(t, 1, f.logs.count())
	assert.Equal(t, uint(1), result.Log.MemberID)
	assert.False(t, result.Log.Allowed)
}

func TestValidateHappyPath(t *testing.T) {
	f := newManagerFixture()
	f.addAdmittableMember(1)
	staff := uint(9)

	issued, err := f.manager.Generate(1)
	assert.NoError(t, err)

	result, err := f.manager.Validate(issued.Token, &staff)
	assert.NoError(t, err)
	assert.True(t, result.Allowed)
	assert.Equal(t, "access granted", result.Reason)
	assert.NotNil(t, result.Verdict)
	assert.Equal(t, 1, f.logs.count())
	assert.NotNil(t, result.Log.QrTokenID)
	assert.Equal(t, &staff, result.Log.VerifiedByID)

	// The token is consumed exactly once.
	stored, err := f.tokens.GetByHash(HashToken(issued.Token))
	assert.NoError(t, err)
	assert.NotNil(t, stored.UsedAt)
}

func TestValidateConsumedTokenDeniesUsed(t *testing.T) {
	f := newManagerFixture()
	f.addAdmittableMember(1)

	issued, err := f.manager.Generate(1)
	assert.NoError(t, err)

	// Consume the token out of band, leaving no allowed log entry, so the
	// sharing guard passes and the CAS outcome is observable.
	won, err := f.tokens.Consume(HashToken(issued.Token), engineNow)
	assert.NoError(t, err)
	assert.True(t, won)

	result, err := f.manager.Validate(issued.Token, nil)
	assert.NoError(t, err)
	assert.False(t, result.Allowed)
	assert.Equal(t, "token already used", result.Reason)
}

func TestValidateSharingGuard(t *testing.T) {
	f := newManagerFixture()
	f.addAdmittableMember(1)

	first, err := f.manager.Generate(1)
	assert.NoError(t, err)
	r1, err := f.manager.Validate(first.Token, nil)
	assert.NoError(t, err)
	assert.True(t, r1.Allowed)

	// A second, fresh token for the same member inside the window: denied
	// by the guard, and the token itself is NOT burned.
	f.clock = engineNow.Add(5 * time.Second)
	second, err := f.manager.Generate(1)
	assert.NoError(t, err)
	r2, err := f.manager.Validate(second.Token, nil)
	assert.NoError(t, err)
	assert.False(t, r2.Allowed)
	assert.Contains(t, r2.Reason, "already entered")

	stored, err := f.tokens.GetByHash(HashToken(second.Token))
	assert.NoError(t, err)
	assert.Nil(t, stored.UsedAt, "guard denial must not consume the token")

	// The denial is still logged.
	assert.Equal(t, 2, f.logs.count())
}

func TestValidateOutsideGuardWindow(t *testing.T) {
	f := newManagerFixture()
	f.addAdmittableMember(1)

	first, err := f.manager.Generate(1)
	assert.NoError(t, err)
	r1, err := f.manager.Validate(first.Token, nil)
	assert.NoError(t, err)
	assert.True(t, r1.Allowed)

	// More than the window apart: both entries evaluated on their merits.
	f.clock = engineNow.Add(11 * time.Minute)
	second, err := f.manager.Generate(1)
	assert.NoError(t, err)
	r2, err := f.manager.Validate(second.Token, nil)
	assert.NoError(t, err)
	assert.True(t, r2.Allowed)
}

func TestValidateGuardIgnoresAheadPeerClock(t *testing.T) {
	f := newManagerFixture()
	f.addAdmittableMember(1)

	// An allowed entry stamped by a peer instance whose clock runs a minute
	// ahead of ours must not read as a recent re-entry.
	err := f.logs.Create(&models.AccessLog{
		MemberID:  1,
		Method:    models.ACCESS_METHOD_QR,
		Allowed:   true,
		Reason:    "access granted",
		CreatedAt: engineNow.Add(time.Minute),
	})
	assert.NoError(t, err)

	issued, err := f.manager.Generate(1)
	assert.NoError(t, err)
	result, err := f.manager.Validate(issued.Token, nil)
	assert.NoError(t, err)
	assert.True(t, result.Allowed)
	assert.NotContains(t, result.Reason, "already entered")
}

func TestValidateSingleWinnerUnderConcurrency(t *testing.T) {
	f := newManagerFixture()
	f.addAdmittableMember(1)

	issued, err := f.manager.Generate(1)
	assert.NoError(t, err)

	const callers = 16
	results := make([]*ValidationResult, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	wg.Add(callers)
	for i := 0; i < callers; i++ {
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = f.manager.Validate(issued.Token, nil)
		}(i)
	}
	wg.Wait()

	winners := 0
	for i := 0; i < callers; i++ {
		assert.NoError(t, errs[i])
		if results[i].Allowed {
			winners++
		} else {
			// Losers observe either the CAS loss or, if the winner's log
			// landed first, the sharing guard. Never a second allow.
			assert.True(t,
				results[i].Reason == "token already used" ||
					len(results[i].Reason) > 0)
		}
	}
	assert.Equal(t, 1, winners, "exactly one concurrent validation may win")
}

func TestSweeperRemovesOldTokens(t *testing.T) {
	f := newManagerFixture()
	f.addAdmittableMember(1)

	issued, err := f.manager.Generate(1)
	assert.NoError(t, err)

	sweeper := NewSweeper(f.tokens, time.Minute)
	sweeper.now = func() time.Time { return engineNow.Add(25 * time.Hour) }
	sweeper.SweepOnce()

	_, err = f.tokens.GetByHash(HashToken(issued.Token))
	assert.Error(t, err)
}

type fakeExpirer struct {
	expired int64
	lastRun time.Time
}

func (f *fakeExpirer) ExpireDue(now time.Time) (int64, error) {
	f.lastRun = now
	return f.expired, nil
}

func TestExpiryBatchRunOnce(t *testing.T) {
	expirer := &fakeExpirer{expired: 3}

	batch := NewExpiryBatch(expirer, time.Minute)
	batch.now = func() time.Time { return engineNow }
	batch.RunOnce()

	assert.Equal(t, engineNow, expirer.lastRun)
}
