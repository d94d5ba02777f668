package access

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/gympulse/gympulse/app/models"
	"gorm.io/gorm"
)

// tokenSecretBytes is the entropy of the plaintext secret. 32 random bytes,
// base64url encoded; the plaintext never touches storage or logs.
const tokenSecretBytes = 32

// TokenSource is the storage the token manager depends on. Consume must be
// a conditional write: it sets used_at only while it is still null and
// reports whether this caller won.
type TokenSource interface {
	Create(token *models.QrToken) error
	GetByHash(hash string) (*models.QrToken, error)
	Consume(hash string, usedAt time.Time) (bool, error)
	DeleteExpiredBefore(cutoff time.Time) (int64, error)
}

// AttemptLog is the access-log surface the token manager needs: appending
// attempts and reading the member's last allowed entry for the sharing guard.
type AttemptLog interface {
	Create(log *models.AccessLog) error
	LastAllowedAt(memberID uint) (*time.Time, error)
}

// TokenConfig is the slice of settings the token manager reads.
type TokenConfig interface {
	QrDurationSeconds() int
	QrReentryMinutes() int
}

// IssuedToken is the result of issuing a QR credential. Token is the only
// copy of the plaintext secret.
type IssuedToken struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	MemberID  uint      `json:"member_id"`
}

// ValidationResult is the outcome of validating a presented token. Log is
// nil only for outcomes that cannot reference a member.
type ValidationResult struct {
	Allowed bool              `json:"allowed"`
	Reason  string            `json:"reason"`
	Verdict *Verdict          `json:"verdict,omitempty"`
	Log     *models.AccessLog `json:"-"`
}

// Manager owns the QR token lifecycle: issue, single consumption, expiry.
type Manager struct {
	tokens TokenSource
	logs   AttemptLog
	engine *Engine
	config TokenConfig
	now    func() time.Time
}

// NewManager creates a QR token manager.
func NewManager(tokens TokenSource, logs AttemptLog, engine *Engine, config TokenConfig) *Manager {
	return &Manager{
		tokens: tokens,
		logs:   logs,
		engine: engine,
		config: config,
		now:    time.Now,
	}
}

// HashToken derives the storage key of a token secret. Only this digest is
// ever persisted or compared.
func HashToken(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}

// Generate issues a fresh single-use token for a member and returns the
// plaintext secret for QR rendering. Each issuance is a new row, so there is
// no concurrency hazard here.
func (m *Manager) Generate(memberID uint) (*IssuedToken, error) {
	b := make([]byte, tokenSecretBytes)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	plain := base64.RawURLEncoding.EncodeToString(b)

	expiresAt := m.now().Add(time.Duration(m.config.QrDurationSeconds()) * time.Second)
	token := &models.QrToken{
		MemberID:  memberID,
		TokenHash: HashToken(plain),
		ExpiresAt: expiresAt,
	}
	if err := m.tokens.Create(token); err != nil {
		return nil, err
	}

	return &IssuedToken{
		Token:     plain,
		ExpiresAt: expiresAt,
		MemberID:  memberID,
	}, nil
}

// Validate consumes a presented token and runs the admission decision for
// its member. The order of checks is fixed: expiry, then the sharing guard,
// then the atomic single-winner consumption, then the full evaluation.
// Reordering would change which failure a racing caller observes, and the
// guard runs before consumption so a shared-but-unused token is not burned
// by the guard alone.
func (m *Manager) Validate(plain string, verifiedBy *uint) (*ValidationResult, error) {
	hash := HashToken(plain)
	token, err := m.tokens.GetByHash(hash)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTokenInvalid
		}
		return nil, err
	}

	now := m.now()
	if token.IsExpired(now) {
		return m.denyToken(token, verifiedBy, "token expired")
	}

	last, err := m.logs.LastAllowedAt(token.MemberID)
	if err != nil {
		return nil, err
	}
	// A negative elapsed time means the last entry was stamped by a peer
	// with a slightly ahead clock; that is not a re-entry.
	window := time.Duration(m.config.QrReentryMinutes()) * time.Minute
	if last != nil {
		if elapsed := now.Sub(*last); elapsed >= 0 && elapsed < window {
			minutes := int(elapsed.Minutes())
			return m.denyToken(token, verifiedBy, fmt.Sprintf("already entered %d minutes ago", minutes))
		}
	}

	won, err := m.tokens.Consume(hash, now)
	if err != nil {
		// Not retried here: a blind retry of the conditional write could
		// claim a token another request already consumed. The caller
		// surfaces the failure instead.
		return nil, err
	}
	if !won {
		return m.denyToken(token, verifiedBy, "token already used")
	}

	verdict, err := m.engine.Evaluate(token.MemberID)
	if err != nil {
		return nil, err
	}

	log := &models.AccessLog{
		MemberID:     token.MemberID,
		Method:       models.ACCESS_METHOD_QR,
		Allowed:      verdict.Allowed,
		Reason:       verdict.Reason,
		QrTokenID:    &token.ID,
		VerifiedByID: verifiedBy,
	}
	if err := m.logs.Create(log); err != nil {
		return nil, err
	}

	return &ValidationResult{
		Allowed: verdict.Allowed,
		Reason:  verdict.Reason,
		Verdict: verdict,
		Log:     log,
	}, nil
}

// denyToken records a token-level denial against the token's member.
func (m *Manager) denyToken(token *models.QrToken, verifiedBy *uint, reason string) (*ValidationResult, error) {
	log := &models.AccessLog{
		MemberID:     token.MemberID,
		Method:       models.ACCESS_METHOD_QR,
		Allowed:      false,
		Reason:       reason,
		QrTokenID:    &token.ID,
		VerifiedByID: verifiedBy,
	}
	if err := m.logs.Create(log); err != nil {
		return nil, err
	}
	return &ValidationResult{
		Allowed: false,
		Reason:  reason,
		Log:     log,
	}, nil
}
