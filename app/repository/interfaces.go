package repository

import (
	"time"

	"github.com/gympulse/gympulse/app/models"
	"gorm.io/gorm"
)

// UserRepository defines the interface for staff-account database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Update(user *models.User) error
	List(offset, limit int) ([]models.User, error)
	Count() (int64, error)
}

// MemberRepository defines the interface for gym-member database operations
type MemberRepository interface {
	Create(member *models.Member) error
	GetByID(id uint) (*models.Member, error)
	GetByMemberNumber(number string) (*models.Member, error)
	Update(member *models.Member) error
	List(offset, limit int) ([]models.Member, error)
	Search(query string) ([]models.Member, error)
	Count() (int64, error)
	CountActive() (int64, error)
}

// PlanRepository defines the interface for plan-catalog database operations
type PlanRepository interface {
	Create(plan *models.Plan) error
	GetByID(id uint) (*models.Plan, error)
	Update(plan *models.Plan) error
	List() ([]models.Plan, error)
	ListActive() ([]models.Plan, error)
}

// MembershipRepository defines the interface for membership database operations.
// Rows are append-only: Update only ever transitions status fields.
type MembershipRepository interface {
	Create(membership *models.Membership) error
	GetByID(id uint) (*models.Membership, error)
	Update(membership *models.Membership) error
	// FindCurrentByMember returns the member's membership in one of the
	// current statuses (active, frozen, pending_payment), plan preloaded,
	// most recent ends_at first.
	FindCurrentByMember(memberID uint) (*models.Membership, error)
	// FindLatestByMemberAndStatuses returns the most recent membership (by
	// ends_at descending) among the given statuses.
	FindLatestByMemberAndStatuses(memberID uint, statuses []string) (*models.Membership, error)
	ListByMember(memberID uint) ([]models.Membership, error)
	// ExpireDue persists active -> expired for rows whose ends_at has passed.
	// The access calculators never rely on this having run.
	ExpireDue(now time.Time) (int64, error)
	CountByStatus(status string) (int64, error)
}

// PaymentRepository defines the interface for payment database operations.
// Voided payments stay in place; readers must exclude them.
type PaymentRepository interface {
	Create(payment *models.Payment) error
	GetByID(id uint) (*models.Payment, error)
	Update(payment *models.Payment) error
	ListByMembership(membershipID uint) ([]models.Payment, error)
	ListByMember(memberID uint) ([]models.Payment, error)
	// SumPaidByMembership totals non-voided payments for a membership.
	SumPaidByMembership(membershipID uint) (int64, error)
	ListRecent(limit int) ([]models.Payment, error)
}

// QrTokenRepository defines the interface for QR-token database operations
type QrTokenRepository interface {
	Create(token *models.QrToken) error
	GetByHash(hash string) (*models.QrToken, error)
	// Consume atomically sets used_at if and only if it is still null.
	// It reports whether this caller won the write; false means another
	// validation consumed the token first.
	Consume(hash string, usedAt time.Time) (bool, error)
	// DeleteExpiredBefore removes tokens whose expiry is older than cutoff,
	// used or not, and returns the number of rows removed.
	DeleteExpiredBefore(cutoff time.Time) (int64, error)
}

// AccessLogRepository defines the interface for the append-only admission log
type AccessLogRepository interface {
	Create(log *models.AccessLog) error
	// LastAllowedAt returns the timestamp of the member's most recent
	// allowed entry, or nil when the member never entered.
	LastAllowedAt(memberID uint) (*time.Time, error)
	ListByMember(memberID uint, offset, limit int) ([]models.AccessLog, error)
	ListRecent(limit int) ([]models.AccessLog, error)
	CountAllowedSince(since time.Time) (int64, error)
}

// SettingRepository defines the interface for settings operations
type SettingRepository interface {
	GetValue(key string) (string, error)
	SetValue(key, value string) error
	List() ([]models.Setting, error)
}

// Repositories contains all repository instances
type Repositories struct {
	User       UserRepository
	Member     MemberRepository
	Plan       PlanRepository
	Membership MembershipRepository
	Payment    PaymentRepository
	QrToken    QrTokenRepository
	AccessLog  AccessLogRepository
	Setting    SettingRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:       NewUserRepository(db),
		Member:     NewMemberRepository(db),
		Plan:       NewPlanRepository(db),
		Membership: NewMembershipRepository(db),
		Payment:    NewPaymentRepository(db),
		QrToken:    NewQrTokenRepository(db),
		AccessLog:  NewAccessLogRepository(db),
		Setting:    NewSettingRepository(db),
	}
}
