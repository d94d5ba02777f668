package access

import (
	"github.com/gympulse/gympulse/app/models"
)

// LogSink appends admission attempts.
type LogSink interface {
	Create(log *models.AccessLog) error
}

// RecordManualAttempt appends the verdict of a manual check-in to the access
// log. The engine itself never writes; every caller that shows a verdict to
// a member is responsible for logging it exactly once.
func RecordManualAttempt(logs LogSink, memberID uint, verdict *Verdict, verifiedBy *uint) (*models.AccessLog, error) {
	log := &models.AccessLog{
		MemberID:     memberID,
		Method:       models.ACCESS_METHOD_MANUAL,
		Allowed:      verdict.Allowed,
		Reason:       verdict.Reason,
		VerifiedByID: verifiedBy,
	}
	if err := logs.Create(log); err != nil {
		return nil, err
	}
	return log, nil
}
