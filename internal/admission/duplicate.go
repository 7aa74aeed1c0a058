package admission

import (
	"fmt"

	"github.com/eventdesk/registration-api/internal/models"
	"gorm.io/gorm"
)

// DuplicateGuard enforces at most one live registration per
// (participant, event) pair. Cancelled registrations do not count, so a
// participant may re-register after cancelling.
type DuplicateGuard struct{}

func (DuplicateGuard) HasLiveRegistration(tx *gorm.DB, participantID, eventID uint) (bool, error) {
	var count int64
	err := tx.Model(&models.Registration{}).
		Where("participant_id = ? AND event_id = ? AND status IN ?",
			participantID, eventID, models.LiveStatuses).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("count live registrations: %w", err)
	}
	return count > 0, nil
}
