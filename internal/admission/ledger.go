package admission

import (
	"fmt"

	"github.com/eventdesk/registration-api/internal/models"
	"gorm.io/gorm"
)

// Ledger derives seat totals for an event from its registration rows. There
// is no stored counter to drift out of sync; the sums are recomputed inside
// the same transaction that writes the new row.
type Ledger struct{}

// CommittedSeats sums quantities over all live (accepted or waitlisted)
// registrations for the event.
func (Ledger) CommittedSeats(tx *gorm.DB, eventID uint) (int, error) {
	return sumQuantities(tx, eventID, models.LiveStatuses)
}

// AcceptedSeats sums quantities over accepted registrations only. This is the
// denominator for the accept/waitlist split, not for the capacity ceiling.
func (Ledger) AcceptedSeats(tx *gorm.DB, eventID uint) (int, error) {
	return sumQuantities(tx, eventID, []models.RegistrationStatus{models.StatusAccepted})
}

func sumQuantities(tx *gorm.DB, eventID uint, statuses []models.RegistrationStatus) (int, error) {
	var total int64
	err := tx.Model(&models.Registration{}).
		Select("COALESCE(SUM(quantity), 0)").
		Where("event_id = ? AND status IN ?", eventID, statuses).
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("sum registration quantities: %w", err)
	}
	return int(total), nil
}
