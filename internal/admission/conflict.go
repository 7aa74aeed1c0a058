package admission

import (
	"fmt"
	"time"

	"github.com/eventdesk/registration-api/internal/models"
	"gorm.io/gorm"
)

// Window is a half-open time interval [Start, End).
type Window struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether two half-open intervals intersect. Windows that
// merely touch (one ends exactly when the other starts) do not overlap.
func (w Window) Overlaps(o Window) bool {
	return w.Start.Before(o.End) && o.Start.Before(w.End)
}

// ConflictDetector checks a candidate event window against the windows of the
// participant's other live registrations.
type ConflictDetector struct{}

// HasOverlap loads the participant's live registrations, excluding the event
// being registered for (the duplicate guard owns that case), and compares
// event windows pairwise. Events without an end time get the default
// duration via Event.Window.
func (ConflictDetector) HasOverlap(tx *gorm.DB, participantID uint, candidate Window, excludingEventID uint) (bool, error) {
	var regs []models.Registration
	err := tx.Preload("Event").
		Where("participant_id = ? AND event_id <> ? AND status IN ?",
			participantID, excludingEventID, models.LiveStatuses).
		Find(&regs).Error
	if err != nil {
		return false, fmt.Errorf("load live registrations: %w", err)
	}

	for _, reg := range regs {
		start, end := reg.Event.Window()
		if candidate.Overlaps(Window{Start: start, End: end}) {
			return true, nil
		}
	}
	return false, nil
}
