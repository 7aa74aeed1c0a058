package models

import (
	"time"

	"gorm.io/gorm"
)

// DefaultEventDuration is assumed when an event has no explicit end time.
const DefaultEventDuration = 2 * time.Hour

type Event struct {
	gorm.Model
	Title       string     `gorm:"not null" json:"title"`
	Description string     `json:"description"`
	Location    string     `json:"location"`
	StartsAt    time.Time  `gorm:"not null" json:"starts_at"`
	EndsAt      *time.Time `json:"ends_at"`
	Capacity    int        `gorm:"not null" json:"capacity"`
	CategoryID  *uint      `json:"category_id"`
	Category    *Category  `json:"category,omitempty"`
	OrganizerID *uint      `json:"organizer_id"`
}

// Window returns the event's half-open time interval [start, end).
// Events without an end time run for DefaultEventDuration.
func (e *Event) Window() (start, end time.Time) {
	start = e.StartsAt
	if e.EndsAt != nil {
		return start, *e.EndsAt
	}
	return start, start.Add(DefaultEventDuration)
}

type Category struct {
	gorm.Model
	Name        string `gorm:"uniqueIndex;not null" json:"name"`
	Description string `json:"description"`
}
