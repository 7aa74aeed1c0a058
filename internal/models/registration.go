package models

import (
	"gorm.io/gorm"
)

// RegistrationStatus is the persisted lifecycle state of a registration.
// The pending state while the admission engine deliberates is transient and
// never persisted, so it has no constant here; rejected requests never
// produce a row at all.
type RegistrationStatus string

const (
	StatusAccepted   RegistrationStatus = "ACCEPTED"
	StatusWaitlisted RegistrationStatus = "WAITLISTED"
	StatusCancelled  RegistrationStatus = "CANCELLED"
)

// IsLive reports whether the status holds seats against event capacity.
func (s RegistrationStatus) IsLive() bool {
	return s == StatusAccepted || s == StatusWaitlisted
}

// LiveStatuses is the set of statuses that hold seats. Ledger, duplicate and
// conflict queries all filter on it.
var LiveStatuses = []RegistrationStatus{StatusAccepted, StatusWaitlisted}

type RegistrationFields struct {
	ParticipantID  uint               `gorm:"not null;index" json:"participant_id"`
	EventID        uint               `gorm:"not null;index" json:"event_id"`
	TicketCategory string             `gorm:"not null" json:"ticket_category"`
	Quantity       int                `gorm:"not null" json:"quantity"`
	Status         RegistrationStatus `gorm:"type:varchar(20);not null" json:"status"`
}

type Registration struct {
	gorm.Model
	Reference          string `gorm:"uniqueIndex;not null" json:"reference"`
	RegistrationFields `gorm:"embedded"`
	Participant        Participant `gorm:"foreignKey:ParticipantID" json:"participant,omitempty"`
	Event              Event       `gorm:"foreignKey:EventID" json:"event,omitempty"`
}

// RegistrationHistory is an append-only snapshot written in the same
// transaction as every admission decision or cancellation.
type RegistrationHistory struct {
	gorm.Model
	RegistrationID     uint `gorm:"index"`
	RegistrationFields `gorm:"embedded"`
}
