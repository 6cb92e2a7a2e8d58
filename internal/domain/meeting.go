package domain

import "time"

// Meeting lifecycle: Demandé → Planifié → Terminé | Annulé, with Rejeté as
// the alternate terminal for requests the guichetier turns down.
const (
	MeetingRequested = "Demandé"
	MeetingScheduled = "Planifié"
	MeetingCompleted = "Terminé"
	MeetingCancelled = "Annulé"
	MeetingRejected  = "Rejeté"
)

func ValidMeetingStatus(s string) bool {
	switch s {
	case MeetingRequested, MeetingScheduled, MeetingCompleted, MeetingCancelled, MeetingRejected:
		return true
	}
	return false
}

type Meeting struct {
	ID           string  `gorm:"primaryKey;size:36" json:"id"`
	UserID       string  `gorm:"size:36;index;not null" json:"userId"`
	EmployeeID   *string `gorm:"size:36;index" json:"employeeId,omitempty"`
	GuichetierID *string `gorm:"size:36;index" json:"guichetierId,omitempty"`
	Department   string  `gorm:"size:32;index;not null" json:"department"`
	Date         time.Time `gorm:"index" json:"date"`
	Status       string  `gorm:"size:16;index" json:"status"`
	Description  string  `gorm:"type:text" json:"description,omitempty"`
	MeetingLink  string  `gorm:"size:191" json:"meetingLink,omitempty"`
	// Version guards against two guichetiers claiming the same request;
	// writes must match the version they read.
	Version int `gorm:"not null;default:0" json:"version"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Meeting) TableName() string { return "meetings" }

func (m *Meeting) Terminal() bool {
	return m.Status == MeetingCompleted || m.Status == MeetingCancelled || m.Status == MeetingRejected
}

type MeetingFilter struct {
	UserID     string
	EmployeeID string
	Department string
	Status     string
	From       *time.Time
	To         *time.Time
	Offset     int
	Limit      int
}

type MeetingRepository interface {
	Create(m *Meeting) error
	FindByID(id string) (*Meeting, error)
	List(f MeetingFilter) ([]Meeting, int64, error)
	// UpdateVersioned persists m only if the stored Version still equals
	// fromVersion; reports whether the write applied.
	UpdateVersioned(m *Meeting, fromVersion int) (bool, error)
	// FindScheduledAt returns the Planifié meeting for employeeID starting
	// exactly at t, excluding excludeID. Nil when the slot is free.
	FindScheduledAt(employeeID string, t time.Time, excludeID string) (*Meeting, error)
	// ScheduledBetween lists Planifié meetings for employeeID with
	// start times in [from, to).
	ScheduledBetween(employeeID string, from, to time.Time) ([]Meeting, error)
}
