package domain

import "time"

// Complaint lifecycle. Statuses keep the canonical French labels the
// dashboard displays; transitions only move forward.
const (
	ComplaintDraft    = "brouillant"
	ComplaintSent     = "envoyer"
	ComplaintPending  = "en attente"
	ComplaintResolved = "traitée"
	ComplaintRejected = "rejetée"
)

const (
	TypeReclamation = "Reclamation"
	TypeDataRequest = "DemandeDonnees"
)

// Fixed taxonomy of rejection reasons; a rejection must cite at least one.
const (
	RejectOutOfScope   = "hors-competence"
	RejectIncomplete   = "informations-insuffisantes"
	RejectDuplicate    = "doublon"
	RejectUnfounded    = "non-fondee"
	RejectWrongChannel = "mauvais-canal"
)

func ValidRejectReason(r string) bool {
	switch r {
	case RejectOutOfScope, RejectIncomplete, RejectDuplicate, RejectUnfounded, RejectWrongChannel:
		return true
	}
	return false
}

func ValidComplaintType(t string) bool {
	return t == TypeReclamation || t == TypeDataRequest
}

func ValidComplaintStatus(s string) bool {
	switch s {
	case ComplaintDraft, ComplaintSent, ComplaintPending, ComplaintResolved, ComplaintRejected:
		return true
	}
	return false
}

type Complaint struct {
	ID            string   `gorm:"primaryKey;size:36" json:"id"`
	UserID        string   `gorm:"size:36;index;not null" json:"userId"`
	GuichetierID  *string  `gorm:"size:36;index" json:"guichetierId,omitempty"`
	EmployeeID    *string  `gorm:"size:36;index" json:"employeeId,omitempty"`
	Department    string   `gorm:"size:32;index;not null" json:"department"`
	Type          string   `gorm:"size:32;not null" json:"type"`
	Description   string   `gorm:"type:text" json:"description"`
	Status        string   `gorm:"size:32;index" json:"status"`
	Feedback      string   `gorm:"type:text" json:"feedback,omitempty"`
	RejectReasons []string `gorm:"serializer:json" json:"rejectReasons,omitempty"`
	Files         []string `gorm:"serializer:json" json:"files,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Complaint) TableName() string { return "reclamations" }

// Terminal reports whether no further transition is allowed.
func (c *Complaint) Terminal() bool {
	return c.Status == ComplaintResolved || c.Status == ComplaintRejected
}

type ComplaintFilter struct {
	UserID     string
	Department string
	Status     string
	EmployeeID string
	From       *time.Time
	To         *time.Time
	Offset     int
	Limit      int
}

// ComplaintPatch is a partial update; nil fields are left untouched.
type ComplaintPatch struct {
	Description *string
	Status      *string
	Feedback    *string
	EmployeeID  *string
	Files       []string
}

type ComplaintRepository interface {
	Create(c *Complaint) error
	FindByID(id string) (*Complaint, error)
	List(f ComplaintFilter) ([]Complaint, int64, error)
	Update(c *Complaint) error
	Delete(id string) error
}
