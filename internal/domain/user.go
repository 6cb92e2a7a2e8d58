package domain

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Roles. "citizen" is the default for self-registered accounts.
const (
	RoleCitizen    = "citizen"
	RoleGuichetier = "guichetier"
	RoleEmployee   = "employee"
	RoleDirector   = "director"
	RoleAdmin      = "admin"
)

// The three product lines every staff member and complaint belongs to.
const (
	DepartmentMadaniya = "Madaniya"
	DepartmentInsaf    = "Insaf"
	DepartmentRached   = "Rached"
)

func ValidDepartment(d string) bool {
	switch d {
	case DepartmentMadaniya, DepartmentInsaf, DepartmentRached:
		return true
	}
	return false
}

func ValidRole(r string) bool {
	switch r {
	case RoleCitizen, RoleGuichetier, RoleEmployee, RoleDirector, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID           string `gorm:"primaryKey;size:36" json:"id"`
	Email        string `gorm:"uniqueIndex;size:191" json:"email"`
	Name         string `gorm:"size:64" json:"name"`
	PasswordHash string `gorm:"size:191" json:"-"`
	Role         string `gorm:"size:16;index" json:"role"`
	// Department is set for citizen/guichetier/employee, empty for
	// director/admin who operate across all three lines.
	Department string `gorm:"size:32;index" json:"department,omitempty"`
	// Ministre and Service sub-classify citizens only.
	Ministre string `gorm:"size:64" json:"ministre,omitempty"`
	Service  string `gorm:"size:64" json:"service,omitempty"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string { return "users" }

// NewUser builds a user and enforces the role-conditional field rules at
// construction time instead of leaving them as optional-field conventions.
func NewUser(id, email, name, passwordHash, role, department, ministre, service string) (*User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return nil, E(KindValidation, "email is required")
	}
	if !ValidRole(role) {
		return nil, E(KindValidation, "unknown role %q", role)
	}
	switch role {
	case RoleCitizen, RoleGuichetier, RoleEmployee:
		if !ValidDepartment(department) {
			return nil, E(KindValidation, "department is required for role %s", role)
		}
	default:
		department = ""
	}
	if role == RoleCitizen {
		if strings.TrimSpace(ministre) == "" || strings.TrimSpace(service) == "" {
			return nil, E(KindValidation, "ministre and service are required for citizens")
		}
	} else {
		ministre, service = "", ""
	}
	return &User{
		ID:           id,
		Email:        email,
		Name:         strings.TrimSpace(name),
		PasswordHash: passwordHash,
		Role:         role,
		Department:   department,
		Ministre:     ministre,
		Service:      service,
	}, nil
}

// IsStaff reports whether the user triages or resolves work items.
func (u *User) IsStaff() bool {
	return u.Role == RoleGuichetier || u.Role == RoleEmployee || u.Role == RoleDirector || u.Role == RoleAdmin
}

type UserFilter struct {
	Role       string
	Department string
	Query      string // matches email/name
	Offset     int
	Limit      int
}

type UserRepository interface {
	Create(u *User) error
	FindByID(id string) (*User, error)
	FindByEmail(email string) (*User, error)
	List(f UserFilter) ([]User, int64, error)
	Update(u *User) error
	SoftDelete(id string) error
	CountByRole(role string) (int64, error)
}
