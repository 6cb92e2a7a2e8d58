package service

import (
	"encoding/csv"
	"fmt"
	"io"

	"reclamation-api/internal/core/mail"
	"reclamation-api/internal/domain"
	"reclamation-api/pkg/utils"
)

// UserService backs the admin plane: account provisioning, listing, CSV
// export and the last-admin guard.
type UserService struct {
	users  domain.UserRepository
	mailer *mail.Mailer
	idGen  func() string
}

func NewUserService(users domain.UserRepository, mailer *mail.Mailer, idGen func() string) *UserService {
	return &UserService{users: users, mailer: mailer, idGen: idGen}
}

type CreateUserInput struct {
	Email      string
	Name       string
	Password   string
	Role       string
	Department string
	Ministre   string
	Service    string
}

// Create provisions an account and sends the welcome mail fire-and-forget;
// a broken SMTP server never fails the creation.
func (s *UserService) Create(in CreateUserInput) (*domain.User, error) {
	if in.Password == "" {
		return nil, domain.E(domain.KindValidation, "password is required")
	}
	u, err := domain.NewUser(s.idGen(), in.Email, in.Name, utils.HashPassword(in.Password), in.Role, in.Department, in.Ministre, in.Service)
	if err != nil {
		return nil, err
	}
	if existing, err := s.users.FindByEmail(u.Email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, domain.E(domain.KindConflict, "email %s already registered", u.Email)
	}
	if err := s.users.Create(u); err != nil {
		return nil, err
	}
	s.mailer.SendAsync(u.Email, "Votre compte a été créé",
		fmt.Sprintf("Bonjour %s,\n\nVotre compte %s a été créé sur la plateforme de réclamations.\n", u.Name, u.Role))
	return u, nil
}

type UpdateUserInput struct {
	Name       *string
	Role       *string
	Department *string
	Ministre   *string
	Service    *string
	Password   *string
}

func (s *UserService) Update(id string, in UpdateUserInput) (*domain.User, error) {
	u, err := s.mustFind(id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		u.Name = *in.Name
	}
	if in.Role != nil {
		if !domain.ValidRole(*in.Role) {
			return nil, domain.E(domain.KindValidation, "unknown role %q", *in.Role)
		}
		u.Role = *in.Role
	}
	if in.Department != nil {
		u.Department = *in.Department
	}
	if in.Ministre != nil {
		u.Ministre = *in.Ministre
	}
	if in.Service != nil {
		u.Service = *in.Service
	}
	if in.Password != nil && *in.Password != "" {
		u.PasswordHash = utils.HashPassword(*in.Password)
	}
	// re-run the role-conditional rules after the patch and keep the
	// normalized fields, so a role change also blanks what the new role
	// does not carry
	nu, err := domain.NewUser(u.ID, u.Email, u.Name, u.PasswordHash, u.Role, u.Department, u.Ministre, u.Service)
	if err != nil {
		return nil, err
	}
	u.Email, u.Name = nu.Email, nu.Name
	u.Department, u.Ministre, u.Service = nu.Department, nu.Ministre, nu.Service
	if err := s.users.Update(u); err != nil {
		return nil, err
	}
	return u, nil
}

// Delete soft-deletes, refusing to remove the last admin standing.
func (s *UserService) Delete(id string) error {
	u, err := s.mustFind(id)
	if err != nil {
		return err
	}
	if u.Role == domain.RoleAdmin {
		n, err := s.users.CountByRole(domain.RoleAdmin)
		if err != nil {
			return err
		}
		if n <= 1 {
			return domain.E(domain.KindValidation, "cannot delete the last admin")
		}
	}
	return s.users.SoftDelete(id)
}

// Authenticate verifies credentials for the login endpoint.
func (s *UserService) Authenticate(email, password string) (*domain.User, error) {
	u, err := s.users.FindByEmail(email)
	if err != nil {
		return nil, err
	}
	if u == nil || !utils.CheckPassword(password, u.PasswordHash) {
		return nil, domain.E(domain.KindUnauthorized, "invalid credentials")
	}
	return u, nil
}

func (s *UserService) Get(id string) (*domain.User, error) { return s.mustFind(id) }

func (s *UserService) List(f domain.UserFilter) ([]domain.User, int64, error) {
	return s.users.List(f)
}

// ExportCSV streams the filtered users as RFC 4180 CSV.
func (s *UserService) ExportCSV(w io.Writer, f domain.UserFilter) error {
	users, _, err := s.users.List(f)
	if err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "email", "name", "role", "department", "ministre", "service", "created_at"}); err != nil {
		return err
	}
	for _, u := range users {
		rec := []string{u.ID, u.Email, u.Name, u.Role, u.Department, u.Ministre, u.Service, u.CreatedAt.Format("2006-01-02 15:04:05")}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func (s *UserService) mustFind(id string) (*domain.User, error) {
	u, err := s.users.FindByID(id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.E(domain.KindNotFound, "user %s not found", id)
	}
	return u, nil
}
