package service

import (
	"fmt"
	"strings"
	"time"

	"reclamation-api/internal/domain"
)

// In-memory repositories backing the service tests. They mirror the gorm
// implementations closely enough to exercise the lifecycle rules, including
// the version check on meeting writes.

type fakeUserRepo struct {
	users map[string]*domain.User
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	r := &fakeUserRepo{users: map[string]*domain.User{}}
	for _, u := range users {
		cp := *u
		r.users[u.ID] = &cp
	}
	return r
}

func (r *fakeUserRepo) Create(u *domain.User) error {
	if _, ok := r.users[u.ID]; ok {
		return fmt.Errorf("duplicate id %s", u.ID)
	}
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) FindByID(id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) FindByEmail(email string) (*domain.User, error) {
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) List(f domain.UserFilter) ([]domain.User, int64, error) {
	var out []domain.User
	for _, u := range r.users {
		if f.Role != "" && u.Role != f.Role {
			continue
		}
		if f.Department != "" && u.Department != f.Department {
			continue
		}
		out = append(out, *u)
	}
	return out, int64(len(out)), nil
}

func (r *fakeUserRepo) Update(u *domain.User) error {
	if _, ok := r.users[u.ID]; !ok {
		return fmt.Errorf("user %s not found", u.ID)
	}
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) SoftDelete(id string) error {
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) CountByRole(role string) (int64, error) {
	var n int64
	for _, u := range r.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

type fakeMeetingRepo struct {
	meetings map[string]*domain.Meeting
	// raceOnWrite simulates a concurrent writer: the next UpdateVersioned
	// finds the stored version already bumped and reports a lost race.
	raceOnWrite bool
}

func newFakeMeetingRepo() *fakeMeetingRepo {
	return &fakeMeetingRepo{meetings: map[string]*domain.Meeting{}}
}

func (r *fakeMeetingRepo) Create(m *domain.Meeting) error {
	cp := *m
	r.meetings[m.ID] = &cp
	return nil
}

func (r *fakeMeetingRepo) FindByID(id string) (*domain.Meeting, error) {
	m, ok := r.meetings[id]
	if !ok {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

func (r *fakeMeetingRepo) List(f domain.MeetingFilter) ([]domain.Meeting, int64, error) {
	var out []domain.Meeting
	for _, m := range r.meetings {
		if f.UserID != "" && m.UserID != f.UserID {
			continue
		}
		if f.Status != "" && m.Status != f.Status {
			continue
		}
		out = append(out, *m)
	}
	return out, int64(len(out)), nil
}

func (r *fakeMeetingRepo) UpdateVersioned(m *domain.Meeting, fromVersion int) (bool, error) {
	if r.raceOnWrite {
		r.raceOnWrite = false
		if stored, ok := r.meetings[m.ID]; ok {
			stored.Version++
		}
	}
	stored, ok := r.meetings[m.ID]
	if !ok || stored.Version != fromVersion {
		return false, nil
	}
	m.Version = fromVersion + 1
	cp := *m
	r.meetings[m.ID] = &cp
	return true, nil
}

func (r *fakeMeetingRepo) FindScheduledAt(employeeID string, t time.Time, excludeID string) (*domain.Meeting, error) {
	for _, m := range r.meetings {
		if m.ID == excludeID || m.Status != domain.MeetingScheduled {
			continue
		}
		if m.EmployeeID == nil || *m.EmployeeID != employeeID {
			continue
		}
		if m.Date.Equal(t) {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeMeetingRepo) ScheduledBetween(employeeID string, from, to time.Time) ([]domain.Meeting, error) {
	var out []domain.Meeting
	for _, m := range r.meetings {
		if m.Status != domain.MeetingScheduled {
			continue
		}
		if m.EmployeeID == nil || *m.EmployeeID != employeeID {
			continue
		}
		if !m.Date.Before(from) && m.Date.Before(to) {
			out = append(out, *m)
		}
	}
	return out, nil
}

type fakeComplaintRepo struct {
	complaints map[string]*domain.Complaint
}

func newFakeComplaintRepo() *fakeComplaintRepo {
	return &fakeComplaintRepo{complaints: map[string]*domain.Complaint{}}
}

func (r *fakeComplaintRepo) Create(c *domain.Complaint) error {
	cp := *c
	r.complaints[c.ID] = &cp
	return nil
}

func (r *fakeComplaintRepo) FindByID(id string) (*domain.Complaint, error) {
	c, ok := r.complaints[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *fakeComplaintRepo) List(f domain.ComplaintFilter) ([]domain.Complaint, int64, error) {
	var out []domain.Complaint
	for _, c := range r.complaints {
		if f.UserID != "" && c.UserID != f.UserID {
			continue
		}
		if f.Department != "" && c.Department != f.Department {
			continue
		}
		if f.Status != "" && c.Status != f.Status {
			continue
		}
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

func (r *fakeComplaintRepo) Update(c *domain.Complaint) error {
	if _, ok := r.complaints[c.ID]; !ok {
		return fmt.Errorf("complaint %s not found", c.ID)
	}
	cp := *c
	r.complaints[c.ID] = &cp
	return nil
}

func (r *fakeComplaintRepo) Delete(id string) error {
	delete(r.complaints, id)
	return nil
}

// seqIDs hands out id-1, id-2, ... so tests can predict generated IDs.
func seqIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d-aaaaaaaa", n)
	}
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
