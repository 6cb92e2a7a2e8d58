package repo

import (
	"testing"

	"reclamation-api/internal/domain"
)

func seedUser(t *testing.T, r *UserRepo, u *domain.User) *domain.User {
	t.Helper()
	if err := r.Create(u); err != nil {
		t.Fatalf("seed user %s: %v", u.ID, err)
	}
	return u
}

func TestUserFindByEmailCaseInsensitive(t *testing.T) {
	r := NewUserRepo(testDB(t))
	seedUser(t, r, &domain.User{ID: "u1", Email: "amina@example.org", Role: domain.RoleCitizen})

	got, err := r.FindByEmail("Amina@Example.org")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got == nil || got.ID != "u1" {
		t.Errorf("got %+v", got)
	}

	got, err = r.FindByEmail("nobody@example.org")
	if err != nil {
		t.Fatalf("find missing: %v", err)
	}
	if got != nil {
		t.Errorf("want nil for unknown email, got %+v", got)
	}
}

func TestUserSoftDeleteHidesRow(t *testing.T) {
	r := NewUserRepo(testDB(t))
	seedUser(t, r, &domain.User{ID: "u1", Email: "a@example.org", Role: domain.RoleAdmin})
	seedUser(t, r, &domain.User{ID: "u2", Email: "b@example.org", Role: domain.RoleAdmin})

	if err := r.SoftDelete("u1"); err != nil {
		t.Fatalf("soft delete: %v", err)
	}
	got, err := r.FindByID("u1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got != nil {
		t.Errorf("soft-deleted row still visible: %+v", got)
	}
	n, err := r.CountByRole(domain.RoleAdmin)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Errorf("admin count = %d, want 1", n)
	}
}

func TestUserListQuery(t *testing.T) {
	r := NewUserRepo(testDB(t))
	seedUser(t, r, &domain.User{ID: "u1", Email: "amina@example.org", Name: "Amina", Role: domain.RoleEmployee, Department: domain.DepartmentInsaf})
	seedUser(t, r, &domain.User{ID: "u2", Email: "karim@example.org", Name: "Karim", Role: domain.RoleEmployee, Department: domain.DepartmentRached})
	seedUser(t, r, &domain.User{ID: "u3", Email: "sana@example.org", Name: "Sana", Role: domain.RoleGuichetier, Department: domain.DepartmentInsaf})

	_, total, err := r.List(domain.UserFilter{Role: domain.RoleEmployee})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 2 {
		t.Errorf("by role: total = %d, want 2", total)
	}

	items, _, err := r.List(domain.UserFilter{Query: "karim"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 1 || items[0].ID != "u2" {
		t.Errorf("by query: %+v", items)
	}

	_, total, err = r.List(domain.UserFilter{Department: domain.DepartmentInsaf})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 2 {
		t.Errorf("by department: total = %d, want 2", total)
	}
}
