package repo

import (
	"testing"

	"reclamation-api/internal/domain"
)

func seedComplaint(t *testing.T, r *ComplaintRepo, c *domain.Complaint) *domain.Complaint {
	t.Helper()
	if err := r.Create(c); err != nil {
		t.Fatalf("seed complaint %s: %v", c.ID, err)
	}
	return c
}

func TestComplaintJSONColumnsRoundTrip(t *testing.T) {
	r := NewComplaintRepo(testDB(t))
	seedComplaint(t, r, &domain.Complaint{
		ID: "c1", UserID: "cit-1", Department: domain.DepartmentInsaf,
		Type: domain.TypeReclamation, Description: "x",
		Status:        domain.ComplaintRejected,
		RejectReasons: []string{domain.RejectDuplicate, domain.RejectOutOfScope},
		Files:         []string{"piece1.pdf", "piece2.pdf"},
	})

	got, err := r.FindByID("c1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(got.RejectReasons) != 2 || got.RejectReasons[0] != domain.RejectDuplicate {
		t.Errorf("reasons = %v", got.RejectReasons)
	}
	if len(got.Files) != 2 {
		t.Errorf("files = %v", got.Files)
	}
}

func TestComplaintListFilters(t *testing.T) {
	r := NewComplaintRepo(testDB(t))
	seedComplaint(t, r, &domain.Complaint{ID: "c1", UserID: "cit-1", Department: domain.DepartmentInsaf, Type: domain.TypeReclamation, Status: domain.ComplaintPending})
	seedComplaint(t, r, &domain.Complaint{ID: "c2", UserID: "cit-1", Department: domain.DepartmentRached, Type: domain.TypeReclamation, Status: domain.ComplaintResolved, EmployeeID: strptr("emp-1")})
	seedComplaint(t, r, &domain.Complaint{ID: "c3", UserID: "cit-2", Department: domain.DepartmentInsaf, Type: domain.TypeDataRequest, Status: domain.ComplaintPending})

	_, total, err := r.List(domain.ComplaintFilter{UserID: "cit-1"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 2 {
		t.Errorf("by user: total = %d, want 2", total)
	}

	items, total, err := r.List(domain.ComplaintFilter{Department: domain.DepartmentInsaf, Status: domain.ComplaintPending})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 2 || len(items) != 2 {
		t.Errorf("by department+status: total=%d", total)
	}

	items, _, err = r.List(domain.ComplaintFilter{EmployeeID: "emp-1"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 1 || items[0].ID != "c2" {
		t.Errorf("by employee: %+v", items)
	}
}

func TestComplaintDelete(t *testing.T) {
	r := NewComplaintRepo(testDB(t))
	seedComplaint(t, r, &domain.Complaint{ID: "c1", UserID: "cit-1", Department: domain.DepartmentInsaf, Type: domain.TypeReclamation, Status: domain.ComplaintDraft})

	if err := r.Delete("c1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, err := r.FindByID("c1")
	if err != nil {
		t.Fatalf("find after delete: %v", err)
	}
	if got != nil {
		t.Errorf("still found after delete: %+v", got)
	}
}
