package service

import (
	"strings"

	"reclamation-api/internal/domain"
)

// ComplaintService enforces the réclamation lifecycle:
// brouillant → envoyer → en attente → traitée | rejetée.
type ComplaintService struct {
	complaints domain.ComplaintRepository
	users      domain.UserRepository
	idGen      func() string
}

func NewComplaintService(complaints domain.ComplaintRepository, users domain.UserRepository, idGen func() string) *ComplaintService {
	return &ComplaintService{complaints: complaints, users: users, idGen: idGen}
}

type CreateComplaintInput struct {
	UserID      string
	Department  string
	Type        string
	Description string
	Files       []string
	// Draft keeps the complaint in brouillant instead of the server
	// default "en attente".
	Draft bool
}

func (s *ComplaintService) Create(in CreateComplaintInput) (*domain.Complaint, error) {
	if in.UserID == "" {
		return nil, domain.E(domain.KindValidation, "userId is required")
	}
	if !domain.ValidDepartment(in.Department) {
		return nil, domain.E(domain.KindValidation, "unknown department %q", in.Department)
	}
	if !domain.ValidComplaintType(in.Type) {
		return nil, domain.E(domain.KindValidation, "unknown type %q", in.Type)
	}
	if strings.TrimSpace(in.Description) == "" {
		return nil, domain.E(domain.KindValidation, "description is required")
	}
	u, err := s.users.FindByID(in.UserID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.E(domain.KindNotFound, "user %s not found", in.UserID)
	}
	status := domain.ComplaintPending
	if in.Draft {
		status = domain.ComplaintDraft
	}
	c := &domain.Complaint{
		ID:          s.idGen(),
		UserID:      in.UserID,
		Department:  in.Department,
		Type:        in.Type,
		Description: strings.TrimSpace(in.Description),
		Status:      status,
		Files:       in.Files,
	}
	if err := s.complaints.Create(c); err != nil {
		return nil, err
	}
	return c, nil
}

// Submit moves a citizen's draft out the door: brouillant → envoyer.
func (s *ComplaintService) Submit(id, userID string) (*domain.Complaint, error) {
	c, err := s.mustFind(id)
	if err != nil {
		return nil, err
	}
	if c.UserID != userID {
		return nil, domain.E(domain.KindForbidden, "not your complaint")
	}
	if c.Status != domain.ComplaintDraft {
		return nil, domain.E(domain.KindValidation, "complaint is %s, only brouillant can be submitted", c.Status)
	}
	c.Status = domain.ComplaintSent
	if err := s.complaints.Update(c); err != nil {
		return nil, err
	}
	return c, nil
}

// MarkOpened records the first staff touch: stamps the guichetier and moves
// envoyer → en attente. This used to happen implicitly when the detail page
// was fetched; it is an explicit operation now so reads stay reads.
func (s *ComplaintService) MarkOpened(id, guichetierID string) (*domain.Complaint, error) {
	c, err := s.mustFind(id)
	if err != nil {
		return nil, err
	}
	if c.GuichetierID == nil {
		c.GuichetierID = &guichetierID
	}
	if c.Status == domain.ComplaintSent {
		c.Status = domain.ComplaintPending
	}
	if err := s.complaints.Update(c); err != nil {
		return nil, err
	}
	return c, nil
}

// Assign routes the complaint to an employee. The status is forced to
// en attente when the complaint was still earlier in the lifecycle.
func (s *ComplaintService) Assign(id, employeeID string) (*domain.Complaint, error) {
	c, err := s.mustFind(id)
	if err != nil {
		return nil, err
	}
	if c.Terminal() {
		return nil, domain.E(domain.KindValidation, "complaint is already %s", c.Status)
	}
	u, err := s.users.FindByID(employeeID)
	if err != nil {
		return nil, err
	}
	if u == nil || u.Role != domain.RoleEmployee {
		return nil, domain.E(domain.KindNotFound, "employee %s not found", employeeID)
	}
	c.EmployeeID = &employeeID
	if c.Status != domain.ComplaintPending {
		c.Status = domain.ComplaintPending
	}
	if err := s.complaints.Update(c); err != nil {
		return nil, err
	}
	return c, nil
}

// Resolve closes the complaint as traitée; feedback is mandatory.
func (s *ComplaintService) Resolve(id, feedback string) (*domain.Complaint, error) {
	if strings.TrimSpace(feedback) == "" {
		return nil, domain.E(domain.KindValidation, "feedback is required to resolve")
	}
	c, err := s.mustFind(id)
	if err != nil {
		return nil, err
	}
	if c.Status != domain.ComplaintPending {
		return nil, domain.E(domain.KindValidation, "complaint is %s, only en attente can be resolved", c.Status)
	}
	c.Status = domain.ComplaintResolved
	c.Feedback = strings.TrimSpace(feedback)
	if err := s.complaints.Update(c); err != nil {
		return nil, err
	}
	return c, nil
}

// RejectComplaint closes as rejetée; requires at least one reason from the
// fixed taxonomy plus free-text feedback.
func (s *ComplaintService) RejectComplaint(id string, reasons []string, feedback string) (*domain.Complaint, error) {
	if len(reasons) == 0 {
		return nil, domain.E(domain.KindValidation, "at least one rejection reason is required")
	}
	for _, r := range reasons {
		if !domain.ValidRejectReason(r) {
			return nil, domain.E(domain.KindValidation, "unknown rejection reason %q", r)
		}
	}
	if strings.TrimSpace(feedback) == "" {
		return nil, domain.E(domain.KindValidation, "feedback is required to reject")
	}
	c, err := s.mustFind(id)
	if err != nil {
		return nil, err
	}
	if c.Status != domain.ComplaintPending {
		return nil, domain.E(domain.KindValidation, "complaint is %s, only en attente can be rejected", c.Status)
	}
	c.Status = domain.ComplaintRejected
	c.RejectReasons = reasons
	c.Feedback = strings.TrimSpace(feedback)
	if err := s.complaints.Update(c); err != nil {
		return nil, err
	}
	return c, nil
}

// Patch applies a partial update from the dashboard edit form.
func (s *ComplaintService) Patch(id string, p domain.ComplaintPatch) (*domain.Complaint, error) {
	c, err := s.mustFind(id)
	if err != nil {
		return nil, err
	}
	if p.Status != nil {
		if !domain.ValidComplaintStatus(*p.Status) {
			return nil, domain.E(domain.KindValidation, "unknown status %q", *p.Status)
		}
		c.Status = *p.Status
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
	if p.Feedback != nil {
		c.Feedback = *p.Feedback
	}
	if p.EmployeeID != nil {
		c.EmployeeID = p.EmployeeID
	}
	if p.Files != nil {
		c.Files = p.Files
	}
	if err := s.complaints.Update(c); err != nil {
		return nil, err
	}
	return c, nil
}

// Delete is citizen-only, own-record-only, and only while still a draft.
func (s *ComplaintService) Delete(id, userID string) error {
	c, err := s.mustFind(id)
	if err != nil {
		return err
	}
	if c.UserID != userID {
		return domain.E(domain.KindForbidden, "not your complaint")
	}
	if c.Status != domain.ComplaintDraft {
		return domain.E(domain.KindValidation, "only brouillant complaints can be deleted")
	}
	return s.complaints.Delete(id)
}

func (s *ComplaintService) Get(id string) (*domain.Complaint, error) { return s.mustFind(id) }

func (s *ComplaintService) List(f domain.ComplaintFilter) ([]domain.Complaint, int64, error) {
	return s.complaints.List(f)
}

func (s *ComplaintService) mustFind(id string) (*domain.Complaint, error) {
	c, err := s.complaints.FindByID(id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.E(domain.KindNotFound, "complaint %s not found", id)
	}
	return c, nil
}
