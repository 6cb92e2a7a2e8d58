package service

import (
	"fmt"
	"time"

	"reclamation-api/internal/domain"
	"reclamation-api/internal/schedule"
)

// MeetingService owns the appointment lifecycle: citizen requests, guichetier
// triage, rescheduling, join windows and the meeting link.
type MeetingService struct {
	meetings domain.MeetingRepository
	users    domain.UserRepository
	sched    schedule.Config
	linkBase string
	idGen    func() string
	now      func() time.Time
}

func NewMeetingService(meetings domain.MeetingRepository, users domain.UserRepository, sched schedule.Config, linkBase string, idGen func() string, now func() time.Time) *MeetingService {
	if now == nil {
		now = time.Now
	}
	return &MeetingService{
		meetings: meetings,
		users:    users,
		sched:    sched,
		linkBase: linkBase,
		idGen:    idGen,
		now:      now,
	}
}

type CreateMeetingInput struct {
	UserID      string
	Department  string
	Date        time.Time
	Description string
}

// Create registers a citizen request. The slot is only wished for at this
// point; the conflict check runs when a guichetier schedules it against an
// employee.
func (s *MeetingService) Create(in CreateMeetingInput) (*domain.Meeting, error) {
	if in.UserID == "" {
		return nil, domain.E(domain.KindValidation, "userId is required")
	}
	if !domain.ValidDepartment(in.Department) {
		return nil, domain.E(domain.KindValidation, "unknown department %q", in.Department)
	}
	if in.Date.IsZero() {
		return nil, domain.E(domain.KindValidation, "date is required")
	}
	if err := s.sched.ValidateBookable(in.Date); err != nil {
		return nil, domain.Wrap(domain.KindValidation, err.Error(), err)
	}
	u, err := s.users.FindByID(in.UserID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.E(domain.KindNotFound, "user %s not found", in.UserID)
	}
	m := &domain.Meeting{
		ID:          s.idGen(),
		UserID:      in.UserID,
		Department:  in.Department,
		Date:        in.Date.UTC(),
		Status:      domain.MeetingRequested,
		Description: in.Description,
	}
	if err := s.meetings.Create(m); err != nil {
		return nil, err
	}
	return m, nil
}

// Availability returns the day's slots for an employee, each marked free or
// taken. Display mode widens the hour range for the calendar view.
func (s *MeetingService) Availability(employeeID string, day time.Time, display bool) ([]schedule.Slot, error) {
	if _, err := s.requireEmployee(employeeID); err != nil {
		return nil, err
	}
	var slots []schedule.Slot
	if display {
		slots = s.sched.DisplaySlots(day)
	} else {
		slots = s.sched.BookingSlots(day)
	}
	if len(slots) == 0 {
		return slots, nil
	}
	dayStart := slots[0].Start
	y, m, d := day.Date()
	dayEnd := time.Date(y, m, d, 0, 0, 0, 0, day.Location()).AddDate(0, 0, 1)
	booked, err := s.meetings.ScheduledBetween(employeeID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	taken := make(map[int64]struct{}, len(booked))
	for _, b := range booked {
		taken[b.Date.Unix()] = struct{}{}
	}
	for i := range slots {
		if _, ok := taken[slots[i].Start.Unix()]; ok {
			slots[i].IsAvailable = false
		}
	}
	return slots, nil
}

type ConflictResult struct {
	HasConflict  bool   `json:"hasConflict"`
	ConflictWith string `json:"conflictWith,omitempty"`
}

// CheckConflict reports whether another Planifié meeting for the employee
// starts at exactly `at`. Unknown employees are an error, never "no
// conflict": failing open here double-booked people in the past.
func (s *MeetingService) CheckConflict(employeeID string, at time.Time, excludeID string) (ConflictResult, error) {
	if _, err := s.requireEmployee(employeeID); err != nil {
		return ConflictResult{}, err
	}
	m, err := s.meetings.FindScheduledAt(employeeID, at.UTC(), excludeID)
	if err != nil {
		return ConflictResult{}, err
	}
	if m == nil {
		return ConflictResult{}, nil
	}
	return ConflictResult{HasConflict: true, ConflictWith: m.ID}, nil
}

// Schedule assigns an employee and confirms the slot: Demandé → Planifié.
// The version token stops two guichetiers claiming the same request.
func (s *MeetingService) Schedule(meetingID, guichetierID, employeeID string, date time.Time) (*domain.Meeting, error) {
	m, err := s.mustFind(meetingID)
	if err != nil {
		return nil, err
	}
	if m.Status != domain.MeetingRequested {
		return nil, domain.E(domain.KindValidation, "meeting is %s, only Demandé can be scheduled", m.Status)
	}
	if date.IsZero() {
		date = m.Date
	}
	if err := s.sched.ValidateBookable(date); err != nil {
		return nil, domain.Wrap(domain.KindValidation, err.Error(), err)
	}
	res, err := s.CheckConflict(employeeID, date, m.ID)
	if err != nil {
		return nil, err
	}
	if res.HasConflict {
		return nil, domain.E(domain.KindConflict, "slot already taken by meeting %s", res.ConflictWith)
	}
	from := m.Version
	m.Status = domain.MeetingScheduled
	m.EmployeeID = &employeeID
	m.GuichetierID = &guichetierID
	m.Date = date.UTC()
	return s.writeVersioned(m, from)
}

// Reject turns down a request without needing a slot.
func (s *MeetingService) Reject(meetingID, guichetierID string) (*domain.Meeting, error) {
	m, err := s.mustFind(meetingID)
	if err != nil {
		return nil, err
	}
	if m.Status != domain.MeetingRequested {
		return nil, domain.E(domain.KindValidation, "meeting is %s, only Demandé can be rejected", m.Status)
	}
	from := m.Version
	m.Status = domain.MeetingRejected
	m.GuichetierID = &guichetierID
	return s.writeVersioned(m, from)
}

// Reschedule moves a Planifié meeting, re-validating hours and conflicts
// while excluding the meeting's own slot.
func (s *MeetingService) Reschedule(meetingID string, date time.Time) (*domain.Meeting, error) {
	m, err := s.mustFind(meetingID)
	if err != nil {
		return nil, err
	}
	if m.Status != domain.MeetingScheduled {
		return nil, domain.E(domain.KindValidation, "meeting is %s, only Planifié can be rescheduled", m.Status)
	}
	if err := s.sched.ValidateBookable(date); err != nil {
		return nil, domain.Wrap(domain.KindValidation, err.Error(), err)
	}
	if m.EmployeeID == nil {
		return nil, domain.E(domain.KindInternal, "scheduled meeting %s has no employee", m.ID)
	}
	res, err := s.CheckConflict(*m.EmployeeID, date, m.ID)
	if err != nil {
		return nil, err
	}
	if res.HasConflict {
		return nil, domain.E(domain.KindConflict, "slot already taken by meeting %s", res.ConflictWith)
	}
	from := m.Version
	m.Date = date.UTC()
	return s.writeVersioned(m, from)
}

// Close marks a Planifié meeting Terminé or Annulé.
func (s *MeetingService) Close(meetingID, status string) (*domain.Meeting, error) {
	if status != domain.MeetingCompleted && status != domain.MeetingCancelled {
		return nil, domain.E(domain.KindValidation, "invalid closing status %q", status)
	}
	m, err := s.mustFind(meetingID)
	if err != nil {
		return nil, err
	}
	if m.Status != domain.MeetingScheduled {
		return nil, domain.E(domain.KindValidation, "meeting is %s, only Planifié can be closed", m.Status)
	}
	from := m.Version
	m.Status = status
	return s.writeVersioned(m, from)
}

// GenerateLink mints the video link once and returns the same one afterwards.
func (s *MeetingService) GenerateLink(meetingID string) (*domain.Meeting, error) {
	m, err := s.mustFind(meetingID)
	if err != nil {
		return nil, err
	}
	if m.Status != domain.MeetingScheduled {
		return nil, domain.E(domain.KindValidation, "meeting is %s, link requires Planifié", m.Status)
	}
	if m.MeetingLink != "" {
		return m, nil
	}
	from := m.Version
	m.MeetingLink = fmt.Sprintf("%s/room-%s-%s", s.linkBase, m.ID, s.idGen()[:8])
	return s.writeVersioned(m, from)
}

// Join hands out the link only inside the ±join-window around the start,
// and only to the meeting's participants (triage and supervision roles may
// always join).
func (s *MeetingService) Join(meetingID, callerID, callerRole string) (string, error) {
	m, err := s.mustFind(meetingID)
	if err != nil {
		return "", err
	}
	if m.Status != domain.MeetingScheduled {
		return "", domain.E(domain.KindValidation, "meeting is %s, not joinable", m.Status)
	}
	if !isParticipant(m, callerID, callerRole) {
		return "", domain.E(domain.KindForbidden, "vous ne participez pas à cette réunion")
	}
	v := s.sched.JoinWindowAt(m.Date, s.now().UTC())
	switch {
	case v.TooEarly:
		// round up so the message never says 0 min
		mins := int((v.Wait + time.Minute - 1) / time.Minute)
		return "", domain.E(domain.KindValidation, "la réunion n'est pas encore ouverte, réessayez dans %d min", mins)
	case v.TooLate:
		return "", domain.E(domain.KindValidation, "la fenêtre de participation est fermée")
	}
	if m.MeetingLink == "" {
		if m, err = s.GenerateLink(meetingID); err != nil {
			return "", err
		}
	}
	return m.MeetingLink, nil
}

func isParticipant(m *domain.Meeting, callerID, role string) bool {
	switch role {
	case domain.RoleGuichetier, domain.RoleDirector, domain.RoleAdmin:
		return true
	}
	if m.UserID == callerID {
		return true
	}
	return m.EmployeeID != nil && *m.EmployeeID == callerID
}

func (s *MeetingService) Get(id string) (*domain.Meeting, error) { return s.mustFind(id) }

func (s *MeetingService) List(f domain.MeetingFilter) ([]domain.Meeting, int64, error) {
	return s.meetings.List(f)
}

func (s *MeetingService) mustFind(id string) (*domain.Meeting, error) {
	m, err := s.meetings.FindByID(id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.E(domain.KindNotFound, "meeting %s not found", id)
	}
	return m, nil
}

func (s *MeetingService) requireEmployee(id string) (*domain.User, error) {
	if id == "" {
		return nil, domain.E(domain.KindValidation, "employeeId is required")
	}
	u, err := s.users.FindByID(id)
	if err != nil {
		return nil, err
	}
	if u == nil || u.Role != domain.RoleEmployee {
		return nil, domain.E(domain.KindNotFound, "employee %s not found", id)
	}
	return u, nil
}

func (s *MeetingService) writeVersioned(m *domain.Meeting, fromVersion int) (*domain.Meeting, error) {
	ok, err := s.meetings.UpdateVersioned(m, fromVersion)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.E(domain.KindConflict, "meeting %s was modified concurrently", m.ID)
	}
	return m, nil
}
