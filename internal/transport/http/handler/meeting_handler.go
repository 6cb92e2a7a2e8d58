package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"reclamation-api/internal/domain"
	"reclamation-api/internal/schedule"
	"reclamation-api/internal/service"
	"reclamation-api/internal/transport/http/ez"
)

type MeetingHandler struct {
	meetings *service.MeetingService
}

func NewMeetingHandler(meetings *service.MeetingService) *MeetingHandler {
	return &MeetingHandler{meetings: meetings}
}

var staffRoles = []string{domain.RoleGuichetier, domain.RoleEmployee, domain.RoleDirector, domain.RoleAdmin}

// parseDate accepts RFC3339 or a bare calendar date.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, domain.E(domain.KindValidation, "invalid date %q, want RFC3339 or YYYY-MM-DD", s)
	}
	return t, nil
}

func (h *MeetingHandler) Mount(g *gin.RouterGroup) {
	e := ez.New(g)

	type createIn struct {
		Department  string `json:"department" binding:"required"`
		Date        string `json:"date" binding:"required"`
		Description string `json:"description"`
	}
	ez.Register(e, ez.Action[createIn, *domain.Meeting]{
		Method: http.MethodPost,
		Path:   "/meetings",
		Binder: ez.BindJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *createIn) (*domain.Meeting, error) {
			date, err := parseDate(in.Date)
			if err != nil {
				return nil, err
			}
			return h.meetings.Create(service.CreateMeetingInput{
				UserID:      c.GetString("userId"),
				Department:  in.Department,
				Date:        date,
				Description: in.Description,
			})
		},
	})

	type listIn struct {
		Status     string `form:"status"`
		Department string `form:"department"`
		Offset     int    `form:"offset,default=0"`
		Limit      int    `form:"limit,default=20"`
	}
	type listOut struct {
		Total int64            `json:"total"`
		Items []domain.Meeting `json:"items"`
	}
	ez.Register(e, ez.Action[listIn, listOut]{
		Method: http.MethodGet,
		Path:   "/meetings",
		Binder: ez.BindQuery,
		Handler: func(c *gin.Context, in *listIn) (listOut, error) {
			if in.Limit <= 0 || in.Limit > 100 {
				in.Limit = 20
			}
			f := domain.MeetingFilter{
				Status:     in.Status,
				Department: in.Department,
				Offset:     in.Offset,
				Limit:      in.Limit,
			}
			// citizens only ever see their own meetings
			switch c.GetString("role") {
			case domain.RoleCitizen:
				f.UserID = c.GetString("userId")
			case domain.RoleEmployee:
				f.EmployeeID = c.GetString("userId")
			}
			items, total, err := h.meetings.List(f)
			if err != nil {
				return listOut{}, err
			}
			return listOut{Total: total, Items: items}, nil
		},
	})

	type availIn struct {
		EmployeeID string `form:"employeeId" binding:"required"`
		Date       string `form:"date" binding:"required"`
		View       string `form:"view"` // "calendar" widens the hour range
	}
	type availOut struct {
		TimeSlots []schedule.Slot `json:"timeSlots"`
	}
	ez.Register(e, ez.Action[availIn, availOut]{
		Method: http.MethodGet,
		Path:   "/meetings/availability",
		Binder: ez.BindQuery,
		Handler: func(c *gin.Context, in *availIn) (availOut, error) {
			day, err := parseDate(in.Date)
			if err != nil {
				return availOut{}, err
			}
			slots, err := h.meetings.Availability(in.EmployeeID, day, in.View == "calendar")
			if err != nil {
				return availOut{}, err
			}
			return availOut{TimeSlots: slots}, nil
		},
	})

	type conflictIn struct {
		EmployeeID string `form:"employeeId" binding:"required"`
		Date       string `form:"date" binding:"required"`
		MeetingID  string `form:"meetingId"`
	}
	ez.Register(e, ez.Action[conflictIn, service.ConflictResult]{
		Method: http.MethodGet,
		Path:   "/meetings/check-conflict",
		Binder: ez.BindQuery,
		Handler: func(c *gin.Context, in *conflictIn) (service.ConflictResult, error) {
			at, err := parseDate(in.Date)
			if err != nil {
				return service.ConflictResult{}, err
			}
			return h.meetings.CheckConflict(in.EmployeeID, at, in.MeetingID)
		},
	})

	// Triage and closing share one endpoint keyed by the target status,
	// which is what the dashboard sends.
	type statusIn struct {
		Status     string `json:"status" binding:"required"`
		EmployeeID string `json:"employeeId"`
		Date       string `json:"date"`
	}
	ez.Register(e, ez.Action[statusIn, *domain.Meeting]{
		Method: http.MethodPut,
		Path:   "/meetings/:id/status",
		Binder: ez.BindJSON,
		Roles:  staffRoles,
		Handler: func(c *gin.Context, in *statusIn) (*domain.Meeting, error) {
			id := c.Param("id")
			switch in.Status {
			case domain.MeetingScheduled:
				if in.EmployeeID == "" {
					return nil, domain.E(domain.KindValidation, "employeeId is required to schedule")
				}
				var date time.Time
				if in.Date != "" {
					var err error
					if date, err = parseDate(in.Date); err != nil {
						return nil, err
					}
				}
				return h.meetings.Schedule(id, c.GetString("userId"), in.EmployeeID, date)
			case domain.MeetingRejected:
				return h.meetings.Reject(id, c.GetString("userId"))
			case domain.MeetingCompleted, domain.MeetingCancelled:
				return h.meetings.Close(id, in.Status)
			default:
				return nil, domain.E(domain.KindValidation, "unsupported status transition to %q", in.Status)
			}
		},
	})

	type reschedIn struct {
		Date string `json:"date" binding:"required"`
	}
	ez.Register(e, ez.Action[reschedIn, *domain.Meeting]{
		Method: http.MethodPut,
		Path:   "/meetings/:id/reschedule",
		Binder: ez.BindJSON,
		Roles:  staffRoles,
		Handler: func(c *gin.Context, in *reschedIn) (*domain.Meeting, error) {
			date, err := parseDate(in.Date)
			if err != nil {
				return nil, err
			}
			return h.meetings.Reschedule(c.Param("id"), date)
		},
	})

	ez.Register(e, ez.Action[struct{}, *domain.Meeting]{
		Method: http.MethodPost,
		Path:   "/meetings/:id/generate-link",
		Binder: ez.BindNone,
		Roles:  staffRoles,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.Meeting, error) {
			return h.meetings.GenerateLink(c.Param("id"))
		},
	})

	type joinOut struct {
		MeetingLink string `json:"meetingLink"`
	}
	ez.Register(e, ez.Action[struct{}, joinOut]{
		Method: http.MethodPost,
		Path:   "/meetings/:id/join",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (joinOut, error) {
			link, err := h.meetings.Join(c.Param("id"), c.GetString("userId"), c.GetString("role"))
			if err != nil {
				return joinOut{}, err
			}
			return joinOut{MeetingLink: link}, nil
		},
	})
}
