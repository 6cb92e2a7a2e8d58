package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"reclamation-api/internal/domain"
	"reclamation-api/internal/service"
	"reclamation-api/internal/transport/http/ez"
)

type ComplaintHandler struct {
	complaints *service.ComplaintService
}

func NewComplaintHandler(complaints *service.ComplaintService) *ComplaintHandler {
	return &ComplaintHandler{complaints: complaints}
}

func (h *ComplaintHandler) Mount(g *gin.RouterGroup) {
	e := ez.New(g)

	type createIn struct {
		Department  string   `json:"department" binding:"required"`
		Type        string   `json:"type" binding:"required"`
		Description string   `json:"description" binding:"required"`
		Files       []string `json:"files"`
		Draft       bool     `json:"draft"`
	}
	ez.Register(e, ez.Action[createIn, *domain.Complaint]{
		Method: http.MethodPost,
		Path:   "/reclamations",
		Binder: ez.BindJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *createIn) (*domain.Complaint, error) {
			return h.complaints.Create(service.CreateComplaintInput{
				UserID:      c.GetString("userId"),
				Department:  in.Department,
				Type:        in.Type,
				Description: in.Description,
				Files:       in.Files,
				Draft:       in.Draft,
			})
		},
	})

	type listIn struct {
		Department string `form:"department"`
		Status     string `form:"status"`
		Offset     int    `form:"offset,default=0"`
		Limit      int    `form:"limit,default=20"`
	}
	type listOut struct {
		Total int64              `json:"total"`
		Items []domain.Complaint `json:"items"`
	}
	ez.Register(e, ez.Action[listIn, listOut]{
		Method: http.MethodGet,
		Path:   "/reclamations",
		Binder: ez.BindQuery,
		Handler: func(c *gin.Context, in *listIn) (listOut, error) {
			if in.Limit <= 0 || in.Limit > 100 {
				in.Limit = 20
			}
			f := domain.ComplaintFilter{
				Department: in.Department,
				Status:     in.Status,
				Offset:     in.Offset,
				Limit:      in.Limit,
			}
			switch c.GetString("role") {
			case domain.RoleCitizen:
				f.UserID = c.GetString("userId")
			case domain.RoleEmployee:
				f.EmployeeID = c.GetString("userId")
			case domain.RoleGuichetier:
				// guichetiers work their own department's queue
				f.Department = c.GetString("department")
			}
			items, total, err := h.complaints.List(f)
			if err != nil {
				return listOut{}, err
			}
			return listOut{Total: total, Items: items}, nil
		},
	})

	ez.Register(e, ez.Action[struct{}, *domain.Complaint]{
		Method: http.MethodGet,
		Path:   "/reclamations/:id",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.Complaint, error) {
			cp, err := h.complaints.Get(c.Param("id"))
			if err != nil {
				return nil, err
			}
			if c.GetString("role") == domain.RoleCitizen && cp.UserID != c.GetString("userId") {
				return nil, domain.E(domain.KindForbidden, "not your complaint")
			}
			return cp, nil
		},
	})

	ez.Register(e, ez.Action[struct{}, *domain.Complaint]{
		Method: http.MethodPost,
		Path:   "/reclamations/:id/submit",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.Complaint, error) {
			return h.complaints.Submit(c.Param("id"), c.GetString("userId"))
		},
	})

	// Open is the explicit "first touch" action the detail page fires when
	// a guichetier opens a complaint; fetching alone never mutates.
	ez.Register(e, ez.Action[struct{}, *domain.Complaint]{
		Method: http.MethodPost,
		Path:   "/reclamations/:id/open",
		Binder: ez.BindNone,
		Roles:  []string{domain.RoleGuichetier, domain.RoleDirector, domain.RoleAdmin},
		Handler: func(c *gin.Context, _ *struct{}) (*domain.Complaint, error) {
			return h.complaints.MarkOpened(c.Param("id"), c.GetString("userId"))
		},
	})

	type assignIn struct {
		EmployeeID string `json:"employeeId" binding:"required"`
	}
	ez.Register(e, ez.Action[assignIn, *domain.Complaint]{
		Method: http.MethodPost,
		Path:   "/reclamations/:id/assign",
		Binder: ez.BindJSON,
		Roles:  []string{domain.RoleGuichetier, domain.RoleDirector, domain.RoleAdmin},
		Handler: func(c *gin.Context, in *assignIn) (*domain.Complaint, error) {
			return h.complaints.Assign(c.Param("id"), in.EmployeeID)
		},
	})

	type resolveIn struct {
		Feedback string `json:"feedback" binding:"required"`
	}
	ez.Register(e, ez.Action[resolveIn, *domain.Complaint]{
		Method: http.MethodPost,
		Path:   "/reclamations/:id/resolve",
		Binder: ez.BindJSON,
		Roles:  staffRoles,
		Handler: func(c *gin.Context, in *resolveIn) (*domain.Complaint, error) {
			return h.complaints.Resolve(c.Param("id"), in.Feedback)
		},
	})

	type rejectIn struct {
		Reasons  []string `json:"reasons" binding:"required"`
		Feedback string   `json:"feedback" binding:"required"`
	}
	ez.Register(e, ez.Action[rejectIn, *domain.Complaint]{
		Method: http.MethodPost,
		Path:   "/reclamations/:id/reject",
		Binder: ez.BindJSON,
		Roles:  staffRoles,
		Handler: func(c *gin.Context, in *rejectIn) (*domain.Complaint, error) {
			return h.complaints.RejectComplaint(c.Param("id"), in.Reasons, in.Feedback)
		},
	})

	type patchIn struct {
		Description *string  `json:"description"`
		Status      *string  `json:"status"`
		Feedback    *string  `json:"feedback"`
		EmployeeID  *string  `json:"employeeId"`
		Files       []string `json:"files"`
	}
	ez.Register(e, ez.Action[patchIn, *domain.Complaint]{
		Method: http.MethodPut,
		Path:   "/reclamations/:id",
		Binder: ez.BindJSON,
		Roles:  staffRoles,
		Handler: func(c *gin.Context, in *patchIn) (*domain.Complaint, error) {
			return h.complaints.Patch(c.Param("id"), domain.ComplaintPatch{
				Description: in.Description,
				Status:      in.Status,
				Feedback:    in.Feedback,
				EmployeeID:  in.EmployeeID,
				Files:       in.Files,
			})
		},
	})

	ez.Register(e, ez.Action[struct{}, gin.H]{
		Method: http.MethodDelete,
		Path:   "/reclamations/:id",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			id := c.Param("id")
			if err := h.complaints.Delete(id, c.GetString("userId")); err != nil {
				return nil, err
			}
			return gin.H{"id": id}, nil
		},
	})
}
