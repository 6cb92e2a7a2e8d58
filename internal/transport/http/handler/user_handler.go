package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"reclamation-api/internal/domain"
	"reclamation-api/internal/service"
	"reclamation-api/internal/transport/http/ez"
	resp "reclamation-api/internal/transport/http/response"
)

// UserAdminHandler is the admin plane's account management surface.
type UserAdminHandler struct {
	users *service.UserService
}

func NewUserAdminHandler(users *service.UserService) *UserAdminHandler {
	return &UserAdminHandler{users: users}
}

func (h *UserAdminHandler) Mount(g *gin.RouterGroup) {
	e := ez.New(g)

	type listIn struct {
		Role       string `form:"role"`
		Department string `form:"department"`
		Q          string `form:"q"`
		Offset     int    `form:"offset,default=0"`
		Limit      int    `form:"limit,default=20"`
	}
	type listOut struct {
		Total int64      `json:"total"`
		Items []userView `json:"items"`
	}
	ez.Register(e, ez.Action[listIn, listOut]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: ez.BindQuery,
		Handler: func(c *gin.Context, in *listIn) (listOut, error) {
			if in.Limit <= 0 || in.Limit > 100 {
				in.Limit = 20
			}
			users, total, err := h.users.List(domain.UserFilter{
				Role: in.Role, Department: in.Department, Query: in.Q,
				Offset: in.Offset, Limit: in.Limit,
			})
			if err != nil {
				return listOut{}, err
			}
			out := listOut{Total: total, Items: make([]userView, 0, len(users))}
			for i := range users {
				out.Items = append(out.Items, viewOf(&users[i]))
			}
			return out, nil
		},
	})

	type createIn struct {
		Email      string `json:"email" binding:"required,email"`
		Name       string `json:"name" binding:"required,max=64"`
		Password   string `json:"password" binding:"required,min=8"`
		Role       string `json:"role" binding:"required"`
		Department string `json:"department"`
		Ministre   string `json:"ministre"`
		Service    string `json:"service"`
	}
	ez.Register(e, ez.Action[createIn, userView]{
		Method: http.MethodPost,
		Path:   "/users",
		Binder: ez.BindJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *createIn) (userView, error) {
			u, err := h.users.Create(service.CreateUserInput{
				Email: in.Email, Name: in.Name, Password: in.Password,
				Role: in.Role, Department: in.Department,
				Ministre: in.Ministre, Service: in.Service,
			})
			if err != nil {
				return userView{}, err
			}
			return viewOf(u), nil
		},
	})

	ez.Register(e, ez.Action[struct{}, userView]{
		Method: http.MethodGet,
		Path:   "/users/:id",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (userView, error) {
			u, err := h.users.Get(c.Param("id"))
			if err != nil {
				return userView{}, err
			}
			return viewOf(u), nil
		},
	})

	type updateIn struct {
		Name       *string `json:"name"`
		Role       *string `json:"role"`
		Department *string `json:"department"`
		Ministre   *string `json:"ministre"`
		Service    *string `json:"service"`
		Password   *string `json:"password"`
	}
	ez.Register(e, ez.Action[updateIn, userView]{
		Method: http.MethodPut,
		Path:   "/users/:id",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *updateIn) (userView, error) {
			u, err := h.users.Update(c.Param("id"), service.UpdateUserInput{
				Name: in.Name, Role: in.Role, Department: in.Department,
				Ministre: in.Ministre, Service: in.Service, Password: in.Password,
			})
			if err != nil {
				return userView{}, err
			}
			return viewOf(u), nil
		},
	})

	ez.Register(e, ez.Action[struct{}, gin.H]{
		Method: http.MethodDelete,
		Path:   "/users/:id",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			id := c.Param("id")
			if err := h.users.Delete(id); err != nil {
				return nil, err
			}
			return gin.H{"id": id}, nil
		},
	})

	// CSV export writes straight to the wire, so it bypasses the JSON
	// envelope helpers.
	g.GET("/users/export", func(c *gin.Context) {
		var in listIn
		if err := c.ShouldBindQuery(&in); err != nil {
			c.JSON(http.StatusBadRequest, resp.Error(resp.CodeBadRequest, err.Error()))
			return
		}
		c.Header("Content-Type", "text/csv; charset=utf-8")
		c.Header("Content-Disposition", `attachment; filename="users.csv"`)
		if err := h.users.ExportCSV(c.Writer, domain.UserFilter{
			Role: in.Role, Department: in.Department, Query: in.Q,
		}); err != nil {
			_ = c.Error(err)
		}
	})
}
