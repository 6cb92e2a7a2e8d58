package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"reclamation-api/internal/core/auth"
	"reclamation-api/internal/domain"
	"reclamation-api/internal/service"
	"reclamation-api/internal/transport/http/ez"
)

type AuthHandler struct {
	users *service.UserService
	jwter *auth.JWTer
}

func NewAuthHandler(users *service.UserService, jwter *auth.JWTer) *AuthHandler {
	return &AuthHandler{users: users, jwter: jwter}
}

type userView struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	Department string `json:"department,omitempty"`
	Ministre   string `json:"ministre,omitempty"`
	Service    string `json:"service,omitempty"`
}

func viewOf(u *domain.User) userView {
	return userView{
		ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role,
		Department: u.Department, Ministre: u.Ministre, Service: u.Service,
	}
}

// MountPublic registers the unauthenticated endpoints.
func (h *AuthHandler) MountPublic(g *gin.RouterGroup) {
	pub := ez.New(g)

	type loginIn struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	type loginOut struct {
		Token string   `json:"token"`
		User  userView `json:"user"`
	}
	ez.Register(pub, ez.Action[loginIn, loginOut]{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *loginIn) (loginOut, error) {
			u, err := h.users.Authenticate(in.Email, in.Password)
			if err != nil {
				return loginOut{}, err
			}
			tok, err := h.jwter.Issue(u.ID, u.Role, u.Department)
			if err != nil {
				return loginOut{}, domain.Wrap(domain.KindInternal, "issue token failed", err)
			}
			return loginOut{Token: tok, User: viewOf(u)}, nil
		},
	})
}

// MountAuthed registers endpoints that need a logged-in user.
func (h *AuthHandler) MountAuthed(g *gin.RouterGroup) {
	authed := ez.New(g)

	ez.Register(authed, ez.Action[struct{}, userView]{
		Method: http.MethodGet,
		Path:   "/me",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (userView, error) {
			u, err := h.users.Get(c.GetString("userId"))
			if err != nil {
				return userView{}, err
			}
			return viewOf(u), nil
		},
	})
}
