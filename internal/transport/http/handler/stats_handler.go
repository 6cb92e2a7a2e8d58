package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"reclamation-api/internal/repo"
	"reclamation-api/internal/service"
	"reclamation-api/internal/transport/http/ez"
)

type StatsHandler struct {
	stats *service.StatsService
}

func NewStatsHandler(stats *service.StatsService) *StatsHandler {
	return &StatsHandler{stats: stats}
}

type statsQuery struct {
	StartDate  string `form:"startDate"`
	EndDate    string `form:"endDate"`
	Department string `form:"department"` // comma separated
	Status     string `form:"status"`
	Limit      int    `form:"limit"`
}

func (q statsQuery) filter() (repo.StatsFilter, error) {
	var f repo.StatsFilter
	if q.StartDate != "" {
		t, err := parseDate(q.StartDate)
		if err != nil {
			return f, err
		}
		f.From = &t
	}
	if q.EndDate != "" {
		t, err := parseDate(q.EndDate)
		if err != nil {
			return f, err
		}
		// inclusive end date on the wire
		t = t.Add(24 * time.Hour)
		f.To = &t
	}
	if q.Department != "" {
		f.Departments = strings.Split(q.Department, ",")
	}
	f.Status = q.Status
	return f, nil
}

// MountAPI exposes the dashboard to staff on the user-facing plane.
func (h *StatsHandler) MountAPI(g *gin.RouterGroup) {
	e := ez.New(g)
	ez.Register(e, ez.Action[statsQuery, *service.DashboardStats]{
		Method: http.MethodGet,
		Path:   "/stats/dashboard",
		Binder: ez.BindQuery,
		Roles:  staffRoles,
		Handler: func(c *gin.Context, in *statsQuery) (*service.DashboardStats, error) {
			f, err := in.filter()
			if err != nil {
				return nil, err
			}
			return h.stats.Dashboard(c.Request.Context(), f)
		},
	})
}

// MountAdmin exposes the extended report on the admin plane.
func (h *StatsHandler) MountAdmin(g *gin.RouterGroup) {
	e := ez.New(g)
	ez.Register(e, ez.Action[statsQuery, *service.Report]{
		Method: http.MethodGet,
		Path:   "/stats/report",
		Binder: ez.BindQuery,
		Handler: func(c *gin.Context, in *statsQuery) (*service.Report, error) {
			f, err := in.filter()
			if err != nil {
				return nil, err
			}
			return h.stats.Report(c.Request.Context(), f, in.Limit)
		},
	})
}
