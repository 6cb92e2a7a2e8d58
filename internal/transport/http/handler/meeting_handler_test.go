package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	glogger "gorm.io/gorm/logger"

	"reclamation-api/internal/domain"
	"reclamation-api/internal/repo"
	"reclamation-api/internal/schedule"
	"reclamation-api/internal/service"
	"reclamation-api/pkg/utils"
)

type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

func testHandlerDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:handler_" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: glogger.Default.LogMode(glogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&domain.User{}, &domain.Complaint{}, &domain.Meeting{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

// asUser stands in for the JWT middleware: it injects the identity the way
// AuthJWT does after parsing a token.
func asUser(id, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userId", id)
		c.Set("role", role)
		c.Next()
	}
}

func newMeetingRouter(t *testing.T, id, role string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := testHandlerDB(t)

	users := repo.NewUserRepo(db)
	for _, u := range []*domain.User{
		{ID: "cit-1", Email: "citizen@example.org", Role: domain.RoleCitizen, Department: domain.DepartmentInsaf, Ministre: "Interieur", Service: "Etat civil"},
		{ID: "emp-1", Email: "employee@example.org", Role: domain.RoleEmployee, Department: domain.DepartmentInsaf},
		{ID: "gui-1", Email: "guichet@example.org", Role: domain.RoleGuichetier, Department: domain.DepartmentInsaf},
	} {
		if err := users.Create(u); err != nil {
			t.Fatalf("seed user: %v", err)
		}
	}

	svc := service.NewMeetingService(repo.NewMeetingRepo(db), users,
		schedule.DefaultConfig(), "https://meet.example.org", utils.NewID, nil)

	r := gin.New()
	g := r.Group("/api/v1", asUser(id, role))
	NewMeetingHandler(svc).Mount(g)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope from %q: %v", w.Body.String(), err)
	}
	return w, env
}

func TestCreateMeetingEndpoint(t *testing.T) {
	r := newMeetingRouter(t, "cit-1", domain.RoleCitizen)

	w, env := doJSON(t, r, http.MethodPost, "/api/v1/meetings", gin.H{
		"department":  domain.DepartmentInsaf,
		"date":        "2024-06-10T10:00:00Z",
		"description": "renouvellement",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var m domain.Meeting
	if err := json.Unmarshal(env.Data, &m); err != nil {
		t.Fatalf("decode meeting: %v", err)
	}
	if m.Status != domain.MeetingRequested || m.UserID != "cit-1" {
		t.Errorf("meeting = %+v", m)
	}
}

func TestCreateMeetingOutsideHoursEndpoint(t *testing.T) {
	r := newMeetingRouter(t, "cit-1", domain.RoleCitizen)

	w, env := doJSON(t, r, http.MethodPost, "/api/v1/meetings", gin.H{
		"department": domain.DepartmentInsaf,
		"date":       "2024-06-10T20:00:00Z",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if env.Code != http.StatusBadRequest {
		t.Errorf("wire code = %d", env.Code)
	}
}

func TestAvailabilityEndpoint(t *testing.T) {
	r := newMeetingRouter(t, "gui-1", domain.RoleGuichetier)

	w, env := doJSON(t, r, http.MethodGet, "/api/v1/meetings/availability?employeeId=emp-1&date=2024-06-10", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var out struct {
		TimeSlots []schedule.Slot `json:"timeSlots"`
	}
	if err := json.Unmarshal(env.Data, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.TimeSlots) != 16 {
		t.Errorf("booking view: %d slots, want 16", len(out.TimeSlots))
	}

	_, env = doJSON(t, r, http.MethodGet, "/api/v1/meetings/availability?employeeId=emp-1&date=2024-06-10&view=calendar", nil)
	if err := json.Unmarshal(env.Data, &out); err != nil {
		t.Fatalf("decode calendar: %v", err)
	}
	if len(out.TimeSlots) != 22 {
		t.Errorf("calendar view: %d slots, want 22", len(out.TimeSlots))
	}
}

func TestCheckConflictUnknownEmployeeEndpoint(t *testing.T) {
	r := newMeetingRouter(t, "gui-1", domain.RoleGuichetier)

	w, _ := doJSON(t, r, http.MethodGet, "/api/v1/meetings/check-conflict?employeeId=ghost&date=2024-06-10T10:00:00Z", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
}

func TestStatusEndpointStaffOnly(t *testing.T) {
	r := newMeetingRouter(t, "cit-1", domain.RoleCitizen)

	w, _ := doJSON(t, r, http.MethodPut, "/api/v1/meetings/some-id/status", gin.H{
		"status": domain.MeetingRejected,
	})
	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
}

func TestScheduleFlowEndpoints(t *testing.T) {
	r := newMeetingRouter(t, "gui-1", domain.RoleGuichetier)

	// the guichetier files on behalf of themselves here; identity only
	// matters for the citizen-scoped list
	_, env := doJSON(t, r, http.MethodPost, "/api/v1/meetings", gin.H{
		"department": domain.DepartmentInsaf,
		"date":       "2024-06-10T10:00:00Z",
	})
	var m domain.Meeting
	if err := json.Unmarshal(env.Data, &m); err != nil {
		t.Fatalf("decode created: %v", err)
	}

	w, env := doJSON(t, r, http.MethodPut, "/api/v1/meetings/"+m.ID+"/status", gin.H{
		"status":     domain.MeetingScheduled,
		"employeeId": "emp-1",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("schedule status = %d, body = %s", w.Code, w.Body.String())
	}
	if err := json.Unmarshal(env.Data, &m); err != nil {
		t.Fatalf("decode scheduled: %v", err)
	}
	if m.Status != domain.MeetingScheduled {
		t.Errorf("status = %s", m.Status)
	}

	// the taken slot now shows unavailable
	_, env = doJSON(t, r, http.MethodGet, "/api/v1/meetings/availability?employeeId=emp-1&date=2024-06-10", nil)
	var out struct {
		TimeSlots []schedule.Slot `json:"timeSlots"`
	}
	if err := json.Unmarshal(env.Data, &out); err != nil {
		t.Fatalf("decode slots: %v", err)
	}
	var taken int
	for _, s := range out.TimeSlots {
		if !s.IsAvailable {
			taken++
			if s.FormattedTime != "10:00" {
				t.Errorf("wrong slot marked taken: %s", s.FormattedTime)
			}
		}
	}
	if taken != 1 {
		t.Errorf("taken slots = %d, want 1", taken)
	}
}
