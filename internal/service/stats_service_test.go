package service

import (
	"testing"
	"time"

	"reclamation-api/internal/repo"
)

func TestShiftWindowExplicitBounds(t *testing.T) {
	from := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	f := repo.StatsFilter{From: &from, To: &to, Departments: []string{"Insaf"}}

	prev := shiftWindow(f, time.Now())

	if prev.To == nil || !prev.To.Equal(from) {
		t.Errorf("previous window must end where the current one starts, got %v", prev.To)
	}
	wantFrom := from.Add(-30 * 24 * time.Hour)
	if prev.From == nil || !prev.From.Equal(wantFrom) {
		t.Errorf("previous From = %v, want %v", prev.From, wantFrom)
	}
	if len(prev.Departments) != 1 || prev.Departments[0] != "Insaf" {
		t.Errorf("department filter lost: %v", prev.Departments)
	}
}

func TestShiftWindowDefaultsToLast30Days(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	prev := shiftWindow(repo.StatsFilter{}, now)

	wantTo := now.Add(-30 * 24 * time.Hour)
	if prev.To == nil || !prev.To.Equal(wantTo) {
		t.Errorf("previous To = %v, want %v", prev.To, wantTo)
	}
	if prev.From == nil || !prev.From.Equal(wantTo.Add(-30*24*time.Hour)) {
		t.Errorf("previous From = %v", prev.From)
	}
}

func TestDashboardKeyDistinguishesFilters(t *testing.T) {
	from := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	keys := map[string]struct{}{
		dashboardKey(repo.StatsFilter{}):                                {},
		dashboardKey(repo.StatsFilter{From: &from}):                     {},
		dashboardKey(repo.StatsFilter{Departments: []string{"Insaf"}}): {},
		dashboardKey(repo.StatsFilter{Status: "traitée"}):              {},
	}
	if len(keys) != 4 {
		t.Errorf("filter variants collide: %v", keys)
	}
}
