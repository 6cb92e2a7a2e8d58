package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"reclamation-api/internal/core/cache"
	"reclamation-api/internal/repo"
	"reclamation-api/internal/stats"
)

// StatsService runs the reporting aggregates. Dashboard responses are cached
// in redis for a short TTL since every staff member's landing page hits them.
type StatsService struct {
	facts    *repo.StatsRepo
	cache    *cache.Cache
	ttl      time.Duration
	topLimit int
	now      func() time.Time
}

func NewStatsService(facts *repo.StatsRepo, c *cache.Cache, ttl time.Duration, topLimit int, now func() time.Time) *StatsService {
	if now == nil {
		now = time.Now
	}
	if topLimit <= 0 {
		topLimit = 10
	}
	return &StatsService{facts: facts, cache: c, ttl: ttl, topLimit: topLimit, now: now}
}

type DashboardStats struct {
	StatusDistribution    []stats.StatusCount    `json:"statusDistribution"`
	DepartmentStats       []stats.DepartmentStat `json:"departmentStats"`
	EmployeePerformance   []stats.StaffStat      `json:"employeePerformance"`
	GuichetierPerformance []stats.StaffStat      `json:"guichetierPerformance"`
	OverallStats          stats.Overall          `json:"overallStats"`
}

func (s *StatsService) Dashboard(ctx context.Context, f repo.StatsFilter) (*DashboardStats, error) {
	if s.cache == nil {
		return s.dashboard(f)
	}
	return cache.GetOrLoadJSON(s.cache, ctx, dashboardKey(f), s.ttl,
		func(context.Context) (*DashboardStats, error) { return s.dashboard(f) })
}

func (s *StatsService) dashboard(f repo.StatsFilter) (*DashboardStats, error) {
	facts, err := s.facts.Facts(f)
	if err != nil {
		return nil, err
	}
	depts := stats.DepartmentStats(facts)
	return &DashboardStats{
		StatusDistribution:    stats.StatusDistribution(facts),
		DepartmentStats:       depts,
		EmployeePerformance:   stats.StaffPerformance(facts, stats.ByEmployee, s.topLimit),
		GuichetierPerformance: stats.StaffPerformance(facts, stats.ByGuichetier, s.topLimit),
		OverallStats:          stats.OverallStats(depts),
	}, nil
}

type Report struct {
	DashboardStats
	Trend         stats.Trend       `json:"trend"`
	TopEmployees  []stats.StaffStat `json:"topEmployees"`
	TopGuichetier []stats.StaffStat `json:"topGuichetiers"`
}

// Report extends the dashboard with a 30-day-prior comparison window and
// top-performer rankings. Not cached; it is pulled on demand, not per page
// load.
func (s *StatsService) Report(ctx context.Context, f repo.StatsFilter, topLimit int) (*Report, error) {
	cur, err := s.dashboard(f)
	if err != nil {
		return nil, err
	}

	prevFilter := shiftWindow(f, s.now())
	prevFacts, err := s.facts.Facts(prevFilter)
	if err != nil {
		return nil, err
	}
	prevOverall := stats.OverallStats(stats.DepartmentStats(prevFacts))

	if topLimit <= 0 {
		topLimit = s.topLimit
	}
	facts, err := s.facts.Facts(f)
	if err != nil {
		return nil, err
	}
	return &Report{
		DashboardStats: *cur,
		Trend:          stats.CompareWindows(cur.OverallStats, prevOverall),
		TopEmployees:   stats.StaffPerformance(facts, stats.ByEmployee, topLimit),
		TopGuichetier:  stats.StaffPerformance(facts, stats.ByGuichetier, topLimit),
	}, nil
}

// shiftWindow produces the 30-day-prior comparison window. Without explicit
// bounds the current window is taken as the last 30 days.
func shiftWindow(f repo.StatsFilter, now time.Time) repo.StatsFilter {
	const window = 30 * 24 * time.Hour
	to := now
	if f.To != nil {
		to = *f.To
	}
	from := to.Add(-window)
	if f.From != nil {
		from = *f.From
	}
	prevTo := from
	prevFrom := prevTo.Add(-window)
	out := f
	out.From, out.To = &prevFrom, &prevTo
	return out
}

func dashboardKey(f repo.StatsFilter) string {
	var b strings.Builder
	b.WriteString("stats:dashboard")
	if f.From != nil {
		fmt.Fprintf(&b, ":from=%d", f.From.Unix())
	}
	if f.To != nil {
		fmt.Fprintf(&b, ":to=%d", f.To.Unix())
	}
	if len(f.Departments) > 0 {
		fmt.Fprintf(&b, ":dept=%s", strings.Join(f.Departments, ","))
	}
	if f.Status != "" {
		fmt.Fprintf(&b, ":status=%s", f.Status)
	}
	return b.String()
}
