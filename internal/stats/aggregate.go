// Package stats computes the reporting aggregates shown on the dashboard:
// status distribution, per-department metrics, staff performance and the
// 30-day trend comparison. Everything operates on projected complaint rows
// so the math is independent of the store.
package stats

import (
	"sort"
	"time"

	"reclamation-api/internal/domain"
)

// Fact is the projection of a complaint the aggregator needs.
type Fact struct {
	Department   string
	Status       string
	EmployeeID   string
	GuichetierID string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

const msPerHour = 3_600_000.0

// resolutionHours is UpdatedAt-CreatedAt in hours; the terminal update is the
// resolution write, so the delta is the handling time.
func (f Fact) resolutionHours() float64 {
	return float64(f.UpdatedAt.Sub(f.CreatedAt).Milliseconds()) / msPerHour
}

type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// StatusDistribution counts complaints per status, descending by count.
// The counts always sum to len(facts).
func StatusDistribution(facts []Fact) []StatusCount {
	byStatus := map[string]int{}
	for _, f := range facts {
		byStatus[f.Status]++
	}
	out := make([]StatusCount, 0, len(byStatus))
	for s, n := range byStatus {
		out = append(out, StatusCount{Status: s, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Status < out[j].Status
	})
	return out
}

type DepartmentStat struct {
	Department         string  `json:"department"`
	Total              int     `json:"total"`
	Treated            int     `json:"treated"`
	Pending            int     `json:"pending"`
	Rejected           int     `json:"rejected"`
	TreatedPct         float64 `json:"treatedPercentage"`
	AvgResolutionHours float64 `json:"avgResolutionHours"`
}

// DepartmentStats reports one row per product line, in fixed order, zeros
// included so an empty department never divides by zero.
func DepartmentStats(facts []Fact) []DepartmentStat {
	order := []string{domain.DepartmentMadaniya, domain.DepartmentInsaf, domain.DepartmentRached}
	rows := map[string]*DepartmentStat{}
	hours := map[string][]float64{}
	for _, d := range order {
		rows[d] = &DepartmentStat{Department: d}
	}
	for _, f := range facts {
		row, ok := rows[f.Department]
		if !ok {
			// unknown department in legacy data still counts
			row = &DepartmentStat{Department: f.Department}
			rows[f.Department] = row
			order = append(order, f.Department)
		}
		row.Total++
		switch f.Status {
		case domain.ComplaintResolved:
			row.Treated++
			hours[f.Department] = append(hours[f.Department], f.resolutionHours())
		case domain.ComplaintRejected:
			row.Rejected++
		default:
			row.Pending++
		}
	}
	out := make([]DepartmentStat, 0, len(order))
	for _, d := range order {
		row := rows[d]
		row.TreatedPct = pct(row.Treated, row.Total)
		row.AvgResolutionHours = mean(hours[d])
		out = append(out, *row)
	}
	return out
}

// StaffKey selects which foreign key a performance report groups on.
type StaffKey func(Fact) string

func ByEmployee(f Fact) string   { return f.EmployeeID }
func ByGuichetier(f Fact) string { return f.GuichetierID }

type StaffStat struct {
	StaffID            string  `json:"staffId"`
	Total              int     `json:"total"`
	Treated            int     `json:"treated"`
	Rejected           int     `json:"rejected"`
	Departments        int     `json:"departments"`
	TreatedPct         float64 `json:"treatedPercentage"`
	RejectedPct        float64 `json:"rejectedPercentage"`
	AvgResolutionHours float64 `json:"avgResolutionHours"`
}

// StaffPerformance aggregates per staff member, descending by workload,
// truncated to limit (<=0 means the default of 10). Facts without the
// grouping key are skipped.
func StaffPerformance(facts []Fact, key StaffKey, limit int) []StaffStat {
	if limit <= 0 {
		limit = 10
	}
	rows := map[string]*StaffStat{}
	depts := map[string]map[string]struct{}{}
	hours := map[string][]float64{}
	for _, f := range facts {
		id := key(f)
		if id == "" {
			continue
		}
		row, ok := rows[id]
		if !ok {
			row = &StaffStat{StaffID: id}
			rows[id] = row
			depts[id] = map[string]struct{}{}
		}
		row.Total++
		depts[id][f.Department] = struct{}{}
		switch f.Status {
		case domain.ComplaintResolved:
			row.Treated++
			hours[id] = append(hours[id], f.resolutionHours())
		case domain.ComplaintRejected:
			row.Rejected++
		}
	}
	out := make([]StaffStat, 0, len(rows))
	for id, row := range rows {
		row.Departments = len(depts[id])
		row.TreatedPct = pct(row.Treated, row.Total)
		row.RejectedPct = pct(row.Rejected, row.Total)
		row.AvgResolutionHours = mean(hours[id])
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].StaffID < out[j].StaffID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

type Overall struct {
	Total              int     `json:"total"`
	Treated            int     `json:"treated"`
	Rejected           int     `json:"rejected"`
	ResolutionRate     float64 `json:"resolutionRate"`
	AvgResolutionHours float64 `json:"avgResolutionHours"`
}

// OverallStats rolls department rows up into a single summary. The average
// resolution time is the mean of the per-department averages, not a
// complaint-weighted mean; reports have always been read that way and the
// semantics are kept on purpose.
func OverallStats(depts []DepartmentStat) Overall {
	var o Overall
	var avgs []float64
	for _, d := range depts {
		o.Total += d.Total
		o.Treated += d.Treated
		o.Rejected += d.Rejected
		if d.Treated > 0 {
			avgs = append(avgs, d.AvgResolutionHours)
		}
	}
	o.ResolutionRate = pct(o.Treated, o.Total)
	o.AvgResolutionHours = mean(avgs)
	return o
}

type Trend struct {
	Current  Overall `json:"current"`
	Previous Overall `json:"previous"`
	// Percentage deltas vs the previous window; 0 when the previous
	// window is empty.
	TotalDeltaPct      float64 `json:"totalDeltaPct"`
	TreatedDeltaPct    float64 `json:"treatedDeltaPct"`
	ResolutionRateDiff float64 `json:"resolutionRateDiff"`
}

// CompareWindows computes deltas between the current window and the shifted
// 30-day-prior one.
func CompareWindows(current, previous Overall) Trend {
	return Trend{
		Current:            current,
		Previous:           previous,
		TotalDeltaPct:      deltaPct(current.Total, previous.Total),
		TreatedDeltaPct:    deltaPct(current.Treated, previous.Treated),
		ResolutionRateDiff: current.ResolutionRate - previous.ResolutionRate,
	}
}

func pct(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

func deltaPct(cur, prev int) float64 {
	if prev == 0 {
		return 0
	}
	return float64(cur-prev) / float64(prev) * 100
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}
