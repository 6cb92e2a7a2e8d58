package repo

import (
	"time"

	"gorm.io/gorm"

	"reclamation-api/internal/domain"
	"reclamation-api/internal/stats"
)

// StatsRepo projects complaints into the rows the aggregator consumes.
// Filtering happens in SQL; the arithmetic stays in the stats package.
type StatsRepo struct{ db *gorm.DB }

func NewStatsRepo(db *gorm.DB) *StatsRepo { return &StatsRepo{db: db} }

type StatsFilter struct {
	From        *time.Time
	To          *time.Time
	Departments []string
	Status      string
}

func (r *StatsRepo) Facts(f StatsFilter) ([]stats.Fact, error) {
	q := r.db.Model(&domain.Complaint{}).
		Select("department, status, employee_id, guichetier_id, created_at, updated_at")
	if f.From != nil {
		q = q.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("created_at < ?", *f.To)
	}
	if len(f.Departments) > 0 {
		q = q.Where("department IN ?", f.Departments)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	var rows []struct {
		Department   string
		Status       string
		EmployeeID   *string
		GuichetierID *string
		CreatedAt    time.Time
		UpdatedAt    time.Time
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}

	facts := make([]stats.Fact, 0, len(rows))
	for _, row := range rows {
		facts = append(facts, stats.Fact{
			Department:   row.Department,
			Status:       row.Status,
			EmployeeID:   deref(row.EmployeeID),
			GuichetierID: deref(row.GuichetierID),
			CreatedAt:    row.CreatedAt,
			UpdatedAt:    row.UpdatedAt,
		})
	}
	return facts, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
