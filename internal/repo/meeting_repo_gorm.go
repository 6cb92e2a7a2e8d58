package repo

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"reclamation-api/internal/domain"
)

type MeetingRepo struct{ db *gorm.DB }

func NewMeetingRepo(db *gorm.DB) *MeetingRepo { return &MeetingRepo{db: db} }

func (r *MeetingRepo) Create(m *domain.Meeting) error { return r.db.Create(m).Error }

func (r *MeetingRepo) FindByID(id string) (*domain.Meeting, error) {
	var m domain.Meeting
	err := r.db.First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &m, err
}

func (r *MeetingRepo) List(f domain.MeetingFilter) ([]domain.Meeting, int64, error) {
	q := r.db.Model(&domain.Meeting{})
	if f.UserID != "" {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.EmployeeID != "" {
		q = q.Where("employee_id = ?", f.EmployeeID)
	}
	if f.Department != "" {
		q = q.Where("department = ?", f.Department)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.From != nil {
		q = q.Where("date >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("date < ?", *f.To)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var items []domain.Meeting
	if f.Limit > 0 {
		q = q.Limit(f.Limit).Offset(f.Offset)
	}
	if err := q.Order("date ASC").Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// UpdateVersioned applies the write only when the stored version still equals
// fromVersion. Losing the race is reported, not an error, so callers can
// surface a conflict.
func (r *MeetingRepo) UpdateVersioned(m *domain.Meeting, fromVersion int) (bool, error) {
	m.Version = fromVersion + 1
	res := r.db.Model(&domain.Meeting{}).
		Where("id = ? AND version = ?", m.ID, fromVersion).
		Select("*").Omit("id", "created_at").
		Updates(m)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *MeetingRepo) FindScheduledAt(employeeID string, t time.Time, excludeID string) (*domain.Meeting, error) {
	q := r.db.Where("employee_id = ? AND status = ? AND date = ?",
		employeeID, domain.MeetingScheduled, t)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	var m domain.Meeting
	err := q.First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &m, err
}

func (r *MeetingRepo) ScheduledBetween(employeeID string, from, to time.Time) ([]domain.Meeting, error) {
	var items []domain.Meeting
	err := r.db.
		Where("employee_id = ? AND status = ? AND date >= ? AND date < ?",
			employeeID, domain.MeetingScheduled, from, to).
		Order("date ASC").
		Find(&items).Error
	return items, err
}
