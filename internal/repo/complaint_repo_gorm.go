package repo

import (
	"errors"

	"gorm.io/gorm"

	"reclamation-api/internal/domain"
)

type ComplaintRepo struct{ db *gorm.DB }

func NewComplaintRepo(db *gorm.DB) *ComplaintRepo { return &ComplaintRepo{db: db} }

func (r *ComplaintRepo) Create(c *domain.Complaint) error { return r.db.Create(c).Error }

func (r *ComplaintRepo) FindByID(id string) (*domain.Complaint, error) {
	var c domain.Complaint
	err := r.db.First(&c, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &c, err
}

func (r *ComplaintRepo) List(f domain.ComplaintFilter) ([]domain.Complaint, int64, error) {
	q := r.scope(f)
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var items []domain.Complaint
	if f.Limit > 0 {
		q = q.Limit(f.Limit).Offset(f.Offset)
	}
	if err := q.Order("created_at DESC").Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *ComplaintRepo) Update(c *domain.Complaint) error { return r.db.Save(c).Error }

func (r *ComplaintRepo) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&domain.Complaint{}).Error
}

func (r *ComplaintRepo) scope(f domain.ComplaintFilter) *gorm.DB {
	q := r.db.Model(&domain.Complaint{})
	if f.UserID != "" {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.Department != "" {
		q = q.Where("department = ?", f.Department)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.EmployeeID != "" {
		q = q.Where("employee_id = ?", f.EmployeeID)
	}
	if f.From != nil {
		q = q.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("created_at < ?", *f.To)
	}
	return q
}
