package repository

import (
	"Atrium/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

type EmployeeRepo interface {
	GetEmployeeById(ctx context.Context, id uint64) (*model.Employee, error)
	ListEmployees(ctx context.Context, keyword string, offset, limit int) ([]*model.Employee, int64, error)
	CreateEmployee(ctx context.Context, employee *model.Employee) error
	UpdateEmployee(ctx context.Context, employee *model.Employee) error
	DeleteEmployee(ctx context.Context, id uint64) (int64, error)
}

type EmployeeRepoImpl struct {
	db *gorm.DB
}

func NewEmployeeRepo(db *gorm.DB) EmployeeRepo {
	return &EmployeeRepoImpl{db: db}
}

func (s *EmployeeRepoImpl) GetEmployeeById(ctx context.Context, id uint64) (*model.Employee, error) {
	employee := &model.Employee{}
	result := s.db.WithContext(ctx).First(employee, id)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}

	return employee, nil
}

// ListEmployees 按姓名或职位模糊过滤
func (s *EmployeeRepoImpl) ListEmployees(ctx context.Context, keyword string, offset, limit int) ([]*model.Employee, int64, error) {
	query := s.db.WithContext(ctx).Model(&model.Employee{})
	if keyword != "" {
		pattern := "%" + keyword + "%"
		query = query.Where("name LIKE ? OR position LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	employees := make([]*model.Employee, 0)
	result := query.
		Order("name ASC").
		Offset(offset).
		Limit(limit).
		Find(&employees)
	if result.Error != nil {
		return nil, 0, result.Error
	}
	return employees, total, nil
}

func (s *EmployeeRepoImpl) CreateEmployee(ctx context.Context, employee *model.Employee) error {
	return s.db.WithContext(ctx).Create(employee).Error
}

func (s *EmployeeRepoImpl) UpdateEmployee(ctx context.Context, employee *model.Employee) error {
	return s.db.WithContext(ctx).Save(employee).Error
}

func (s *EmployeeRepoImpl) DeleteEmployee(ctx context.Context, id uint64) (int64, error) {
	result := s.db.WithContext(ctx).Delete(&model.Employee{}, id)
	return result.RowsAffected, result.Error
}
