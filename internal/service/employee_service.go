package service

import (
	"Atrium/internal/api/dto"
	"Atrium/internal/model"
	"Atrium/internal/pkg/consts"
	"Atrium/internal/pkg/minio"
	"Atrium/internal/pkg/util"
	"Atrium/internal/repository"
	"context"
	"fmt"
	"io"
	log "log/slog"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

const employeeDateLayout = "2006-01-02"

// EmployeeService 员工名录。读对所有登录用户开放，写需要名录管理能力
type EmployeeService interface {
	GetEmployeeById(ctx context.Context, id uint64) (*dto.EmployeeDTO, error)
	ListEmployees(ctx context.Context, keyword string, page, limit int) (*dto.EmployeeListDTO, error)
	CreateEmployee(ctx context.Context, req *dto.SaveEmployeeDTO) (*dto.EmployeeDTO, error)
	UpdateEmployee(ctx context.Context, id uint64, req *dto.SaveEmployeeDTO) (*dto.EmployeeDTO, error)
	UploadPhoto(ctx context.Context, id uint64, filename string, reader io.Reader, size int64, contentType string) (*dto.EmployeeDTO, error)
	UploadCertificate(ctx context.Context, id uint64, filename string, reader io.Reader, size int64, contentType string) (*dto.EmployeeDTO, error)
	DeleteEmployee(ctx context.Context, id uint64) error
}

type employeeServiceImpl struct {
	employeeRepo repository.EmployeeRepo
}

func NewEmployeeService(employeeRepo repository.EmployeeRepo) EmployeeService {
	return &employeeServiceImpl{employeeRepo: employeeRepo}
}

func (s *employeeServiceImpl) GetEmployeeById(ctx context.Context, id uint64) (*dto.EmployeeDTO, error) {
	employee, err := s.employeeRepo.GetEmployeeById(ctx, id)
	if err != nil {
		return nil, err
	}
	if employee == nil {
		return nil, ErrEmployeeNotFound
	}
	return toEmployeeDTO(employee), nil
}

func (s *employeeServiceImpl) ListEmployees(ctx context.Context, keyword string, page, limit int) (*dto.EmployeeListDTO, error) {
	page, limit = util.NormalizePagination(page, limit)

	employees, total, err := s.employeeRepo.ListEmployees(ctx, keyword, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}

	list := make([]*dto.EmployeeDTO, 0, len(employees))
	for _, employee := range employees {
		list = append(list, toEmployeeDTO(employee))
	}
	return &dto.EmployeeListDTO{
		List:  list,
		Total: total,
		Page:  page,
		Limit: limit,
	}, nil
}

func (s *employeeServiceImpl) CreateEmployee(ctx context.Context, req *dto.SaveEmployeeDTO) (*dto.EmployeeDTO, error) {
	employee := &model.Employee{}
	if err := applyEmployeeDTO(employee, req); err != nil {
		return nil, err
	}

	if err := s.employeeRepo.CreateEmployee(ctx, employee); err != nil {
		return nil, err
	}
	return toEmployeeDTO(employee), nil
}

func (s *employeeServiceImpl) UpdateEmployee(ctx context.Context, id uint64, req *dto.SaveEmployeeDTO) (*dto.EmployeeDTO, error) {
	employee, err := s.employeeRepo.GetEmployeeById(ctx, id)
	if err != nil {
		return nil, err
	}
	if employee == nil {
		return nil, ErrEmployeeNotFound
	}

	if err = applyEmployeeDTO(employee, req); err != nil {
		return nil, err
	}
	if err = s.employeeRepo.UpdateEmployee(ctx, employee); err != nil {
		return nil, err
	}
	return toEmployeeDTO(employee), nil
}

// UploadPhoto 员工照片，仅接受图片
func (s *employeeServiceImpl) UploadPhoto(ctx context.Context, id uint64, filename string, reader io.Reader, size int64, contentType string) (*dto.EmployeeDTO, error) {
	if !strings.HasPrefix(contentType, consts.MimePrefixImage) {
		return nil, ErrFileNotSupported
	}
	return s.uploadAsset(ctx, id, "employees/photos", filename, reader, size, contentType, func(e *model.Employee, key string) {
		e.PhotoKey = key
	})
}

// UploadCertificate 资质证书，图片或 PDF
func (s *employeeServiceImpl) UploadCertificate(ctx context.Context, id uint64, filename string, reader io.Reader, size int64, contentType string) (*dto.EmployeeDTO, error) {
	if !strings.HasPrefix(contentType, consts.MimePrefixImage) && contentType != "application/pdf" {
		return nil, ErrFileNotSupported
	}
	return s.uploadAsset(ctx, id, "employees/certificates", filename, reader, size, contentType, func(e *model.Employee, key string) {
		e.CertificateKey = key
	})
}

func (s *employeeServiceImpl) uploadAsset(ctx context.Context, id uint64, prefix, filename string, reader io.Reader, size int64, contentType string, assign func(*model.Employee, string)) (*dto.EmployeeDTO, error) {
	employee, err := s.employeeRepo.GetEmployeeById(ctx, id)
	if err != nil {
		return nil, err
	}
	if employee == nil {
		return nil, ErrEmployeeNotFound
	}

	objectKey := fmt.Sprintf("%s/%s%s", prefix, uuid.NewString(), path.Ext(filename))
	if _, err = minio.UploadFile(ctx, objectKey, reader, size, contentType); err != nil {
		return nil, err
	}

	assign(employee, objectKey)
	if err = s.employeeRepo.UpdateEmployee(ctx, employee); err != nil {
		return nil, err
	}
	return toEmployeeDTO(employee), nil
}

func (s *employeeServiceImpl) DeleteEmployee(ctx context.Context, id uint64) error {
	employee, err := s.employeeRepo.GetEmployeeById(ctx, id)
	if err != nil {
		return err
	}
	if employee == nil {
		return ErrEmployeeNotFound
	}

	rows, err := s.employeeRepo.DeleteEmployee(ctx, id)
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrEmployeeNotFound
	}

	// 存储里的附件一并清掉，失败只记日志
	for _, key := range []string{employee.PhotoKey, employee.CertificateKey} {
		if key == "" {
			continue
		}
		if err = minio.DeleteFile(ctx, key); err != nil {
			log.WarnContext(ctx, "delete employee asset failed", "key", key, "err", err)
		}
	}
	return nil
}

func applyEmployeeDTO(employee *model.Employee, req *dto.SaveEmployeeDTO) error {
	startDate, err := time.Parse(employeeDateLayout, req.StartDate)
	if err != nil {
		return ErrParamInvalid
	}

	var endDate time.Time
	if req.EndDate != nil && *req.EndDate != "" {
		endDate, err = time.Parse(employeeDateLayout, *req.EndDate)
		if err != nil {
			return ErrParamInvalid
		}
	}

	employee.Name = req.Name
	employee.Position = req.Position
	employee.Email = req.Email
	employee.StartDate = startDate
	employee.EndDate = endDate
	return nil
}

func toEmployeeDTO(employee *model.Employee) *dto.EmployeeDTO {
	item := &dto.EmployeeDTO{
		ID:             employee.ID,
		Name:           employee.Name,
		Position:       employee.Position,
		Email:          employee.Email,
		PhotoURL:       minio.GetPublicURL(employee.PhotoKey),
		CertificateURL: minio.GetPublicURL(employee.CertificateKey),
		StartDate:      employee.StartDate.Format(employeeDateLayout),
	}
	if !employee.EndDate.IsZero() {
		item.EndDate = employee.EndDate.Format(employeeDateLayout)
	}
	return item
}
