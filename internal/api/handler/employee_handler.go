package handler

import (
	"Atrium/internal/api/dto"
	"Atrium/internal/pkg/response"
	"Atrium/internal/service"
	"context"
	"io"

	"github.com/gin-gonic/gin"
)

type EmployeeHandler struct {
	employeeSvc service.EmployeeService
}

func NewEmployeeHandler(employeeSvc service.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{employeeSvc: employeeSvc}
}

func (s *EmployeeHandler) ListEmployees(c *gin.Context) {
	page, limit := parsePagination(c)
	keyword := c.Query("keyword")
	list, err := s.employeeSvc.ListEmployees(c.Request.Context(), keyword, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

func (s *EmployeeHandler) GetEmployee(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	employee, err := s.employeeSvc.GetEmployeeById(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, employee)
}

func (s *EmployeeHandler) CreateEmployee(c *gin.Context) {
	var req dto.SaveEmployeeDTO
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, err)
		return
	}
	employee, err := s.employeeSvc.CreateEmployee(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, employee)
}

func (s *EmployeeHandler) UpdateEmployee(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	var req dto.SaveEmployeeDTO
	if err = c.ShouldBind(&req); err != nil {
		response.Error(c, err)
		return
	}
	employee, err := s.employeeSvc.UpdateEmployee(c.Request.Context(), id, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, employee)
}

func (s *EmployeeHandler) UploadPhoto(c *gin.Context) {
	s.uploadAsset(c, s.employeeSvc.UploadPhoto)
}

func (s *EmployeeHandler) UploadCertificate(c *gin.Context) {
	s.uploadAsset(c, s.employeeSvc.UploadCertificate)
}

func (s *EmployeeHandler) uploadAsset(c *gin.Context, upload func(ctx context.Context, id uint64, filename string, reader io.Reader, size int64, contentType string) (*dto.EmployeeDTO, error)) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	file, err := c.FormFile("file")
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	reader, err := file.Open()
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	defer func() { _ = reader.Close() }()

	contentType := file.Header.Get("Content-Type")
	employee, err := upload(c.Request.Context(), id, file.Filename, reader, file.Size, contentType)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, employee)
}

func (s *EmployeeHandler) DeleteEmployee(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if err = s.employeeSvc.DeleteEmployee(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
