package dto

// EmployeeDTO 员工名录条目
type EmployeeDTO struct {
	ID             uint64 `json:"id"`
	Name           string `json:"name"`
	Position       string `json:"position"`
	Email          string `json:"email"`
	PhotoURL       string `json:"photoUrl"`
	CertificateURL string `json:"certificateUrl"`
	StartDate      string `json:"startDate"`
	EndDate        string `json:"endDate,omitempty"`
}

// SaveEmployeeDTO 新建或更新员工
type SaveEmployeeDTO struct {
	Name      string  `json:"name" binding:"required,max=100"`
	Position  string  `json:"position" binding:"required,max=100"`
	Email     string  `json:"email" binding:"omitempty,email"`
	StartDate string  `json:"startDate" binding:"required"`
	EndDate   *string `json:"endDate"`
}

// EmployeeListDTO 员工分页
type EmployeeListDTO struct {
	List  []*EmployeeDTO `json:"list"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}
