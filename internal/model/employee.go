package model

import (
	"time"
)

type Employee struct {
	ID             uint64    `gorm:"primaryKey" json:"id"`
	Name           string    `gorm:"type:varchar(100);not null" json:"name"`
	Position       string    `gorm:"type:varchar(100);not null" json:"position"`
	Email          string    `gorm:"type:varchar(255);not null" json:"email"`
	PhotoKey       string    `gorm:"type:varchar(512);not null;default:''" json:"photo"`
	CertificateKey string    `gorm:"type:varchar(512);not null;default:''" json:"certificate"`
	StartDate      time.Time `gorm:"not null" json:"startDate"`
	EndDate        time.Time `gorm:"not null" json:"endDate"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (Employee) TableName() string {
	return "employees"
}
