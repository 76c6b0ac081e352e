package entities

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Company is an organization in the relationship graph
type Company struct {
	ID             uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	Name           string         `json:"name" gorm:"type:varchar(255);not null;index"`
	Domain         string         `json:"domain" gorm:"type:varchar(255)"`
	Industry       string         `json:"industry" gorm:"type:varchar(255)"`
	ApprovalStatus ApprovalStatus `json:"approval_status" gorm:"type:varchar(20);not null;index"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Company) TableName() string {
	return "companies"
}

// NewCompany creates an approved company
func NewCompany(name, domain string) *Company {
	return &Company{
		ID:             uuid.New(),
		Name:           strings.TrimSpace(name),
		Domain:         strings.ToLower(strings.TrimSpace(domain)),
		ApprovalStatus: ApprovalApproved,
	}
}

// NewPendingCompany creates a company discovered by ingestion, awaiting review
func NewPendingCompany(name string) *Company {
	c := NewCompany(name, "")
	c.ApprovalStatus = ApprovalPending
	return c
}

// CompanyFillable lists the optional company columns automated writes may fill
var CompanyFillable = []string{"domain", "industry"}

// FieldValue returns the string value of a fillable column
func (c *Company) FieldValue(column string) string {
	switch column {
	case "domain":
		return c.Domain
	case "industry":
		return c.Industry
	case "name":
		return c.Name
	}
	return ""
}
