package entities

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ApprovalStatus is the review state of an automatically created record
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// Contact is a person in the relationship graph
type Contact struct {
	ID             uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	Name           string         `json:"name" gorm:"type:varchar(255);not null;index"`
	Email          string         `json:"email" gorm:"type:varchar(255);index"`
	Phone          string         `json:"phone" gorm:"type:varchar(50)"`
	Organization   string         `json:"organization" gorm:"type:varchar(255)"`
	Title          string         `json:"title" gorm:"type:varchar(255)"`
	Category       string         `json:"category" gorm:"type:varchar(100)"`
	ApprovalStatus ApprovalStatus `json:"approval_status" gorm:"type:varchar(20);not null;index"`
	Starred        bool           `json:"starred" gorm:"not null"`
	CompanyID      *uuid.UUID     `json:"company_id,omitempty" gorm:"type:uuid;index"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Contact) TableName() string {
	return "contacts"
}

// NewContact creates an approved contact
func NewContact(name, email, organization string) *Contact {
	return &Contact{
		ID:             uuid.New(),
		Name:           strings.TrimSpace(name),
		Email:          strings.TrimSpace(email),
		Organization:   strings.TrimSpace(organization),
		ApprovalStatus: ApprovalApproved,
	}
}

// NewPendingContact creates a contact discovered by ingestion, awaiting review
func NewPendingContact(name, organization string) *Contact {
	c := NewContact(name, "", organization)
	c.ApprovalStatus = ApprovalPending
	return c
}

// ContactFillable lists the optional contact columns automated writes may fill
var ContactFillable = []string{"email", "phone", "organization", "title", "category"}

// FieldValue returns the string value of a fillable column
func (c *Contact) FieldValue(column string) string {
	switch column {
	case "email":
		return c.Email
	case "phone":
		return c.Phone
	case "organization":
		return c.Organization
	case "title":
		return c.Title
	case "category":
		return c.Category
	case "name":
		return c.Name
	}
	return ""
}
