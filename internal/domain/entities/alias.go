package entities

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// OwnerType names the kind of record an alias or suggestion points at
type OwnerType string

const (
	OwnerContact OwnerType = "contact"
	OwnerCompany OwnerType = "company"
)

// IsValid checks if the owner type is known
func (o OwnerType) IsValid() bool {
	return o == OwnerContact || o == OwnerCompany
}

// AliasSource records how an alias came to exist
type AliasSource string

const (
	AliasSourceManual AliasSource = "manual"
	AliasSourceMerge  AliasSource = "merge"
)

// Alias maps an alternative name/email to a surviving record. Append-only.
type Alias struct {
	ID         uuid.UUID   `json:"id" gorm:"type:uuid;primaryKey"`
	OwnerType  OwnerType   `json:"owner_type" gorm:"type:varchar(20);not null;uniqueIndex:idx_alias_owner_key"`
	OwnerID    uuid.UUID   `json:"owner_id" gorm:"type:uuid;not null;uniqueIndex:idx_alias_owner_key"`
	AliasName  string      `json:"alias_name" gorm:"type:varchar(255);not null"`
	AliasEmail string      `json:"alias_email,omitempty" gorm:"type:varchar(255)"`
	AliasKey   string      `json:"-" gorm:"type:varchar(512);not null;uniqueIndex:idx_alias_owner_key"`
	Source     AliasSource `json:"source" gorm:"type:varchar(20);not null"`
	CreatedBy  string      `json:"created_by" gorm:"type:varchar(255)"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for GORM
func (Alias) TableName() string {
	return "aliases"
}

// NewAlias creates an alias for the given owner
func NewAlias(ownerType OwnerType, ownerID uuid.UUID, name, email string, source AliasSource, actor string) *Alias {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	return &Alias{
		ID:         uuid.New(),
		OwnerType:  ownerType,
		OwnerID:    ownerID,
		AliasName:  name,
		AliasEmail: email,
		AliasKey:   AliasKey(name, email),
		Source:     source,
		CreatedBy:  actor,
	}
}

// AliasKey is the dedupe key of an alias: lower(name)|lower(email)
func AliasKey(name, email string) string {
	return strings.ToLower(strings.TrimSpace(name)) + "|" + strings.ToLower(strings.TrimSpace(email))
}
