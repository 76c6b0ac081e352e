package repository

import (
	"gorm.io/gorm"

	"github.com/johnquangdev/meeting-intelligence/internal/domain/repositories"
)

// Set bundles every repository over one database handle
type Set struct {
	Tx          repositories.TxManager
	Contacts    repositories.ContactRepository
	Companies   repositories.CompanyRepository
	Aliases     repositories.AliasRepository
	Suggestions repositories.SuggestionRepository
	Meetings    repositories.MeetingRepository
	Jobs        repositories.IngestionJobRepository
	Audit       repositories.AuditRepository
}

// NewSet creates all repositories for db
func NewSet(db *gorm.DB) *Set {
	return &Set{
		Tx:          NewTxManager(db),
		Contacts:    NewContactRepository(db),
		Companies:   NewCompanyRepository(db),
		Aliases:     NewAliasRepository(db),
		Suggestions: NewSuggestionRepository(db),
		Meetings:    NewMeetingRepository(db),
		Jobs:        NewIngestionJobRepository(db),
		Audit:       NewAuditRepository(db),
	}
}
