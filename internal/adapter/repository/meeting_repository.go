package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
	"github.com/johnquangdev/meeting-intelligence/internal/domain/repositories"
)

type meetingRepository struct {
	db *gorm.DB
}

// NewMeetingRepository creates a new meeting repository
func NewMeetingRepository(db *gorm.DB) repositories.MeetingRepository {
	return &meetingRepository{db: db}
}

// Create creates a new meeting record
func (r *meetingRepository) Create(ctx context.Context, meeting *entities.MeetingRecord) error {
	if meeting == nil {
		return errors.New("meeting cannot be nil")
	}
	return conn(ctx, r.db).Create(meeting).Error
}

// FindByID retrieves a meeting by ID
func (r *meetingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.MeetingRecord, error) {
	var meeting entities.MeetingRecord
	if err := conn(ctx, r.db).Where("id = ?", id).First(&meeting).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("meeting %s: %w", id, entities.ErrNotFound)
		}
		return nil, err
	}
	return &meeting, nil
}

// SaveActionItems stores the action items of a meeting
func (r *meetingRepository) SaveActionItems(ctx context.Context, items []*entities.MeetingActionItem) error {
	if len(items) == 0 {
		return nil
	}
	return conn(ctx, r.db).Create(&items).Error
}

// FindActionItems retrieves the action items of a meeting
func (r *meetingRepository) FindActionItems(ctx context.Context, meetingID uuid.UUID) ([]*entities.MeetingActionItem, error) {
	var items []*entities.MeetingActionItem
	if err := conn(ctx, r.db).
		Where("meeting_id = ?", meetingID).
		Order("created_at ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// LinkContact records a contact's participation
func (r *meetingRepository) LinkContact(ctx context.Context, meetingID, contactID uuid.UUID) error {
	link := entities.MeetingContact{MeetingID: meetingID, ContactID: contactID}
	return conn(ctx, r.db).Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error
}

// LinkCompany records a company's participation
func (r *meetingRepository) LinkCompany(ctx context.Context, meetingID, companyID uuid.UUID) error {
	link := entities.MeetingCompany{MeetingID: meetingID, CompanyID: companyID}
	return conn(ctx, r.db).Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error
}

// FindContactIDs retrieves the contacts linked to a meeting
func (r *meetingRepository) FindContactIDs(ctx context.Context, meetingID uuid.UUID) ([]uuid.UUID, error) {
	var links []entities.MeetingContact
	if err := conn(ctx, r.db).Where("meeting_id = ?", meetingID).Order("contact_id ASC").Find(&links).Error; err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(links))
	for _, l := range links {
		ids = append(ids, l.ContactID)
	}
	return ids, nil
}

// FindCompanyIDs retrieves the companies linked to a meeting
func (r *meetingRepository) FindCompanyIDs(ctx context.Context, meetingID uuid.UUID) ([]uuid.UUID, error) {
	var links []entities.MeetingCompany
	if err := conn(ctx, r.db).Where("meeting_id = ?", meetingID).Order("company_id ASC").Find(&links).Error; err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(links))
	for _, l := range links {
		ids = append(ids, l.CompanyID)
	}
	return ids, nil
}

// TransferContactLinks copies the loser's links to the survivor, then drops the loser's
func (r *meetingRepository) TransferContactLinks(ctx context.Context, fromContactID, toContactID uuid.UUID) (int64, error) {
	db := conn(ctx, r.db)
	var links []entities.MeetingContact
	if err := db.Where("contact_id = ?", fromContactID).Find(&links).Error; err != nil {
		return 0, err
	}

	var moved int64
	for _, l := range links {
		res := db.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&entities.MeetingContact{MeetingID: l.MeetingID, ContactID: toContactID})
		if res.Error != nil {
			return moved, res.Error
		}
		moved += res.RowsAffected
	}
	if err := db.Where("contact_id = ?", fromContactID).Delete(&entities.MeetingContact{}).Error; err != nil {
		return moved, err
	}
	return moved, nil
}

// TransferCompanyLinks copies the loser's links to the survivor, then drops the loser's
func (r *meetingRepository) TransferCompanyLinks(ctx context.Context, fromCompanyID, toCompanyID uuid.UUID) (int64, error) {
	db := conn(ctx, r.db)
	var links []entities.MeetingCompany
	if err := db.Where("company_id = ?", fromCompanyID).Find(&links).Error; err != nil {
		return 0, err
	}

	var moved int64
	for _, l := range links {
		res := db.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&entities.MeetingCompany{MeetingID: l.MeetingID, CompanyID: toCompanyID})
		if res.Error != nil {
			return moved, res.Error
		}
		moved += res.RowsAffected
	}
	if err := db.Where("company_id = ?", fromCompanyID).Delete(&entities.MeetingCompany{}).Error; err != nil {
		return moved, err
	}
	return moved, nil
}

// ReassignActionItems moves action items between assignee contacts
func (r *meetingRepository) ReassignActionItems(ctx context.Context, fromContactID, toContactID uuid.UUID) (int64, error) {
	res := conn(ctx, r.db).
		Model(&entities.MeetingActionItem{}).
		Where("assignee_contact_id = ?", fromContactID).
		Update("assignee_contact_id", toContactID)
	return res.RowsAffected, res.Error
}
