package ingest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
	"github.com/johnquangdev/meeting-intelligence/internal/domain/repositories"
	"github.com/johnquangdev/meeting-intelligence/internal/usecase/audit"
	"github.com/johnquangdev/meeting-intelligence/internal/usecase/resolution"
	"github.com/johnquangdev/meeting-intelligence/internal/usecase/suggestion"
	"github.com/johnquangdev/meeting-intelligence/pkg/jobcontext"
)

// Pipeline thresholds on the best resolver confidence
const (
	LinkThreshold  = 90 // link directly
	StageThreshold = 50 // stage for review; below this a pending record is created

	companyLinkConfidence = 60
	jobType               = "ingest"
)

// UploadRequest is one meeting artifact submitted for ingestion
type UploadRequest struct {
	Content          string
	InputKind        entities.InputKind
	TitleHint        string
	DateHint         string
	ParticipantHints []string
	ActorID          string
}

// UploadResult reports the outcome. User-correctable failures come back with
// Success false and a Reason; Err carries the sentinel for transport mapping.
type UploadResult struct {
	Success  bool       `json:"success"`
	RecordID *uuid.UUID `json:"record_id,omitempty"`
	Reason   string     `json:"reason,omitempty"`
	Degraded bool       `json:"degraded"`
	JobID    uuid.UUID  `json:"job_id"`
	Linked   int        `json:"linked"`
	Staged   int        `json:"staged"`
	Created  int        `json:"created"`

	Err        error         `json:"-"`
	RetryAfter time.Duration `json:"-"`
}

// Limiter gates how often an actor may ingest
type Limiter interface {
	Allow(ctx context.Context, actorID string) (bool, time.Duration, error)
}

// Service runs uploads through normalization, extraction and resolution
type Service interface {
	// ProcessUpload returns an error only for internal failures
	ProcessUpload(ctx context.Context, req UploadRequest) (UploadResult, error)
	GetJob(ctx context.Context, id uuid.UUID) (*entities.IngestionJob, error)
}

// Deps are the collaborators of the ingest service
type Deps struct {
	Tx          repositories.TxManager
	Contacts    repositories.ContactRepository
	Companies   repositories.CompanyRepository
	Aliases     repositories.AliasRepository
	Meetings    repositories.MeetingRepository
	Jobs        repositories.IngestionJobRepository
	Normalizer  *Normalizer
	Extractor   *Extractor
	Suggestions suggestion.Service
	Audit       *audit.Logger
	Limiter     Limiter
	Timeout     time.Duration
	Logger      *zap.Logger
}

type ingestService struct {
	Deps
	now func() time.Time
}

// NewService creates the ingest service
func NewService(deps Deps) Service {
	return &ingestService{Deps: deps, now: func() time.Time { return time.Now().UTC() }}
}

// GetJob implements Service
func (s *ingestService) GetJob(ctx context.Context, id uuid.UUID) (*entities.IngestionJob, error) {
	return s.Jobs.FindByID(ctx, id)
}

// ProcessUpload implements Service
func (s *ingestService) ProcessUpload(ctx context.Context, req UploadRequest) (UploadResult, error) {
	if !req.InputKind.IsValid() {
		err := fmt.Errorf("%w: unknown input kind %q", entities.ErrInvalidRequest, req.InputKind)
		return rejected(err), nil
	}
	if tooShort(req.Content) {
		return rejected(entities.ErrInputTooShort), nil
	}

	if s.Limiter != nil {
		ok, retryAfter, err := s.Limiter.Allow(ctx, req.ActorID)
		if err != nil {
			return UploadResult{}, err
		}
		if !ok {
			res := rejected(entities.ErrRateLimited)
			res.RetryAfter = retryAfter
			return res, nil
		}
	}

	job := entities.NewIngestionJob(req.ActorID, req.InputKind)
	if err := s.Jobs.Create(ctx, job); err != nil {
		return UploadResult{}, fmt.Errorf("failed to create ingestion job: %w", err)
	}

	jobCtx, cancel := jobcontext.JobBegin(ctx, job.ID, jobType, req.ActorID, s.Timeout)
	defer cancel()

	var res UploadResult
	err := jobcontext.JobEnd(jobCtx, func(ctx context.Context) error {
		var err error
		res, err = s.run(ctx, job, req)
		return err
	})
	res.JobID = job.ID

	switch {
	case err != nil:
		job.MarkAsFailed(err.Error())
		s.saveJob(ctx, job)
		if s.Logger != nil {
			s.Logger.Error("❌ Ingestion failed",
				zap.String("job_id", job.ID.String()),
				zap.Error(err),
			)
		}
		return res, err
	case !res.Success:
		job.MarkAsFailed(res.Reason)
		s.saveJob(ctx, job)
		return res, nil
	}

	job.MarkAsCompleted(*res.RecordID)
	s.saveJob(ctx, job)

	if s.Logger != nil {
		s.Logger.Info("✅ Meeting ingested",
			zap.String("job_id", job.ID.String()),
			zap.String("record_id", res.RecordID.String()),
			zap.Bool("degraded", res.Degraded),
			zap.Int("linked", res.Linked),
			zap.Int("staged", res.Staged),
			zap.Int("created", res.Created),
		)
	}
	return res, nil
}

// run is the job body. User-correctable failures are returned in the result.
func (s *ingestService) run(ctx context.Context, job *entities.IngestionJob, req UploadRequest) (UploadResult, error) {
	hints := Hints{Title: req.TitleHint, Date: req.DateHint, Participants: req.ParticipantHints}
	submitted := s.now()

	if req.InputKind == entities.InputKindAudioRef {
		job.MarkAsTranscribing(strings.TrimSpace(req.Content))
		s.saveJob(ctx, job)
	}

	normalized, err := s.Normalizer.Normalize(ctx, entities.RawInput{
		Content:      req.Content,
		Kind:         req.InputKind,
		Title:        req.TitleHint,
		Date:         req.DateHint,
		Participants: req.ParticipantHints,
	})
	if err != nil {
		if isUserError(err) {
			return rejected(err), nil
		}
		return UploadResult{}, fmt.Errorf("failed to normalize input: %w", err)
	}

	var (
		record   entities.IntelligenceRecord
		degraded bool
	)
	if normalized.Record != nil {
		record = Finalize(*normalized.Record, hints, submitted)
	} else {
		job.MarkAsExtracting()
		s.saveJob(ctx, job)

		result := s.Extractor.Extract(ctx, normalized.Transcript, hints)
		record = result.Intelligence()
		degraded = result.Degraded()
	}

	job.MarkAsResolving(degraded)
	s.saveJob(ctx, job)

	res := UploadResult{Degraded: degraded}
	meeting := entities.NewMeetingRecord(record, normalized.Transcript, req.InputKind, degraded, req.ActorID)
	if err := s.persist(ctx, meeting, record, &res); err != nil {
		return UploadResult{}, err
	}

	res.Success = true
	res.RecordID = &meeting.ID
	s.recordIngested(ctx, req.ActorID, meeting, &res)
	return res, nil
}

// persist stores the meeting and resolves its people and organizations in one transaction
func (s *ingestService) persist(ctx context.Context, meeting *entities.MeetingRecord, record entities.IntelligenceRecord, res *UploadResult) error {
	contactCorpus, err := resolution.LoadContactCandidates(ctx, s.Contacts, s.Aliases)
	if err != nil {
		return fmt.Errorf("failed to load contacts: %w", err)
	}
	companyCorpus, err := resolution.LoadCompanyCandidates(ctx, s.Companies, s.Aliases)
	if err != nil {
		return fmt.Errorf("failed to load companies: %w", err)
	}

	return s.Tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.Meetings.Create(ctx, meeting); err != nil {
			return fmt.Errorf("failed to create meeting: %w", err)
		}

		r := &recordResolver{
			service:   s,
			meetingID: meeting.ID,
			contacts:  contactCorpus,
			companies: companyCorpus,
			orgIDs:    map[string]uuid.UUID{},
			people:    map[string]uuid.UUID{},
			res:       res,
		}
		if err := r.resolveOrganizations(ctx, record.Organizations); err != nil {
			return err
		}
		if err := r.resolveParticipants(ctx, record.Participants, record.Organizations); err != nil {
			return err
		}
		return r.saveActionItems(ctx, record.ActionItems)
	})
}

// recordResolver carries the per-record resolution state inside the transaction
type recordResolver struct {
	service   *ingestService
	meetingID uuid.UUID
	contacts  []resolution.Candidate
	companies []resolution.CompanyCandidate
	orgIDs    map[string]uuid.UUID // lower(org) -> company linked to the meeting
	people    map[string]uuid.UUID // lower(name) -> contact linked to the meeting
	res       *UploadResult
}

func (r *recordResolver) resolveOrganizations(ctx context.Context, orgs []string) error {
	s := r.service
	for _, org := range orgs {
		best, ok := resolution.Best(resolution.ResolveCompany(org, r.companies))
		switch {
		case ok && best.Confidence >= LinkThreshold:
			if err := s.Meetings.LinkCompany(ctx, r.meetingID, best.ID); err != nil {
				return fmt.Errorf("failed to link company: %w", err)
			}
			r.orgIDs[strings.ToLower(org)] = best.ID
			r.res.Linked++

		case ok && best.Confidence >= StageThreshold:
			staged, err := s.Suggestions.Stage(ctx, suggestion.StageRequest{
				Type:            entities.SuggestionCompanyEnrichment,
				TargetType:      entities.OwnerCompany,
				TargetID:        best.ID,
				SuggestedData:   map[string]interface{}{"name": org},
				Reason:          fmt.Sprintf("Organization %q mentioned in a meeting resembles %q (%s)", org, best.Name, best.Tier),
				Confidence:      best.Confidence,
				SourceMeetingID: &r.meetingID,
			})
			if err != nil {
				return fmt.Errorf("failed to stage company suggestion: %w", err)
			}
			if staged != nil {
				r.res.Staged++
			}

		default:
			company := entities.NewPendingCompany(org)
			if err := s.Companies.Create(ctx, company); err != nil {
				return fmt.Errorf("failed to create company: %w", err)
			}
			if err := s.Meetings.LinkCompany(ctx, r.meetingID, company.ID); err != nil {
				return fmt.Errorf("failed to link company: %w", err)
			}
			r.companies = append(r.companies, resolution.CompanyCandidateOf(company))
			r.orgIDs[strings.ToLower(org)] = company.ID
			r.res.Created++
		}
	}
	return nil
}

func (r *recordResolver) resolveParticipants(ctx context.Context, names, orgs []string) error {
	s := r.service

	// a single organization is taken to be everyone's
	var knownOrg string
	var knownCompany *uuid.UUID
	if len(orgs) == 1 {
		knownOrg = orgs[0]
		if id, ok := r.orgIDs[strings.ToLower(knownOrg)]; ok {
			knownCompany = &id
		}
	}

	for _, name := range names {
		best, ok := resolution.Best(resolution.ResolveName(name, knownOrg, r.contacts))
		switch {
		case ok && best.Confidence >= LinkThreshold:
			if err := s.Meetings.LinkContact(ctx, r.meetingID, best.ID); err != nil {
				return fmt.Errorf("failed to link contact: %w", err)
			}
			if _, err := s.Contacts.FillEmpty(ctx, best.ID, "organization", knownOrg); err != nil {
				return fmt.Errorf("failed to fill organization: %w", err)
			}
			r.people[strings.ToLower(name)] = best.ID
			r.res.Linked++

			if knownCompany != nil && r.companyOf(best.ID) == nil {
				if err := r.stageCompanyLink(ctx, best.ID, name, knownOrg, *knownCompany); err != nil {
					return err
				}
			}

		case ok && best.Confidence >= StageThreshold:
			data := map[string]interface{}{"name": name}
			if knownOrg != "" {
				data["organization"] = knownOrg
			}
			staged, err := s.Suggestions.Stage(ctx, suggestion.StageRequest{
				Type:            entities.SuggestionEnrichment,
				TargetType:      entities.OwnerContact,
				TargetID:        best.ID,
				SuggestedData:   data,
				Reason:          fmt.Sprintf("Participant %q resembles %q (%s)", name, best.Name, best.Tier),
				Confidence:      best.Confidence,
				SourceMeetingID: &r.meetingID,
			})
			if err != nil {
				return fmt.Errorf("failed to stage contact suggestion: %w", err)
			}
			if staged != nil {
				r.res.Staged++
			}

		default:
			contact := entities.NewPendingContact(name, knownOrg)
			contact.CompanyID = knownCompany
			if err := s.Contacts.Create(ctx, contact); err != nil {
				return fmt.Errorf("failed to create contact: %w", err)
			}
			if err := s.Meetings.LinkContact(ctx, r.meetingID, contact.ID); err != nil {
				return fmt.Errorf("failed to link contact: %w", err)
			}
			r.contacts = append(r.contacts, resolution.ContactCandidate(contact))
			r.people[strings.ToLower(name)] = contact.ID
			r.res.Created++
		}
	}
	return nil
}

func (r *recordResolver) stageCompanyLink(ctx context.Context, contactID uuid.UUID, name, org string, companyID uuid.UUID) error {
	staged, err := r.service.Suggestions.Stage(ctx, suggestion.StageRequest{
		Type:               entities.SuggestionCompanyLink,
		TargetType:         entities.OwnerContact,
		TargetID:           contactID,
		SuggestedCompanyID: &companyID,
		SuggestedData:      map[string]interface{}{"organization": org},
		Reason:             fmt.Sprintf("%s attended a meeting with %s as the only organization", name, org),
		Confidence:         companyLinkConfidence,
		SourceMeetingID:    &r.meetingID,
	})
	if err != nil {
		return fmt.Errorf("failed to stage company link: %w", err)
	}
	if staged != nil {
		r.res.Staged++
	}
	return nil
}

// companyOf returns the company of a corpus contact
func (r *recordResolver) companyOf(id uuid.UUID) *uuid.UUID {
	for i := range r.contacts {
		if r.contacts[i].ID == id {
			return r.contacts[i].CompanyID
		}
	}
	return nil
}

// saveActionItems stores the items, matching assignees to the meeting's contacts by exact name
func (r *recordResolver) saveActionItems(ctx context.Context, items []entities.ActionItem) error {
	rows := make([]*entities.MeetingActionItem, 0, len(items))
	for _, item := range items {
		row := entities.NewMeetingActionItem(r.meetingID, item)
		if id, ok := r.people[strings.ToLower(strings.TrimSpace(item.Assignee))]; ok {
			row.AssigneeContactID = &id
		}
		rows = append(rows, row)
	}
	if err := r.service.Meetings.SaveActionItems(ctx, rows); err != nil {
		return fmt.Errorf("failed to save action items: %w", err)
	}
	return nil
}

func (s *ingestService) recordIngested(ctx context.Context, actor string, meeting *entities.MeetingRecord, res *UploadResult) {
	entry := entities.NewAuditEntry(entities.AuditRecordIngested, actor, "meeting", meeting.ID.String())
	entry.Details["source_kind"] = string(meeting.SourceKind)
	entry.Details["degraded"] = res.Degraded
	entry.Details["linked"] = res.Linked
	entry.Details["staged"] = res.Staged
	entry.Details["created"] = res.Created
	s.Audit.Record(ctx, entry)
}

func (s *ingestService) saveJob(ctx context.Context, job *entities.IngestionJob) {
	// the job row must reach its final state even when the request was cancelled
	if err := s.Jobs.Update(context.WithoutCancel(ctx), job); err != nil && s.Logger != nil {
		s.Logger.Warn("⚠️ Failed to update ingestion job",
			zap.String("job_id", job.ID.String()),
			zap.String("status", string(job.Status)),
			zap.Error(err),
		)
	}
}

func isUserError(err error) bool {
	return errors.Is(err, entities.ErrInputTooShort) ||
		errors.Is(err, entities.ErrTranscriptionFailed) ||
		errors.Is(err, entities.ErrInvalidRequest)
}

func rejected(err error) UploadResult {
	return UploadResult{Success: false, Reason: err.Error(), Err: err}
}
