package merge

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-intelligence/internal/adapter/repository"
	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
	"github.com/johnquangdev/meeting-intelligence/internal/infrastructure/database"
	"github.com/johnquangdev/meeting-intelligence/internal/usecase/audit"
)

func newEngine(t *testing.T) (*Engine, *repository.Set) {
	t.Helper()
	db, err := database.NewInMemoryDB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.CloseDB(db) })

	repos := repository.NewSet(db)
	logger := zap.NewNop()
	engine := NewEngine(repos.Contacts, repos.Companies, repos.Aliases, repos.Suggestions, repos.Meetings,
		audit.NewLogger(repos.Audit, logger), logger)
	return engine, repos
}

func createContact(t *testing.T, repos *repository.Set, name, email, org string) *entities.Contact {
	t.Helper()
	c := entities.NewContact(name, email, org)
	require.NoError(t, repos.Contacts.Create(context.Background(), c))
	return c
}

func createMeeting(t *testing.T, repos *repository.Set) *entities.MeetingRecord {
	t.Helper()
	m := entities.NewMeetingRecord(entities.IntelligenceRecord{Title: "Sync", Summary: "s"}, "", entities.InputKindText, false, "")
	require.NoError(t, repos.Meetings.Create(context.Background(), m))
	return m
}

func TestMergeContactsFillsAndAliases(t *testing.T) {
	engine, repos := newEngine(t)
	ctx := context.Background()
	keep := createContact(t, repos, "Jake Ryan", "", "Acme")
	lose := createContact(t, repos, "J. Ryan", "a@b.com", "Globex")

	res, err := engine.MergeContacts(ctx, keep.ID, lose.ID, "analyst")
	require.NoError(t, err)
	assert.Equal(t, []string{"email"}, res.FilledFields)
	assert.True(t, res.AliasCreated)
	assert.Empty(t, res.Warnings)

	got, err := repos.Contacts.FindByID(ctx, keep.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", got.Email)
	assert.Equal(t, "Acme", got.Organization)

	aliases, err := repos.Aliases.FindByOwner(ctx, entities.OwnerContact, keep.ID)
	require.NoError(t, err)
	require.Len(t, aliases, 1)
	assert.Equal(t, "J. Ryan", aliases[0].AliasName)
	assert.Equal(t, entities.AliasSourceMerge, aliases[0].Source)

	_, err = repos.Contacts.FindByID(ctx, lose.ID)
	assert.ErrorIs(t, err, entities.ErrNotFound)

	// re-running is NotFound and writes no second alias
	_, err = engine.MergeContacts(ctx, keep.ID, lose.ID, "analyst")
	assert.ErrorIs(t, err, entities.ErrNotFound)
	aliases, err = repos.Aliases.FindByOwner(ctx, entities.OwnerContact, keep.ID)
	require.NoError(t, err)
	assert.Len(t, aliases, 1)

	history, err := repos.Audit.FindByEntity(ctx, "contact", keep.ID.String())
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, entities.AuditContactMerged, history[0].Action)
	assert.Equal(t, lose.ID.String(), history[0].RelatedID)
}

func TestMergeContactsTransfersLinks(t *testing.T) {
	engine, repos := newEngine(t)
	ctx := context.Background()
	keep := createContact(t, repos, "Jake Ryan", "", "")
	lose := createContact(t, repos, "Jake Ryan", "", "")

	shared := createMeeting(t, repos)
	onlyLoser := createMeeting(t, repos)
	require.NoError(t, repos.Meetings.LinkContact(ctx, shared.ID, keep.ID))
	require.NoError(t, repos.Meetings.LinkContact(ctx, shared.ID, lose.ID))
	require.NoError(t, repos.Meetings.LinkContact(ctx, onlyLoser.ID, lose.ID))

	item := entities.NewMeetingActionItem(onlyLoser.ID, entities.ActionItem{Title: "Send deck", Assignee: "Jake Ryan", Priority: entities.PriorityHigh})
	item.AssigneeContactID = &lose.ID
	require.NoError(t, repos.Meetings.SaveActionItems(ctx, []*entities.MeetingActionItem{item}))

	res, err := engine.MergeContacts(ctx, keep.ID, lose.ID, "")
	require.NoError(t, err)
	assert.EqualValues(t, 1, res.LinksMoved)
	assert.EqualValues(t, 1, res.ActionItemsMoved)
	assert.False(t, res.AliasCreated)

	for _, m := range []uuid.UUID{shared.ID, onlyLoser.ID} {
		ids, err := repos.Meetings.FindContactIDs(ctx, m)
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{keep.ID}, ids)
	}

	items, err := repos.Meetings.FindActionItems(ctx, onlyLoser.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, keep.ID, *items[0].AssigneeContactID)
}

func TestMergeContactsMovesSuggestions(t *testing.T) {
	engine, repos := newEngine(t)
	ctx := context.Background()
	keep := createContact(t, repos, "Jake Ryan", "", "")
	lose := createContact(t, repos, "Jacob Ryan", "", "")

	stage := func(target uuid.UUID, typ entities.SuggestionType) *entities.PendingSuggestion {
		company := entities.NewCompany("Acme", "")
		require.NoError(t, repos.Companies.Create(ctx, company))
		s := &entities.PendingSuggestion{
			ID:                 uuid.New(),
			Type:               typ,
			TargetContactID:    &target,
			SuggestedCompanyID: &company.ID,
			TargetKey:          entities.TargetKey(entities.OwnerContact, target),
			Confidence:         60,
			Status:             entities.SuggestionPending,
		}
		ok, err := repos.Suggestions.CreateIfAbsent(ctx, s)
		require.NoError(t, err)
		require.True(t, ok)
		return s
	}
	moved := stage(lose.ID, entities.SuggestionEnrichment)
	stage(keep.ID, entities.SuggestionCompanyLink)
	superseded := stage(lose.ID, entities.SuggestionCompanyLink)

	res, err := engine.MergeContacts(ctx, keep.ID, lose.ID, "analyst")
	require.NoError(t, err)
	assert.Equal(t, 1, res.SuggestionsMoved)

	got, err := repos.Suggestions.FindByID(ctx, moved.ID)
	require.NoError(t, err)
	assert.Equal(t, keep.ID, *got.TargetContactID)
	assert.True(t, got.IsPending())

	got, err = repos.Suggestions.FindByID(ctx, superseded.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.SuggestionRejected, got.Status)
}

func TestMergeContactsCarriesLoserAliases(t *testing.T) {
	engine, repos := newEngine(t)
	ctx := context.Background()
	keep := createContact(t, repos, "Jake Ryan", "", "")
	lose := createContact(t, repos, "Jacob Ryan", "", "")
	_, err := repos.Aliases.Add(ctx, entities.NewAlias(entities.OwnerContact, lose.ID, "Jakey", "", entities.AliasSourceManual, "u1"))
	require.NoError(t, err)

	_, err = engine.MergeContacts(ctx, keep.ID, lose.ID, "u1")
	require.NoError(t, err)

	aliases, err := repos.Aliases.FindByOwner(ctx, entities.OwnerContact, keep.ID)
	require.NoError(t, err)
	names := []string{}
	for _, a := range aliases {
		names = append(names, a.AliasName)
	}
	assert.ElementsMatch(t, []string{"Jacob Ryan", "Jakey"}, names)
}

func TestMergeInvalid(t *testing.T) {
	engine, repos := newEngine(t)
	ctx := context.Background()
	c := createContact(t, repos, "Jake Ryan", "", "")

	_, err := engine.MergeContacts(ctx, c.ID, c.ID, "")
	assert.ErrorIs(t, err, entities.ErrInvalidMerge)

	_, err = engine.MergeContacts(ctx, uuid.New(), c.ID, "")
	assert.ErrorIs(t, err, entities.ErrNotFound)

	_, err = engine.MergeCompanies(ctx, uuid.New(), uuid.New(), "")
	assert.ErrorIs(t, err, entities.ErrNotFound)
}

func TestMergeCompanies(t *testing.T) {
	engine, repos := newEngine(t)
	ctx := context.Background()
	keep := entities.NewCompany("Acme Corp", "")
	lose := entities.NewCompany("ACME Inc", "acme.com")
	require.NoError(t, repos.Companies.Create(ctx, keep))
	require.NoError(t, repos.Companies.Create(ctx, lose))

	employee := createContact(t, repos, "Jake Ryan", "", "")
	_, err := repos.Contacts.FillCompany(ctx, employee.ID, lose.ID)
	require.NoError(t, err)

	m := createMeeting(t, repos)
	require.NoError(t, repos.Meetings.LinkCompany(ctx, m.ID, lose.ID))

	res, err := engine.MergeCompanies(ctx, keep.ID, lose.ID, "analyst")
	require.NoError(t, err)
	assert.Equal(t, []string{"domain"}, res.FilledFields)
	assert.EqualValues(t, 1, res.ContactsRepointed)
	assert.True(t, res.AliasCreated)

	got, err := repos.Contacts.FindByID(ctx, employee.ID)
	require.NoError(t, err)
	assert.Equal(t, keep.ID, *got.CompanyID)

	ids, err := repos.Meetings.FindCompanyIDs(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{keep.ID}, ids)

	company, err := repos.Companies.FindByID(ctx, keep.ID)
	require.NoError(t, err)
	assert.Equal(t, "acme.com", company.Domain)

	_, err = engine.MergeCompanies(ctx, keep.ID, lose.ID, "analyst")
	assert.ErrorIs(t, err, entities.ErrNotFound)
}

func TestAddAlias(t *testing.T) {
	engine, repos := newEngine(t)
	ctx := context.Background()
	c := createContact(t, repos, "Jake Ryan", "", "")

	alias, created, err := engine.AddAlias(ctx, entities.OwnerContact, c.ID, "Jakey", "jr@old.io", "u1")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, entities.AliasSourceManual, alias.Source)

	_, created, err = engine.AddAlias(ctx, entities.OwnerContact, c.ID, "jakey", "JR@old.io", "u1")
	require.NoError(t, err)
	assert.False(t, created)

	_, _, err = engine.AddAlias(ctx, entities.OwnerCompany, c.ID, "Jakey", "", "u1")
	assert.ErrorIs(t, err, entities.ErrNotFound)

	_, _, err = engine.AddAlias(ctx, entities.OwnerContact, c.ID, " ", "", "u1")
	assert.ErrorIs(t, err, entities.ErrInvalidRequest)

	history, err := repos.Audit.FindByEntity(ctx, "contact", c.ID.String())
	require.NoError(t, err)
	assert.Len(t, history, 1)
}
