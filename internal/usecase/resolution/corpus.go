package resolution

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
	"github.com/johnquangdev/meeting-intelligence/internal/domain/repositories"
)

// CorpusLoader reads the current contact corpus
type CorpusLoader func(ctx context.Context) ([]Candidate, error)

// ContactCorpus loads every contact together with its aliases
func ContactCorpus(contacts repositories.ContactRepository, aliases repositories.AliasRepository) CorpusLoader {
	return func(ctx context.Context) ([]Candidate, error) {
		return LoadContactCandidates(ctx, contacts, aliases)
	}
}

// LoadContactCandidates builds resolver candidates from contacts and their aliases.
// Aliases of deleted contacts are ignored.
func LoadContactCandidates(ctx context.Context, contacts repositories.ContactRepository, aliases repositories.AliasRepository) ([]Candidate, error) {
	list, err := contacts.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	aliasList, err := aliases.ListByOwnerType(ctx, entities.OwnerContact)
	if err != nil {
		return nil, fmt.Errorf("failed to list contact aliases: %w", err)
	}

	index := make(map[uuid.UUID]int, len(list))
	out := make([]Candidate, 0, len(list))
	for _, c := range list {
		index[c.ID] = len(out)
		out = append(out, ContactCandidate(c))
	}
	for _, a := range aliasList {
		i, ok := index[a.OwnerID]
		if !ok {
			continue
		}
		out[i].AliasNames = append(out[i].AliasNames, a.AliasName)
		if a.AliasEmail != "" {
			out[i].AliasEmails = append(out[i].AliasEmails, a.AliasEmail)
		}
	}
	return out, nil
}

// LoadCompanyCandidates builds company candidates with their alias names
func LoadCompanyCandidates(ctx context.Context, companies repositories.CompanyRepository, aliases repositories.AliasRepository) ([]CompanyCandidate, error) {
	list, err := companies.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	aliasList, err := aliases.ListByOwnerType(ctx, entities.OwnerCompany)
	if err != nil {
		return nil, fmt.Errorf("failed to list company aliases: %w", err)
	}

	index := make(map[uuid.UUID]int, len(list))
	out := make([]CompanyCandidate, 0, len(list))
	for _, c := range list {
		index[c.ID] = len(out)
		out = append(out, CompanyCandidateOf(c))
	}
	for _, a := range aliasList {
		if i, ok := index[a.OwnerID]; ok {
			out[i].AliasNames = append(out[i].AliasNames, a.AliasName)
		}
	}
	return out, nil
}

// ContactCandidate converts a contact without aliases
func ContactCandidate(c *entities.Contact) Candidate {
	return Candidate{
		ID:           c.ID,
		Name:         c.Name,
		Email:        c.Email,
		Organization: c.Organization,
		CompanyID:    c.CompanyID,
	}
}

// CompanyCandidateOf converts a company without aliases
func CompanyCandidateOf(c *entities.Company) CompanyCandidate {
	return CompanyCandidate{ID: c.ID, Name: c.Name, Domain: c.Domain}
}
