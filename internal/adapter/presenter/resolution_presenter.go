package presenter

import (
	reviewDTO "github.com/johnquangdev/meeting-intelligence/internal/adapter/dto/review"
	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
	"github.com/johnquangdev/meeting-intelligence/internal/usecase/resolution"
)

// ToMatchResponses converts ranked resolver matches, keeping their order
func ToMatchResponses(matches []resolution.RankedMatch) []reviewDTO.MatchResponse {
	out := make([]reviewDTO.MatchResponse, 0, len(matches))
	for _, m := range matches {
		out = append(out, reviewDTO.MatchResponse{
			ID:         m.ID.String(),
			Name:       m.Name,
			Confidence: m.Confidence,
			Tier:       string(m.Tier),
			OrgBonus:   m.OrgBonus,
		})
	}
	return out
}

// ToAliasResponse converts an alias; created is false when it already existed
func ToAliasResponse(a *entities.Alias, created bool) *reviewDTO.AliasResponse {
	if a == nil {
		return nil
	}
	return &reviewDTO.AliasResponse{
		ID:        a.ID.String(),
		OwnerType: string(a.OwnerType),
		OwnerID:   a.OwnerID.String(),
		Name:      a.AliasName,
		Email:     a.AliasEmail,
		Source:    string(a.Source),
		Created:   created,
		CreatedAt: a.CreatedAt,
	}
}
