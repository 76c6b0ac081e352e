package resolution

import (
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// legalSuffixes are dropped from the end of company names before comparing
var legalSuffixes = map[string]bool{
	"inc":  true,
	"llc":  true,
	"ltd":  true,
	"corp": true,
	"co":   true,
	"gmbh": true,
	"plc":  true,
	"sa":   true,
}

// CompanyCandidate is an existing company with its alias names
type CompanyCandidate struct {
	ID         uuid.UUID
	Name       string
	Domain     string
	AliasNames []string
}

// ResolveCompany scores company candidates against an organization name
func ResolveCompany(name string, corpus []CompanyCandidate) []RankedMatch {
	query := normalizeOrg(name)
	if query == "" {
		return []RankedMatch{}
	}
	stripped := StripLegalSuffix(name)
	domain := guessDomain(stripped)

	matches := make([]RankedMatch, 0)
	for _, c := range corpus {
		confidence, tier := scoreCompany(query, stripped, domain, c)
		if confidence == 0 {
			continue
		}
		matches = append(matches, RankedMatch{ID: c.ID, Name: c.Name, Confidence: confidence, Tier: tier})
	}
	SortMatches(matches)
	return matches
}

func scoreCompany(query, stripped, domain string, c CompanyCandidate) (int, MatchTier) {
	names := append([]string{c.Name}, c.AliasNames...)

	for _, n := range names {
		if normalizeOrg(n) == query {
			return 95, TierExactName
		}
	}
	if stripped != "" {
		for _, n := range names {
			if StripLegalSuffix(n) == stripped {
				return 85, TierSuffixStripped
			}
		}
	}
	if domain != "" && normalizeDomain(c.Domain) == domain {
		return 80, TierDomain
	}
	for _, n := range names {
		if companySubstring(query, normalizeOrg(n)) {
			return 60, TierSubstring
		}
	}
	return 0, ""
}

// StripLegalSuffix lowercases a company name and removes trailing legal forms:
// "Acme, Inc." -> "acme"
func StripLegalSuffix(name string) string {
	tokens := strings.Fields(strings.ToLower(name))
	for i := range tokens {
		tokens[i] = strings.Trim(tokens[i], ".,")
	}
	for len(tokens) > 1 && (tokens[len(tokens)-1] == "" || legalSuffixes[tokens[len(tokens)-1]]) {
		tokens = tokens[:len(tokens)-1]
	}
	return strings.Join(tokens, " ")
}

// guessDomain turns "acme labs" into "acmelabs.com"
func guessDomain(stripped string) string {
	token := strings.ReplaceAll(stripped, " ", "")
	if token == "" {
		return ""
	}
	return token + ".com"
}

func normalizeDomain(domain string) string {
	d := strings.ToLower(strings.TrimSpace(domain))
	d = strings.TrimPrefix(d, "https://")
	d = strings.TrimPrefix(d, "http://")
	d = strings.TrimPrefix(d, "www.")
	return strings.TrimSuffix(d, "/")
}

func companySubstring(a, b string) bool {
	if a == b || utf8.RuneCountInString(a) <= 3 || utf8.RuneCountInString(b) <= 3 {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}
