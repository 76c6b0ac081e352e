package resolution

import (
	"bytes"
	"math"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Confidence floors
const (
	// FloorAnyPositive keeps every candidate that matched at all
	FloorAnyPositive = 1
	// FloorDuplicateScan drops weak pairs from duplicate scans
	FloorDuplicateScan = 50
)

// MatchTier names the rule that produced a match
type MatchTier string

const (
	TierEmail        MatchTier = "email match"
	TierExactName    MatchTier = "exact name"
	TierSortedTokens MatchTier = "sorted tokens"
	TierFirstNameOrg MatchTier = "first name + organization"
	TierSubstring    MatchTier = "substring"
	TierLastNameOrg  MatchTier = "last name + organization"
	TierFirstName    MatchTier = "first name"

	// company tiers
	TierSuffixStripped MatchTier = "name without legal suffix"
	TierDomain         MatchTier = "domain"
)

const (
	orgBonus      = 10
	maxConfidence = 99
)

// Query is the person being looked up
type Query struct {
	Name         string
	Email        string
	Organization string
}

// Candidate is an existing contact with the aliases recorded for it
type Candidate struct {
	ID           uuid.UUID
	Name         string
	Email        string
	Organization string
	CompanyID    *uuid.UUID
	AliasNames   []string
	AliasEmails  []string
}

// RankedMatch is one scored candidate
type RankedMatch struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Confidence int       `json:"confidence"`
	Tier       MatchTier `json:"tier"`
	OrgBonus   bool      `json:"org_bonus"`
}

// Resolve scores every candidate against q and returns those at or above
// floor, highest confidence first, ties broken by id ascending
func Resolve(q Query, corpus []Candidate, floor int) []RankedMatch {
	query := newPersonKey(q.Name, q.Email, q.Organization)

	matches := make([]RankedMatch, 0)
	for i := range corpus {
		m, ok := scoreCandidate(query, &corpus[i])
		if !ok || m.Confidence < floor {
			continue
		}
		matches = append(matches, m)
	}
	SortMatches(matches)
	return matches
}

// ResolveName is Resolve for a bare name with an optional known organization
func ResolveName(name, knownOrg string, corpus []Candidate) []RankedMatch {
	return Resolve(Query{Name: name, Organization: knownOrg}, corpus, FloorAnyPositive)
}

// Best returns the first match, if any
func Best(matches []RankedMatch) (RankedMatch, bool) {
	if len(matches) == 0 {
		return RankedMatch{}, false
	}
	return matches[0], true
}

// SortMatches orders by confidence desc, then id asc
func SortMatches(matches []RankedMatch) {
	slices.SortFunc(matches, func(a, b RankedMatch) int {
		if a.Confidence != b.Confidence {
			return b.Confidence - a.Confidence
		}
		return bytes.Compare(a.ID[:], b.ID[:])
	})
}

// personKey is a pre-normalized name/email/org triple
type personKey struct {
	name   string
	tokens []string
	email  string
	org    string
}

func newPersonKey(name, email, org string) personKey {
	tokens := nameTokens(name)
	return personKey{
		name:   strings.Join(tokens, " "),
		tokens: tokens,
		email:  normalizeEmail(email),
		org:    normalizeOrg(org),
	}
}

// variants returns the candidate's own name followed by its alias names
func (c *Candidate) variants() []personKey {
	out := make([]personKey, 0, 1+len(c.AliasNames))
	out = append(out, newPersonKey(c.Name, c.Email, c.Organization))
	for _, alias := range c.AliasNames {
		k := newPersonKey(alias, "", c.Organization)
		if k.name != "" {
			out = append(out, k)
		}
	}
	return out
}

func (c *Candidate) emails() []string {
	out := make([]string, 0, 1+len(c.AliasEmails))
	if e := normalizeEmail(c.Email); e != "" {
		out = append(out, e)
	}
	for _, e := range c.AliasEmails {
		if e = normalizeEmail(e); e != "" {
			out = append(out, e)
		}
	}
	return out
}

// scoreCandidate evaluates the tiers in order; the first tier that hits wins
func scoreCandidate(q personKey, c *Candidate) (RankedMatch, bool) {
	variants := c.variants()
	orgMatch := q.org != "" && q.org == variants[0].org

	confidence, tier, ok := matchTiers(q, c, variants, orgMatch)
	if !ok {
		return RankedMatch{}, false
	}

	m := RankedMatch{ID: c.ID, Name: c.Name, Confidence: confidence, Tier: tier}
	if orgMatch && tier != TierFirstNameOrg && tier != TierLastNameOrg {
		m.Confidence = min(m.Confidence+orgBonus, maxConfidence)
		m.OrgBonus = true
	}
	return m, true
}

func matchTiers(q personKey, c *Candidate, variants []personKey, orgMatch bool) (int, MatchTier, bool) {
	// 1. email
	if q.email != "" && slices.Contains(c.emails(), q.email) {
		own := variants[0]
		if q.name == "" || own.name == "" || firstToken(q.tokens) == firstToken(own.tokens) {
			return 95, TierEmail, true
		}
		return 90, TierEmail, true
	}

	if q.name == "" {
		return 0, "", false
	}

	// 2. exact full name
	for _, v := range variants {
		if v.name == q.name {
			if len(q.tokens) > 1 {
				return 95, TierExactName, true
			}
			return 90, TierExactName, true
		}
	}

	// 3. same tokens in a different order
	if len(q.tokens) > 1 {
		sortedQ := sortedTokens(q.tokens)
		for _, v := range variants {
			if len(v.tokens) == len(q.tokens) && slices.Equal(sortedTokens(v.tokens), sortedQ) {
				if len(q.tokens) >= 3 {
					return 85, TierSortedTokens, true
				}
				return 80, TierSortedTokens, true
			}
		}
	}

	// 4. first token + organization
	if orgMatch {
		for _, v := range variants {
			if firstToken(v.tokens) == firstToken(q.tokens) {
				if len(v.tokens) > 1 && len(q.tokens) > 1 {
					return 75, TierFirstNameOrg, true
				}
				return 70, TierFirstNameOrg, true
			}
		}
	}

	// 5. one name contains the other
	best := 0
	for _, v := range variants {
		if conf := substringConfidence(q.name, v.name); conf > best {
			best = conf
		}
	}
	if best > 0 {
		return best, TierSubstring, true
	}

	// 6. last token + organization
	if orgMatch && len(q.tokens) > 1 {
		for _, v := range variants {
			if len(v.tokens) > 1 && lastToken(v.tokens) == lastToken(q.tokens) {
				return 55, TierLastNameOrg, true
			}
		}
	}

	// 7. first token alone
	if first := firstToken(q.tokens); utf8.RuneCountInString(first) >= 3 {
		for _, v := range variants {
			if firstToken(v.tokens) == first {
				return 40, TierFirstName, true
			}
		}
	}

	return 0, "", false
}

// substringConfidence is 55..70 scaled by how much of the longer name the shorter covers
func substringConfidence(a, b string) int {
	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	if la <= 3 || lb <= 3 || a == b {
		return 0
	}
	short, long := a, b
	ls, ll := la, lb
	if la > lb {
		short, long = b, a
		ls, ll = lb, la
	}
	if !strings.Contains(long, short) {
		return 0
	}
	return 55 + int(math.Round(15*float64(ls)/float64(ll)))
}

// nameTokens lowercases, splits on whitespace and trims punctuation
func nameTokens(name string) []string {
	fields := strings.Fields(strings.ToLower(name))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, `.,;:()"'`)
		if f != "" {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

func sortedTokens(tokens []string) []string {
	out := slices.Clone(tokens)
	slices.Sort(out)
	return out
}

func firstToken(tokens []string) string {
	if len(tokens) == 0 {
		return ""
	}
	return tokens[0]
}

func lastToken(tokens []string) string {
	if len(tokens) == 0 {
		return ""
	}
	return tokens[len(tokens)-1]
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func normalizeOrg(org string) string {
	return strings.Join(strings.Fields(strings.ToLower(org)), " ")
}
