package resolution

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func id(n byte) uuid.UUID {
	var u uuid.UUID
	u[15] = n
	return u
}

func TestResolveTiers(t *testing.T) {
	cases := []struct {
		name       string
		query      Query
		candidate  Candidate
		confidence int
		tier       MatchTier
	}{
		{"email, first names agree", Query{Name: "Jake Ryan", Email: "JAKE@acme.com"}, Candidate{Name: "Jake R.", Email: "jake@acme.com"}, 95, TierEmail},
		{"email, names differ", Query{Name: "J Ryan", Email: "jake@acme.com"}, Candidate{Name: "Jake Ryan", Email: "jake@acme.com"}, 90, TierEmail},
		{"email, empty query name", Query{Email: "jake@acme.com"}, Candidate{Name: "Jake Ryan", Email: "jake@acme.com"}, 95, TierEmail},
		{"alias email", Query{Name: "Jake", Email: "jr@old.io"}, Candidate{Name: "Jake Ryan", AliasEmails: []string{"JR@old.io"}}, 95, TierEmail},
		{"exact multi-token", Query{Name: "jake  ryan"}, Candidate{Name: "Jake Ryan"}, 95, TierExactName},
		{"exact single token", Query{Name: "Cher"}, Candidate{Name: "cher"}, 90, TierExactName},
		{"exact alias", Query{Name: "Jacob Ryan"}, Candidate{Name: "Jake Ryan", AliasNames: []string{"Jacob Ryan"}}, 95, TierExactName},
		{"sorted tokens, two", Query{Name: "Ryan Jake"}, Candidate{Name: "Jake Ryan"}, 80, TierSortedTokens},
		{"sorted tokens, three", Query{Name: "Ryan Jake Lee"}, Candidate{Name: "Jake Lee Ryan"}, 85, TierSortedTokens},
		{"first token + org, both multi", Query{Name: "Jake Smith", Organization: "Acme"}, Candidate{Name: "Jake Ryan", Organization: "ACME"}, 75, TierFirstNameOrg},
		{"first token + org, single", Query{Name: "Jake", Organization: "Acme"}, Candidate{Name: "Jake Ryan", Organization: "acme"}, 70, TierFirstNameOrg},
		{"substring", Query{Name: "Jake Ryan"}, Candidate{Name: "Jake Ryanson"}, 55 + 11, TierSubstring},
		{"last token + org", Query{Name: "Bob Ryan", Organization: "Acme"}, Candidate{Name: "Jake Ryan", Organization: "Acme"}, 55, TierLastNameOrg},
		{"first token alone", Query{Name: "Jake Smith"}, Candidate{Name: "Jake Ryan"}, 40, TierFirstName},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.candidate.ID = id(1)
			matches := Resolve(tc.query, []Candidate{tc.candidate}, FloorAnyPositive)
			require.Len(t, matches, 1)
			assert.Equal(t, tc.confidence, matches[0].Confidence)
			assert.Equal(t, tc.tier, matches[0].Tier)
		})
	}
}

func TestResolveSortedTokensWithoutOtherData(t *testing.T) {
	matches := ResolveName("Ryan Jake", "", []Candidate{{ID: id(1), Name: "Jake Ryan"}})
	require.Len(t, matches, 1)
	assert.GreaterOrEqual(t, matches[0].Confidence, 80)
	assert.LessOrEqual(t, matches[0].Confidence, 85)
}

func TestResolveOrgBonus(t *testing.T) {
	corpus := []Candidate{{ID: id(1), Name: "Jake Ryan", Email: "jake@acme.com", Organization: "Acme"}}

	// exact name 95 + 10 caps at 99
	m := Resolve(Query{Name: "Jake Ryan", Organization: "acme"}, corpus, FloorAnyPositive)
	require.Len(t, m, 1)
	assert.Equal(t, 99, m[0].Confidence)
	assert.True(t, m[0].OrgBonus)

	// sorted tokens 80 + 10
	m = Resolve(Query{Name: "Ryan Jake", Organization: "Acme"}, corpus, FloorAnyPositive)
	assert.Equal(t, 90, m[0].Confidence)

	// tier already credits organization
	m = Resolve(Query{Name: "Jake Smith", Organization: "Acme"}, corpus, FloorAnyPositive)
	assert.Equal(t, 75, m[0].Confidence)
	assert.False(t, m[0].OrgBonus)
}

func TestResolveShortNamesNoSubstring(t *testing.T) {
	matches := ResolveName("Al", "", []Candidate{{ID: id(1), Name: "Alan"}})
	assert.Empty(t, matches)

	// first-token tier needs three characters
	matches = ResolveName("Jo Smith", "", []Candidate{{ID: id(1), Name: "Jo Brown"}})
	assert.Empty(t, matches)
}

func TestResolveOrderingAndFloor(t *testing.T) {
	corpus := []Candidate{
		{ID: id(3), Name: "Jake Smith"},
		{ID: id(2), Name: "Jake Ryan", Email: "jake@acme.com"},
		{ID: id(9), Name: "Ryan Jake"},
		{ID: id(4), Name: "Ryan Jake"},
		{ID: id(5), Name: "Someone Else"},
	}
	matches := Resolve(Query{Name: "Jake Ryan", Email: "jake@acme.com"}, corpus, FloorAnyPositive)
	require.Len(t, matches, 4)
	assert.Equal(t, id(2), matches[0].ID)
	assert.Equal(t, TierEmail, matches[0].Tier)
	// equal confidence: id ascending
	assert.Equal(t, id(4), matches[1].ID)
	assert.Equal(t, id(9), matches[2].ID)
	assert.Equal(t, id(3), matches[3].ID)

	floored := Resolve(Query{Name: "Jake Ryan", Email: "jake@acme.com"}, corpus, FloorDuplicateScan)
	assert.Len(t, floored, 3)
}

func TestResolveCompany(t *testing.T) {
	corpus := []CompanyCandidate{
		{ID: id(1), Name: "Acme Inc."},
		{ID: id(2), Name: "Globex", Domain: "https://www.Initech.com/"},
		{ID: id(3), Name: "Umbrella Holdings", AliasNames: []string{"Umbrella Corp"}},
		{ID: id(4), Name: "Stark Industries"},
	}
	cases := []struct {
		query      string
		want       uuid.UUID
		confidence int
		tier       MatchTier
	}{
		{"acme inc.", id(1), 95, TierExactName},
		{"Acme, LLC", id(1), 85, TierSuffixStripped},
		{"Initech", id(2), 80, TierDomain},
		{"umbrella corp", id(3), 95, TierExactName},
		{"Stark", id(4), 60, TierSubstring},
	}
	for _, tc := range cases {
		t.Run(tc.query, func(t *testing.T) {
			m := ResolveCompany(tc.query, corpus)
			best, ok := Best(m)
			require.True(t, ok)
			assert.Equal(t, tc.want, best.ID)
			assert.Equal(t, tc.confidence, best.Confidence)
			assert.Equal(t, tc.tier, best.Tier)
		})
	}

	assert.Empty(t, ResolveCompany("  ", corpus))
	assert.Empty(t, ResolveCompany("Wayne Enterprises", corpus))
}

func TestStripLegalSuffix(t *testing.T) {
	assert.Equal(t, "acme", StripLegalSuffix("Acme, Inc."))
	assert.Equal(t, "acme", StripLegalSuffix("ACME Co Ltd"))
	assert.Equal(t, "siemens", StripLegalSuffix("Siemens GmbH"))
	assert.Equal(t, "co", StripLegalSuffix("Co"))
}
