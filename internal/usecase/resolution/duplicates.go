package resolution

import (
	"bytes"
	"context"
	"slices"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// DefaultScanWorkers bounds concurrent block comparisons when unset
const DefaultScanWorkers = 4

// DuplicatePair is two contacts that probably describe the same person.
// FirstID sorts before SecondID.
type DuplicatePair struct {
	FirstID    uuid.UUID `json:"first_id"`
	FirstName  string    `json:"first_name"`
	SecondID   uuid.UUID `json:"second_id"`
	SecondName string    `json:"second_name"`
	Confidence int       `json:"confidence"`
	Tier       MatchTier `json:"tier"`
}

// ScanDuplicates compares candidates that share a block and returns every
// pair scoring at least FloorDuplicateScan, strongest first
func ScanDuplicates(ctx context.Context, corpus []Candidate, workers int) ([]DuplicatePair, error) {
	if workers <= 0 {
		workers = DefaultScanWorkers
	}
	blocks := newBlockingIndex(corpus).candidateBlocks()
	results := make([][]DuplicatePair, len(blocks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for bi, members := range blocks {
		g.Go(func() error {
			pairs := make([]DuplicatePair, 0)
			for i := 0; i < len(members); i++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				for j := i + 1; j < len(members); j++ {
					if p, ok := comparePair(&corpus[members[i]], &corpus[members[j]]); ok {
						pairs = append(pairs, p)
					}
				}
			}
			results[bi] = pairs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return mergePairs(results), nil
}

// comparePair scores a against b and b against a, keeping the stronger
func comparePair(a, b *Candidate) (DuplicatePair, bool) {
	if a.ID == b.ID {
		return DuplicatePair{}, false
	}
	ab, okAB := scoreCandidate(newPersonKey(a.Name, a.Email, a.Organization), b)
	ba, okBA := scoreCandidate(newPersonKey(b.Name, b.Email, b.Organization), a)

	m := ab
	if !okAB || (okBA && ba.Confidence > ab.Confidence) {
		m = ba
	}
	if (!okAB && !okBA) || m.Confidence < FloorDuplicateScan {
		return DuplicatePair{}, false
	}

	first, second := a, b
	if bytes.Compare(a.ID[:], b.ID[:]) > 0 {
		first, second = b, a
	}
	return DuplicatePair{
		FirstID:    first.ID,
		FirstName:  first.Name,
		SecondID:   second.ID,
		SecondName: second.Name,
		Confidence: m.Confidence,
		Tier:       m.Tier,
	}, true
}

// mergePairs drops pairs found in more than one block and sorts the rest
func mergePairs(results [][]DuplicatePair) []DuplicatePair {
	seen := make(map[[2]uuid.UUID]bool)
	out := make([]DuplicatePair, 0)
	for _, pairs := range results {
		for _, p := range pairs {
			key := [2]uuid.UUID{p.FirstID, p.SecondID}
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, p)
		}
	}
	slices.SortFunc(out, func(a, b DuplicatePair) int {
		if a.Confidence != b.Confidence {
			return b.Confidence - a.Confidence
		}
		if c := bytes.Compare(a.FirstID[:], b.FirstID[:]); c != 0 {
			return c
		}
		return bytes.Compare(a.SecondID[:], b.SecondID[:])
	})
	return out
}
