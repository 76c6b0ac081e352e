package resolution

import (
	"slices"
	"unicode/utf8"
)

const blockPrefixLen = 3

// blockingIndex groups candidates that could plausibly match so the scan
// only compares within a block. Keys are the lowercased email and the first
// three letters of each name token.
type blockingIndex struct {
	keys   []string
	blocks map[string][]int
}

func newBlockingIndex(corpus []Candidate) *blockingIndex {
	idx := &blockingIndex{blocks: make(map[string][]int)}
	for i := range corpus {
		for _, key := range blockKeys(&corpus[i]) {
			if _, ok := idx.blocks[key]; !ok {
				idx.keys = append(idx.keys, key)
			}
			idx.blocks[key] = append(idx.blocks[key], i)
		}
	}
	slices.Sort(idx.keys)
	return idx
}

// candidateBlocks returns the blocks holding at least two candidates
func (idx *blockingIndex) candidateBlocks() [][]int {
	out := make([][]int, 0, len(idx.keys))
	for _, key := range idx.keys {
		if members := idx.blocks[key]; len(members) > 1 {
			out = append(out, members)
		}
	}
	return out
}

func blockKeys(c *Candidate) []string {
	seen := make(map[string]bool)
	var keys []string
	add := func(k string) {
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}

	for _, email := range c.emails() {
		add("email:" + email)
	}
	for _, v := range c.variants() {
		for _, token := range v.tokens {
			add("name:" + prefix(token, blockPrefixLen))
		}
	}
	return keys
}

func prefix(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
