package algo

import (
	"cmp"
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"sort"

	"github.com/huangsam/tabulate/schema"
)

// Configuration errors surfaced by the tiebreak orderer.
var (
	ErrUnknownCriterion = errors.New("unknown tiebreak criterion")
	ErrInvalidSequence  = errors.New("invalid tiebreak sequence")
)

// Comparator orders two records for one criterion. A negative result ranks
// a ahead of b, a positive result ranks b ahead of a, zero is a tie.
type Comparator func(a, b *schema.TeamRecord, tc *tiebreakContext) int

// tiebreakContext carries the per-call data some comparators need.
type tiebreakContext struct {
	headToHead map[[2]string]int // net wins of key[0] over key[1]
	tiedWith   map[string]int    // size of each team's tie group ahead of head_to_head
	draws      map[string]int    // coin flip position per team
}

// registry maps each criterion name to its comparator. The orderer looks
// criteria up here by name so the configured sequence stays pure data.
var registry = map[schema.Criterion]Comparator{
	schema.WinsCriterion: func(a, b *schema.TeamRecord, _ *tiebreakContext) int {
		return cmp.Compare(b.Wins, a.Wins)
	},
	schema.SpeaksCriterion: func(a, b *schema.TeamRecord, _ *tiebreakContext) int {
		return cmp.Compare(b.Speaks, a.Speaks)
	},
	schema.RanksCriterion: func(a, b *schema.TeamRecord, _ *tiebreakContext) int {
		return cmp.Compare(a.Ranks, b.Ranks) // lower is better
	},
	schema.AdjustedSpeaksCriterion: func(a, b *schema.TeamRecord, _ *tiebreakContext) int {
		return cmp.Compare(b.AdjustedSpeaks, a.AdjustedSpeaks)
	},
	schema.AdjustedRanksCriterion: func(a, b *schema.TeamRecord, _ *tiebreakContext) int {
		return cmp.Compare(a.AdjustedRanks, b.AdjustedRanks)
	},
	schema.OpponentWinsCriterion: func(a, b *schema.TeamRecord, _ *tiebreakContext) int {
		return cmp.Compare(b.OpponentWins, a.OpponentWins)
	},
	// head_to_head only separates a two-team tie; larger ties can form cycles.
	schema.HeadToHeadCriterion: func(a, b *schema.TeamRecord, tc *tiebreakContext) int {
		if tc.tiedWith[a.TeamID] != 2 {
			return 0
		}
		return -tc.headToHead[[2]string{a.TeamID, b.TeamID}]
	},
	schema.CoinFlipCriterion: func(a, b *schema.TeamRecord, tc *tiebreakContext) int {
		return cmp.Compare(tc.draws[a.TeamID], tc.draws[b.TeamID])
	},
}

// IsKnownCriterion reports whether the registry has a comparator for c.
func IsKnownCriterion(c schema.Criterion) bool {
	_, ok := registry[c]
	return ok
}

// ValidateSequence checks a configured tiebreak sequence. coin_flip may only
// appear as the last criterion.
func ValidateSequence(sequence []schema.Criterion) error {
	if len(sequence) == 0 {
		return fmt.Errorf("%w: sequence is empty", ErrInvalidSequence)
	}
	seen := make(map[schema.Criterion]struct{}, len(sequence))
	for i, c := range sequence {
		if !IsKnownCriterion(c) {
			return fmt.Errorf("%w: %q", ErrUnknownCriterion, c)
		}
		if _, dup := seen[c]; dup {
			return fmt.Errorf("%w: %q appears more than once", ErrInvalidSequence, c)
		}
		seen[c] = struct{}{}
		if c == schema.CoinFlipCriterion && i != len(sequence)-1 {
			return fmt.Errorf("%w: %s must be the last criterion", ErrInvalidSequence, c)
		}
	}
	return nil
}

// Orderer ranks team records. Rand feeds coin_flip; Results feed head_to_head.
type Orderer struct {
	Rand    *rand.Rand
	Results []schema.PairingResult
}

// OrderByTiebreakers ranks records with a freshly seeded orderer and no
// head-to-head history.
func OrderByTiebreakers(records []schema.TeamRecord, sequence []schema.Criterion) ([]schema.Standing, error) {
	return (&Orderer{}).Order(records, sequence)
}

// Order ranks records by applying the sequence left to right. Teams equal on
// every criterion of a sequence without coin_flip keep a deterministic order
// by team id.
func (o *Orderer) Order(records []schema.TeamRecord, sequence []schema.Criterion) ([]schema.Standing, error) {
	if err := ValidateSequence(sequence); err != nil {
		return nil, err
	}

	comparators := make([]Comparator, len(sequence))
	for i, c := range sequence {
		comparators[i] = registry[c]
	}
	h2hAt := slices.Index(sequence, schema.HeadToHeadCriterion)
	tc := o.newContext(records, h2hAt >= 0, slices.Contains(sequence, schema.CoinFlipCriterion))
	if h2hAt >= 0 {
		tc.tiedWith = tieGroups(records, comparators[:h2hAt], tc)
	}

	ranked := make([]schema.TeamRecord, len(records))
	copy(ranked, records)
	sort.SliceStable(ranked, func(i, j int) bool {
		return compareRecords(&ranked[i], &ranked[j], comparators, tc) < 0
	})

	standings := make([]schema.Standing, len(ranked))
	for i := range ranked {
		standings[i] = schema.Standing{Rank: i + 1, TeamRecord: ranked[i]}
		if i == 0 {
			continue
		}
		for k, fn := range comparators {
			if fn(&ranked[i-1], &ranked[i], tc) != 0 {
				standings[i].DecidedBy = sequence[k]
				break
			}
		}
	}
	return standings, nil
}

// compareRecords walks the comparators until one decides; the team id
// comparison is the final fallback.
func compareRecords(a, b *schema.TeamRecord, comparators []Comparator, tc *tiebreakContext) int {
	for _, fn := range comparators {
		if c := fn(a, b, tc); c != 0 {
			return c
		}
	}
	return cmp.Compare(a.TeamID, b.TeamID)
}

func (o *Orderer) newContext(records []schema.TeamRecord, withH2H, withCoin bool) *tiebreakContext {
	tc := &tiebreakContext{}
	if withH2H {
		tc.headToHead = buildHeadToHead(o.Results)
	}
	if withCoin {
		rng := o.Rand
		if rng == nil {
			rng = NewRand(0)
		}
		perm := rng.Perm(len(records))
		tc.draws = make(map[string]int, len(records))
		for i, rec := range records {
			tc.draws[rec.TeamID] = perm[i]
		}
	}
	return tc
}

// tieGroups sizes the groups of teams the leading comparators cannot separate.
func tieGroups(records []schema.TeamRecord, leading []Comparator, tc *tiebreakContext) map[string]int {
	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b schema.TeamRecord) int {
		for _, fn := range leading {
			if c := fn(&a, &b, tc); c != 0 {
				return c
			}
		}
		return 0
	})

	sizes := make(map[string]int, len(sorted))
	for start := 0; start < len(sorted); {
		end := start + 1
		for end < len(sorted) && tied(&sorted[start], &sorted[end], leading, tc) {
			end++
		}
		for _, rec := range sorted[start:end] {
			sizes[rec.TeamID] = end - start
		}
		start = end
	}
	return sizes
}

func tied(a, b *schema.TeamRecord, leading []Comparator, tc *tiebreakContext) bool {
	for _, fn := range leading {
		if fn(a, b, tc) != 0 {
			return false
		}
	}
	return true
}

// buildHeadToHead counts net decided wins between every pair of teams that met.
func buildHeadToHead(results []schema.PairingResult) map[[2]string]int {
	h2h := make(map[[2]string]int)
	for _, r := range results {
		if !r.Decided() {
			continue
		}
		winner, loser := r.AffID, r.NegID
		if r.Winner == schema.NegSide {
			winner, loser = loser, winner
		}
		h2h[[2]string{winner, loser}]++
		h2h[[2]string{loser, winner}]--
	}
	return h2h
}
