package algo

import (
	"cmp"
	"slices"

	"github.com/huangsam/tabulate/schema"
)

// TopStandings returns the first 'limit' standings. A limit that is not
// positive, or larger than the number of standings, returns them all.
func TopStandings(standings []schema.Standing, limit int) []schema.Standing {
	if limit <= 0 || len(standings) <= limit {
		return standings
	}
	return standings[:limit]
}

// SeedsFor returns the standings that fill a category's break, in break-rank
// order. It is the seed list for the first elimination round.
func SeedsFor(standings []schema.Standing, results []schema.BreakResult) []schema.Standing {
	byID := make(map[string]schema.Standing, len(standings))
	for _, s := range standings {
		byID[s.TeamID] = s
	}
	seeds := make([]schema.Standing, 0, len(results))
	for _, r := range results {
		if !r.IsBreaking {
			continue
		}
		if s, ok := byID[r.TeamID]; ok {
			seeds = append(seeds, s)
		}
	}
	sortByBreakRank(seeds, results)
	return seeds
}

func sortByBreakRank(seeds []schema.Standing, results []schema.BreakResult) {
	order := make(map[string]int, len(results))
	for _, r := range results {
		order[r.TeamID] = r.BreakRank
	}
	slices.SortStableFunc(seeds, func(a, b schema.Standing) int {
		return cmp.Compare(order[a.TeamID], order[b.TeamID])
	})
}
