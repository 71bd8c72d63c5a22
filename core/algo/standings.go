// Package algo is the tabulation engine: standings, tiebreak ordering,
// pairing and break generation. Every function here is a pure computation
// over its arguments.
package algo

import (
	"math"
	"sort"

	"github.com/huangsam/tabulate/schema"
)

// ComputeStandings produces one TeamRecord per registered team from the
// decided results. Undecided results and results that reference an unknown
// team are skipped.
func ComputeStandings(teams []schema.Team, results []schema.PairingResult) []schema.TeamRecord {
	records := make([]schema.TeamRecord, len(teams))
	index := make(map[string]int, len(teams))
	for i, t := range teams {
		records[i] = schema.TeamRecord{
			TeamID:      t.ID,
			Name:        t.Name,
			Institution: t.Institution,
		}
		index[t.ID] = i
	}

	opponents := make(map[string][]string, len(teams))
	for _, r := range results {
		if !r.Decided() || r.AffID == r.NegID {
			continue
		}
		ai, okA := index[r.AffID]
		ni, okN := index[r.NegID]
		if !okA || !okN {
			continue
		}
		aff, neg := &records[ai], &records[ni]

		if r.Winner == schema.AffSide {
			aff.Wins++
			neg.Losses++
		} else {
			neg.Wins++
			aff.Losses++
		}
		aff.Rounds++
		neg.Rounds++
		aff.AffCount++
		neg.NegCount++

		addRound(aff, r.AffSpeaks, r.AffRanks)
		addRound(neg, r.NegSpeaks, r.NegRanks)

		opponents[r.AffID] = append(opponents[r.AffID], r.NegID)
		opponents[r.NegID] = append(opponents[r.NegID], r.AffID)
	}

	// Opponent strength needs final win counts, so it runs as a second pass.
	for i := range records {
		rec := &records[i]
		for _, opp := range opponents[rec.TeamID] {
			rec.OpponentWins += records[index[opp]].Wins
		}
		rec.AdjustedSpeaks = trimmedSum(rec.RoundSpeaks)
		rec.AdjustedRanks = trimmedSum(rec.RoundRanks)
	}
	return records
}

// UnknownReferences lists team ids referenced by results but absent from the roster.
func UnknownReferences(teams []schema.Team, results []schema.PairingResult) []string {
	known := make(map[string]struct{}, len(teams))
	for _, t := range teams {
		known[t.ID] = struct{}{}
	}
	seen := make(map[string]struct{})
	var unknown []string
	for _, r := range results {
		for _, id := range []string{r.AffID, r.NegID} {
			if _, ok := known[id]; ok {
				continue
			}
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			unknown = append(unknown, id)
		}
	}
	sort.Strings(unknown)
	return unknown
}

// addRound folds one side's ballot into the record. Missing or malformed
// values count as zero.
func addRound(rec *schema.TeamRecord, speaks, ranks *float64) {
	s := sanitize(speaks)
	r := sanitize(ranks)
	rec.Speaks += s
	rec.Ranks += r
	rec.RoundSpeaks = append(rec.RoundSpeaks, s)
	rec.RoundRanks = append(rec.RoundRanks, r)
}

func sanitize(v *float64) float64 {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return 0
	}
	return *v
}

// trimmedSum drops the single highest and lowest value once there are at
// least three values; with fewer it is the plain sum.
func trimmedSum(values []float64) float64 {
	total := 0.0
	if len(values) == 0 {
		return total
	}
	lo, hi := values[0], values[0]
	for _, v := range values {
		total += v
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if len(values) < 3 {
		return total
	}
	return total - lo - hi
}
