package algo

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
	"sort"

	"github.com/huangsam/tabulate/schema"
)

// ErrUnknownMethod is returned when the pairing method is not recognised.
var ErrUnknownMethod = errors.New("unknown pairing method")

// pairingContext holds the lookups built once per pairing run.
type pairingContext struct {
	constraints schema.PairingConstraints
	weights     schema.QualityWeights
	conflicts   map[[2]string]struct{}
	played      map[[2]string]struct{}
	affCount    map[string]int
	position    map[string]int
}

// GeneratePairings produces the match-ups for one round from ranked standings.
// It returns the pairings in pool order and the ids of teams left with a bye.
func GeneratePairings(
	standings []schema.Standing,
	judges []schema.Judge,
	constraints schema.PairingConstraints,
	opts schema.PairingOptions,
	previous []schema.PairingResult,
) ([]schema.GeneratedPairing, []string, error) {
	method := opts.Method
	if method == "" {
		method = schema.HighLowMethod
	}
	if _, ok := schema.ValidPairingMethods[method]; !ok {
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownMethod, method)
	}

	teams := uniqueTeams(standings)
	pc := newPairingContext(teams, constraints, opts.Weights, previous)
	rng := NewRand(opts.Seed)

	var (
		pairings []schema.GeneratedPairing
		byes     []string
		carry    []schema.Standing
	)
	pools := poolByWins(teams)
	for i, pool := range pools {
		pool = append(carry, pool...)
		carry = nil
		if len(pool)%2 == 1 {
			odd := pool[len(pool)-1]
			pool = pool[:len(pool)-1]
			if opts.PullDown && i < len(pools)-1 {
				carry = []schema.Standing{odd}
			} else {
				byes = append(byes, odd.TeamID)
			}
		}
		matched, unpaired := pc.matchPool(pool, method, rng)
		for _, pair := range matched {
			pairings = append(pairings, pc.orient(pair[0], pair[1]))
		}
		for _, t := range unpaired {
			byes = append(byes, t.TeamID)
		}
	}

	assignJudges(pairings, judges, pc.institutions(teams), constraints)
	for i := range pairings {
		if i < len(opts.Rooms) {
			pairings[i].Room = opts.Rooms[i]
		}
	}
	return pairings, byes, nil
}

// GenerateEliminationPairings seeds a single-elimination bracket: first seed
// against last, second against second-last. An odd middle seed is left out.
// Judges rotate round-robin from the bracket slot; each slot takes the least
// loaded unconflicted judge, so a judge repeats only once the panel runs out.
func GenerateEliminationPairings(seeds []schema.Standing, judges []schema.Judge, constraints schema.PairingConstraints) []schema.GeneratedPairing {
	teams := uniqueTeams(seeds)
	n := len(teams)
	pairings := make([]schema.GeneratedPairing, 0, n/2)
	for i := 0; i < n/2; i++ {
		pairings = append(pairings, schema.GeneratedPairing{
			AffID:   teams[i].TeamID,
			NegID:   teams[n-1-i].TeamID,
			Quality: schema.MaxQuality,
		})
	}

	if len(judges) == 0 {
		return pairings
	}
	insts := make(map[string]string, n)
	for _, t := range teams {
		insts[t.TeamID] = t.Institution
	}
	load := make([]int, len(judges))
	for i := range pairings {
		best := -1
		for k := range judges {
			j := (i + k) % len(judges)
			if judgeConflicted(judges[j], pairings[i], insts, constraints) {
				continue
			}
			if best < 0 || load[j] < load[best] {
				best = j
			}
		}
		if best >= 0 {
			load[best]++
			pairings[i].JudgeID = judges[best].ID
		}
	}
	return pairings
}

func newPairingContext(teams []schema.Standing, constraints schema.PairingConstraints, custom *schema.QualityWeights, previous []schema.PairingResult) *pairingContext {
	weights := schema.DefaultQualityWeights()
	if custom != nil {
		weights = *custom
	}
	pc := &pairingContext{
		constraints: constraints,
		weights:     weights,
		conflicts:   make(map[[2]string]struct{}, len(constraints.TeamConflicts)),
		played:      make(map[[2]string]struct{}, len(previous)),
		affCount:    make(map[string]int, len(teams)),
		position:    make(map[string]int, len(teams)),
	}
	for _, c := range constraints.TeamConflicts {
		pc.conflicts[pairKey(c[0], c[1])] = struct{}{}
	}
	for _, r := range previous {
		pc.played[pairKey(r.AffID, r.NegID)] = struct{}{}
		pc.affCount[r.AffID]++
	}
	for i, t := range teams {
		pc.position[t.TeamID] = i
	}
	return pc
}

// matchPool pairs an even-sized pool. Each proposer takes the candidate with
// the best constraint score, scanning candidates in the method's preference
// order so equal scores keep that order. Teams the method pass leaves over go
// through a high-high pass; whatever remains is returned unpaired.
func (pc *pairingContext) matchPool(pool []schema.Standing, method schema.PairingMethod, rng *rand.Rand) ([][2]schema.Standing, []schema.Standing) {
	used := make([]bool, len(pool))
	var pairs [][2]schema.Standing

	propose := func(p int, candidates []int) {
		best, bestScore := -1, math.Inf(-1)
		for _, c := range candidates {
			if c == p || used[c] {
				continue
			}
			score, ok := pc.constraintScore(&pool[p], &pool[c])
			if ok && score > bestScore {
				best, bestScore = c, score
			}
		}
		if best >= 0 {
			used[p], used[best] = true, true
			pairs = append(pairs, [2]schema.Standing{pool[p], pool[best]})
		}
	}

	order := make([]int, len(pool))
	for i := range order {
		order[i] = i
	}
	half := len(pool) / 2
	switch method {
	case schema.HighLowMethod:
		bottom := slices.Clone(order[half:])
		slices.Reverse(bottom)
		for _, p := range order[:half] {
			propose(p, bottom)
		}
	case schema.RandomMethod:
		rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
		top, bottom := order[:half], order[half:]
		for i, p := range top {
			propose(p, append(slices.Clone(bottom[i:]), bottom[:i]...))
		}
	}

	// high-high over everything still unused, in rank order
	for p := range pool {
		if used[p] {
			continue
		}
		candidates := make([]int, 0, len(pool)-p-1)
		for c := p + 1; c < len(pool); c++ {
			candidates = append(candidates, c)
		}
		propose(p, candidates)
	}

	var unpaired []schema.Standing
	for i, t := range pool {
		if !used[i] {
			unpaired = append(unpaired, t)
		}
	}
	return pairs, unpaired
}

// constraintScore is the quality before the win and speaker gap terms.
// ok is false for a hard conflict.
func (pc *pairingContext) constraintScore(a, b *schema.Standing) (float64, bool) {
	if a.TeamID == b.TeamID {
		return 0, false
	}
	key := pairKey(a.TeamID, b.TeamID)
	if _, hard := pc.conflicts[key]; hard {
		return 0, false
	}
	score := schema.MaxQuality
	if pc.constraints.ProtectInstitutions && a.Institution != "" && a.Institution == b.Institution {
		score -= pc.weights.Institution
	}
	if _, rematch := pc.played[key]; rematch && pc.constraints.AvoidRematch {
		score -= pc.weights.Rematch
	}
	return score, true
}

// quality scores a match-up. ok is false for a hard conflict.
func (pc *pairingContext) quality(a, b *schema.Standing) (float64, bool) {
	score, ok := pc.constraintScore(a, b)
	if !ok {
		return math.Inf(-1), false
	}
	score -= pc.weights.WinGap * math.Abs(float64(a.Wins-b.Wins))
	score -= pc.weights.SpeakGap * math.Abs(a.Speaks-b.Speaks)
	return score, true
}

// orient picks sides: fewer previous affirmatives goes affirmative, ties keep
// the higher-ranked team affirmative.
func (pc *pairingContext) orient(a, b schema.Standing) schema.GeneratedPairing {
	if pc.position[b.TeamID] < pc.position[a.TeamID] {
		a, b = b, a
	}
	if pc.affCount[b.TeamID] < pc.affCount[a.TeamID] {
		a, b = b, a
	}
	score, _ := pc.quality(&a, &b)
	return schema.GeneratedPairing{AffID: a.TeamID, NegID: b.TeamID, Quality: score}
}

func (pc *pairingContext) institutions(teams []schema.Standing) map[string]string {
	insts := make(map[string]string, len(teams))
	for _, t := range teams {
		insts[t.TeamID] = t.Institution
	}
	return insts
}

// assignJudges gives each pairing, in order, the first unused judge without
// a conflict against either side. Pairings without a valid judge keep an
// empty JudgeID.
func assignJudges(pairings []schema.GeneratedPairing, judges []schema.Judge, insts map[string]string, constraints schema.PairingConstraints) {
	used := make([]bool, len(judges))
	for i := range pairings {
		for j, judge := range judges {
			if used[j] || judgeConflicted(judge, pairings[i], insts, constraints) {
				continue
			}
			used[j] = true
			pairings[i].JudgeID = judge.ID
			break
		}
	}
}

func judgeConflicted(judge schema.Judge, p schema.GeneratedPairing, insts map[string]string, constraints schema.PairingConstraints) bool {
	for _, team := range constraints.JudgeTeamConflicts[judge.ID] {
		if team == p.AffID || team == p.NegID {
			return true
		}
	}
	blocked := constraints.JudgeInstConflicts[judge.ID]
	if judge.Institution != "" {
		blocked = append(slices.Clone(blocked), judge.Institution)
	}
	for _, inst := range blocked {
		if inst == "" {
			continue
		}
		if inst == insts[p.AffID] || inst == insts[p.NegID] {
			return true
		}
	}
	return false
}

// poolByWins groups teams into contiguous pools of equal wins, highest first.
// Rank order is kept inside each pool.
func poolByWins(teams []schema.Standing) [][]schema.Standing {
	sorted := slices.Clone(teams)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Wins > sorted[j].Wins })

	var pools [][]schema.Standing
	for i := 0; i < len(sorted); {
		j := i
		for j < len(sorted) && sorted[j].Wins == sorted[i].Wins {
			j++
		}
		pools = append(pools, sorted[i:j:j])
		i = j
	}
	return pools
}

// uniqueTeams drops repeated team ids, keeping the first occurrence.
func uniqueTeams(standings []schema.Standing) []schema.Standing {
	seen := make(map[string]struct{}, len(standings))
	out := make([]schema.Standing, 0, len(standings))
	for _, s := range standings {
		if _, dup := seen[s.TeamID]; dup {
			continue
		}
		seen[s.TeamID] = struct{}{}
		out = append(out, s)
	}
	return out
}

func pairKey(a, b string) [2]string {
	if b < a {
		a, b = b, a
	}
	return [2]string{a, b}
}

// NewRand seeds a generator; a zero seed draws a fresh one.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)))
}
