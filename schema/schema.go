// Package schema has models, typed constants and defaults for all parts of tabulate.
package schema

// Team is one registered team.
type Team struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Institution string `json:"institution" yaml:"institution"`
}

// Judge is one adjudicator in the judge pool.
type Judge struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Institution string `json:"institution" yaml:"institution"`
}

// PairingResult is one match as submitted on the ballot.
// A result with an empty Winner has not been decided yet.
type PairingResult struct {
	Round     int      `json:"round" yaml:"round"`
	AffID     string   `json:"aff_id" yaml:"aff_id"`
	NegID     string   `json:"neg_id" yaml:"neg_id"`
	Winner    Side     `json:"winner,omitempty" yaml:"winner"`
	AffSpeaks *float64 `json:"aff_speaks,omitempty" yaml:"aff_speaks"`
	NegSpeaks *float64 `json:"neg_speaks,omitempty" yaml:"neg_speaks"`
	AffRanks  *float64 `json:"aff_ranks,omitempty" yaml:"aff_ranks"`
	NegRanks  *float64 `json:"neg_ranks,omitempty" yaml:"neg_ranks"`
}

// Decided reports whether a winner has been recorded.
func (r PairingResult) Decided() bool {
	return r.Winner == AffSide || r.Winner == NegSide
}

// TeamRecord is a team's accumulated performance for one round snapshot.
type TeamRecord struct {
	TeamID         string    `json:"team_id"`
	Name           string    `json:"name"`
	Institution    string    `json:"institution"`
	Wins           int       `json:"wins"`
	Losses         int       `json:"losses"`
	Speaks         float64   `json:"speaks"`
	Ranks          float64   `json:"ranks"`
	AdjustedSpeaks float64   `json:"adjusted_speaks"`
	AdjustedRanks  float64   `json:"adjusted_ranks"`
	OpponentWins   int       `json:"opponent_wins"`
	Rounds         int       `json:"rounds"`
	AffCount       int       `json:"aff_count"`
	NegCount       int       `json:"neg_count"`
	RoundSpeaks    []float64 `json:"-"`
	RoundRanks     []float64 `json:"-"`
}

// Standing is a ranked TeamRecord.
type Standing struct {
	TeamRecord
	Rank      int       `json:"rank"`
	DecidedBy Criterion `json:"decided_by,omitempty"` // criterion that placed this team below the previous one
}

// PairingConstraints bundles the conflict relations for one pairing run.
type PairingConstraints struct {
	TeamConflicts       [][2]string         `json:"team_conflicts" yaml:"team_conflicts"`
	JudgeTeamConflicts  map[string][]string `json:"judge_team_conflicts" yaml:"judge_team_conflicts"`
	JudgeInstConflicts  map[string][]string `json:"judge_institution_conflicts" yaml:"judge_institution_conflicts"`
	AvoidRematch        bool                `json:"avoid_rematch" yaml:"avoid_rematch"`
	ProtectInstitutions bool                `json:"protect_institutions" yaml:"protect_institutions"`
}

// PairingOptions select the pairing method and tuning for one round.
type PairingOptions struct {
	Method   PairingMethod
	Weights  *QualityWeights // nil uses DefaultQualityWeights; a zero value turns every penalty off
	Rooms    []string
	PullDown bool  // move a pool's odd team down to the top of the next lower pool instead of a bye
	Seed     int64 // seed for the random method; 0 draws a fresh seed
}

// GeneratedPairing is one match-up produced for a round.
type GeneratedPairing struct {
	AffID   string  `json:"aff_id"`
	NegID   string  `json:"neg_id"`
	JudgeID string  `json:"judge_id,omitempty"`
	Room    string  `json:"room,omitempty"`
	Quality float64 `json:"quality"`
}

// BreakCategory is one elimination-round qualification target.
type BreakCategory struct {
	ID             string    `json:"id" yaml:"id"`
	Name           string    `json:"name" yaml:"name"`
	BreakSize      int       `json:"break_size" yaml:"break_size"`
	Rule           BreakRule `json:"rule" yaml:"rule"`
	InstitutionCap int       `json:"institution_cap" yaml:"institution_cap"`
	Priority       int       `json:"priority" yaml:"priority"`
	IsGeneral      bool      `json:"is_general" yaml:"is_general"`
}

// BreakResult is one team's outcome in one category.
type BreakResult struct {
	TeamID     string `json:"team_id"`
	CategoryID string `json:"category_id"`
	Rank       int    `json:"rank"` // overall rank the team held in the standings
	BreakRank  int    `json:"break_rank"`
	IsBreaking bool   `json:"is_breaking"`
	Remark     Remark `json:"remark,omitempty"`
}

// LivenessResult is the liveness of one team.
type LivenessResult struct {
	TeamID string   `json:"team_id"`
	Wins   int      `json:"wins"`
	Status Liveness `json:"status"`
}

// Tournament is the full input handed to the engine by the tournament source.
type Tournament struct {
	Name        string                     `json:"name" yaml:"name"`
	Teams       []Team                     `json:"teams" yaml:"teams"`
	Judges      []Judge                    `json:"judges" yaml:"judges"`
	Results     []PairingResult            `json:"results" yaml:"results"`
	Constraints PairingConstraints         `json:"constraints" yaml:"constraints"`
	Categories  []BreakCategory            `json:"categories" yaml:"categories"`
	Eligibility map[string]map[string]bool `json:"eligibility" yaml:"eligibility"`
	Tiebreakers []Criterion                `json:"tiebreakers" yaml:"tiebreakers"`
	Rooms       []string                   `json:"rooms" yaml:"rooms"`
	TotalRounds int                        `json:"total_rounds" yaml:"total_rounds"`
}

// RoundsCompleted returns the highest round number carrying a decided result.
func (t *Tournament) RoundsCompleted() int {
	return LastDecidedRound(t.Results)
}

// LastDecidedRound returns the highest round number among decided results.
func LastDecidedRound(results []PairingResult) int {
	completed := 0
	for _, r := range results {
		if r.Decided() && r.Round > completed {
			completed = r.Round
		}
	}
	return completed
}

// ResultsUpTo returns the results of rounds 1..round. A round of 0 keeps everything.
func (t *Tournament) ResultsUpTo(round int) []PairingResult {
	if round <= 0 {
		return t.Results
	}
	out := make([]PairingResult, 0, len(t.Results))
	for _, r := range t.Results {
		if r.Round <= round {
			out = append(out, r)
		}
	}
	return out
}
