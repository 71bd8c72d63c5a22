package schema

// Custom string types for type safety.
type (
	// Criterion names one tiebreak comparison.
	Criterion string

	// PairingMethod represents how teams inside a pool are matched.
	PairingMethod string

	// BreakRule represents the qualification rule of a break category.
	BreakRule string

	// Remark explains why a team did not take a break slot.
	Remark string

	// Side is either affirmative or negative.
	Side string

	// Liveness classifies a team's break prospects.
	Liveness string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for persistence.
	DatabaseBackend string
)

// Tiebreak criteria understood by the tiebreak registry.
const (
	WinsCriterion           Criterion = "wins"
	SpeaksCriterion         Criterion = "speaks"
	RanksCriterion          Criterion = "ranks"
	AdjustedSpeaksCriterion Criterion = "adjusted_speaks"
	AdjustedRanksCriterion  Criterion = "adjusted_ranks"
	OpponentWinsCriterion   Criterion = "opponent_wins"
	HeadToHeadCriterion     Criterion = "head_to_head"
	CoinFlipCriterion       Criterion = "coin_flip"
)

// All pairing methods supported.
const (
	HighHighMethod PairingMethod = "high_high"
	HighLowMethod  PairingMethod = "high_low" // default
	RandomMethod   PairingMethod = "random"
)

// EliminationMethod labels seeded elimination draws. It is not a power-pairing method.
const EliminationMethod PairingMethod = "elimination"

// All break rules supported.
const (
	StandardRule BreakRule = "standard" // default
	AIDA1996Rule BreakRule = "aida-1996"
	AIDA2016Rule BreakRule = "aida-2016"
)

// Break remarks. A breaking team carries NoRemark.
const (
	NoRemark             Remark = ""
	CappedRemark         Remark = "capped"
	IneligibleRemark     Remark = "ineligible"
	DifferentBreakRemark Remark = "different_break"
	CoinFlipRemark       Remark = "coin_flip"
	PromotedRemark       Remark = "promoted"
)

// Debate sides.
const (
	AffSide Side = "aff"
	NegSide Side = "neg"
)

// Liveness states.
const (
	LiveStatus Liveness = "live"
	SafeStatus Liveness = "safe"
	DeadStatus Liveness = "dead"
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All store backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// AllCriteria lists every registered criterion in display order.
var AllCriteria = []Criterion{
	WinsCriterion,
	SpeaksCriterion,
	RanksCriterion,
	AdjustedSpeaksCriterion,
	AdjustedRanksCriterion,
	OpponentWinsCriterion,
	HeadToHeadCriterion,
	CoinFlipCriterion,
}

// ValidPairingMethods lists all valid pairing methods.
var ValidPairingMethods = map[PairingMethod]struct{}{
	HighHighMethod: {},
	HighLowMethod:  {},
	RandomMethod:   {},
}

// ValidBreakRules lists all valid break rules.
var ValidBreakRules = map[BreakRule]struct{}{
	StandardRule: {},
	AIDA1996Rule: {},
	AIDA2016Rule: {},
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid store backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// TiebreakPresets are the named sequences an administrator can start from.
// Every preset ends in coin_flip so rankings are always fully resolved.
var TiebreakPresets = map[string][]Criterion{
	"default":      {WinsCriterion, SpeaksCriterion, RanksCriterion, OpponentWinsCriterion, CoinFlipCriterion},
	"speaks_first": {WinsCriterion, SpeaksCriterion, AdjustedSpeaksCriterion, RanksCriterion, CoinFlipCriterion},
	"strength":     {WinsCriterion, OpponentWinsCriterion, HeadToHeadCriterion, SpeaksCriterion, CoinFlipCriterion},
	"adjusted":     {WinsCriterion, AdjustedSpeaksCriterion, AdjustedRanksCriterion, SpeaksCriterion, RanksCriterion, CoinFlipCriterion},
}

// DefaultTiebreakPreset names the preset used when nothing is configured.
const DefaultTiebreakPreset = "default"

// QualityWeights are the pairing-quality penalties.
type QualityWeights struct {
	Institution float64 `json:"institution"` // same-institution penalty when protection is on
	Rematch     float64 `json:"rematch"`     // rematch penalty when avoidance is on
	WinGap      float64 `json:"win_gap"`     // per win of difference
	SpeakGap    float64 `json:"speak_gap"`   // per speaker point of difference
}

// MaxQuality is the starting quality of every candidate pairing.
const MaxQuality = 100.0

// DefaultQualityWeights returns the stock pairing penalties.
func DefaultQualityWeights() QualityWeights {
	return QualityWeights{
		Institution: 50,
		Rematch:     30,
		WinGap:      10,
		SpeakGap:    0.1,
	}
}
