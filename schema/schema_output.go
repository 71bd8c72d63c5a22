package schema

import "fmt"

// EnrichedStanding adds presentation data to a Standing.
type EnrichedStanding struct {
	Record string `json:"record"`
	Standing
}

// EnrichedPairing adds presentation data to a GeneratedPairing.
type EnrichedPairing struct {
	Number  int    `json:"number"`
	AffName string `json:"aff_name"`
	NegName string `json:"neg_name"`
	GeneratedPairing
}

// EnrichedBreak adds presentation data to a BreakResult.
type EnrichedBreak struct {
	Name        string `json:"name"`
	Institution string `json:"institution"`
	BreakResult
}

// PairingOutput is the full output of one pairing run.
type PairingOutput struct {
	Round    int                `json:"round"`
	Method   PairingMethod      `json:"method"`
	Pairings []GeneratedPairing `json:"pairings"`
	Byes     []string           `json:"byes"`
}

// FormatRecord renders a win-loss record as "W-L".
func FormatRecord(wins, losses int) string {
	return fmt.Sprintf("%d-%d", wins, losses)
}

// EnrichStandings adds the win-loss record string to each standing.
func EnrichStandings(standings []Standing) []EnrichedStanding {
	output := make([]EnrichedStanding, len(standings))
	for i, s := range standings {
		output[i] = EnrichedStanding{
			Record:   FormatRecord(s.Wins, s.Losses),
			Standing: s,
		}
	}
	return output
}

// EnrichPairings numbers each pairing and resolves team names from the roster.
// Unknown ids fall back to the id itself.
func EnrichPairings(pairings []GeneratedPairing, teams []Team) []EnrichedPairing {
	names := TeamNames(teams)
	output := make([]EnrichedPairing, len(pairings))
	for i, p := range pairings {
		output[i] = EnrichedPairing{
			Number:           i + 1,
			AffName:          lookupName(names, p.AffID),
			NegName:          lookupName(names, p.NegID),
			GeneratedPairing: p,
		}
	}
	return output
}

// EnrichBreaks resolves team name and institution for each break result.
func EnrichBreaks(results []BreakResult, teams []Team) []EnrichedBreak {
	byID := make(map[string]Team, len(teams))
	for _, t := range teams {
		byID[t.ID] = t
	}
	output := make([]EnrichedBreak, len(results))
	for i, r := range results {
		t := byID[r.TeamID]
		name := t.Name
		if name == "" {
			name = r.TeamID
		}
		output[i] = EnrichedBreak{
			Name:        name,
			Institution: t.Institution,
			BreakResult: r,
		}
	}
	return output
}

// TeamNames maps team id to display name.
func TeamNames(teams []Team) map[string]string {
	names := make(map[string]string, len(teams))
	for _, t := range teams {
		names[t.ID] = t.Name
	}
	return names
}

func lookupName(names map[string]string, id string) string {
	if n := names[id]; n != "" {
		return n
	}
	return id
}
