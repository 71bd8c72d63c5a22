package algo

import "github.com/huangsam/tabulate/schema"

func pts(v float64) *float64 { return &v }

// standing builds a ranked standing for tests.
func standing(rank int, id, inst string, wins int, speaks float64) schema.Standing {
	return schema.Standing{
		Rank: rank,
		TeamRecord: schema.TeamRecord{
			TeamID:      id,
			Name:        "Team " + id,
			Institution: inst,
			Wins:        wins,
			Speaks:      speaks,
		},
	}
}

func ids(standings []schema.Standing) []string {
	out := make([]string, len(standings))
	for i, s := range standings {
		out[i] = s.TeamID
	}
	return out
}
