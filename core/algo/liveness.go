package algo

import (
	"fmt"

	"github.com/huangsam/tabulate/schema"
)

// ComputeLiveness classifies one team's break prospects from win counts alone.
// A team is dead when at least breakSize other teams already have more wins
// than it can reach, safe when fewer than breakSize other teams can still
// reach its current wins, and live otherwise.
func ComputeLiveness(team schema.Standing, standings []schema.Standing, breakSize, roundsRemaining int) schema.Liveness {
	if breakSize <= 0 {
		return schema.DeadStatus
	}
	roundsRemaining = max(roundsRemaining, 0)
	best := team.Wins + roundsRemaining

	ahead, reachable := 0, 0
	for _, other := range standings {
		if other.TeamID == team.TeamID {
			continue
		}
		if other.Wins > best {
			ahead++
		}
		if other.Wins+roundsRemaining >= team.Wins {
			reachable++
		}
	}
	switch {
	case ahead >= breakSize:
		return schema.DeadStatus
	case reachable < breakSize:
		return schema.SafeStatus
	default:
		return schema.LiveStatus
	}
}

// ComputeAllLiveness classifies every team in standings order.
func ComputeAllLiveness(standings []schema.Standing, breakSize, roundsRemaining int) ([]schema.LivenessResult, error) {
	if breakSize <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidBreakSize, breakSize)
	}
	teams := uniqueTeams(standings)
	results := make([]schema.LivenessResult, len(teams))
	for i, t := range teams {
		results[i] = schema.LivenessResult{
			TeamID: t.TeamID,
			Wins:   t.Wins,
			Status: ComputeLiveness(t, teams, breakSize, roundsRemaining),
		}
	}
	return results, nil
}
