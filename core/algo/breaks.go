package algo

import (
	"cmp"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/huangsam/tabulate/schema"
)

// Configuration errors surfaced by the break generator.
var (
	ErrInvalidBreakSize  = errors.New("break size must be positive")
	ErrUnknownRule       = errors.New("unknown break rule")
	ErrDuplicateCategory = errors.New("duplicate break category")
)

// aidaInstitutionLimit is the best-placed teams per institution that may break
// under the AIDA rules.
const aidaInstitutionLimit = 3

// ValidateCategory checks a break category before it is used.
func ValidateCategory(category schema.BreakCategory) error {
	if category.BreakSize <= 0 {
		return fmt.Errorf("%w: category %q has break size %d", ErrInvalidBreakSize, category.ID, category.BreakSize)
	}
	rule := category.Rule
	if rule == "" {
		return nil
	}
	if _, ok := schema.ValidBreakRules[rule]; !ok {
		return fmt.Errorf("%w: %q in category %q", ErrUnknownRule, rule, category.ID)
	}
	return nil
}

// GenerateBreak produces one BreakResult per ranked team for one category.
// eligibility marks teams explicitly barred with false; otherBreaks maps team
// id to the category that already holds it.
func GenerateBreak(
	standings []schema.Standing,
	category schema.BreakCategory,
	eligibility map[string]bool,
	otherBreaks map[string]string,
) ([]schema.BreakResult, error) {
	if err := ValidateCategory(category); err != nil {
		return nil, err
	}
	rule := category.Rule
	if rule == "" {
		rule = schema.StandardRule
	}

	teams := uniqueTeams(standings)
	results := make([]schema.BreakResult, len(teams))
	instBroke := make(map[string]int)
	instPlace := make(map[string]int)
	overLimit := make([]bool, len(teams))
	filled := 0

	for i, t := range teams {
		res := &results[i]
		*res = schema.BreakResult{TeamID: t.TeamID, CategoryID: category.ID, Rank: t.Rank}

		if ok, marked := eligibility[t.TeamID]; marked && !ok {
			res.Remark = schema.IneligibleRemark
			continue
		}
		if held := otherBreaks[t.TeamID]; held != "" && held != category.ID {
			res.Remark = schema.DifferentBreakRemark
			continue
		}
		if rule != schema.StandardRule && t.Institution != "" {
			instPlace[t.Institution]++
			if instPlace[t.Institution] > aidaInstitutionLimit {
				overLimit[i] = true
			}
		}
		if overLimit[i] || capReached(category, instBroke, t.Institution) {
			res.Remark = schema.CappedRemark
			continue
		}
		if filled >= category.BreakSize {
			continue
		}
		filled++
		instBroke[t.Institution]++
		res.IsBreaking = true
		res.BreakRank = filled
	}

	if rule == schema.AIDA2016Rule {
		for i, t := range teams {
			if filled >= category.BreakSize {
				break
			}
			if !overLimit[i] || results[i].Remark != schema.CappedRemark {
				continue
			}
			if capReached(category, instBroke, t.Institution) {
				continue
			}
			filled++
			instBroke[t.Institution]++
			results[i].IsBreaking = true
			results[i].BreakRank = filled
			results[i].Remark = schema.PromotedRemark
		}
	}

	if filled == category.BreakSize {
		markCoinFlip(teams, results)
	}
	return results, nil
}

// GenerateAllBreaks runs GenerateBreak for every category in priority order,
// threading the team to category assignments from one category into the next.
// eligibility is keyed by category id.
func GenerateAllBreaks(
	standings []schema.Standing,
	categories []schema.BreakCategory,
	eligibility map[string]map[string]bool,
) (map[string][]schema.BreakResult, error) {
	seen := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		if err := ValidateCategory(c); err != nil {
			return nil, err
		}
		if _, dup := seen[c.ID]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateCategory, c.ID)
		}
		seen[c.ID] = struct{}{}
	}

	output := make(map[string][]schema.BreakResult, len(categories))
	assigned := map[string]string{}
	for _, c := range SortCategories(categories) {
		results, err := GenerateBreak(standings, c, eligibility[c.ID], assigned)
		if err != nil {
			return nil, err
		}
		output[c.ID] = results
		assigned = withAssignments(assigned, results)
	}
	return output, nil
}

// SortCategories orders categories for processing: priority ascending, then
// the general category first, then id.
func SortCategories(categories []schema.BreakCategory) []schema.BreakCategory {
	sorted := slices.Clone(categories)
	slices.SortStableFunc(sorted, func(a, b schema.BreakCategory) int {
		if c := cmp.Compare(a.Priority, b.Priority); c != 0 {
			return c
		}
		if a.IsGeneral != b.IsGeneral {
			if a.IsGeneral {
				return -1
			}
			return 1
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return sorted
}

// withAssignments returns a copy of assigned extended with the breaking teams.
func withAssignments(assigned map[string]string, results []schema.BreakResult) map[string]string {
	next := maps.Clone(assigned)
	for _, r := range results {
		if r.IsBreaking {
			next[r.TeamID] = r.CategoryID
		}
	}
	return next
}

func capReached(category schema.BreakCategory, instBroke map[string]int, institution string) bool {
	return category.InstitutionCap > 0 && institution != "" && instBroke[institution] >= category.InstitutionCap
}

// markCoinFlip flags the first team outside a full break when only the coin
// flip separated it from the last breaking team.
func markCoinFlip(teams []schema.Standing, results []schema.BreakResult) {
	last := -1
	for i, r := range results {
		if r.IsBreaking && r.Remark != schema.PromotedRemark {
			last = i
		}
	}
	if last < 0 {
		return
	}
	for i := last + 1; i < len(results); i++ {
		if teams[i].DecidedBy != schema.CoinFlipCriterion {
			return
		}
		if results[i].IsBreaking || results[i].Remark != schema.NoRemark {
			continue
		}
		results[i].Remark = schema.CoinFlipRemark
		return
	}
}
