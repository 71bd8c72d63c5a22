package core

import (
	"context"
	"fmt"
	"os"

	"github.com/huangsam/tabulate/internal/contract"
	"github.com/huangsam/tabulate/schema"
)

// logRunHeader prints a concise, 2-line header for a tabulation run.
// Only the text format gets a header so machine-readable output stays clean.
func logRunHeader(ctx context.Context, cfg *contract.Config, t *schema.Tournament, command string, sequence []schema.Criterion) {
	if shouldSuppressHeader(ctx) || cfg.Output != schema.TextOut {
		return
	}

	// Line 1: tournament and command
	_, _ = fmt.Fprintf(os.Stdout, "🏆 Tournament: %s (%s)\n", t.Name, command)

	// Line 2: which results are counted and how ties are broken
	round := "all rounds"
	if cfg.Round > 0 {
		round = fmt.Sprintf("rounds 1-%d", cfg.Round)
	}
	_, _ = fmt.Fprintf(os.Stdout, "📋 Results: %s, %d teams, tiebreakers: %v\n", round, len(t.Teams), sequence)
}
