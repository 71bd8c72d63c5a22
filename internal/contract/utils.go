package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/tabulate/schema"
)

// Break label constants.
const (
	BreakingValue = "Breaking" // Team holds a break slot
	OutValue      = "-"        // Team is outside the break without a remark
)

// Color variables for console output.
var (
	BreakingColor   = color.New(color.FgGreen, color.Bold)   // breaking teams and safe liveness
	PromotedColor   = color.New(color.FgGreen)               // promoted into the break
	CappedColor     = color.New(color.FgMagenta, color.Bold) // held back by an institution cap
	IneligibleColor = color.New(color.FgRed, color.Bold)     // barred from the category
	OtherColor      = color.New(color.FgCyan)                // different_break and similar notes
	CoinFlipColor   = color.New(color.FgYellow)              // separated only by the coin flip
)

// GetPlainBreakLabel returns the plain label for a break result. This is the
// core logic used for CSV, JSON, and table printing.
func GetPlainBreakLabel(r schema.BreakResult) string {
	switch {
	case r.Remark != schema.NoRemark:
		return string(r.Remark)
	case r.IsBreaking:
		return BreakingValue
	default:
		return OutValue
	}
}

// GetColorBreakLabel returns a colored break label for console output (table).
func GetColorBreakLabel(r schema.BreakResult) string {
	text := GetPlainBreakLabel(r)

	switch r.Remark {
	case schema.PromotedRemark:
		return PromotedColor.Sprint(text)
	case schema.CappedRemark:
		return CappedColor.Sprint(text)
	case schema.IneligibleRemark:
		return IneligibleColor.Sprint(text)
	case schema.DifferentBreakRemark:
		return OtherColor.Sprint(text)
	case schema.CoinFlipRemark:
		return CoinFlipColor.Sprint(text)
	}
	if r.IsBreaking {
		return BreakingColor.Sprint(text)
	}
	return text
}

// GetColorLivenessLabel returns a colored liveness status for console output.
func GetColorLivenessLabel(status schema.Liveness) string {
	text := string(status)
	switch status {
	case schema.SafeStatus:
		return BreakingColor.Sprint(text)
	case schema.LiveStatus:
		return CoinFlipColor.Sprint(text)
	default: // "dead"
		return IneligibleColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path means os.Stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetDBFilePath returns the path to the SQLite DB file for the run store.
func GetDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".tabulate.db"
	}
	return filepath.Join(homeDir, ".tabulate.db")
}

// TruncateName shortens a display name to maxWidth runes with an ellipsis suffix.
// Requires maxWidth > 3 so there is room for the "..." and at least one character.
func TruncateName(name string, maxWidth int) string {
	runes := []rune(name)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return name
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
