package contract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/huangsam/tabulate/schema"
	"gopkg.in/yaml.v3"
)

// FileSource loads a tournament from a YAML or JSON file on disk.
type FileSource struct{}

var _ TournamentSource = FileSource{} // Compile-time check

// Load implements the TournamentSource interface.
func (FileSource) Load(ctx context.Context, path string) (*schema.Tournament, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tournament file: %w", err)
	}
	t, err := DecodeTournament(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if t.Name == "" {
		t.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return t, nil
}

// DecodeTournament parses tournament YAML (JSON is accepted as a YAML subset)
// and checks the roster. Unknown keys are rejected.
func DecodeTournament(data []byte) (*schema.Tournament, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var t schema.Tournament
	if err := dec.Decode(&t); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if err := validateRoster(&t); err != nil {
		return nil, err
	}
	return &t, nil
}

// validateRoster rejects empty and repeated team or judge ids.
func validateRoster(t *schema.Tournament) error {
	teams := make(map[string]struct{}, len(t.Teams))
	for i, team := range t.Teams {
		if strings.TrimSpace(team.ID) == "" {
			return fmt.Errorf("team %d has an empty id", i+1)
		}
		if _, dup := teams[team.ID]; dup {
			return fmt.Errorf("duplicate team id %q", team.ID)
		}
		teams[team.ID] = struct{}{}
	}
	judges := make(map[string]struct{}, len(t.Judges))
	for i, judge := range t.Judges {
		if strings.TrimSpace(judge.ID) == "" {
			return fmt.Errorf("judge %d has an empty id", i+1)
		}
		if _, dup := judges[judge.ID]; dup {
			return fmt.Errorf("duplicate judge id %q", judge.ID)
		}
		judges[judge.ID] = struct{}{}
	}
	for i, r := range t.Results {
		if r.Winner != "" && !r.Decided() {
			return fmt.Errorf("result %d has winner %q, expected aff or neg", i+1, r.Winner)
		}
	}
	return nil
}
