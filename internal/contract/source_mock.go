package contract

import (
	"context"

	"github.com/huangsam/tabulate/schema"
	"github.com/stretchr/testify/mock"
)

// MockTournamentSource is a mock implementation of TournamentSource for testing.
type MockTournamentSource struct {
	mock.Mock
}

var _ TournamentSource = &MockTournamentSource{} // Compile-time check

// Load implements the TournamentSource interface.
func (m *MockTournamentSource) Load(ctx context.Context, path string) (*schema.Tournament, error) {
	args := m.Called(ctx, path)
	t, _ := args.Get(0).(*schema.Tournament)
	return t, args.Error(1)
}
