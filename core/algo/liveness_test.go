package algo

import (
	"testing"

	"github.com/huangsam/tabulate/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func livenessField() []schema.Standing {
	return []schema.Standing{
		standing(1, "a", "", 5, 0),
		standing(2, "b", "", 4, 0),
		standing(3, "c", "", 4, 0),
		standing(4, "d", "", 3, 0),
		standing(5, "e", "", 1, 0),
	}
}

func TestComputeLiveness(t *testing.T) {
	field := livenessField()
	tests := []struct {
		name            string
		team            int
		roundsRemaining int
		want            schema.Liveness
	}{
		{"leader with rounds left", 0, 1, schema.LiveStatus},
		{"leader after last round", 0, 0, schema.SafeStatus},
		{"middle team", 3, 1, schema.LiveStatus},
		{"too far behind", 4, 1, schema.DeadStatus},
		{"out of rounds", 3, 0, schema.DeadStatus},
		{"second after last round", 1, 0, schema.LiveStatus},
		{"negative rounds treated as zero", 0, -3, schema.SafeStatus},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeLiveness(field[tt.team], field, 2, tt.roundsRemaining))
		})
	}
}

func TestComputeAllLiveness(t *testing.T) {
	results, err := ComputeAllLiveness(livenessField(), 2, 1)
	require.NoError(t, err)
	require.Len(t, results, 5)
	assert.Equal(t, "a", results[0].TeamID)
	assert.Equal(t, 5, results[0].Wins)
	assert.Equal(t, schema.DeadStatus, results[4].Status)

	_, err = ComputeAllLiveness(livenessField(), 0, 1)
	assert.ErrorIs(t, err, ErrInvalidBreakSize)
}

func TestComputeLivenessDoesNotAlterBreak(t *testing.T) {
	field := livenessField()
	category := schema.BreakCategory{ID: "open", BreakSize: 2}
	before, err := GenerateBreak(field, category, nil, nil)
	require.NoError(t, err)
	_, err = ComputeAllLiveness(field, 2, 1)
	require.NoError(t, err)
	after, err := GenerateBreak(field, category, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}
