package trace

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMission(t *testing.T) {
	tc := NewMission()

	_, err := uuid.Parse(tc.CorrelationID)
	require.NoError(t, err)
	assert.Empty(t, tc.RequestID)

	other := NewMission()
	assert.NotEqual(t, tc.CorrelationID, other.CorrelationID)
}

func TestWithCorrelationID(t *testing.T) {
	tc := WithCorrelationID("mission-42")
	assert.Equal(t, "mission-42", tc.CorrelationID)
	assert.Empty(t, tc.RequestID)

	generated := WithCorrelationID("")
	_, err := uuid.Parse(generated.CorrelationID)
	assert.NoError(t, err)
}

func TestNextAttempt(t *testing.T) {
	mission := NewMission()

	first := mission.NextAttempt()
	second := mission.NextAttempt()

	// Correlation id is stable across attempts; request ids are fresh.
	assert.Equal(t, mission.CorrelationID, first.CorrelationID)
	assert.Equal(t, mission.CorrelationID, second.CorrelationID)
	assert.NotEmpty(t, first.RequestID)
	assert.NotEmpty(t, second.RequestID)
	assert.NotEqual(t, first.RequestID, second.RequestID)

	// Deriving attempts does not mutate the mission context.
	assert.Empty(t, mission.RequestID)
}
