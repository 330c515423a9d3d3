package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allStatuses = []Status{
	StatusPending, StatusConfirmed, StatusProcessing,
	StatusShipped, StatusDelivered, StatusCancelled,
}

func TestTransitionTable(t *testing.T) {
	legal := map[Status]map[Status]bool{
		StatusPending:    {StatusConfirmed: true, StatusCancelled: true},
		StatusConfirmed:  {StatusProcessing: true, StatusCancelled: true},
		StatusProcessing: {StatusShipped: true, StatusCancelled: true},
		StatusShipped:    {StatusDelivered: true},
		StatusDelivered:  {},
		StatusCancelled:  {},
	}

	for _, from := range allStatuses {
		for _, to := range allStatuses {
			want := legal[from][to]
			assert.Equal(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestTerminalStates(t *testing.T) {
	for _, s := range allStatuses {
		terminal := s == StatusDelivered || s == StatusCancelled
		assert.Equal(t, terminal, s.Terminal(), "%s", s)
		if terminal {
			assert.Empty(t, s.NextStatuses())
		} else {
			assert.NotEmpty(t, s.NextStatuses())
		}
	}
}

func TestSelfTransitionsAreIllegal(t *testing.T) {
	for _, s := range allStatuses {
		assert.False(t, s.CanTransitionTo(s), "%s", s)
	}
}

func TestParseStatus(t *testing.T) {
	for _, s := range allStatuses {
		parsed, err := ParseStatus(string(s))
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}

	for _, bad := range []string{"", "packed", "PENDING", "returned"} {
		_, err := ParseStatus(bad)
		assert.Error(t, err, "%q", bad)
	}
}
