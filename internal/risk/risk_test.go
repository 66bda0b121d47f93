package risk

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "trustestate/pkg/domain-errors"
)

func TestIsUserFlagged(t *testing.T) {
	tests := []struct {
		name   string
		banned bool
		score  int
		want   bool
	}{
		{"clean user", false, 0, false},
		{"score at threshold is not flagged", false, 20, false},
		{"score above threshold is flagged", false, 21, true},
		{"banned with zero score is flagged", true, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsUserFlagged(tt.banned, tt.score))
		})
	}
}

func TestIsPropertyFlagged(t *testing.T) {
	assert.False(t, IsPropertyFlagged(20, 0))
	assert.True(t, IsPropertyFlagged(21, 0))
	assert.True(t, IsPropertyFlagged(0, 1), "any recorded signal flags the property")
}

func TestIsCritical(t *testing.T) {
	assert.False(t, IsCritical(70))
	assert.True(t, IsCritical(71))
	assert.Equal(t, LevelElevated, LevelOf(70))
	assert.Equal(t, LevelCritical, LevelOf(71))
	assert.Equal(t, LevelClear, LevelOf(20))
}

func TestCanFinalizeDeal(t *testing.T) {
	require.NoError(t, CanFinalizeDeal(70))

	err := CanFinalizeDeal(71)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))
	assert.False(t, IsListable(71))
}

func TestSuspensionUntil(t *testing.T) {
	t.Run("adds three calendar months", func(t *testing.T) {
		now := time.Date(2025, 1, 15, 9, 30, 0, 0, time.UTC)
		assert.Equal(t, time.Date(2025, 4, 15, 9, 30, 0, 0, time.UTC), SuspensionUntil(now))
	})

	t.Run("day of month rolls over", func(t *testing.T) {
		now := time.Date(2025, 11, 30, 0, 0, 0, 0, time.UTC)
		assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), SuspensionUntil(now))
	})
}

func TestIsSuspended(t *testing.T) {
	now := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	future := now.Add(time.Hour)
	past := now.Add(-time.Hour)

	assert.False(t, IsSuspended(nil, now))
	assert.True(t, IsSuspended(&future, now))
	assert.False(t, IsSuspended(&past, now))
}

func TestAddScore(t *testing.T) {
	assert.Equal(t, 45, AddScore(15, 30))
	assert.Equal(t, 100, AddScore(90, 30))
	assert.Equal(t, 0, AddScore(5, -10))
}
