// Package risk classifies users and properties from their fraud score and
// recorded signals. It holds no state; services call it before listing,
// finalizing or surfacing entities on the fraud desk.
package risk

import (
	"time"

	dErrors "trustestate/pkg/domain-errors"
)

const (
	// FlagThreshold is exclusive: a score of exactly 20 is not flagged.
	FlagThreshold = 20
	// CriticalThreshold is exclusive: a score of exactly 70 is not critical.
	CriticalThreshold = 70

	MaxScore = 100

	suspensionMonths = 3
)

// Level buckets a score for display.
type Level string

const (
	LevelClear    Level = "clear"
	LevelElevated Level = "elevated"
	LevelCritical Level = "critical"
)

// IsUserFlagged reports whether a user belongs on the risk watchlist.
func IsUserFlagged(banned bool, fraudScore int) bool {
	return banned || fraudScore > FlagThreshold
}

// IsPropertyFlagged reports whether a property belongs on the fraud desk.
func IsPropertyFlagged(fraudScore, signalCount int) bool {
	return fraudScore > FlagThreshold || signalCount > 0
}

// IsCritical reports whether a property score is in the critical band.
func IsCritical(fraudScore int) bool {
	return fraudScore > CriticalThreshold
}

// LevelOf buckets a score.
func LevelOf(fraudScore int) Level {
	switch {
	case IsCritical(fraudScore):
		return LevelCritical
	case fraudScore > FlagThreshold:
		return LevelElevated
	default:
		return LevelClear
	}
}

// IsListable reports whether a property may appear on the public marketplace.
func IsListable(fraudScore int) bool {
	return !IsCritical(fraudScore)
}

// CanFinalizeDeal refuses deal verification on critical-risk properties.
func CanFinalizeDeal(fraudScore int) error {
	if IsCritical(fraudScore) {
		return dErrors.New(dErrors.CodeForbidden, "property is under critical fraud review and cannot be finalized")
	}
	return nil
}

// SuspensionUntil returns now plus three calendar months. Day overflow rolls
// forward per time.AddDate (Nov 30 becomes Mar 2 in a non-leap year).
func SuspensionUntil(now time.Time) time.Time {
	return now.AddDate(0, suspensionMonths, 0)
}

// IsSuspended reports whether a suspension is still in force at now.
func IsSuspended(until *time.Time, now time.Time) bool {
	return until != nil && now.Before(*until)
}

// AddScore adds delta to score, clamped to [0, MaxScore].
func AddScore(score, delta int) int {
	return ClampScore(score + delta)
}

// ClampScore bounds a score to [0, MaxScore].
func ClampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > MaxScore {
		return MaxScore
	}
	return score
}
