package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "trustestate/pkg/domain"
	dErrors "trustestate/pkg/domain-errors"
)

var fixedNow = time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)

func newTestUser(t *testing.T) *User {
	t.Helper()
	u, err := NewUser(id.NewUserID(), " Ada Lovelace ", " Ada@Example.com ", "hash", id.RoleTenant, fixedNow)
	require.NoError(t, err)
	return u
}

func TestNewUser(t *testing.T) {
	u := newTestUser(t)
	assert.Equal(t, "Ada Lovelace", u.Name)
	assert.Equal(t, "ada@example.com", u.Email)
	assert.Equal(t, KYCNone, u.KYCStep)
	assert.Zero(t, u.FraudScore)

	_, err := NewUser(id.NewUserID(), "", "a@b.c", "", id.RoleTenant, fixedNow)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))

	_, err = NewUser(id.NewUserID(), "Ada", "not-an-email", "", id.RoleTenant, fixedNow)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))

	_, err = NewUser(id.NewUserID(), "Ada", "a@b.c", "", id.Role("Owner"), fixedNow)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
}

func TestSuspendAndReactivate(t *testing.T) {
	u := newTestUser(t)

	u.Suspend(fixedNow)
	require.NotNil(t, u.SuspensionUntil)
	assert.Equal(t, time.Date(2025, 4, 15, 10, 0, 0, 0, time.UTC), *u.SuspensionUntil)
	assert.True(t, u.IsSuspended(fixedNow))
	assert.True(t, dErrors.HasCode(u.CanLogin(fixedNow), dErrors.CodeForbidden))
	assert.NoError(t, u.CanLogin(fixedNow.AddDate(0, 4, 0)), "expired suspension no longer blocks login")

	u.Ban(fixedNow)
	assert.True(t, u.IsFlagged())

	u.Reactivate(fixedNow)
	assert.False(t, u.IsBanned)
	assert.Nil(t, u.SuspensionUntil)
	assert.NoError(t, u.CanLogin(fixedNow))
}

func TestIsFlagged_ScoreBoundary(t *testing.T) {
	u := newTestUser(t)
	u.FraudScore = 20
	assert.False(t, u.IsFlagged())
	u.FraudScore = 21
	assert.True(t, u.IsFlagged())
}

func TestKYCProgression(t *testing.T) {
	u := newTestUser(t)

	assert.True(t, dErrors.HasCode(u.CanAdvanceKYC(KYCBiometricCaptured), dErrors.CodeInvariantViolation), "steps cannot be skipped")
	assert.True(t, dErrors.HasCode(u.CanAdvanceKYC(4), dErrors.CodeValidation))

	for _, step := range []KYCStep{KYCIDUploaded, KYCBiometricCaptured, KYCComplete} {
		require.NoError(t, u.CanAdvanceKYC(step))
		u.ApplyKYCStep(step, fixedNow)
	}
	assert.True(t, u.KYCVerified)
	assert.True(t, u.EmailVerified)
	assert.False(t, u.PhoneVerified, "no phone on file")
	assert.True(t, dErrors.HasCode(u.CanAdvanceKYC(KYCComplete), dErrors.CodeConflict))
}

func TestMarkKYCVerified(t *testing.T) {
	u := newTestUser(t)
	u.MarkKYCVerified(fixedNow)
	assert.True(t, u.KYCVerified)
	assert.Equal(t, KYCComplete, u.KYCStep)
}

func TestClone_IsDeep(t *testing.T) {
	u := newTestUser(t)
	u.Suspend(fixedNow)

	c := u.Clone()
	*c.SuspensionUntil = fixedNow
	assert.NotEqual(t, fixedNow, *u.SuspensionUntil)
}
