package models

import (
	"strings"
	"time"

	"trustestate/internal/risk"
	id "trustestate/pkg/domain"
	dErrors "trustestate/pkg/domain-errors"
)

// KYCStep tracks identity verification progress.
type KYCStep int

const (
	KYCNone              KYCStep = 0
	KYCIDUploaded        KYCStep = 1
	KYCBiometricCaptured KYCStep = 2
	KYCComplete          KYCStep = 3
)

func (s KYCStep) IsValid() bool {
	return s >= KYCNone && s <= KYCComplete
}

// User is a registry account. Users are never hard-deleted; ban and
// suspension are the soft states.
type User struct {
	ID              id.UserID  `json:"id"`
	Name            string     `json:"name"`
	Email           string     `json:"email"`
	PasswordHash    string     `json:"-"`
	Role            id.Role    `json:"role"`
	Phone           string     `json:"phone,omitempty"`
	ProfileImage    string     `json:"profile_image,omitempty"`
	FraudScore      int        `json:"fraud_score"`
	IsBanned        bool       `json:"is_banned"`
	SuspensionUntil *time.Time `json:"suspension_until,omitempty"`
	KYCVerified     bool       `json:"is_kyc_verified"`
	KYCStep         KYCStep    `json:"kyc_step"`
	EmailVerified   bool       `json:"is_email_verified"`
	PhoneVerified   bool       `json:"is_phone_verified"`
	Version         int64      `json:"-"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// NewUser validates invariants and returns an unverified account.
func NewUser(userID id.UserID, name, email, passwordHash string, role id.Role, now time.Time) (*User, error) {
	name = strings.TrimSpace(name)
	email = NormalizeEmail(email)
	if userID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "user id is required")
	}
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "name is required")
	}
	if email == "" || !strings.Contains(email, "@") {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "valid email is required")
	}
	if !role.IsValid() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "invalid role")
	}
	return &User{
		ID:           userID,
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		KYCStep:      KYCNone,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsFlagged reports whether the user is on the risk watchlist.
func (u *User) IsFlagged() bool {
	return risk.IsUserFlagged(u.IsBanned, u.FraudScore)
}

// IsSuspended reports whether a suspension is in force at now.
func (u *User) IsSuspended(now time.Time) bool {
	return risk.IsSuspended(u.SuspensionUntil, now)
}

// CanLogin refuses banned and currently suspended accounts.
func (u *User) CanLogin(now time.Time) error {
	if u.IsBanned {
		return dErrors.New(dErrors.CodeForbidden, "account is banned")
	}
	if u.IsSuspended(now) {
		return dErrors.New(dErrors.CodeForbidden, "account is suspended until "+u.SuspensionUntil.UTC().Format(time.DateOnly))
	}
	return nil
}

func (u *User) Ban(now time.Time) {
	u.IsBanned = true
	u.UpdatedAt = now
}

// Suspend sets the suspension to now plus three calendar months.
func (u *User) Suspend(now time.Time) {
	until := risk.SuspensionUntil(now)
	u.SuspensionUntil = &until
	u.UpdatedAt = now
}

// Reactivate clears both ban and suspension unconditionally.
func (u *User) Reactivate(now time.Time) {
	u.IsBanned = false
	u.SuspensionUntil = nil
	u.UpdatedAt = now
}

// CanAdvanceKYC allows only the next step in sequence.
func (u *User) CanAdvanceKYC(step KYCStep) error {
	if !step.IsValid() || step == KYCNone {
		return dErrors.New(dErrors.CodeValidation, "kyc step must be between 1 and 3")
	}
	if step <= u.KYCStep {
		return dErrors.New(dErrors.CodeConflict, "kyc step already completed")
	}
	if step != u.KYCStep+1 {
		return dErrors.New(dErrors.CodeInvariantViolation, "kyc steps must be completed in order")
	}
	return nil
}

// ApplyKYCStep records progress. Finishing onboarding also confirms the
// contact channels captured along the way.
func (u *User) ApplyKYCStep(step KYCStep, now time.Time) {
	u.KYCStep = step
	if step == KYCComplete {
		u.KYCVerified = true
		u.EmailVerified = true
		u.PhoneVerified = u.Phone != ""
	}
	u.UpdatedAt = now
}

// MarkKYCVerified completes KYC regardless of the current step. Used when an
// admin upholds a complaint in the user's favour.
func (u *User) MarkKYCVerified(now time.Time) {
	u.KYCVerified = true
	u.KYCStep = KYCComplete
	u.UpdatedAt = now
}

// Clone returns a deep copy safe to hand across store boundaries.
func (u *User) Clone() *User {
	c := *u
	if u.SuspensionUntil != nil {
		t := *u.SuspensionUntil
		c.SuspensionUntil = &t
	}
	return &c
}
