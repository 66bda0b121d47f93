// Package token issues and validates the registry's HS256 access tokens.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	id "trustestate/pkg/domain"
	dErrors "trustestate/pkg/domain-errors"
	authmw "trustestate/pkg/platform/middleware/auth"
)

// Claims carries the principal in the token. The user ID is the subject.
type Claims struct {
	Name string `json:"name"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// JWTService signs access tokens at login and authenticates them on every
// protected request.
type JWTService struct {
	key    []byte
	issuer string
	now    func() time.Time
}

func NewJWTService(signingKey, issuer string) *JWTService {
	return &JWTService{key: []byte(signingKey), issuer: issuer, now: time.Now}
}

// GenerateAccessToken signs a token for the principal, valid for expiresIn.
func (s *JWTService) GenerateAccessToken(userID id.UserID, name string, role id.Role, expiresIn time.Duration) (string, error) {
	issued := s.now()
	claims := Claims{
		Name: name,
		Role: role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.issuer,
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(issued.Add(expiresIn)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
}

// ValidateToken checks signature, issuer and expiry.
func (s *JWTService) ValidateToken(raw string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) { return s.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, dErrors.New(dErrors.CodeUnauthorized, "token has expired")
	case err != nil:
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}
	return claims, nil
}

// Authenticate resolves a bearer token to the principal placed in request
// context by authmw.RequireAuth.
func (s *JWTService) Authenticate(raw string) (authmw.Principal, error) {
	claims, err := s.ValidateToken(raw)
	if err != nil {
		return authmw.Principal{}, err
	}
	userID, err := id.ParseUserID(claims.Subject)
	if err != nil {
		return authmw.Principal{}, dErrors.New(dErrors.CodeUnauthorized, "invalid token subject")
	}
	role, err := id.ParseRole(claims.Role)
	if err != nil {
		return authmw.Principal{}, dErrors.New(dErrors.CodeUnauthorized, "invalid token role")
	}
	return authmw.Principal{UserID: userID, Name: claims.Name, Role: role}, nil
}
