package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	POST(path string, body interface{}) error
	GetStatusCode() int
	GetResponseBody() []byte
	GetResponseField(field string) (interface{}, error)
	Password() string
	Unique(value string) string
	AdminCredentials() (string, string)
	SetToken(email, token string)
	UseIdentity(email string) error
	Remember(name, value string)
}

const adminPersona = "admin"

// RegisterSteps registers account and sign-in step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &identitySteps{tc: tc}

	ctx.Step(`^a registered (Landlord|Tenant) "([^"]*)" with email "([^"]*)"$`, steps.registeredUser)
	ctx.Step(`^I am signed in as "([^"]*)"$`, steps.signedInAs)
	ctx.Step(`^I am signed in as the seed admin$`, steps.signedInAsAdmin)
}

type identitySteps struct {
	tc TestContext
}

// registeredUser registers and signs in a persona. The user id is remembered
// as "user:<email>".
func (s *identitySteps) registeredUser(ctx context.Context, role, name, email string) error {
	err := s.tc.POST("/auth/register", map[string]string{
		"name":     name,
		"email":    s.tc.Unique(email),
		"password": s.tc.Password(),
		"role":     role,
	})
	if err != nil {
		return err
	}
	if s.tc.GetStatusCode() != 201 {
		return fmt.Errorf("register %s: status %d: %s", email, s.tc.GetStatusCode(), s.tc.GetResponseBody())
	}
	userID, err := s.tc.GetResponseField("id")
	if err != nil {
		return err
	}
	s.tc.Remember("user:"+email, fmt.Sprint(userID))
	return s.login(email, s.tc.Unique(email), s.tc.Password())
}

func (s *identitySteps) signedInAs(ctx context.Context, email string) error {
	return s.tc.UseIdentity(email)
}

func (s *identitySteps) signedInAsAdmin(ctx context.Context) error {
	email, password := s.tc.AdminCredentials()
	if email == "" || password == "" {
		return errors.New("seed admin credentials not configured (E2E_ADMIN_EMAIL, E2E_ADMIN_PASSWORD)")
	}
	return s.login(adminPersona, email, password)
}

func (s *identitySteps) login(persona, email, password string) error {
	if err := s.tc.POST("/auth/login", map[string]string{"email": email, "password": password}); err != nil {
		return err
	}
	if s.tc.GetStatusCode() != 200 {
		return fmt.Errorf("login %s: status %d: %s", email, s.tc.GetStatusCode(), s.tc.GetResponseBody())
	}
	token, err := s.tc.GetResponseField("access_token")
	if err != nil {
		return err
	}
	s.tc.SetToken(persona, fmt.Sprint(token))
	return nil
}
