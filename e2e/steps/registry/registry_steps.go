package registry

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	POST(path string, body interface{}) error
	PATCH(path string, body interface{}) error
	GET(path string, headers map[string]string) error
	GetStatusCode() int
	GetResponseBody() []byte
	GetResponseField(field string) (interface{}, error)
	Unique(value string) string
	Remember(name, value string)
	Recall(name string) (string, error)
}

// RegisterSteps registers listing lifecycle step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &registrySteps{tc: tc}

	ctx.Step(`^I enroll a "(Sale|Rent)" listing at "([^"]*)" with document "([^"]*)"$`, steps.enrollListing)
	ctx.Step(`^I express interest in the listing$`, steps.expressInterest)
	ctx.Step(`^I initiate a deal with "([^"]*)"$`, steps.initiateDeal)
	ctx.Step(`^I verify the deal$`, steps.verifyDeal)
	ctx.Step(`^I set the listing status to "([^"]*)"$`, steps.setStatus)
	ctx.Step(`^I unlock the listing$`, steps.unlockListing)
	ctx.Step(`^I view the listing$`, steps.viewListing)
	ctx.Step(`^the listing status should be "([^"]*)"$`, steps.listingStatusShouldBe)
	ctx.Step(`^the listing history should have (\d+) entries$`, steps.listingHistoryShouldHave)
	ctx.Step(`^the marketplace should( not)? list the listing$`, steps.marketplaceShouldList)
}

type registrySteps struct {
	tc TestContext
}

// enrollListing remembers the created property as "property" on success.
func (s *registrySteps) enrollListing(ctx context.Context, kind, address, document string) error {
	err := s.tc.POST("/properties", map[string]any{
		"title":         "Listing at " + address,
		"address":       address,
		"price":         250000,
		"type":          kind,
		"images":        []string{"data:image/png;base64,AAAA"},
		"document":      s.tc.Unique(document),
		"share_consent": true,
	})
	if err != nil {
		return err
	}
	if s.tc.GetStatusCode() == 201 {
		propertyID, err := s.tc.GetResponseField("id")
		if err != nil {
			return err
		}
		s.tc.Remember("property", fmt.Sprint(propertyID))
	}
	return nil
}

func (s *registrySteps) propertyPath(suffix string) (string, error) {
	propertyID, err := s.tc.Recall("property")
	if err != nil {
		return "", err
	}
	return "/properties/" + propertyID + suffix, nil
}

func (s *registrySteps) action(suffix string, body any) error {
	path, err := s.propertyPath(suffix)
	if err != nil {
		return err
	}
	return s.tc.POST(path, body)
}

func (s *registrySteps) expressInterest(ctx context.Context) error {
	return s.action("/interest", nil)
}

func (s *registrySteps) initiateDeal(ctx context.Context, tenantEmail string) error {
	tenantID, err := s.tc.Recall("user:" + tenantEmail)
	if err != nil {
		return err
	}
	return s.action("/deal", map[string]string{"tenant_id": tenantID})
}

func (s *registrySteps) verifyDeal(ctx context.Context) error {
	return s.action("/verify", nil)
}

func (s *registrySteps) setStatus(ctx context.Context, status string) error {
	path, err := s.propertyPath("/status")
	if err != nil {
		return err
	}
	return s.tc.PATCH(path, map[string]string{"status": status})
}

func (s *registrySteps) unlockListing(ctx context.Context) error {
	path, err := s.propertyPath("/unlock")
	if err != nil {
		return err
	}
	return s.tc.POST("/admin"+path, nil)
}

func (s *registrySteps) viewListing(ctx context.Context) error {
	path, err := s.propertyPath("")
	if err != nil {
		return err
	}
	return s.tc.GET(path, nil)
}

func (s *registrySteps) listingStatusShouldBe(ctx context.Context, want string) error {
	status, err := s.tc.GetResponseField("status")
	if err != nil {
		return err
	}
	if fmt.Sprint(status) != want {
		return fmt.Errorf("expected status %s, got %v", want, status)
	}
	return nil
}

func (s *registrySteps) listingHistoryShouldHave(ctx context.Context, n int) error {
	log, err := s.tc.GetResponseField("lifecycle_log")
	if err != nil {
		return err
	}
	entries, ok := log.([]interface{})
	if !ok || len(entries) != n {
		return fmt.Errorf("expected %d lifecycle entries, got %v", n, log)
	}
	return nil
}

func (s *registrySteps) marketplaceShouldList(ctx context.Context, not string) error {
	propertyID, err := s.tc.Recall("property")
	if err != nil {
		return err
	}
	if err := s.tc.GET("/properties", nil); err != nil {
		return err
	}
	var page struct {
		Properties []struct {
			ID string `json:"id"`
		} `json:"properties"`
	}
	if err := json.Unmarshal(s.tc.GetResponseBody(), &page); err != nil {
		return err
	}
	listed := false
	for _, p := range page.Properties {
		if p.ID == propertyID {
			listed = true
			break
		}
	}
	if want := not == ""; listed != want {
		return fmt.Errorf("marketplace listed=%v, want %v", listed, want)
	}
	return nil
}
