package dispute

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	POST(path string, body interface{}) error
	GET(path string, headers map[string]string) error
	GetStatusCode() int
	GetResponseField(field string) (interface{}, error)
	Remember(name, value string)
	Recall(name string) (string, error)
}

// RegisterSteps registers complaint step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &disputeSteps{tc: tc}

	ctx.Step(`^I file a complaint "([^"]*)" about the listing$`, steps.fileListingComplaint)
	ctx.Step(`^I file an account complaint "([^"]*)"$`, steps.fileAccountComplaint)
	ctx.Step(`^I resolve the complaint with "([^"]*)"$`, steps.resolveComplaint)
	ctx.Step(`^I list open complaints$`, steps.listOpenComplaints)
}

type disputeSteps struct {
	tc TestContext
}

func (s *disputeSteps) fileListingComplaint(ctx context.Context, message string) error {
	propertyID, err := s.tc.Recall("property")
	if err != nil {
		return err
	}
	return s.file(map[string]string{"message": message, "property_id": propertyID})
}

func (s *disputeSteps) fileAccountComplaint(ctx context.Context, message string) error {
	return s.file(map[string]string{"message": message})
}

// file remembers the created complaint as "complaint" on success.
func (s *disputeSteps) file(body map[string]string) error {
	if err := s.tc.POST("/complaints", body); err != nil {
		return err
	}
	if s.tc.GetStatusCode() != 201 {
		return nil
	}
	complaintID, err := s.tc.GetResponseField("id")
	if err != nil {
		return err
	}
	s.tc.Remember("complaint", fmt.Sprint(complaintID))
	return nil
}

func (s *disputeSteps) resolveComplaint(ctx context.Context, action string) error {
	complaintID, err := s.tc.Recall("complaint")
	if err != nil {
		return err
	}
	return s.tc.POST("/admin/complaints/"+complaintID+"/resolve", map[string]string{"action": action})
}

func (s *disputeSteps) listOpenComplaints(ctx context.Context) error {
	return s.tc.GET("/admin/complaints", nil)
}
