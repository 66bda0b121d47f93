package e2e

import (
	"github.com/cucumber/godog"

	"trustestate/e2e/steps/common"
	"trustestate/e2e/steps/dispute"
	"trustestate/e2e/steps/identity"
	"trustestate/e2e/steps/registry"
)

// RegisterSteps registers all step definitions from modular packages
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	// Register common steps (background, generic requests, assertions)
	common.RegisterSteps(ctx, tc)

	// Register account and sign-in steps
	identity.RegisterSteps(ctx, tc)

	// Register listing and deal steps
	registry.RegisterSteps(ctx, tc)

	// Register complaint steps
	dispute.RegisterSteps(ctx, tc)
}
