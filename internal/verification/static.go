package verification

import (
	"context"
	"time"
)

// StaticOracle answers every request with fixed results. Used in development
// and tests; Latency mimics a remote call.
type StaticOracle struct {
	Latency   time.Duration
	Ownership OwnershipResult
	Identity  IdentityResult
	Face      FaceResult
}

// NewApprovingOracle returns a StaticOracle that verifies everything.
func NewApprovingOracle() *StaticOracle {
	return &StaticOracle{
		Ownership: OwnershipResult{MatchFound: true, Confidence: 99},
		Identity:  IdentityResult{Similarity: 98, Reason: "static oracle"},
		Face:      FaceResult{IsSamePerson: true, Confidence: 97, Reason: "static oracle"},
	}
}

func (o *StaticOracle) VerifyDocumentOwnership(ctx context.Context, _, _ string) (OwnershipResult, error) {
	if err := o.wait(ctx); err != nil {
		return OwnershipResult{}, err
	}
	return o.Ownership, nil
}

func (o *StaticOracle) VerifyIdentityIntegrity(ctx context.Context, _, registeredName string) (IdentityResult, error) {
	if err := o.wait(ctx); err != nil {
		return IdentityResult{}, err
	}
	res := o.Identity
	if res.ExtractedName == "" {
		res.ExtractedName = registeredName
	}
	return res, nil
}

func (o *StaticOracle) CompareFace(ctx context.Context, _, _ string) (FaceResult, error) {
	if err := o.wait(ctx); err != nil {
		return FaceResult{}, err
	}
	return o.Face, nil
}

func (o *StaticOracle) wait(ctx context.Context) error {
	if o.Latency <= 0 {
		return nil
	}
	t := time.NewTimer(o.Latency)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
