// Package verification talks to the external document and identity oracle.
// The registry treats its answers as opaque predicates gating enrollment and
// KYC; no matching happens in-process.
package verification

import (
	"context"
)

const (
	OwnershipConfidenceThreshold = 90
	IdentitySimilarityThreshold  = 90
	FaceConfidenceThreshold      = 85
)

// Oracle is the verification collaborator.
type Oracle interface {
	VerifyDocumentOwnership(ctx context.Context, document, claimedOwner string) (OwnershipResult, error)
	VerifyIdentityIntegrity(ctx context.Context, idImage, registeredName string) (IdentityResult, error)
	CompareFace(ctx context.Context, idImage, faceImage string) (FaceResult, error)
}

type OwnershipResult struct {
	MatchFound bool    `json:"match_found"`
	Confidence float64 `json:"confidence"`
}

// Verified reports a name match at or above the ownership threshold.
func (r OwnershipResult) Verified() bool {
	return r.MatchFound && r.Confidence >= OwnershipConfidenceThreshold
}

type IdentityResult struct {
	ExtractedName string  `json:"extracted_name"`
	Similarity    float64 `json:"similarity"`
	IsTampered    bool    `json:"is_tampered"`
	Reason        string  `json:"reason"`
}

func (r IdentityResult) Verified() bool {
	return r.Similarity >= IdentitySimilarityThreshold && !r.IsTampered
}

type FaceResult struct {
	IsSamePerson bool    `json:"is_same_person"`
	Confidence   float64 `json:"confidence"`
	Reason       string  `json:"reason"`
}

func (r FaceResult) Verified() bool {
	return r.IsSamePerson && r.Confidence >= FaceConfidenceThreshold
}
