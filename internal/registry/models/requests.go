package models

import (
	"strings"

	dErrors "trustestate/pkg/domain-errors"
	platformstrings "trustestate/pkg/platform/strings"
	"trustestate/pkg/platform/validation"
)

// EnrollRequest is a landlord's property submission. Images and the ownership
// document arrive as data URLs or base64.
type EnrollRequest struct {
	Title        string   `json:"title" validate:"required,notblank,max=200"`
	Address      string   `json:"address" validate:"required,notblank,max=300"`
	Description  string   `json:"description" validate:"max=5000"`
	Price        float64  `json:"price" validate:"gte=0"`
	Type         string   `json:"type" validate:"required,oneof=Sale Rent"`
	Images       []string `json:"images" validate:"required,min=1,max=20"`
	Document     string   `json:"document" validate:"required"`
	ShareConsent bool     `json:"share_consent"`
}

func (r *EnrollRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Address = strings.TrimSpace(r.Address)
	r.Description = strings.TrimSpace(r.Description)
	r.Type = strings.TrimSpace(r.Type)
	r.Images = platformstrings.CompactTrimmed(r.Images)
	r.Document = strings.TrimSpace(r.Document)
}

func (r *EnrollRequest) Validate() error {
	r.Normalize()
	if err := validation.Struct(r); err != nil {
		return err
	}
	if !r.ShareConsent {
		return dErrors.New(dErrors.CodeValidation, "share_consent is required for third-party document verification")
	}
	return nil
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func (r *UpdateStatusRequest) Validate() error {
	if err := validation.Struct(r); err != nil {
		return err
	}
	_, err := ParseStatus(r.Status)
	return err
}

type InitiateDealRequest struct {
	TenantID string `json:"tenant_id" validate:"required,uuid"`
}

func (r *InitiateDealRequest) Validate() error {
	r.TenantID = strings.TrimSpace(r.TenantID)
	return validation.Struct(r)
}
