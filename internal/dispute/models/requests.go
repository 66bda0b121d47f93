package models

import (
	"strings"

	"trustestate/pkg/platform/validation"
)

type FileComplaintRequest struct {
	Message    string `json:"message" validate:"required,notblank,max=2000"`
	PropertyID string `json:"property_id" validate:"omitempty,uuid"`
}

func (r *FileComplaintRequest) Validate() error {
	r.Message = strings.TrimSpace(r.Message)
	r.PropertyID = strings.TrimSpace(r.PropertyID)
	return validation.Struct(r)
}

type ResolveRequest struct {
	Action string `json:"action" validate:"required,oneof=verify-and-resolve dismiss-only"`
}

func (r *ResolveRequest) Validate() error {
	r.Action = strings.TrimSpace(r.Action)
	return validation.Struct(r)
}
