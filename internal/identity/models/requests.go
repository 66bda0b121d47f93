package models

import (
	"strings"

	"trustestate/pkg/platform/validation"
)

type RegisterRequest struct {
	Name     string `json:"name" validate:"omitempty,max=120"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=128"`
	Role     string `json:"role" validate:"required,role"`
}

func (r *RegisterRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = NormalizeEmail(r.Email)
	r.Role = strings.TrimSpace(r.Role)
}

func (r *RegisterRequest) Validate() error {
	r.Normalize()
	return validation.Struct(r)
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Validate() error {
	r.Email = NormalizeEmail(r.Email)
	return validation.Struct(r)
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	User        *User  `json:"user"`
}

// UpdateProfileRequest carries optional self-service edits; nil leaves a
// field unchanged.
type UpdateProfileRequest struct {
	Name         *string `json:"name,omitempty" validate:"omitempty,notblank,max=120"`
	Phone        *string `json:"phone,omitempty" validate:"omitempty,max=32"`
	ProfileImage *string `json:"profile_image,omitempty" validate:"omitempty,max=2048"`
}

func (r *UpdateProfileRequest) Validate() error {
	return validation.Struct(r)
}

// KYCRequest submits evidence for the next verification step. Step 1 needs
// the ID image, step 2 the ID image and a live face capture.
type KYCRequest struct {
	Step      int    `json:"step" validate:"required,min=1,max=3"`
	IDImage   string `json:"id_image,omitempty" validate:"required_unless=Step 3"`
	FaceImage string `json:"face_image,omitempty" validate:"required_if=Step 2"`
}

func (r *KYCRequest) Validate() error {
	return validation.Struct(r)
}
