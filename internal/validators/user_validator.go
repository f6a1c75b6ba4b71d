package validators

import (
	"strings"

	"easyride/internal/utils"
)

type SignUpRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=128"`
	Role     string `json:"role" validate:"required,oneof=passenger driver"`
}

type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ConfirmEmailRequest struct {
	Code string `json:"code" validate:"required"`
}

type ProfileUpdateRequest struct {
	FullName string `json:"full_name" validate:"not_blank,max=100"`
	Phone    string `json:"phone" validate:"not_blank,phone_number"`
	Address  string `json:"address" validate:"not_blank,max=255"`
}

// DeleteAccountRequest re-confirms the account before it is removed.
type DeleteAccountRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type DeviceTokenRequest struct {
	Token string `json:"token" validate:"not_blank,max=4096"`
}

func ValidateSignUp(req *SignUpRequest) ValidationErrors {
	req.Email = utils.NormalizeEmail(req.Email)
	req.Role = strings.ToLower(strings.TrimSpace(req.Role))
	return ValidateStruct(req)
}

func ValidateSignIn(req *SignInRequest) ValidationErrors {
	req.Email = utils.NormalizeEmail(req.Email)
	return ValidateStruct(req)
}

func ValidateProfileUpdate(req *ProfileUpdateRequest) ValidationErrors {
	req.FullName = strings.TrimSpace(req.FullName)
	req.Phone = strings.TrimSpace(req.Phone)
	req.Address = strings.TrimSpace(req.Address)
	return ValidateStruct(req)
}

func ValidateDeleteAccount(req *DeleteAccountRequest) ValidationErrors {
	req.Email = strings.TrimSpace(req.Email)
	return ValidateStruct(req)
}
