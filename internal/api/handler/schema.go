package handler

import "github.com/omsomani/account-system/internal/core/domain"

// --- Request / Response types ---

type signupRequest struct {
	FullName     string `json:"fullName"`
	MobileNumber string `json:"mobileNumber"`
	Password     string `json:"password"`
}

type loginRequest struct {
	MobileNumber string `json:"mobileNumber"`
	Password     string `json:"password"`
}

type updateProfileRequest struct {
	FullName     *string `json:"fullName,omitempty"`
	MobileNumber *string `json:"mobileNumber,omitempty"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type authResponse struct {
	Token   string         `json:"token"`
	Account domain.Account `json:"account"`
}

type profileResponse struct {
	Account domain.Account `json:"account"`
}

type messageResponse struct {
	Message string `json:"message"`
}
