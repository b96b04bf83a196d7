package waitlist

import (
	"github.com/akeren/waitlist-api/internal/models"
	"github.com/akeren/waitlist-api/pkg/constants"
)

const (
	SignupSuccessMessage  = "Success! Welcome to the waitlist. Check your email."
	DuplicateEmailMessage = "Email already registered on the waitlist."
	InvalidEmailMessage   = "A valid email address is required."
)

// emailRules is shared by request binding and the service-level check.
const emailRules = "required,email,max=255"

type SignupRequest struct {
	Email string `json:"email" binding:"required,email,max=255"`
}

type SignupResponse struct {
	Message string `json:"message"`
}

type WaitlistEntryResponse struct {
	ID         uint   `json:"id"`
	Email      string `json:"email"`
	SignupDate string `json:"signup_date"`
}

func ToWaitlistEntryResponse(entry *models.WaitlistEntry) WaitlistEntryResponse {
	if entry == nil {
		return WaitlistEntryResponse{}
	}
	return WaitlistEntryResponse{
		ID:         entry.ID,
		Email:      entry.Email,
		SignupDate: entry.SignupDate.UTC().Format(constants.SignupDateFormat),
	}
}
