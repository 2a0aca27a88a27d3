// internal/services/application/validate-application-data/models.go
package validateapplicationdata

import "hr-intake/internal/models"

// AgreementSentinel is the only accepted value of the certification checkbox.
const AgreementSentinel = "agreed"

// FieldErrors maps a request key to its human-readable message.
type FieldErrors map[string]string

type Input struct {
	Fields map[string]interface{} `json:"fields"`
}

type Output struct {
	IsValid     bool                `json:"isValid"`
	Application *models.Application `json:"-"`
	Errors      FieldErrors         `json:"errors,omitempty"`
}

const (
	msgFullName         = "Full Name is required."
	msgEmailAdd         = "Valid Email Address is required."
	msgMobileNo         = "Valid Mobile Number (10-15 digits) is required."
	msgBirthDate        = "Birth Date is required."
	msgAgeFormat        = "Age must be between %d and %d."
	msgCurrentAddress   = "Current Address is required."
	msgSignatureName    = "Signature Over Complete Name is required."
	msgDateAccomplished = "Date Accomplished is required."
	msgDigitalSignature = "You must agree to the certification to proceed."
	msgTooLongFormat    = "%s must be at most %d characters."
)
