package validation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	apperrors "hr-intake/internal/common/errors"

	"github.com/xeipuuv/gojsonschema"
)

// FormPayloadSchema accepts a flat object of scalar values. Nested objects and
// arrays are rejected before any field rule runs.
const FormPayloadSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"additionalProperties": {
		"type": ["string", "number", "boolean", "null"]
	}
}`

var formSchema = mustCompile(FormPayloadSchema)

var (
	// emailPattern keeps the 2-4 letter top-level domain limit of the paper form.
	emailPattern  = regexp.MustCompile(`(?i)^[a-z0-9._%+-]+@[a-z0-9.-]+\.[a-z]{2,4}$`)
	mobilePattern = regexp.MustCompile(`^[0-9]{10,15}$`)
)

func mustCompile(schema string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schema))
	if err != nil {
		panic(fmt.Sprintf("invalid built-in schema: %v", err))
	}
	return s
}

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// GetErrorMessages returns a simple list of error messages
func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Errors))
	for i, err := range vr.Errors {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return messages
}

// ValidateShape checks a decoded document against the form payload schema.
func ValidateShape(document interface{}) (*ValidationResult, error) {
	result, err := formSchema.Validate(gojsonschema.NewGoLoader(document))
	if err != nil {
		return nil, fmt.Errorf("schema validation error: %w", err)
	}

	vr := &ValidationResult{Valid: result.Valid()}
	for _, desc := range result.Errors() {
		vr.Errors = append(vr.Errors, ValidationError{
			Field:   desc.Field(),
			Message: desc.Description(),
			Code:    strings.ToUpper(desc.Type()),
		})
	}
	return vr, nil
}

// ParseFormPayload decodes a submission body into a field mapping.
// Every failure is a BAD_REQUEST error.
func ParseFormPayload(body []byte) (map[string]interface{}, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, apperrors.NewBadRequestError("No form data provided.", nil)
	}

	var document interface{}
	if err := json.Unmarshal(trimmed, &document); err != nil {
		return nil, apperrors.NewBadRequestError("Invalid JSON", err)
	}

	vr, err := ValidateShape(document)
	if err != nil {
		return nil, apperrors.NewBadRequestError("Invalid JSON", err)
	}
	if !vr.Valid {
		return nil, apperrors.NewBadRequestError("Invalid form data", fmt.Errorf("%s", strings.Join(vr.GetErrorMessages(), "; ")))
	}

	return document.(map[string]interface{}), nil
}

// ValidateEmail validates email format
func ValidateEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidateMobile accepts 10 to 15 digits and nothing else.
func ValidateMobile(mobile string) bool {
	return mobilePattern.MatchString(mobile)
}
