// internal/services/application/validate-application-data/handler.go
package validateapplicationdata

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	apperrors "hr-intake/internal/common/errors"
	"hr-intake/internal/common/logger"
	"hr-intake/internal/common/validation"
	"hr-intake/internal/models"
)

const (
	Operation = "validate-application-data"
)

type Handler struct {
	config *Config
	logger logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	if config == nil {
		config = LoadConfig()
	}
	return &Handler{
		config: config,
		logger: log.WithFields(map[string]interface{}{"operation": Operation}),
	}
}

// Execute validates one submission. On failure the Output still carries the
// full error map and the error is a VALIDATION_FAILED StandardError.
func (h *Handler) Execute(_ context.Context, input *Input) (*Output, error) {
	app, fieldErrors := h.Validate(input.Fields)

	h.logger.Debug("validation completed", map[string]interface{}{
		"isValid":    len(fieldErrors) == 0,
		"errorCount": len(fieldErrors),
	})

	if len(fieldErrors) > 0 {
		return &Output{IsValid: false, Errors: fieldErrors},
			apperrors.NewValidationFailedError(fieldErrors)
	}
	return &Output{IsValid: true, Application: app}, nil
}

// Validate checks every rule without stopping at the first failure and
// normalizes the submitted values into an Application.
func (h *Handler) Validate(raw map[string]interface{}) (*models.Application, FieldErrors) {
	errs := FieldErrors{}
	app := models.NewApplication()

	for _, f := range models.FormFields() {
		v, err := normalize(f, raw[f.Key])
		if err != nil {
			errs[f.Key] = err.Error()
			continue
		}
		app.Set(f.Column, v)
	}

	check := func(key, msg string, ok bool) {
		if _, already := errs[key]; !already && !ok {
			errs[key] = msg
		}
	}

	check("fullName", msgFullName, app.String("full_name") != "")
	check("emailAdd", msgEmailAdd, validation.ValidateEmail(app.String("email_add")))
	check("mobileNo", msgMobileNo, validation.ValidateMobile(app.String("mobile_no")))
	check("birthDate", msgBirthDate, app.String("birth_date") != "")
	if _, bad := errs["age"]; bad {
		errs["age"] = fmt.Sprintf(msgAgeFormat, h.config.MinAge, h.config.MaxAge)
	} else if age, ok := app.Value("age").(int64); ok && (age < int64(h.config.MinAge) || age > int64(h.config.MaxAge)) {
		errs["age"] = fmt.Sprintf(msgAgeFormat, h.config.MinAge, h.config.MaxAge)
	}
	check("currentAddress", msgCurrentAddress, app.String("current_address") != "")
	check("signatureName", msgSignatureName, app.String("signature_name") != "")
	check("dateAccomplished", msgDateAccomplished, app.String("date_accomplished") != "")
	check("digitalSignature", msgDigitalSignature, raw["digitalSignature"] == AgreementSentinel)

	if len(errs) > 0 {
		return nil, errs
	}
	return app, nil
}

// normalize trims text, turns blanks into NULL and parses integer columns.
func normalize(f models.Field, v interface{}) (interface{}, error) {
	s, present := scalarString(v)
	if !present {
		return nil, nil
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if f.Kind != models.KindInteger {
		if utf8.RuneCountInString(s) > models.MaxTextLength {
			return nil, fmt.Errorf(msgTooLongFormat, f.Header, models.MaxTextLength)
		}
		return s, nil
	}

	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		fl, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || fl != math.Trunc(fl) {
			return nil, fmt.Errorf("%s must be a whole number", f.Header)
		}
		n = int64(fl)
	}
	return n, nil
}

func scalarString(v interface{}) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		return t, true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(t), true
	default:
		return fmt.Sprint(t), true
	}
}
