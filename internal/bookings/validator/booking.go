package validator

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"studyroom/pkg/logger"
	"studyroom/pkg/model"
	"studyroom/pkg/timeslot"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type BookingValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewBookingValidator(log *logger.Logger) *BookingValidator {
	v := validator.New()

	if err := v.RegisterValidation("packedtime", validatePackedTime); err != nil {
		log.Fatal("Failed to register 'packedtime' validator",
			"error", err,
		)
	}
	if err := v.RegisterValidation("bookingdate", validateBookingDate); err != nil {
		log.Fatal("Failed to register 'bookingdate' validator",
			"error", err,
		)
	}

	return &BookingValidator{
		validate: v,
		logger:   log,
	}
}

// validatePackedTime accepts well-formed HHMM values. 1060 is not 11:00; the
// encoding has no carry, so minute 60 and above is malformed.
func validatePackedTime(fl validator.FieldLevel) bool {
	return timeslot.Valid(int(fl.Field().Int()))
}

func validateBookingDate(fl validator.FieldLevel) bool {
	_, err := time.Parse(model.DateLayout, fl.Field().String())
	return err == nil
}

func (v *BookingValidator) Validate(req *model.BookingRequest) error {
	if err := v.validate.Struct(req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	return v.validateInterval(req.StartTime, req.EndTime)
}

func (v *BookingValidator) ValidateAdmin(req *model.AdminBookingRequest) error {
	if err := v.validate.Struct(req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	return v.validateInterval(req.StartTime, req.EndTime)
}

func (v *BookingValidator) validateInterval(start, end int) error {
	if err := timeslot.ValidateRange(start, end); err != nil {
		return ValidationErrors{
			ValidationError{
				Field:   "EndTime",
				Message: err.Error(),
			},
		}
	}
	return nil
}

func (v *BookingValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "packedtime":
			message = fmt.Sprintf("%s must be HHMM with hour 0-23 and minute 0-59", err.Field())
		case "bookingdate":
			message = fmt.Sprintf("%s must be a date in YYYY-MM-DD format", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
