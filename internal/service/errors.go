package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Freeeeeet/tutor_scheduler/internal/schedule"
	"github.com/go-playground/validator/v10"
)

var (
	ErrValidation = errors.New("validation failed")
	ErrConflict   = errors.New("schedule conflict")

	ErrClassNotFound        = errors.New("class not found")
	ErrCourseNotFound       = errors.New("course not found")
	ErrRegistrationNotFound = errors.New("registration not found")
)

// ValidationError не заполнено обязательное поле или значение недопустимо.
// Операция прерывается без изменения состояния.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func newValidationError(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// ConflictError предлагаемые сессии пересекаются с уже занятым временем
type ConflictError struct {
	schedule.Conflict
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflicts with %s", e.Conflict.String())
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

// IsNotFound проверяет, что операция сослалась на неизвестный ID
func IsNotFound(err error) bool {
	return errors.Is(err, ErrClassNotFound) ||
		errors.Is(err, ErrCourseNotFound) ||
		errors.Is(err, ErrRegistrationNotFound)
}

// validate общий валидатор struct-тегов
var validate = validator.New()

// validateStruct превращает ошибки validator в ValidationError по первому полю
func validateStruct(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return newValidationError("", "%v", err)
	}

	fe := fieldErrs[0]
	field := strings.TrimPrefix(fe.Namespace(), strings.SplitN(fe.Namespace(), ".", 2)[0]+".")
	switch fe.Tag() {
	case "required":
		return newValidationError(field, "is required")
	case "min":
		return newValidationError(field, "must have at least %s item(s)", fe.Param())
	default:
		return newValidationError(field, "failed %s check", fe.Tag())
	}
}
