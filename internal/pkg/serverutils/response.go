// FILE: internal/pkg/serverutils/response.go
package serverutils

import (
	"schoolhub-be/internal/pkg/validation"
)

type BaseResponse[T any] struct {
	Success bool              `json:"success"`
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Data    T                 `json:"data,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
	Reason  string            `json:"reason,omitempty"`
}

func SuccessResponse[T any](message string, data T) BaseResponse[T] {
	return BaseResponse[T]{
		Success: true,
		Code:    200,
		Message: message,
		Data:    data,
	}
}

func ErrorResponse(code int, message string) BaseResponse[any] {
	return BaseResponse[any]{
		Success: false,
		Code:    code,
		Message: message,
	}
}

// ReasonResponse carries a machine-readable reason such as ONBOARDING_REQUIRED.
func ReasonResponse(code int, reason, message string) BaseResponse[any] {
	return BaseResponse[any]{
		Success: false,
		Code:    code,
		Message: message,
		Reason:  reason,
	}
}

type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "validation failed"
}

// ValidateRequest runs the shared validator on req. Failures come back as
// *ValidationError so the error handler can answer 422 with field details.
func ValidateRequest(req interface{}) error {
	err := validation.Struct(req)
	if err == nil {
		return nil
	}
	if fields := validation.Fields(err); fields != nil {
		return &ValidationError{Fields: fields}
	}
	return err
}
