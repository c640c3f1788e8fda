// FILE: internal/dto/toast_dto.go
package dto

import "time"

type ToastLevel string

const (
	ToastSuccess ToastLevel = "success"
	ToastError   ToastLevel = "error"
	ToastInfo    ToastLevel = "info"
)

// Toast is a transient message pushed to the user's open sessions.
type Toast struct {
	Level     ToastLevel `json:"level"`
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	CreatedAt time.Time  `json:"created_at"`
}
