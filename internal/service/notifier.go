// FILE: internal/service/notifier.go
package service

import (
	"time"

	"schoolhub-be/internal/dto"

	"github.com/google/uuid"
)

// Notifier pushes toasts to a user's open sessions. Fire and forget.
// Implemented by the websocket hub.
type Notifier interface {
	Notify(userID uuid.UUID, toast dto.Toast)
}

type nopNotifier struct{}

func (nopNotifier) Notify(uuid.UUID, dto.Toast) {}

func NopNotifier() Notifier { return nopNotifier{} }

func newToast(level dto.ToastLevel, title, message string) dto.Toast {
	return dto.Toast{Level: level, Title: title, Message: message, CreatedAt: time.Now()}
}
