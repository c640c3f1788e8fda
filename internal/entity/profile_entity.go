// FILE: internal/entity/profile_entity.go
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Profile links an authenticated user to the tenant they operate on.
type Profile struct {
	UserId    uuid.UUID
	TenantId  *uuid.UUID // nil until onboarding attaches one
	CreatedAt time.Time
	UpdatedAt time.Time
}
