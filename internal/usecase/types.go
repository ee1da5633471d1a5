package usecase

import (
	"smart-parking/internal/domain/user"

	"github.com/google/uuid"
)

// Actor is the request-scoped caller identity passed into every engine call.
// There is no ambient/global auth context.
type Actor struct {
	ID   uuid.UUID
	Role user.Role
}

func (a Actor) IsAdmin() bool {
	return a.Role.IsAdmin()
}

func (a Actor) CanManage(ownerID uuid.UUID) bool {
	return a.IsAdmin() || a.ID == ownerID
}
