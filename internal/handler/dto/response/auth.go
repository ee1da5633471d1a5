package response

import (
	"time"

	"smart-parking/internal/usecase/readmodel"

	"github.com/google/uuid"
)

type UserResponse struct {
	ID            uuid.UUID  `json:"id"`
	Name          string     `json:"name"`
	Email         string     `json:"email"`
	Role          string     `json:"role"`
	Phone         string     `json:"phone,omitempty"`
	VehicleNumber string     `json:"vehicleNumber,omitempty"`
	IsActive      bool       `json:"isActive"`
	LastLogin     *time.Time `json:"lastLogin,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

func FromUserView(rm *readmodel.AuthorizedUserRM) UserResponse {
	return UserResponse{
		ID:            rm.ID,
		Name:          rm.Name,
		Email:         rm.Email,
		Role:          rm.Role,
		Phone:         rm.Phone,
		VehicleNumber: rm.VehicleNumber,
		IsActive:      rm.IsActive,
		LastLogin:     rm.LastLogin,
		CreatedAt:     rm.CreatedAt,
	}
}
