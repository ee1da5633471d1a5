package request

import (
	"smart-parking/internal/domain/user"
	"smart-parking/internal/usecase"
)

type RegisterRequest struct {
	Name          string `json:"name" binding:"required"`
	Email         string `json:"email" binding:"required,email"`
	Password      string `json:"password" binding:"required,min=8"`
	Phone         string `json:"phone,omitempty"`
	VehicleNumber string `json:"vehicle_number,omitempty"`
}

func (r *RegisterRequest) ToParams() usecase.RegisterParams {
	return usecase.RegisterParams{
		Name:          r.Name,
		Email:         r.Email,
		Password:      r.Password,
		Phone:         r.Phone,
		VehicleNumber: r.VehicleNumber,
	}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

func (r *LoginRequest) ToDomain() (user.Credentials, error) {
	email, err := user.NewEmail(r.Email)
	if err != nil {
		return user.Credentials{}, err
	}
	password, err := user.NewPassword(r.Password)
	if err != nil {
		return user.Credentials{}, err
	}
	return user.NewCredentials(email, password), nil
}
