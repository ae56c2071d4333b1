// FILE: internal/dto/user_dto.go
package dto

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email" validate:"omitempty,email"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UserSummary is the identity block returned by auth endpoints.
type UserSummary struct {
	Id       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

type LoginResponse struct {
	Token string      `json:"token"`
	User  UserSummary `json:"user"`
}

// UserResponse carries timestamps already rendered in the caller's zone.
type UserResponse struct {
	Id               string  `json:"id"`
	Username         string  `json:"username"`
	Email            string  `json:"email"`
	Role             string  `json:"role"`
	Status           string  `json:"status"`
	IsActive         bool    `json:"isActive"`
	RecognitionCount int     `json:"recognitionCount"`
	CreatedAt        string  `json:"createdAt"`
	LastLogin        *string `json:"lastLogin"`
}

type UpdateProfileRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email" validate:"omitempty,email"`
}
