package dto

// LoginRequest payload.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UserResponse identifies the authenticated user.
type UserResponse struct {
	Username string `json:"username"`
}
