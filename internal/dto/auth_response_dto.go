package dto

// LoginRequest defines the login payload.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse carries an issued JWT.
type TokenResponse struct {
	Token string `json:"token"`
}

// MessageResponse is a plain confirmation message.
type MessageResponse struct {
	Message string `json:"message"`
}
