// internal/functions/users/models.go
package users

// CheckEmailRequest asks whether an account exists for the email.
type CheckEmailRequest struct {
	Email string `json:"email"`
}

type CheckEmailResponse struct {
	Exists bool `json:"exists"`
}

// DeleteUserRequest removes the identity-provider account by UID.
type DeleteUserRequest struct {
	UID string `json:"uid"`
}

type DeleteUserResponse struct {
	Message string `json:"message"`
}

// LoginDateRequest bounds the last-sign-in window, inclusive on both ends.
// Dates accept RFC 3339 timestamps or plain YYYY-MM-DD.
type LoginDateRequest struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

type LoginDateResponse struct {
	Count int `json:"count"`
}
