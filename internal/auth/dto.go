package auth

import (
	"github.com/frahmantamala/admin-mock-backend/internal"
	"github.com/frahmantamala/admin-mock-backend/internal/core/common/validation"
	"github.com/frahmantamala/admin-mock-backend/internal/user"
)

// LoginDTO is the transport shape used by the HTTP handler to accept login requests.
type LoginDTO struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate checks required fields and returns a 400 AppError on failure.
func (d LoginDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("username", d.Username).Required()
	v.Field("password", d.Password).Required()

	return v.Validate()
}

// LoginResult is what a successful login hands back to the transport layer.
type LoginResult struct {
	User         *user.User
	AccessToken  string
	RefreshToken string
}

// LoginResponse flattens the matched user record next to the access token.
type LoginResponse struct {
	*user.User
	AccessToken string `json:"accessToken"`
}

type RefreshResponse struct {
	AccessToken string `json:"accessToken"`
}
