package user

import (
	"context"
	"errors"

	userDatamodel "github.com/frahmantamala/admin-mock-backend/internal/core/datamodel/user"
	"github.com/frahmantamala/admin-mock-backend/internal/core/mockdata"
)

// User is the full mock user record, password included: the login
// response echoes the whole record back to the frontend.
type User struct {
	ID       int64    `json:"id"`
	Password string   `json:"password"`
	RealName string   `json:"realName"`
	Roles    []string `json:"roles"`
	Username string   `json:"username"`
}

var ErrNotFound = errors.New("user not found")

// Repository resolves users from the read-only user table.
// Both lookups return ErrNotFound when nothing matches.
type Repository interface {
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByCredentials(ctx context.Context, username, password string) (*User, error)
}

// Info strips the record down to what /api/user/info exposes.
func (u *User) Info() InfoResponse {
	return InfoResponse{
		ID:       u.ID,
		RealName: u.RealName,
		Roles:    mockdata.CopyStrings(u.Roles),
		Username: u.Username,
	}
}

func FromMockData(u mockdata.User) *User {
	return &User{
		ID:       u.ID,
		Password: u.Password,
		RealName: u.RealName,
		Roles:    mockdata.CopyStrings(u.Roles),
		Username: u.Username,
	}
}

func FromDataModel(u *userDatamodel.User, roles []string) *User {
	return &User{
		ID:       u.ID,
		Password: u.Password,
		RealName: u.RealName,
		Roles:    mockdata.CopyStrings(roles),
		Username: u.Username,
	}
}

func ToDataModel(u mockdata.User) *userDatamodel.User {
	return &userDatamodel.User{
		ID:       u.ID,
		Username: u.Username,
		Password: u.Password,
		RealName: u.RealName,
	}
}
