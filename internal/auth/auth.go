package auth

import (
	"context"
	"errors"

	"github.com/frahmantamala/admin-mock-backend/internal/user"
	"github.com/golang-jwt/jwt/v5"
)

// TokenKind distinguishes the two token flavours; each is signed with its own secret.
type TokenKind string

const (
	KindAccess  TokenKind = "access"
	KindRefresh TokenKind = "refresh"
)

func (k TokenKind) Valid() bool {
	return k == KindAccess || k == KindRefresh
}

// Claims represents JWT token claims
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// CodeRepository resolves permission codes; unknown usernames yield an empty list.
type CodeRepository interface {
	CodesFor(ctx context.Context, username string) ([]string, error)
}

// VerifyStatus says why a token did or did not resolve to a user.
type VerifyStatus string

const (
	StatusOK           VerifyStatus = "ok"
	StatusMissing      VerifyStatus = "missing"
	StatusMalformed    VerifyStatus = "malformed"
	StatusExpired      VerifyStatus = "expired"
	StatusBadSignature VerifyStatus = "bad_signature"
	StatusInvalid      VerifyStatus = "invalid"
	StatusUnknownUser  VerifyStatus = "unknown_user"
	StatusLookupFailed VerifyStatus = "lookup_failed"
)

// Verification is the outcome of checking a token. User is set only when
// Status is StatusOK; Err carries the underlying cause for logs and tests.
type Verification struct {
	User   *user.User
	Claims *Claims
	Status VerifyStatus
	Err    error
}

func (v Verification) Authenticated() bool {
	return v.Status == StatusOK && v.User != nil
}

var (
	ErrUnknownTokenKind     = errors.New("unknown token kind")
	ErrMissingUsernameClaim = errors.New("token has no username claim")
)
