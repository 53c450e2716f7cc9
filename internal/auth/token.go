package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type JWTTokenGenerator struct {
	AccessTokenSecret  []byte
	RefreshTokenSecret []byte
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration

	now func() time.Time
}

// NewJWTTokenGenerator creates a new JWT token generator
func NewJWTTokenGenerator(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *JWTTokenGenerator {
	return &JWTTokenGenerator{
		AccessTokenSecret:  []byte(accessSecret),
		RefreshTokenSecret: []byte(refreshSecret),
		AccessTokenTTL:     accessTTL,
		RefreshTokenTTL:    refreshTTL,
		now:                time.Now,
	}
}

func (j *JWTTokenGenerator) secretAndTTL(kind TokenKind) ([]byte, time.Duration, error) {
	switch kind {
	case KindAccess:
		return j.AccessTokenSecret, j.AccessTokenTTL, nil
	case KindRefresh:
		return j.RefreshTokenSecret, j.RefreshTokenTTL, nil
	default:
		return nil, 0, fmt.Errorf("%w: %q", ErrUnknownTokenKind, kind)
	}
}

func (j *JWTTokenGenerator) clock() time.Time {
	if j.now == nil {
		return time.Now()
	}
	return j.now()
}

// Generate signs an HS256 token of the given kind for username.
func (j *JWTTokenGenerator) Generate(kind TokenKind, username string) (string, error) {
	secret, ttl, err := j.secretAndTTL(kind)
	if err != nil {
		return "", err
	}

	now := j.clock()
	claims := &Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", kind, err)
	}

	return tokenString, nil
}

// GenerateAccessToken creates a new access token
func (j *JWTTokenGenerator) GenerateAccessToken(username string) (string, error) {
	return j.Generate(KindAccess, username)
}

// GenerateRefreshToken creates a new refresh token
func (j *JWTTokenGenerator) GenerateRefreshToken(username string) (string, error) {
	return j.Generate(KindRefresh, username)
}

// Parse checks signature, algorithm and expiry against the secret for kind.
// Errors wrap the jwt package sentinels so callers can classify them.
func (j *JWTTokenGenerator) Parse(kind TokenKind, tokenString string) (*Claims, error) {
	secret, _, err := j.secretAndTTL(kind)
	if err != nil {
		return nil, err
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.clock),
	)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	if claims.Username == "" {
		return nil, ErrMissingUsernameClaim
	}

	return claims, nil
}

// statusFromParseError folds jwt parse failures into a VerifyStatus.
func statusFromParseError(err error) VerifyStatus {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return StatusExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return StatusBadSignature
	case errors.Is(err, jwt.ErrTokenMalformed), errors.Is(err, ErrMissingUsernameClaim):
		return StatusMalformed
	default:
		return StatusInvalid
	}
}
