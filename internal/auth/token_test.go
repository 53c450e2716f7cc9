package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

var _ = ginkgo.Describe("JWTTokenGenerator", func() {
	var tokens *JWTTokenGenerator

	ginkgo.BeforeEach(func() {
		tokens = newTestTokens()
	})

	ginkgo.It("should set exp from the kind's TTL", func() {
		issued := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
		tokens.now = func() time.Time { return issued }

		access, err := tokens.GenerateAccessToken("vben")
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		refresh, err := tokens.GenerateRefreshToken("vben")
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		claims, err := tokens.Parse(KindAccess, access)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(claims.ExpiresAt.Time).To(gomega.BeTemporally("==", issued.Add(7*24*time.Hour)))
		gomega.Expect(claims.IssuedAt.Time).To(gomega.BeTemporally("==", issued))

		claims, err = tokens.Parse(KindRefresh, refresh)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(claims.ExpiresAt.Time).To(gomega.BeTemporally("==", issued.Add(30*24*time.Hour)))
	})

	ginkgo.It("should use HS256", func() {
		access, err := tokens.GenerateAccessToken("vben")
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		parsed, _, err := jwt.NewParser().ParseUnverified(access, &Claims{})
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(parsed.Method.Alg()).To(gomega.Equal("HS256"))
	})

	ginkgo.It("should reject expired tokens", func() {
		tokens.now = func() time.Time { return time.Now().Add(-8 * 24 * time.Hour) }
		access, err := tokens.GenerateAccessToken("vben")
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		tokens.now = time.Now
		_, err = tokens.Parse(KindAccess, access)
		gomega.Expect(errors.Is(err, jwt.ErrTokenExpired)).To(gomega.BeTrue())
		gomega.Expect(statusFromParseError(err)).To(gomega.Equal(StatusExpired))
	})

	ginkgo.It("should keep a refresh token valid after the access TTL", func() {
		tokens.now = func() time.Time { return time.Now().Add(-8 * 24 * time.Hour) }
		refresh, err := tokens.GenerateRefreshToken("vben")
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		tokens.now = time.Now
		_, err = tokens.Parse(KindRefresh, refresh)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
	})

	ginkgo.It("should reject other signing algorithms", func() {
		claims := &Claims{
			Username: "vben",
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testAccessSecret))
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		_, err = tokens.Parse(KindAccess, token)
		gomega.Expect(err).To(gomega.HaveOccurred())
	})

	ginkgo.It("should require the username claim", func() {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"exp": time.Now().Add(time.Hour).Unix(),
		}).SignedString([]byte(testAccessSecret))
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		_, err = tokens.Parse(KindAccess, token)
		gomega.Expect(errors.Is(err, ErrMissingUsernameClaim)).To(gomega.BeTrue())
		gomega.Expect(statusFromParseError(err)).To(gomega.Equal(StatusMalformed))
	})

	ginkgo.It("should require the exp claim", func() {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"username": "vben",
		}).SignedString([]byte(testAccessSecret))
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		_, err = tokens.Parse(KindAccess, token)
		gomega.Expect(err).To(gomega.HaveOccurred())
	})

	ginkgo.It("should refuse unknown kinds", func() {
		_, err := tokens.Generate(TokenKind("id"), "vben")
		gomega.Expect(errors.Is(err, ErrUnknownTokenKind)).To(gomega.BeTrue())
	})
})
