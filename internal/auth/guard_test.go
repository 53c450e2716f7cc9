package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/frahmantamala/admin-mock-backend/internal/core/mockdata"
	"github.com/frahmantamala/admin-mock-backend/internal/store/memory"
	"github.com/frahmantamala/admin-mock-backend/internal/transport"
	"github.com/frahmantamala/admin-mock-backend/internal/user"
	"github.com/frahmantamala/admin-mock-backend/pkg/logger"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

// stubVerifier returns a fixed verification and remembers what it was asked.
type stubVerifier struct {
	result    Verification
	gotToken  string
	gotKind   TokenKind
	callCount int
}

func (s *stubVerifier) Verify(_ context.Context, token string, kind TokenKind) Verification {
	s.callCount++
	s.gotToken = token
	s.gotKind = kind
	return s.result
}

var _ = ginkgo.Describe("Guard", func() {
	var (
		tokens  *JWTTokenGenerator
		guard   *Guard
		called  bool
		current *user.User
	)

	next := func(w http.ResponseWriter, r *http.Request, u *user.User) {
		called = true
		current = u
		w.WriteHeader(http.StatusNoContent)
	}

	serve := func(g *Guard, authHeader string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/user/info", nil)
		if authHeader != "" {
			req.Header.Set("Authorization", authHeader)
		}
		rec := httptest.NewRecorder()
		g.Require(next)(rec, req)
		return rec
	}

	ginkgo.BeforeEach(func() {
		called, current = false, nil
		store := memory.New(mockdata.Default())
		tokens = newTestTokens()
		service := NewService(store, store, tokens, WithLogger(logger.Discard()))
		guard = NewGuard(transport.NewBaseHandler(logger.Discard()), service)
	})

	ginkgo.It("should pass the resolved user to the next handler", func() {
		token, err := tokens.GenerateAccessToken("jack")
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		rec := serve(guard, "Bearer "+token)

		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusNoContent))
		gomega.Expect(called).To(gomega.BeTrue())
		gomega.Expect(current.Username).To(gomega.Equal("jack"))
		gomega.Expect(current.Roles).To(gomega.Equal([]string{"user"}))
	})

	ginkgo.It("should answer 401 without an Authorization header", func() {
		rec := serve(guard, "")

		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
		gomega.Expect(called).To(gomega.BeFalse())
		gomega.Expect(decodeEnvelope(rec).Message).To(gomega.Equal("Token is missing!"))
	})

	ginkgo.DescribeTable("should answer 401 for unusable tokens",
		func(header func() string) {
			rec := serve(guard, header())

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
			gomega.Expect(called).To(gomega.BeFalse())
			gomega.Expect(decodeEnvelope(rec).Message).To(gomega.Equal("Token is invalid!"))
		},
		ginkgo.Entry("wrong scheme", func() string { return "Token abc" }),
		ginkgo.Entry("empty bearer", func() string { return "Bearer " }),
		ginkgo.Entry("garbage token", func() string { return "Bearer abc.def.ghi" }),
		ginkgo.Entry("wrongly signed token", func() string {
			other := NewJWTTokenGenerator("wrong-secret", "other-refresh", time.Hour, time.Hour)
			token, _ := other.GenerateAccessToken("vben")
			return "Bearer " + token
		}),
		ginkgo.Entry("refresh token", func() string {
			token, _ := tokens.GenerateRefreshToken("vben")
			return "Bearer " + token
		}),
		ginkgo.Entry("unknown user", func() string {
			token, _ := tokens.GenerateAccessToken("ghost")
			return "Bearer " + token
		}),
	)

	ginkgo.It("should verify bearer tokens as access tokens", func() {
		stub := &stubVerifier{result: Verification{Status: StatusExpired}}
		g := NewGuard(transport.NewBaseHandler(logger.Discard()), stub)

		rec := serve(g, "Bearer some.token.value")

		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
		gomega.Expect(stub.callCount).To(gomega.Equal(1))
		gomega.Expect(stub.gotToken).To(gomega.Equal("some.token.value"))
		gomega.Expect(stub.gotKind).To(gomega.Equal(KindAccess))
	})
})
