package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/frahmantamala/admin-mock-backend/internal"
	"github.com/frahmantamala/admin-mock-backend/internal/core/events"
	"github.com/frahmantamala/admin-mock-backend/internal/core/mockdata"
	"github.com/frahmantamala/admin-mock-backend/internal/store/memory"
	"github.com/frahmantamala/admin-mock-backend/internal/user"
	"github.com/frahmantamala/admin-mock-backend/pkg/logger"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

func TestAuth(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Auth Module Suite")
}

const (
	testAccessSecret  = "test-access-secret"
	testRefreshSecret = "test-refresh-secret"
)

func newTestTokens() *JWTTokenGenerator {
	return NewJWTTokenGenerator(testAccessSecret, testRefreshSecret, 7*24*time.Hour, 30*24*time.Hour)
}

// failingRepository fails every lookup with err.
type failingRepository struct {
	err error
}

func (f failingRepository) FindByUsername(context.Context, string) (*user.User, error) {
	return nil, f.err
}

func (f failingRepository) FindByCredentials(context.Context, string, string) (*user.User, error) {
	return nil, f.err
}

func (f failingRepository) CodesFor(context.Context, string) ([]string, error) {
	return nil, f.err
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []*events.AuthEvent
}

func (p *recordingPublisher) Publish(_ context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if authEvent, ok := event.(*events.AuthEvent); ok {
		p.events = append(p.events, authEvent)
	}
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.EventType())
	}
	return out
}

var _ = ginkgo.Describe("AuthService", func() {
	var (
		ctx       context.Context
		service   *Service
		tokens    *JWTTokenGenerator
		publisher *recordingPublisher
	)

	ginkgo.BeforeEach(func() {
		ctx = context.Background()
		store := memory.New(mockdata.Default())
		tokens = newTestTokens()
		publisher = &recordingPublisher{}
		service = NewService(store, store, tokens, WithPublisher(publisher), WithLogger(logger.Discard()))
	})

	ginkgo.Describe("Login", func() {
		ginkgo.Context("when credentials are valid", func() {
			ginkgo.It("should return the full user record and both tokens", func() {
				// When
				result, err := service.Login(ctx, LoginDTO{Username: "vben", Password: "123456"})

				// Then
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(result.User).To(gomega.Equal(&user.User{
					ID:       0,
					Password: "123456",
					RealName: "Vben",
					Roles:    []string{"super"},
					Username: "vben",
				}))
				gomega.Expect(result.AccessToken).ToNot(gomega.BeEmpty())
				gomega.Expect(result.RefreshToken).ToNot(gomega.BeEmpty())
				gomega.Expect(result.AccessToken).ToNot(gomega.Equal(result.RefreshToken))
				gomega.Expect(publisher.types()).To(gomega.Equal([]string{events.EventTypeLoginSucceeded}))
			})

			ginkgo.It("should sign each token with its own secret", func() {
				result, err := service.Login(ctx, LoginDTO{Username: "admin", Password: "123456"})
				gomega.Expect(err).ToNot(gomega.HaveOccurred())

				claims, err := tokens.Parse(KindAccess, result.AccessToken)
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(claims.Username).To(gomega.Equal("admin"))

				claims, err = tokens.Parse(KindRefresh, result.RefreshToken)
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(claims.Username).To(gomega.Equal("admin"))

				_, err = tokens.Parse(KindRefresh, result.AccessToken)
				gomega.Expect(err).To(gomega.HaveOccurred())
			})
		})

		ginkgo.Context("when credentials are invalid", func() {
			ginkgo.It("should reject a wrong password with 403", func() {
				result, err := service.Login(ctx, LoginDTO{Username: "vben", Password: "wrong"})

				gomega.Expect(result).To(gomega.BeNil())
				gomega.Expect(errors.Is(err, internal.ErrInvalidCredentials)).To(gomega.BeTrue())

				appErr, ok := internal.IsAppError(err)
				gomega.Expect(ok).To(gomega.BeTrue())
				gomega.Expect(appErr.StatusCode).To(gomega.Equal(http.StatusForbidden))
				gomega.Expect(publisher.types()).To(gomega.Equal([]string{events.EventTypeLoginFailed}))
			})

			ginkgo.It("should treat an overlong password as a wrong one", func() {
				_, err := service.Login(ctx, LoginDTO{Username: "vben", Password: strings.Repeat("x", 129)})
				gomega.Expect(errors.Is(err, internal.ErrInvalidCredentials)).To(gomega.BeTrue())
			})

			ginkgo.It("should reject an unknown username", func() {
				_, err := service.Login(ctx, LoginDTO{Username: "ghost", Password: "123456"})
				gomega.Expect(errors.Is(err, internal.ErrInvalidCredentials)).To(gomega.BeTrue())
			})
		})

		ginkgo.Context("when input validation fails", func() {
			ginkgo.DescribeTable("should return 400 for missing fields",
				func(dto LoginDTO) {
					_, err := service.Login(ctx, dto)

					appErr, ok := internal.IsAppError(err)
					gomega.Expect(ok).To(gomega.BeTrue())
					gomega.Expect(appErr.StatusCode).To(gomega.Equal(http.StatusBadRequest))
					gomega.Expect(appErr.Code).To(gomega.Equal(internal.ErrCodeValidationFailed))
					gomega.Expect(publisher.types()).To(gomega.BeEmpty())
				},
				ginkgo.Entry("empty username", LoginDTO{Password: "123456"}),
				ginkgo.Entry("empty password", LoginDTO{Username: "vben"}),
				ginkgo.Entry("both empty", LoginDTO{}),
			)
		})

		ginkgo.Context("when the repository fails", func() {
			ginkgo.It("should return an internal error", func() {
				broken := failingRepository{err: errors.New("connection reset")}
				service = NewService(broken, broken, tokens, WithLogger(logger.Discard()))

				_, err := service.Login(ctx, LoginDTO{Username: "vben", Password: "123456"})

				appErr, ok := internal.IsAppError(err)
				gomega.Expect(ok).To(gomega.BeTrue())
				gomega.Expect(appErr.StatusCode).To(gomega.Equal(http.StatusInternalServerError))
			})
		})
	})

	ginkgo.Describe("Refresh", func() {
		ginkgo.It("should issue an access token that verifies to the same user", func() {
			refreshToken, err := tokens.GenerateRefreshToken("jack")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			accessToken, err := service.Refresh(ctx, refreshToken)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			v := service.Verify(ctx, accessToken, KindAccess)
			gomega.Expect(v.Authenticated()).To(gomega.BeTrue())
			gomega.Expect(v.User.Username).To(gomega.Equal("jack"))
			gomega.Expect(publisher.types()).To(gomega.Equal([]string{events.EventTypeTokenRefreshed}))
		})

		ginkgo.It("should reject a missing token", func() {
			_, err := service.Refresh(ctx, "")
			gomega.Expect(errors.Is(err, internal.ErrMissingRefreshToken)).To(gomega.BeTrue())
			gomega.Expect(publisher.types()).To(gomega.Equal([]string{events.EventTypeRefreshRejected}))
		})

		ginkgo.It("should reject an access token presented as refresh token", func() {
			accessToken, err := tokens.GenerateAccessToken("vben")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, err = service.Refresh(ctx, accessToken)
			gomega.Expect(errors.Is(err, internal.ErrInvalidRefreshToken)).To(gomega.BeTrue())

			appErr, _ := internal.IsAppError(err)
			gomega.Expect(appErr.StatusCode).To(gomega.Equal(http.StatusForbidden))
		})

		ginkgo.It("should reject a token for a user that no longer exists", func() {
			refreshToken, err := tokens.GenerateRefreshToken("ghost")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, err = service.Refresh(ctx, refreshToken)
			gomega.Expect(errors.Is(err, internal.ErrInvalidRefreshToken)).To(gomega.BeTrue())
		})
	})

	ginkgo.Describe("Verify", func() {
		ginkgo.It("should resolve the user named by the token", func() {
			token, err := tokens.GenerateAccessToken("admin")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			v := service.Verify(ctx, token, KindAccess)
			gomega.Expect(v.Status).To(gomega.Equal(StatusOK))
			gomega.Expect(v.User.RealName).To(gomega.Equal("Admin"))
			gomega.Expect(v.Claims.Username).To(gomega.Equal("admin"))
		})

		ginkgo.It("should report an empty token as missing", func() {
			v := service.Verify(ctx, "", KindAccess)
			gomega.Expect(v.Status).To(gomega.Equal(StatusMissing))
			gomega.Expect(v.Authenticated()).To(gomega.BeFalse())
		})

		ginkgo.It("should report garbage as malformed", func() {
			v := service.Verify(ctx, "not-a-jwt", KindAccess)
			gomega.Expect(v.Status).To(gomega.Equal(StatusMalformed))
			gomega.Expect(v.User).To(gomega.BeNil())
		})

		ginkgo.It("should report a token signed with another secret", func() {
			other := NewJWTTokenGenerator("some-other-secret", testRefreshSecret, time.Hour, time.Hour)
			token, err := other.GenerateAccessToken("vben")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			v := service.Verify(ctx, token, KindAccess)
			gomega.Expect(v.Status).To(gomega.Equal(StatusBadSignature))
		})

		ginkgo.It("should report an unknown user", func() {
			token, err := tokens.GenerateAccessToken("ghost")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			v := service.Verify(ctx, token, KindAccess)
			gomega.Expect(v.Status).To(gomega.Equal(StatusUnknownUser))
			gomega.Expect(v.Authenticated()).To(gomega.BeFalse())
		})

		ginkgo.It("should report lookup failures without panicking", func() {
			broken := failingRepository{err: errors.New("db down")}
			service = NewService(broken, broken, tokens, WithLogger(logger.Discard()))

			token, err := tokens.GenerateAccessToken("vben")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			v := service.Verify(ctx, token, KindAccess)
			gomega.Expect(v.Status).To(gomega.Equal(StatusLookupFailed))
			gomega.Expect(v.Err).To(gomega.MatchError("db down"))
		})
	})

	ginkgo.Describe("Codes", func() {
		ginkgo.It("should return the codes for admin in order", func() {
			codes, err := service.Codes(ctx, "admin")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(codes).To(gomega.Equal([]string{"AC_100010", "AC_100020", "AC_100030"}))
		})

		ginkgo.It("should return an empty list for a user without codes", func() {
			codes, err := service.Codes(ctx, "nobody")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(codes).ToNot(gomega.BeNil())
			gomega.Expect(codes).To(gomega.BeEmpty())
		})
	})

	ginkgo.Describe("IssueToken", func() {
		ginkgo.It("should sign a token for a known user", func() {
			token, err := service.IssueToken(ctx, "jack", KindRefresh)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			claims, err := tokens.Parse(KindRefresh, token)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(claims.Username).To(gomega.Equal("jack"))
		})

		ginkgo.It("should refuse unknown users", func() {
			_, err := service.IssueToken(ctx, "ghost", KindAccess)
			gomega.Expect(errors.Is(err, user.ErrNotFound)).To(gomega.BeTrue())
		})

		ginkgo.It("should refuse unknown kinds", func() {
			_, err := service.IssueToken(ctx, "jack", TokenKind("session"))
			gomega.Expect(errors.Is(err, ErrUnknownTokenKind)).To(gomega.BeTrue())
		})
	})

	ginkgo.Describe("Logout", func() {
		ginkgo.It("should only publish an event", func() {
			service.Logout(ctx)
			gomega.Expect(publisher.types()).To(gomega.Equal([]string{events.EventTypeLogout}))
		})
	})
})
