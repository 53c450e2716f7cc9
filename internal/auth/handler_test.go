package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/frahmantamala/admin-mock-backend/internal/core/mockdata"
	"github.com/frahmantamala/admin-mock-backend/internal/store/memory"
	"github.com/frahmantamala/admin-mock-backend/internal/transport"
	"github.com/frahmantamala/admin-mock-backend/internal/user"
	"github.com/frahmantamala/admin-mock-backend/pkg/logger"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

type envelope struct {
	Code    int             `json:"code"`
	Data    json.RawMessage `json:"data"`
	Error   json.RawMessage `json:"error"`
	Message string          `json:"message"`
}

func decodeEnvelope(rec *httptest.ResponseRecorder) envelope {
	var env envelope
	gomega.Expect(json.Unmarshal(rec.Body.Bytes(), &env)).To(gomega.Succeed())
	return env
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

var _ = ginkgo.Describe("Auth Handler", func() {
	var (
		service *Service
		handler *Handler
		guard   *Guard
		tokens  *JWTTokenGenerator
	)

	ginkgo.BeforeEach(func() {
		store := memory.New(mockdata.Default())
		tokens = newTestTokens()
		service = NewService(store, store, tokens, WithLogger(logger.Discard()))
		handler = NewHandler(service, CookieConfig{})
		handler.BaseHandler = transport.NewBaseHandler(logger.Discard())
		guard = NewGuard(transport.NewBaseHandler(logger.Discard()), service)
	})

	login := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		handler.Login(rec, req)
		return rec
	}

	ginkgo.Describe("Login", func() {
		ginkgo.It("should echo the user record with an access token and set the refresh cookie", func() {
			rec := login(`{"username":"vben","password":"123456"}`)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
			env := decodeEnvelope(rec)
			gomega.Expect(env.Code).To(gomega.Equal(0))
			gomega.Expect(env.Message).To(gomega.Equal("ok"))
			gomega.Expect(string(env.Error)).To(gomega.Equal("null"))

			var data map[string]interface{}
			gomega.Expect(json.Unmarshal(env.Data, &data)).To(gomega.Succeed())
			gomega.Expect(data).To(gomega.HaveKeyWithValue("id", float64(0)))
			gomega.Expect(data).To(gomega.HaveKeyWithValue("username", "vben"))
			gomega.Expect(data).To(gomega.HaveKeyWithValue("password", "123456"))
			gomega.Expect(data).To(gomega.HaveKeyWithValue("realName", "Vben"))
			gomega.Expect(data).To(gomega.HaveKeyWithValue("roles", []interface{}{"super"}))
			gomega.Expect(data).To(gomega.HaveKey("accessToken"))

			cookie := findCookie(rec, "jwt")
			gomega.Expect(cookie).ToNot(gomega.BeNil())
			gomega.Expect(cookie.Value).ToNot(gomega.BeEmpty())
			gomega.Expect(cookie.HttpOnly).To(gomega.BeTrue())
			gomega.Expect(cookie.Secure).To(gomega.BeTrue())
			gomega.Expect(cookie.SameSite).To(gomega.Equal(http.SameSiteNoneMode))
			gomega.Expect(cookie.MaxAge).To(gomega.Equal(30 * 24 * 60 * 60))
			gomega.Expect(cookie.Path).To(gomega.Equal("/"))

			claims, err := tokens.Parse(KindRefresh, cookie.Value)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(claims.Username).To(gomega.Equal("vben"))
		})

		ginkgo.It("should answer 403 for a wrong password", func() {
			rec := login(`{"username":"vben","password":"nope"}`)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusForbidden))
			gomega.Expect(decodeEnvelope(rec).Code).To(gomega.Equal(transport.CodeFailure))
			gomega.Expect(findCookie(rec, "jwt")).To(gomega.BeNil())
		})

		ginkgo.DescribeTable("should answer 400 for unusable bodies",
			func(body string) {
				rec := login(body)
				gomega.Expect(rec.Code).To(gomega.Equal(http.StatusBadRequest))
			},
			ginkgo.Entry("missing password", `{"username":"vben"}`),
			ginkgo.Entry("missing username", `{"password":"123456"}`),
			ginkgo.Entry("empty object", `{}`),
			ginkgo.Entry("not json", `username=vben`),
		)
	})

	ginkgo.Describe("RefreshToken", func() {
		refresh := func(cookie *http.Cookie) *httptest.ResponseRecorder {
			req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh", nil)
			if cookie != nil {
				req.AddCookie(cookie)
			}
			rec := httptest.NewRecorder()
			handler.RefreshToken(rec, req)
			return rec
		}

		ginkgo.It("should return a new access token for a valid cookie", func() {
			refreshToken, err := tokens.GenerateRefreshToken("admin")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			rec := refresh(&http.Cookie{Name: "jwt", Value: refreshToken})
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))

			var data RefreshResponse
			gomega.Expect(json.Unmarshal(decodeEnvelope(rec).Data, &data)).To(gomega.Succeed())
			v := service.Verify(context.Background(), data.AccessToken, KindAccess)
			gomega.Expect(v.Authenticated()).To(gomega.BeTrue())
			gomega.Expect(v.User.Username).To(gomega.Equal("admin"))
		})

		ginkgo.It("should answer 403 without a cookie", func() {
			rec := refresh(nil)
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusForbidden))
		})

		ginkgo.It("should ignore a token sent in the Authorization header", func() {
			refreshToken, err := tokens.GenerateRefreshToken("admin")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh", nil)
			req.Header.Set("Authorization", "Bearer "+refreshToken)
			rec := httptest.NewRecorder()
			handler.RefreshToken(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusForbidden))
		})

		ginkgo.It("should answer 403 for an access token in the cookie", func() {
			accessToken, err := tokens.GenerateAccessToken("admin")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			rec := refresh(&http.Cookie{Name: "jwt", Value: accessToken})
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusForbidden))
		})
	})

	ginkgo.Describe("Logout", func() {
		ginkgo.It("should always succeed and expire the cookie", func() {
			req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
			rec := httptest.NewRecorder()
			handler.Logout(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
			env := decodeEnvelope(rec)
			gomega.Expect(env.Code).To(gomega.Equal(0))
			gomega.Expect(string(env.Data)).To(gomega.Equal("null"))
			gomega.Expect(env.Message).To(gomega.Equal("Successfully logged out"))

			cookie := findCookie(rec, "jwt")
			gomega.Expect(cookie).ToNot(gomega.BeNil())
			gomega.Expect(cookie.Value).To(gomega.BeEmpty())
			gomega.Expect(cookie.MaxAge).To(gomega.BeNumerically("<", 0))
			gomega.Expect(cookie.Secure).To(gomega.BeTrue())
			gomega.Expect(cookie.SameSite).To(gomega.Equal(http.SameSiteNoneMode))
			gomega.Expect(rec.Header().Get("Set-Cookie")).To(gomega.ContainSubstring("Max-Age=0"))
		})
	})

	ginkgo.Describe("Codes", func() {
		ginkgo.It("should return the codes of the guarded user", func() {
			token, err := tokens.GenerateAccessToken("admin")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			req := httptest.NewRequest(http.MethodGet, "/api/auth/codes", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			rec := httptest.NewRecorder()
			guard.Require(handler.Codes)(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
			var codes []string
			gomega.Expect(json.Unmarshal(decodeEnvelope(rec).Data, &codes)).To(gomega.Succeed())
			gomega.Expect(codes).To(gomega.Equal([]string{"AC_100010", "AC_100020", "AC_100030"}))
		})

		ginkgo.It("should return an empty array when the user has no codes", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/auth/codes", nil)
			rec := httptest.NewRecorder()
			handler.Codes(rec, req, &user.User{Username: "nobody"})

			gomega.Expect(string(decodeEnvelope(rec).Data)).To(gomega.Equal("[]"))
		})
	})
})
