package middlewares_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/vaultdeck/vaultdeck/internal/auth"
	"github.com/vaultdeck/vaultdeck/internal/domain/user"
	"github.com/vaultdeck/vaultdeck/internal/http/middlewares"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeVerifier struct {
	verifyFn func(token string) (*auth.Claims, error)
}

func (f *fakeVerifier) VerifyAccessToken(token string) (*auth.Claims, error) {
	if f.verifyFn != nil {
		return f.verifyFn(token)
	}
	return &auth.Claims{UserID: "user-1"}, nil
}

type fakeResolver struct {
	resolveFn func(ctx context.Context, subject string) (user.User, error)
}

func (f *fakeResolver) Resolve(ctx context.Context, subject string) (user.User, error) {
	if f.resolveFn != nil {
		return f.resolveFn(ctx, subject)
	}
	return user.User{ID: subject}, nil
}

func guardedRouter(verifier *fakeVerifier, resolver *fakeResolver) *gin.Engine {
	r := gin.New()

	m := middlewares.NewAuthMiddleware(verifier, resolver)

	r.GET("/protected", m.RequireAuth(), func(c *gin.Context) {
		id, _ := middlewares.UserIDFromContext(c)
		role, _ := middlewares.RoleFromContext(c)

		c.JSON(http.StatusOK, gin.H{"id": id, "role": role})
	})

	return r
}

func TestRequireAuth(t *testing.T) {
	alive := user.User{ID: "user-1", Email: "alice@example.com", Role: "user"}

	tests := []struct {
		name       string
		header     string
		verifyFn   func(token string) (*auth.Claims, error)
		resolveFn  func(ctx context.Context, subject string) (user.User, error)
		wantStatus int
	}{
		{
			name:       "missing header",
			header:     "",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "not a bearer header",
			header:     "Basic YWxpY2U6cHc=",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "bearer with empty token",
			header:     "Bearer ",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:   "invalid token",
			header: "Bearer bad-token",
			verifyFn: func(string) (*auth.Claims, error) {
				return nil, auth.ErrTokenInvalid
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:   "expired token",
			header: "Bearer stale-token",
			verifyFn: func(string) (*auth.Claims, error) {
				return nil, auth.ErrTokenExpired
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:   "identity deleted after issuance",
			header: "Bearer good-token",
			verifyFn: func(string) (*auth.Claims, error) {
				return &auth.Claims{UserID: "user-1"}, nil
			},
			resolveFn: func(_ context.Context, _ string) (user.User, error) {
				return user.User{}, auth.ErrUnauthenticated
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:   "valid token and live identity",
			header: "Bearer good-token",
			verifyFn: func(string) (*auth.Claims, error) {
				return &auth.Claims{UserID: "user-1"}, nil
			},
			resolveFn: func(_ context.Context, subject string) (user.User, error) {
				if subject != "user-1" {
					t.Errorf("resolved subject = %q, want user-1", subject)
				}
				return alive, nil
			},
			wantStatus: http.StatusOK,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := guardedRouter(
				&fakeVerifier{verifyFn: tc.verifyFn},
				&fakeResolver{resolveFn: tc.resolveFn},
			)

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)

			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tc.wantStatus, rec.Body.String())
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	verifier := &fakeVerifier{
		verifyFn: func(string) (*auth.Claims, error) {
			return &auth.Claims{UserID: "user-1"}, nil
		},
	}

	tests := []struct {
		name       string
		role       string
		wantStatus int
	}{
		{name: "admin passes", role: "admin", wantStatus: http.StatusOK},
		{name: "plain user rejected", role: "user", wantStatus: http.StatusForbidden},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resolver := &fakeResolver{
				resolveFn: func(_ context.Context, subject string) (user.User, error) {
					return user.User{ID: subject, Role: tc.role}, nil
				},
			}

			r := gin.New()

			m := middlewares.NewAuthMiddleware(verifier, resolver)

			r.GET("/admin", m.RequireAuth(), m.RequireRole("admin"), func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			req.Header.Set("Authorization", "Bearer good-token")

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tc.wantStatus)
			}
		})
	}
}
