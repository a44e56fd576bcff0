package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"recruit-backend/internal/shared/auth"
)

func testVerifier(t *testing.T) *auth.Verifier {
	t.Helper()
	verifier, err := auth.NewVerifier("test-secret")
	if err != nil {
		t.Fatalf("verifier: %v", err)
	}
	return verifier
}

func signToken(t *testing.T, verifier *auth.Verifier, claims auth.Claims) string {
	t.Helper()
	if claims.ExpiresAt == nil {
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(time.Hour))
	}
	token, err := verifier.Sign(claims)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return token
}

func authRouter(verifier *auth.Verifier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Auth(verifier))
	r.GET("/api/v1/resumes", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"userId": UserIDFromContext(c),
			"email":  UserEmailFromContext(c),
			"role":   RoleFromContext(c),
		})
	})
	r.OPTIONS("/api/v1/resumes", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func TestAuthAllowsOptionsWithoutIdentity(t *testing.T) {
	r := authRouter(testVerifier(t))

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/resumes", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.Code)
	}
}

func TestAuthRejectsMissingAndMalformedTokens(t *testing.T) {
	r := authRouter(testVerifier(t))

	for _, header := range []string{"", "Bearer ", "Bearer not-a-token", "Basic abc"} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/resumes", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, req)
		if resp.Code != http.StatusUnauthorized {
			t.Fatalf("header %q: expected 401, got %d", header, resp.Code)
		}
	}
}

func TestAuthRejectsExpiredToken(t *testing.T) {
	verifier := testVerifier(t)
	r := authRouter(verifier)

	token := signToken(t, verifier, auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/resumes", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
}

func TestAuthSetsIdentityAndDefaultsRole(t *testing.T) {
	verifier := testVerifier(t)
	r := authRouter(verifier)

	token := signToken(t, verifier, auth.Claims{
		Email:            "ada@example.com",
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1"},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/resumes", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	body := resp.Body.String()
	for _, want := range []string{`"userId":"user-1"`, `"email":"ada@example.com"`, `"role":"candidate"`} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %s in body %s", want, body)
		}
	}
}

func TestRequireRoleForbidsOtherRoles(t *testing.T) {
	verifier := testVerifier(t)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Auth(verifier), RequireRole(RoleAdmin))
	r.GET("/api/v1/admin", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	token := signToken(t, verifier, auth.Claims{
		Role:             RoleCandidate,
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1"},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.Code)
	}
}
