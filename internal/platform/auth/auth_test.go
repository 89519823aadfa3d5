package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func TestIssueAndVerify(t *testing.T) {
	issuer := NewTokenIssuer(testSecret, time.Hour)
	userID := uuid.New()

	tok, err := issuer.Issue(userID, RolePatient)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := issuer.Verify(tok)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.Subject != userID.String() {
		t.Errorf("expected subject %s, got %s", userID, claims.Subject)
	}
	if claims.Role != RolePatient {
		t.Errorf("expected role patient, got %s", claims.Role)
	}
}

func TestVerify_Expired(t *testing.T) {
	issuer := NewTokenIssuer(testSecret, -time.Minute)
	tok, err := issuer.Issue(uuid.New(), RolePatient)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := issuer.Verify(tok); err == nil {
		t.Error("expected error for expired token")
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	issuer := NewTokenIssuer(testSecret, time.Hour)
	other := NewTokenIssuer([]byte("another-secret-another-secret-xx"), time.Hour)

	tok, err := issuer.Issue(uuid.New(), RoleHospital)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := other.Verify(tok); err == nil {
		t.Error("expected error for token signed with different secret")
	}
}

func TestRevoke(t *testing.T) {
	issuer := NewTokenIssuer(testSecret, time.Hour)
	tok, err := issuer.Issue(uuid.New(), RolePatient)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	claims, err := issuer.Verify(tok)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}

	issuer.Revoke(claims)

	if _, err := issuer.Verify(tok); err == nil {
		t.Error("expected error for revoked token")
	}
}

func TestHashAndComparePassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !ComparePassword(hash, "s3cret-pass") {
		t.Error("expected matching password to compare true")
	}
	if ComparePassword(hash, "wrong-pass") {
		t.Error("expected wrong password to compare false")
	}
}

func newAuthedContext(t *testing.T, issuer *TokenIssuer, role string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	tok, err := issuer.Issue(uuid.New(), role)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestMiddleware_SetsIdentity(t *testing.T) {
	issuer := NewTokenIssuer(testSecret, time.Hour)
	c, _ := newAuthedContext(t, issuer, RoleHospital)

	handler := func(c echo.Context) error {
		ctx := c.Request().Context()
		if UserIDFromContext(ctx) == uuid.Nil {
			t.Error("expected user id on context")
		}
		if RoleFromContext(ctx) != RoleHospital {
			t.Errorf("expected role hospital, got %s", RoleFromContext(ctx))
		}
		return c.NoContent(http.StatusOK)
	}

	if err := Middleware(issuer, nil)(handler)(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestMiddleware_MissingHeader(t *testing.T) {
	issuer := NewTokenIssuer(testSecret, time.Hour)
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	err := Middleware(issuer, nil)(func(c echo.Context) error { return nil })(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %v", err)
	}
}

func TestMiddleware_Skipper(t *testing.T) {
	issuer := NewTokenIssuer(testSecret, time.Hour)
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	skipper := func(c echo.Context) bool { return c.Request().URL.Path == "/health" }
	called := false
	err := Middleware(issuer, skipper)(func(c echo.Context) error {
		called = true
		return nil
	})(c)
	if err != nil || !called {
		t.Errorf("expected skipped request to pass through, err=%v called=%v", err, called)
	}
}

func TestRequireRole(t *testing.T) {
	issuer := NewTokenIssuer(testSecret, time.Hour)
	c, _ := newAuthedContext(t, issuer, RolePatient)

	inner := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	chain := Middleware(issuer, nil)(RequireRole(RoleHospital)(inner))

	err := chain(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusForbidden {
		t.Errorf("expected 403 for patient hitting hospital route, got %v", err)
	}

	c2, _ := newAuthedContext(t, issuer, RoleHospital)
	if err := Middleware(issuer, nil)(RequireRole(RoleHospital)(inner))(c2); err != nil {
		t.Errorf("expected hospital role to pass, got %v", err)
	}
}
