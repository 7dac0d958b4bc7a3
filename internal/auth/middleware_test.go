package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret, subject string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": subject})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatal(err)
	}
	return signed
}

func request(t *testing.T, authorization string) (*httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	var gotUserID string
	handler := Middleware(testSecret)(func(c echo.Context) error {
		gotUserID = UserID(c)
		return c.String(http.StatusOK, gotUserID)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authorization != "" {
		req.Header.Set(echo.HeaderAuthorization, authorization)
	}
	rec := httptest.NewRecorder()
	return rec, handler(e.NewContext(req, rec))
}

func TestMiddlewareAcceptsValidToken(t *testing.T) {
	rec, err := request(t, "Bearer "+signToken(t, testSecret, "user-42"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Body.String() != "user-42" {
		t.Fatalf("user id = %q, want user-42", rec.Body.String())
	}
}

func TestMiddlewareRejectsMissingToken(t *testing.T) {
	for _, header := range []string{"", "Bearer ", "Basic abc"} {
		_, err := request(t, header)
		he, ok := err.(*echo.HTTPError)
		if !ok || he.Code != http.StatusUnauthorized {
			t.Fatalf("header %q: expected 401, got %v", header, err)
		}
	}
}

func TestMiddlewareRejectsWrongSecret(t *testing.T) {
	_, err := request(t, "Bearer "+signToken(t, "other-secret", "user-42"))
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestMiddlewareRejectsEmptySubject(t *testing.T) {
	_, err := request(t, "Bearer "+signToken(t, testSecret, ""))
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}
