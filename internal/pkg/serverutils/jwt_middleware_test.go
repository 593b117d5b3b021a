package serverutils

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

func newProtectedApp() *fiber.App {
	app := fiber.New()
	app.Use(JwtMiddleware(testSecret))
	app.Get("/protected", func(c *fiber.Ctx) error {
		return c.SendString(c.Locals("operator_id").(string))
	})
	return app
}

func requestWithToken(t *testing.T, app *fiber.App, token string) int {
	t.Helper()
	req := httptest.NewRequest("GET", "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	return resp.StatusCode
}

func TestJwtMiddlewareAcceptsValidToken(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "op-1"}).
		SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}

	if status := requestWithToken(t, newProtectedApp(), token); status != fiber.StatusOK {
		t.Errorf("status = %d, want %d", status, fiber.StatusOK)
	}
}

func TestJwtMiddlewareRejectsMissingToken(t *testing.T) {
	if status := requestWithToken(t, newProtectedApp(), ""); status != fiber.StatusUnauthorized {
		t.Errorf("status = %d, want %d", status, fiber.StatusUnauthorized)
	}
}

func TestJwtMiddlewareRejectsWrongSecret(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "op-1"}).
		SignedString([]byte("another-secret"))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}

	if status := requestWithToken(t, newProtectedApp(), token); status != fiber.StatusUnauthorized {
		t.Errorf("status = %d, want %d", status, fiber.StatusUnauthorized)
	}
}

// Tokens must be HMAC-signed; an alg switch (here "none") has to fail even
// though the payload parses.
func TestJwtMiddlewareRejectsNonHMACAlgorithm(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "op-1"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}

	if status := requestWithToken(t, newProtectedApp(), token); status != fiber.StatusUnauthorized {
		t.Errorf("status = %d, want %d", status, fiber.StatusUnauthorized)
	}
}
