package middleware

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/globetrotterhq/globetrotter-backend/internal/config"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const testSecret = "test-signing-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatal(err)
	}
	return signed
}

func protectedApp() (*fiber.App, uuid.UUID) {
	cfg := &config.Config{JWTSecret: testSecret}
	userID := uuid.New()

	app := fiber.New()
	app.Get("/me", JWTProtected(cfg), func(c *fiber.Ctx) error {
		id, err := GetUserID(c)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"id": id.String(), "role": GetUserRole(c)})
	})
	return app, userID
}

func TestJWTProtectedValidToken(t *testing.T) {
	app, userID := protectedApp()
	token := signToken(t, testSecret, jwt.MapClaims{
		"sub":  userID.String(),
		"role": "user",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body map[string]string
	raw, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(raw, &body); err != nil {
		t.Fatal(err)
	}
	if body["id"] != userID.String() {
		t.Errorf("id = %q, want %q", body["id"], userID)
	}
	if body["role"] != "user" {
		t.Errorf("role = %q, want user", body["role"])
	}
}

func TestJWTProtectedRejections(t *testing.T) {
	app, userID := protectedApp()

	expired := signToken(t, testSecret, jwt.MapClaims{
		"sub": userID.String(),
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	wrongKey := signToken(t, "some-other-secret", jwt.MapClaims{
		"sub": userID.String(),
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	testCases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"garbage token", "Bearer not.a.jwt"},
		{"expired token", "Bearer " + expired},
		{"wrong signing key", "Bearer " + wrongKey},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			resp, err := app.Test(req)
			if err != nil {
				t.Fatal(err)
			}
			resp.Body.Close()
			if resp.StatusCode != fiber.StatusUnauthorized {
				t.Errorf("status = %d, want 401", resp.StatusCode)
			}
		})
	}
}

func optionalApp() *fiber.App {
	cfg := &config.Config{JWTSecret: testSecret}

	app := fiber.New()
	app.Get("/trip", OptionalAuth(cfg, nil), func(c *fiber.Ctx) error {
		id, err := GetUserID(c)
		if err != nil {
			return c.JSON(fiber.Map{"viewer": "anonymous"})
		}
		return c.JSON(fiber.Map{"viewer": id.String()})
	})
	return app
}

// Share-link holders have no account; the optional guard must let them
// through to the visibility check instead of answering 401.
func TestOptionalAuthAnonymous(t *testing.T) {
	app := optionalApp()

	req := httptest.NewRequest("GET", "/trip?share_token=abc", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body map[string]string
	raw, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(raw, &body); err != nil {
		t.Fatal(err)
	}
	if body["viewer"] != "anonymous" {
		t.Errorf("viewer = %q, want anonymous", body["viewer"])
	}
}

func TestOptionalAuthInvalidTokenFallsBackToAnonymous(t *testing.T) {
	app := optionalApp()
	wrongKey := signToken(t, "some-other-secret", jwt.MapClaims{
		"sub": uuid.New().String(),
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	for name, header := range map[string]string{
		"garbage token":     "Bearer not.a.jwt",
		"wrong signing key": "Bearer " + wrongKey,
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/trip", nil)
			req.Header.Set("Authorization", header)
			resp, err := app.Test(req)
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != fiber.StatusOK {
				t.Fatalf("status = %d, want 200", resp.StatusCode)
			}

			var body map[string]string
			raw, _ := io.ReadAll(resp.Body)
			if err := json.Unmarshal(raw, &body); err != nil {
				t.Fatal(err)
			}
			if body["viewer"] != "anonymous" {
				t.Errorf("viewer = %q, want anonymous", body["viewer"])
			}
		})
	}
}

func TestBearerToken(t *testing.T) {
	app := fiber.New()
	var got string
	app.Get("/", func(c *fiber.Ctx) error {
		got = BearerToken(c)
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer abc123")
	if _, err := app.Test(req); err != nil {
		t.Fatal(err)
	}
	if got != "abc123" {
		t.Errorf("header token = %q, want abc123", got)
	}

	// Websocket handshakes carry the token as a query parameter.
	req = httptest.NewRequest("GET", "/?token=xyz789", nil)
	if _, err := app.Test(req); err != nil {
		t.Fatal(err)
	}
	if got != "xyz789" {
		t.Errorf("query token = %q, want xyz789", got)
	}
}

func TestHashTokenStable(t *testing.T) {
	h1 := HashToken("token-a")
	h2 := HashToken("token-a")
	h3 := HashToken("token-b")

	if h1 != h2 {
		t.Error("same token hashed to different values")
	}
	if h1 == h3 {
		t.Error("different tokens collided")
	}
	if len(h1) != 64 {
		t.Errorf("hash length = %d, want 64 hex chars", len(h1))
	}
}
