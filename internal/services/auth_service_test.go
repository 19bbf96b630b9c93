package services

import (
	"errors"
	"testing"
	"time"

	"github.com/globetrotterhq/globetrotter-backend/internal/config"
	"github.com/globetrotterhq/globetrotter-backend/internal/models"
	"github.com/google/uuid"
)

func TestNormalizeEmail(t *testing.T) {
	testCases := []struct{ in, want string }{
		{"Alice@Example.COM", "alice@example.com"},
		{"  bob@example.com  ", "bob@example.com"},
		{"carol@example.com", "carol@example.com"},
	}
	for _, tc := range testCases {
		if got := NormalizeEmail(tc.in); got != tc.want {
			t.Errorf("NormalizeEmail(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestEmailDomain(t *testing.T) {
	if got := emailDomain("user@example.com"); got != "example.com" {
		t.Errorf("domain = %q", got)
	}
	if got := emailDomain("not-an-email"); got != "" {
		t.Errorf("domain of invalid email = %q, want empty", got)
	}
	if got := emailDomain(`"a@b"@final.org`); got != "final.org" {
		t.Errorf("domain = %q, want final.org", got)
	}
}

func TestIsUniqueViolation(t *testing.T) {
	if !isUniqueViolation(errors.New(`duplicate key value violates unique constraint "idx_users_email"`)) {
		t.Error("pg duplicate key error not detected")
	}
	if !isUniqueViolation(errors.New("ERROR: ... (SQLSTATE 23505)")) {
		t.Error("SQLSTATE 23505 not detected")
	}
	if isUniqueViolation(errors.New("connection refused")) {
		t.Error("unrelated error flagged as unique violation")
	}
	if isUniqueViolation(nil) {
		t.Error("nil error flagged")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	cfg := &config.Config{JWTSecret: "unit-test-secret", TokenTTL: time.Hour}
	svc := NewAuthService(nil, cfg)

	user := models.User{
		ID:    uuid.New(),
		Email: "alice@example.com",
		Role:  models.RoleAdmin,
	}

	raw, err := svc.generateToken(&user)
	if err != nil {
		t.Fatalf("generateToken: %v", err)
	}

	claims, err := svc.parseClaims(raw)
	if err != nil {
		t.Fatalf("parseClaims: %v", err)
	}

	if claims["sub"] != user.ID.String() {
		t.Errorf("sub = %v, want %s", claims["sub"], user.ID)
	}
	if claims["email"] != user.Email {
		t.Errorf("email = %v", claims["email"])
	}
	if claims["role"] != models.RoleAdmin {
		t.Errorf("role = %v, want admin", claims["role"])
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		t.Fatalf("expiration missing: %v", err)
	}
	ttl := time.Until(exp.Time)
	if ttl < 59*time.Minute || ttl > 61*time.Minute {
		t.Errorf("ttl = %v, want about 1h", ttl)
	}
}

func TestParseClaimsRejectsForgedToken(t *testing.T) {
	issuer := NewAuthService(nil, &config.Config{JWTSecret: "secret-a", TokenTTL: time.Hour})
	verifier := NewAuthService(nil, &config.Config{JWTSecret: "secret-b", TokenTTL: time.Hour})

	raw, err := issuer.generateToken(&models.User{ID: uuid.New(), Role: models.RoleUser})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := verifier.parseClaims(raw); err == nil {
		t.Error("token signed with a different key accepted")
	}
	if _, err := verifier.parseClaims("not.a.token"); err == nil {
		t.Error("garbage token accepted")
	}
}
