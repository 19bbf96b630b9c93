package handlers

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/globetrotterhq/globetrotter-backend/internal/dto"
	"github.com/globetrotterhq/globetrotter-backend/internal/httperr"
	"github.com/gofiber/fiber/v2"
)

func TestCheckStruct(t *testing.T) {
	valid := dto.LoginRequest{Email: "a@b.com", Password: "secret1"}
	if err := checkStruct(&valid); err != nil {
		t.Errorf("valid struct rejected: %v", err)
	}

	missing := dto.LoginRequest{Email: "a@b.com"}
	err := checkStruct(&missing)
	if err == nil {
		t.Fatal("missing password accepted")
	}
	if httperr.KindOf(err) != httperr.KindValidation {
		t.Errorf("kind = %q, want validation", httperr.KindOf(err))
	}
	if !strings.Contains(err.Error(), "password") {
		t.Errorf("message should name the failing field: %q", err.Error())
	}

	badEmail := dto.LoginRequest{Email: "not-an-email", Password: "secret1"}
	if err := checkStruct(&badEmail); err == nil {
		t.Error("malformed email accepted")
	}
}

func TestParseBodyIgnoresUnknownFields(t *testing.T) {
	app := fiber.New()
	var got dto.LoginRequest
	app.Post("/", func(c *fiber.Ctx) error {
		if err := parseBody(c, &got); err != nil {
			return httperr.Respond(c, err)
		}
		return c.SendStatus(fiber.StatusOK)
	})

	body := `{"email":"a@b.com","password":"secret1","unexpected":"field"}`
	req := httptest.NewRequest("POST", "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if got.Email != "a@b.com" {
		t.Errorf("email = %q", got.Email)
	}
}

func TestParseBodyMalformedJSON(t *testing.T) {
	app := fiber.New()
	app.Post("/", func(c *fiber.Ctx) error {
		var dst dto.LoginRequest
		if err := parseBody(c, &dst); err != nil {
			return httperr.Respond(c, err)
		}
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest("POST", "/", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}
