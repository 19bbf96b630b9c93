package httperr

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestRespondStatusMapping(t *testing.T) {
	testCases := []struct {
		err        error
		wantStatus int
		wantKind   Kind
	}{
		{Validation("bad input"), fiber.StatusBadRequest, KindValidation},
		{Unauthenticated("no token"), fiber.StatusUnauthorized, KindUnauthenticated},
		{Forbidden("not yours"), fiber.StatusForbidden, KindForbidden},
		{NotFound("gone"), fiber.StatusNotFound, KindNotFound},
		{Conflict("stale"), fiber.StatusConflict, KindConflict},
		{TooLarge("too big"), fiber.StatusRequestEntityTooLarge, KindTooLarge},
		{Internal(errors.New("db down")), fiber.StatusInternalServerError, KindInternal},
		{errors.New("untyped"), fiber.StatusInternalServerError, KindInternal},
	}

	for _, tc := range testCases {
		t.Run(string(tc.wantKind), func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error {
				return Respond(c, tc.err)
			})

			resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tc.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tc.wantStatus)
			}

			var body Body
			raw, _ := io.ReadAll(resp.Body)
			if err := json.Unmarshal(raw, &body); err != nil {
				t.Fatalf("bad body %q: %v", raw, err)
			}
			if body.Error != tc.wantKind {
				t.Errorf("error kind = %q, want %q", body.Error, tc.wantKind)
			}
		})
	}
}

func TestRespondMasksInternalDetails(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return Respond(c, Internal(errors.New("password=hunter2 dial tcp refused")))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	var body Body
	if err := json.Unmarshal(raw, &body); err != nil {
		t.Fatal(err)
	}
	if body.Message != "internal error" {
		t.Errorf("internal message leaked: %q", body.Message)
	}
}

func TestKindOf(t *testing.T) {
	if KindOf(NotFound("x")) != KindNotFound {
		t.Error("typed error lost its kind")
	}
	wrapped := Wrap(KindConflict, "outer", errors.New("inner"))
	if KindOf(wrapped) != KindConflict {
		t.Error("wrapped error lost its kind")
	}
	if KindOf(errors.New("plain")) != KindInternal {
		t.Error("plain error should default to internal")
	}
}

func TestErrorUnwrap(t *testing.T) {
	inner := errors.New("inner cause")
	e := Wrap(KindInternal, "outer", inner)
	if !errors.Is(e, inner) {
		t.Error("errors.Is should see the wrapped cause")
	}
}
