package FiberConfig

import (
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"

	"Helios/Attendance"
	"Helios/Models"
)

func routedApp(t *testing.T) *fiber.App {
	t.Helper()

	Models.DB = Models.NewMemStore()
	state, err := Attendance.LoadClientState(filepath.Join(t.TempDir(), "state.json"))
	if err != nil {
		t.Fatalf("load state: %v", err)
	}
	engine := Attendance.NewEngine(state, Attendance.NewWriter(Models.DB))

	app := fiber.New()
	SetupRoutes(app, engine)
	return app
}

// Accounts are never deleted in-app, so no DELETE route may exist for users.
func TestNoUserDeleteRoute(t *testing.T) {
	app := routedApp(t)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodDelete, "/api/users/u1", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusNotFound && resp.StatusCode != fiber.StatusMethodNotAllowed {
		t.Errorf("DELETE /api/users/:id = %d, want the route to be unrouted", resp.StatusCode)
	}

	// the update route on the same path stays wired (401 without a session)
	resp, err = app.Test(httptest.NewRequest(fiber.MethodPatch, "/api/users/u1", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("PATCH /api/users/:id without session = %d, want %d", resp.StatusCode, fiber.StatusUnauthorized)
	}
}
