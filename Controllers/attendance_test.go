package Controllers

import (
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"

	"Helios/Attendance"
	"Helios/Models"
)

func attendanceApp(t *testing.T, user Models.User) *fiber.App {
	t.Helper()

	store := Models.NewMemStore()
	state, err := Attendance.LoadClientState(filepath.Join(t.TempDir(), "state.json"))
	if err != nil {
		t.Fatalf("load state: %v", err)
	}
	ctl := NewAttendanceController(Attendance.NewEngine(state, Attendance.NewWriter(store)), store)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user", user)
		return c.Next()
	})
	app.Get("/records/all", ctl.AllRecords)
	app.Get("/export/csv", ctl.ExportCSV)
	app.Get("/export/excel", ctl.ExportExcel)
	return app
}

var sheetPaths = []string{"/records/all", "/export/csv", "/export/excel"}

func TestAttendanceSheetsRejectNonMasterAdmin(t *testing.T) {
	app := attendanceApp(t, Models.User{ID: "u1", Name: "Asha Verma", Role: Models.RoleAdmin})

	for _, path := range sheetPaths {
		t.Run(path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, path, nil))
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			if resp.StatusCode != fiber.StatusForbidden {
				t.Errorf("status = %d, want %d", resp.StatusCode, fiber.StatusForbidden)
			}
		})
	}
}

func TestAttendanceSheetsServeMasterAdmin(t *testing.T) {
	app := attendanceApp(t, Models.User{ID: "m1", Name: "Meera Pillai", Role: Models.RoleMasterAdmin})

	for _, path := range sheetPaths {
		t.Run(path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, path, nil))
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			if resp.StatusCode != fiber.StatusOK {
				t.Errorf("status = %d, want %d", resp.StatusCode, fiber.StatusOK)
			}
		})
	}
}
