package Controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"Helios/Attendance"
	"Helios/Exports"
	"Helios/Models"
	"Helios/middleware"
)

// AttendanceController exposes the eligibility engine to the toolbar and the
// attendance sheets to the admin screens.
type AttendanceController struct {
	Engine *Attendance.Engine
	Store  Models.Store
}

func NewAttendanceController(engine *Attendance.Engine, store Models.Store) *AttendanceController {
	return &AttendanceController{Engine: engine, Store: store}
}

// Status returns the current eligibility evaluation for the session user.
// The toolbar polls this and renders the label/button verbatim.
func (ctl *AttendanceController) Status(c *fiber.Ctx) error {
	return c.JSON(ctl.Engine.Status(middleware.CurrentUser(c)))
}

// Mark performs the daily mark for the session user.
func (ctl *AttendanceController) Mark(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	record, eval, err := ctl.Engine.Mark(c.Context(), user)
	if errors.Is(err, Attendance.ErrNotEligible) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":      "Attendance is not open for marking",
			"evaluation": eval,
		})
	}
	if err != nil {
		// The local flag was not committed, the user can simply retry.
		if !Models.IsOnline(ctl.Store) {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error":   "offline",
				"message": "Cannot reach the database, check your connection",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed", "message": "Could not save attendance"})
	}
	return c.JSON(fiber.Map{"record": record, "evaluation": eval})
}

// Reset clears the local "already marked" flag. Master_admin only (route
// gate); intended as an operational override, the remote record stays.
func (ctl *AttendanceController) Reset(c *fiber.Ctx) error {
	var req struct {
		UserID string `json:"user_id"`
	}
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if req.UserID == "" {
		req.UserID = middleware.CurrentUser(c).ID
	}

	if err := ctl.Engine.Reset(req.UserID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed", "message": "Could not reset attendance state"})
	}
	return c.JSON(fiber.Map{"message": "Attendance state reset"})
}

// GetWindow returns the marking policy of this instance.
func (ctl *AttendanceController) GetWindow(c *fiber.Ctx) error {
	return c.JSON(ctl.Engine.Window())
}

// UpdateWindow replaces the marking policy. Master_admin only (route gate).
// The window is local to this instance and is not written to the store.
func (ctl *AttendanceController) UpdateWindow(c *fiber.Ctx) error {
	var window Models.AttendanceWindow
	if err := c.BodyParser(&window); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if window.IsEnabled {
		if err := Attendance.ValidateWindow(window); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Validation failed", "message": err.Error()})
		}
	}

	if err := ctl.Engine.SetWindow(window); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed", "message": "Could not save attendance window"})
	}
	return c.JSON(window)
}

// MyRecords lists the session user's attendance history.
func (ctl *AttendanceController) MyRecords(c *fiber.Ctx) error {
	records, err := ctl.Engine.Writer().GetUserAttendance(c.Context(), middleware.CurrentUser(c).ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve attendance"})
	}
	return c.JSON(records)
}

// AllRecords lists everyone's attendance. The route gate restricts it to
// master_admin and the writer checks again before the remote call.
func (ctl *AttendanceController) AllRecords(c *fiber.Ctx) error {
	records, err := ctl.allRecords(c)
	if err != nil {
		if errors.Is(err, Attendance.ErrPermissionDenied) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "Insufficient permissions to access this resource"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve attendance"})
	}
	return c.JSON(records)
}

// ExportExcel downloads the full attendance sheet as a workbook.
func (ctl *AttendanceController) ExportExcel(c *fiber.Ctx) error {
	records, err := ctl.allRecords(c)
	if err != nil {
		if errors.Is(err, Attendance.ErrPermissionDenied) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "Insufficient permissions to access this resource"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve attendance"})
	}
	data, err := Exports.AttendanceWorkbook(records)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to build workbook"})
	}
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="attendance.xlsx"`)
	return c.Send(data)
}

// ExportCSV downloads the full attendance sheet as CSV.
func (ctl *AttendanceController) ExportCSV(c *fiber.Ctx) error {
	records, err := ctl.allRecords(c)
	if err != nil {
		if errors.Is(err, Attendance.ErrPermissionDenied) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "Insufficient permissions to access this resource"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve attendance"})
	}
	data, err := Exports.AttendanceCSV(records)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to build CSV"})
	}
	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="attendance.csv"`)
	return c.Send(data)
}

func (ctl *AttendanceController) allRecords(c *fiber.Ctx) ([]Models.AttendanceRecord, error) {
	return ctl.Engine.Writer().GetAllAttendance(c.Context(), middleware.CurrentUser(c).Role)
}
