package Models

// Attendance statuses.
const (
	AttendancePresent = "present"
	AttendanceAbsent  = "absent"
	AttendanceLate    = "late"
	AttendanceHalfDay = "half-day"
)

// AttendanceRecord lives under attendance/<id>. At most one record exists
// per (UserID, Date); Date and the time-of-day fields are taken from the
// fixed organization clock, never the client's locale.
type AttendanceRecord struct {
	ID       string `json:"id"`
	UserID   string `json:"user_id"`
	UserName string `json:"user_name"`
	Date     string `json:"date"`     // YYYY-MM-DD, organization time zone
	TimeIn   string `json:"time_in"`  // HH:MM:SS
	TimeOut  string `json:"time_out,omitempty"`
	Status   string `json:"status"`
}

// AttendanceWindow is the marking policy: non-admins may mark between
// EnableTime and DisableTime (HH:MM, organization time zone) while
// IsEnabled holds. The window is owned by the local client, not the store.
type AttendanceWindow struct {
	EnableTime  string `json:"enable_time"`
	DisableTime string `json:"disable_time"`
	IsEnabled   bool   `json:"is_enabled"`
}

const AttendancePath = "attendance"
