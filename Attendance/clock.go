package Attendance

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"Helios/Models"
)

// All attendance math runs on a fixed UTC+5:30 organization clock, whatever
// the client or host locale is. The shift is applied by adding the offset to
// the UTC instant and reading calendar fields off the shifted time, so two
// clients in different time zones always agree on "today" and the window.
const orgOffsetMinutes = 5*60 + 30

func orgTime(now time.Time) time.Time {
	return now.UTC().Add(orgOffsetMinutes * time.Minute)
}

// OrgDay returns the organization-local calendar day (YYYY-MM-DD).
func OrgDay(now time.Time) string {
	return orgTime(now).Format("2006-01-02")
}

// OrgClock returns the organization-local time of day (HH:MM:SS).
func OrgClock(now time.Time) string {
	return orgTime(now).Format("15:04:05")
}

func orgSecondOfDay(now time.Time) int {
	t := orgTime(now)
	return t.Hour()*3600 + t.Minute()*60 + t.Second()
}

// ValidateWindow rejects windows that could never open: unparsable
// boundaries or an enable time at or past the disable time.
func ValidateWindow(w Models.AttendanceWindow) error {
	enableAt, err := parseClock(w.EnableTime)
	if err != nil {
		return err
	}
	disableAt, err := parseClock(w.DisableTime)
	if err != nil {
		return err
	}
	if enableAt >= disableAt {
		return fmt.Errorf("enable time %s must be before disable time %s", w.EnableTime, w.DisableTime)
	}
	return nil
}

// parseClock converts an "HH:MM" window boundary to seconds since midnight.
func parseClock(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid clock value %q, want HH:MM", s)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	return hour*3600 + minute*60, nil
}
