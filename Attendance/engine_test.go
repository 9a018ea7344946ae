package Attendance

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"Helios/Models"
)

var ist = time.FixedZone("IST", 5*3600+1800)

func istTime(hour, min, sec int) time.Time {
	return time.Date(2026, 3, 10, hour, min, sec, 0, ist)
}

var testWindow = Models.AttendanceWindow{EnableTime: "08:00", DisableTime: "10:00", IsEnabled: true}

func TestEvaluateWindow(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want State
	}{
		{name: "one minute early", now: istTime(7, 59, 0), want: StateTooEarly},
		{name: "last second early", now: istTime(7, 59, 59), want: StateTooEarly},
		{name: "opens exactly at enable", now: istTime(8, 0, 0), want: StateOpen},
		{name: "mid window", now: istTime(9, 0, 0), want: StateOpen},
		{name: "last open second", now: istTime(9, 59, 59), want: StateOpen},
		{name: "closes exactly at disable", now: istTime(10, 0, 0), want: StateTooLate},
		{name: "late evening", now: istTime(23, 30, 0), want: StateTooLate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate(tt.now, Models.RoleEmployee, testWindow, "")
			if got.State != tt.want {
				t.Errorf("Evaluate() state = %s, want %s", got.State, tt.want)
			}
			if wantMark := tt.want == StateOpen; got.CanMark != wantMark {
				t.Errorf("Evaluate() can_mark = %v, want %v", got.CanMark, wantMark)
			}
		})
	}
}

func TestEvaluatePrecedence(t *testing.T) {
	disabled := Models.AttendanceWindow{EnableTime: "08:00", DisableTime: "10:00", IsEnabled: false}
	broken := Models.AttendanceWindow{EnableTime: "whenever", DisableTime: "10:00", IsEnabled: true}
	today := OrgDay(istTime(9, 0, 0))

	tests := []struct {
		name       string
		role       Models.Role
		window     Models.AttendanceWindow
		lastMarked string
		want       State
	}{
		// already marked beats even the master_admin override
		{name: "marked beats override", role: Models.RoleMasterAdmin, window: disabled, lastMarked: today, want: StateAlreadyMarked},
		{name: "marked employee", role: Models.RoleEmployee, window: testWindow, lastMarked: today, want: StateAlreadyMarked},
		{name: "mark on a previous day does not stick", role: Models.RoleEmployee, window: testWindow, lastMarked: "2026-03-09", want: StateOpen},
		// only master_admin overrides the window; admin does not
		{name: "master_admin ignores disabled", role: Models.RoleMasterAdmin, window: disabled, want: StateAdminOverride},
		{name: "admin blocked by disabled", role: Models.RoleAdmin, window: disabled, want: StateDisabled},
		{name: "employee blocked by disabled", role: Models.RoleEmployee, window: disabled, want: StateDisabled},
		{name: "unparsable window acts disabled", role: Models.RoleEmployee, window: broken, want: StateDisabled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate(istTime(9, 0, 0), tt.role, tt.window, tt.lastMarked)
			if got.State != tt.want {
				t.Errorf("Evaluate() state = %s, want %s", got.State, tt.want)
			}
		})
	}
}

func TestEvaluateLabels(t *testing.T) {
	if got := Evaluate(istTime(7, 0, 0), Models.RoleEmployee, testWindow, ""); got.Label != "Opens at 08:00" || got.NextAvailable != "08:00" {
		t.Errorf("too early evaluation = %+v", got)
	}
	if got := Evaluate(istTime(9, 0, 0), Models.RoleEmployee, testWindow, ""); got.Label != "Mark Attendance" {
		t.Errorf("open label = %q", got.Label)
	}
	if got := Evaluate(istTime(11, 0, 0), Models.RoleEmployee, testWindow, ""); got.Label != "Attendance Closed" {
		t.Errorf("closed label = %q", got.Label)
	}
	if got := Evaluate(istTime(9, 0, 0), Models.RoleEmployee, testWindow, OrgDay(istTime(9, 0, 0))); got.Label != "Attendance Marked" {
		t.Errorf("marked label = %q", got.Label)
	}
}

func TestEvaluateClientLocaleIrrelevant(t *testing.T) {
	// 03:30 UTC on 2026-03-10 is 09:00 organization time, however the
	// caller's instant happens to be localized.
	instant := time.Date(2026, 3, 10, 3, 30, 0, 0, time.UTC)
	nyc := instant.In(time.FixedZone("EST", -5*3600))

	utcEval := Evaluate(instant, Models.RoleEmployee, testWindow, "")
	nycEval := Evaluate(nyc, Models.RoleEmployee, testWindow, "")
	if utcEval != nycEval {
		t.Errorf("evaluation depends on the client locale: %+v vs %+v", utcEval, nycEval)
	}
	if utcEval.State != StateOpen {
		t.Errorf("state = %s, want %s", utcEval.State, StateOpen)
	}
}

func TestOrgDayRollsOverBeforeUTC(t *testing.T) {
	// 20:00 UTC is already 01:30 the next day on the organization clock.
	instant := time.Date(2026, 3, 10, 20, 0, 0, 0, time.UTC)
	if got := OrgDay(instant); got != "2026-03-11" {
		t.Errorf("OrgDay() = %s, want 2026-03-11", got)
	}

	// Yesterday's mark must not read as today's.
	got := Evaluate(instant, Models.RoleMasterAdmin, testWindow, "2026-03-10")
	if got.State != StateAdminOverride {
		t.Errorf("state = %s, want %s", got.State, StateAdminOverride)
	}
}

func newTestEngine(t *testing.T, store Models.Store, now time.Time) *Engine {
	t.Helper()
	state, err := LoadClientState(filepath.Join(t.TempDir(), "attendance.json"))
	if err != nil {
		t.Fatal(err)
	}
	if err := state.SetWindow(testWindow); err != nil {
		t.Fatal(err)
	}
	engine := NewEngine(state, NewWriter(store))
	engine.nowFunc = func() time.Time { return now }
	return engine
}

func TestEngineMarkLifecycle(t *testing.T) {
	store := Models.NewMemStore()
	engine := newTestEngine(t, store, istTime(9, 0, 0))
	user := Models.User{ID: "u1", Name: "Asha", Role: Models.RoleEmployee}

	record, eval, err := engine.Mark(context.Background(), user)
	if err != nil {
		t.Fatal(err)
	}
	if record.TimeIn != "09:00:00" || record.Status != Models.AttendancePresent {
		t.Errorf("first mark record = %+v", record)
	}
	if record.ID == "" {
		t.Error("first mark record has no generated key")
	}
	if eval.State != StateAlreadyMarked {
		t.Errorf("state after mark = %s, want %s", eval.State, StateAlreadyMarked)
	}

	// Marking again the same day is blocked locally.
	if _, _, err := engine.Mark(context.Background(), user); !errors.Is(err, ErrNotEligible) {
		t.Errorf("second mark err = %v, want ErrNotEligible", err)
	}

	// After a reset the engine re-evaluates from the window rules and the
	// next mark becomes the clock-out upsert, not a second record.
	if err := engine.Reset(user.ID); err != nil {
		t.Fatal(err)
	}
	if got := engine.Status(user); got.State != StateOpen {
		t.Errorf("state after reset = %s, want %s", got.State, StateOpen)
	}
	engine.nowFunc = func() time.Time { return istTime(9, 45, 0) }
	clockOut, _, err := engine.Mark(context.Background(), user)
	if err != nil {
		t.Fatal(err)
	}
	if clockOut.ID != record.ID || clockOut.TimeOut != "09:45:00" {
		t.Errorf("clock-out record = %+v", clockOut)
	}

	records, err := engine.Writer().GetUserAttendance(context.Background(), user.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
}

func TestEngineMarkRejectedOutsideWindow(t *testing.T) {
	store := Models.NewMemStore()
	engine := newTestEngine(t, store, istTime(7, 59, 0))
	user := Models.User{ID: "u1", Name: "Asha", Role: Models.RoleEmployee}

	_, eval, err := engine.Mark(context.Background(), user)
	if !errors.Is(err, ErrNotEligible) {
		t.Fatalf("err = %v, want ErrNotEligible", err)
	}
	if eval.State != StateTooEarly {
		t.Errorf("state = %s, want %s", eval.State, StateTooEarly)
	}

	records, err := engine.Writer().GetUserAttendance(context.Background(), user.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 0 {
		t.Errorf("rejected mark still wrote %d records", len(records))
	}
}

func TestEngineMarkFailureDoesNotCommitLocally(t *testing.T) {
	store := Models.NewMemStore()
	store.WriteErr = errors.New("store unavailable")
	engine := newTestEngine(t, store, istTime(9, 0, 0))
	user := Models.User{ID: "u1", Name: "Asha", Role: Models.RoleEmployee}

	if _, _, err := engine.Mark(context.Background(), user); err == nil {
		t.Fatal("expected mark to fail")
	}

	// The user stays eligible: lastMarkedDate was not committed.
	if got := engine.Status(user); got.State != StateOpen {
		t.Errorf("state after failed mark = %s, want %s", got.State, StateOpen)
	}

	store.WriteErr = nil
	if _, eval, err := engine.Mark(context.Background(), user); err != nil || eval.State != StateAlreadyMarked {
		t.Errorf("retry mark = (%v, %s), want success and %s", err, eval.State, StateAlreadyMarked)
	}
}

func TestEngineMasterAdminOverride(t *testing.T) {
	store := Models.NewMemStore()
	engine := newTestEngine(t, store, istTime(23, 0, 0))
	if err := engine.SetWindow(Models.AttendanceWindow{EnableTime: "08:00", DisableTime: "10:00", IsEnabled: false}); err != nil {
		t.Fatal(err)
	}
	admin := Models.User{ID: "m1", Name: "Root", Role: Models.RoleMasterAdmin}

	if got := engine.Status(admin); got.State != StateAdminOverride || !got.CanMark {
		t.Fatalf("status = %+v, want markable admin override", got)
	}
	if _, eval, err := engine.Mark(context.Background(), admin); err != nil || eval.State != StateAlreadyMarked {
		t.Errorf("override mark = (%v, %s)", err, eval.State)
	}
}
