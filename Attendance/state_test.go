package Attendance

import (
	"os"
	"path/filepath"
	"testing"

	"Helios/Models"
)

func TestClientStateDefaults(t *testing.T) {
	state, err := LoadClientState(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatal(err)
	}
	window := state.Window()
	if !window.IsEnabled || window.EnableTime != "09:00" || window.DisableTime != "18:00" {
		t.Errorf("default window = %+v", window)
	}
	if got := state.LastMarked("u1"); got != "" {
		t.Errorf("LastMarked on fresh state = %q", got)
	}
}

func TestClientStateRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "attendance.json")

	state, err := LoadClientState(path)
	if err != nil {
		t.Fatal(err)
	}
	window := Models.AttendanceWindow{EnableTime: "07:30", DisableTime: "11:00", IsEnabled: false}
	if err := state.SetWindow(window); err != nil {
		t.Fatal(err)
	}
	if err := state.SetLastMarked("u1", "2026-03-10"); err != nil {
		t.Fatal(err)
	}

	reloaded, err := LoadClientState(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := reloaded.Window(); got != window {
		t.Errorf("window after reload = %+v, want %+v", got, window)
	}
	if got := reloaded.LastMarked("u1"); got != "2026-03-10" {
		t.Errorf("LastMarked after reload = %q", got)
	}

	if err := reloaded.ClearLastMarked("u1"); err != nil {
		t.Fatal(err)
	}
	again, err := LoadClientState(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := again.LastMarked("u1"); got != "" {
		t.Errorf("LastMarked after clear = %q", got)
	}
}

func TestClientStateRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "attendance.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadClientState(path); err == nil {
		t.Error("expected an error for a corrupt state file")
	}
}
