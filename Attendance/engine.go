package Attendance

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"Helios/Models"
)

// State is the attendance eligibility state for one user at one instant.
type State string

const (
	StateTooEarly      State = "too_early"
	StateOpen          State = "open"
	StateTooLate       State = "too_late"
	StateAlreadyMarked State = "already_marked"
	StateAdminOverride State = "admin_override"
	StateDisabled      State = "disabled"
)

// Evaluation is what the toolbar renders: the state, the button label and
// whether the mark action is callable right now.
type Evaluation struct {
	State         State  `json:"state"`
	Label         string `json:"label"`
	CanMark       bool   `json:"can_mark"`
	NextAvailable string `json:"next_available,omitempty"`
}

// ErrNotEligible is returned by Mark outside the Open/AdminOverride states.
var ErrNotEligible = errors.New("attendance is not open for marking")

// Evaluate applies the eligibility rules in precedence order:
//
//  1. already marked today wins over everything, including the admin override
//  2. master_admin may always mark, whatever the window says
//  3. a disabled window blocks every other role entirely
//  4. before the enable time the button shows when it opens
//  5. at or past the disable time the day is closed
//  6. otherwise marking is open
//
// A window that fails to parse behaves like a disabled one.
func Evaluate(now time.Time, role Models.Role, window Models.AttendanceWindow, lastMarkedDate string) Evaluation {
	if lastMarkedDate == OrgDay(now) {
		return Evaluation{State: StateAlreadyMarked, Label: "Attendance Marked"}
	}
	if role == Models.RoleMasterAdmin {
		return Evaluation{State: StateAdminOverride, Label: "Mark Attendance (Admin Override)", CanMark: true}
	}
	if !window.IsEnabled {
		return Evaluation{State: StateDisabled, Label: "Attendance Disabled"}
	}

	enableAt, err := parseClock(window.EnableTime)
	if err != nil {
		return Evaluation{State: StateDisabled, Label: "Attendance Disabled"}
	}
	disableAt, err := parseClock(window.DisableTime)
	if err != nil {
		return Evaluation{State: StateDisabled, Label: "Attendance Disabled"}
	}

	nowSec := orgSecondOfDay(now)
	if nowSec < enableAt {
		return Evaluation{State: StateTooEarly, Label: "Opens at " + window.EnableTime, NextAvailable: window.EnableTime}
	}
	if nowSec >= disableAt {
		return Evaluation{State: StateTooLate, Label: "Attendance Closed"}
	}
	return Evaluation{State: StateOpen, Label: "Mark Attendance", CanMark: true}
}

// Engine ties the eligibility rules to the local client state and the record
// writer. It is what the toolbar endpoints consume: {state, label, mark, reset}.
type Engine struct {
	mu     sync.Mutex
	state  *ClientState
	writer *Writer

	nowFunc func() time.Time

	lastWindowState State
}

func NewEngine(state *ClientState, writer *Writer) *Engine {
	return &Engine{state: state, writer: writer, nowFunc: time.Now}
}

// Status evaluates eligibility for the given user right now.
func (e *Engine) Status(user Models.User) Evaluation {
	now := e.nowFunc()
	return Evaluate(now, user.Role, e.state.Window(), e.state.LastMarked(user.ID))
}

// Mark performs the once-per-day upsert for user. The local "already marked"
// flag is committed only after the remote write succeeds, so a failed write
// leaves the user eligible to retry.
func (e *Engine) Mark(ctx context.Context, user Models.User) (Models.AttendanceRecord, Evaluation, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.nowFunc()
	eval := Evaluate(now, user.Role, e.state.Window(), e.state.LastMarked(user.ID))
	if !eval.CanMark {
		return Models.AttendanceRecord{}, eval, ErrNotEligible
	}

	record, err := e.writer.MarkAttendance(ctx, user.ID, user.Name, now)
	if err != nil {
		return Models.AttendanceRecord{}, eval, err
	}

	if err := e.state.SetLastMarked(user.ID, OrgDay(now)); err != nil {
		log.Println("Failed to persist last marked date:", err)
	}
	eval = Evaluate(now, user.Role, e.state.Window(), e.state.LastMarked(user.ID))
	return record, eval, nil
}

// Reset clears the local "already marked" flag for userID. Operational
// override only: the remote record, if any, is left alone, so the next mark
// of the day becomes the clock-out upsert.
func (e *Engine) Reset(userID string) error {
	return e.state.ClearLastMarked(userID)
}

// Window returns the current marking policy.
func (e *Engine) Window() Models.AttendanceWindow {
	return e.state.Window()
}

// SetWindow replaces the marking policy.
func (e *Engine) SetWindow(window Models.AttendanceWindow) error {
	return e.state.SetWindow(window)
}

// Writer exposes the record writer for read endpoints.
func (e *Engine) Writer() *Writer {
	return e.writer
}

// Tick is the recurring re-evaluation. The server has no single "current
// user", so the tick watches the window itself (employee view, no mark
// history) and logs transitions between open and closed.
func (e *Engine) Tick() {
	e.mu.Lock()
	defer e.mu.Unlock()

	eval := Evaluate(e.nowFunc(), Models.RoleEmployee, e.state.Window(), "")
	if eval.State != e.lastWindowState {
		log.Printf("Attendance window is now %s (%s)", eval.State, eval.Label)
		e.lastWindowState = eval.State
	}
}
