package Attendance

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/pkg/errors"

	"Helios/Models"
)

// ClientState is the locally persisted attendance state: the marking window
// and the per-user "already marked today" flags. It deliberately lives in a
// local JSON file and is never synchronized through the store — each deployed
// instance carries its own policy, reproducing the reference behavior.
type ClientState struct {
	mu   sync.Mutex
	path string
	data stateFile
}

type stateFile struct {
	Window     Models.AttendanceWindow `json:"window"`
	LastMarked map[string]string       `json:"last_marked"`
}

func defaultState() stateFile {
	return stateFile{
		Window: Models.AttendanceWindow{
			EnableTime:  "09:00",
			DisableTime: "18:00",
			IsEnabled:   true,
		},
		LastMarked: make(map[string]string),
	}
}

// LoadClientState reads the state file at path, falling back to defaults
// when it does not exist yet.
func LoadClientState(path string) (*ClientState, error) {
	state := &ClientState{path: path, data: defaultState()}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return state, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "read attendance state")
	}
	if err := json.Unmarshal(raw, &state.data); err != nil {
		return nil, errors.Wrap(err, "decode attendance state")
	}
	if state.data.LastMarked == nil {
		state.data.LastMarked = make(map[string]string)
	}
	return state, nil
}

func (s *ClientState) Window() Models.AttendanceWindow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.Window
}

func (s *ClientState) SetWindow(window Models.AttendanceWindow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Window = window
	return s.persist()
}

// LastMarked returns the organization-local day userID last marked on, or
// "" when absent.
func (s *ClientState) LastMarked(userID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.LastMarked[userID]
}

func (s *ClientState) SetLastMarked(userID, date string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.LastMarked[userID] = date
	return s.persist()
}

func (s *ClientState) ClearLastMarked(userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data.LastMarked, userID)
	return s.persist()
}

// persist writes the state file. Callers hold the lock.
func (s *ClientState) persist() error {
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode attendance state")
	}
	if err := os.WriteFile(s.path, raw, 0644); err != nil {
		return errors.Wrap(err, "write attendance state")
	}
	return nil
}
