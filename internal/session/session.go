// Package session holds the authenticated session state and its on-disk
// persistence. The state is owned by the running process; a failed restore
// probe invalidates the file and forces a fresh login.
package session

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
)

// State is the persisted session: account identity plus the device and
// signing identifiers the API expects on authenticated calls.
type State struct {
	UserID   string `json:"user_id"`  // numeric account id, kept as string
	Username string `json:"username"`

	DeviceID  string `json:"device_id"`  // stable per-install UUID (_uuid)
	PhoneID   string `json:"phone_id"`   // secondary device UUID
	CSRFToken string `json:"csrf_token"` // refreshed at login
	DeviceKey string `json:"device_key"` // hex HMAC key for request signing

	SavedAt time.Time `json:"saved_at"`
}

// New returns a fresh, unauthenticated state with generated device
// identifiers and signing key.
func New() *State {
	return &State{
		DeviceID:  uuid.New().String(),
		PhoneID:   uuid.New().String(),
		DeviceKey: newDeviceKey(),
	}
}

func newDeviceKey() string {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		// crypto/rand read failure means the platform RNG is broken;
		// uuid.New would have panicked already in that case.
		panic(fmt.Sprintf("generate device key: %v", err))
	}
	return hex.EncodeToString(key)
}

// LoggedIn reports whether the state carries an authenticated account.
func (s *State) LoggedIn() bool {
	return s != nil && s.UserID != ""
}

// Load reads a persisted session from path.
func Load(path string) (*State, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304 - path from the settings directory
	if err != nil {
		return nil, fmt.Errorf("read session file: %w", err)
	}

	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("parse session file: %w", err)
	}
	if st.DeviceKey == "" {
		return nil, fmt.Errorf("session file missing device key")
	}
	return &st, nil
}

// Save writes the session to path with owner-only permissions.
func (s *State) Save(path string) error {
	s.SavedAt = time.Now().UTC()
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}

// Delete removes the session file. Missing files are not an error.
func Delete(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete session file: %w", err)
	}
	return nil
}
