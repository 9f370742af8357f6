// Package state tracks per-chat interaction state with persistence to a
// JSON file, so multi-step flows survive a bot restart.
package state

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

var log = logrus.New()

// SetLogger allows setting a custom logger
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

// Mode is the bot's interaction mode for one chat. Each multi-step flow has
// its own mode with an explicit payload field on Session, instead of a
// loosely-typed bag of optional keys.
type Mode string

const (
	// ModeIdle is the default mode; only menu interactions are expected.
	ModeIdle Mode = "idle"

	// ModeInput treats every incoming text as a transaction to log.
	ModeInput Mode = "input"

	// ModeAwaitHeaderAdd waits for the name of a new header column.
	ModeAwaitHeaderAdd Mode = "awaiting_header_add"

	// ModeAwaitHeaderRename waits for the new name of the header stored in
	// Session.HeaderToRename.
	ModeAwaitHeaderRename Mode = "awaiting_header_rename_new_name"

	// ModeAwaitRowText waits for the replacement text of the row stored in
	// Session.RowToEdit.
	ModeAwaitRowText Mode = "awaiting_updated_row_text"
)

// Session is the persisted state of one chat.
type Session struct {
	Mode           Mode   `json:"mode"`
	SpreadsheetID  string `json:"current_spreadsheet_id"`
	SheetName      string `json:"current_sheet_name"`
	HeaderToRename string `json:"header_to_rename,omitempty"`
	RowToEdit      int    `json:"row_to_edit,omitempty"`
}

// Manager loads, serves and persists chat sessions. Safe for concurrent use.
type Manager struct {
	mu       sync.Mutex
	path     string
	sessions map[int64]Session

	defaultSpreadsheetID string
	defaultSheetName     string
}

// NewManager creates a manager persisting to path. The defaults seed new
// sessions with the configured spreadsheet and sheet.
func NewManager(path, defaultSpreadsheetID, defaultSheetName string) *Manager {
	return &Manager{
		path:                 path,
		sessions:             make(map[int64]Session),
		defaultSpreadsheetID: defaultSpreadsheetID,
		defaultSheetName:     defaultSheetName,
	}
}

// Load reads persisted sessions from disk. A missing file starts empty; an
// unreadable file is logged and also starts empty, since losing interaction
// state is recoverable.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := os.ReadFile(m.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read state file: %w", err)
	}

	sessions := make(map[int64]Session)
	if err := json.Unmarshal(data, &sessions); err != nil {
		log.WithError(err).Warn("Could not parse state file, starting with empty state")
		return nil
	}
	m.sessions = sessions
	return nil
}

// Save writes all sessions to disk.
func (m *Manager) Save() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saveLocked()
}

func (m *Manager) saveLocked() error {
	data, err := json.MarshalIndent(m.sessions, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	if err := os.WriteFile(m.path, data, 0o644); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	return nil
}

// Get returns the session for a chat, creating a default one if needed.
func (m *Manager) Get(chatID int64) Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[chatID]
	if !ok {
		session = Session{
			Mode:          ModeIdle,
			SpreadsheetID: m.defaultSpreadsheetID,
			SheetName:     m.defaultSheetName,
		}
		m.sessions[chatID] = session
	}
	return session
}

// Set stores the session for a chat and persists to disk. A persistence
// failure is logged but does not fail the interaction.
func (m *Manager) Set(chatID int64, session Session) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions[chatID] = session
	if err := m.saveLocked(); err != nil {
		log.WithError(err).Error("Failed to persist state")
	}
}

// SetMode is a shorthand for switching a chat's mode while clearing any
// flow payloads.
func (m *Manager) SetMode(chatID int64, mode Mode) {
	session := m.Get(chatID)
	session.Mode = mode
	session.HeaderToRename = ""
	session.RowToEdit = 0
	m.Set(chatID, session)
}
