package domain

import "time"

// SyncStatus is the state of the cross-device synchronization state machine
type SyncStatus int

const (
	SyncDisconnected SyncStatus = iota
	SyncIdle
	SyncPending
	SyncSyncing
	SyncSuccess
	SyncError
)

// String returns the human-readable status name
func (s SyncStatus) String() string {
	switch s {
	case SyncDisconnected:
		return "disconnected"
	case SyncIdle:
		return "idle"
	case SyncPending:
		return "pending"
	case SyncSyncing:
		return "syncing"
	case SyncSuccess:
		return "success"
	case SyncError:
		return "error"
	default:
		return "unknown"
	}
}

// SyncState lives for the process lifetime and is reset fully on logout
type SyncState struct {
	Credential   string
	Identity     string // remote login
	Repository   string // owner/name
	VersionToken string // content hash of the last read or written remote payload
	IsSyncing    bool
	LastSyncTime time.Time
	Status       SyncStatus
	LastError    string
}

// Connected reports whether a credential and repository are bound
func (s SyncState) Connected() bool {
	return s.Credential != "" && s.Repository != ""
}

// Preferences are the user settings carried in the sync payload
type Preferences struct {
	Theme        string `json:"theme,omitempty"`
	ProxyDisplay *bool  `json:"showProxy,omitempty"`
}

// SyncPayload is the aggregated document stored in the remote repository.
// Absent fields (nil) are left untouched locally when pulled.
type SyncPayload struct {
	UpdatedAt        time.Time    `json:"updatedAt"`
	Preferences      *Preferences `json:"preferences,omitempty"`
	PersonalCategory *Category    `json:"personalCategory,omitempty"`
	CustomSources    []DataSource `json:"customSources"`
}

// UserIdentity is the account the remote credential belongs to
type UserIdentity struct {
	Login string
	Name  string
}
