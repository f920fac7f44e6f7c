package application

import "navhub/internal/domain"

// Re-export domain types for use by adapters
type (
	NavDocument = domain.NavDocument
	Category    = domain.Category
	Site        = domain.Site
	DataSource  = domain.DataSource
	SyncState   = domain.SyncState
	SyncStatus  = domain.SyncStatus
	SiteMatch   = domain.SiteMatch
)

const (
	SyncDisconnected = domain.SyncDisconnected
	SyncIdle         = domain.SyncIdle
	SyncPending      = domain.SyncPending
	SyncSyncing      = domain.SyncSyncing
	SyncSuccess      = domain.SyncSuccess
	SyncError        = domain.SyncError
)

// IsBuiltinPath reports whether id names a compiled-in source
func IsBuiltinPath(id string) bool {
	for _, s := range domain.BuiltinSources {
		if s.Path == id {
			return true
		}
	}
	return false
}
