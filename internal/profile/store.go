// Package profile persists the last confirmed answer set per user so a
// returning user can skip re-entry. Storage is keyed by chat ID — never a
// single shared file — so one user's answers cannot leak into another's
// session. All operations are best-effort from the driver's point of
// view: failures are logged and never block document delivery.
package profile

import "context"

// Store is the persistence port for answer profiles.
type Store interface {
	// Load returns the stored answer set for the chat, or an empty map
	// when none exists.
	Load(ctx context.Context, chatID int64) (map[string]string, error)
	// Save overwrites the chat's stored answer set wholesale.
	Save(ctx context.Context, chatID int64, answers map[string]string) error
}
