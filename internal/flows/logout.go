package flows

import "context"

// LogoutDeps captures logout flow dependencies.
type LogoutDeps struct {
	DeleteSession func(ctx context.Context, sessionID string) error
}

// RunLogout deletes the session unconditionally. Absence of a prior session
// is still success: deleting the record makes every token bound to its id
// unverifiable as active, so no deny-list bookkeeping is needed here.
func RunLogout(ctx context.Context, sessionID string, deps LogoutDeps) error {
	return deps.DeleteSession(ctx, sessionID)
}
