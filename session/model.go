package session

import "time"

// DefaultTTL is the fixed auth-session lifetime. The store refuses to keep a
// record alive past it regardless of deny-list activity.
const DefaultTTL = 24 * time.Hour

// timeLayout matches the ISO 8601 millisecond format the record timestamps
// are persisted in.
const timeLayout = "2006-01-02T15:04:05.000Z"

// Record is one persisted auth session. The JSON field names are the wire
// contract of the store; integrators reading records out-of-band rely on
// them.
//
// Record instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Record struct {
	ID                    string   `json:"id"`
	UserID                string   `json:"user_id"`
	RefreshTokensDenyList []string `json:"refresh_tokens_deny_list"`
	CreatedAt             string   `json:"created_at"`
	UpdatedAt             string   `json:"updated_at"`
}

// Denied reports exact-string membership of refreshToken in the record's
// deny-list.
func (r *Record) Denied(refreshToken string) bool {
	if r == nil {
		return false
	}
	for _, t := range r.RefreshTokensDenyList {
		if t == refreshToken {
			return true
		}
	}
	return false
}

func nowStamp(now time.Time) string {
	return now.UTC().Format(timeLayout)
}
