package chat

import "time"

// Session captures a transient anonymous conversation. History lives only
// as long as the session; it is discarded with it.
type Session struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
}
