package models

import "time"

// Role is the permission level of a [Session].
type Role string

const RoleAdmin Role = "admin"

// Session records who is operating the library desk.
type Session struct {
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	Provider  string    `json:"provider"`
	StartedAt time.Time `json:"startedAt"`
}

// IsAdmin reports whether the session may mutate the catalog and roster.
func (s Session) IsAdmin() bool { return s.Role == RoleAdmin }
