package models

import "time"

// ContactMessage is a message left through the public contact form
type ContactMessage struct {
	ID         int64      `json:"id" db:"id"`
	Name       string     `json:"name" db:"name"`
	Email      string     `json:"email" db:"email"`
	Category   string     `json:"category" db:"category"`
	Message    string     `json:"message" db:"message"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	ResolvedAt *time.Time `json:"resolved_at" db:"resolved_at"`
}

// IsResolved reports whether an admin has marked the message as handled
func (m *ContactMessage) IsResolved() bool {
	return m.ResolvedAt != nil
}
