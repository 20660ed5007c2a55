package models

import (
	"time"

	"github.com/google/uuid"
)

// User owns food logs, inventory and goals. HTTP users are identified by the
// subject of their access token, Telegram users by their Telegram ID.
type User struct {
	ID          uuid.UUID `json:"id" db:"id"`
	TelegramID  *int64    `json:"telegram_id,omitempty" db:"telegram_id"`
	DisplayName string    `json:"display_name" db:"display_name"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}
