package models

import (
	"time"

	"github.com/google/uuid"
)

// Goal is a daily target for one nutrient
type Goal struct {
	ID           int64     `json:"id" db:"id"`
	UserID       uuid.UUID `json:"user_id" db:"user_id"`
	NutrientKey  string    `json:"nutrient_key" db:"nutrient_key"`
	TargetAmount float64   `json:"target_amount" db:"target_amount"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}
