package models

import "time"

// DiningTable represents a physical table in the restaurant.
type DiningTable struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"table_name" db:"table_name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
