package models

import (
	"fmt"
	"strings"
	"time"
)

// User is a Telegram user known to the bot
type User struct {
	ID       int64  `json:"id" gorm:"primaryKey;autoIncrement:false" db:"id"`
	Username string `json:"username" gorm:"not null" db:"username"`
}

// HistoryEntry is one completed search. Rows are append-only.
type HistoryEntry struct {
	ID            uint      `json:"id" gorm:"primaryKey" db:"id"`
	UserID        int64     `json:"user_id" gorm:"not null;index" db:"user_id"`
	Command       string    `json:"command" gorm:"not null" db:"command"`
	City          string    `json:"city" gorm:"not null" db:"city"`
	ResultsCount  int       `json:"results_count" db:"results_count"`
	PhotosCount   int       `json:"photos_count" db:"photos_count"`
	PriceRange    string    `json:"price_range,omitempty" db:"price_range"`
	DistanceRange string    `json:"distance_range,omitempty" db:"distance_range"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// TableName keeps the original table name
func (HistoryEntry) TableName() string {
	return "history"
}

// String renders the entry for the /history listing
func (h HistoryEntry) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "/%s: %s; results: %d; photos: %d", h.Command, h.City, h.ResultsCount, h.PhotosCount)
	if h.PriceRange != "" {
		fmt.Fprintf(&b, "; price: %s", h.PriceRange)
	}
	if h.DistanceRange != "" {
		fmt.Fprintf(&b, "; distance: %s km", h.DistanceRange)
	}
	return b.String()
}
