package models

import "time"

// ErrorLog records a non-fatal runtime problem, such as a display server
// connection that dropped, so it can be inspected after the fact.
type ErrorLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Timestamp time.Time `gorm:"not null;index" json:"timestamp"`
	Component string    `gorm:"not null;default:''" json:"component"`
	ErrorMsg  string    `gorm:"not null" json:"error_msg"`
}
