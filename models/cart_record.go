package models

import "time"

// CartRecord stores a serialized cart under its session key.
type CartRecord struct {
	SessionKey string    `gorm:"primaryKey;type:varchar(100)"`
	Payload    string    `gorm:"type:text;not null"`
	UpdatedAt  time.Time `gorm:"not null"`
}
