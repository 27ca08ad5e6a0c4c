package models

import "time"

// Trimester is an ordered academic period (I, II, III) within a school cycle.
type Trimester struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:32;not null" json:"name"`
	Position     int       `gorm:"not null" json:"position"`
	CicloEscolar string    `gorm:"size:16;not null;index" json:"ciclo_escolar"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
