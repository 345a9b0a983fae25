package model

import (
	"time"
)

// BaseModel carries no soft-delete column: attempts and answers must be
// removed by the foreign-key cascade when their user or assessment goes away.
// swagger:model
type BaseModel struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
