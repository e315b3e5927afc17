package models

import "time"

// DefaultTaskWeight is applied when a task is created without a weight.
const DefaultTaskWeight = 1.0

type Task struct {
	ID          string    `json:"id" bson:"_id" gorm:"primaryKey"`
	ProjectID   string    `json:"projectId" bson:"projectId" gorm:"index;not null"`
	Title       string    `json:"title" bson:"title" gorm:"not null"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	Weight      float64   `json:"weight" bson:"weight"`
	Completed   bool      `json:"completed" bson:"completed"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
}

type TaskCreate struct {
	Title       string   `json:"title" validate:"required,max=200"`
	Description string   `json:"description" validate:"max=2000"`
	Weight      *float64 `json:"weight" validate:"omitempty,gt=0"`
}
