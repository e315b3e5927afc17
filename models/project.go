package models

import "time"

// DeadlineLayout is the ISO date format accepted for project deadlines.
const DeadlineLayout = "2006-01-02"

type Project struct {
	ID          string    `json:"id" bson:"_id" gorm:"primaryKey"`
	OwnerID     string    `json:"ownerId" bson:"ownerId" gorm:"index;not null"`
	Name        string    `json:"name" bson:"name" gorm:"not null"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	Reward      string    `json:"reward,omitempty" bson:"reward,omitempty"`
	Deadline    string    `json:"deadline,omitempty" bson:"deadline,omitempty"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
	Tasks       []Task    `json:"tasks" bson:"-" gorm:"foreignKey:ProjectID"`
}

type ProjectCreate struct {
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
	Reward      string `json:"reward" validate:"max=500"`
	Deadline    string `json:"deadline" validate:"omitempty,datetime=2006-01-02"`
}

// ProjectProgress is a project together with the state derived from its tasks.
type ProjectProgress struct {
	*Project
	Progress ProgressState `json:"progress"`
}
