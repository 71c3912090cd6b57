package models

import (
	"time"

	"gorm.io/gorm"
)

type TaskPriority string

const (
	PriorityLow    TaskPriority = "Low"
	PriorityMedium TaskPriority = "Medium"
	PriorityHigh   TaskPriority = "High"
)

type TaskStatus string

const (
	TaskStatusActive    TaskStatus = "Active"
	TaskStatusCompleted TaskStatus = "Completed"
	TaskStatusPending   TaskStatus = "Pending"
)

type Task struct {
	ID          uint64         `gorm:"primarykey" json:"id"`
	Title       string         `gorm:"not null" json:"title"`
	Description string         `gorm:"type:text;not null" json:"description"`
	Priority    TaskPriority   `gorm:"type:varchar(20);not null;default:'Low'" json:"priority"`
	EndDate     time.Time      `gorm:"not null" json:"endDate"`
	Status      TaskStatus     `gorm:"type:varchar(20);not null;default:'Pending'" json:"status"`
	UserID      uint64         `gorm:"not null;index" json:"user_id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"-"`
}

func ValidPriority(p TaskPriority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

func ValidStatus(s TaskStatus) bool {
	switch s {
	case TaskStatusActive, TaskStatusCompleted, TaskStatusPending:
		return true
	}
	return false
}
