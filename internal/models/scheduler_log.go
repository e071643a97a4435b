package models

import (
	"time"
)

// Scheduler run states recorded in scheduler_logs
const (
	SchedulerStatusStart   = "START"
	SchedulerStatusRunning = "RUNNING"
	SchedulerStatusSuccess = "SUCCESS"
	SchedulerStatusFailed  = "FAILED"
)

// SchedulerLog represents the scheduler_logs table
type SchedulerLog struct {
	ID            uint      `json:"id" gorm:"primarykey"`
	DocumentID    string    `json:"documentId" gorm:"column:document_id;index"`
	SchedulerCode string    `json:"schedulerCode" gorm:"column:scheduler_code;index"`
	Message       string    `json:"message" gorm:"column:message"`
	Status        string    `json:"status" gorm:"column:status;type:varchar(20)"`
	CreatedAt     time.Time `json:"createdAt"`
}

// TableName sets the insert table name for SchedulerLog
func (SchedulerLog) TableName() string {
	return "scheduler_logs"
}
