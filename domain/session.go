package domain

import "time"

// StudySession records time spent on a task, appended when the task is marked
// complete. TaskID is a weak reference: the session survives deletion of its
// task, and TaskTitle keeps a denormalized snapshot for that case.
type StudySession struct {
	ID        string    `json:"id"`
	TaskID    string    `json:"taskId"`
	TaskTitle string    `json:"taskTitle"`
	Duration  float64   `json:"duration"`
	Date      string    `json:"date"`
	Timestamp time.Time `json:"timestamp"`
}
