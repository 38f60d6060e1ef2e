package domain

import "time"

// Task priority levels, highest first.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// Task represents a single actionable to-do item with a due date and priority.
// DueDate is a calendar date in ISO form (2006-01-02); Reminder, when set, is a
// point in time the reminder check matches against.
type Task struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description,omitempty"`
	DueDate       string    `json:"dueDate"`
	Priority      string    `json:"priority"`
	Subject       string    `json:"subject,omitempty"`
	EstimatedTime float64   `json:"estimatedTime"`
	Reminder      string    `json:"reminder,omitempty"`
	Tags          []string  `json:"tags,omitempty"`
	Completed     bool      `json:"completed"`
	ReminderShown bool      `json:"reminderShown,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
