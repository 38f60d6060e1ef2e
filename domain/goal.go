package domain

import "time"

// Goal is a longer-horizon objective tracked by percent progress between a
// start and a target date. Progress stays within [0,100].
type Goal struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	StartDate   string    `json:"startDate"`
	TargetDate  string    `json:"targetDate"`
	Category    string    `json:"category,omitempty"`
	Progress    int       `json:"progress"`
	Milestones  []string  `json:"milestones,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// IsCompleted reports whether the goal reached full progress.
func (g Goal) IsCompleted() bool { return g.Progress == 100 }
