package stats

import (
	"fmt"
	"time"

	"studyplan-api/domain"
)

// Confidence labels attached to insights.
const (
	ConfidenceHigh    = "High confidence"
	ConfidenceMedium  = "Medium confidence"
	ConfidenceGeneral = "General advice"
)

// Insight is a rule-triggered advisory message derived from current statistics.
type Insight struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Confidence  string `json:"confidence"`
}

// Insights evaluates the fixed advisory rules against current planner state.
// Rules are independent and every matching rule contributes an entry, in a
// fixed order. When nothing matches a single encouragement entry is returned.
func Insights(tasks []domain.Task, goals []domain.Goal, sessions []domain.StudySession, today time.Time) []Insight {
	out := []Insight{}

	completed := 0
	for _, t := range tasks {
		if t.Completed {
			completed++
		}
	}
	if len(tasks) > 5 && float64(completed)/float64(len(tasks)) > 0.8 {
		out = append(out, Insight{
			Title:       "Excellent Task Completion",
			Description: "You're completing over 80% of your tasks. Keep up the great work!",
			Confidence:  ConfidenceHigh,
		})
	}

	if overdue := OverdueTasks(tasks, today); overdue > 3 {
		out = append(out, Insight{
			Title:       "Overdue Tasks Alert",
			Description: fmt.Sprintf("You have %d overdue tasks. Consider reprioritizing or breaking them into smaller tasks.", overdue),
			Confidence:  ConfidenceHigh,
		})
	}

	if avg := AvgGoalProgress(goals); len(goals) > 0 && avg > 70 {
		out = append(out, Insight{
			Title:       "Strong Goal Progress",
			Description: fmt.Sprintf("Your average goal progress is %d%%. You're on track to achieve your objectives!", avg),
			Confidence:  ConfidenceMedium,
		})
	}

	if AvgDailyStudy(sessions) < 1 {
		out = append(out, Insight{
			Title:       "Study Time Recommendation",
			Description: "Your average daily study time is less than 1 hour. Consider increasing study sessions for better retention.",
			Confidence:  ConfidenceMedium,
		})
	}

	if day := MostProductiveDay(sessions); day != "" {
		out = append(out, Insight{
			Title:       "Optimal Study Time",
			Description: fmt.Sprintf("You're most productive on %s. Schedule important tasks during this time.", day),
			Confidence:  ConfidenceHigh,
		})
	}

	if subject := MostProductiveSubject(tasks); subject != "" {
		out = append(out, Insight{
			Title:       "Subject Strength",
			Description: fmt.Sprintf("You perform best in %s. Leverage this strength in your study plan.", subject),
			Confidence:  ConfidenceMedium,
		})
	}

	if len(out) == 0 {
		out = append(out, Insight{
			Title:       "Keep Going!",
			Description: "Consistency is key to academic success. Continue with your current study plan.",
			Confidence:  ConfidenceGeneral,
		})
	}
	return out
}
