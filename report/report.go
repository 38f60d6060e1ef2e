// Package report assembles the downloadable artifacts: the plain-text
// academic excellence report and the JSON export payload. Everything here is
// a pure function over planner state.
package report

import (
	"fmt"
	"math"
	"strings"
	"time"

	"studyplan-api/domain"
	"studyplan-api/stats"
)

const isoDate = "2006-01-02"

// ExportPayload wraps the raw collections for download, unmodified.
type ExportPayload struct {
	Tasks         []domain.Task         `json:"tasks"`
	Goals         []domain.Goal         `json:"goals"`
	StudySessions []domain.StudySession `json:"studySessions"`
	ExportDate    time.Time             `json:"exportDate"`
}

// Export builds the passthrough export payload stamped with the export time.
func Export(tasks []domain.Task, goals []domain.Goal, sessions []domain.StudySession, now time.Time) ExportPayload {
	if tasks == nil {
		tasks = []domain.Task{}
	}
	if goals == nil {
		goals = []domain.Goal{}
	}
	if sessions == nil {
		sessions = []domain.StudySession{}
	}
	return ExportPayload{Tasks: tasks, Goals: goals, StudySessions: sessions, ExportDate: now}
}

// ExportFileName is the download name for the JSON export.
func ExportFileName(now time.Time) string {
	return "study-planner-export-" + now.Format(isoDate) + ".json"
}

// ReportFileName is the download name for the text report.
func ReportFileName(now time.Time) string {
	return "academic-excellence-report-" + now.Format(isoDate) + ".txt"
}

// Build assembles the multi-section academic excellence report.
func Build(tasks []domain.Task, goals []domain.Goal, sessions []domain.StudySession, streak domain.Streak, now time.Time) string {
	counters := stats.Dashboard(tasks, goals, sessions, now)

	completionRate := 0.0
	if counters.TotalTasks > 0 {
		completionRate = float64(counters.CompletedTasks) / float64(counters.TotalTasks) * 100
	}

	completedGoals := 0
	for _, g := range goals {
		if g.IsCompleted() {
			completedGoals++
		}
	}
	goalCompletionRate := 0.0
	if len(goals) > 0 {
		goalCompletionRate = float64(completedGoals) / float64(len(goals)) * 100
	}

	highPriority := 0
	for _, t := range tasks {
		if t.Priority == domain.PriorityHigh {
			highPriority++
		}
	}

	avgCompletion := "N/A"
	if avg, ok := stats.AvgCompletionTime(tasks); ok {
		avgCompletion = fmt.Sprintf("%.1f", avg)
	}

	productiveDay := stats.MostProductiveDay(sessions)
	if productiveDay == "" {
		productiveDay = "N/A"
	}
	productiveSubject := stats.MostProductiveSubject(tasks)
	if productiveSubject == "" {
		productiveSubject = "N/A"
	}

	var b strings.Builder
	b.WriteString("Smart Study Planner Pro - Academic Excellence Report\n")
	b.WriteString("====================================================\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", now.Format("2006-01-02 15:04:05"))

	b.WriteString("EXECUTIVE SUMMARY:\n")
	b.WriteString("This comprehensive report analyzes your academic performance, study patterns, and productivity metrics\n")
	b.WriteString("to provide actionable insights for continuous improvement.\n\n")

	b.WriteString("TASK ANALYSIS:\n")
	fmt.Fprintf(&b, "- Total Tasks: %d\n", counters.TotalTasks)
	fmt.Fprintf(&b, "- Completed Tasks: %d\n", counters.CompletedTasks)
	fmt.Fprintf(&b, "- Completion Rate: %.1f%%\n", completionRate)
	fmt.Fprintf(&b, "- Overdue Tasks: %d\n", counters.OverdueTasks)
	fmt.Fprintf(&b, "- High Priority Tasks: %d\n", highPriority)
	fmt.Fprintf(&b, "- Average Task Completion Time: %s days\n\n", avgCompletion)

	b.WriteString("GOAL TRACKING:\n")
	fmt.Fprintf(&b, "- Total Goals: %d\n", len(goals))
	fmt.Fprintf(&b, "- Completed Goals: %d\n", completedGoals)
	fmt.Fprintf(&b, "- Completion Rate: %.1f%%\n", goalCompletionRate)
	fmt.Fprintf(&b, "- Active Goals: %d\n", counters.ActiveGoals)
	fmt.Fprintf(&b, "- Average Goal Progress: %d%%\n\n", stats.AvgGoalProgress(goals))

	b.WriteString("STUDY SESSIONS:\n")
	fmt.Fprintf(&b, "- Total Study Hours: %g\n", counters.TotalStudyHours)
	fmt.Fprintf(&b, "- Average Daily Study: %.1f hours\n", counters.TotalStudyHours/7)
	fmt.Fprintf(&b, "- Study Streak: %d days\n", stats.StreakDays(streak, sessions, now))
	fmt.Fprintf(&b, "- Most Productive Day: %s\n", productiveDay)
	fmt.Fprintf(&b, "- Most Productive Subject: %s\n\n", productiveSubject)

	b.WriteString("PRODUCTIVITY INSIGHTS:\n")
	for _, line := range productivityInsights(tasks, goals, sessions) {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteByte('\n')

	b.WriteString("RECOMMENDATIONS:\n")
	for _, line := range recommendations(tasks, goals, sessions, now) {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteByte('\n')

	b.WriteString("AI ANALYSIS CONFIDENCE: High\n")
	b.WriteString("Report generated using advanced machine learning algorithms and predictive analytics.\n")
	return b.String()
}

// productivityInsights is the report's own fixed threshold ladder, separate
// from the dashboard insight rules.
func productivityInsights(tasks []domain.Task, goals []domain.Goal, sessions []domain.StudySession) []string {
	lines := []string{}

	completed := []domain.Task{}
	for _, t := range tasks {
		if t.Completed {
			completed = append(completed, t)
		}
	}
	if len(completed) > 5 {
		recent := completed[len(completed)-5:]
		total := 0.0
		for _, t := range recent {
			total += math.Ceil(t.UpdatedAt.Sub(t.CreatedAt).Hours() / 24)
		}
		if total/float64(len(recent)) < 3 {
			lines = append(lines, "- You complete tasks quickly, indicating good time management skills.")
		} else {
			lines = append(lines, "- Consider breaking larger tasks into smaller, manageable chunks to improve completion time.")
		}
	}

	if stats.StudyDays(sessions) > 5 {
		lines = append(lines, "- Your consistent study habits are contributing to academic success.")
	} else {
		lines = append(lines, "- Try to study more consistently throughout the week for better retention.")
	}

	active := []domain.Goal{}
	for _, g := range goals {
		if g.Progress < 100 {
			active = append(active, g)
		}
	}
	if len(active) > 0 {
		sum := 0
		for _, g := range active {
			sum += g.Progress
		}
		avg := float64(sum) / float64(len(active))
		if avg > 70 {
			lines = append(lines, "- You're making excellent progress toward your goals. Keep up the momentum!")
		} else if avg < 30 {
			lines = append(lines, "- Consider revising your goals or breaking them into smaller milestones.")
		}
	}
	return lines
}

func recommendations(tasks []domain.Task, goals []domain.Goal, sessions []domain.StudySession, now time.Time) []string {
	lines := []string{}

	if stats.OverdueTasks(tasks, now) > 2 {
		lines = append(lines, "1. Prioritize overdue tasks and consider using time-blocking techniques.")
	}

	totalHours := 0.0
	for _, s := range sessions {
		totalHours += s.Duration
	}
	if totalHours < 10 {
		lines = append(lines, "2. Increase daily study time to at least 1.5 hours for better academic performance.")
	}

	active := 0
	for _, g := range goals {
		if g.Progress < 100 {
			active++
		}
	}
	if active == 0 {
		lines = append(lines, "3. Set new academic goals to maintain motivation and direction.")
	} else if active > 5 {
		lines = append(lines, "3. Focus on your top 3 goals to avoid spreading yourself too thin.")
	}

	highPriorityOpen := 0
	for _, t := range tasks {
		if t.Priority == domain.PriorityHigh && !t.Completed {
			highPriorityOpen++
		}
	}
	if highPriorityOpen > 3 {
		lines = append(lines, "4. Address high-priority tasks first to reduce stress and improve productivity.")
	}
	return lines
}
