// Package stats derives dashboard counters, trend series and advisory
// insights from planner state. All functions are pure: they read the
// collections they are handed and never mutate or persist anything. Functions
// that depend on the calendar take the reference time explicitly.
package stats

import (
	"math"
	"time"

	"studyplan-api/domain"
)

const isoDate = "2006-01-02"

// Counters aggregates the dashboard numbers derived from current planner state.
type Counters struct {
	TotalTasks      int     `json:"totalTasks"`
	CompletedTasks  int     `json:"completedTasks"`
	ActiveGoals     int     `json:"activeGoals"`
	TotalStudyHours float64 `json:"totalStudyHours"`
	OverdueTasks    int     `json:"overdueTasks"`
}

// Dashboard computes the headline counters. A task is overdue when its due
// date falls strictly before today's calendar date and it is not completed;
// the time of day plays no part in the comparison.
func Dashboard(tasks []domain.Task, goals []domain.Goal, sessions []domain.StudySession, today time.Time) Counters {
	c := Counters{TotalTasks: len(tasks)}
	for _, t := range tasks {
		if t.Completed {
			c.CompletedTasks++
		}
	}
	for _, g := range goals {
		if g.Progress < 100 {
			c.ActiveGoals++
		}
	}
	for _, s := range sessions {
		c.TotalStudyHours += s.Duration
	}
	c.OverdueTasks = OverdueTasks(tasks, today)
	return c
}

// OverdueTasks counts incomplete tasks whose due date is before today.
func OverdueTasks(tasks []domain.Task, today time.Time) int {
	todayKey := today.Format(isoDate)
	overdue := 0
	for _, t := range tasks {
		if !t.Completed && t.DueDate != "" && t.DueDate < todayKey {
			overdue++
		}
	}
	return overdue
}

// WeeklySeries holds parallel per-day sequences for the trailing week, oldest
// first, ending with today.
type WeeklySeries struct {
	Labels         []string  `json:"labels"`
	TasksCompleted []int     `json:"tasksCompleted"`
	StudyHours     []float64 `json:"studyHours"`
}

// Last7Days buckets study sessions into the seven calendar days ending today.
// Sessions match a day by exact date-string equality.
func Last7Days(sessions []domain.StudySession, today time.Time) WeeklySeries {
	series := WeeklySeries{
		Labels:         make([]string, 0, 7),
		TasksCompleted: make([]int, 0, 7),
		StudyHours:     make([]float64, 0, 7),
	}
	for i := 6; i >= 0; i-- {
		day := today.AddDate(0, 0, -i)
		key := day.Format(isoDate)
		count := 0
		hours := 0.0
		for _, s := range sessions {
			if s.Date == key {
				count++
				hours += s.Duration
			}
		}
		series.Labels = append(series.Labels, day.Format("Mon"))
		series.TasksCompleted = append(series.TasksCompleted, count)
		series.StudyHours = append(series.StudyHours, hours)
	}
	return series
}

// MostProductiveDay returns the weekday name with the greatest summed session
// duration, or the empty string when no sessions are recorded. Ties keep the
// earliest weekday in Sunday-first order.
func MostProductiveDay(sessions []domain.StudySession) string {
	var totals [7]float64
	seen := false
	for _, s := range sessions {
		day, err := time.Parse(isoDate, s.Date)
		if err != nil {
			continue
		}
		totals[day.Weekday()] += s.Duration
		seen = true
	}
	if !seen {
		return ""
	}
	best := time.Sunday
	for wd := time.Monday; wd <= time.Saturday; wd++ {
		if totals[wd] > totals[best] {
			best = wd
		}
	}
	return best.String()
}

// MostProductiveSubject returns the subject with the most completed tasks, or
// the empty string when no completed task carries a subject. Ties keep the
// first subject encountered.
func MostProductiveSubject(tasks []domain.Task) string {
	counts := make(map[string]int)
	order := make([]string, 0, 4)
	for _, t := range tasks {
		if !t.Completed || t.Subject == "" {
			continue
		}
		if _, ok := counts[t.Subject]; !ok {
			order = append(order, t.Subject)
		}
		counts[t.Subject]++
	}
	best := ""
	bestCount := 0
	for _, subject := range order {
		if counts[subject] > bestCount {
			best = subject
			bestCount = counts[subject]
		}
	}
	return best
}

// AvgCompletionTime returns the mean number of days between creation and the
// last update of completed tasks. The second result is false when no task is
// completed. Partial days round up.
func AvgCompletionTime(tasks []domain.Task) (float64, bool) {
	total := 0
	completed := 0
	for _, t := range tasks {
		if !t.Completed {
			continue
		}
		total += ceilDays(t.UpdatedAt.Sub(t.CreatedAt))
		completed++
	}
	if completed == 0 {
		return 0, false
	}
	return float64(total) / float64(completed), true
}

func ceilDays(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(d.Hours() / 24))
}

// StreakDays reads the streak without advancing it. The stored value holds as
// long as a session exists for today or the last recorded study day was
// exactly yesterday; otherwise the streak is broken and 0 is returned. The
// counter itself only moves through the store's streak refresh.
func StreakDays(streak domain.Streak, sessions []domain.StudySession, today time.Time) int {
	if streak.LastStudyDate == "" {
		return 0
	}
	todayKey := today.Format(isoDate)
	for _, s := range sessions {
		if s.Date == todayKey {
			return streak.Days
		}
	}
	yesterdayKey := today.AddDate(0, 0, -1).Format(isoDate)
	if streak.LastStudyDate == yesterdayKey {
		return streak.Days
	}
	return 0
}

// StudyDays counts the distinct calendar dates with at least one session.
func StudyDays(sessions []domain.StudySession) int {
	seen := make(map[string]struct{}, len(sessions))
	for _, s := range sessions {
		seen[s.Date] = struct{}{}
	}
	return len(seen)
}

// AvgDailyStudy is the total study hours divided by the number of distinct
// study days, rounded to one decimal place, 0 when nothing was recorded yet.
func AvgDailyStudy(sessions []domain.StudySession) float64 {
	days := StudyDays(sessions)
	if days == 0 {
		return 0
	}
	total := 0.0
	for _, s := range sessions {
		total += s.Duration
	}
	return math.Round(total/float64(days)*10) / 10
}

// AvgGoalProgress is the rounded mean progress across all goals, 0 when there
// are none.
func AvgGoalProgress(goals []domain.Goal) int {
	if len(goals) == 0 {
		return 0
	}
	sum := 0
	for _, g := range goals {
		sum += g.Progress
	}
	return int(math.Round(float64(sum) / float64(len(goals))))
}
