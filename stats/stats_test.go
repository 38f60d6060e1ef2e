package stats

import (
	"reflect"
	"testing"
	"time"

	"studyplan-api/domain"
)

var testToday = time.Date(2024, 1, 5, 14, 30, 0, 0, time.UTC) // a Friday

func TestDashboardCountsOverdueByCalendarDate(t *testing.T) {
	tasks := []domain.Task{
		{ID: "t1", Title: "Essay", DueDate: "2024-01-01", Priority: domain.PriorityHigh},
		{ID: "t2", Title: "Due today", DueDate: "2024-01-05"},
		{ID: "t3", Title: "Done late", DueDate: "2024-01-01", Completed: true},
		{ID: "t4", Title: "Future", DueDate: "2024-02-01"},
	}
	goals := []domain.Goal{
		{ID: "g1", Progress: 100},
		{ID: "g2", Progress: 40},
	}
	sessions := []domain.StudySession{
		{ID: "s1", Duration: 1.5, Date: "2024-01-04"},
		{ID: "s2", Duration: 2, Date: "2024-01-05"},
	}

	c := Dashboard(tasks, goals, sessions, testToday)

	if c.TotalTasks != 4 {
		t.Fatalf("total tasks = %d, want 4", c.TotalTasks)
	}
	if c.CompletedTasks != 1 {
		t.Fatalf("completed tasks = %d, want 1", c.CompletedTasks)
	}
	if c.ActiveGoals != 1 {
		t.Fatalf("active goals = %d, want 1", c.ActiveGoals)
	}
	if c.TotalStudyHours != 3.5 {
		t.Fatalf("total study hours = %v, want 3.5", c.TotalStudyHours)
	}
	// Only the Essay: a task due today is not overdue, completed tasks never are.
	if c.OverdueTasks != 1 {
		t.Fatalf("overdue tasks = %d, want 1", c.OverdueTasks)
	}
}

func TestLast7DaysOrderedOldestToToday(t *testing.T) {
	sessions := []domain.StudySession{
		{ID: "s1", Duration: 2, Date: "2023-12-30"},
		{ID: "s2", Duration: 1, Date: "2024-01-05"},
		{ID: "s3", Duration: 0.5, Date: "2024-01-05"},
		{ID: "s4", Duration: 3, Date: "2023-12-20"}, // outside the window
	}

	series := Last7Days(sessions, testToday)

	wantLabels := []string{"Sat", "Sun", "Mon", "Tue", "Wed", "Thu", "Fri"}
	if !reflect.DeepEqual(series.Labels, wantLabels) {
		t.Fatalf("labels = %v, want %v", series.Labels, wantLabels)
	}
	wantCounts := []int{1, 0, 0, 0, 0, 0, 2}
	if !reflect.DeepEqual(series.TasksCompleted, wantCounts) {
		t.Fatalf("counts = %v, want %v", series.TasksCompleted, wantCounts)
	}
	wantHours := []float64{2, 0, 0, 0, 0, 0, 1.5}
	if !reflect.DeepEqual(series.StudyHours, wantHours) {
		t.Fatalf("hours = %v, want %v", series.StudyHours, wantHours)
	}
}

func TestMostProductiveDay(t *testing.T) {
	tests := []struct {
		name     string
		sessions []domain.StudySession
		want     string
	}{
		{name: "no sessions", sessions: nil, want: ""},
		{
			name: "single best day",
			sessions: []domain.StudySession{
				{Duration: 1, Date: "2024-01-01"}, // Monday
				{Duration: 3, Date: "2024-01-02"}, // Tuesday
				{Duration: 2, Date: "2024-01-09"}, // Tuesday
				{Duration: 4, Date: "2024-01-03"}, // Wednesday
			},
			want: "Tuesday",
		},
		{
			name: "tie keeps earliest weekday",
			sessions: []domain.StudySession{
				{Duration: 2, Date: "2024-01-03"}, // Wednesday
				{Duration: 2, Date: "2024-01-01"}, // Monday
			},
			want: "Monday",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MostProductiveDay(tt.sessions); got != tt.want {
				t.Fatalf("MostProductiveDay() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMostProductiveSubject(t *testing.T) {
	tasks := []domain.Task{
		{Subject: "Math", Completed: true},
		{Subject: "History", Completed: true},
		{Subject: "Math", Completed: true},
		{Subject: "Physics", Completed: false},
		{Subject: "", Completed: true},
	}
	if got := MostProductiveSubject(tasks); got != "Math" {
		t.Fatalf("MostProductiveSubject() = %q, want Math", got)
	}
	if got := MostProductiveSubject(nil); got != "" {
		t.Fatalf("MostProductiveSubject(nil) = %q, want empty", got)
	}
}

func TestAvgCompletionTimeRoundsPartialDaysUp(t *testing.T) {
	created := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	tasks := []domain.Task{
		{Completed: true, CreatedAt: created, UpdatedAt: created.Add(36 * time.Hour)}, // 2 days
		{Completed: true, CreatedAt: created, UpdatedAt: created.Add(24 * time.Hour)}, // 1 day
		{Completed: false, CreatedAt: created, UpdatedAt: created.Add(240 * time.Hour)},
	}

	avg, ok := AvgCompletionTime(tasks)
	if !ok {
		t.Fatal("expected an average for completed tasks")
	}
	if avg != 1.5 {
		t.Fatalf("avg completion = %v, want 1.5", avg)
	}

	if _, ok := AvgCompletionTime(nil); ok {
		t.Fatal("expected no average without completed tasks")
	}
}

func TestStreakDays(t *testing.T) {
	tests := []struct {
		name     string
		streak   domain.Streak
		sessions []domain.StudySession
		want     int
	}{
		{name: "no study history", streak: domain.Streak{}, want: 0},
		{
			name:   "session today keeps stored value",
			streak: domain.Streak{Days: 5, LastStudyDate: "2024-01-05"},
			sessions: []domain.StudySession{
				{Date: "2024-01-05", Duration: 1},
			},
			want: 5,
		},
		{
			name:   "last study yesterday keeps streak pending",
			streak: domain.Streak{Days: 3, LastStudyDate: "2024-01-04"},
			want:   3,
		},
		{
			name:   "gap breaks streak",
			streak: domain.Streak{Days: 7, LastStudyDate: "2024-01-02"},
			want:   0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StreakDays(tt.streak, tt.sessions, testToday); got != tt.want {
				t.Fatalf("StreakDays() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestAvgDailyStudyRoundsToOneDecimal(t *testing.T) {
	sessions := []domain.StudySession{
		{Date: "2024-01-01", Duration: 1},
		{Date: "2024-01-01", Duration: 0.5},
		{Date: "2024-01-02", Duration: 0.43},
	}
	if got := AvgDailyStudy(sessions); got != 1.0 {
		t.Fatalf("AvgDailyStudy() = %v, want 1.0", got)
	}
	if got := AvgDailyStudy(nil); got != 0 {
		t.Fatalf("AvgDailyStudy(nil) = %v, want 0", got)
	}
}
