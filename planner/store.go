// Package planner owns the study-planner collections for one user: tasks,
// goals, study sessions, the streak counter and the UI theme. A Store is
// loaded explicitly, every mutator persists synchronously before returning,
// and registered subscribers run after each successful mutation so callers
// can re-derive statistics. A Store is not safe for concurrent use; callers
// serialize access to it.
package planner

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"studyplan-api/domain"
	"studyplan-api/stats"
	"studyplan-api/storage"
)

const isoDate = "2006-01-02"

// Store holds the planner state of a single user together with its
// persistence backend.
type Store struct {
	db     *storage.Storage
	userID string
	now    func() time.Time

	tasks    []domain.Task
	goals    []domain.Goal
	sessions []domain.StudySession
	streak   domain.Streak
	theme    string

	subscribers []func()
}

// Load reads all collections for the user and returns a ready Store. Missing
// collections start empty.
func Load(ctx context.Context, db *storage.Storage, userID string) (*Store, error) {
	tasks, err := db.LoadTasks(ctx, userID)
	if err != nil {
		return nil, err
	}
	goals, err := db.LoadGoals(ctx, userID)
	if err != nil {
		return nil, err
	}
	sessions, err := db.LoadSessions(ctx, userID)
	if err != nil {
		return nil, err
	}
	streak, err := db.LoadStreak(ctx, userID)
	if err != nil {
		return nil, err
	}
	theme, err := db.LoadTheme(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Store{
		db:       db,
		userID:   userID,
		now:      time.Now,
		tasks:    tasks,
		goals:    goals,
		sessions: sessions,
		streak:   streak,
		theme:    theme,
	}, nil
}

// WithClock replaces the wall-clock source used for timestamps and date math.
func (s *Store) WithClock(now func() time.Time) *Store {
	if now != nil {
		s.now = now
	}
	return s
}

// Subscribe registers fn to run after every successful mutation.
func (s *Store) Subscribe(fn func()) {
	s.subscribers = append(s.subscribers, fn)
}

func (s *Store) notify() {
	for _, fn := range s.subscribers {
		fn()
	}
}

// Tasks returns the task collection. Callers treat it as a read-only snapshot.
func (s *Store) Tasks() []domain.Task { return s.tasks }

// Goals returns the goal collection.
func (s *Store) Goals() []domain.Goal { return s.goals }

// Sessions returns the study session collection.
func (s *Store) Sessions() []domain.StudySession { return s.sessions }

// Streak returns the persisted streak state.
func (s *Store) Streak() domain.Streak { return s.streak }

// Theme returns the persisted UI theme.
func (s *Store) Theme() string { return s.theme }

// Now returns the store's current wall-clock time.
func (s *Store) Now() time.Time { return s.now() }

// TaskFields carries the caller-editable portion of a task.
type TaskFields struct {
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	DueDate       string   `json:"dueDate"`
	Priority      string   `json:"priority"`
	Subject       string   `json:"subject"`
	EstimatedTime float64  `json:"estimatedTime"`
	Reminder      string   `json:"reminder"`
	Tags          []string `json:"tags"`
}

func (f TaskFields) validate() error {
	if strings.TrimSpace(f.Title) == "" || strings.TrimSpace(f.DueDate) == "" {
		return ValidationError{Reason: "title and due date are required"}
	}
	if f.EstimatedTime < 0 {
		return ValidationError{Reason: "estimated time must not be negative"}
	}
	return nil
}

func (f TaskFields) applyTo(t *domain.Task) {
	t.Title = f.Title
	t.Description = f.Description
	t.DueDate = f.DueDate
	t.Priority = f.Priority
	t.Subject = f.Subject
	t.EstimatedTime = f.EstimatedTime
	t.Reminder = f.Reminder
	t.Tags = f.Tags
}

// CreateTask validates the fields, assigns a fresh id and timestamps, appends
// the task and persists the collection.
func (s *Store) CreateTask(ctx context.Context, fields TaskFields) (domain.Task, error) {
	if err := fields.validate(); err != nil {
		return domain.Task{}, err
	}
	now := s.now()
	task := domain.Task{
		ID:        uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	fields.applyTo(&task)

	s.tasks = append(s.tasks, task)
	if err := s.db.SaveTasks(ctx, s.userID, s.tasks); err != nil {
		s.tasks = s.tasks[:len(s.tasks)-1]
		return domain.Task{}, err
	}
	s.notify()
	return task, nil
}

// UpdateTask replaces the editable fields of the task with the given id and
// refreshes its update timestamp. An unknown id is silently ignored; the
// second result reports whether a task was updated.
func (s *Store) UpdateTask(ctx context.Context, id string, fields TaskFields) (domain.Task, bool, error) {
	if err := fields.validate(); err != nil {
		return domain.Task{}, false, err
	}
	idx := s.taskIndex(id)
	if idx < 0 {
		return domain.Task{}, false, nil
	}
	prev := s.tasks[idx]
	fields.applyTo(&s.tasks[idx])
	s.tasks[idx].UpdatedAt = s.now()

	if err := s.db.SaveTasks(ctx, s.userID, s.tasks); err != nil {
		s.tasks[idx] = prev
		return domain.Task{}, false, err
	}
	s.notify()
	return s.tasks[idx], true, nil
}

// DeleteTask removes the task with the given id. Deleting an unknown id is a
// no-op, so the operation is idempotent.
func (s *Store) DeleteTask(ctx context.Context, id string) error {
	idx := s.taskIndex(id)
	if idx < 0 {
		return nil
	}
	prev := s.tasks
	s.tasks = append(append([]domain.Task{}, s.tasks[:idx]...), s.tasks[idx+1:]...)
	if err := s.db.SaveTasks(ctx, s.userID, s.tasks); err != nil {
		s.tasks = prev
		return err
	}
	s.notify()
	return nil
}

// ToggleTaskComplete flips the completion state of the task with the given id.
// Completing a task appends one study session using its estimated time (one
// hour when unset) dated today; reopening appends nothing and removes nothing.
// The streak is refreshed afterwards. An unknown id is silently ignored.
func (s *Store) ToggleTaskComplete(ctx context.Context, id string) (domain.Task, bool, error) {
	idx := s.taskIndex(id)
	if idx < 0 {
		return domain.Task{}, false, nil
	}
	now := s.now()
	prev := s.tasks[idx]
	task := &s.tasks[idx]
	task.Completed = !task.Completed
	task.UpdatedAt = now

	sessionAdded := false
	if task.Completed {
		duration := task.EstimatedTime
		if duration == 0 {
			duration = 1
		}
		s.sessions = append(s.sessions, domain.StudySession{
			ID:        uuid.NewString(),
			TaskID:    task.ID,
			TaskTitle: task.Title,
			Duration:  duration,
			Date:      now.Format(isoDate),
			Timestamp: now,
		})
		sessionAdded = true
		if err := s.db.SaveSessions(ctx, s.userID, s.sessions); err != nil {
			s.sessions = s.sessions[:len(s.sessions)-1]
			s.tasks[idx] = prev
			return domain.Task{}, false, err
		}
	}

	if err := s.db.SaveTasks(ctx, s.userID, s.tasks); err != nil {
		if sessionAdded {
			s.sessions = s.sessions[:len(s.sessions)-1]
		}
		s.tasks[idx] = prev
		return domain.Task{}, false, err
	}

	if _, err := s.RefreshStreak(ctx); err != nil {
		return domain.Task{}, false, err
	}
	s.notify()
	return s.tasks[idx], true, nil
}

func (s *Store) taskIndex(id string) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// GoalFields carries the caller-editable portion of a goal.
type GoalFields struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	StartDate   string   `json:"startDate"`
	TargetDate  string   `json:"targetDate"`
	Category    string   `json:"category"`
	Progress    int      `json:"progress"`
	Milestones  []string `json:"milestones"`
}

func (f GoalFields) validate() error {
	if strings.TrimSpace(f.Title) == "" || strings.TrimSpace(f.StartDate) == "" || strings.TrimSpace(f.TargetDate) == "" {
		return ValidationError{Reason: "title, start date, and target date are required"}
	}
	start, err := time.Parse(isoDate, f.StartDate)
	if err != nil {
		return ValidationError{Reason: "invalid start date"}
	}
	target, err := time.Parse(isoDate, f.TargetDate)
	if err != nil {
		return ValidationError{Reason: "invalid target date"}
	}
	if start.After(target) {
		return ValidationError{Reason: "start date must be before target date"}
	}
	return nil
}

func (f GoalFields) applyTo(g *domain.Goal) {
	g.Title = f.Title
	g.Description = f.Description
	g.StartDate = f.StartDate
	g.TargetDate = f.TargetDate
	g.Category = f.Category
	g.Progress = clampProgress(f.Progress)
	g.Milestones = f.Milestones
}

func clampProgress(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// CreateGoal validates the fields, assigns a fresh id and timestamps, appends
// the goal and persists the collection. Progress is clamped to [0,100].
func (s *Store) CreateGoal(ctx context.Context, fields GoalFields) (domain.Goal, error) {
	if err := fields.validate(); err != nil {
		return domain.Goal{}, err
	}
	now := s.now()
	goal := domain.Goal{
		ID:        uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	fields.applyTo(&goal)

	s.goals = append(s.goals, goal)
	if err := s.db.SaveGoals(ctx, s.userID, s.goals); err != nil {
		s.goals = s.goals[:len(s.goals)-1]
		return domain.Goal{}, err
	}
	s.notify()
	return goal, nil
}

// UpdateGoal replaces the editable fields of the goal with the given id. An
// unknown id is silently ignored; the second result reports whether a goal
// was updated.
func (s *Store) UpdateGoal(ctx context.Context, id string, fields GoalFields) (domain.Goal, bool, error) {
	if err := fields.validate(); err != nil {
		return domain.Goal{}, false, err
	}
	idx := s.goalIndex(id)
	if idx < 0 {
		return domain.Goal{}, false, nil
	}
	prev := s.goals[idx]
	fields.applyTo(&s.goals[idx])
	s.goals[idx].UpdatedAt = s.now()

	if err := s.db.SaveGoals(ctx, s.userID, s.goals); err != nil {
		s.goals[idx] = prev
		return domain.Goal{}, false, err
	}
	s.notify()
	return s.goals[idx], true, nil
}

// DeleteGoal removes the goal with the given id, idempotently.
func (s *Store) DeleteGoal(ctx context.Context, id string) error {
	idx := s.goalIndex(id)
	if idx < 0 {
		return nil
	}
	prev := s.goals
	s.goals = append(append([]domain.Goal{}, s.goals[:idx]...), s.goals[idx+1:]...)
	if err := s.db.SaveGoals(ctx, s.userID, s.goals); err != nil {
		s.goals = prev
		return err
	}
	s.notify()
	return nil
}

// SetGoalProgress updates the progress of the goal with the given id, clamped
// to [0,100]. An unknown id is silently ignored.
func (s *Store) SetGoalProgress(ctx context.Context, id string, progress int) (domain.Goal, bool, error) {
	idx := s.goalIndex(id)
	if idx < 0 {
		return domain.Goal{}, false, nil
	}
	prev := s.goals[idx]
	s.goals[idx].Progress = clampProgress(progress)
	s.goals[idx].UpdatedAt = s.now()

	if err := s.db.SaveGoals(ctx, s.userID, s.goals); err != nil {
		s.goals[idx] = prev
		return domain.Goal{}, false, err
	}
	s.notify()
	return s.goals[idx], true, nil
}

func (s *Store) goalIndex(id string) int {
	for i := range s.goals {
		if s.goals[i].ID == id {
			return i
		}
	}
	return -1
}

// SetTheme persists the UI theme.
func (s *Store) SetTheme(ctx context.Context, theme string) error {
	if theme != domain.ThemeLight && theme != domain.ThemeDark {
		return ValidationError{Reason: "theme must be light or dark"}
	}
	if err := s.db.SaveTheme(ctx, s.userID, theme); err != nil {
		return err
	}
	s.theme = theme
	s.notify()
	return nil
}

// RefreshStreak recomputes the streak counter and persists it. It always
// stamps lastStudyDate with today's date, even on days without study
// activity.
func (s *Store) RefreshStreak(ctx context.Context) (int, error) {
	now := s.now()
	days := stats.StreakDays(s.streak, s.sessions, now)
	streak := domain.Streak{Days: days, LastStudyDate: now.Format(isoDate)}
	if err := s.db.SaveStreak(ctx, s.userID, streak); err != nil {
		return 0, err
	}
	s.streak = streak
	return days, nil
}
